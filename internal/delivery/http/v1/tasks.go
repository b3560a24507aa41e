package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

type taskResponse struct {
	ID          string    `json:"_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       task.Owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Owner:       user.ID,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to create task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	params := services.ListTasksParams{
		Owner:  user.ID,
		Limit:  parseCount(c.Query("limit")),
		Skip:   parseCount(c.Query("skip")),
		SortBy: c.Query("sortBy"),
	}
	if completed, exists := c.GetQuery("completed"); exists {
		value := completed == "true"
		params.Completed = &value
	}

	tasks, err := h.tasks.ListTasks(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	c.JSON(http.StatusOK, resp)
}

// parseCount reads a limit or skip value. Anything that isn't a positive
// integer counts as absent.
func parseCount(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.GetTask(c, user.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to get task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	params := services.UpdateTaskParams{
		ID:    c.Param("id"),
		Owner: user.ID,
	}
	updates, err := bindUpdates(c, "description", "completed")
	if err == nil {
		params.Description, err = updateField[string](updates, "description")
	}
	if err == nil {
		params.Completed, err = updateField[bool](updates, "completed")
	}
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to bind updates")
		if errors.Is(err, errDisallowedUpdate) {
			abort(c, newBadRequestError(msgInvalidUpdates))
			return
		}
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.DeleteTask(c, user.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to delete task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
