package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *float64  `json:"age,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	resp := userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if len(user.Avatar) > 0 {
		resp.Avatar = avatarURL(user.ID)
	}
	return resp
}

func avatarURL(userID string) string {
	return "/users/" + userID + "/avatar"
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type createUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Age      *float64 `json:"age"`
}

func (h *handlerImpl) HandleCreateUser(c *gin.Context) {
	var req createUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.CreateUser(c, services.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create user")
		abortWithServiceError(c, err)
		return
	}
	h.notifications.SendWelcomeEmail(user.Email, user.Name)

	token, err := h.auth.IssueToken(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		User:  newUserResponse(user),
		Token: token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgUnableToLogin))
		return
	}

	user, err := h.auth.VerifyCredentials(c, req.Email, req.Password)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		if errors.Is(err, services.ErrUnableToLogin) {
			abort(c, newBadRequestError(msgUnableToLogin))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	token, err := h.auth.IssueToken(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:  newUserResponse(user),
		Token: token,
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	token, _ := getStringFromContext(c, tokenCtxKey)

	err := h.auth.RevokeToken(c, user, token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusOK)
}

func (h *handlerImpl) HandleLogoutAll(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.auth.RevokeAllTokens(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to logout of all sessions")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusOK)
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleUpdateMe(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	params, err := bindUpdateUserParams(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to bind updates")
		if errors.Is(err, errDisallowedUpdate) {
			abort(c, newBadRequestError(msgInvalidUpdates))
			return
		}
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	updated, err := h.users.UpdateUser(c, user, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(updated))
}

func bindUpdateUserParams(c *gin.Context) (services.UpdateUserParams, error) {
	var params services.UpdateUserParams

	updates, err := bindUpdates(c, "name", "email", "password", "age")
	if err != nil {
		return params, err
	}

	if params.Name, err = updateField[string](updates, "name"); err != nil {
		return params, err
	}
	if params.Email, err = updateField[string](updates, "email"); err != nil {
		return params, err
	}
	if params.Password, err = updateField[string](updates, "password"); err != nil {
		return params, err
	}
	if isNullUpdate(updates, "age") {
		params.ClearAge = true
	} else if params.Age, err = updateField[float64](updates, "age"); err != nil {
		return params, err
	}
	return params, nil
}

func (h *handlerImpl) HandleDeleteMe(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.users.DeleteUser(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to delete user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	h.notifications.SendFarewellEmail(user.Email, user.Name)

	c.JSON(http.StatusOK, newUserResponse(user))
}
