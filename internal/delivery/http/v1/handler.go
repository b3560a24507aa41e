package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/services"
)

type Handler interface {
	HandleCreateUser(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleLogoutAll(c *gin.Context)
	HandleGetMe(c *gin.Context)
	HandleUpdateMe(c *gin.Context)
	HandleDeleteMe(c *gin.Context)

	HandleUploadAvatar(c *gin.Context)
	HandleDeleteAvatar(c *gin.Context)
	HandleGetAvatar(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleAuthMiddleware(c *gin.Context)
	HandleRequestLogger(c *gin.Context)
	HandleNotFound(c *gin.Context)
}

type handlerImpl struct {
	logger        zerolog.Logger
	auth          services.AuthService
	sessions      services.SessionService
	users         services.UserService
	tasks         services.TaskService
	notifications services.NotificationService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	userService services.UserService,
	taskService services.TaskService,
	notificationService services.NotificationService,
) Handler {
	return &handlerImpl{
		logger:        logger,
		auth:          authService,
		sessions:      sessionService,
		users:         userService,
		tasks:         taskService,
		notifications: notificationService,
	}
}

// RegisterRoutes mounts the user and task routes on router. Every request
// that matches none of them is answered by h.HandleNotFound.
func RegisterRoutes(router *gin.Engine, h Handler) {
	users := router.Group("/users")
	users.POST("", h.HandleCreateUser)
	users.POST("/login", h.HandleLogin)
	users.GET("/:id/avatar", h.HandleGetAvatar)

	authUsers := users.Group("", h.HandleAuthMiddleware)
	authUsers.POST("/logout", h.HandleLogout)
	authUsers.POST("/logoutAll", h.HandleLogoutAll)
	authUsers.GET("/me", h.HandleGetMe)
	authUsers.PATCH("/me", h.HandleUpdateMe)
	authUsers.DELETE("/me", h.HandleDeleteMe)
	authUsers.POST("/me/avatar", h.HandleUploadAvatar)
	authUsers.DELETE("/me/avatar", h.HandleDeleteAvatar)

	tasks := router.Group("/tasks", h.HandleAuthMiddleware)
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("", h.HandleGetTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PATCH("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	router.NoRoute(h.HandleNotFound)
}
