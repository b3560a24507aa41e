package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errDisallowedUpdate   = errors.New("disallowed update")
)

// Messages returned to clients.
const (
	msgInvalidUpdates = "Invalid updates"
	msgUnableToLogin  = "Unable to login"
	msgUploadImage    = "Please upload an image"
	msgFileTooLarge   = "File too large"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// abortWithServiceError translates an error returned by the services into
// a response. Missing records are reported as 404 without a body.
func abortWithServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abort(c, newBadRequestError(validationErr.Message))
	case errors.Is(err, services.ErrEmailTaken):
		abort(c, newBadRequestError(services.ErrEmailTaken.Error()))
	case errors.Is(err, services.ErrInvalidImage):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAvatarNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
