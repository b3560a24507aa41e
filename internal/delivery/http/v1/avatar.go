package v1

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/services"
)

const (
	avatarFormField = "avatar"
	maxAvatarSize   = 1_000_000
	// Room for the multipart envelope around the file.
	maxAvatarRequestSize = maxAvatarSize + 64<<10
)

var avatarFilenameRegexp = regexp.MustCompile(`\.(png|jpg|jpeg)$`)

func (h *handlerImpl) HandleUploadAvatar(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarRequestSize)
	fileHeader, err := c.FormFile(avatarFormField)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to read avatar")
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			abort(c, newBadRequestError(msgFileTooLarge))
			return
		}
		abort(c, newBadRequestError(msgUploadImage))
		return
	}

	if !avatarFilenameRegexp.MatchString(fileHeader.Filename) {
		h.logger.Error().
			Str("user_id", user.ID).
			Str("filename", fileHeader.Filename).
			Msg("avatar is not an image")
		abort(c, newBadRequestError(msgUploadImage))
		return
	}
	if fileHeader.Size > maxAvatarSize {
		h.logger.Error().
			Str("user_id", user.ID).
			Int64("size", fileHeader.Size).
			Msg("avatar is too large")
		abort(c, newBadRequestError(msgFileTooLarge))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to open avatar")
		abort(c, newBadRequestError(err.Error()))
		return
	}
	defer file.Close()

	err = h.users.SetAvatar(c, user, file)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to set avatar")
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *handlerImpl) HandleDeleteAvatar(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.users.RemoveAvatar(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to remove avatar")
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *handlerImpl) HandleGetAvatar(c *gin.Context) {
	userID := c.Param("id")

	avatar, err := h.users.GetAvatar(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to get avatar")
		if errors.Is(err, services.ErrAvatarNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Data(http.StatusOK, "image/png", avatar)
}
