package services

import (
	"context"
	"errors"
	"io"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/task-manager/internal/models"
)

var (
	ErrUnableToLogin  = errors.New("unable to login")
	ErrInvalidToken   = errors.New("invalid token")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email is already taken")
	ErrTaskNotFound   = errors.New("task not found")
	ErrAvatarNotFound = errors.New("avatar not found")
	ErrInvalidImage   = errors.New("invalid image")
)

type AuthService interface {
	// HashPassword returns a salted one-way hash of the plain password.
	HashPassword(plain string) (string, error)

	// VerifyCredentials looks the user up by email and compares the
	// password with the stored hash.
	//
	// It returns ErrUnableToLogin both when the user doesn't exist and
	// when the password doesn't match.
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)

	// IssueToken signs a new token for the user, appends it to the
	// stored token list and to user.Tokens, and returns it.
	IssueToken(ctx context.Context, user *models.User) (string, error)

	// RevokeToken removes the given token from the user's token list.
	RevokeToken(ctx context.Context, user *models.User, token string) error

	// RevokeAllTokens empties the user's token list.
	RevokeAllTokens(ctx context.Context, user *models.User) error

	// ParseToken verifies the signature, issuer and expiry of the token
	// and returns its claims.
	ParseToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	// Authenticate resolves a bearer token to its user.
	//
	// It returns ErrInvalidToken if the token doesn't verify, its user
	// doesn't exist, or the token was revoked.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	// CreateUser validates the params, hashes the password and stores
	// the user. It returns a *ValidationError or ErrEmailTaken when the
	// user can't be created.
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)

	// UpdateUser applies params to a copy of user, validates it and
	// stores it. The password is re-hashed when it is part of params.
	UpdateUser(ctx context.Context, user *models.User, params UpdateUserParams) (*models.User, error)

	// DeleteUser removes the user's tasks and then the user.
	DeleteUser(ctx context.Context, user *models.User) error

	// SetAvatar decodes the image, fits it into a 250x250 canvas and
	// stores it as PNG. It returns ErrInvalidImage if r isn't an image.
	SetAvatar(ctx context.Context, user *models.User, r io.Reader) error
	RemoveAvatar(ctx context.Context, user *models.User) error

	// GetAvatar returns the stored PNG or ErrAvatarNotFound if the user
	// doesn't exist or has no avatar.
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTask(ctx context.Context, owner, id string) (*models.Task, error)
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, owner, id string) (*models.Task, error)
}

// NotificationService sends transactional emails in the background.
// Failures are logged and never reported to the caller.
type NotificationService interface {
	SendWelcomeEmail(email, name string)
	SendFarewellEmail(email, name string)

	// Wait blocks until every email already dispatched has been handled.
	Wait()
}

type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Age      *float64
}

// UpdateUserParams holds the fields to change, nil means unchanged.
// ClearAge removes the age and takes precedence over Age.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
	Age      *float64
	ClearAge bool
}

type CreateTaskParams struct {
	Owner       string
	Description string
	Completed   bool
}

type ListTasksParams struct {
	Owner     string
	Completed *bool
	Limit     int64
	Skip      int64
	// SortBy has the form field_direction, e.g. createdAt_desc.
	SortBy string
}

type UpdateTaskParams struct {
	ID          string
	Owner       string
	Description *string
	Completed   *bool
}
