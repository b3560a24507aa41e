// Package storage declares the persistence contracts shared by the MongoDB,
// PostgreSQL and in-memory backends.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/task-manager/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Sortable task fields, named as they appear in the API.
const (
	TaskFieldDescription = "description"
	TaskFieldCompleted   = "completed"
	TaskFieldCreatedAt   = "createdAt"
	TaskFieldUpdatedAt   = "updatedAt"
)

func IsSortableTaskField(field string) bool {
	switch field {
	case TaskFieldDescription, TaskFieldCompleted, TaskFieldCreatedAt, TaskFieldUpdatedAt:
		return true
	}
	return false
}

type TaskSort struct {
	Field string
	Desc  bool
}

// TaskQuery describes a listing of one owner's tasks. Zero Limit and Skip
// mean no limit and no skip, a nil Sort keeps insertion order.
type TaskQuery struct {
	Owner     string
	Completed *bool
	Limit     int64
	Skip      int64
	Sort      *TaskSort
}

type UserStore interface {
	// CreateUser assigns the ID and timestamps and stores the user.
	// It returns ErrDuplicateEmail if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser persists the profile fields (name, age, email, password)
	// and refreshes UpdatedAt. Tokens and avatar are left untouched.
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error

	AddToken(ctx context.Context, userID, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
	ClearTokens(ctx context.Context, userID string) error

	// SetAvatar stores the avatar image, a nil avatar removes it.
	SetAvatar(ctx context.Context, userID string, avatar []byte) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, owner, id string) (*models.Task, error)
	ListTasks(ctx context.Context, query TaskQuery) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, owner, id string) (*models.Task, error)
	DeleteTasksByOwner(ctx context.Context, owner string) (int64, error)
}

type Store interface {
	UserStore
	TaskStore

	// Migrate creates indexes or tables the backend relies on.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
