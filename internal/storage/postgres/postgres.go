// Package postgres stores users, their tokens and tasks in PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

//go:embed schema.sql
var schema string

type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	// Without arguments pgx uses the simple protocol, which accepts
	// several statements at once.
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	userUUID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate user uuid: %w", err)
	}

	now := time.Now().UTC()
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   age,
                   email,
                   password,
                   avatar,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = s.pool.Exec(
		ctx,
		insertUserQuery,
		userUUID.String(),
		user.Name,
		user.Age,
		user.Email,
		user.Password,
		user.Avatar,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = userUUID.String()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.selectUser(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.selectUser(ctx, "email", email)
}

// selectUser loads the user row matching column = value and its tokens.
// column is never user input.
func (s *Store) selectUser(ctx context.Context, column, value string) (*models.User, error) {
	selectUserQuery := `
SELECT id,
       name,
       age,
       email,
       password,
       avatar,
       created_at,
       updated_at
FROM users
WHERE ` + column + ` = $1
`
	user := new(models.User)
	err := s.pool.QueryRow(
		ctx,
		selectUserQuery,
		value,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Age,
		&user.Email,
		&user.Password,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	const selectTokensQuery = `
SELECT token
FROM user_tokens
WHERE user_id = $1
ORDER BY id
`
	rows, err := s.pool.Query(ctx, selectTokensQuery, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to select user tokens: %w", err)
	}
	user.Tokens, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user tokens: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	const updateUserQuery = `
UPDATE users
SET name = $1,
    age = $2,
    email = $3,
    password = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := s.pool.Exec(
		ctx,
		updateUserQuery,
		user.Name,
		user.Age,
		user.Email,
		user.Password,
		now,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	const deleteUserQuery = `
DELETE FROM users
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) AddToken(ctx context.Context, userID, token string) error {
	const insertTokenQuery = `
INSERT INTO user_tokens (user_id, token)
VALUES ($1, $2)
`
	_, err := s.pool.Exec(ctx, insertTokenQuery, userID, token)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func (s *Store) RemoveToken(ctx context.Context, userID, token string) error {
	const deleteTokenQuery = `
DELETE FROM user_tokens
WHERE user_id = $1 AND token = $2
`
	_, err := s.pool.Exec(ctx, deleteTokenQuery, userID, token)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *Store) ClearTokens(ctx context.Context, userID string) error {
	const deleteTokensQuery = `
DELETE FROM user_tokens
WHERE user_id = $1
`
	_, err := s.pool.Exec(ctx, deleteTokensQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

func (s *Store) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	const updateAvatarQuery = `
UPDATE users
SET avatar = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pool.Exec(ctx, updateAvatarQuery, avatar, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate task uuid: %w", err)
	}

	now := time.Now().UTC()
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   description,
                   completed,
                   owner,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.pool.Exec(
		ctx,
		insertTaskQuery,
		taskUUID.String(),
		task.Description,
		task.Completed,
		task.Owner,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	task.ID = taskUUID.String()
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (s *Store) GetTask(ctx context.Context, owner, id string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id,
       description,
       completed,
       owner,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND owner = $2
`
	task, err := scanTask(s.pool.QueryRow(ctx, selectTaskQuery, id, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return task, nil
}

func (s *Store) ListTasks(ctx context.Context, query storage.TaskQuery) ([]*models.Task, error) {
	sql, args, err := listTasksQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to build tasks query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	const updateTaskQuery = `
UPDATE tasks
SET description = $1,
    completed = $2,
    updated_at = $3
WHERE id = $4 AND owner = $5
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Description,
		task.Completed,
		now,
		task.ID,
		task.Owner,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	task.UpdatedAt = now
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, owner, id string) (*models.Task, error) {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND owner = $2
RETURNING id, description, completed, owner, created_at, updated_at
`
	task, err := scanTask(s.pool.QueryRow(ctx, deleteTaskQuery, id, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

func (s *Store) DeleteTasksByOwner(ctx context.Context, owner string) (int64, error) {
	const deleteTasksQuery = `
DELETE FROM tasks
WHERE owner = $1
`
	tag, err := s.pool.Exec(ctx, deleteTasksQuery, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Completed,
		&task.Owner,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
