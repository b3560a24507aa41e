package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

// Store is an in-memory implementation of storage.Store. It is safe for
// concurrent use and is meant for tests and local development.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	usersByEmail map[string]string
	// tasks keeps insertion order, which is the default listing order.
	tasks []*models.Task
	now   func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]string),
		now:          time.Now,
	}
}

func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

// UserStore implementation -------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return storage.ErrDuplicateEmail
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	user.ID = id.String()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = cloneUser(user)
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if ownerID, taken := s.usersByEmail[user.Email]; taken && ownerID != user.ID {
		return storage.ErrDuplicateEmail
	}

	delete(s.usersByEmail, stored.Email)
	s.usersByEmail[user.Email] = user.ID

	stored.Name = user.Name
	stored.Age = cloneAge(user.Age)
	stored.Email = user.Email
	stored.Password = user.Password
	stored.UpdatedAt = s.now().UTC()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.usersByEmail, user.Email)
	delete(s.users, id)
	return nil
}

func (s *Store) AddToken(_ context.Context, userID, token string) error {
	return s.updateUser(userID, func(u *models.User) {
		u.Tokens = append(u.Tokens, token)
	})
}

func (s *Store) RemoveToken(_ context.Context, userID, token string) error {
	return s.updateUser(userID, func(u *models.User) {
		u.Tokens = slices.DeleteFunc(u.Tokens, func(t string) bool { return t == token })
	})
}

func (s *Store) ClearTokens(_ context.Context, userID string) error {
	return s.updateUser(userID, func(u *models.User) {
		u.Tokens = nil
	})
}

func (s *Store) SetAvatar(_ context.Context, userID string, avatar []byte) error {
	return s.updateUser(userID, func(u *models.User) {
		u.Avatar = slices.Clone(avatar)
	})
}

func (s *Store) updateUser(id string, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(user)
	user.UpdatedAt = s.now().UTC()
	return nil
}

// TaskStore implementation -------------------------------------------------

func (s *Store) CreateTask(_ context.Context, task *models.Task) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	task.ID = id.String()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := *task
	s.tasks = append(s.tasks, &stored)
	return nil
}

func (s *Store) GetTask(_ context.Context, owner, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfTask(owner, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	task := *s.tasks[i]
	return &task, nil
}

func (s *Store) ListTasks(_ context.Context, query storage.TaskQuery) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if t.Owner != query.Owner {
			continue
		}
		if query.Completed != nil && t.Completed != *query.Completed {
			continue
		}
		task := *t
		tasks = append(tasks, &task)
	}

	if query.Sort != nil && storage.IsSortableTaskField(query.Sort.Field) {
		sortTasks(tasks, *query.Sort)
	}

	if query.Skip > 0 {
		if query.Skip >= int64(len(tasks)) {
			return []*models.Task{}, nil
		}
		tasks = tasks[query.Skip:]
	}
	if query.Limit > 0 && query.Limit < int64(len(tasks)) {
		tasks = tasks[:query.Limit]
	}
	return tasks, nil
}

func (s *Store) UpdateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfTask(task.Owner, task.ID)
	if i < 0 {
		return storage.ErrNotFound
	}
	stored := s.tasks[i]
	stored.Description = task.Description
	stored.Completed = task.Completed
	stored.UpdatedAt = s.now().UTC()
	task.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeleteTask(_ context.Context, owner, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfTask(owner, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	task := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return task, nil
}

func (s *Store) DeleteTasksByOwner(_ context.Context, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *models.Task) bool { return t.Owner == owner })
	return int64(before - len(s.tasks)), nil
}

func (s *Store) indexOfTask(owner, id string) int {
	return slices.IndexFunc(s.tasks, func(t *models.Task) bool {
		return t.ID == id && t.Owner == owner
	})
}

func sortTasks(tasks []*models.Task, sort storage.TaskSort) {
	slices.SortStableFunc(tasks, func(a, b *models.Task) int {
		var c int
		switch sort.Field {
		case storage.TaskFieldDescription:
			c = strings.Compare(a.Description, b.Description)
		case storage.TaskFieldCompleted:
			c = compareBool(a.Completed, b.Completed)
		case storage.TaskFieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case storage.TaskFieldUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		}
		if sort.Desc {
			return -c
		}
		return c
	})
}

func compareBool(a, b bool) int {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return cmp.Compare(toInt(a), toInt(b))
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Age = cloneAge(u.Age)
	c.Tokens = slices.Clone(u.Tokens)
	c.Avatar = slices.Clone(u.Avatar)
	return &c
}

func cloneAge(age *float64) *float64 {
	if age == nil {
		return nil
	}
	v := *age
	return &v
}
