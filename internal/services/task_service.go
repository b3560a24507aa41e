package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	task := &models.Task{
		Description: strings.TrimSpace(params.Description),
		Completed:   params.Completed,
		Owner:       params.Owner,
	}

	err := checkRules(taskRules{Description: task.Description})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.Owner).
			Msg("invalid task")
		return nil, err
	}

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.Owner).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.Owner).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, owner, id string) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, owner, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", id).
				Str("user_id", owner).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task by id")
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	query := storage.TaskQuery{
		Owner:     params.Owner,
		Completed: params.Completed,
		Limit:     max(params.Limit, 0),
		Skip:      max(params.Skip, 0),
		Sort:      parseTaskSort(params.SortBy),
	}

	tasks, err := s.tasks.ListTasks(ctx, query)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.Owner).
			Msg("failed to select tasks by owner")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", params.Owner).
		Msg("selected tasks by owner")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.GetTask(ctx, params.Owner, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Description != nil {
		task.Description = strings.TrimSpace(*params.Description)
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}

	err = checkRules(taskRules{Description: task.Description})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("invalid task update")
		return nil, err
	}

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.Owner).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.Owner).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, owner, id string) (*models.Task, error) {
	task, err := s.tasks.DeleteTask(ctx, owner, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", id).
				Str("user_id", owner).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", owner).
		Msg("deleted task")
	return task, nil
}

// parseTaskSort reads a field_direction token such as createdAt_desc.
// Unknown fields yield nil, any direction other than desc is ascending.
func parseTaskSort(sortBy string) *storage.TaskSort {
	field, direction, _ := strings.Cut(sortBy, "_")
	if !storage.IsSortableTaskField(field) {
		return nil
	}
	return &storage.TaskSort{
		Field: field,
		Desc:  direction == "desc",
	}
}
