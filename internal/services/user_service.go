package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	auth   AuthService
	users  storage.UserStore
	tasks  storage.TaskStore
}

func NewUserService(
	logger zerolog.Logger,
	auth AuthService,
	users storage.UserStore,
	tasks storage.TaskStore,
) UserService {
	return &userServiceImpl{
		logger: logger,
		auth:   auth,
		users:  users,
		tasks:  tasks,
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	user := &models.User{
		Name:  strings.TrimSpace(params.Name),
		Age:   params.Age,
		Email: normalizeEmail(params.Email),
	}
	password := strings.TrimSpace(params.Password)

	err := s.validate(user, &password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("invalid user")
		return nil, err
	}

	user.Password, err = s.auth.HashPassword(password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	err = s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("email is already taken")
			return nil, ErrEmailTaken
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("created user")
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, user *models.User, params UpdateUserParams) (*models.User, error) {
	updated := *user
	if params.Name != nil {
		updated.Name = strings.TrimSpace(*params.Name)
	}
	if params.Email != nil {
		updated.Email = normalizeEmail(*params.Email)
	}
	if params.ClearAge {
		updated.Age = nil
	} else if params.Age != nil {
		age := *params.Age
		updated.Age = &age
	}

	var password *string
	if params.Password != nil {
		plain := strings.TrimSpace(*params.Password)
		password = &plain
	}

	err := s.validate(&updated, password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("invalid user update")
		return nil, err
	}

	if password != nil {
		updated.Password, err = s.auth.HashPassword(*password)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", user.ID).
				Msg("failed to hash password")
			return nil, err
		}
	}

	err = s.users.UpdateUser(ctx, &updated)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			s.logger.Error().
				Str("user_id", user.ID).
				Str("email", updated.Email).
				Msg("email is already taken")
			return nil, ErrEmailTaken
		case errors.Is(err, storage.ErrNotFound):
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated user")
	return &updated, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, user *models.User) error {
	deleted, err := s.tasks.DeleteTasksByOwner(ctx, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to delete user tasks")
		return err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int64("tasks", deleted).
		Msg("deleted user tasks")

	err = s.users.DeleteUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to delete user")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("deleted user")
	return nil
}

func (s *userServiceImpl) SetAvatar(ctx context.Context, user *models.User, r io.Reader) error {
	avatar, err := normalizeAvatar(r)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to process avatar")
		return err
	}

	err = s.storeAvatar(ctx, user.ID, avatar)
	if err != nil {
		return err
	}
	user.Avatar = avatar

	s.logger.Info().
		Str("user_id", user.ID).
		Int("size", len(avatar)).
		Msg("uploaded avatar")
	return nil
}

func (s *userServiceImpl) RemoveAvatar(ctx context.Context, user *models.User) error {
	err := s.storeAvatar(ctx, user.ID, nil)
	if err != nil {
		return err
	}
	user.Avatar = nil

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("removed avatar")
	return nil
}

func (s *userServiceImpl) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrAvatarNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}

	if len(user.Avatar) == 0 {
		s.logger.Error().
			Str("user_id", userID).
			Msg("user has no avatar")
		return nil, ErrAvatarNotFound
	}
	return user.Avatar, nil
}

func (s *userServiceImpl) storeAvatar(ctx context.Context, userID string, avatar []byte) error {
	err := s.users.SetAvatar(ctx, userID, avatar)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to store avatar")
		return err
	}
	return nil
}

// validate checks the profile fields and, when given, the plain password.
func (s *userServiceImpl) validate(user *models.User, password *string) error {
	err := checkRules(profileRules{
		Name:  user.Name,
		Email: user.Email,
		Age:   user.Age,
	})
	if err != nil || password == nil {
		return err
	}
	return checkRules(passwordRules{Password: *password})
}
