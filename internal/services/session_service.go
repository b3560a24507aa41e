package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	auth   AuthService
	users  storage.UserStore
}

func NewSessionService(
	logger zerolog.Logger,
	auth AuthService,
	users storage.UserStore,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		auth:   auth,
		users:  users,
	}
}

func (s *sessionServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.auth.ParseToken(token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to verify token")
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", claims.Subject).
				Msg("token owner not found")
			return nil, ErrInvalidToken
		}

		s.logger.Error().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("failed to select user by id")
		return nil, err
	}

	if !user.HasToken(token) {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("token was revoked")
		return nil, ErrInvalidToken
	}

	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("authenticated")
	return user, nil
}
