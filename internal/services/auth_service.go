package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/metrics"
	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

// TokenTTL is the lifetime of every issued bearer token.
const TokenTTL = 7 * 24 * time.Hour

type authServiceImpl struct {
	logger        zerolog.Logger
	users         storage.UserStore
	hashParams    *argon2id.Params
	jwtIssuer     string
	jwtSigningKey []byte
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserStore,
	hashParams *argon2id.Params,
	jwtIssuer string,
	jwtSigningKey []byte,
) AuthService {
	if hashParams == nil {
		hashParams = argon2id.DefaultParams
	}
	return &authServiceImpl{
		logger:        logger,
		users:         users,
		hashParams:    hashParams,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
	}
}

func (s *authServiceImpl) HashPassword(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain, s.hashParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *authServiceImpl) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("user not found")
			return nil, ErrUnableToLogin
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return nil, ErrUnableToLogin
	} else if !match {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUnableToLogin
	}

	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("verified credentials")
	return user, nil
}

func (s *authServiceImpl) IssueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.generateToken(user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate token")
		return "", err
	}

	err = s.users.AddToken(ctx, user.ID, token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to store token")
		return "", err
	}
	user.Tokens = append(user.Tokens, token)
	metrics.RecordTokenIssued()

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("issued token")
	return token, nil
}

func (s *authServiceImpl) RevokeToken(ctx context.Context, user *models.User, token string) error {
	err := s.users.RemoveToken(ctx, user.ID, token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to remove token")
		return err
	}

	remaining := user.Tokens[:0]
	for _, t := range user.Tokens {
		if t != token {
			remaining = append(remaining, t)
		}
	}
	user.Tokens = remaining

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) RevokeAllTokens(ctx context.Context, user *models.User) error {
	err := s.users.ClearTokens(ctx, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to clear tokens")
		return err
	}
	user.Tokens = nil

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged out of all sessions")
	return nil
}

func (s *authServiceImpl) ParseToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("failed to parse token: missing subject")
	}
	return claims, nil
}

func (s *authServiceImpl) generateToken(userID string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
