package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/mail"
	"github.com/adanyl0v/task-manager/internal/metrics"
)

const (
	notificationWelcome  = "welcome"
	notificationFarewell = "farewell"
)

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type notificationServiceImpl struct {
	logger      zerolog.Logger
	mailer      Mailer
	sendTimeout time.Duration
	wg          sync.WaitGroup
}

func NewNotificationService(
	logger zerolog.Logger,
	mailer Mailer,
	sendTimeout time.Duration,
) NotificationService {
	return &notificationServiceImpl{
		logger:      logger,
		mailer:      mailer,
		sendTimeout: sendTimeout,
	}
}

func (s *notificationServiceImpl) SendWelcomeEmail(email, name string) {
	s.dispatch(notificationWelcome, mail.Message{
		ToAddress: email,
		ToName:    name,
		Subject:   "Welcome to Task Manager App",
		Text:      fmt.Sprintf("Hello %s, Welcome to Task Manager App", name),
	})
}

func (s *notificationServiceImpl) SendFarewellEmail(email, name string) {
	s.dispatch(notificationFarewell, mail.Message{
		ToAddress: email,
		ToName:    name,
		Subject:   "Good bye! :(",
		Text:      fmt.Sprintf("Good bye %s, It's sad to lose you. Good luck!", name),
	})
}

func (s *notificationServiceImpl) Wait() {
	s.wg.Wait()
}

func (s *notificationServiceImpl) dispatch(kind string, msg mail.Message) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx := context.Background()
		if s.sendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
			defer cancel()
		}

		err := s.mailer.Send(ctx, msg)
		metrics.RecordNotification(kind, err)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("kind", kind).
				Str("email", msg.ToAddress).
				Msg("failed to send email")
			return
		}

		s.logger.Info().
			Str("kind", kind).
			Str("email", msg.ToAddress).
			Msg("sent email")
	}()
}
