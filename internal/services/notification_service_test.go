package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/mail"
)

func TestNotificationService_Templates(t *testing.T) {
	mailer := &fakeMailer{}
	notifications := NewNotificationService(zerolog.Nop(), mailer, time.Second)

	notifications.SendWelcomeEmail("jane@example.com", "Jane")
	notifications.Wait()
	notifications.SendFarewellEmail("jane@example.com", "Jane")
	notifications.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, mail.Message{
		ToAddress: "jane@example.com",
		ToName:    "Jane",
		Subject:   "Welcome to Task Manager App",
		Text:      "Hello Jane, Welcome to Task Manager App",
	}, sent[0])
	assert.Equal(t, mail.Message{
		ToAddress: "jane@example.com",
		ToName:    "Jane",
		Subject:   "Good bye! :(",
		Text:      "Good bye Jane, It's sad to lose you. Good luck!",
	}, sent[1])
}

func TestNotificationService_FailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("provider is down")}
	notifications := NewNotificationService(zerolog.Nop(), mailer, 0)

	assert.NotPanics(t, func() {
		notifications.SendWelcomeEmail("jane@example.com", "Jane")
		notifications.Wait()
	})
	assert.Len(t, mailer.messages(), 1)
}
