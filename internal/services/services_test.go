package services

import (
	"context"
	"sync"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/mail"
	"github.com/adanyl0v/task-manager/internal/storage"
)

const (
	testIssuer = "task-manager-test"
	testSecret = "test-secret"
)

var testHashParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestAuthService(users storage.UserStore) AuthService {
	return NewAuthService(zerolog.Nop(), users, testHashParams, testIssuer, []byte(testSecret))
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mail.Message(nil), m.sent...)
}
