package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/mail"
	"github.com/adanyl0v/task-manager/internal/services"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
)

const (
	testIssuer = "task-manager-test"
	testSecret = "test-secret"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.Subject)
	}
	return out
}

type testServer struct {
	router        *gin.Engine
	store         *memory.Store
	mailer        *fakeMailer
	notifications services.NotificationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	store := memory.New()
	mailer := &fakeMailer{}

	hashParams := &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	auth := services.NewAuthService(logger, store, hashParams, testIssuer, []byte(testSecret))
	notifications := services.NewNotificationService(logger, mailer, 0)
	t.Cleanup(notifications.Wait)

	h := New(
		logger,
		auth,
		services.NewSessionService(logger, auth, store),
		services.NewUserService(logger, auth, store, store),
		services.NewTaskService(logger, store),
		notifications,
	)

	router := gin.New()
	router.Use(h.HandleRequestLogger)
	RegisterRoutes(router, h)

	return &testServer{
		router:        router,
		store:         store,
		mailer:        mailer,
		notifications: notifications,
	}
}

func newRequest(t *testing.T, method, path string, body io.Reader, contentType string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	if body == nil {
		return newRequest(t, method, path, nil, "")
	}

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	return newRequest(t, method, path, &buf, "application/json")
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func withToken(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(s, withToken(newJSONRequest(t, method, path, body), token))
}

func (s *testServer) signup(t *testing.T, name, email string) authResponse {
	t.Helper()

	rec := s.doJSON(t, http.MethodPost, "/users", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	decodeBody(t, rec, &resp)
	return resp
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}
