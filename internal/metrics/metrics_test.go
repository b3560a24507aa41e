package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/tasks/:id", "200"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/tasks/:id", "200"))
	assert.Equal(t, before+1, after)
}

func TestMiddleware_Unmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordNotification(t *testing.T) {
	sent := testutil.ToFloat64(notifications.WithLabelValues("welcome", "sent"))
	failed := testutil.ToFloat64(notifications.WithLabelValues("welcome", "failed"))

	RecordNotification("welcome", nil)
	RecordNotification("welcome", errors.New("boom"))

	assert.Equal(t, sent+1, testutil.ToFloat64(notifications.WithLabelValues("welcome", "sent")))
	assert.Equal(t, failed+1, testutil.ToFloat64(notifications.WithLabelValues("welcome", "failed")))
}

func TestHandler(t *testing.T) {
	RecordTokenIssued()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "task_manager_auth_tokens_issued_total"))
}
