package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	var logBuf strings.Builder
	base := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seenTraceID string
	handler := Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates trace id", func(t *testing.T) {
		logBuf.Reset()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/task-mgmt/1", nil))

		require.NotEmpty(t, seenTraceID)
		assert.Equal(t, seenTraceID, w.Header().Get(shared.TraceIDHeader))
		assert.Contains(t, logBuf.String(), "request started")
		assert.Contains(t, logBuf.String(), "msg=\"inside handler\" trace_id="+seenTraceID)
	})

	t.Run("reuses incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/task-mgmt/1", nil)
		req.Header.Set(shared.TraceIDHeader, "caller-trace")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "caller-trace", seenTraceID)
		assert.Equal(t, "caller-trace", w.Header().Get(shared.TraceIDHeader))
	})
}

func TestTraceNilLogger(t *testing.T) {
	handler := Trace(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
