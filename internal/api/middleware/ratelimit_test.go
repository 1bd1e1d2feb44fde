package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(trustHeaders bool) http.Handler {
	cfg := config.RateLimitConfig{
		Enabled:      true,
		Interval:     time.Hour,
		Burst:        2,
		CacheSize:    16,
		TTL:          time.Minute,
		TrustHeaders: trustHeaders,
	}
	return RateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func requestFrom(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/task-mgmt/1", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimit(t *testing.T) {
	handler := newLimitedHandler(false)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body.Error)

	// A different client has its own budget.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitForwardedHeaders(t *testing.T) {
	t.Run("ignored when untrusted", func(t *testing.T) {
		handler := newLimitedHandler(false)
		for i, forwarded := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
			req := requestFrom("10.0.0.9:5000")
			req.Header.Set("X-Forwarded-For", forwarded)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if i < 2 {
				assert.Equal(t, http.StatusOK, w.Code)
			} else {
				assert.Equal(t, http.StatusTooManyRequests, w.Code)
			}
		}
	})

	t.Run("first forwarded address when trusted", func(t *testing.T) {
		handler := newLimitedHandler(true)
		for _, forwarded := range []string{"1.1.1.1, 10.0.0.9", "2.2.2.2", "3.3.3.3"} {
			req := requestFrom("10.0.0.9:5000")
			req.Header.Set("X-Forwarded-For", forwarded)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestClientAddr(t *testing.T) {
	req := requestFrom("192.168.1.4:8080")
	assert.Equal(t, "192.168.1.4", clientAddr(req, true))

	req.Header.Set("X-Real-Ip", "5.6.7.8")
	assert.Equal(t, "5.6.7.8", clientAddr(req, true))
	assert.Equal(t, "192.168.1.4", clientAddr(req, false))

	req = requestFrom("not-a-host-port")
	assert.Equal(t, "not-a-host-port", clientAddr(req, false))
}
