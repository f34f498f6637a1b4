package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestMeta(t *testing.T) {
	var origin auth.Origin
	handler := middleware.RequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin = auth.OriginFromContext(r.Context())
	}))

	t.Run("generates request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/permits", nil)
		req.RemoteAddr = "192.168.10.5:5555"
		req.Header.Set("User-Agent", "pos-jaga/1.0")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.NotEmpty(t, origin.RequestID)
		assert.Equal(t, origin.RequestID, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "192.168.10.5", origin.IPAddress)
		assert.Equal(t, "pos-jaga/1.0", origin.UserAgent)
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/permits", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", origin.RequestID)
		assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}, "1.1.1.1:80", "10.0.0.1"},
		{"forwarded single", map[string]string{"X-Forwarded-For": " 10.0.0.2 "}, "1.1.1.1:80", "10.0.0.2"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "1.1.1.1:80", "10.0.0.3"},
		{"remote addr", nil, "10.0.0.4:1234", "10.0.0.4"},
		{"remote addr without port", nil, "10.0.0.5", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, middleware.ClientIP(req))
		})
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := middleware.RequestMeta(middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("{}"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/permits/1/stages/satpam", nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: 7, Role: domain.RoleSatpam}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusConflict), fields["status_code"])
	assert.Equal(t, uint64(7), fields["user_id"])
	assert.Equal(t, "satpam", fields["role"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
	assert.Equal(t, 1, logs.Len())
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}

	w := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(ok()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("X-XSS-Protection"))
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}

	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/permits", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("explicit origins", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"https://izin.adipala.local"}
		h := middleware.CORS(&cfg, "production", zap.NewNop())(ok())

		assert.Equal(t, "https://izin.adipala.local", preflight(h, "https://izin.adipala.local").Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, preflight(h, "https://evil.example").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("none configured in production denies", func(t *testing.T) {
		cfg := base
		h := middleware.CORS(&cfg, "production", zap.NewNop())(ok())
		assert.Empty(t, preflight(h, "https://izin.adipala.local").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("none configured in development allows", func(t *testing.T) {
		cfg := base
		h := middleware.CORS(&cfg, "development", zap.NewNop())(ok())
		assert.Equal(t, "http://localhost:3000", preflight(h, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
		h := rl.LimitByIP(ok())
		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("limits by ip", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, RequestsPerMinuteAuth: 2}, zap.NewNop())
		h := rl.LimitByIP(ok())
		codes := make([]int, 3)
		for i := range codes {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/permits", nil)
			req.RemoteAddr = "10.9.9.9:1000"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes[i] = w.Code
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("whitelisted path and ip", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 1,
			WhitelistIPs:      []string{"127.0.0.1"},
			WhitelistPaths:    []string{"/health/*"},
		}, zap.NewNop())
		h := rl.LimitByIP(ok())
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
			req.RemoteAddr = "10.1.1.1:1000"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)

			req = httptest.NewRequest(http.MethodGet, "/api/v1/permits", nil)
			req.RemoteAddr = "127.0.0.1:1000"
			w = httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("authenticated users have their own bucket", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, RequestsPerMinuteAuth: 1}, zap.NewNop())
		h := rl.Limit(ok())
		for _, id := range []uint{1, 2} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/permits", nil)
			req.RemoteAddr = "10.2.2.2:1000"
			req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: id, Role: domain.RoleUser}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "user %d", id)
		}
	})
}
