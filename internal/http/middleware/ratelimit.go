package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter limits requests per client IP before authentication and per user after
type RateLimiter struct {
	cfg            *config.RateLimitConfig
	logger         *zap.Logger
	ipLimiter      func(http.Handler) http.Handler
	userLimiter    func(http.Handler) http.Handler
	whitelistIPs   map[string]bool
	whitelistPaths map[string]bool
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:            cfg,
		logger:         logger,
		whitelistIPs:   make(map[string]bool, len(cfg.WhitelistIPs)),
		whitelistPaths: make(map[string]bool, len(cfg.WhitelistPaths)),
	}

	for _, ip := range cfg.WhitelistIPs {
		rl.whitelistIPs[ip] = true
	}
	for _, path := range cfg.WhitelistPaths {
		rl.whitelistPaths[path] = true
	}

	rl.ipLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(keyByClientIP),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)
	rl.userLimiter = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)

	logger.Info("rate limiter initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
		zap.Strings("whitelist_ips", cfg.WhitelistIPs),
		zap.Strings("whitelist_paths", cfg.WhitelistPaths),
	)

	return rl
}

// Limit applies the per-user limit to authenticated requests and the per-IP limit
// to the rest. Mount it after Authenticate.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	user := rl.userLimiter(next)
	ip := rl.ipLimiter(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := auth.FromContext(r.Context()); ok {
			user.ServeHTTP(w, r)
			return
		}
		ip.ServeHTTP(w, r)
	})
}

// LimitByIP applies the per-IP limit. Use it in front of authentication.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := rl.ipLimiter(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	return rl.isPathWhitelisted(r.URL.Path) || rl.whitelistIPs[ClientIP(r)]
}

func keyByClientIP(r *http.Request) (string, error) {
	return "ip:" + ClientIP(r), nil
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(userCtx.UserID), 10), nil
	}
	return keyByClientIP(r)
}

// isPathWhitelisted matches exact paths and prefixes written as "/prefix/*"
func (rl *RateLimiter) isPathWhitelisted(path string) bool {
	if rl.whitelistPaths[path] {
		return true
	}
	for wp := range rl.whitelistPaths {
		if prefix, ok := strings.CutSuffix(wp, "/*"); ok && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) rateLimitExceededHandler(w http.ResponseWriter, r *http.Request) {
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", ClientIP(r)),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.Uint("user_id", userCtx.UserID))
	}
	rl.logger.Warn("rate limit exceeded", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Terlalu banyak permintaan, coba lagi nanti"}`))
}
