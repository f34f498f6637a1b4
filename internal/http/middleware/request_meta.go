package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestMeta stores the caller's origin on the request context so audit entries
// can record it. An incoming X-Request-ID is kept, otherwise one is generated.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > 100 {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := auth.WithOrigin(r.Context(), auth.Origin{
			IPAddress: ClientIP(r),
			UserAgent: r.UserAgent(),
			RequestID: requestID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the caller's address, preferring proxy headers
func ClientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the first entry is the client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
