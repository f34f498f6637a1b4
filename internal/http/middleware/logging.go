package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"go.uber.org/zap"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging logs one line per request. Mount it after RequestMeta so the request id
// is available, and inside Authenticate to get the user fields.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			origin := auth.OriginFromContext(r.Context())

			fields := []zap.Field{
				zap.String("request_id", origin.RequestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("client_ip", origin.IPAddress),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}

			if userCtx, ok := auth.FromContext(r.Context()); ok {
				fields = append(fields,
					zap.Uint("user_id", userCtx.UserID),
					zap.String("role", string(userCtx.Role)),
				)
			}

			msg := fmt.Sprintf("%s %-30s -> %3d (%s)",
				r.Method,
				r.URL.Path,
				rw.statusCode,
				duration.Truncate(time.Microsecond),
			)
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				logger.Error(msg, fields...)
			case rw.statusCode >= http.StatusBadRequest:
				logger.Warn(msg, fields...)
			default:
				logger.Info(msg, fields...)
			}
		})
	}
}
