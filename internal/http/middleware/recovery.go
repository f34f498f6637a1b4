package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 response and an error log entry
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// let the server abort the connection
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic while serving request",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", auth.OriginFromContext(r.Context()).RequestID),
					zap.ByteString("stack", debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal Server Error","message":"An unexpected error occurred"}`))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
