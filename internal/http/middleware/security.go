package middleware

import (
	"fmt"
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/config"
)

// SecurityHeaders adds the configured security headers to every response.
// Empty settings leave the header out.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := securityHeaderSet(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaderSet(cfg *config.SecurityConfig) map[string]string {
	headers := map[string]string{}
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}

	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	set("X-Frame-Options", cfg.FrameOptions)
	set("X-XSS-Protection", cfg.XSSProtection)
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Permissions-Policy", cfg.PermissionsPolicy)

	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers["Strict-Transport-Security"] = hsts
	}
	return headers
}
