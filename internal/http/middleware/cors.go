package middleware

import (
	"net/http"
	"slices"

	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// CORS returns a CORS middleware configured from the application config.
// A "*" origin, or no origins in a development environment, allows any origin.
// No origins outside development denies every cross-origin request.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	dev := isDevelopment(environment)

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !dev {
			logger.Warn("CORS allows any origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case dev:
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows any origin in development")
	default:
		// empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func anyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

func isDevelopment(environment string) bool {
	return environment == "" || environment == "development" || environment == "local"
}
