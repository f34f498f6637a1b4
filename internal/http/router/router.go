package router

import (
	"encoding/json"
	"net/http"

	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/adipala-ubp/surat-izin/internal/database"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/adipala-ubp/surat-izin/internal/http/handler"
	"github.com/adipala-ubp/surat-izin/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/adipala-ubp/surat-izin/docs" // registers swagger docs
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Permit       *handler.PermitHandler
	Approval     *handler.ApprovalHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
	Auth         *handler.AuthHandler
	Outbox       *handler.OutboxHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := rt.handlers

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.RequestMeta)
	r.Use(middleware.Logging(rt.logger))
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.Limit)

		r.Get("/auth/me", h.Auth.Me)
		r.With(rt.authMiddleware.RequireAdmin).Get("/users", h.Auth.ListUsers)

		r.Route("/permits", func(r chi.Router) {
			r.Get("/", h.Permit.List)
			r.Post("/", h.Permit.Create)
			r.Get("/by-number", h.Permit.GetByNumber)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Permit.GetByID)
				// role checks for delete, decisions and overrides live in the services
				r.Delete("/", h.Permit.Delete)
				r.Post("/approvals/{stage}", h.Approval.Submit)
				r.Post("/status", h.Approval.OverrideStatus)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager)).
					Get("/audit", h.Audit.PermitHistory)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/count", h.Notification.GetUnreadCount)
			r.Put("/read-all", h.Notification.MarkAllAsRead)
			r.Get("/{id}", h.Notification.GetByID)
			r.Put("/{id}/read", h.Notification.MarkAsRead)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAdmin)
			r.Get("/", h.Audit.List)
			r.Get("/{id}", h.Audit.GetByID)
		})

		r.Route("/admin/outbox", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAdmin)
			r.Get("/", h.Outbox.Status)
			r.Post("/dispatch", h.Outbox.Dispatch)
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"checks": map[string]interface{}{
				"database": map[string]string{"status": "unhealthy", "error": err.Error()},
			},
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"checks": map[string]interface{}{
			"database": map[string]string{"status": "healthy"},
		},
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
