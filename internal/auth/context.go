package auth

import (
	"context"

	"github.com/adipala-ubp/surat-izin/internal/domain"
)

// SystemUserID identifies the API key principal
const SystemUserID uint = 0

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uint
	Username    string
	DisplayName string
	Role        domain.UserRole
}

// Origin is the network origin of a request, attached to audit entries
type Origin struct {
	IPAddress string
	UserAgent string
	RequestID string
}

type contextKey string

const (
	userContextKey contextKey = "userContext"
	originKey      contextKey = "origin"
)

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an administrator
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// IsSystem reports whether the request was authenticated with the API key
func (u *UserContext) IsSystem() bool {
	return u.UserID == SystemUserID
}

// WithOrigin adds the request origin to the context
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromContext returns the request origin, or the zero value outside a request
func OriginFromContext(ctx context.Context) Origin {
	origin, _ := ctx.Value(originKey).(Origin)
	return origin
}
