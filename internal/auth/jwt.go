package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/adipala-ubp/surat-izin/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carried in access tokens
type Claims struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// JWTValidator issues and validates HS256 access tokens
type JWTValidator struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		expiry: cfg.TokenExpiry(),
		now:    time.Now,
	}
}

// IssueToken signs an access token for user
func (v *JWTValidator) IssueToken(user *domain.User) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := v.now()
	claims := Claims{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(v.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// ValidateToken validates a JWT token and returns user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	role := domain.UserRole(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	if claims.UserID == SystemUserID {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return &UserContext{
		UserID:      claims.UserID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        role,
	}, nil
}
