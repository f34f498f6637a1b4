package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Outbox    OutboxConfig
}

type AppConfig struct {
	Name        string
	Company     string
	Unit        string
	DocNumber   string
	Environment string
	Port        int
	SeedData    bool
}

// DatabaseConfig selects the driver and connection settings.
// Driver is one of "postgres", "mysql" or "sqlite".
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	Path            string // sqlite file, ":memory:" allowed
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret          string
	Issuer             string
	TokenExpiryMinutes int
	APIKey             string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the limit for authenticated requests (per user)
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// OutboxConfig controls redelivery of queued notifications and audit entries
type OutboxConfig struct {
	Enabled     bool
	Cron        string
	BatchSize   int
	MaxAttempts int
}

// DSN builds the driver-specific connection string
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	case "sqlite":
		return d.Path
	default:
		return d.ConnectionString()
	}
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenExpiry returns the access token lifetime
func (a *AuthConfig) TokenExpiry() time.Duration {
	return time.Duration(a.TokenExpiryMinutes) * time.Minute
}

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets for Key Vault resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// secretSource is the subset of secrets.Provider used to fill in credentials
type secretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// applySecrets overlays database and auth credentials. The JWT secret is required.
func applySecrets(ctx context.Context, cfg *Config, provider secretSource) error {
	if host, err := provider.GetSecretOrEnv(ctx, "SURAT-DB-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := provider.GetSecretOrEnv(ctx, "SURAT-DB-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "SURAT-DB-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}
	if apiKey, err := provider.GetSecretOrEnv(ctx, "admin-api-key", "ADMIN_API_KEY"); err == nil && apiKey != "" {
		cfg.Auth.APIKey = apiKey
	}

	secret, err := provider.GetSecretOrEnv(ctx, "jwt-secret", "JWT_SECRET")
	if err != nil || secret == "" {
		return fmt.Errorf("jwt-secret could not be resolved: %v", err)
	}
	cfg.Auth.JWTSecret = secret
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Sistem Surat Izin Keluar Masuk Barang")
	v.SetDefault("app.company", "PT PLN INDONESIA POWER")
	v.SetDefault("app.unit", "UBP Jawa Tengah 2 Adipala")
	v.SetDefault("app.docNumber", "ADP.17.01.015")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.seedData", false)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "surat_izin")
	v.SetDefault("database.user", "surat_user")
	v.SetDefault("database.password", "surat_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "surat_izin.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Auth defaults
	v.SetDefault("auth.issuer", "surat-izin")
	v.SetDefault("auth.tokenExpiryMinutes", 480)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	// Outbox redelivery defaults (every minute, seconds field first)
	v.SetDefault("outbox.enabled", true)
	v.SetDefault("outbox.cron", "0 * * * * *")
	v.SetDefault("outbox.batchSize", 100)
	v.SetDefault("outbox.maxAttempts", 10)
}
