package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type R2 struct {
	AccountID  string `env:"ACCOUNT_ID"`
	AccessKey  string `env:"ACCESS_KEY"`
	SecretKey  string `env:"SECRET_KEY"`
	BucketName string `env:"BUCKET_NAME"`
	PublicURL  string `env:"PUBLIC_URL"`
}

type Config struct {
	Port           int    `env:"PORT" envDefault:"3000"`
	PostgresURI    string `env:"DATABASE_URL,required,notEmpty"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	RedisURI       string `env:"REDIS_URI" envDefault:"localhost:6379"`
	FrontendURL    string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	SecretKey     string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	CookieName    string        `env:"COOKIE_NAME" envDefault:"auth_token"`
	EncryptionKey string        `env:"ENCRYPTION_KEY,required,notEmpty"`

	PermissionCacheBackend string        `env:"PERMISSION_CACHE_BACKEND" envDefault:"memory"`
	PermissionCacheTTL     time.Duration `env:"PERMISSION_CACHE_TTL" envDefault:"5m"`

	PublishMode            string        `env:"PUBLISH_MODE" envDefault:"simulated"`
	PublishConcurrency     int           `env:"PUBLISH_CONCURRENCY" envDefault:"1"`
	PublishPlatformTimeout time.Duration `env:"PUBLISH_PLATFORM_TIMEOUT" envDefault:"60s"`
	StalePublishAfter      time.Duration `env:"STALE_PUBLISH_AFTER" envDefault:"30m"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	R2 R2 `envPrefix:"R2_"`

	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	InstagramGraphVersion string `env:"INSTAGRAM_GRAPH_VERSION" envDefault:"v21.0"`
	TelegramBotToken      string `env:"TELEGRAM_BOT_TOKEN"`
}

const (
	PublishModeSimulated = "simulated"
	PublishModeLive      = "live"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.SecretKey) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if len(c.EncryptionKey) != 32 {
		return errors.New("ENCRYPTION_KEY must be exactly 32 bytes")
	}

	switch c.PublishMode {
	case PublishModeSimulated, PublishModeLive:
	default:
		return fmt.Errorf("PUBLISH_MODE must be %q or %q", PublishModeSimulated, PublishModeLive)
	}

	switch c.PermissionCacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("PERMISSION_CACHE_BACKEND must be %q or %q", CacheBackendMemory, CacheBackendRedis)
	}

	if c.PublishConcurrency < 1 {
		return errors.New("PUBLISH_CONCURRENCY must be at least 1")
	}
	if c.PermissionCacheTTL <= 0 {
		return errors.New("PERMISSION_CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
