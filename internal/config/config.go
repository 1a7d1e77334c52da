package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/logger"
)

// Session backends.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// AppConfig is shared by the CLI and the reference backend.
type AppConfig struct {
	// API client
	APIURL      string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8000/api"`
	HTTPTimeout time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"30s"`
	MaxRetries  int           `env:"STOREFRONT_MAX_RETRIES" envDefault:"0"`

	Session SessionConfig
	Log     LogConfig
	DevAPI  DevAPIConfig `envPrefix:"DEVAPI_"`
}

type SessionConfig struct {
	Backend   string `env:"SESSION_BACKEND" envDefault:"file"`
	Path      string `env:"SESSION_PATH"`
	Namespace string `env:"SESSION_NAMESPACE" envDefault:"default"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASS"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	Dev   bool   `env:"LOG_DEV" envDefault:"false"`
}

// DevAPIConfig configures the in-memory reference backend.
type DevAPIConfig struct {
	HTTPAddr  string        `env:"HTTP_ADDR" envDefault:":8000"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:"storefront-dev-secret-change-me"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"storefront-devapi"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Seed      bool          `env:"SEED" envDefault:"true"`
}

// Load reads an optional .env file, then the environment.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from env.
func (c *AppConfig) Sanitize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.HTTPTimeout < 0 {
		c.HTTPTimeout = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries > 5 {
		c.MaxRetries = 5
	}

	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		c.Session.Backend = SessionBackendFile
	}
	if c.Session.Namespace == "" {
		c.Session.Namespace = "default"
	}
	if c.Session.Backend == SessionBackendFile && c.Session.Path == "" {
		c.Session.Path = defaultSessionPath()
	}

	if c.DevAPI.JWTTTL <= 0 {
		c.DevAPI.JWTTTL = 24 * time.Hour
	}
}

// Logger maps the log section onto the logger package config.
func (c *AppConfig) Logger(stderr bool) logger.Config {
	return logger.Config{Level: c.Log.Level, Dev: c.Log.Dev, Stderr: stderr}
}

// JWT maps the devapi section onto the token manager config.
func (c *AppConfig) JWT() jwt.Config {
	return jwt.Config{
		Secret:   c.DevAPI.JWTSecret,
		Issuer:   c.DevAPI.JWTIssuer,
		Audience: "storefront-clients",
		TTL:      c.DevAPI.JWTTTL,
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "storefront", "session.json")
	}
	return filepath.Join(dir, "storefront", "session.json")
}
