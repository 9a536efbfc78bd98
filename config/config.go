package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URI                string        `env:"MONGO_URI"`
	DatabaseName       string        `env:"MONGO_DB" envDefault:"sprintworkshop"`
	UsersCollection    string        `env:"USERS_COLLECTION" envDefault:"users"`
	ProfilesCollection string        `env:"PROFILES_COLLECTION" envDefault:"profiles"`
	SessionsCollection string        `env:"SESSIONS_COLLECTION" envDefault:"sessions"`
	MaxPoolSize        uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize        uint64        `env:"MONGO_MIN_POOL_SIZE" envDefault:"10"`
	MaxConnIdleTime    time.Duration `env:"MONGO_MAX_CONN_IDLE_TIME" envDefault:"60s"`
	RetryWrites        bool          `env:"MONGO_RETRY_WRITES" envDefault:"true"`
	Timeout            time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`
}

type AuthConfig struct {
	JWTSecretKey      string        `env:"JWT_SECRET_KEY"`
	Issuer            string        `env:"JWT_ISSUER" envDefault:"sprintworkshop"`
	AccessTokenTTL    time.Duration `env:"JWT_EXPIRATION_TIME" envDefault:"1h"`
	RefreshTokenTTL   time.Duration `env:"REFRESH_TOKEN_EXPIRATION_TIME" envDefault:"168h"`
	SessionDuration   time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	MaxActiveSessions int           `env:"MAX_ACTIVE_SESSIONS" envDefault:"5"`
	GuestModeEnabled  bool          `env:"GUEST_MODE_ENABLED" envDefault:"false"`
	GuestDisplayName  string        `env:"GUEST_DISPLAY_NAME" envDefault:"Workshop Guest"`
}

type Config struct {
	Env         string   `env:"GO_ENV" envDefault:"development"`
	Port        string   `env:"PORT" envDefault:"8080"`
	LogMode     string   `env:"LOG_MODE" envDefault:"development"`
	RedisURL    string   `env:"REDIS_URL"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	MaxBodySize int64    `env:"MAX_BODY_SIZE" envDefault:"1048576"`

	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"30s"`
	LeaderboardMaxLimit int           `env:"LEADERBOARD_MAX_LIMIT" envDefault:"100"`

	OTelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
	ServiceName     string  `env:"OTEL_SERVICE_NAME" envDefault:"sprintworkshop"`

	Database DatabaseConfig
	Auth     AuthConfig
}

var (
	ErrMissingMongoURI  = errors.New("MONGO_URI is not set")
	ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is not set")
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.URI == "" {
		errs = append(errs, ErrMissingMongoURI)
	}
	if c.Auth.JWTSecretKey == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.Auth.MaxActiveSessions < 1 {
		errs = append(errs, fmt.Errorf("MAX_ACTIVE_SESSIONS must be at least 1, got %d", c.Auth.MaxActiveSessions))
	}
	if c.LeaderboardMaxLimit < 1 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_MAX_LIMIT must be at least 1, got %d", c.LeaderboardMaxLimit))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
