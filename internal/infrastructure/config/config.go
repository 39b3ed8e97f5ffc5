package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,          default=8080"`
	Env           string        `env:"ENV,           default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	LogLevel      string        `env:"LOG_LEVEL,     default=info"`
	LogFile       string        `env:"LOG_FILE"`
	SessionTTL    time.Duration `env:"SESSION_TTL,   default=12h"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE, default=10s"`

	Store      StoreConfig
	Community  CommunityConfig
	Completion CompletionConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type StoreConfig struct {
	Backend        string `env:"STORE_BACKEND,       default=file"`
	DataDir        string `env:"DATA_DIR,            default=./data"`
	SessionBackend string `env:"SESSION_BACKEND,     default=memory"`
	Workers        int    `env:"COORDINATOR_WORKERS, default=3"`
}

type CommunityConfig struct {
	PreviewLength int `env:"PREVIEW_LENGTH, default=110"`
}

type CompletionConfig struct {
	Provider    string        `env:"COMPLETION_PROVIDER,    default=none"`
	APIKey      string        `env:"COMPLETION_API_KEY"`
	Model       string        `env:"COMPLETION_MODEL"`
	BaseURL     string        `env:"COMPLETION_BASE_URL"`
	Timeout     time.Duration `env:"COMPLETION_TIMEOUT,     default=30s"`
	Temperature float64       `env:"COMPLETION_TEMPERATURE, default=0.7"`
	Fallback    string        `env:"COMPLETION_FALLBACK,    default=I'm here to listen"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=support_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, mandatory JWT secret).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file", "mongo":
	default:
		return fmt.Errorf("STORE_BACKEND must be file or mongo, got %q", c.Store.Backend)
	}
	switch c.Store.SessionBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.Store.SessionBackend)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev-only-secret"
	}
	return nil
}
