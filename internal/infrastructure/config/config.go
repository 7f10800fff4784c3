package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	minProductionSecretLength = 32
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET, required"`

	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             required"`
	Database       string        `env:"MONGO_DB,              default=site"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=8s"`
}

// RedisConfig is optional. An empty Addr disables account lockout.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type AdminConfig struct {
	Email             string `env:"ADMIN_EMAIL,              default=admin@leadpoint.dev"`
	Name              string `env:"ADMIN_NAME,               default=Site Administrator"`
	BootstrapPassword string `env:"ADMIN_BOOTSTRAP_PASSWORD, required"`
}

type LoginConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
	RatePerSec  float64       `env:"LOGIN_RATE_PER_SEC, default=0.5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces rules envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.IsProduction() && len(c.SessionSecret) < minProductionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", minProductionSecretLength)
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return errors.New("MONGO_CONNECT_TIMEOUT must be positive")
	}
	if c.Login.MaxFailures < 1 {
		return errors.New("LOGIN_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
