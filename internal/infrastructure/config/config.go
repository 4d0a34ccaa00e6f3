package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is the development fallback signing secret. It is
// deliberately insecure and publicly known; Validate refuses to start a
// production process that still carries it.
const DefaultJWTSecret = "your-secret-key-change-in-production"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backends for the user directory.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	Store     string `env:"USER_STORE, default=memory"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// An unset JWT_SECRET falls back to DefaultJWTSecret so development
// works out of the box; production startup must go through Validate.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
	}
	return &cfg
}

// Validate rejects configurations that must never reach production:
// the well-known default signing secret and unknown store backends.
func (c *Config) Validate() error {
	if c.Env == EnvProduction && c.JWTSecret == DefaultJWTSecret {
		return errors.New("config: JWT_SECRET must be set explicitly in production")
	}
	switch c.Store {
	case StoreMemory, StoreMongo, StoreRedis:
	default:
		return fmt.Errorf("config: unknown USER_STORE %q", c.Store)
	}
	return nil
}
