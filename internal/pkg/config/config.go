// Package config loads per-service settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Common holds the settings shared by every service process.
type Common struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c Common) IsDevelopment() bool {
	return c.Env == "development"
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=platform"`
}

type RedisConfig struct {
	// Addr empty disables the login throttle.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LoginLimitConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type SQLConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=business_manager.db"`
}

// UsersConfig configures the users (auth) service.
type UsersConfig struct {
	Common
	Port        string `env:"USERS_PORT,   default=8001"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Login LoginLimitConfig
}

// OrdersConfig configures the orders service.
type OrdersConfig struct {
	Common
	Port        string `env:"ORDERS_PORT,  default=8002"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth  AuthConfig
	Mongo MongoConfig
}

// ManagerConfig configures the business-manager service.
type ManagerConfig struct {
	Common
	Port string `env:"MANAGER_PORT, default=8003"`

	Auth AuthConfig
	DB   SQLConfig
}

// GatewayConfig configures the API gateway.
type GatewayConfig struct {
	Common
	Port       string        `env:"GATEWAY_PORT,    default=8000"`
	UsersURL   string        `env:"USERS_URL,       default=http://localhost:8001"`
	OrdersURL  string        `env:"ORDERS_URL,      default=http://localhost:8002"`
	ManagerURL string        `env:"MANAGER_URL,     default=http://localhost:8003"`
	Timeout    time.Duration `env:"GATEWAY_TIMEOUT, default=10s"`
}

// Load reads a service configuration from environment variables using
// go-envconfig.
func Load[T any](ctx context.Context) (*T, error) {
	var cfg T
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
