// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects which transport the API client uses. The choice is made
// once at startup; the two are never mixed at runtime.
type Backend string

const (
	BackendGraphQL Backend = "graphql"
	BackendREST    Backend = "rest"
)

type Config struct {
	HTTPPort string

	Backend    Backend
	GraphQLURL string
	RESTURL    string

	DefaultRestaurantID string
	RestaurantName      string
	WhatsAppNumber      string

	// RedisAddr empty means in-process cart and cache stores.
	RedisAddr     string
	RedisPassword string

	CacheDuration   time.Duration
	PollInterval    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	Debug bool
}

// Load reads the configuration. A missing .env file is fine; explicit
// environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		GraphQLURL:          getEnv("GRAPHQL_URL", "https://mazorca-backend.onrender.com/graphql"),
		RESTURL:             getEnv("REST_URL", "https://mazorca-backend.onrender.com"),
		DefaultRestaurantID: getEnv("DEFAULT_RESTAURANT_ID", "mazorca"),
		RestaurantName:      getEnv("RESTAURANT_NAME", "Ay Wey"),
		WhatsAppNumber:      getEnv("WHATSAPP_NUMBER", "3000000000"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		CacheDuration:       getDuration("CACHE_DURATION", 5*time.Minute),
		PollInterval:        getDuration("POLL_INTERVAL", 15*time.Second),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Debug:               getBool("DEBUG", false),
	}

	backend := Backend(getEnv("BACKEND", string(BackendGraphQL)))
	switch backend {
	case BackendGraphQL, BackendREST:
		cfg.Backend = backend
	default:
		return nil, fmt.Errorf("unknown BACKEND %q (want graphql or rest)", backend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
