package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything the gateway reads from the environment.
type Config struct {
	Port            string
	AppEnv          string
	BackendURL      string
	BackendTimeout  time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	StoreDriver     string
	RedisURL        string
	DatabaseURL     string
	FrontendOrigins []string
	StorefrontURL   string
	CheckoutIdleTTL time.Duration
	SuccessHold     time.Duration
	RateLimit       int
	RateWindow      time.Duration
}

// Load reads the environment. Call godotenv.Load first to pick up .env.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		AppEnv:          getEnv("APP_ENV", "development"),
		BackendURL:      strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080/api"), "/"),
		BackendTimeout:  getDuration("BACKEND_TIMEOUT", 30*time.Second),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      getDuration("SESSION_TTL", 7*24*time.Hour),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "redis")),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		FrontendOrigins: splitList(getEnv("FRONTEND_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		StorefrontURL:   strings.TrimRight(getEnv("STOREFRONT_URL", "http://localhost:3000"), "/"),
		CheckoutIdleTTL: getDuration("CHECKOUT_IDLE_TTL", 30*time.Minute),
		SuccessHold:     getDuration("SUCCESS_HOLD", 1500*time.Millisecond),
		RateLimit:       getInt("RATE_LIMIT", 30),
		RateWindow:      getDuration("RATE_WINDOW", time.Minute),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// WithTimeout returns a context with a 10s timeout for store operations
// that run outside a request.
func WithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
