package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	R2       R2Config
	LogLevel string
	SeedDemo bool
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	URL string
}

type SessionConfig struct {
	// Secret enables signature checks on the session cookie. Empty means presence-only.
	Secret string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// Enabled reports whether media routes can be served.
func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

func Load() *Config {
	godotenv.Load() // .env is optional

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			TTL:      getDuration("CACHE_TTL", 5*time.Minute),
		},
		R2: R2Config{
			AccountID: getEnv("R2_ACCOUNT_ID", ""),
			AccessKey: getEnv("R2_ACCESS_KEY", ""),
			SecretKey: getEnv("R2_SECRET_KEY", ""),
			Bucket:    getEnv("R2_BUCKET_NAME", ""),
			PublicURL: strings.TrimSuffix(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SeedDemo: getBool("SEED_DEMO", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
