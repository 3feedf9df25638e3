package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Snapshot SnapshotConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Chat     ChatConfig
	S3       S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// UpstreamConfig points at the commerce API that owns products, orders,
// customers, reviews, the chatbot and the payment-gateway integrations.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	TTL         time.Duration // snapshot lifetime of session-scoped keys
}

// SnapshotConfig selects the backend for the session snapshot store.
// Backend is one of "memory", "redis", "postgres".
type SnapshotConfig struct {
	Backend  string
	Redis    RedisConfig
	Postgres PostgresConfig
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	DemoMode   bool   // local accounts instead of the upstream customer API
	AdminEmail string // demo-mode accounts with this email get the admin role
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ChatConfig struct {
	HistoryLimit int // transcript messages kept per session
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:8000/api"),
			Timeout: parseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"), 30*time.Second),
		},
		Session: SessionConfig{
			JWTSecret:   getEnv("SESSION_JWT_SECRET", "your-secret-key"),
			TokenExpiry: parseDuration(getEnv("SESSION_TOKEN_EXPIRY", "720h"), 720*time.Hour),
			TTL:         parseDuration(getEnv("SESSION_TTL", "720h"), 720*time.Hour),
		},
		Snapshot: SnapshotConfig{
			Backend: getEnv("SNAPSHOT_BACKEND", "redis"),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     getEnv("REDIS_PORT", "6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			},
			Postgres: PostgresConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "admin"),
				Password: getEnv("DB_PASSWORD", "1234"),
				DBName:   getEnv("DB_NAME", "storefront"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
		},
		Auth: AuthConfig{
			DemoMode:   getEnv("AUTH_DEMO_MODE", "false") == "true",
			AdminEmail: getEnv("AUTH_ADMIN_EMAIL", "admin@example.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Chat: ChatConfig{
			HistoryLimit: parseInt(getEnv("CHAT_HISTORY_LIMIT", "100"), 100),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-southeast-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "storefront-avatars"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
	}

	return config, nil
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid number %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
