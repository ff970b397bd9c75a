package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the engine configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8084"`

	// PostgreSQL (engine-owned tables: sessions, plays, markers, ownership)
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int    `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	// Secret field WITHOUT envconfig tag
	DBPassword string

	// Redis (reader-session registry)
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	// Optional secret
	RedisPassword string

	// RabbitMQ (play analytics events)
	RabbitMQURL     string `envconfig:"RABBITMQ_URL" required:"true"`
	PlayEventsQueue string `envconfig:"PLAY_EVENTS_QUEUE" default:"play_recorded_events"`

	// Story Graph Store
	GraphAPIBaseURL string        `envconfig:"GRAPH_API_BASE_URL" required:"true"`
	GraphAPITimeout time.Duration `envconfig:"GRAPH_API_TIMEOUT" default:"5s"`
	// Secret field WITHOUT envconfig tag
	GraphAPIKey string

	// JWT (verifying tokens issued by the accounts service)
	// Secret field WITHOUT envconfig tag
	JWTSecret string

	// Reader session cookie
	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"reader_session"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	// Policy: delete the PlaySession on arrival at an ending, forcing the
	// next start() to begin a fresh run.
	EndingClearsSession bool `envconfig:"ENDING_CLEARS_SESSION" default:"false"`

	// CORS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: could not load %s file: %v", envFilePath, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	var loadErr error
	cfg.DBPassword, loadErr = readSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.JWTSecret, loadErr = readSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.GraphAPIKey, loadErr = readSecret("graph_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	// Redis password is optional.
	if redisPass, err := readSecret("redis_password"); err == nil {
		cfg.RedisPassword = redisPass
	}

	return &cfg, nil
}

// readSecret reads a secret from the standard Docker Secrets path, falling
// back to the upper-cased environment variable for local runs.
func readSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	if secretBytes, err := os.ReadFile(filePath); err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret != "" {
			return secret, nil
		}
	}
	if secret := strings.TrimSpace(os.Getenv(strings.ToUpper(secretName))); secret != "" {
		return secret, nil
	}
	return "", fmt.Errorf("secret %s not found in /run/secrets or environment", secretName)
}
