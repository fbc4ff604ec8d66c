package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Risk       RiskConfig
	Notify     NotifyConfig
	Moderation ModerationConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RiskConfig holds scoring provider configuration
type RiskConfig struct {
	ProviderURL    string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	PollInterval   time.Duration
	StaleWindow    time.Duration
}

// NotifyConfig holds notification sink configuration
type NotifyConfig struct {
	SinkURL        string
	RequestTimeout time.Duration
}

// ModerationConfig holds moderation workflow configuration
type ModerationConfig struct {
	// ManagerID receives escalated tasks. Empty disables escalation routing.
	ManagerID         string
	NotifyRetryWindow time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "vendorhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Risk: RiskConfig{
			ProviderURL:    getEnv("RISK_PROVIDER_URL", "http://localhost:9090/score"),
			RequestTimeout: getEnvAsDuration("RISK_REQUEST_TIMEOUT", 10*time.Second),
			MaxRetries:     getEnvAsInt("RISK_MAX_RETRIES", 3),
			RetryBackoff:   getEnvAsDuration("RISK_RETRY_BACKOFF", 30*time.Second),
			PollInterval:   getEnvAsDuration("RISK_POLL_INTERVAL", time.Minute),
			StaleWindow:    getEnvAsDuration("RISK_STALE_WINDOW", 15*time.Minute),
		},
		Notify: NotifyConfig{
			SinkURL:        getEnv("NOTIFY_SINK_URL", ""),
			RequestTimeout: getEnvAsDuration("NOTIFY_REQUEST_TIMEOUT", 5*time.Second),
		},
		Moderation: ModerationConfig{
			ManagerID:         getEnv("MODERATION_MANAGER_ID", ""),
			NotifyRetryWindow: getEnvAsDuration("NOTIFY_RETRY_WINDOW", 5*time.Minute),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
