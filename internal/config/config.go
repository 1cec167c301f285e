package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Model         ModelConfig
	Prediction    PredictionConfig
	PredictionLog PredictionLogConfig
	PostgreSQL    PostgreSQLConfig
	Logging       LoggingConfig
	AI            AIConfig
	OpenAI        OpenAIConfig
	Gemini        GeminiConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ModelConfig locates the model artifact
type ModelConfig struct {
	BundlePath      string
	DownloadURL     string // empty disables download
	DownloadTimeout time.Duration
	RemoteTimeout   time.Duration // per call of a remote regressor
}

// PredictionConfig holds request limits and caching
type PredictionConfig struct {
	MaxBatchItems int
	CacheEnabled  bool
	CacheTTL      time.Duration
	CacheCleanup  time.Duration
}

// PredictionLogConfig selects where predictions are recorded
type PredictionLogConfig struct {
	Driver     string // "postgres", "sqlite" or empty for disabled
	SQLitePath string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// AIConfig selects the description extraction provider
type AIConfig struct {
	Provider string // "openai", "gemini" or empty for auto
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	Timeout         int
	Enabled         bool
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	Enabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Model: ModelConfig{
			BundlePath:      getEnv("MODEL_BUNDLE_PATH", "./models/smarthome_pipeline.json"),
			DownloadURL:     getEnv("MODEL_DOWNLOAD_URL", ""),
			DownloadTimeout: getEnvAsDuration("MODEL_DOWNLOAD_TIMEOUT", 120*time.Second, time.Second),
			RemoteTimeout:   getEnvAsDuration("MODEL_REMOTE_TIMEOUT", 10*time.Second, time.Second),
		},
		Prediction: PredictionConfig{
			MaxBatchItems: getEnvAsInt("BATCH_MAX_ITEMS", 100),
			CacheEnabled:  getEnvAsBool("PREDICTION_CACHE_ENABLED", true),
			CacheTTL:      getEnvAsDuration("PREDICTION_CACHE_TTL", 30*time.Minute, time.Minute),
			CacheCleanup:  getEnvAsDuration("PREDICTION_CACHE_CLEANUP", 60*time.Minute, time.Minute),
		},
		PredictionLog: PredictionLogConfig{
			Driver:     strings.ToLower(getEnv("PREDICTION_LOG_DRIVER", "")),
			SQLitePath: getEnv("SQLITE_PATH", "./data/predictions.db"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "smarthome"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		AI: AIConfig{
			Provider: strings.ToLower(getEnv("AI_PROVIDER", "")),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         strings.TrimSuffix(getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Enabled: getEnv("GEMINI_API_KEY", "") != "",
		},
	}

	if cfg.Prediction.MaxBatchItems <= 0 {
		log.Printf("Warning: BATCH_MAX_ITEMS must be positive, using default 100")
		cfg.Prediction.MaxBatchItems = 100
	}

	switch cfg.PredictionLog.Driver {
	case "", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported PREDICTION_LOG_DRIVER %q (want postgres or sqlite)", cfg.PredictionLog.Driver)
	}

	switch cfg.AI.Provider {
	case "", "openai", "gemini":
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q (want openai or gemini)", cfg.AI.Provider)
	}

	return cfg, nil
}

// Debug reports whether per-request pipeline traces are enabled
func (c *Config) Debug() bool {
	return c.Logging.Level == "debug"
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// PredictionLogDSN returns the data source for the configured log driver
func (c *Config) PredictionLogDSN() string {
	if c.PredictionLog.Driver == "sqlite" {
		return c.PredictionLog.SQLitePath
	}
	return c.GetPostgreSQLDSN()
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads a plain number as a count of unit, or a Go
// duration string such as "90s".
func getEnvAsDuration(key string, defaultValue, unit time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(n) * unit
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
