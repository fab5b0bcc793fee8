package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Vision providers
	OpenAIAPIURL    string
	OpenAIModel     string
	OpenAIMaxTokens int
	GeminiEndpoint  string
	GeminiModel     string
	HTTPTimeout     time.Duration

	// Analysis flow
	DraftTTL          time.Duration
	AnalysisRateLimit int

	// On-device capability probe
	OnDevicePlatformVersion int
	OnDeviceMinVersion      int
	OnDeviceComponentDir    string

	// Meal photo storage, disabled when S3Bucket is empty
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env == Development {
		// A local .env never overrides variables already set in the shell
		if err := godotenv.Load(); err == nil {
			log.Println("Loaded environment from .env")
		}
	}

	cfg := &Config{}
	loadCommon(cfg)

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCommon fills the non-secret settings shared by every environment
func loadCommon(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "snapcal")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "snapcal.db")

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.OpenAIAPIURL = getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4-vision-preview")
	cfg.OpenAIMaxTokens = getEnvInt("OPENAI_MAX_TOKENS", 1000)
	cfg.GeminiEndpoint = os.Getenv("GEMINI_ENDPOINT")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.HTTPTimeout = getEnvDuration("PROVIDER_HTTP_TIMEOUT", 60*time.Second)

	cfg.DraftTTL = getEnvDuration("ANALYSIS_DRAFT_TTL", 24*time.Hour)
	cfg.AnalysisRateLimit = getEnvInt("ANALYSIS_RATE_LIMIT", 30)

	cfg.OnDevicePlatformVersion = getEnvInt("ONDEVICE_PLATFORM_VERSION", 0)
	cfg.OnDeviceMinVersion = getEnvInt("ONDEVICE_MIN_VERSION", 34)
	cfg.OnDeviceComponentDir = getEnv("ONDEVICE_COMPONENT_DIR", "/opt/ai-services")

	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
}

// loadCIConfig loads secrets for CI, where they arrive as plain environment variables
func loadCIConfig(cfg *Config) error {
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" && cfg.DBDriver == "postgres" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
	return nil
}

// loadDevConfig prefers environment variables and falls back to Docker secrets
func loadDevConfig(cfg *Config) {
	cfg.DBPassword = envOrSecret("DB_PASSWORD", "db_password")
	cfg.JWTSecret = envOrSecret("JWT_SECRET", "jwt_secret")
	cfg.RedisPassword = envOrSecret("REDIS_PASSWORD", "redis_password")
}

// loadProdConfig loads secrets for production using ONLY Docker secrets
func loadProdConfig(cfg *Config) {
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
}

// RedisAddr returns the host:port pair for the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// PostgresDSN builds the lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func envOrSecret(envVar, secret string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return readSecret(secret)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
