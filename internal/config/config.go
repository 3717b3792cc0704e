package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvProduction is the APP_ENV value that enables production-only behaviour
// such as secure cookies and the stricter secret length check.
const EnvProduction = "production"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Logger      LoggerConfig      `yaml:"logger"`
	Auth        AuthConfig        `yaml:"auth"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rateLimit"`
	Seed        SeedConfig        `yaml:"seed"`
	S3          S3Config          `yaml:"s3"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Redis       RedisConfig       `yaml:"redis"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Environment     string `yaml:"environment"`
	ShutdownTimeout int    `yaml:"shutdownTimeout"` // seconds
	Tracing         bool   `yaml:"tracing"`         // wrap handlers with otelhttp spans
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxConnections  int    `yaml:"maxConnections"`
	MinConnections  int    `yaml:"minConnections"`
	MaxConnLifetime int    `yaml:"maxConnLifetime"` // seconds
	AutoMigrate     bool   `yaml:"autoMigrate"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	JWTSecret  string `yaml:"jwtSecret"`
	TokenTTL   int    `yaml:"tokenTTL"` // hours
	CookieName string `yaml:"cookieName"`
	BcryptCost int    `yaml:"bcryptCost"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// RateLimitConfig holds the global request rate limit.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// SeedConfig lists the catalog seed files used by the seed command.
type SeedConfig struct {
	Files []string `yaml:"files"`
}

// S3Config holds AWS S3 configuration for catalog seed files.
type S3Config struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	Prefix  string `yaml:"prefix"` // Path prefix within bucket (e.g., "catalog/")
}

// RecommenderConfig holds the remote recommendation service settings.
// An empty URL disables the remote call and only the fallback ranking is served.
type RecommenderConfig struct {
	URL      string `yaml:"url"`
	Timeout  int    `yaml:"timeout"`  // milliseconds
	CacheTTL int    `yaml:"cacheTTL"` // seconds
}

// RedisConfig holds the optional Redis connection used for caching.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Load loads configuration from an optional YAML file, a .env file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Environment:     "development",
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Database:        "coursemart",
			MaxConnections:  25,
			MinConnections:  5,
			MaxConnLifetime: 300,
			AutoMigrate:     true,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			TokenTTL:   24,
			CookieName: "token",
			BcryptCost: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Seed: SeedConfig{
			Files: []string{"data/catalog/courses.jsonl.gz"},
		},
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "catalog/",
		},
		Recommender: RecommenderConfig{
			Timeout:  800,
			CacheTTL: 300,
		},
	}
}

// loadFile decodes a YAML configuration file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides configuration with environment variables when set.
func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)
	c.Server.Environment = getEnv("APP_ENV", c.Server.Environment)
	c.Server.ShutdownTimeout = getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.Tracing = getEnvAsBool("SERVER_TRACING", c.Server.Tracing)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.MaxConnections = getEnvAsInt("DB_MAX_CONNECTIONS", c.Database.MaxConnections)
	c.Database.MinConnections = getEnvAsInt("DB_MIN_CONNECTIONS", c.Database.MinConnections)
	c.Database.MaxConnLifetime = getEnvAsInt("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnv("LOG_FORMAT", c.Logger.Format)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvAsInt("AUTH_TOKEN_TTL", c.Auth.TokenTTL)
	c.Auth.CookieName = getEnv("AUTH_COOKIE_NAME", c.Auth.CookieName)
	c.Auth.BcryptCost = getEnvAsInt("AUTH_BCRYPT_COST", c.Auth.BcryptCost)

	c.CORS.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)

	c.RateLimit.RequestsPerSecond = getEnvAsFloat("RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.Burst)

	c.Seed.Files = getEnvAsList("SEED_FILES", c.Seed.Files)

	c.S3.Enabled = getEnvAsBool("S3_ENABLED", c.S3.Enabled)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)

	c.Recommender.URL = getEnv("RECOMMENDER_URL", c.Recommender.URL)
	c.Recommender.Timeout = getEnvAsInt("RECOMMENDER_TIMEOUT_MS", c.Recommender.Timeout)
	c.Recommender.CacheTTL = getEnvAsInt("RECOMMENDER_CACHE_TTL", c.Recommender.CacheTTL)

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters in production")
	}

	if c.Auth.TokenTTL < 1 {
		return fmt.Errorf("token TTL must be at least 1 hour")
	}

	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth cookie name is required")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid bcrypt cost: %d", c.Auth.BcryptCost)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit must allow at least one request")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Recommender.URL != "" && c.Recommender.Timeout < 1 {
		return fmt.Errorf("recommender timeout must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TokenTTLDuration returns the token lifetime.
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Hour
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma separated environment variable or returns a default value.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
