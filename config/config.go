package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"clubbet/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP API configuration
	HTTPAddr string

	// Match catalog configuration
	MatchCatalogURL string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Redis configuration
	RedisAddr string // empty disables the leaderboard cache

	// Betting configuration, all amounts in cents of club points
	InitialBalance int64
	MinStake       int64
	MaxStake       int64

	// Logging
	LogLevel string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables, with an optional
// .env file for local development
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Match catalog
		MatchCatalogURL: getEnvWithDefault("MATCH_CATALOG_URL", "http://match-catalog:9000"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Redis
		RedisAddr: os.Getenv("REDIS_ADDR"),

		// Betting defaults
		InitialBalance: 100000,
		MinStake:       100,
		MaxStake:       1000000,

		// Logging
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override betting defaults if environment variables are set
	if balance := os.Getenv("INITIAL_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.InitialBalance = parsed
		}
	}
	if minStake := os.Getenv("MIN_STAKE"); minStake != "" {
		if parsed, err := strconv.ParseInt(minStake, 10, 64); err == nil {
			config.MinStake = parsed
		}
	}
	if maxStake := os.Getenv("MAX_STAKE"); maxStake != "" {
		if parsed, err := strconv.ParseInt(maxStake, 10, 64); err == nil {
			config.MaxStake = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
		if config.MinStake <= 0 || config.MaxStake < config.MinStake {
			return nil, fmt.Errorf("invalid stake bounds: min %d, max %d", config.MinStake, config.MaxStake)
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:    "test",
		InitialBalance: 100000,
		MinStake:       100,
		MaxStake:       1000000,
		HTTPAddr:       ":0",
	}
}
