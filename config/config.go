package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/LevBernstein/BeardlessBot-sub000/database"
)

// Ledger backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string
	CommandPrefix string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Ledger configuration
	LedgerBackend   string // "postgres" or "memory"
	LeaderboardSize int

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables forwarding

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
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
			if os.Getenv("ENVIRONMENT") == "test" {
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

// UsesMemoryLedger reports whether balances live only in process memory
func (c *Config) UsesMemoryLedger() bool {
	return c.LedgerBackend == BackendMemory
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: os.Getenv("COMMAND_PREFIX"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		LedgerBackend:   strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_BACKEND"))),
		LeaderboardSize: 10,

		NATSServers: os.Getenv("NATS_SERVERS"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.CommandPrefix == "" {
		config.CommandPrefix = "!"
	}
	if config.LedgerBackend == "" {
		config.LedgerBackend = BackendPostgres
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if size := os.Getenv("LEADERBOARD_SIZE"); size != "" {
		parsed, err := strconv.Atoi(size)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("LEADERBOARD_SIZE must be a positive integer, got %q", size)
		}
		config.LeaderboardSize = parsed
	}

	if config.LedgerBackend != BackendPostgres && config.LedgerBackend != BackendMemory {
		return nil, fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, config.LedgerBackend)
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.LedgerBackend == BackendPostgres && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres ledger")
		}
	}

	return config, nil
}

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
		CommandPrefix:   "!",
		LedgerBackend:   BackendMemory,
		LeaderboardSize: 10,
		LogLevel:        "debug",
		Environment:     "test",
	}
}
