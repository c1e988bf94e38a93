package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
)

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// MasterKeyEnv holds master key material when no key file is configured.
const MasterKeyEnv = "VAULT_MASTER_KEY"

type Config struct {
	Issuer   string        // issuer claim for session tokens (default: credvault)
	TokenTTL time.Duration // session lifetime (default: 30m)

	DatabaseDriver string // sqlite or mysql (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./vault.db)
	DatabaseDSN    string // MySQL DSN, required for the mysql driver

	PepperFile    string // file holding the password pepper, created if missing (default: ./pepper)
	MasterKeyFile string // file holding the account sealing key; falls back to $VAULT_MASTER_KEY

	MaxAdministrators int // (default: 100)
	MaxAccounts       int // per administrator (default: 100)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	CORSAllowedOrigins  []string      // (default: *)
}

func LoadConfig() Config {
	return Config{
		Issuer:              getEnvOrDefault("VAULT_ISSUER", "credvault"),
		TokenTTL:            getEnvDurationOrDefault("VAULT_TOKEN_TTL", jwtx.DefaultSessionTTL),
		DatabaseDriver:      getEnvOrDefault("VAULT_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:        getEnvOrDefault("VAULT_DATABASE_FILE", "vault.db"),
		DatabaseDSN:         os.Getenv("VAULT_DATABASE_DSN"),
		PepperFile:          getEnvOrDefault("VAULT_PEPPER_FILE", "pepper"),
		MasterKeyFile:       os.Getenv("VAULT_MASTER_KEY_FILE"),
		MaxAdministrators:   getEnvIntOrDefault("VAULT_MAX_ADMINISTRATORS", domain.DefaultLimits.MaxAdministrators),
		MaxAccounts:         getEnvIntOrDefault("VAULT_MAX_ACCOUNTS", domain.DefaultLimits.MaxAccounts),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		CORSAllowedOrigins:  httpx.SplitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("VAULT_DATABASE_FILE is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("VAULT_DATABASE_DSN is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q (want %s or %s)", c.DatabaseDriver, DriverSQLite, DriverMySQL)
	}
	if c.Issuer == "" {
		return fmt.Errorf("VAULT_ISSUER must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("VAULT_TOKEN_TTL must be positive")
	}
	if c.MaxAdministrators <= 0 || c.MaxAccounts <= 0 {
		return fmt.Errorf("VAULT_MAX_ADMINISTRATORS and VAULT_MAX_ACCOUNTS must be positive")
	}
	return nil
}

// Limits returns the vault limits for this configuration.
func (c Config) Limits() domain.Limits {
	lim := domain.DefaultLimits
	lim.MaxAdministrators = c.MaxAdministrators
	lim.MaxAccounts = c.MaxAccounts
	return lim
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
