package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable pointing at an optional TOML
// file. Environment variables win over the file.
const ConfigFileEnv = "PENNYWISE_CONFIG"

type Config struct {
	// Backend selection
	DataBackend string

	// Storage
	SQLiteDBPath  string
	MySQLDSN      string
	PostgresURL   string
	DataDirectory string

	// Read-through cache in front of the store; disabled when CacheSize is 0
	CacheSize int
	CacheTTL  time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID   string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Ledger
	RecurringCount int
	Currency       string

	// Worker
	AuditInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

var validBackends = []string{"memory", "sqlite", "mysql", "postgres"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATA_BACKEND", "sqlite")
	v.SetDefault("SQLITE_DB_PATH", "./data/pennywise.db")
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("DATA_DIRECTORY", "data")
	v.SetDefault("CACHE_SIZE", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)

	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "pennywise")
	v.SetDefault("AMQP_QUEUE", "ledger_events")

	v.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("GOOGLE_CREDENTIALS_JSON", "")

	v.SetDefault("RECURRING_COUNT", 12)
	v.SetDefault("CURRENCY", money.EUR)
	v.SetDefault("AUDIT_INTERVAL", time.Hour)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads defaults, the optional TOML file named by PENNYWISE_CONFIG and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return &Config{
		DataBackend:   strings.ToLower(v.GetString("DATA_BACKEND")),
		SQLiteDBPath:  v.GetString("SQLITE_DB_PATH"),
		MySQLDSN:      v.GetString("MYSQL_DSN"),
		PostgresURL:   v.GetString("POSTGRES_URL"),
		DataDirectory: v.GetString("DATA_DIRECTORY"),
		CacheSize:     v.GetInt("CACHE_SIZE"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:    v.GetString("AMQP_QUEUE"),

		GoogleSpreadsheetID:   v.GetString("GOOGLE_SPREADSHEET_ID"),
		GoogleCredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		GoogleCredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),

		RecurringCount: v.GetInt("RECURRING_COUNT"),
		Currency:       strings.ToUpper(v.GetString("CURRENCY")),
		AuditInterval:  v.GetDuration("AUDIT_INTERVAL"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
	}, nil
}

// SheetsEnabled reports whether a spreadsheet export target is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "mysql":
		if c.MySQLDSN == "" {
			errs = append(errs, "MYSQL_DSN is required when using mysql backend")
		}
	case "postgres":
		if c.PostgresURL == "" {
			errs = append(errs, "POSTGRES_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.PostgresURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errs = append(errs, fmt.Sprintf("invalid POSTGRES_URL '%s': scheme must be 'postgres' or 'postgresql'", c.PostgresURL))
		}
	}

	if c.CacheSize < 0 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: cannot be negative", c.CacheSize))
	}
	if c.CacheSize > 0 && c.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: cannot be negative", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		hasFile := c.GoogleCredentialsFile != ""
		hasJSON := c.GoogleCredentialsJSON != ""
		if !hasFile && !hasJSON {
			errs = append(errs, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for sheets export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.RecurringCount < 1 || c.RecurringCount > 120 {
		errs = append(errs, fmt.Sprintf("invalid recurring count %d: must be between 1 and 120", c.RecurringCount))
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Sprintf("unknown currency '%s'", c.Currency))
	}
	if c.AuditInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid audit interval %v: must be at least 1 second", c.AuditInterval))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.New("configuration validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
