package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	FolioDir   string
	DataDir    string
	IndexFile  string
	ConfigFile string
	LocalDB    string

	// WriteErr is set when a missing config file could not be created.
	// Defaults still apply.
	WriteErr error

	ValidateOnLoad         bool
	ThrowOnValidationError bool
	Debounce               time.Duration
	RetryAttempts          int
	RetryDelay             time.Duration
	CacheTTL               time.Duration

	APIURL      string
	APITimeout  time.Duration
	RedisAddr   string
	PostgresDSN string
	ListenAddr  string

	DefaultView string
	Locale      string
	Currency    string
	ColorOutput bool

	LogFile       string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

var globalConfig *Config

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"api_url":      "FOLIO_API_URL",
	"redis_addr":   "FOLIO_REDIS_ADDR",
	"postgres_dsn": "FOLIO_POSTGRES_DSN",
	"listen_addr":  "FOLIO_LISTEN_ADDR",
	"log_level":    "FOLIO_LOG_LEVEL",
	"log_file":     "FOLIO_LOG_FILE",
}

// Init initializes the configuration from FOLIO_DIR, or ~/.folio
func Init() error {
	// A missing .env is fine
	_ = godotenv.Load()

	folioDir := os.Getenv("FOLIO_DIR")
	if folioDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		folioDir = filepath.Join(homeDir, ".folio")
	}

	cfg, err := Load(folioDir)
	if err != nil {
		return err
	}
	globalConfig = cfg
	return nil
}

// Load reads configuration rooted at folioDir, creating the directory
// layout and a default config file when missing
func Load(folioDir string) (*Config, error) {
	if err := os.MkdirAll(folioDir, 0700); err != nil {
		return nil, err
	}

	viper.Reset()

	// Set up viper for config file
	configFile := filepath.Join(folioDir, "config")
	viper.SetConfigFile(configFile)
	viper.SetConfigType("properties")

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(folioDir, "data"))
	viper.SetDefault("validate_on_load", true)
	viper.SetDefault("throw_on_validation_error", false)
	viper.SetDefault("debounce_ms", 300)
	viper.SetDefault("retry_attempts", 3)
	viper.SetDefault("retry_delay_ms", 500)
	viper.SetDefault("cache_ttl_seconds", 300)
	viper.SetDefault("api_url", "")
	viper.SetDefault("api_timeout_seconds", 10)
	viper.SetDefault("redis_addr", "")
	viper.SetDefault("local_db", filepath.Join(folioDir, "local.db"))
	viper.SetDefault("postgres_dsn", "")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("default_view", "hr")
	viper.SetDefault("locale", "en-US")
	viper.SetDefault("currency", "USD")
	viper.SetDefault("color_output", true)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", filepath.Join(folioDir, "folio.log"))
	viper.SetDefault("log_max_size_mb", 10)
	viper.SetDefault("log_max_backups", 3)
	viper.SetDefault("log_max_age_days", 28)

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	// Try to read config file
	var writeErr error
	if err := viper.ReadInConfig(); err != nil {
		// Config file doesn't exist, create it with defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			writeErr = viper.SafeWriteConfigAs(configFile)
		}
	}

	dataDir := viper.GetString("data_dir")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}

	return &Config{
		FolioDir:   folioDir,
		DataDir:    dataDir,
		IndexFile:  filepath.Join(folioDir, "index.json"),
		ConfigFile: configFile,
		WriteErr:   writeErr,
		LocalDB:    viper.GetString("local_db"),

		ValidateOnLoad:         viper.GetBool("validate_on_load"),
		ThrowOnValidationError: viper.GetBool("throw_on_validation_error"),
		Debounce:               millis(viper.GetInt("debounce_ms")),
		RetryAttempts:          viper.GetInt("retry_attempts"),
		RetryDelay:             millis(viper.GetInt("retry_delay_ms")),
		CacheTTL:               time.Duration(viper.GetInt("cache_ttl_seconds")) * time.Second,

		APIURL:      viper.GetString("api_url"),
		APITimeout:  time.Duration(viper.GetInt("api_timeout_seconds")) * time.Second,
		RedisAddr:   viper.GetString("redis_addr"),
		PostgresDSN: viper.GetString("postgres_dsn"),
		ListenAddr:  firstNonEmpty(viper.GetString("listen_addr"), ":8080"),

		DefaultView: viper.GetString("default_view"),
		Locale:      firstNonEmpty(viper.GetString("locale"), "en-US"),
		Currency:    firstNonEmpty(viper.GetString("currency"), "USD"),
		ColorOutput: viper.GetBool("color_output"),

		LogFile:       viper.GetString("log_file"),
		LogLevel:      firstNonEmpty(viper.GetString("log_level"), "info"),
		LogMaxSizeMB:  viper.GetInt("log_max_size_mb"),
		LogMaxBackups: viper.GetInt("log_max_backups"),
		LogMaxAgeDays: viper.GetInt("log_max_age_days"),
	}, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		if err := Init(); err != nil {
			panic(err)
		}
	}
	return globalConfig
}

// Set replaces the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}

// DataFilePath returns the path of a project file in the data directory
func (c *Config) DataFilePath(name string) string {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	return filepath.Join(c.DataDir, name)
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
