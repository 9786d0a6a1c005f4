package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the market API v1 root the suite runs against.
const DefaultBaseURL = "http://80.78.248.82:8189/market/api/v1/"

const (
	// EnvFileVar names an explicit dotenv file, used as given.
	EnvFileVar     = "MARKET_ENV_FILE"
	defaultEnvFile = "configs/.env"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL            string        `mapstructure:"market_base_url"`
	HTTPLogLevel       string        `mapstructure:"http_log_level"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	CategoriesFile string `mapstructure:"categories_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	FixturesSeed   uint64 `mapstructure:"fixtures_seed"`

	LedgerType            string        `mapstructure:"ledger_type"`
	LedgerPath            string        `mapstructure:"ledger_path"`
	LedgerTTLSeconds      int64         `mapstructure:"ledger_ttl_seconds"`
	LedgerCleanupSeconds  int64         `mapstructure:"ledger_cleanup_interval_seconds"`
	LedgerTTL             time.Duration `mapstructure:"-"`
	LedgerCleanupInterval time.Duration `mapstructure:"-"`
}

var logLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var httpLogLevels = map[string]bool{
	"none":    true,
	"basic":   true,
	"headers": true,
	"body":    true,
}

// Load reads configuration from environment variables and the dotenv file.
// Environment variables win over the file. Relative file paths in the config
// are resolved against the module root (the nearest directory holding go.mod),
// so tests running inside a package directory see the same files as the CLI.
func Load() (*Config, error) {
	root := ProjectRoot()

	envFile := os.Getenv(EnvFileVar)
	if envFile == "" {
		envFile = filepath.Join(root, defaultEnvFile)
	}
	fileVals, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	v := viper.New()

	v.SetDefault("app_name", "market-contract-tests")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("market_base_url", DefaultBaseURL)
	v.SetDefault("http_log_level", "basic")
	v.SetDefault("http_timeout_seconds", 0) // 0 keeps the transport default
	v.SetDefault("categories_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("fixtures_seed", 0)
	v.SetDefault("ledger_type", "none")
	v.SetDefault("ledger_path", "data/ledger.db")
	v.SetDefault("ledger_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("ledger_cleanup_interval_seconds", int64(time.Hour/time.Second))

	for key, val := range fileVals {
		v.SetDefault(strings.ToLower(key), val)
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(root); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProjectRoot returns the nearest ancestor of the working directory that holds
// a go.mod, or the working directory when there is none.
func ProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}

func resolvePath(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func (c *Config) normalize(root string) error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}

	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		return fmt.Errorf("market_base_url is required")
	}

	c.HTTPLogLevel = strings.ToLower(strings.TrimSpace(c.HTTPLogLevel))
	if !httpLogLevels[c.HTTPLogLevel] {
		return fmt.Errorf("invalid http_log_level %q (expected none, basic, headers or body)", c.HTTPLogLevel)
	}

	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must not be negative)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.LedgerTTLSeconds <= 0 {
		return fmt.Errorf("invalid ledger_ttl_seconds (must be positive seconds)")
	}
	if c.LedgerCleanupSeconds <= 0 {
		return fmt.Errorf("invalid ledger_cleanup_interval_seconds (must be positive seconds)")
	}
	c.LedgerTTL = time.Duration(c.LedgerTTLSeconds) * time.Second
	c.LedgerCleanupInterval = time.Duration(c.LedgerCleanupSeconds) * time.Second

	c.LedgerPath = resolvePath(root, c.LedgerPath)
	c.CategoriesFile = resolvePath(root, c.CategoriesFile)
	c.PublishersFile = resolvePath(root, c.PublishersFile)

	return nil
}
