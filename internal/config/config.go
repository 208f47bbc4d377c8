package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andy/invoicebook/internal/logger"
)

// Storage backends
const (
	BackendSQLCipher = "sqlcipher"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// DefaultQuotaBytes mirrors the usual 5 MiB browser storage allowance
const DefaultQuotaBytes = 5 << 20

type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Invoice entry defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"`     // sqlcipher, sqlite or memory
	Path       string `yaml:"path"`        // Path to SQLite database
	QuotaBytes int64  `yaml:"quota_bytes"` // Upper bound on stored bytes; 0 disables
	NodeID     int64  `yaml:"node_id"`     // Snowflake node for invoice IDs (0-1023)
}

type InvoiceConfig struct {
	DefaultDueMonths int      `yaml:"default_due_months"` // Months from invoice date to due date
	ServiceTypes     []string `yaml:"service_types"`      // Offered by pickers; any value is accepted
	ExportDir        string   `yaml:"export_dir"`         // Directory for JSON exports
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	TimeFormat string `yaml:"time_format"`
	Output     string `yaml:"output"` // stdout, stderr, discard, or file path
}

// Dir returns ~/.config/invoicebook
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoicebook")
	}
	return filepath.Join(homeDir, ".config", "invoicebook")
}

// DefaultConfigPath returns ~/.config/invoicebook/config.yaml, or $INVOICEBOOK_CONFIG when set
func DefaultConfigPath() string {
	if p := os.Getenv("INVOICEBOOK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := Dir()

	serviceTypes := []string{
		"Bridal Makeup",
		"Evening Makeup",
		"Photoshoot Makeup",
		"Special Event",
		"Makeup Lesson",
		"Other",
	}

	defaultLog := logger.DefaultConfig()

	return &Config{
		Storage: StorageConfig{
			Backend:    BackendSQLCipher,
			Path:       filepath.Join(dir, "invoicebook.db"),
			QuotaBytes: DefaultQuotaBytes,
			NodeID:     1,
		},
		Invoice: InvoiceConfig{
			DefaultDueMonths: 1,
			ServiceTypes:     serviceTypes,
			ExportDir:        ".",
		},
		Log: LogConfig{
			Level:      defaultLog.Level,
			Format:     defaultLog.Format,
			TimeFormat: defaultLog.TimeFormat,
			Output:     filepath.Join(dir, "invoicebook.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// Environment overrides are applied on top either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// ApplyEnv overrides fields from INVOICEBOOK_* environment variables
func (c *Config) ApplyEnv() {
	c.Storage.Backend = getEnv("INVOICEBOOK_BACKEND", c.Storage.Backend)
	c.Storage.Path = getEnv("INVOICEBOOK_DB_PATH", c.Storage.Path)
	c.Storage.QuotaBytes = getEnvInt64("INVOICEBOOK_QUOTA_BYTES", c.Storage.QuotaBytes)
	c.Invoice.ExportDir = getEnv("INVOICEBOOK_EXPORT_DIR", c.Invoice.ExportDir)
	c.Log.Level = getEnv("INVOICEBOOK_LOG_LEVEL", c.Log.Level)
	c.Log.Output = getEnv("INVOICEBOOK_LOG_OUTPUT", c.Log.Output)
}

// Validate validates the configuration and returns every problem found
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendSQLCipher, BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			problems = append(problems, fmt.Sprintf("storage path cannot be empty when using %s backend", c.Storage.Backend))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of %v",
			c.Storage.Backend, []string{BackendSQLCipher, BackendSQLite, BackendMemory}))
	}

	if c.Storage.QuotaBytes < 0 {
		problems = append(problems, fmt.Sprintf("invalid quota %d: must not be negative", c.Storage.QuotaBytes))
	}
	if c.Storage.NodeID < 0 || c.Storage.NodeID > 1023 {
		problems = append(problems, fmt.Sprintf("invalid node id %d: must be between 0 and 1023", c.Storage.NodeID))
	}

	if c.Invoice.DefaultDueMonths < 0 || c.Invoice.DefaultDueMonths > 24 {
		problems = append(problems, fmt.Sprintf("invalid default due months %d: must be between 0 and 24", c.Invoice.DefaultDueMonths))
	}
	for i, st := range c.Invoice.ServiceTypes {
		if strings.TrimSpace(st) == "" {
			problems = append(problems, fmt.Sprintf("service type %d is empty", i+1))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Logger converts the log section into the logger package's configuration
func (c *Config) Logger() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		TimeFormat: c.Log.TimeFormat,
		Output:     c.Log.Output,
	}
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// EnsureDirectories creates the database directory
func (c *Config) EnsureDirectories() error {
	if c.Storage.Backend == BackendMemory {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.Storage.Path), 0700)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
