// ABOUTME: Layered configuration for rigboard
// ABOUTME: Defaults, then TOML file, then .env, then RIGBOARD_* environment variables

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG config and data directories.
	AppName = "rigboard"

	// ConfigFileName is the TOML file under the XDG config directory.
	ConfigFileName = "config.toml"

	DefaultAPIBaseURL = "http://localhost:8080/api"
	DefaultListenAddr = "localhost:8080"
	DefaultPageSize   = 20
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "info"

	envPrefix = "RIGBOARD_"
)

// Config holds every setting the binary reads.
type Config struct {
	// APIBaseURL is where the meetings REST API lives, including any path prefix.
	APIBaseURL string `toml:"api_base_url"`

	// APIToken is sent as a bearer token.
	APIToken string `toml:"api_token"`

	TenantID   string   `toml:"tenant_id"`
	PageSize   int      `toml:"page_size"`
	Timeout    Duration `toml:"timeout"`
	ListenAddr string   `toml:"listen_addr"`

	// DBPath is the SQLite file used by the local reference backend.
	DBPath string `toml:"db_path"`

	// GoogleCalendarID is the calendar meetings are mirrored into.
	GoogleCalendarID string `toml:"google_calendar_id"`

	LogLevel string `toml:"log_level"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:       DefaultAPIBaseURL,
		PageSize:         DefaultPageSize,
		Timeout:          Duration{DefaultTimeout},
		ListenAddr:       DefaultListenAddr,
		DBPath:           filepath.Join(xdg.DataHome, AppName, AppName+".db"),
		GoogleCalendarID: "primary",
		LogLevel:         DefaultLogLevel,
	}
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load builds the config from defaults, the TOML file at path (Path() when
// empty), a .env file in the working directory, and the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = Path()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"API_BASE_URL":       &c.APIBaseURL,
		"API_TOKEN":          &c.APIToken,
		"TENANT_ID":          &c.TenantID,
		"LISTEN_ADDR":        &c.ListenAddr,
		"DB_PATH":            &c.DBPath,
		"GOOGLE_CALENDAR_ID": &c.GoogleCalendarID,
		"LOG_LEVEL":          &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPAGE_SIZE: %w", envPrefix, err)
		}
		c.PageSize = n
	}
	if v, ok := os.LookupEnv(envPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = Duration{d}
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Save writes the config as TOML to path, creating the directory.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(c)
}
