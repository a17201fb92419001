// ABOUTME: Layered configuration for the libctl CLI
// ABOUTME: Defaults, then YAML file, then .env, then environment, then flags

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Environment variables read by Load
const (
	EnvAPIURL    = "LIBCTL_API_URL"
	EnvLang      = "LIBCTL_LANG"
	EnvTimeout   = "LIBCTL_TIMEOUT"
	EnvPageSize  = "LIBCTL_PAGE_SIZE"
	EnvConfig    = "LIBCTL_CONFIG"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// FileName is the config file looked up in the config directory
const FileName = "config.yaml"

// MaxPageSize bounds list page sizes
const MaxPageSize = 100

type Config struct {
	APIURL    string
	Lang      string        // vi or en
	Timeout   time.Duration // zero means transport default
	PageSize  int           // default page size for list commands
	LogLevel  string        // debug, info, warn, error
	LogFormat string        // text or json
}

// fileConfig is the YAML layout of the config file
type fileConfig struct {
	APIURL    string `yaml:"api_url,omitempty"`
	Lang      string `yaml:"lang,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
	PageSize  int    `yaml:"page_size,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// Overrides are values given on the command line. Empty fields are ignored.
type Overrides struct {
	APIURL   string
	Lang     string
	LogLevel string
}

// Options controls where Load looks
type Options struct {
	Path      string // config file; empty means LIBCTL_CONFIG or <dir>/config.yaml
	Dir       string // config directory used when Path is empty
	EnvFile   string // dotenv file; empty means .env in the working directory
	Overrides Overrides
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:    "http://localhost:8000",
		Lang:      "vi",
		PageSize:  10,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves the configuration. A missing config file or .env is not an error.
func Load(opts Options) (*Config, error) {
	cfg := DefaultConfig()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Existing environment variables take precedence over the file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	path := ResolvePath(opts)
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.applyFlags(opts.Overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath returns the config file Load would read
func ResolvePath(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if opts.Dir == "" {
		return ""
	}
	return filepath.Join(opts.Dir, FileName)
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	c.APIURL = firstNonEmpty(fc.APIURL, c.APIURL)
	c.Lang = firstNonEmpty(fc.Lang, c.Lang)
	c.LogLevel = firstNonEmpty(fc.LogLevel, c.LogLevel)
	c.LogFormat = firstNonEmpty(fc.LogFormat, c.LogFormat)
	if fc.PageSize != 0 {
		c.PageSize = fc.PageSize
	}
	if fc.Timeout != "" {
		d, err := parseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		c.Timeout = d
	}
	return nil
}

// applyEnvOverrides overrides configuration with environment variables
func applyEnvOverrides(c *Config) error {
	c.APIURL = getEnv(EnvAPIURL, c.APIURL)
	c.Lang = getEnv(EnvLang, c.Lang)
	c.PageSize = getEnvInt(EnvPageSize, c.PageSize)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.LogFormat = getEnv(EnvLogFormat, c.LogFormat)
	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyFlags(o Overrides) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.Lang != "" {
		c.Lang = o.Lang
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate normalizes and checks the configuration
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(ensureScheme(strings.TrimSpace(c.APIURL)), "/")
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}

	c.Lang = strings.ToLower(c.Lang)
	if c.Lang != "vi" && c.Lang != "en" {
		return fmt.Errorf("lang must be vi or en, got %q", c.Lang)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be a non-negative duration")
	}

	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", MaxPageSize, c.PageSize)
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	fc := fileConfig{
		APIURL:    c.APIURL,
		Lang:      c.Lang,
		PageSize:  c.PageSize,
		LogLevel:  c.LogLevel,
		LogFormat: c.LogFormat,
	}
	if c.Timeout > 0 {
		fc.Timeout = c.Timeout.String()
	}
	data, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// parseTimeout accepts a Go duration or a bare number of seconds
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative timeout %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %q", raw)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
