package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sentinelsearch configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Output  OutputConfig  `yaml:"output"`
	Status  StatusConfig  `yaml:"status"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error (default: determined by env)
	ConsoleLevel string `yaml:"console_level"` // lowest level shown on the host console (default: info)
}

// CatalogConfig holds DHuS connection settings.
type CatalogConfig struct {
	URL                string `yaml:"url"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	TimeoutSec         int    `yaml:"timeout_sec"`
	DownloadTimeoutSec int    `yaml:"download_timeout_sec"`
	PageSize           int    `yaml:"page_size"`
	DownloadAttempts   int    `yaml:"download_attempts"`
	RetryDelaySec      int    `yaml:"retry_delay_sec"`
}

// OutputConfig holds where results are written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// StatusConfig holds the optional progress/metrics HTTP server settings.
type StatusConfig struct {
	Addr        string   `yaml:"addr"` // empty disables the server
	ShutdownSec int      `yaml:"shutdown_timeout_sec"`
	TailLines   int      `yaml:"tail_lines"`
	APIKeys     []string `yaml:"api_keys"` // Bearer tokens for /progress; empty entries are ignored
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, expanding ${VAR} references first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Catalog.URL == "" {
		c.Catalog.URL = "https://scihub.copernicus.eu/apihub/"
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 60
	}
	if c.Catalog.DownloadTimeoutSec <= 0 {
		c.Catalog.DownloadTimeoutSec = 7200
	}
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = 100
	}
	if c.Catalog.DownloadAttempts <= 0 {
		c.Catalog.DownloadAttempts = 3
	}
	if c.Catalog.RetryDelaySec <= 0 {
		c.Catalog.RetryDelaySec = 5
	}
	if c.Status.ShutdownSec <= 0 {
		c.Status.ShutdownSec = 5
	}
	if c.Status.TailLines <= 0 {
		c.Status.TailLines = 200
	}
	if c.Logging.ConsoleLevel == "" {
		c.Logging.ConsoleLevel = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Catalog.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog.url must be an http(s) URL, got %q", c.Catalog.URL)
	}
	if c.Catalog.PageSize > 100 {
		return fmt.Errorf("catalog.page_size must be between 1 and 100, got %d", c.Catalog.PageSize)
	}
	if c.Status.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Status.Addr); err != nil {
			return fmt.Errorf("status.addr must be host:port, got %q", c.Status.Addr)
		}
	}
	switch strings.ToLower(c.Logging.ConsoleLevel) {
	case "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.console_level must be debug, info, warn or error, got %q", c.Logging.ConsoleLevel)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
