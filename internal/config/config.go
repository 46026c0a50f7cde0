package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonfmt/internal/formatter"
)

// Config represents the complete configuration for jsonfmt
type Config struct {
	Indent         int         `yaml:"indent"`
	StartCollapsed bool        `yaml:"start_collapsed"`
	NoColor        bool        `yaml:"no_color"`
	Copy           CopyConfig  `yaml:"copy"`
	Theme          ThemeConfig `yaml:"theme"`
	Fetch          FetchConfig `yaml:"fetch"`
	Dev            DevConfig   `yaml:"dev"`
}

// CopyConfig controls what the clipboard receives
type CopyConfig struct {
	Format        string        `yaml:"format"`
	StatusTimeout time.Duration `yaml:"status_timeout"`
}

// ThemeConfig holds lipgloss colors for each part of a rendered tree.
// Colors are hex ("#ff79c6") or ANSI 256 numbers ("212").
type ThemeConfig struct {
	Key      string `yaml:"key"`
	String   string `yaml:"string"`
	Number   string `yaml:"number"`
	Boolean  string `yaml:"boolean"`
	Null     string `yaml:"null"` // the key must be quoted in YAML
	Brace    string `yaml:"brace"`
	Summary  string `yaml:"summary"`
	Toggle   string `yaml:"toggle"`
	Selected string `yaml:"selected"`
	Header   string `yaml:"header"`
}

// FetchConfig controls URL loading
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retries   int           `yaml:"retries"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// Overrides carries command-line values. Zero values leave the config alone.
type Overrides struct {
	Indent         int
	StartCollapsed bool
	NoColor        bool
	Debug          bool
	CopyFormat     string
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent: formatter.DefaultIndent,
		Copy: CopyConfig{
			Format:        string(formatter.ModePretty),
			StatusTimeout: 2 * time.Second,
		},
		Theme: DefaultTheme(),
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "jsonfmt",
			Retries:   2,
		},
	}
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Key:      "#8be9fd",
		String:   "#50fa7b",
		Number:   "#bd93f9",
		Boolean:  "#ffb86c",
		Null:     "#6272a4",
		Brace:    "#f8f8f2",
		Summary:  "#6272a4",
		Toggle:   "#ff79c6",
		Selected: "#44475a",
		Header:   "#7D56F4",
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in the given directory and its parents
func FindConfigFile(startDir string) string {
	configNames := []string{".jsonfmt.yml", ".jsonfmt.yaml", "jsonfmt.yml", "jsonfmt.yaml"}

	currentDir := startDir
	if currentDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		currentDir = wd
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks value ranges and theme colors
func (c *Config) Validate() error {
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("indent must be between 1 and 8, got %d", c.Indent)
	}
	if _, err := formatter.ParseMode(c.Copy.Format); err != nil {
		return err
	}
	if c.Copy.StatusTimeout <= 0 {
		return fmt.Errorf("copy.status_timeout must be positive, got %s", c.Copy.StatusTimeout)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must not be negative, got %d", c.Fetch.Retries)
	}

	colors := []struct {
		name, value string
	}{
		{"key", c.Theme.Key},
		{"string", c.Theme.String},
		{"number", c.Theme.Number},
		{"boolean", c.Theme.Boolean},
		{"null", c.Theme.Null},
		{"brace", c.Theme.Brace},
		{"summary", c.Theme.Summary},
		{"toggle", c.Theme.Toggle},
		{"selected", c.Theme.Selected},
		{"header", c.Theme.Header},
	}
	for _, col := range colors {
		if !validColor(col.value) {
			return fmt.Errorf("invalid theme color for %s: '%s'", col.name, col.value)
		}
	}
	return nil
}

// validColor accepts hex colors and ANSI 256 numbers. Empty means "no color".
func validColor(s string) bool {
	if s == "" || hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Boolean flags can only switch a feature on
	if cli.Indent > 0 {
		cfg.Indent = cli.Indent
	}
	if cli.StartCollapsed {
		cfg.StartCollapsed = true
	}
	if cli.NoColor {
		cfg.NoColor = true
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}
	if cli.CopyFormat != "" {
		cfg.Copy.Format = cli.CopyFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CopyMode returns the configured copy format as a formatter.Mode.
func (c *Config) CopyMode() formatter.Mode {
	mode, err := formatter.ParseMode(c.Copy.Format)
	if err != nil {
		return formatter.ModePretty
	}
	return mode
}
