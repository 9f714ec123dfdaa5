package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smasonuk/meshconv"
)

// Config holds all meshconv configuration.
type Config struct {
	// Conversion settings
	Format    string `yaml:"format"` // auto, ascii, binary
	Strict    bool   `yaml:"strict"`
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`

	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
	Preview PreviewConfig `yaml:"preview"`

	// Body describes how the simulation places the converted OBJ.
	Body BodyConfig `yaml:"body"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

type PreviewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BodyConfig mirrors the OBJ body template of the MPM/DEM simulation.
type BodyConfig struct {
	Offset      [3]float64 `yaml:"offset"`
	ScaleFactor float64    `yaml:"scale_factor"`
	Domain      [3]float64 `yaml:"domain"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:  "auto",
		Workers: 4,

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Watch: WatchConfig{
			Debounce: "300ms",
		},

		Preview: PreviewConfig{
			Width:  640,
			Height: 480,
		},

		Body: BodyConfig{
			ScaleFactor: 1,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MESHCONV_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("MESHCONV_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MESHCONV_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
	if v := os.Getenv("MESHCONV_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ReadOptions translates the conversion settings for the reader.
func (c *Config) ReadOptions() (meshconv.ReadOptions, error) {
	format, err := meshconv.ParseFormat(c.Format)
	if err != nil {
		return meshconv.ReadOptions{}, err
	}
	return meshconv.ReadOptions{Format: format, Strict: c.Strict}, nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := meshconv.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d <= 0 {
		return fmt.Errorf("invalid watch debounce: %q (want a positive duration such as 300ms)", c.Watch.Debounce)
	}

	if c.Body.ScaleFactor <= 0 {
		return fmt.Errorf("body scale_factor must be positive, got %v", c.Body.ScaleFactor)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}

	return nil
}
