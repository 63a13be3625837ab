// Package config loads planboard settings with precedence defaults → YAML file → env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"planboard/internal/store"

	"gopkg.in/yaml.v3"
)

// Config is read-only after Load returns.
type Config struct {
	DataDir string       `yaml:"data_dir"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	UI      UIConfig     `yaml:"ui"`
}

// ServerConfig contains web dashboard settings.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LogConfig contains logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// UIConfig holds the header texts shown by both dashboards.
type UIConfig struct {
	Company  string `yaml:"company"`
	Subtitle string `yaml:"subtitle"`
}

// Duration is a time.Duration that reads and writes YAML strings like "15s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

const fileName = "config.yaml"

// DefaultPath is PLANBOARD_CONFIG, or config.yaml in the default data dir.
func DefaultPath() string {
	if v := strings.TrimSpace(os.Getenv("PLANBOARD_CONFIG")); v != "" {
		return store.ExpandHome(v)
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Load reads the config at path. An empty path means DefaultPath, where a missing file
// is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := newDefaults()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadYAMLFile(cfg, store.ExpandHome(path), explicit); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	cfg.DataDir = store.ExpandHome(cfg.DataDir)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDefaults() *Config {
	dir, err := store.DefaultDir()
	if err != nil {
		dir = ".planboard"
	}
	return &Config{
		DataDir: dir,
		Server: ServerConfig{
			Addr:            "127.0.0.1:3340",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    0, // SSE streams stay open
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Company:  "TGA Hoyerswerda GmbH",
			Subtitle: "Projektübersicht & Kapazitätsplanung",
		},
	}
}

func loadYAMLFile(cfg *Config, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies non-empty PLANBOARD_* variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLANBOARD_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PLANBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PLANBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PLANBOARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PLANBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}
