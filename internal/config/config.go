package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/labyrinth/internal/pathfinding"
)

// Config holds application configuration.
type Config struct {
	Service  ServiceConfig
	Grid     GridConfig
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// ServiceConfig locates the pathfinding service.
type ServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// GridConfig holds maze dimensions. CellSize is kept for exported snapshots
// consumed by graphical front ends; the terminal ignores it.
type GridConfig struct {
	Rows     int
	Cols     int
	CellSize int `mapstructure:"cell_size"`
}

// DatabaseConfig holds sqlite settings for the run history.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings. ExportDir receives snapshots
// written from the TUI.
type UIConfig struct {
	Algorithm string
	ExportDir string `mapstructure:"export_dir"`
}

// LogConfig holds logrus settings. The TUI owns the terminal, so logs go to
// a file.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix LABYRINTH_.
// An explicit path wins over LABYRINTH_CONFIG, which wins over the default
// search location.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("LABYRINTH_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home(), ".config", "labyrinth"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LABYRINTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default file is fine; an explicit one must exist
		if !errors.As(err, &notFound) || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.url", "http://localhost:8080")
	v.SetDefault("service.timeout", 10*time.Second)
	v.SetDefault("grid.rows", 15)
	v.SetDefault("grid.cols", 40)
	v.SetDefault("grid.cell_size", 25)
	v.SetDefault("database.path", filepath.Join(home(), ".local", "share", "labyrinth", "history.db"))
	v.SetDefault("ui.algorithm", string(pathfinding.Dijkstra))
	v.SetDefault("ui.export_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home(), ".local", "state", "labyrinth", "labyrinth.log"))
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("config: grid must be at least 1x1, got %dx%d", c.Grid.Rows, c.Grid.Cols)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("config: grid.cell_size must be positive, got %d", c.Grid.CellSize)
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("config: service.timeout must be positive, got %s", c.Service.Timeout)
	}
	if strings.TrimSpace(c.Service.URL) == "" {
		return errors.New("config: service.url is required")
	}
	if _, err := pathfinding.ParseAlgorithm(c.UI.Algorithm); err != nil {
		return fmt.Errorf("config: ui.algorithm: %w", err)
	}
	return nil
}

// Algorithm returns the configured default algorithm.
func (c Config) Algorithm() pathfinding.Algorithm {
	a, err := pathfinding.ParseAlgorithm(c.UI.Algorithm)
	if err != nil {
		return pathfinding.Dijkstra
	}
	return a
}

// Save writes the provided config to path (TOML unless the extension says
// otherwise), creating the directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = os.Getenv("LABYRINTH_CONFIG")
	}
	if path == "" {
		path = filepath.Join(home(), ".config", "labyrinth", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	v.Set("service.url", cfg.Service.URL)
	v.Set("service.timeout", cfg.Service.Timeout.String())
	v.Set("grid.rows", cfg.Grid.Rows)
	v.Set("grid.cols", cfg.Grid.Cols)
	v.Set("grid.cell_size", cfg.Grid.CellSize)
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.algorithm", cfg.UI.Algorithm)
	v.Set("ui.export_dir", cfg.UI.ExportDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
