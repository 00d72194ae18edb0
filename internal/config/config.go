// Package config loads the demo board configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk demo configuration: view settings plus the seed
// task list. The file doubles as the live data source; edits to it are
// synced into the store while the demo runs.
type Config struct {
	Title string `toml:"title"`
	View  View   `toml:"view"`
	Tasks []Task `toml:"tasks"`
}

// View configures the initial query over the board.
type View struct {
	SectionField string   `toml:"section_field"` // "" for a flat list
	SortBy       []string `toml:"sort_by"`       // "-" prefix for descending
	Status       string   `toml:"status"`        // "" shows every status
}

// Task is one seeded row.
type Task struct {
	Name     string `toml:"name"`
	Status   string `toml:"status"`
	Priority int64  `toml:"priority"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Title: "liveview",
		View: View{
			SectionField: "status",
			SortBy:       []string{"-priority", "name"},
		},
		Tasks: []Task{
			{Name: "wire the watcher", Status: "open", Priority: 2},
			{Name: "write the readme", Status: "open", Priority: 1},
			{Name: "pick a teal", Status: "done", Priority: 1},
		},
	}
}

// Load reads a config file. A missing file yields the default config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Title == "" {
		cfg.Title = "liveview"
	}
	return &cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
