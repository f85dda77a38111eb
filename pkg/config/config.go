package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvBasePath overrides game.base_path when set.
const EnvBasePath = "RECURSED_PATH"

type Config struct {
	Game      GameConfig      `toml:"game"`
	Editor    EditorConfig    `toml:"editor"`
	Output    OutputConfig    `toml:"output"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

type GameConfig struct {
	BasePath string `toml:"base_path"`
}

type EditorConfig struct {
	GridSnap       int    `toml:"grid_snap"`
	DefaultTileset string `toml:"default_tileset"`
	DefaultPattern string `toml:"default_pattern"`

	// used when the tile sheet image cannot be read
	SheetWidth int `toml:"sheet_width"`
}

type OutputConfig struct {
	Charset string `toml:"charset"`
	Backup  bool   `toml:"backup"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	LogToFile bool   `toml:"log_to_file"`
}

type TelemetryConfig struct {
	Enabled bool `toml:"enabled"`
}

func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig reads a TOML config file. A missing file is not an error when
// optional is set; the defaults are returned instead.
func LoadConfig(path string, optional bool) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			config.applyDefaults()
			config.applyEnv()
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	config.applyEnv()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Editor.GridSnap == 0 {
		c.Editor.GridSnap = 4
	}
	if c.Editor.DefaultTileset == "" {
		c.Editor.DefaultTileset = "tiles/wip"
	}
	if c.Editor.DefaultPattern == "" {
		c.Editor.DefaultPattern = "backgrounds/wip"
	}
	if c.Editor.SheetWidth == 0 {
		c.Editor.SheetWidth = 256
	}

	if c.Output.Charset == "" {
		c.Output.Charset = "utf-8"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv() {
	if path := os.Getenv(EnvBasePath); path != "" {
		c.Game.BasePath = path
	}
}

func (c *Config) Validate() error {
	if c.Editor.GridSnap < 0 {
		return fmt.Errorf("grid_snap cannot be negative: %d", c.Editor.GridSnap)
	}

	if c.Editor.SheetWidth < 16 {
		return fmt.Errorf("sheet_width must be at least one tile wide: %d", c.Editor.SheetWidth)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Editor.DefaultTileset == "" || c.Editor.DefaultPattern == "" {
		return fmt.Errorf("default tileset and pattern cannot be empty")
	}

	return nil
}

func SaveConfig(path string, c *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
