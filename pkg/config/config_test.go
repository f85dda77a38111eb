package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvBasePath, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[game]
base_path = "/games/Recursed"

[editor]
grid_snap = 8

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Game.BasePath != "/games/Recursed" || cfg.Editor.GridSnap != 8 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Editor.SheetWidth != 256 || cfg.Output.Charset != "utf-8" || cfg.Editor.DefaultTileset != "tiles/wip" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestLoadConfigOptional(t *testing.T) {
	t.Setenv(EnvBasePath, "/env/Recursed")
	path := filepath.Join(t.TempDir(), "missing.toml")

	if _, err := LoadConfig(path, false); err == nil {
		t.Fatalf("expected missing required config to fail")
	}
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("optional load failed: %v", err)
	}
	if cfg.Game.BasePath != "/env/Recursed" {
		t.Fatalf("env override not applied: %q", cfg.Game.BasePath)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid log level")
	}

	cfg = DefaultConfig()
	cfg.Editor.SheetWidth = 8
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid sheet width")
	}
}

func TestSaveConfig(t *testing.T) {
	t.Setenv(EnvBasePath, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Output.Backup = true
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("saved config differs: %+v vs %+v", loaded, cfg)
	}
}
