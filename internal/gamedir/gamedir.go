package gamedir

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotGameDir = errors.New("not a Recursed install directory")

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsGameDir reports whether dir holds the game's data/init.lua.
func IsGameDir(dir string) bool {
	if dir == "" {
		return false
	}
	return isFile(filepath.Join(dir, "data", "init.lua"))
}

// Normalize walks from a commonly picked folder (the Steam root, the data
// folder, a macOS bundle parent) to the install directory. Paths that do
// not exist are returned unchanged.
func Normalize(dir string) string {
	if dir == "" || !isDir(dir) {
		return dir
	}
	dir = filepath.Clean(dir)

	switch strings.ToLower(filepath.Base(dir)) {
	case "data":
		return Normalize(filepath.Dir(dir))
	case "steam":
		return Normalize(filepath.Join(dir, "steamapps"))
	case "steamapps":
		return Normalize(filepath.Join(dir, "common"))
	case "common":
		return Normalize(filepath.Join(dir, "Recursed"))
	case "recursed":
		mac := filepath.Join(dir, "Recursed.app", "Contents", "Resources")
		if isDir(mac) {
			return Normalize(mac)
		}
	}
	return dir
}

// Resolve normalizes dir and checks that it is an install directory.
func Resolve(dir string) (string, error) {
	base := Normalize(dir)
	if !IsGameDir(base) {
		return "", fmt.Errorf("%w: %s", ErrNotGameDir, dir)
	}
	return base, nil
}

// Path locates a game resource, preferring the shipped data folder over
// the custom folder.
func Path(base, child string) string {
	data := filepath.Join(base, "data", filepath.FromSlash(child))
	if isFile(data) {
		return data
	}
	return filepath.Join(base, "custom", filepath.FromSlash(child))
}

// TilesetPaths returns the definition and sheet image of a tileset
// reference such as tiles/cave.
func TilesetPaths(base, tileset string) (lua, png string) {
	return Path(base, tileset+".lua"), Path(base, tileset+".png")
}

// SheetWidth reads the pixel width of a PNG from its header.
func SheetWidth(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, fmt.Errorf("failed to read image header %s: %w", path, err)
	}
	return cfg.Width, nil
}
