package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/pkg/config"
)

func testSetup(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	cfg.Game.BasePath = ""
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	charset = "utf-8"
	jobs = 2
}

func TestCollectScripts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.lua", "b.lua", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	files, err := collectScripts([]string{dir})
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected two scripts, got %v", files)
	}

	if _, err := collectScripts([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected missing path to fail")
	}
}

func TestRunBatchCountsFailures(t *testing.T) {
	testSetup(t)
	files := []string{"ok1", "bad", "ok2"}
	err := runBatch(context.Background(), files, func(ctx context.Context, path string) error {
		if path == "bad" {
			return errors.New("boom")
		}
		return nil
	})
	if !errors.Is(err, errBatchFailed) || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("unexpected batch result %v", err)
	}
}

func TestFormatAndEditScript(t *testing.T) {
	testSetup(t)
	path := filepath.Join(t.TempDir(), "level.lua")
	src := "function start(is_wet)\n  Spawn(\"key\", 1, 2)\nend\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := formatFile(context.Background(), path); err != nil {
		t.Fatalf("format failed: %v", err)
	}
	formatted, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(formatted), "-- Created with RecursedEditor") {
		t.Fatalf("script not rewritten:\n%s", formatted)
	}

	err = editScript(context.Background(), path, func(doc *mapcode.Document) error {
		_, err := doc.CreateRoom("vault")
		return err
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	doc, err := readScript(context.Background(), path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := doc.RoomNames(); len(got) != 2 || got[1] != "vault" {
		t.Fatalf("unexpected rooms %v", got)
	}
	start, _ := doc.Room("start")
	if len(start.Dry.Items) != 1 || len(start.Wet.Items) != 1 {
		t.Fatalf("items lost in rewrite")
	}
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]mapcode.Scope{"all": mapcode.ScopeAll, "dry": mapcode.ScopeDry, "wet": mapcode.ScopeWet} {
		got, err := parseScope(in)
		if err != nil || got != want {
			t.Errorf("parseScope(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseScope("damp"); err == nil {
		t.Fatalf("expected invalid scope")
	}
}
