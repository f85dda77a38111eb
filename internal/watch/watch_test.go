package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsScripts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	script := filepath.Join(dir, "level.lua")
	if err := os.WriteFile(script, []byte("tiles = \"a\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != script {
			t.Fatalf("unexpected event %s", got)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for %s", script)
	}
}

func TestWantedFiles(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "one.lua")
	if err := os.WriteFile(single, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(single)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer w.Close()

	if !w.wanted(single) {
		t.Fatalf("named file should be reported")
	}
	if w.wanted(filepath.Join(dir, "two.lua")) {
		t.Fatalf("siblings of a named file should be ignored")
	}
}

func TestCloseEndsStreams(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatalf("expected closed events channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel not closed")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
