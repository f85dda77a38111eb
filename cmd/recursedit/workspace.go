package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	cp "github.com/otiai10/copy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/siohaza/recursedit/internal/gamedir"
	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/textenc"
	"github.com/siohaza/recursedit/internal/tiledef"
	"github.com/siohaza/recursedit/pkg/tilechars"
)

var errBatchFailed = errors.New("some files failed")

func startSpan(ctx context.Context, name, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("file", path)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return textenc.Decode(data, charset)
}

func readScript(ctx context.Context, path string) (doc *mapcode.Document, err error) {
	_, span := startSpan(ctx, "decode", path)
	defer func() { endSpan(span, err) }()

	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	doc, err = mapcode.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("rooms", doc.Len()))
	return doc, nil
}

func encodeScript(ctx context.Context, doc *mapcode.Document) (code string, err error) {
	_, span := tracer.Start(ctx, "encode")
	defer func() { endSpan(span, err) }()

	chars, err := charMap(doc)
	if err != nil {
		return "", err
	}
	return mapcode.Encode(doc, chars)
}

// writeScript writes code to path, keeping a .bak copy of the previous
// file when backups are enabled.
func writeScript(path, code string, backup bool) error {
	data, err := textenc.Encode(code, charset)
	if err != nil {
		return err
	}

	if backup {
		if _, err := os.Stat(path); err == nil {
			if err := cp.Copy(path, path+".bak"); err != nil {
				return fmt.Errorf("failed to back up %s: %w", path, err)
			}
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// charMap picks the grid characters for doc: the order of its tileset
// when the game directory is configured, else the labels the document uses.
func charMap(doc *mapcode.Document) (*tilechars.Map, error) {
	if cfg.Game.BasePath != "" {
		ts, err := loadTileset(doc.Tileset)
		if err == nil {
			return ts.CharMap()
		}
		logger.Warn("tileset unavailable, numbering the tiles in use", "tileset", doc.Tileset, "error", err)
	}
	return tilechars.New(doc.Labels())
}

func loadTileset(name string) (*tiledef.Tileset, error) {
	base, err := gamedir.Resolve(cfg.Game.BasePath)
	if err != nil {
		return nil, err
	}

	luaPath, pngPath := gamedir.TilesetPaths(base, name)
	width, err := gamedir.SheetWidth(pngPath)
	if err != nil {
		logger.Debug("using configured sheet width", "sheet", pngPath, "error", err)
		width = cfg.Editor.SheetWidth
	}
	return tiledef.LoadFile(luaPath, width)
}

// collectScripts expands directories to the .lua files they contain.
func collectScripts(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			dirFiles, err := filepath.Glob(filepath.Join(arg, "*.lua"))
			if err != nil {
				return nil, fmt.Errorf("failed to list files in %s: %w", arg, err)
			}
			files = append(files, dirFiles...)
		} else {
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no map scripts found")
	}
	return files, nil
}

// runBatch applies fn to every file with at most jobs running at once. A
// failing file is logged and does not stop the others.
func runBatch(ctx context.Context, files []string, fn func(ctx context.Context, path string) error) error {
	var failed atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, file); err != nil {
				logger.Error("failed", "file", file, "error", err)
				failed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailed, n, len(files))
	}
	return nil
}

func backupEnabled(flag bool) bool {
	return flag || cfg.Output.Backup
}
