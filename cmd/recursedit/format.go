package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	formatWrite  bool
	formatBackup bool
)

var formatCmd = &cobra.Command{
	Use:   "format <paths...>",
	Short: "Rewrite map scripts in canonical form",
	Long: `format decodes each script and encodes it again. Without -w a single
script is printed to stdout; with -w changed files are rewritten in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write the result back to the source file")
	formatCmd.Flags().BoolVar(&formatBackup, "backup", false, "keep a .bak copy of rewritten files")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	files, err := collectScripts(args)
	if err != nil {
		return err
	}

	if !formatWrite {
		if len(files) != 1 {
			return fmt.Errorf("formatting %d files needs -w", len(files))
		}
		doc, err := readScript(cmd.Context(), files[0])
		if err != nil {
			return fmt.Errorf("failed to decode: %w", err)
		}
		code, err := encodeScript(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("failed to encode: %w", err)
		}
		_, err = fmt.Fprint(os.Stdout, code)
		return err
	}

	return runBatch(cmd.Context(), files, formatFile)
}

func formatFile(ctx context.Context, path string) error {
	ctx, span := startSpan(ctx, "format", path)
	var err error
	defer func() { endSpan(span, err) }()

	before, err := readText(path)
	if err != nil {
		return err
	}
	doc, err := readScript(ctx, path)
	if err != nil {
		return err
	}
	code, err := encodeScript(ctx, doc)
	if err != nil {
		return err
	}

	if code == before {
		logger.Debug("unchanged", "file", path)
		return nil
	}
	if err = writeScript(path, code, backupEnabled(formatBackup)); err != nil {
		return err
	}
	logger.Info("formatted", "file", path, "rooms", doc.Len())
	return nil
}
