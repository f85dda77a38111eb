package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/mapexport"
)

var (
	decodeOutput string
	decodeFormat string
	buildOutput  string
	buildBackup  bool
	newTileset   string
	newPattern   string
	newForce     bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <script>",
	Short: "Decode a map script into an editable data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var buildCmd = &cobra.Command{
	Use:   "build <data-file>",
	Short: "Build a map script from a data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

var newCmd = &cobra.Command{
	Use:   "new <script>",
	Short: "Create a map script holding only the start room",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "output file (stdout when empty)")
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "", "output format (json, yaml, toml); defaults to the output extension or toml")

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output script (stdout when empty)")
	buildCmd.Flags().BoolVar(&buildBackup, "backup", false, "keep a .bak copy of an overwritten script")

	newCmd.Flags().StringVar(&newTileset, "tileset", "", "tileset reference (defaults to editor.default_tileset)")
	newCmd.Flags().StringVar(&newPattern, "pattern", "", "background pattern reference (defaults to editor.default_pattern)")
	newCmd.Flags().BoolVar(&newForce, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(decodeCmd, buildCmd, newCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	doc, err := readScript(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	format, err := outputFormat(decodeFormat, decodeOutput)
	if err != nil {
		return err
	}
	data, err := mapexport.Marshal(mapexport.FromDocument(doc), format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if decodeOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(decodeOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", decodeOutput, err)
	}
	logger.Info("decoded", "script", args[0], "output", decodeOutput, "rooms", doc.Len())
	return nil
}

func outputFormat(flag, path string) (mapexport.Format, error) {
	switch {
	case flag != "":
		return mapexport.ParseFormat(flag)
	case path != "":
		return mapexport.FormatForPath(path)
	}
	return mapexport.FormatTOML, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	format, err := mapexport.FormatForPath(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	m, err := mapexport.Unmarshal(data, format)
	if err != nil {
		return err
	}
	doc, err := m.ToDocument()
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	code, err := encodeScript(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	if buildOutput == "" {
		_, err = fmt.Fprint(os.Stdout, code)
		return err
	}
	if err := writeScript(buildOutput, code, backupEnabled(buildBackup)); err != nil {
		return fmt.Errorf("failed to write %s: %w", buildOutput, err)
	}
	logger.Info("built", "input", args[0], "script", buildOutput, "rooms", doc.Len())
	return nil
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !newForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	doc := mapcode.NewDocument()
	doc.Tileset = cfg.Editor.DefaultTileset
	doc.Pattern = cfg.Editor.DefaultPattern
	if newTileset != "" {
		doc.Tileset = newTileset
	}
	if newPattern != "" {
		doc.Pattern = newPattern
	}

	code, err := encodeScript(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	if err := writeScript(path, code, false); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("created", "script", path, "tileset", doc.Tileset)
	return nil
}
