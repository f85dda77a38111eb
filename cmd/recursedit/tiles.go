package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles [tileset]",
	Short: "List the tile types of a tileset and their grid characters",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)
}

func runTiles(cmd *cobra.Command, args []string) error {
	if cfg.Game.BasePath == "" {
		return fmt.Errorf("game.base_path is not set (config or RECURSED_PATH)")
	}
	name := cfg.Editor.DefaultTileset
	if len(args) == 1 {
		name = args[0]
	}

	ts, err := loadTileset(name)
	if err != nil {
		return fmt.Errorf("failed to load tileset %s: %w", name, err)
	}
	chars, err := ts.CharMap()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAR\tNAME\tTYPE\tFRAME")
	for _, label := range ts.Order {
		def, _ := ts.Def(label)
		ch, _ := chars.Char(label)
		frame := "-"
		if def.Frame != nil {
			frame = fmt.Sprintf("%d,%d", def.Frame.X, def.Frame.Y)
			if len(def.Frames) > 1 {
				frame += fmt.Sprintf(" (+%d)", len(def.Frames)-1)
			}
		}
		fmt.Fprintf(w, "%c\t%s\t%s\t%s\n", ch, label, def.Type, frame)
	}
	return w.Flush()
}
