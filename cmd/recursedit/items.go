package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/validation"
)

// New items land in the middle of the room unless placed explicitly.
const (
	defaultItemX = 10
	defaultItemY = 7.5
)

var (
	itemX       float64
	itemY       float64
	itemPayload string
	itemGlobal  bool
	itemScope   string
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List and edit the items of a room",
}

var itemsListCmd = &cobra.Command{
	Use:   "list <script> <room>",
	Short: "List the items of a room per variant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readScript(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to decode: %w", err)
		}
		room, ok := doc.Room(args[1])
		if !ok {
			return fmt.Errorf("%w: %s", mapcode.ErrRoomNotFound, args[1])
		}
		for _, inst := range room.Instances(mapcode.ScopeAll) {
			variant := "dry"
			if inst.Wet {
				variant = "wet"
			}
			for _, item := range inst.Items {
				fmt.Printf("%s  %s\n", variant, item)
			}
		}
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add <script> <room> <kind>",
	Short: "Add an item to a room",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, scope, err := itemFromFlags(cmd, args[2])
		if err != nil {
			return err
		}
		if !validation.IsValidItemPosition(item.X, item.Y) {
			logger.Warn("item placed outside the room", "x", item.X, "y", item.Y)
		}
		return editScript(cmd.Context(), args[0], func(doc *mapcode.Document) error {
			room, ok := doc.Room(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", mapcode.ErrRoomNotFound, args[1])
			}
			for _, inst := range room.Instances(scope) {
				inst.AddItem(item)
			}
			return nil
		})
	},
}

var itemsRemoveCmd = &cobra.Command{
	Use:   "remove <script> <room> <kind>",
	Short: "Remove an item identical to the one described",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, scope, err := itemFromFlags(cmd, args[2])
		if err != nil {
			return err
		}
		return editScript(cmd.Context(), args[0], func(doc *mapcode.Document) error {
			room, ok := doc.Room(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", mapcode.ErrRoomNotFound, args[1])
			}
			removed := 0
			for _, inst := range room.Instances(scope) {
				if inst.RemoveItem(item) {
					removed++
				}
			}
			if removed == 0 {
				return fmt.Errorf("no %s in room %s", item, args[1])
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{itemsAddCmd, itemsRemoveCmd} {
		c.Flags().Float64Var(&itemX, "x", defaultItemX, "horizontal position in tiles")
		c.Flags().Float64Var(&itemY, "y", defaultItemY, "vertical position in tiles")
		c.Flags().StringVarP(&itemPayload, "payload", "p", "", "target room, sound file or bird token")
		c.Flags().BoolVarP(&itemGlobal, "global", "g", false, "spawn with Global instead of Spawn")
		c.Flags().StringVar(&itemScope, "in", "all", "variants to edit (all, dry, wet)")
	}

	itemsCmd.PersistentFlags().BoolVar(&editBackup, "backup", false, "keep a .bak copy of the edited script")
	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsRemoveCmd)
	rootCmd.AddCommand(itemsCmd)
}

func itemFromFlags(cmd *cobra.Command, kind string) (mapcode.Item, mapcode.Scope, error) {
	scope, err := parseScope(itemScope)
	if err != nil {
		return mapcode.Item{}, 0, err
	}

	x, y := itemX, itemY
	if cmd.Name() == "add" {
		x = mapcode.SnapPosition(x, cfg.Editor.GridSnap)
		y = mapcode.SnapPosition(y, cfg.Editor.GridSnap)
	}

	item, err := mapcode.NewItem(mapcode.Kind(kind), x, y, itemGlobal, itemPayload)
	if err != nil {
		return mapcode.Item{}, 0, err
	}
	if !item.Kind.Known() {
		logger.Warn("unknown item kind", "kind", kind)
	}
	return item, scope, nil
}

func parseScope(s string) (mapcode.Scope, error) {
	switch s {
	case "all", "":
		return mapcode.ScopeAll, nil
	case "dry":
		return mapcode.ScopeDry, nil
	case "wet":
		return mapcode.ScopeWet, nil
	}
	return 0, fmt.Errorf("invalid variant %q (all, dry, wet)", s)
}
