package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/mapcode"
)

var editBackup bool

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List and edit the rooms of a map script",
}

var roomsListCmd = &cobra.Command{
	Use:   "list <script>",
	Short: "List rooms in definition order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readScript(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to decode: %w", err)
		}
		for _, room := range doc.Rooms() {
			marker := ""
			if mapcode.IsReserved(room.Name) {
				marker = " (reserved)"
			}
			fmt.Printf("%s%s  dry:%d wet:%d items\n", room.Name, marker, len(room.Dry.Items), len(room.Wet.Items))
		}
		return nil
	},
}

var roomsAddCmd = &cobra.Command{
	Use:   "add <script> <room>",
	Short: "Add an empty room",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScript(cmd.Context(), args[0], func(doc *mapcode.Document) error {
			if _, exists := doc.Room(args[1]); exists {
				return fmt.Errorf("%w: %s", mapcode.ErrRoomExists, args[1])
			}
			_, err := doc.CreateRoom(args[1])
			return err
		})
	},
}

var roomsRenameCmd = &cobra.Command{
	Use:   "rename <script> <room> <new-name>",
	Short: "Rename a room",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScript(cmd.Context(), args[0], func(doc *mapcode.Document) error {
			return doc.RenameRoom(args[1], args[2])
		})
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete <script> <room>",
	Short: "Delete a room",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScript(cmd.Context(), args[0], func(doc *mapcode.Document) error {
			return doc.DeleteRoom(args[1])
		})
	},
}

func init() {
	roomsCmd.PersistentFlags().BoolVar(&editBackup, "backup", false, "keep a .bak copy of the edited script")
	roomsCmd.AddCommand(roomsListCmd, roomsAddCmd, roomsRenameCmd, roomsDeleteCmd)
	rootCmd.AddCommand(roomsCmd)
}

// editScript decodes path, applies edit and writes the script back.
func editScript(ctx context.Context, path string, edit func(doc *mapcode.Document) error) error {
	doc, err := readScript(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	if err := edit(doc); err != nil {
		return err
	}
	code, err := encodeScript(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	if err := writeScript(path, code, backupEnabled(editBackup)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("updated", "script", path, "rooms", doc.Len())
	return nil
}
