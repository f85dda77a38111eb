package validation

import (
	"fmt"
	"math"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/tiledef"
)

func IsValidItemPosition(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}

	return x >= 0 && x <= mapcode.Width &&
		y >= 0 && y <= mapcode.Height
}

func IsValidTilePosition(x, y int) bool {
	return x >= 0 && x < mapcode.Width &&
		y >= 0 && y < mapcode.Height
}

// Check lists problems the game would trip over that the codec itself
// accepts.
func Check(doc *mapcode.Document) []string {
	var warnings []string

	for _, room := range doc.Rooms() {
		for _, inst := range room.Instances(mapcode.ScopeAll) {
			where := room.Name + "/dry"
			if inst.Wet {
				where = room.Name + "/wet"
			}
			warnings = append(warnings, checkInstance(doc, where, inst)...)
		}
	}

	if start, ok := doc.Room("start"); ok && isBlank(start.Dry) && isBlank(start.Wet) {
		warnings = append(warnings, "start: room is empty")
	}

	return warnings
}

func checkInstance(doc *mapcode.Document, where string, inst *mapcode.Instance) []string {
	var warnings []string
	players := 0

	for _, item := range inst.Items {
		if !IsValidItemPosition(item.X, item.Y) {
			warnings = append(warnings, fmt.Sprintf("%s: %s outside the room at (%v, %v)", where, item.Kind, item.X, item.Y))
		}
		if !item.Kind.Known() {
			warnings = append(warnings, fmt.Sprintf("%s: unknown item kind %q", where, item.Kind))
		}
		if link, ok := item.Payload.(mapcode.RoomLink); ok {
			if _, exists := doc.Room(link.Room); !exists {
				warnings = append(warnings, fmt.Sprintf("%s: %s leads to missing room %q", where, item.Kind, link.Room))
			}
		}
		if item.Kind == mapcode.KindPlayer {
			players++
		}
	}

	if players > 1 {
		warnings = append(warnings, fmt.Sprintf("%s: %d player items", where, players))
	}
	return warnings
}

// CheckTiles reports grid labels the tileset does not define.
func CheckTiles(doc *mapcode.Document, ts *tiledef.Tileset) []string {
	var warnings []string
	for _, label := range doc.Labels() {
		if _, ok := ts.Def(label); !ok {
			warnings = append(warnings, fmt.Sprintf("tile %q is not defined by the tileset", label))
		}
	}
	return warnings
}

func isBlank(inst *mapcode.Instance) bool {
	if len(inst.Items) > 0 {
		return false
	}
	for y := range inst.Grid {
		for _, label := range inst.Grid[y] {
			if label != mapcode.EmptyTile {
				return false
			}
		}
	}
	return true
}
