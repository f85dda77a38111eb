package mapcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/siohaza/recursedit/pkg/tilechars"
)

const (
	codeHeader = "Created with RecursedEditor"
	wetParam   = "is_wet"
	tableName  = "tile_mapping"
)

// EncodeLabels builds a character map from labels and encodes doc with it.
func EncodeLabels(doc *Document, labels []string) (string, error) {
	chars, err := tilechars.New(labels)
	if err != nil {
		return "", &EncodingError{Err: err}
	}
	return Encode(doc, chars)
}

// Encode renders doc as a map script. Every tile label used by the
// document must be present in chars. Rooms whose dry and wet variants
// share content are written once, with only the differences guarded by the
// wet parameter.
func Encode(doc *Document, chars *tilechars.Map) (string, error) {
	used := make(map[string]bool)
	for _, room := range doc.rooms {
		for _, inst := range []*Instance{room.Dry, room.Wet} {
			if err := checkInstance(room.Name, inst, chars, used); err != nil {
				return "", err
			}
		}
	}

	var b strings.Builder
	b.WriteString("-- " + codeHeader + "\n\n")
	writeTileTable(&b, chars, used)
	b.WriteString("\n\n")

	for i, room := range doc.rooms {
		if i > 0 {
			b.WriteString("\n\n")
		}
		writeRoom(&b, room, chars)
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "tiles = %s\n", quote(doc.Tileset))
	fmt.Fprintf(&b, "pattern = %s\n", quote(doc.Pattern))
	if doc.Light != nil {
		fmt.Fprintf(&b, "light = %s\n", doc.Light)
	}
	if doc.Dark != nil {
		fmt.Fprintf(&b, "dark = %s\n", doc.Dark)
	}
	return b.String(), nil
}

func checkInstance(room string, inst *Instance, chars *tilechars.Map, used map[string]bool) error {
	for y := range inst.Grid {
		for _, label := range inst.Grid[y] {
			if used[label] {
				continue
			}
			if _, ok := chars.Char(label); !ok {
				return &EncodingError{Room: room, Err: fmt.Errorf("%w: %q", ErrUnsupportedTile, label)}
			}
			used[label] = true
		}
	}
	for _, item := range inst.Items {
		if item.Kind.PayloadShape() != PayloadNone && item.PayloadText() == "" {
			return &EncodingError{Room: room, Err: fmt.Errorf("%w: %s", ErrMissingPayload, item.Kind)}
		}
	}
	return nil
}

func writeTileTable(b *strings.Builder, chars *tilechars.Map, used map[string]bool) {
	entries := make([]string, 0, len(used))
	for _, label := range chars.Labels() {
		if !used[label] {
			continue
		}
		ch, _ := chars.Char(label)
		entries = append(entries, fmt.Sprintf("[%s]=%s", quote(string(ch)), quote(label)))
	}
	fmt.Fprintf(b, "local %s = {%s}", tableName, strings.Join(entries, ", "))
}

func writeRoom(b *strings.Builder, room *Room, chars *tilechars.Map) {
	both, dryOnly, wetOnly := splitItems(room.Dry.Items, room.Wet.Items)

	fmt.Fprintf(b, "function %s(%s)", room.Name, wetParam)

	if room.Dry.Grid == room.Wet.Grid {
		b.WriteString("\n  " + gridCode(&room.Dry.Grid, chars))
		switch {
		case len(dryOnly) > 0 && len(wetOnly) > 0:
			b.WriteString("\n  if " + wetParam + " then")
			writeItems(b, wetOnly, "    ")
			b.WriteString("\n  else")
			writeItems(b, dryOnly, "    ")
			b.WriteString("\n  end")
		case len(dryOnly) > 0:
			b.WriteString("\n  if not " + wetParam + " then")
			writeItems(b, dryOnly, "    ")
			b.WriteString("\n  end")
		case len(wetOnly) > 0:
			b.WriteString("\n  if " + wetParam + " then")
			writeItems(b, wetOnly, "    ")
			b.WriteString("\n  end")
		}
	} else {
		b.WriteString("\n  if " + wetParam + " then")
		b.WriteString("\n    " + gridCode(&room.Wet.Grid, chars))
		writeItems(b, wetOnly, "    ")
		b.WriteString("\n  else")
		b.WriteString("\n    " + gridCode(&room.Dry.Grid, chars))
		writeItems(b, dryOnly, "    ")
		b.WriteString("\n  end")
	}

	writeItems(b, both, "  ")
	b.WriteString("\nend")
}

// gridCode writes the rows at column 0: the decoder reads grid rows
// verbatim, so indentation would shift every cell.
func gridCode(g *Grid, chars *tilechars.Map) string {
	rows := make([]string, Height)
	for y := range g {
		var row strings.Builder
		for _, label := range g[y] {
			ch, _ := chars.Char(label)
			row.WriteRune(ch)
		}
		rows[y] = row.String()
	}
	return fmt.Sprintf("ApplyTiles(%s, 0, 0, [[\n%s\n]])", tableName, strings.Join(rows, "\n"))
}

func writeItems(b *strings.Builder, items []Item, indent string) {
	for _, item := range items {
		b.WriteString("\n" + indent + item.String())
	}
}

func formatItemArgs(it Item) string {
	args := []string{quote(string(it.Kind)), formatNumber(it.X), formatNumber(it.Y)}
	if it.Payload != nil {
		if it.Payload.quoted() {
			args = append(args, quote(it.Payload.Text()))
		} else {
			args = append(args, it.Payload.Text())
		}
	}
	return "(" + strings.Join(args, ", ") + ")"
}

// splitItems matches wet items against dry ones by identity. Each dry item
// pairs with at most one wet item, so repeated items survive a round trip.
func splitItems(dry, wet []Item) (both, dryOnly, wetOnly []Item) {
	matched := make([]bool, len(dry))
	for _, w := range wet {
		found := false
		for i, d := range dry {
			if !matched[i] && Identical(d, w) {
				matched[i] = true
				found = true
				break
			}
		}
		if found {
			both = append(both, w)
		} else {
			wetOnly = append(wetOnly, w)
		}
	}
	for i, d := range dry {
		if !matched[i] {
			dryOnly = append(dryOnly, d)
		}
	}
	return both, dryOnly, wetOnly
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	return `"` + s + `"`
}
