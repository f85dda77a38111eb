package mapcode

import "fmt"

// Diff lists the observable differences between two documents: tileset and
// pattern references, colors, room order, grids, and item sets compared by
// identity. An empty result means the documents are equivalent.
func Diff(a, b *Document) []string {
	var diffs []string

	if a.Tileset != b.Tileset {
		diffs = append(diffs, fmt.Sprintf("tileset %q != %q", a.Tileset, b.Tileset))
	}
	if a.Pattern != b.Pattern {
		diffs = append(diffs, fmt.Sprintf("pattern %q != %q", a.Pattern, b.Pattern))
	}
	if !sameColor(a.Light, b.Light) {
		diffs = append(diffs, "light color differs")
	}
	if !sameColor(a.Dark, b.Dark) {
		diffs = append(diffs, "dark color differs")
	}

	namesA, namesB := a.RoomNames(), b.RoomNames()
	if len(namesA) != len(namesB) {
		diffs = append(diffs, fmt.Sprintf("room count %d != %d", len(namesA), len(namesB)))
	}
	for i := 0; i < len(namesA) && i < len(namesB); i++ {
		if namesA[i] != namesB[i] {
			diffs = append(diffs, fmt.Sprintf("room %d: %s != %s", i, namesA[i], namesB[i]))
		}
	}

	for _, ra := range a.rooms {
		rb, ok := b.Room(ra.Name)
		if !ok {
			continue
		}
		diffs = append(diffs, diffInstance(ra.Name+"/dry", ra.Dry, rb.Dry)...)
		diffs = append(diffs, diffInstance(ra.Name+"/wet", ra.Wet, rb.Wet)...)
	}

	return diffs
}

func diffInstance(label string, a, b *Instance) []string {
	var diffs []string
	for y := range a.Grid {
		for x := range a.Grid[y] {
			if a.Grid[y][x] != b.Grid[y][x] {
				diffs = append(diffs, fmt.Sprintf("%s: tile (%d,%d) %q != %q", label, x, y, a.Grid[y][x], b.Grid[y][x]))
			}
		}
	}

	_, onlyA, onlyB := splitItems(a.Items, b.Items)
	for _, it := range onlyA {
		diffs = append(diffs, fmt.Sprintf("%s: item %s missing on the right", label, it))
	}
	for _, it := range onlyB {
		diffs = append(diffs, fmt.Sprintf("%s: item %s missing on the left", label, it))
	}
	return diffs
}

func sameColor(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
