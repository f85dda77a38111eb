package tiledef

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/siohaza/recursedit/pkg/tilechars"
)

// TileSize is the edge length of one tile on a sheet, in pixels.
const TileSize = 16

// EmptyName is the synthetic tile type every tileset starts with.
const EmptyName = "empty"

var (
	ErrResourceUnavailable = errors.New("tile definition resource unavailable")
	ErrInvalidSheet        = errors.New("invalid tile sheet width")
)

type Point struct {
	X int `json:"x" yaml:"x" toml:"x"`
	Y int `json:"y" yaml:"y" toml:"y"`
}

// Field is a definition field kept verbatim.
type Field struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

type Def struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Type   string  `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Frame  *Point  `json:"frame,omitempty" yaml:"frame,omitempty" toml:"frame,omitempty"`
	Frames []Point `json:"frames,omitempty" yaml:"frames,omitempty" toml:"frames,omitempty"`
	Time   float64 `json:"time,omitempty" yaml:"time,omitempty" toml:"time,omitempty"`
	Extra  []Field `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// Tileset is the ordered set of tile types a sheet defines. Order decides
// the grid character each type is written with.
type Tileset struct {
	Defs  map[string]*Def
	Order []string
}

// LoadFile reads a tile definition resource from disk.
func LoadFile(path string, sheetWidth int) (*Tileset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceUnavailable, path, err)
	}
	return Parse(string(content), sheetWidth)
}

// Parse extracts tile definitions from resource text. sheetWidth is the
// pixel width of the tile sheet the frame indices refer to.
func Parse(text string, sheetWidth int) (*Tileset, error) {
	if sheetWidth < TileSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSheet, sheetWidth)
	}
	columns := sheetWidth / TileSize

	ts := &Tileset{
		Defs:  map[string]*Def{EmptyName: {Name: EmptyName, Type: "Tile.Solid"}},
		Order: []string{EmptyName},
	}

	for _, a := range scanTables(normalizeInput(text)) {
		def := parseDef(a.Name, a.Expr, columns)
		if _, seen := ts.Defs[a.Name]; !seen {
			ts.Order = append(ts.Order, a.Name)
		}
		ts.Defs[a.Name] = def
	}

	// empty keeps the first character whatever its frame
	rest := ts.Order[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return frameLess(ts.Defs[rest[i]].Frame, ts.Defs[rest[j]].Frame)
	})

	return ts, nil
}

// frameLess orders by row, then column. Definitions without a frame go
// last.
func frameLess(a, b *Point) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case a.Y != b.Y:
		return a.Y < b.Y
	default:
		return a.X < b.X
	}
}

func parseDef(name, body string, columns int) *Def {
	def := &Def{Name: name}
	for _, field := range splitFields(body) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		key = trimWhitespace(key)
		value = trimWhitespace(value)
		if key == "" || value == "" || !isIdentifier(key) {
			continue
		}

		switch key {
		case "type":
			def.Type = value
		case "time":
			t, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			def.Time = t
		case "frame":
			frames, ok := parseFrames(value, columns)
			if !ok {
				continue
			}
			def.Frame = &frames[0]
			if strings.HasPrefix(value, "{") {
				def.Frames = frames
			}
		default:
			def.Extra = append(def.Extra, Field{Key: key, Value: value})
		}
	}
	return def
}

func parseFrames(value string, columns int) ([]Point, bool) {
	if !strings.HasPrefix(value, "{") {
		p, ok := framePosition(value, columns)
		if !ok {
			return nil, false
		}
		return []Point{p}, true
	}
	if !strings.HasSuffix(value, "}") {
		return nil, false
	}

	var frames []Point
	for _, part := range strings.Split(value[1:len(value)-1], ",") {
		part = trimWhitespace(part)
		if part == "" {
			continue
		}
		p, ok := framePosition(part, columns)
		if !ok {
			return nil, false
		}
		frames = append(frames, p)
	}
	if len(frames) == 0 {
		return nil, false
	}
	return frames, true
}

// framePosition converts a frame index into the pixel position of its
// top-left corner on the sheet.
func framePosition(s string, columns int) (Point, bool) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return Point{}, false
	}
	return Point{
		X: (index % columns) * TileSize,
		Y: (index / columns) * TileSize,
	}, true
}

// Def returns the definition of a tile type.
func (t *Tileset) Def(name string) (*Def, bool) {
	d, ok := t.Defs[name]
	return d, ok
}

// CharMap assigns grid characters to the tile types in order.
func (t *Tileset) CharMap() (*tilechars.Map, error) {
	return tilechars.New(t.Order)
}

func (t *Tileset) Len() int {
	return len(t.Order)
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentifierStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentifierPart(s[i]) {
			return false
		}
	}
	return true
}

func normalizeInput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimPrefix(s, "\ufeff")
	return s
}
