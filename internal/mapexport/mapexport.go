package mapexport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/siohaza/recursedit/internal/mapcode"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Map is the editable form of a document: each grid row is written as
// the tile labels of its cells separated by spaces.
type Map struct {
	Tileset string `json:"tileset" yaml:"tileset" toml:"tileset"`
	Pattern string `json:"pattern" yaml:"pattern" toml:"pattern"`
	Light   *Color `json:"light,omitempty" yaml:"light,omitempty" toml:"light,omitempty"`
	Dark    *Color `json:"dark,omitempty" yaml:"dark,omitempty" toml:"dark,omitempty"`
	Rooms   []Room `json:"rooms" yaml:"rooms" toml:"rooms"`
}

type Color struct {
	R string `json:"r" yaml:"r" toml:"r"`
	G string `json:"g" yaml:"g" toml:"g"`
	B string `json:"b" yaml:"b" toml:"b"`
}

type Room struct {
	Name string  `json:"name" yaml:"name" toml:"name"`
	Dry  Variant `json:"dry" yaml:"dry" toml:"dry"`
	Wet  Variant `json:"wet" yaml:"wet" toml:"wet"`
}

type Variant struct {
	Rows  []string `json:"rows" yaml:"rows" toml:"rows"`
	Items []Item   `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
}

type Item struct {
	Kind    string  `json:"kind" yaml:"kind" toml:"kind"`
	X       float64 `json:"x" yaml:"x" toml:"x"`
	Y       float64 `json:"y" yaml:"y" toml:"y"`
	Global  bool    `json:"global,omitempty" yaml:"global,omitempty" toml:"global,omitempty"`
	Payload string  `json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload,omitempty"`
}

func FromDocument(doc *mapcode.Document) *Map {
	m := &Map{
		Tileset: doc.Tileset,
		Pattern: doc.Pattern,
		Light:   fromColor(doc.Light),
		Dark:    fromColor(doc.Dark),
	}
	for _, room := range doc.Rooms() {
		m.Rooms = append(m.Rooms, Room{
			Name: room.Name,
			Dry:  fromInstance(room.Dry),
			Wet:  fromInstance(room.Wet),
		})
	}
	return m
}

func fromColor(c *mapcode.Color) *Color {
	if c == nil {
		return nil
	}
	return &Color{R: c.R, G: c.G, B: c.B}
}

func fromInstance(inst *mapcode.Instance) Variant {
	v := Variant{Rows: make([]string, mapcode.Height)}
	for y := range inst.Grid {
		v.Rows[y] = strings.Join(inst.Grid[y][:], " ")
	}
	for _, it := range inst.Items {
		v.Items = append(v.Items, Item{
			Kind:    string(it.Kind),
			X:       it.X,
			Y:       it.Y,
			Global:  it.Global,
			Payload: it.PayloadText(),
		})
	}
	return v
}

// ToDocument rebuilds a document. Missing rows and cells stay empty; cells
// past the grid are dropped.
func (m *Map) ToDocument() (*mapcode.Document, error) {
	doc := mapcode.NewDocument()
	if m.Tileset != "" {
		doc.Tileset = m.Tileset
	}
	if m.Pattern != "" {
		doc.Pattern = m.Pattern
	}
	doc.Light = toColor(m.Light)
	doc.Dark = toColor(m.Dark)

	for _, r := range m.Rooms {
		room, err := doc.CreateRoom(r.Name)
		if err != nil {
			return nil, err
		}
		if err := r.Dry.apply(room.Dry); err != nil {
			return nil, fmt.Errorf("room %s: %w", r.Name, err)
		}
		if err := r.Wet.apply(room.Wet); err != nil {
			return nil, fmt.Errorf("room %s: %w", r.Name, err)
		}
	}
	return doc, nil
}

func toColor(c *Color) *mapcode.Color {
	if c == nil {
		return nil
	}
	return &mapcode.Color{R: c.R, G: c.G, B: c.B}
}

func (v Variant) apply(inst *mapcode.Instance) error {
	inst.Clear()
	for y, row := range v.Rows {
		for x, label := range strings.Fields(row) {
			inst.SetTile(x, y, label)
		}
	}
	for _, it := range v.Items {
		item, err := mapcode.NewItem(mapcode.Kind(it.Kind), it.X, it.Y, it.Global, it.Payload)
		if err != nil {
			return err
		}
		inst.AddItem(item)
	}
	return nil
}

func Marshal(m *Map, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func Unmarshal(data []byte, format Format) (*Map, error) {
	var m Map
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s map: %w", format, err)
	}
	return &m, nil
}
