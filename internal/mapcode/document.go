package mapcode

import (
	"fmt"
	"regexp"
	"sort"
)

const (
	Width  = 20
	Height = 15

	EmptyTile = "empty"

	DefaultTileset = "tiles/wip"
	DefaultPattern = "backgrounds/wip"
)

var reservedNames = map[string]bool{
	"start":      true,
	"glitch":     true,
	"reject":     true,
	"threadless": true,
}

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func IsReserved(name string) bool {
	return reservedNames[name]
}

func IsValidName(name string) bool {
	return validName.MatchString(name)
}

// Grid is indexed [row][column].
type Grid [Height][Width]string

func NewGrid() Grid {
	var g Grid
	g.Fill(EmptyTile)
	return g
}

func (g *Grid) Fill(label string) {
	for y := range g {
		for x := range g[y] {
			g[y][x] = label
		}
	}
}

type Instance struct {
	Grid  Grid
	Items []Item
	Wet   bool
}

func NewInstance(wet bool) *Instance {
	return &Instance{Grid: NewGrid(), Wet: wet}
}

// Clear resets every cell to empty and drops all items.
func (inst *Instance) Clear() {
	inst.Grid.Fill(EmptyTile)
	inst.Items = nil
}

func (inst *Instance) Tile(x, y int) (string, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return "", false
	}
	return inst.Grid[y][x], true
}

func (inst *Instance) SetTile(x, y int, label string) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	inst.Grid[y][x] = label
	return true
}

// ApplyRows paints rows of grid characters through table. Characters the
// table does not know leave their cell untouched; anything past the grid
// bounds is ignored.
func (inst *Instance) ApplyRows(rows []string, table map[rune]string) {
	for y := 0; y < Height && y < len(rows); y++ {
		x := 0
		for _, ch := range rows[y] {
			if x >= Width {
				break
			}
			if label, ok := table[ch]; ok {
				inst.Grid[y][x] = label
			}
			x++
		}
	}
}

func (inst *Instance) AddItem(item Item) {
	inst.Items = append(inst.Items, item)
}

// IndexOfItem returns the index of the first item identical to item, or -1.
func (inst *Instance) IndexOfItem(item Item) int {
	for i, it := range inst.Items {
		if Identical(it, item) {
			return i
		}
	}
	return -1
}

func (inst *Instance) RemoveItemAt(i int) (Item, bool) {
	if i < 0 || i >= len(inst.Items) {
		return Item{}, false
	}
	item := inst.Items[i]
	inst.Items = append(inst.Items[:i], inst.Items[i+1:]...)
	return item, true
}

func (inst *Instance) RemoveItem(item Item) bool {
	_, ok := inst.RemoveItemAt(inst.IndexOfItem(item))
	return ok
}

// Scope selects which instances of a room a statement applies to.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeDry
	ScopeWet
)

func (s Scope) String() string {
	switch s {
	case ScopeDry:
		return "dry"
	case ScopeWet:
		return "wet"
	default:
		return "all"
	}
}

type Room struct {
	Name string
	Dry  *Instance
	Wet  *Instance
}

func NewRoom(name string) *Room {
	return &Room{
		Name: name,
		Dry:  NewInstance(false),
		Wet:  NewInstance(true),
	}
}

func (r *Room) Instances(scope Scope) []*Instance {
	switch scope {
	case ScopeDry:
		return []*Instance{r.Dry}
	case ScopeWet:
		return []*Instance{r.Wet}
	default:
		return []*Instance{r.Dry, r.Wet}
	}
}

func (r *Room) Clear() {
	r.Dry.Clear()
	r.Wet.Clear()
}

// Color holds the components of a light/dark assignment as written.
type Color struct {
	R, G, B string
}

func (c Color) String() string {
	return fmt.Sprintf("{%s, %s, %s}", c.R, c.G, c.B)
}

type Document struct {
	Tileset string
	Pattern string
	Light   *Color
	Dark    *Color

	rooms []*Room
	index map[string]*Room
}

// NewDocument returns a document holding only the start room.
func NewDocument() *Document {
	doc := &Document{
		Tileset: DefaultTileset,
		Pattern: DefaultPattern,
		index:   make(map[string]*Room),
	}
	doc.addRoom(NewRoom("start"))
	return doc
}

func (d *Document) addRoom(r *Room) {
	d.rooms = append(d.rooms, r)
	d.index[r.Name] = r
}

// CreateRoom returns the room called name, creating it at the end of the
// room order when it does not exist yet.
func (d *Document) CreateRoom(name string) (*Room, error) {
	if r, ok := d.index[name]; ok {
		return r, nil
	}
	if !IsValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	r := NewRoom(name)
	d.addRoom(r)
	return r, nil
}

func (d *Document) DeleteRoom(name string) error {
	if _, ok := d.index[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	if IsReserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}

	delete(d.index, name)
	for i, r := range d.rooms {
		if r.Name == name {
			d.rooms = append(d.rooms[:i], d.rooms[i+1:]...)
			break
		}
	}
	return nil
}

// RenameRoom renames a room in place, keeping its position in the order.
func (d *Document) RenameRoom(oldName, newName string) error {
	if oldName == newName {
		if _, ok := d.index[newName]; ok {
			return nil
		}
	}
	r, ok := d.index[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, oldName)
	}
	if _, exists := d.index[newName]; exists {
		return fmt.Errorf("%w: %s", ErrRoomExists, newName)
	}
	if IsReserved(oldName) {
		return fmt.Errorf("%w: %s", ErrReservedName, oldName)
	}
	if IsReserved(newName) {
		return fmt.Errorf("%w: %s", ErrReservedName, newName)
	}
	if !IsValidName(newName) {
		return fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}

	delete(d.index, oldName)
	r.Name = newName
	d.index[newName] = r
	return nil
}

func (d *Document) Room(name string) (*Room, bool) {
	r, ok := d.index[name]
	return r, ok
}

// Rooms returns the rooms in definition order. The slice is a copy; the
// rooms are not.
func (d *Document) Rooms() []*Room {
	out := make([]*Room, len(d.rooms))
	copy(out, d.rooms)
	return out
}

func (d *Document) RoomNames() []string {
	names := make([]string, len(d.rooms))
	for i, r := range d.rooms {
		names[i] = r.Name
	}
	return names
}

func (d *Document) Len() int {
	return len(d.rooms)
}

// Labels lists every tile label used by any grid, empty first and the rest
// sorted.
func (d *Document) Labels() []string {
	seen := map[string]bool{EmptyTile: true}
	var rest []string
	for _, r := range d.rooms {
		for _, inst := range []*Instance{r.Dry, r.Wet} {
			for y := range inst.Grid {
				for _, label := range inst.Grid[y] {
					if !seen[label] {
						seen[label] = true
						rest = append(rest, label)
					}
				}
			}
		}
	}
	sort.Strings(rest)
	return append([]string{EmptyTile}, rest...)
}
