package mapcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type parseMode int

const (
	modeOuter parseMode = iota
	modeTileset
	modeFunction
	modeMap
)

type tileBlock struct {
	table string
	rows  []string
}

type statement struct {
	line  int
	scope Scope
	tiles *tileBlock
	item  *Item
}

type roomBody struct {
	name       string
	line       int
	statements []statement
}

// decoder holds the state of one pass over a script. Rooms and tileset
// tables are collected first and resolved once the pass is complete, so a
// table may be declared after the rooms that use it.
type decoder struct {
	mode parseMode
	line int

	tileset string
	pattern string
	light   *Color
	dark    *Color

	tables map[string]map[rune]string
	rooms  []roomBody

	tableName string
	tableBuf  []string

	body  *roomBody
	wet   *wetness
	block *tileBlock
	scope Scope
}

// Decode reads a map script into a Document. Lines the decoder does not
// understand are skipped; only invalid room names and grids that reference
// an undeclared tileset table fail the decode.
func Decode(text string) (*Document, error) {
	d := &decoder{
		tileset: DefaultTileset,
		pattern: DefaultPattern,
		tables:  make(map[string]map[rune]string),
	}

	for i, line := range strings.Split(normalizeInput(text), "\n") {
		d.line = i + 1
		d.feed(line)
	}

	return d.finish()
}

// ScanRoomNames lists the room functions a script defines, in order.
func ScanRoomNames(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(normalizeInput(text), "\n") {
		fn, ok := matchFunction(stripLine(line))
		if !ok || seen[fn.name] {
			continue
		}
		seen[fn.name] = true
		names = append(names, fn.name)
	}
	return names
}

func (d *decoder) feed(raw string) {
	if d.mode == modeMap {
		d.feedMap(raw)
		return
	}

	line := stripLine(raw)
	switch d.mode {
	case modeOuter:
		d.feedOuter(line)
	case modeTileset:
		d.feedTileset(line)
	case modeFunction:
		d.feedFunction(line)
	}
}

func (d *decoder) feedOuter(line string) {
	if ref, ok := matchRef(line); ok {
		if ref.name == "tiles" {
			d.tileset = ref.value
		} else {
			d.pattern = ref.value
		}
		return
	}

	if c, ok := matchColor(line); ok {
		color := c.color
		if c.name == "light" {
			d.light = &color
		} else {
			d.dark = &color
		}
		return
	}

	if fn, ok := matchFunction(line); ok {
		d.body = &roomBody{name: fn.name, line: d.line}
		d.wet = newWetness(fn.wetParam)
		d.mode = modeFunction
		return
	}

	if name, ok := matchTableOpen(line); ok {
		d.tableName = name
		d.tableBuf = []string{line}
		if strings.HasSuffix(line, "}") {
			d.closeTable()
		} else {
			d.mode = modeTileset
		}
	}
}

func (d *decoder) feedTileset(line string) {
	d.tableBuf = append(d.tableBuf, line)
	if strings.HasSuffix(line, "}") {
		d.closeTable()
		d.mode = modeOuter
	}
}

func (d *decoder) closeTable() {
	joined := strings.Join(d.tableBuf, " ")
	_, value, _ := cutAssignment(joined)
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "{")
	value = strings.TrimSuffix(value, "}")

	d.tables[d.tableName] = parseTableEntries(value)
	d.tableBuf = nil
}

func (d *decoder) feedFunction(line string) {
	switch line {
	case "end":
		if _, ok := d.wet.pop(); !ok {
			d.rooms = append(d.rooms, *d.body)
			d.body = nil
			d.wet = nil
			d.mode = modeOuter
		}
		return
	case "else":
		d.wet.elseBranch()
		return
	}

	if table, ok := matchApplyTiles(line); ok {
		d.block = &tileBlock{table: table}
		d.scope = d.wet.scope()
		d.mode = modeMap
		return
	}

	if it, ok := matchItem(line); ok {
		item, err := buildItem(it)
		if err != nil {
			return
		}
		d.body.statements = append(d.body.statements, statement{
			line:  d.line,
			scope: d.wet.scope(),
			item:  &item,
		})
		return
	}

	if cond, ok := matchIf(line); ok {
		d.wet.pushIf(cond)
		return
	}

	if matchElseIf(line) {
		d.wet.elseIf()
		return
	}

	for n := blockOpeners(line); n > 0; n-- {
		d.wet.pushOpaque()
	}
}

func (d *decoder) feedMap(raw string) {
	if strings.Contains(raw, "]]") {
		d.body.statements = append(d.body.statements, statement{
			line:  d.line,
			scope: d.scope,
			tiles: d.block,
		})
		d.block = nil
		d.mode = modeFunction
		return
	}
	d.block.rows = append(d.block.rows, raw)
}

func (d *decoder) finish() (*Document, error) {
	doc := NewDocument()
	doc.Tileset = d.tileset
	doc.Pattern = d.pattern
	doc.Light = d.light
	doc.Dark = d.dark

	for _, body := range d.rooms {
		room, err := doc.CreateRoom(body.name)
		if err != nil {
			return nil, &ParseError{Line: body.line, Err: err}
		}

		for _, st := range body.statements {
			switch {
			case st.tiles != nil:
				table, ok := d.tables[st.tiles.table]
				if !ok {
					return nil, &ParseError{Line: st.line, Err: fmt.Errorf("%w: %s", ErrUnknownTileset, st.tiles.table)}
				}
				for _, inst := range room.Instances(st.scope) {
					inst.ApplyRows(st.tiles.rows, table)
				}
			case st.item != nil:
				for _, inst := range room.Instances(st.scope) {
					inst.AddItem(*st.item)
				}
			}
		}
	}

	return doc, nil
}

// buildItem turns Spawn/Global arguments into an item: a quoted kind, the
// x and y position and, for kinds that carry one, the payload.
func buildItem(line itemLine) (Item, error) {
	if len(line.args) < 3 || !line.args[0].quoted {
		return Item{}, fmt.Errorf("malformed item arguments")
	}
	kind := Kind(line.args[0].text)

	x, err := parseNumber(line.args[1])
	if err != nil {
		return Item{}, err
	}
	y, err := parseNumber(line.args[2])
	if err != nil {
		return Item{}, err
	}

	payload := ""
	if kind.PayloadShape() != PayloadNone && len(line.args) > 3 {
		arg := line.args[3]
		switch kind.PayloadShape() {
		case PayloadToken:
			if arg.quoted {
				return Item{}, fmt.Errorf("bird payload must be a bare token")
			}
		default:
			if !arg.quoted {
				return Item{}, fmt.Errorf("%s payload must be a string", kind)
			}
		}
		payload = arg.text
	}

	return NewItem(kind, x, y, line.global, payload)
}

func normalizeInput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimPrefix(s, "\ufeff")
	return s
}

func parseNumber(arg argument) (float64, error) {
	if arg.quoted {
		return 0, fmt.Errorf("expected number, got string %q", arg.text)
	}
	if f, err := strconv.ParseFloat(arg.text, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid number %q", arg.text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(arg.text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg.text)
	}
	return float64(n), nil
}
