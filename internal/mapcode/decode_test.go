package mapcode

import (
	"errors"
	"strings"
	"testing"
)

const handWritten = `-- hand written map
local tile_mapping = {["."]="empty", ["0"]="wall",
  ["1"]="water"}

function start(is_wet)
  ApplyTiles(tile_mapping, 0, 0, [[
00000000000000000000
0..................0
]])
  if is_wet then
    ApplyTiles(tile_mapping, 0, 0, [[

.11
]])
    Spawn("fan", 2, 3)
  else
    Spawn("key", 3, 4) -- only when dry
  end
  Global("chest", 5, 6.5, "inner")
  if is_wet then
    for i = 1, 2 do
      Spawn("ruby", 1, 1)
    end
  end
  if has_power then
    Spawn("lock", 7, 7)
  elseif is_wet then
    Spawn("crystal", 8, 8)
  end
  Spawn("bird", 9, 9, 3)
  SetMusic("cave")
end

function inner(wet)
  if not wet then
    Spawn("record", 1, 2, "songs/a \"b\"")
  end
end

tiles = "tiles/cave"
pattern = "backgrounds/cave"
light = {255, 200, 100}
`

func countKind(items []Item, kind Kind) int {
	n := 0
	for _, it := range items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

func TestDecodeHandWritten(t *testing.T) {
	doc, err := Decode(handWritten)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if doc.Tileset != "tiles/cave" || doc.Pattern != "backgrounds/cave" {
		t.Fatalf("unexpected refs %q %q", doc.Tileset, doc.Pattern)
	}
	if doc.Light == nil || doc.Light.R != "255" || doc.Light.B != "100" {
		t.Fatalf("unexpected light %#v", doc.Light)
	}
	if doc.Dark != nil {
		t.Fatalf("dark should be unset")
	}

	if got := doc.RoomNames(); len(got) != 2 || got[0] != "start" || got[1] != "inner" {
		t.Fatalf("unexpected rooms %v", got)
	}

	start, _ := doc.Room("start")
	for _, inst := range []*Instance{start.Dry, start.Wet} {
		if inst.Grid[0][0] != "wall" || inst.Grid[0][19] != "wall" {
			t.Fatalf("top row not walled")
		}
		if inst.Grid[2][0] != EmptyTile {
			t.Fatalf("row 2 should stay empty")
		}
	}
	if start.Dry.Grid[1][0] != "wall" || start.Dry.Grid[1][1] != EmptyTile {
		t.Fatalf("unexpected dry row 1: %v", start.Dry.Grid[1])
	}
	if start.Wet.Grid[1][0] != EmptyTile || start.Wet.Grid[1][1] != "water" || start.Wet.Grid[1][2] != "water" || start.Wet.Grid[1][19] != "wall" {
		t.Fatalf("unexpected wet row 1: %v", start.Wet.Grid[1])
	}

	checks := []struct {
		kind     Kind
		dry, wet int
	}{
		{KindFan, 0, 1},
		{KindKey, 1, 0},
		{KindChest, 1, 1},
		{KindRuby, 1, 1},
		{KindLock, 1, 1},
		{KindCrystal, 1, 1},
		{KindBird, 1, 1},
	}
	for _, c := range checks {
		if got := countKind(start.Dry.Items, c.kind); got != c.dry {
			t.Errorf("dry %s: got %d want %d", c.kind, got, c.dry)
		}
		if got := countKind(start.Wet.Items, c.kind); got != c.wet {
			t.Errorf("wet %s: got %d want %d", c.kind, got, c.wet)
		}
	}

	chest := start.Dry.Items[start.Dry.IndexOfItem(Item{Kind: KindChest, X: 5, Y: 6.5, Global: true, Payload: RoomLink{Room: "inner"}})]
	if !chest.Global {
		t.Fatalf("chest should be global")
	}
	bird := start.Wet.Items[start.Wet.IndexOfItem(Item{Kind: KindBird, X: 9, Y: 9, Payload: Token{Raw: "3"}})]
	if bird.PayloadText() != "3" {
		t.Fatalf("unexpected bird payload %q", bird.PayloadText())
	}

	inner, _ := doc.Room("inner")
	if len(inner.Wet.Items) != 0 || len(inner.Dry.Items) != 1 {
		t.Fatalf("record should be dry only: dry=%v wet=%v", inner.Dry.Items, inner.Wet.Items)
	}
	if got := inner.Dry.Items[0].PayloadText(); got != `songs/a "b"` {
		t.Fatalf("unexpected record payload %q", got)
	}
}

func TestDecodeSkipsUnknownLines(t *testing.T) {
	src := `
print("hello")
local helper = 3
function util.helper()
end

function room_1()
  Spawn("key", x, 1)
  Spawn()
  Spawn("chest", 1, 1)
  Spawn("generic", 4, 5, "extra")
  while true do
  end
end
`
	doc, err := Decode(src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	room, ok := doc.Room("room_1")
	if !ok {
		t.Fatalf("room_1 missing, rooms %v", doc.RoomNames())
	}
	if len(room.Dry.Items) != 1 || room.Dry.Items[0].Kind != KindGeneric || room.Dry.Items[0].Payload != nil {
		t.Fatalf("unexpected items %v", room.Dry.Items)
	}
	if doc.Len() != 2 {
		t.Fatalf("unexpected rooms %v", doc.RoomNames())
	}
}

func TestDecodeOneLineBlocks(t *testing.T) {
	src := `function start(w)
  local function helper() return 1 end
  for i = 1, 2 do helper() end
  while false do break end
  local f = function() return "end" end
  Spawn("key", 1, 2)
  if not w then
    local function inner()
      return 2
    end
    Spawn("ruby", 3, 4)
  end
end

function room2(w)
  Spawn("crystal", 5, 6)
end
`
	doc, err := Decode(src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if names := doc.RoomNames(); len(names) != 2 || names[1] != "room2" {
		t.Fatalf("unexpected rooms %v", names)
	}

	start, _ := doc.Room("start")
	if len(start.Wet.Items) != 1 || start.Wet.Items[0].Kind != KindKey {
		t.Fatalf("unexpected wet items %v", start.Wet.Items)
	}
	if len(start.Dry.Items) != 2 || start.Dry.Items[1].Kind != KindRuby {
		t.Fatalf("unexpected dry items %v", start.Dry.Items)
	}

	room2, _ := doc.Room("room2")
	if len(room2.Dry.Items) != 1 || len(room2.Wet.Items) != 1 {
		t.Fatalf("room2 items lost: %v / %v", room2.Dry.Items, room2.Wet.Items)
	}
}

func TestBlockOpeners(t *testing.T) {
	tests := map[string]int{
		"for i = 1, 3 do":                      1,
		"while true do":                        1,
		"do":                                   1,
		"local function helper()":              1,
		"local f = function(a)":                1,
		"local function helper() return 1 end": 0,
		"for i = 1, 3 do x = i end":            0,
		`print("do end function")`:             0,
		"repeat":                               1,
		"until done":                           -1,
		"local endless = 1":                    0,
	}
	for line, want := range tests {
		if got := blockOpeners(line); got != want {
			t.Errorf("blockOpeners(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestDecodeEmptyReferences(t *testing.T) {
	doc, err := Decode("tiles = \"\"\npattern = ''\n")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc.Tileset != "" || doc.Pattern != "" {
		t.Fatalf("expected empty references, got %q %q", doc.Tileset, doc.Pattern)
	}
}

func TestDecodeInvalidName(t *testing.T) {
	src := "function 9lives(is_wet)\nend\n"
	_, err := Decode(src)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 1 {
		t.Fatalf("expected parse error on line 1, got %v", err)
	}
}

func TestDecodeUnknownTileset(t *testing.T) {
	src := strings.Join([]string{
		"function start(is_wet)",
		"  ApplyTiles(missing, 0, 0, [[",
		"....",
		"]])",
		"end",
	}, "\n")
	_, err := Decode(src)
	if !errors.Is(err, ErrUnknownTileset) {
		t.Fatalf("expected unknown tileset, got %v", err)
	}
}

func TestDecodeTableDeclaredLater(t *testing.T) {
	src := strings.Join([]string{
		"function start(is_wet)",
		"  ApplyTiles(late, 0, 0, [[",
		"#",
		"]])",
		"end",
		"late = {['#'] = 'wall', x = 'lava'}",
	}, "\n")
	doc, err := Decode(src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	start, _ := doc.Room("start")
	if start.Dry.Grid[0][0] != "wall" || start.Wet.Grid[0][0] != "wall" {
		t.Fatalf("late table not applied")
	}
}

func TestDecodeGridBounds(t *testing.T) {
	var b strings.Builder
	b.WriteString("local t = {[\"#\"]=\"wall\"}\nfunction start(is_wet)\n  ApplyTiles(t, 0, 0, [[\n")
	for i := 0; i < 18; i++ {
		b.WriteString(strings.Repeat("#", 24) + "\n")
	}
	b.WriteString("]])\nend\n")

	doc, err := Decode(b.String())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	start, _ := doc.Room("start")
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if start.Dry.Grid[y][x] != "wall" {
				t.Fatalf("cell (%d,%d) not painted", x, y)
			}
		}
	}
}

func TestDecodeCRLF(t *testing.T) {
	src := "local t = {[\"#\"]=\"wall\"}\r\nfunction start(is_wet)\r\n  ApplyTiles(t, 0, 0, [[\r\n#.#\r\n]])\r\n  Spawn(\"key\", 1, 2)\r\nend\r\n"
	doc, err := Decode(src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	start, _ := doc.Room("start")
	if start.Dry.Grid[0][2] != "wall" || len(start.Dry.Items) != 1 {
		t.Fatalf("crlf input decoded wrong")
	}
}

func TestWetnessScope(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *wetness)
		want  Scope
	}{
		{"bare", func(w *wetness) {}, ScopeAll},
		{"if w", func(w *wetness) { w.pushIf("w") }, ScopeWet},
		{"if true == w", func(w *wetness) { w.pushIf("true == w") }, ScopeWet},
		{"if w==true", func(w *wetness) { w.pushIf("w==true") }, ScopeWet},
		{"if not w", func(w *wetness) { w.pushIf("not w") }, ScopeDry},
		{"if !w", func(w *wetness) { w.pushIf("!w") }, ScopeDry},
		{"if false == w", func(w *wetness) { w.pushIf("false == w") }, ScopeDry},
		{"if w == false", func(w *wetness) { w.pushIf("w == false") }, ScopeDry},
		{"else of w", func(w *wetness) { w.pushIf("w"); w.elseBranch() }, ScopeDry},
		{"else of not w", func(w *wetness) { w.pushIf("not w"); w.elseBranch() }, ScopeWet},
		{"for inside if", func(w *wetness) { w.pushIf("w"); w.pushOpaque() }, ScopeAll},
		{"elseif", func(w *wetness) { w.pushIf("w"); w.elseIf() }, ScopeAll},
		{"unrelated inside if", func(w *wetness) { w.pushIf("not w"); w.pushIf("x > 1") }, ScopeDry},
		{"if w inside loop", func(w *wetness) { w.pushOpaque(); w.pushIf("w") }, ScopeWet},
		{"other name", func(w *wetness) { w.pushIf("wet") }, ScopeAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWetness("w")
			tt.build(w)
			if got := w.scope(); got != tt.want {
				t.Fatalf("got %s want %s", got, tt.want)
			}
		})
	}

	none := newWetness("")
	none.pushIf("")
	if none.scope() != ScopeAll {
		t.Fatalf("rooms without a wet parameter always resolve to all")
	}
}

func TestScanRoomNames(t *testing.T) {
	got := ScanRoomNames(handWritten)
	if len(got) != 2 || got[0] != "start" || got[1] != "inner" {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestStripLine(t *testing.T) {
	tests := map[string]string{
		"  end  ":                     "end",
		`Spawn("a--b", 1, 2) -- note`: `Spawn("a--b", 1, 2)`,
		"-- whole line":               "",
		"x = 1 --[[ block start":      "x = 1",
		`Spawn('a\'--', 1, 2)`:       `Spawn('a\'--', 1, 2)`,
	}
	for in, want := range tests {
		if got := stripLine(in); got != want {
			t.Errorf("stripLine(%q) = %q, want %q", in, got, want)
		}
	}
}
