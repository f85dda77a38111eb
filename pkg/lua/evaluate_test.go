package lua

import (
	"strings"
	"testing"

	"github.com/siohaza/recursedit/internal/mapcode"
)

const script = `-- Created with RecursedEditor

local tile_mapping = {["."]="empty", ["0"]="wall", ["1"]="water"}

function start(is_wet)
  ApplyTiles(tile_mapping, 0, 0, [[
0000
0..0
]])
  if is_wet then
    ApplyTiles(tile_mapping, 0, 0, [[

.11
]])
    Spawn("fan", 2, 3)
  else
    Spawn("key", 3, 4)
  end
  Global("chest", 5, 6.5, "inner")
  Spawn("bird", 9, 9, 3)
end

function inner(wet)
  if not wet then
    Spawn("record", 1, 2, "songs/a")
  end
end

tiles = "tiles/cave"
pattern = "backgrounds/cave"
light = {255, 200, 100}
`

func TestEvaluateMatchesDecoder(t *testing.T) {
	evaluated, err := Evaluate(script)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	decoded, err := mapcode.Decode(script)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diffs := mapcode.Diff(decoded, evaluated); len(diffs) > 0 {
		t.Fatalf("evaluation disagrees with decoder: %v", diffs)
	}

	start, _ := evaluated.Room("start")
	if start.Wet.Grid[1][1] != "water" || start.Dry.Grid[1][1] != "empty" {
		t.Fatalf("wet override not applied")
	}
	if evaluated.Light == nil || evaluated.Light.String() != "{255, 200, 100}" {
		t.Fatalf("unexpected light %v", evaluated.Light)
	}
}

func TestEvaluateRevealsLoops(t *testing.T) {
	src := `
function start(is_wet)
  for i = 1, 2 do
    Spawn("ruby", i, 1)
  end
end
`
	evaluated, err := Evaluate(src)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	start, _ := evaluated.Room("start")
	if len(start.Dry.Items) != 2 || len(start.Wet.Items) != 2 {
		t.Fatalf("expected both loop iterations, got %v", start.Dry.Items)
	}

	decoded, err := mapcode.Decode(src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(mapcode.Diff(decoded, evaluated)) == 0 {
		t.Fatalf("expected the text decoder to disagree on loop bodies")
	}
}

func TestEvaluateUnknownCall(t *testing.T) {
	src := "function start(is_wet)\n  SetMusic(\"cave\")\nend\n"
	_, err := Evaluate(src)
	if err == nil || !strings.Contains(err.Error(), "room start") {
		t.Fatalf("expected room error, got %v", err)
	}
}

func TestEvaluateMissingPayload(t *testing.T) {
	src := "function start(is_wet)\n  Spawn(\"chest\", 1, 1)\nend\n"
	if _, err := Evaluate(src); err == nil {
		t.Fatalf("expected missing payload to fail")
	}
}

func TestSandbox(t *testing.T) {
	vm := NewVM()
	if err := vm.LoadString(`x = io == nil and os == nil and "sealed" or "open"`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := vm.GetGlobalString("x"); got != "sealed" {
		t.Fatalf("sandbox leaked: %s", got)
	}
}
