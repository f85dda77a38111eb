package lua

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Shopify/go-lua"

	"github.com/siohaza/recursedit/internal/mapcode"
)

// evaluator receives the game API calls a map script makes while one room
// instance is being built.
type evaluator struct {
	current *mapcode.Instance
}

// Evaluate runs a map script and records what its room functions do: each
// room is called once dry and once wet, with ApplyTiles, Spawn and Global
// writing into the matching instance. The result is what the game itself
// would load, for comparison with the text decoder.
func Evaluate(code string) (*mapcode.Document, error) {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.TrimPrefix(code, "\ufeff")

	vm := NewVM()
	e := &evaluator{}
	e.register(vm)

	if err := vm.LoadString(code); err != nil {
		return nil, err
	}

	doc := mapcode.NewDocument()
	if s, err := vm.GetGlobalString("tiles"); err == nil {
		doc.Tileset = s
	}
	if s, err := vm.GetGlobalString("pattern"); err == nil {
		doc.Pattern = s
	}
	doc.Light = globalColor(vm, "light")
	doc.Dark = globalColor(vm, "dark")

	for _, name := range mapcode.ScanRoomNames(code) {
		if !vm.HasFunction(name) {
			continue
		}
		room, err := doc.CreateRoom(name)
		if err != nil {
			return nil, err
		}
		for _, inst := range []*mapcode.Instance{room.Dry, room.Wet} {
			e.current = inst
			err := vm.CallFunction(name, inst.Wet)
			e.current = nil
			if err != nil {
				return nil, fmt.Errorf("room %s: %w", name, err)
			}
		}
	}

	return doc, nil
}

func (e *evaluator) register(vm *VM) {
	vm.RegisterFunction("ApplyTiles", e.applyTiles)
	vm.RegisterFunction("Spawn", e.spawn(false))
	vm.RegisterFunction("Global", e.spawn(true))
}

func (e *evaluator) applyTiles(state *lua.State) int {
	if e.current == nil {
		lua.Errorf(state, "ApplyTiles called outside a room")
		return 0
	}
	if !state.IsTable(1) {
		lua.Errorf(state, "ApplyTiles: tile table expected")
		return 0
	}

	table := make(map[rune]string)
	state.PushNil()
	for state.Next(1) {
		if state.TypeOf(-2) == lua.TypeString && state.TypeOf(-1) == lua.TypeString {
			key, _ := state.ToString(-2)
			label, _ := state.ToString(-1)
			if utf8.RuneCountInString(key) == 1 {
				ch, _ := utf8.DecodeRuneInString(key)
				table[ch] = label
			}
		}
		state.Pop(1)
	}

	originX, _ := state.ToInteger(2)
	originY, _ := state.ToInteger(3)
	rows, ok := state.ToString(4)
	if !ok {
		lua.Errorf(state, "ApplyTiles: tile rows expected")
		return 0
	}

	for dy, row := range strings.Split(rows, "\n") {
		dx := 0
		for _, ch := range row {
			if label, ok := table[ch]; ok {
				e.current.SetTile(originX+dx, originY+dy, label)
			}
			dx++
		}
	}
	return 0
}

func (e *evaluator) spawn(global bool) lua.Function {
	call := "Spawn"
	if global {
		call = "Global"
	}
	return func(state *lua.State) int {
		if e.current == nil {
			lua.Errorf(state, "%s called outside a room", call)
			return 0
		}
		if state.TypeOf(1) != lua.TypeString {
			lua.Errorf(state, "%s: item kind expected", call)
			return 0
		}
		kind, _ := state.ToString(1)
		x, okX := state.ToNumber(2)
		y, okY := state.ToNumber(3)
		if !okX || !okY {
			lua.Errorf(state, "%s: item position expected", call)
			return 0
		}

		payload := ""
		if state.Top() >= 4 {
			payload = payloadText(state, 4)
		}

		item, err := mapcode.NewItem(mapcode.Kind(kind), x, y, global, payload)
		if err != nil {
			lua.Errorf(state, "%s: %s", call, err.Error())
			return 0
		}
		e.current.AddItem(item)
		return 0
	}
}

func payloadText(state *lua.State, index int) string {
	switch state.TypeOf(index) {
	case lua.TypeString:
		s, _ := state.ToString(index)
		return s
	case lua.TypeNumber:
		n, _ := state.ToNumber(index)
		return strconv.FormatFloat(n, 'f', -1, 64)
	case lua.TypeBoolean:
		return strconv.FormatBool(state.ToBoolean(index))
	}
	return ""
}

func globalColor(vm *VM, name string) *mapcode.Color {
	values, err := vm.GetGlobalNumbers(name)
	if err != nil || len(values) != 3 {
		return nil
	}
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return &mapcode.Color{R: format(values[0]), G: format(values[1]), B: format(values[2])}
}
