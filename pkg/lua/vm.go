package lua

import (
	"fmt"

	"github.com/Shopify/go-lua"
)

// VM is a sandboxed Lua state without file, process or debug access.
type VM struct {
	state *lua.State
}

func NewVM() *VM {
	state := lua.NewState()
	openSafeLibraries(state)
	return &VM{state: state}
}

func openSafeLibraries(state *lua.State) {
	lua.OpenLibraries(state)

	state.PushNil()
	state.SetGlobal("io")

	state.PushNil()
	state.SetGlobal("os")

	state.PushNil()
	state.SetGlobal("debug")

	state.PushNil()
	state.SetGlobal("dofile")

	state.PushNil()
	state.SetGlobal("loadfile")

	state.PushNil()
	state.SetGlobal("require")
}

func (vm *VM) LoadString(code string) error {
	if err := lua.DoString(vm.state, code); err != nil {
		return fmt.Errorf("failed to load lua string: %w", err)
	}
	return nil
}

func (vm *VM) GetGlobalString(name string) (string, error) {
	vm.state.Global(name)
	if vm.state.TypeOf(-1) != lua.TypeString {
		vm.state.Pop(1)
		return "", fmt.Errorf("global %s is not a string", name)
	}
	value, _ := vm.state.ToString(-1)
	vm.state.Pop(1)
	return value, nil
}

// GetGlobalNumbers reads a global array of numbers.
func (vm *VM) GetGlobalNumbers(name string) ([]float64, error) {
	vm.state.Global(name)
	if !vm.state.IsTable(-1) {
		vm.state.Pop(1)
		return nil, fmt.Errorf("global %s is not a table", name)
	}

	var result []float64
	length := vm.state.RawLength(-1)
	for i := 1; i <= length; i++ {
		vm.state.RawGetInt(-1, i)
		if !vm.state.IsNumber(-1) {
			vm.state.Pop(2)
			return nil, fmt.Errorf("global %s[%d] is not a number", name, i)
		}
		value, _ := vm.state.ToNumber(-1)
		result = append(result, value)
		vm.state.Pop(1)
	}
	vm.state.Pop(1)
	return result, nil
}

func (vm *VM) CallFunction(name string, args ...interface{}) error {
	vm.state.Global(name)
	if !vm.state.IsFunction(-1) {
		vm.state.Pop(1)
		return fmt.Errorf("global %s is not a function", name)
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			vm.state.PushString(v)
		case int:
			vm.state.PushInteger(v)
		case float64:
			vm.state.PushNumber(v)
		case bool:
			vm.state.PushBoolean(v)
		default:
			vm.state.Pop(1)
			return fmt.Errorf("unsupported argument type: %T", arg)
		}
	}

	if err := vm.state.ProtectedCall(len(args), 0, 0); err != nil {
		return vm.enhanceError(fmt.Sprintf("function %s", name), err)
	}

	return nil
}

func (vm *VM) enhanceError(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[Lua Error] %s: %w", context, err)
}

func (vm *VM) HasFunction(name string) bool {
	vm.state.Global(name)
	isFunc := vm.state.IsFunction(-1)
	vm.state.Pop(1)
	return isFunc
}

func (vm *VM) RegisterFunction(name string, fn lua.Function) {
	vm.state.Register(name, fn)
}

func (vm *VM) State() *lua.State {
	return vm.state
}
