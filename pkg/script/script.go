// Package script validates and evaluates the Lua snippets custom
// conditions and custom dynamics carry. Evaluation runs in a sandbox:
// only the base, math and string libraries are opened, so scripts cannot
// touch the filesystem, the network, or the host process.
package script

import (
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"
)

// ErrNotBoolean is returned when a condition script completes without
// producing a boolean result.
var ErrNotBoolean = errors.New("script did not return a boolean")

// Check compiles src without running it. A nil return means the script
// is syntactically valid Lua.
func Check(src string) error {
	state := lua.NewState()
	if err := lua.LoadString(state, src); err != nil {
		return fmt.Errorf("script syntax: %w", err)
	}
	return nil
}

// Eval runs a condition script in the sandbox and returns its boolean
// result. The globals map is exposed to the script, so a condition like
// "return agent.x > 5" sees the caller's agent table.
func Eval(src string, globals map[string]any) (bool, error) {
	state := newSandbox()

	for name, value := range globals {
		pushValue(state, value)
		state.SetGlobal(name)
	}

	if err := lua.LoadString(state, src); err != nil {
		return false, fmt.Errorf("script syntax: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return false, fmt.Errorf("script run: %w", err)
	}
	defer state.Pop(1)

	if state.TypeOf(-1) != lua.TypeBoolean {
		return false, fmt.Errorf("%w, got %s", ErrNotBoolean, state.TypeOf(-1))
	}
	return state.ToBoolean(-1), nil
}

func newSandbox() *lua.State {
	state := lua.NewState()
	lua.Require(state, "_G", lua.BaseOpen, true)
	state.Pop(1)
	lua.Require(state, "math", lua.MathOpen, true)
	state.Pop(1)
	lua.Require(state, "string", lua.StringOpen, true)
	state.Pop(1)
	return state
}

func pushValue(state *lua.State, value any) {
	switch v := value.(type) {
	case nil:
		state.PushNil()
	case bool:
		state.PushBoolean(v)
	case int:
		state.PushInteger(v)
	case float64:
		state.PushNumber(v)
	case string:
		state.PushString(v)
	case map[string]any:
		state.NewTable()
		for key, item := range v {
			pushValue(state, item)
			state.SetField(-2, key)
		}
	case []any:
		state.NewTable()
		for i, item := range v {
			pushValue(state, item)
			state.RawSetInt(-2, i+1)
		}
	default:
		state.PushString(fmt.Sprint(v))
	}
}
