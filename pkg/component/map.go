package component

import (
	"encoding/json"
	"fmt"
)

// Map is an entity's component set, keyed by component type name. Values
// are the registered structs from this package.
type Map map[string]any

// Get returns the component stored under name.
func (m Map) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Has reports whether the entity carries a component of the given type.
func (m Map) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Set stores a component under its type name, replacing any existing one.
// Unregistered names are rejected.
func (m Map) Set(name string, value any) error {
	if !Known(name) {
		return fmt.Errorf("unknown component type %q", name)
	}
	m[name] = value
	return nil
}

// Remove deletes the component of the given type. Removing an absent
// component is a no-op.
func (m Map) Remove(name string) {
	delete(m, name)
}

// Clone returns a copy of the map. Component values are structs copied by
// value; slice fields are duplicated so the copy is independent.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Agent:
		t.CustomActions = append([]string(nil), t.CustomActions...)
		return t
	case Inventory:
		t.Items = append([]string(nil), t.Items...)
		return t
	case TriggerZone:
		t.OnEnter = append([]string(nil), t.OnEnter...)
		t.OnExit = append([]string(nil), t.OnExit...)
		return t
	case StateMachine:
		t.States = append([]string(nil), t.States...)
		t.Transitions = append([]Transition(nil), t.Transitions...)
		return t
	default:
		return v
	}
}

// UnmarshalJSON decodes each entry through the registry so values come
// back as their typed structs, not generic maps. Unknown component names
// fail the decode.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Map, len(raw))
	for name, payload := range raw {
		v, err := Decode(name, payload)
		if err != nil {
			return err
		}
		out[name] = v
	}
	*m = out
	return nil
}
