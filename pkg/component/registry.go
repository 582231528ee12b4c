package component

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// triggerVerbs are the action verbs a TriggerZone may name.
var triggerVerbs = map[string]bool{
	"reward":      true,
	"penalty":     true,
	"end_episode": true,
	"open":        true,
	"teleport":    true,
}

// Known reports whether name is a registered component type.
func Known(name string) bool {
	switch name {
	case TypeGridTransform, TypeRender2D, TypeCollision2D, TypeGridMovement,
		TypeAgent, TypeInventory, TypeTriggerZone, TypeStateMachine,
		TypePickable, TypeDoor, TypePortal:
		return true
	}
	return false
}

// Names returns every registered component type name.
func Names() []string {
	return []string{
		TypeGridTransform, TypeRender2D, TypeCollision2D, TypeGridMovement,
		TypeAgent, TypeInventory, TypeTriggerZone, TypeStateMachine,
		TypePickable, TypeDoor, TypePortal,
	}
}

// Decode unmarshals a raw component payload into its registered Go type.
func Decode(name string, raw json.RawMessage) (any, error) {
	target, err := newByName(name)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decoding component %s: %w", name, err)
	}
	return deref(name, target), nil
}

func newByName(name string) (any, error) {
	switch name {
	case TypeGridTransform:
		return &GridTransform{}, nil
	case TypeRender2D:
		return &Render2D{}, nil
	case TypeCollision2D:
		return &Collision2D{}, nil
	case TypeGridMovement:
		return &GridMovement{}, nil
	case TypeAgent:
		return &Agent{}, nil
	case TypeInventory:
		return &Inventory{}, nil
	case TypeTriggerZone:
		return &TriggerZone{}, nil
	case TypeStateMachine:
		return &StateMachine{}, nil
	case TypePickable:
		return &Pickable{}, nil
	case TypeDoor:
		return &Door{}, nil
	case TypePortal:
		return &Portal{}, nil
	default:
		return nil, fmt.Errorf("unknown component type %q", name)
	}
}

func deref(name string, target any) any {
	switch v := target.(type) {
	case *GridTransform:
		return *v
	case *Render2D:
		return *v
	case *Collision2D:
		return *v
	case *GridMovement:
		return *v
	case *Agent:
		return *v
	case *Inventory:
		return *v
	case *TriggerZone:
		return *v
	case *StateMachine:
		return *v
	case *Pickable:
		return *v
	case *Door:
		return *v
	case *Portal:
		return *v
	default:
		return target
	}
}

// Validate checks one component value against its shape rules. Findings
// always name the offending field and the violated constraint.
func Validate(name string, value any, path string) *validation.Report {
	r := validation.NewReport()
	if path == "" {
		path = "components." + name
	}

	if !Known(name) {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown component type %q", name),
			Path:        path,
			ActualValue: name,
			Expected:    strings.Join(Names(), " | "),
		})
		return r
	}

	switch v := value.(type) {
	case GridTransform:
		validateGridTransform(v, path, r)
	case Render2D:
		validateRender2D(v, path, r)
	case Collision2D:
		// Both flags may legally be false (decorative entity) but not both
		// true: a solid body cannot also be a pass-through trigger.
		if v.IsSolid && v.IsTrigger {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "collision2d cannot be both solid and trigger",
				Path:        path + ".is_trigger",
				ActualValue: true,
				Expected:    "is_solid and is_trigger mutually exclusive",
			})
		}
	case GridMovement:
		if v.StepSize <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "grid_movement step_size must be positive",
				Path:        path + ".step_size",
				ActualValue: v.StepSize,
				Expected:    "> 0",
			})
		}
	case Agent:
		validateAgent(v, path, r)
	case Inventory:
		if v.Capacity < 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "inventory capacity must not be negative",
				Path:        path + ".capacity",
				ActualValue: v.Capacity,
				Expected:    ">= 0 (0 means unbounded)",
			})
		}
	case TriggerZone:
		validateTriggerZone(v, path, r)
	case StateMachine:
		validateStateMachine(v, path, r)
	case Pickable:
		if v.ItemType == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "pickable item_type must be non-empty",
				Path:     path + ".item_type",
				Expected: "non-empty string",
			})
		}
	case Door:
		// No shape constraints beyond the type itself.
	case Portal:
		if v.TargetID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "portal target_id must be non-empty",
				Path:     path + ".target_id",
				Expected: "entity id",
			})
		}
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("component %s has wrong value type %T", name, value),
			Path:        path,
			ActualValue: fmt.Sprintf("%T", value),
			Expected:    "registered component struct",
		})
	}

	return r
}

func validateGridTransform(v GridTransform, path string, r *validation.Report) {
	if v.Row < 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "grid_transform row must not be negative",
			Path:        path + ".row",
			ActualValue: v.Row,
			Expected:    ">= 0",
		})
	}
	if v.Col < 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "grid_transform col must not be negative",
			Path:        path + ".col",
			ActualValue: v.Col,
			Expected:    ">= 0",
		})
	}
	if v.Layer < 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "grid_transform layer must not be negative",
			Path:        path + ".layer",
			ActualValue: v.Layer,
			Expected:    ">= 0",
		})
	}
}

func validateRender2D(v Render2D, path string, r *validation.Report) {
	switch v.Shape {
	case ShapeRect:
		if v.Width <= 0 || v.Height <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "render2d rect requires positive width and height",
				Path:        path + ".width",
				ActualValue: fmt.Sprintf("%gx%g", v.Width, v.Height),
				Expected:    "width > 0 and height > 0",
			})
		}
	case ShapeCircle:
		if v.Radius <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "render2d circle requires a positive radius",
				Path:        path + ".radius",
				ActualValue: v.Radius,
				Expected:    "> 0",
			})
		}
	case ShapePolygon:
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown render2d shape %q", v.Shape),
			Path:        path + ".shape",
			ActualValue: v.Shape,
			Expected:    "rect | circle | polygon",
		})
	}
	if v.Color == "" {
		r.AddError(validation.Result{
			Level:    validation.LevelSchema,
			Message:  "render2d color must be set",
			Path:     path + ".color",
			Expected: "CSS color string",
		})
	}
}

func validateAgent(v Agent, path string, r *validation.Report) {
	switch v.ActionSpace {
	// Custom with no named actions is legal: continuous environments have
	// nothing to enumerate.
	case ActionSpaceGridMoves4, ActionSpaceCustom:
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown agent action_space %q", v.ActionSpace),
			Path:        path + ".action_space",
			ActualValue: v.ActionSpace,
			Expected:    "grid_moves_4 | custom",
		})
	}
}

func validateTriggerZone(v TriggerZone, path string, r *validation.Report) {
	check := func(actions []string, field string) {
		for i, a := range actions {
			verb, _, _ := strings.Cut(a, ":")
			if !triggerVerbs[verb] {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     fmt.Sprintf("unknown trigger action verb %q", verb),
					Path:        fmt.Sprintf("%s.%s[%d]", path, field, i),
					ActualValue: a,
					Expected:    "reward | penalty | end_episode | open | teleport",
				})
			}
		}
	}
	check(v.OnEnter, "on_enter")
	check(v.OnExit, "on_exit")
	if len(v.OnEnter) == 0 && len(v.OnExit) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelSchema,
			Message:  "trigger_zone must define at least one action",
			Path:     path + ".on_enter",
			Expected: ">= 1 action across on_enter/on_exit",
		})
	}
}

func validateStateMachine(v StateMachine, path string, r *validation.Report) {
	if len(v.States) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelSchema,
			Message:  "state_machine must define at least one state",
			Path:     path + ".states",
			Expected: ">= 1 state",
		})
		return
	}
	known := make(map[string]bool, len(v.States))
	for _, s := range v.States {
		known[s] = true
	}
	if !known[v.Initial] {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("initial state %q is not in states", v.Initial),
			Path:        path + ".initial",
			ActualValue: v.Initial,
			Expected:    "one of the declared states",
		})
	}
	for i, tr := range v.Transitions {
		if !known[tr.From] || !known[tr.To] {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("transition %d references undeclared state", i),
				Path:        fmt.Sprintf("%s.transitions[%d]", path, i),
				ActualValue: fmt.Sprintf("%s -> %s", tr.From, tr.To),
				Expected:    "declared states on both ends",
			})
		}
	}
}
