package envspec

import (
	"fmt"

	"github.com/soovittt/RL-Studio-sub001/pkg/script"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// Validate performs schema validation on a spec: enum membership, world
// dimensions, action-space/topology compatibility, id uniqueness, bounds,
// and rule-condition well-formedness. Reference-level checks (ids named by
// rule conditions) are included so a spec that validates cleanly will also
// convert cleanly.
func Validate(s *EnvSpec) *validation.Report {
	r := validation.NewReport()

	if s == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: "spec is nil",
		})
		return r
	}

	validateEnvType(s, r)
	validateWorld(s, r)
	validateActionSpace(s, r)
	validateIDs(s, r)
	validateObjects(s, r)
	validateAgents(s, r)
	validateRules(s, r)

	return r
}

func validateEnvType(s *EnvSpec, r *validation.Report) {
	switch s.EnvType {
	case EnvGrid, EnvContinuous2D, EnvCustom2D:
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown env_type %q", s.EnvType),
			Path:        "env_type",
			ActualValue: string(s.EnvType),
			Expected:    "grid | continuous2d | custom2d",
		})
	}
}

func validateWorld(s *EnvSpec, r *validation.Report) {
	w := s.World

	if w.Width <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "world width must be greater than 0",
			Path:        "world.width",
			ActualValue: w.Width,
			Expected:    "> 0",
		})
	}
	if w.Height <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "world height must be greater than 0",
			Path:        "world.height",
			ActualValue: w.Height,
			Expected:    "> 0",
		})
	}

	switch w.CoordinateSystem {
	case CoordGrid:
		if w.CellSize <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "grid worlds require a positive cell_size",
				Path:        "world.cell_size",
				ActualValue: w.CellSize,
				Expected:    "> 0",
			})
		}
	case CoordCartesian:
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown coordinate_system %q", w.CoordinateSystem),
			Path:        "world.coordinate_system",
			ActualValue: string(w.CoordinateSystem),
			Expected:    "grid | cartesian",
		})
	}

	if s.EnvType == EnvGrid && w.CoordinateSystem != CoordGrid {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "grid environments require the grid coordinate system",
			Path:        "world.coordinate_system",
			ActualValue: string(w.CoordinateSystem),
			Expected:    string(CoordGrid),
		})
	}

	if w.Geometry != nil {
		validateRegions(w.Geometry.Walkable, "world.geometry.walkable", r)
		validateRegions(w.Geometry.Blocked, "world.geometry.blocked", r)
	}
}

func validateRegions(regions []RegionDef, path string, r *validation.Report) {
	for i, reg := range regions {
		if reg.ID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "region id must be non-empty",
				Path:     fmt.Sprintf("%s[%d].id", path, i),
				Expected: "non-empty string",
			})
		}
		if len(reg.Polygon) < 3 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("region %q polygon needs at least 3 vertices", reg.ID),
				Path:        fmt.Sprintf("%s[%d].polygon", path, i),
				ActualValue: len(reg.Polygon),
				Expected:    ">= 3 vertices",
			})
		}
	}
}

// validateActionSpace enforces topology compatibility: a discrete space on
// a continuous topology (or the reverse) is a caller error, never coerced.
func validateActionSpace(s *EnvSpec, r *validation.Report) {
	a := s.ActionSpace

	switch a.Type {
	case SpaceDiscrete:
		if len(a.Actions) == 0 {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "discrete action space must name at least one action",
				Path:     "action_space.actions",
				Expected: ">= 1 named action",
			})
		}
		if s.EnvType == EnvContinuous2D {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "continuous2d environments require a continuous action space",
				Path:        "action_space.type",
				ActualValue: string(a.Type),
				Expected:    string(SpaceContinuous),
			})
		}
	case SpaceContinuous:
		if a.Dimensions <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "continuous action space must have at least one dimension",
				Path:        "action_space.dimensions",
				ActualValue: a.Dimensions,
				Expected:    ">= 1",
			})
		}
		if a.Range[0] >= a.Range[1] {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "action range low must be less than high",
				Path:        "action_space.range",
				ActualValue: a.Range,
				Expected:    "[low, high] with low < high",
			})
		}
		if s.EnvType == EnvGrid {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "grid environments require a discrete action space",
				Path:        "action_space.type",
				ActualValue: string(a.Type),
				Expected:    string(SpaceDiscrete),
			})
		}
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown action space type %q", a.Type),
			Path:        "action_space.type",
			ActualValue: string(a.Type),
			Expected:    "discrete | continuous",
		})
	}
}

func validateIDs(s *EnvSpec, r *validation.Report) {
	seen := make(map[string]string, len(s.Objects)+len(s.Agents))

	record := func(id, path string) {
		if id == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "id must be non-empty",
				Path:     path,
				Expected: "non-empty string",
			})
			return
		}
		if prev, ok := seen[id]; ok {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("duplicate id %q (also used at %s)", id, prev),
				Path:        path,
				ActualValue: id,
			})
			return
		}
		seen[id] = path
	}

	for i, o := range s.Objects {
		record(o.ID, fmt.Sprintf("objects[%d].id", i))
	}
	for i, a := range s.Agents {
		record(a.ID, fmt.Sprintf("agents[%d].id", i))
	}
}

func validateObjects(s *EnvSpec, r *validation.Report) {
	for i, o := range s.Objects {
		path := fmt.Sprintf("objects[%d]", i)

		switch o.Type {
		case ObjectWall, ObjectAgent, ObjectGoal, ObjectObstacle, ObjectRegion,
			ObjectCheckpoint, ObjectTrap, ObjectKey, ObjectDoor, ObjectCustom:
		default:
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("unknown object type %q", o.Type),
				Path:        path + ".type",
				ActualValue: string(o.Type),
			})
		}

		validateSize(o.Size, path+".size", r)
		validateBounds(s, o.Position[0], o.Position[1], path+".position", r)
	}
}

func validateSize(sz SizeSpec, path string, r *validation.Report) {
	switch sz.Kind {
	case SizePoint, "":
	case SizeCircle:
		if sz.Radius <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "circle size requires a positive radius",
				Path:        path + ".radius",
				ActualValue: sz.Radius,
				Expected:    "> 0",
			})
		}
	case SizeRect:
		if sz.Width <= 0 || sz.Height <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "rect size requires positive width and height",
				Path:        path,
				ActualValue: fmt.Sprintf("%gx%g", sz.Width, sz.Height),
				Expected:    "width > 0 and height > 0",
			})
		}
	case SizePolygon:
		if len(sz.Polygon) < 3 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "polygon size needs at least 3 vertices",
				Path:        path + ".polygon",
				ActualValue: len(sz.Polygon),
				Expected:    ">= 3 vertices",
			})
		}
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown size kind %q", sz.Kind),
			Path:        path + ".kind",
			ActualValue: string(sz.Kind),
			Expected:    "point | circle | rect | polygon",
		})
	}
}

func validateAgents(s *EnvSpec, r *validation.Report) {
	for i, a := range s.Agents {
		path := fmt.Sprintf("agents[%d]", i)

		switch a.Dynamics.Kind {
		case DynamicsGridStep:
		case DynamicsContinuousVelocity:
			if a.Dynamics.MaxSpeed <= 0 {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "continuous-velocity dynamics require a positive max_speed",
					Path:        path + ".dynamics.max_speed",
					ActualValue: a.Dynamics.MaxSpeed,
					Expected:    "> 0",
				})
			}
		case DynamicsCarLike:
			if a.Dynamics.MaxSpeed <= 0 || a.Dynamics.TurnRate <= 0 {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "car-like dynamics require positive max_speed and turn_rate",
					Path:        path + ".dynamics",
					ActualValue: fmt.Sprintf("max_speed=%g turn_rate=%g", a.Dynamics.MaxSpeed, a.Dynamics.TurnRate),
					Expected:    "max_speed > 0 and turn_rate > 0",
				})
			}
		case DynamicsCustom:
			if a.Dynamics.Script == "" {
				r.AddError(validation.Result{
					Level:    validation.LevelSchema,
					Message:  "custom dynamics require a script",
					Path:     path + ".dynamics.script",
					Expected: "non-empty script",
				})
			} else if err := script.Check(a.Dynamics.Script); err != nil {
				r.AddError(validation.Result{
					Level:    validation.LevelSchema,
					Message:  fmt.Sprintf("custom dynamics script does not compile: %v", err),
					Path:     path + ".dynamics.script",
					Expected: "valid Lua",
				})
			}
		default:
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("unknown dynamics kind %q", a.Dynamics.Kind),
				Path:        path + ".dynamics.kind",
				ActualValue: string(a.Dynamics.Kind),
			})
		}

		validateBounds(s, a.Position[0], a.Position[1], path+".position", r)
	}
}

func validateBounds(s *EnvSpec, x, y float64, path string, r *validation.Report) {
	if s.World.Width <= 0 || s.World.Height <= 0 {
		return // dimension errors already reported
	}
	if x < 0 || x > s.World.Width || y < 0 || y > s.World.Height {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "position lies outside the world bounds",
			Path:        path,
			ActualValue: fmt.Sprintf("[%g, %g]", x, y),
			Expected:    fmt.Sprintf("within %gx%g", s.World.Width, s.World.Height),
		})
	}
}

func validateRules(s *EnvSpec, r *validation.Report) {
	for i, rr := range s.Rules.Rewards {
		validateCondition(s, rr.Condition, fmt.Sprintf("rules.rewards[%d].condition", i), r)
	}
	for i, tr := range s.Rules.Terminations {
		validateCondition(s, tr.Condition, fmt.Sprintf("rules.terminations[%d].condition", i), r)
	}
	for i, er := range s.Rules.Events {
		validateCondition(s, er.Condition, fmt.Sprintf("rules.events[%d].condition", i), r)
		if er.Effect == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "event rules require an effect",
				Path:     fmt.Sprintf("rules.events[%d].effect", i),
				Expected: "non-empty effect name",
			})
		}
	}
	if s.Rules.Episode.MaxSteps < 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "episode max_steps must not be negative",
			Path:        "rules.episode.max_steps",
			ActualValue: s.Rules.Episode.MaxSteps,
			Expected:    ">= 0 (0 means default)",
		})
	}
}

func validateCondition(s *EnvSpec, c ConditionSpec, path string, r *validation.Report) {
	switch c.Type {
	case CondPositionReached:
		if c.Position == nil {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "position_reached condition requires a position",
				Path:     path + ".position",
				Expected: "2-vector",
			})
		}
	case CondObjectReached:
		// ObjectID is optional; when empty the converter targets the first
		// goal object. A named id must resolve.
		if c.ObjectID != "" && s.ObjectByID(c.ObjectID) == nil && s.AgentByID(c.ObjectID) == nil {
			r.AddError(validation.Result{
				Level:       validation.LevelReference,
				Message:     fmt.Sprintf("condition references unknown object %q", c.ObjectID),
				Path:        path + ".object_id",
				ActualValue: c.ObjectID,
				Expected:    "id of an existing object or agent",
			})
		}
	case CondCollision:
		if c.ObjectID != "" && s.ObjectByID(c.ObjectID) == nil && s.AgentByID(c.ObjectID) == nil {
			r.AddError(validation.Result{
				Level:       validation.LevelReference,
				Message:     fmt.Sprintf("condition references unknown object %q", c.ObjectID),
				Path:        path + ".object_id",
				ActualValue: c.ObjectID,
				Expected:    "id of an existing object or agent",
			})
		}
	case CondTimeout:
		if c.Steps <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "timeout condition requires a positive step count",
				Path:        path + ".steps",
				ActualValue: c.Steps,
				Expected:    "> 0",
			})
		}
	case CondRegionMembership:
		if c.RegionID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "region_membership condition requires a region id",
				Path:     path + ".region_id",
				Expected: "non-empty region id",
			})
		} else if s.RegionByID(c.RegionID) == nil && s.ObjectByID(c.RegionID) == nil {
			r.AddError(validation.Result{
				Level:       validation.LevelReference,
				Message:     fmt.Sprintf("condition references unknown region %q", c.RegionID),
				Path:        path + ".region_id",
				ActualValue: c.RegionID,
				Expected:    "id of a geometry region or region object",
			})
		}
	case CondStep:
	case CondCustom:
		if c.Script == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  "custom condition requires a script",
				Path:     path + ".script",
				Expected: "non-empty script",
			})
		} else if err := script.Check(c.Script); err != nil {
			r.AddError(validation.Result{
				Level:    validation.LevelSchema,
				Message:  fmt.Sprintf("custom condition script does not compile: %v", err),
				Path:     path + ".script",
				Expected: "valid Lua",
			})
		}
	default:
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("unknown condition type %q", c.Type),
			Path:        path + ".type",
			ActualValue: string(c.Type),
		})
	}
}
