package convert

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/geo"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
	"github.com/soovittt/RL-Studio-sub001/pkg/scenegraph"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// ToEnvSpec recovers a canonical spec from a scene graph and its RL
// companion document. The graph is structurally validated first; a scene
// with unresolved references or a cyclic parent chain does not convert.
func ToEnvSpec(g *scenegraph.Graph, cfg *rlconfig.Config) (*envspec.EnvSpec, error) {
	if report := scenegraph.ValidateStructure(g); !report.Valid {
		if cyc := findCycle(report); cyc != nil {
			return nil, fmt.Errorf("%s: %w", cyc.Message, ErrCycle)
		}
		return nil, fmt.Errorf("scene does not validate: %w", report.Err())
	}

	s := &envspec.EnvSpec{
		ID:      g.Metadata.World.EnvID,
		Name:    g.Metadata.World.Name,
		EnvType: envspec.EnvType(g.Metadata.World.EnvType),
		World:   restoreWorld(g.Metadata.World),
		Metadata: envspec.Metadata{
			Version: g.Metadata.SpecVersion,
		},
	}
	if s.EnvType == "" {
		s.EnvType = envspec.EnvGrid
	}
	grid := s.World.CoordinateSystem == envspec.CoordGrid
	s.Visuals.ShowGrid = grid

	for i, e := range g.Entities {
		if _, isAgent := e.Components[component.TypeAgent]; isAgent {
			s.Agents = append(s.Agents, restoreAgent(e, s.World))
			continue
		}
		o, err := restoreObject(e, s.World)
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", i, err)
		}
		s.Objects = append(s.Objects, o)
	}

	s.ActionSpace, s.StateSpace = restoreSpaces(g, cfg, s.World)

	if cfg != nil {
		rules, err := restoreRules(g, cfg)
		if err != nil {
			return nil, err
		}
		s.Rules = rules
	} else {
		s.Rules.Episode.MaxSteps = DefaultMaxSteps
	}

	if report := envspec.Validate(s); !report.Valid {
		return nil, fmt.Errorf("restored spec does not validate: %w", report.Err())
	}
	return s, nil
}

func findCycle(r *validation.Report) *validation.Result {
	for i := range r.Errors {
		if r.Errors[i].Level == validation.LevelStructural &&
			strings.Contains(r.Errors[i].Message, "cyclic") {
			return &r.Errors[i]
		}
	}
	return nil
}

func restoreWorld(w scenegraph.World) envspec.World {
	out := envspec.World{
		CoordinateSystem: envspec.CoordinateSystem(w.CoordinateSystem),
		Width:            w.Width,
		Height:           w.Height,
		CellSize:         w.CellSize,
	}
	if out.CoordinateSystem == "" {
		out.CoordinateSystem = envspec.CoordGrid
	}
	if len(w.Regions) > 0 {
		geom := &envspec.WorldGeometry{}
		for _, r := range w.Regions {
			def := envspec.RegionDef{ID: r.ID, Polygon: append([]mgl64.Vec2(nil), r.Polygon...)}
			if r.Blocked {
				geom.Blocked = append(geom.Blocked, def)
			} else {
				geom.Walkable = append(geom.Walkable, def)
			}
		}
		out.Geometry = geom
	}
	return out
}

// entityPosition prefers the entity transform; a grid entity authored with
// only a grid_transform falls back to the world position of its cell.
func entityPosition(e scenegraph.Entity, w envspec.World, center bool) mgl64.Vec2 {
	pos := e.Transform.Position
	if pos != (mgl64.Vec2{}) || w.CoordinateSystem != envspec.CoordGrid {
		return pos
	}
	gt, ok := e.Components[component.TypeGridTransform].(component.GridTransform)
	if !ok {
		return pos
	}
	cell := geo.Cell{Row: gt.Row, Col: gt.Col}
	if center {
		return geo.CellCenter(cell, w.CellSize)
	}
	return geo.WorldFromCell(cell, w.CellSize)
}

func restoreAgent(e scenegraph.Entity, w envspec.World) envspec.AgentSpec {
	a := envspec.AgentSpec{
		ID:       e.ID,
		Name:     e.Name,
		Position: entityPosition(e, w, true),
	}
	if _, ok := e.Components[component.TypeGridMovement]; ok || w.CoordinateSystem == envspec.CoordGrid {
		a.Dynamics = envspec.DynamicsSpec{Kind: envspec.DynamicsGridStep}
	} else {
		a.Dynamics = envspec.DynamicsSpec{Kind: envspec.DynamicsContinuousVelocity, MaxSpeed: 1}
	}
	return a
}

func restoreObject(e scenegraph.Entity, w envspec.World) (envspec.ObjectSpec, error) {
	o := envspec.ObjectSpec{
		ID:       e.ID,
		Type:     objectTypeOf(e),
		Position: entityPosition(e, w, false),
		Rotation: e.Transform.Rotation,
	}

	if col, ok := e.Components[component.TypeCollision2D].(component.Collision2D); ok {
		o.Collision = envspec.CollisionSpec{
			Enabled:  col.IsSolid || col.IsTrigger,
			IsStatic: col.IsSolid,
		}
	}

	props := map[string]any{}
	if e.Name != "" {
		props["name"] = e.Name
	}
	if r, ok := e.Components[component.TypeRender2D].(component.Render2D); ok {
		o.Size = sizeFromRender(r, w.CellSize)
		if r.Color != "" && r.Color != defaultColorOf(o.Type) {
			props[colorProperty] = r.Color
		}
	}
	if d, ok := e.Components[component.TypeDoor].(component.Door); ok && d.RequiresKey != "" {
		props["requires_key"] = d.RequiresKey
	}
	if p, ok := e.Components[component.TypePortal].(component.Portal); ok {
		if p.TargetID == "" {
			return envspec.ObjectSpec{}, fmt.Errorf("portal on %q has no target: %w", e.ID, ErrDanglingReference)
		}
		props["portal_target"] = p.TargetID
	}
	if len(props) > 0 {
		o.Properties = props
	}
	return o, nil
}

// objectTypeOf recovers the spec object type: the asset id names it when
// it is one of the known kinds, otherwise the components hint at it.
func objectTypeOf(e scenegraph.Entity) envspec.ObjectType {
	switch t := envspec.ObjectType(e.AssetID); t {
	case envspec.ObjectWall, envspec.ObjectAgent, envspec.ObjectGoal,
		envspec.ObjectObstacle, envspec.ObjectRegion, envspec.ObjectCheckpoint,
		envspec.ObjectTrap, envspec.ObjectKey, envspec.ObjectDoor,
		envspec.ObjectCustom:
		return t
	}

	if _, ok := e.Components[component.TypeDoor]; ok {
		return envspec.ObjectDoor
	}
	if p, ok := e.Components[component.TypePickable].(component.Pickable); ok && p.ItemType == "key" {
		return envspec.ObjectKey
	}
	if tz, ok := e.Components[component.TypeTriggerZone].(component.TriggerZone); ok {
		for _, action := range tz.OnEnter {
			if strings.HasPrefix(action, "penalty:") {
				return envspec.ObjectTrap
			}
		}
		for _, action := range tz.OnEnter {
			if action == "end_episode" || strings.HasPrefix(action, "reward:") {
				return envspec.ObjectGoal
			}
		}
	}
	if col, ok := e.Components[component.TypeCollision2D].(component.Collision2D); ok && col.IsSolid {
		return envspec.ObjectWall
	}
	return envspec.ObjectCustom
}

// sizeFromRender inverts renderFor. Cell-sized defaults come back as point
// footprints so a default-built scene round-trips exactly.
func sizeFromRender(r component.Render2D, cellSize float64) envspec.SizeSpec {
	if cellSize <= 0 {
		cellSize = 1
	}
	switch r.Shape {
	case component.ShapeCircle:
		if r.Radius == cellSize*0.4 {
			return envspec.SizeSpec{Kind: envspec.SizePoint}
		}
		return envspec.SizeSpec{Kind: envspec.SizeCircle, Radius: r.Radius}
	case component.ShapePolygon:
		return envspec.SizeSpec{Kind: envspec.SizePolygon}
	default:
		if r.Width == cellSize && r.Height == cellSize {
			return envspec.SizeSpec{Kind: envspec.SizePoint}
		}
		return envspec.SizeSpec{Kind: envspec.SizeRect, Width: r.Width, Height: r.Height}
	}
}

func restoreSpaces(g *scenegraph.Graph, cfg *rlconfig.Config, w envspec.World) (envspec.ActionSpaceSpec, envspec.StateSpaceSpec) {
	state := envspec.StateSpaceSpec{Kind: "box", Shape: []int{2}}

	if cfg != nil && len(cfg.Agents) > 0 {
		a := cfg.Agents[0]
		if len(a.ObservationSpace.Shape) > 0 {
			state.Shape = append([]int(nil), a.ObservationSpace.Shape...)
		}
		switch a.ActionSpace.Kind {
		case rlconfig.SpaceDiscrete:
			return envspec.ActionSpaceSpec{
				Type:    envspec.SpaceDiscrete,
				Actions: append([]string(nil), a.ActionSpace.Actions...),
			}, state
		case rlconfig.SpaceBox:
			action := envspec.ActionSpaceSpec{Type: envspec.SpaceContinuous, Dimensions: 2}
			if len(a.ActionSpace.Shape) > 0 {
				action.Dimensions = a.ActionSpace.Shape[0]
			}
			if len(a.ActionSpace.Low) > 0 && len(a.ActionSpace.High) > 0 {
				action.Range = [2]float64{a.ActionSpace.Low[0], a.ActionSpace.High[0]}
			}
			return action, state
		}
	}

	// No companion document: fall back to the defaults for the world kind.
	if w.CoordinateSystem == envspec.CoordGrid {
		return envspec.ActionSpaceSpec{
			Type:    envspec.SpaceDiscrete,
			Actions: append([]string(nil), envspec.DefaultGridActions...),
		}, state
	}
	return envspec.ActionSpaceSpec{
		Type:       envspec.SpaceContinuous,
		Dimensions: 2,
		Range:      [2]float64{-1, 1},
	}, state
}

func restoreRules(g *scenegraph.Graph, cfg *rlconfig.Config) (envspec.RuleSet, error) {
	rules := envspec.RuleSet{}

	for i, rw := range cfg.Rewards {
		cond, err := triggerToCondition(g, rw.Trigger, fmt.Sprintf("rewards[%d]", i))
		if err != nil {
			return envspec.RuleSet{}, err
		}
		rules.Rewards = append(rules.Rewards, envspec.RewardRule{
			Condition: cond,
			Reward:    rw.Amount,
			Shaping:   rw.Shaping,
		})
	}

	for i, ev := range cfg.Events {
		cond, err := triggerToCondition(g, ev.Trigger, fmt.Sprintf("events[%d]", i))
		if err != nil {
			return envspec.RuleSet{}, err
		}
		rules.Events = append(rules.Events, envspec.EventRule{
			Condition: cond,
			Effect:    ev.Effect,
		})
	}

	for i, tr := range cfg.Episode.Terminations {
		cond, err := triggerToCondition(g, tr.Trigger, fmt.Sprintf("episode.terminations[%d]", i))
		if err != nil {
			return envspec.RuleSet{}, err
		}
		rules.Terminations = append(rules.Terminations, envspec.TerminationRule{Condition: cond})
	}

	rules.Episode.MaxSteps = cfg.Episode.MaxSteps
	if rules.Episode.MaxSteps <= 0 {
		rules.Episode.MaxSteps = DefaultMaxSteps
	}
	return rules, nil
}
