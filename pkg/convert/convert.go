// Package convert holds the bidirectional converters between the
// canonical EnvSpec and the persisted SceneGraph + RLConfig pair. Both
// directions are pure and synchronous; a failed conversion returns an
// error and no partial output.
package convert

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/geo"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
	"github.com/soovittt/RL-Studio-sub001/pkg/scenegraph"
)

// DefaultMaxSteps bounds an episode when the spec does not say otherwise.
const DefaultMaxSteps = 500

var (
	// ErrDanglingReference marks a condition or trigger naming an id absent
	// from its document.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrCycle marks a parent chain that does not terminate.
	ErrCycle = errors.New("cycle detected")
)

// ToSceneGraph converts a spec into its persisted scene-graph form plus
// the RL companion document.
func ToSceneGraph(s *envspec.EnvSpec) (*scenegraph.Graph, *rlconfig.Config, error) {
	if report := envspec.Validate(s); !report.Valid {
		return nil, nil, fmt.Errorf("spec does not validate: %w", report.Err())
	}

	grid := s.World.CoordinateSystem == envspec.CoordGrid
	g := scenegraph.NewGraph(envspec.SpecVersion)
	g.Metadata.World = worldInfo(s)

	for i, o := range s.Objects {
		e, err := objectEntity(s, o, grid)
		if err != nil {
			return nil, nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		g.Add(e)
	}
	for _, a := range s.Agents {
		g.Add(agentEntity(s, a, grid))
	}

	cfg, err := buildRLConfig(s)
	if err != nil {
		return nil, nil, err
	}
	return g, cfg, nil
}

func worldInfo(s *envspec.EnvSpec) scenegraph.World {
	w := scenegraph.World{
		EnvID:            s.ID,
		Name:             s.Name,
		EnvType:          string(s.EnvType),
		CoordinateSystem: string(s.World.CoordinateSystem),
		Width:            s.World.Width,
		Height:           s.World.Height,
		CellSize:         s.World.CellSize,
	}
	if s.World.Geometry != nil {
		for _, r := range s.World.Geometry.Walkable {
			w.Regions = append(w.Regions, scenegraph.RegionInfo{ID: r.ID, Polygon: r.Polygon})
		}
		for _, r := range s.World.Geometry.Blocked {
			w.Regions = append(w.Regions, scenegraph.RegionInfo{ID: r.ID, Polygon: r.Polygon, Blocked: true})
		}
	}
	return w
}

func objectEntity(s *envspec.EnvSpec, o envspec.ObjectSpec, grid bool) (scenegraph.Entity, error) {
	e := scenegraph.Entity{
		ID:      o.ID,
		AssetID: string(o.Type),
		Transform: scenegraph.Transform{
			Position: o.Position,
			Rotation: o.Rotation,
			Scale:    mgl64.Vec2{1, 1},
		},
		Components: component.Map{},
	}
	if n, ok := o.Properties["name"].(string); ok {
		e.Name = n
	}

	if grid {
		cell := geo.CellOf(o.Position, s.World.CellSize)
		e.Components[component.TypeGridTransform] = component.GridTransform{
			Row:   cell.Row,
			Col:   cell.Col,
			Layer: 0,
		}
	}

	e.Components[component.TypeRender2D] = renderFor(o, s.World.CellSize)

	solid := o.Collision.Enabled &&
		(o.Type == envspec.ObjectWall || o.Type == envspec.ObjectObstacle)
	e.Components[component.TypeCollision2D] = component.Collision2D{
		IsSolid:   solid,
		IsTrigger: o.Collision.Enabled && !solid,
	}

	// Type-specific extras: one fixed dispatch per object type.
	switch o.Type {
	case envspec.ObjectKey:
		e.Components[component.TypePickable] = component.Pickable{ItemType: "key"}
	case envspec.ObjectDoor:
		door := component.Door{}
		if k, ok := o.Properties["requires_key"].(string); ok {
			door.RequiresKey = k
		}
		e.Components[component.TypeDoor] = door
	case envspec.ObjectGoal:
		e.Components[component.TypeTriggerZone] = component.TriggerZone{
			OnEnter: []string{"reward:+10", "end_episode"},
			Once:    true,
		}
	case envspec.ObjectTrap:
		e.Components[component.TypeTriggerZone] = component.TriggerZone{
			OnEnter: []string{"penalty:-1"},
			Once:    false,
		}
	}

	// Portals are opt-in through the properties bag on any object type.
	if target, ok := o.Properties["portal_target"].(string); ok && target != "" {
		if s.ObjectByID(target) == nil && s.AgentByID(target) == nil {
			return scenegraph.Entity{}, fmt.Errorf("portal target %q: %w", target, ErrDanglingReference)
		}
		e.Components[component.TypePortal] = component.Portal{TargetID: target}
	}

	return e, nil
}

func agentEntity(s *envspec.EnvSpec, a envspec.AgentSpec, grid bool) scenegraph.Entity {
	e := scenegraph.Entity{
		ID:   a.ID,
		Name: a.Name,
		Transform: scenegraph.Transform{
			Position: a.Position,
			Scale:    mgl64.Vec2{1, 1},
		},
		Components: component.Map{},
	}

	if grid {
		cell := geo.CellOf(a.Position, s.World.CellSize)
		// Agents render above the tile layer.
		e.Components[component.TypeGridTransform] = component.GridTransform{
			Row:   cell.Row,
			Col:   cell.Col,
			Layer: 1,
		}
		e.Components[component.TypeGridMovement] = component.GridMovement{StepSize: 1}
	}

	e.Components[component.TypeAgent] = agentComponent(s.ActionSpace)
	e.Components[component.TypeInventory] = component.Inventory{Items: []string{}}
	e.Components[component.TypeRender2D] = component.Render2D{
		Shape:  component.ShapeCircle,
		Radius: agentRadius(s.World.CellSize),
		Color:  agentColor,
	}

	return e
}

func agentComponent(a envspec.ActionSpaceSpec) component.Agent {
	if a.Type == envspec.SpaceDiscrete {
		if isDefaultGridActions(a.Actions) {
			return component.Agent{ActionSpace: component.ActionSpaceGridMoves4}
		}
		return component.Agent{
			ActionSpace:   component.ActionSpaceCustom,
			CustomActions: append([]string(nil), a.Actions...),
		}
	}
	return component.Agent{ActionSpace: component.ActionSpaceCustom}
}

func isDefaultGridActions(actions []string) bool {
	if len(actions) != len(envspec.DefaultGridActions) {
		return false
	}
	for i, a := range actions {
		if a != envspec.DefaultGridActions[i] {
			return false
		}
	}
	return true
}

func agentRadius(cellSize float64) float64 {
	if cellSize <= 0 {
		return 0.4
	}
	return cellSize * 0.4
}

func buildRLConfig(s *envspec.EnvSpec) (*rlconfig.Config, error) {
	cfg := &rlconfig.Config{
		Agents:  make([]rlconfig.AgentConfig, 0, len(s.Agents)),
		Rewards: make([]rlconfig.RewardSignal, 0, len(s.Rules.Rewards)),
	}

	action := actionSpaceDescriptor(s.ActionSpace)
	obs := observationSpaceDescriptor(s.World)
	for _, a := range s.Agents {
		cfg.Agents = append(cfg.Agents, rlconfig.AgentConfig{
			ID:               a.ID,
			ActionSpace:      action,
			ObservationSpace: obs,
		})
	}

	for i, rr := range s.Rules.Rewards {
		trigger, err := conditionToTrigger(s, rr.Condition, fmt.Sprintf("rules.rewards[%d]", i))
		if err != nil {
			return nil, err
		}
		cfg.Rewards = append(cfg.Rewards, rlconfig.RewardSignal{
			Trigger: trigger,
			Amount:  rr.Reward,
			Shaping: rr.Shaping,
		})
	}

	for i, er := range s.Rules.Events {
		trigger, err := conditionToTrigger(s, er.Condition, fmt.Sprintf("rules.events[%d]", i))
		if err != nil {
			return nil, err
		}
		cfg.Events = append(cfg.Events, rlconfig.EventSignal{
			Trigger: trigger,
			Effect:  er.Effect,
		})
	}

	cfg.Episode.MaxSteps = s.Rules.Episode.MaxSteps
	if cfg.Episode.MaxSteps <= 0 {
		cfg.Episode.MaxSteps = DefaultMaxSteps
	}
	for i, tr := range s.Rules.Terminations {
		trigger, err := conditionToTrigger(s, tr.Condition, fmt.Sprintf("rules.terminations[%d]", i))
		if err != nil {
			return nil, err
		}
		cfg.Episode.Terminations = append(cfg.Episode.Terminations, rlconfig.Termination{Trigger: trigger})
	}

	cfg.Episode.Reset.Spawns = make(map[string]rlconfig.Pose, len(s.Agents))
	for _, a := range s.Agents {
		cfg.Episode.Reset.Spawns[a.ID] = rlconfig.Pose{Position: a.Position}
	}

	return cfg, nil
}

// actionSpaceDescriptor maps the spec action space to an RL-style space.
func actionSpaceDescriptor(a envspec.ActionSpaceSpec) rlconfig.Space {
	if a.Type == envspec.SpaceDiscrete {
		return rlconfig.Space{
			Kind:    rlconfig.SpaceDiscrete,
			Actions: append([]string(nil), a.Actions...),
		}
	}
	low := make([]float64, a.Dimensions)
	high := make([]float64, a.Dimensions)
	for i := range low {
		low[i] = a.Range[0]
		high[i] = a.Range[1]
	}
	return rlconfig.Space{
		Kind:  rlconfig.SpaceBox,
		Shape: []int{a.Dimensions},
		Low:   low,
		High:  high,
	}
}

// observationSpaceDescriptor synthesizes a 2-D position box: bounded by
// world extents for grid worlds, unbounded for continuous ones. Richer
// observation composition is deliberately out of scope.
func observationSpaceDescriptor(w envspec.World) rlconfig.Space {
	if w.CoordinateSystem == envspec.CoordGrid {
		return rlconfig.Space{
			Kind:  rlconfig.SpaceBox,
			Shape: []int{2},
			Low:   []float64{0, 0},
			High:  []float64{w.Width, w.Height},
		}
	}
	return rlconfig.Space{
		Kind:  rlconfig.SpaceBox,
		Shape: []int{2},
	}
}
