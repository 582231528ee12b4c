package convert

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
)

// gridSpec builds a small grid world with a wall, a goal in the far
// corner, and a reach-the-goal reward plus termination.
func gridSpec() *envspec.EnvSpec {
	s := envspec.CreateDefault(envspec.EnvGrid, "convert-test")
	s.Objects = append(s.Objects,
		envspec.ObjectSpec{
			ID:        "wall-1",
			Type:      envspec.ObjectWall,
			Position:  mgl64.Vec2{3.5, 3.5},
			Collision: envspec.CollisionSpec{Enabled: true, IsStatic: true},
		},
		envspec.ObjectSpec{
			ID:        "goal-1",
			Type:      envspec.ObjectGoal,
			Position:  mgl64.Vec2{9.5, 9.5},
			Collision: envspec.CollisionSpec{Enabled: true},
		},
	)
	s.Rules.Rewards = []envspec.RewardRule{
		{Condition: envspec.ConditionSpec{Type: envspec.CondObjectReached, ObjectID: "goal-1"}, Reward: 10},
	}
	s.Rules.Terminations = []envspec.TerminationRule{
		{Condition: envspec.ConditionSpec{Type: envspec.CondObjectReached, ObjectID: "goal-1"}},
	}
	return s
}

func TestToSceneGraphGoalEntity(t *testing.T) {
	s := gridSpec()
	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	goal := g.EntityByID("goal-1")
	if goal == nil {
		t.Fatal("goal entity missing from scene")
	}
	if goal.AssetID != "goal" {
		t.Errorf("goal asset id = %q", goal.AssetID)
	}

	gt, ok := goal.Components[component.TypeGridTransform].(component.GridTransform)
	if !ok {
		t.Fatal("goal has no grid transform")
	}
	if gt.Row != 9 || gt.Col != 9 {
		t.Errorf("goal cell = (%d,%d), want (9,9)", gt.Row, gt.Col)
	}

	tz, ok := goal.Components[component.TypeTriggerZone].(component.TriggerZone)
	if !ok {
		t.Fatal("goal has no trigger zone")
	}
	if len(tz.OnEnter) != 2 || tz.OnEnter[0] != "reward:+10" || tz.OnEnter[1] != "end_episode" {
		t.Errorf("goal on_enter = %v", tz.OnEnter)
	}
	if !tz.Once {
		t.Error("goal trigger should fire once")
	}

	col, _ := goal.Components[component.TypeCollision2D].(component.Collision2D)
	if col.IsSolid || !col.IsTrigger {
		t.Errorf("goal collision = %+v, want trigger-only", col)
	}

	if len(cfg.Rewards) != 1 {
		t.Fatalf("expected one reward signal, got %d", len(cfg.Rewards))
	}
	rw := cfg.Rewards[0]
	if rw.Trigger.Type != rlconfig.TriggerEnterRegion {
		t.Errorf("reward trigger type = %q", rw.Trigger.Type)
	}
	if rw.Trigger.RegionID != "goal-1" || rw.Trigger.EntityID != s.Agents[0].ID {
		t.Errorf("reward trigger ids = %+v", rw.Trigger)
	}
	if rw.Amount != 10 {
		t.Errorf("reward amount = %g", rw.Amount)
	}
}

func TestToSceneGraphWallAndAgent(t *testing.T) {
	s := gridSpec()
	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	wall := g.EntityByID("wall-1")
	if wall == nil {
		t.Fatal("wall entity missing")
	}
	col, _ := wall.Components[component.TypeCollision2D].(component.Collision2D)
	if !col.IsSolid || col.IsTrigger {
		t.Errorf("wall collision = %+v, want solid", col)
	}

	agent := g.EntityByID(s.Agents[0].ID)
	if agent == nil {
		t.Fatal("agent entity missing")
	}
	ag, ok := agent.Components[component.TypeAgent].(component.Agent)
	if !ok {
		t.Fatal("agent entity has no agent component")
	}
	if ag.ActionSpace != component.ActionSpaceGridMoves4 {
		t.Errorf("agent action space = %q", ag.ActionSpace)
	}
	gt, _ := agent.Components[component.TypeGridTransform].(component.GridTransform)
	if gt.Layer != 1 {
		t.Errorf("agent layer = %d, want 1", gt.Layer)
	}
	if _, ok := agent.Components[component.TypeGridMovement]; !ok {
		t.Error("grid agent should carry grid_movement")
	}

	ac := cfg.AgentByID(s.Agents[0].ID)
	if ac == nil {
		t.Fatal("agent missing from rl config")
	}
	if ac.ActionSpace.Kind != rlconfig.SpaceDiscrete || len(ac.ActionSpace.Actions) != 4 {
		t.Errorf("agent action space = %+v", ac.ActionSpace)
	}
	if ac.ObservationSpace.Kind != rlconfig.SpaceBox || len(ac.ObservationSpace.High) != 2 {
		t.Errorf("grid observation space should be a bounded box, got %+v", ac.ObservationSpace)
	}
	if cfg.Episode.MaxSteps != DefaultMaxSteps {
		t.Errorf("max steps = %d, want default %d", cfg.Episode.MaxSteps, DefaultMaxSteps)
	}
}

func TestContinuousObservationUnbounded(t *testing.T) {
	s := envspec.CreateDefault(envspec.EnvContinuous2D, "cont")
	_, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	obs := cfg.Agents[0].ObservationSpace
	if obs.Kind != rlconfig.SpaceBox {
		t.Fatalf("observation kind = %q", obs.Kind)
	}
	if obs.Low != nil || obs.High != nil {
		t.Errorf("continuous observation box should be unbounded, got low=%v high=%v", obs.Low, obs.High)
	}
}

func TestRoundTrip(t *testing.T) {
	s := gridSpec()
	s.Objects[0].Properties = map[string]any{"color": "#112233"}

	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	got, err := ToEnvSpec(g, cfg)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}

	if got.ID != s.ID || got.Name != s.Name || got.EnvType != s.EnvType {
		t.Errorf("identity changed: %q/%q/%q", got.ID, got.Name, got.EnvType)
	}
	if got.World.Width != s.World.Width || got.World.CellSize != s.World.CellSize {
		t.Errorf("world frame changed: %+v", got.World)
	}
	if len(got.Objects) != len(s.Objects) || len(got.Agents) != len(s.Agents) {
		t.Fatalf("population changed: %d objects, %d agents", len(got.Objects), len(got.Agents))
	}
	for _, want := range s.Objects {
		obj := got.ObjectByID(want.ID)
		if obj == nil {
			t.Fatalf("object %q lost in round trip", want.ID)
		}
		if obj.Type != want.Type {
			t.Errorf("object %q type %q, want %q", want.ID, obj.Type, want.Type)
		}
		if obj.Position != want.Position {
			t.Errorf("object %q position %v, want %v", want.ID, obj.Position, want.Position)
		}
	}
	if got.Objects[0].Properties["color"] != "#112233" {
		t.Error("explicit color lost in round trip")
	}

	if got.ActionSpace.Type != envspec.SpaceDiscrete || len(got.ActionSpace.Actions) != 4 {
		t.Errorf("action space changed: %+v", got.ActionSpace)
	}
	if len(got.Rules.Rewards) != 1 || got.Rules.Rewards[0].Reward != 10 {
		t.Fatalf("rewards changed: %+v", got.Rules.Rewards)
	}
	if got.Rules.Rewards[0].Condition.Type != envspec.CondObjectReached {
		t.Errorf("reward condition type = %q", got.Rules.Rewards[0].Condition.Type)
	}
	if got.Rules.Rewards[0].Condition.ObjectID != "goal-1" {
		t.Errorf("reward condition target = %q", got.Rules.Rewards[0].Condition.ObjectID)
	}
	if len(got.Rules.Terminations) != 1 {
		t.Errorf("terminations changed: %+v", got.Rules.Terminations)
	}
}

func TestCustomConditionPassthrough(t *testing.T) {
	s := gridSpec()
	s.Rules.Rewards = append(s.Rules.Rewards, envspec.RewardRule{
		Condition: envspec.ConditionSpec{Type: envspec.CondCustom, Script: "return agent.x > 5"},
		Reward:    1,
	})

	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if cfg.Rewards[1].Trigger.Type != rlconfig.TriggerCustom {
		t.Fatalf("custom condition should map to a custom trigger, got %q", cfg.Rewards[1].Trigger.Type)
	}

	got, err := ToEnvSpec(g, cfg)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	cond := got.Rules.Rewards[1].Condition
	if cond.Type != envspec.CondCustom || cond.Script != "return agent.x > 5" {
		t.Errorf("custom condition not recovered verbatim: %+v", cond)
	}
}

func TestAgentTypedObjectRoundTrip(t *testing.T) {
	s := gridSpec()
	s.Objects = append(s.Objects, envspec.ObjectSpec{
		ID:       "npc-1",
		Type:     envspec.ObjectAgent,
		Position: mgl64.Vec2{5.5, 5.5},
	})

	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	got, err := ToEnvSpec(g, cfg)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}

	npc := got.ObjectByID("npc-1")
	if npc == nil {
		t.Fatal("agent-typed object lost in round trip")
	}
	if npc.Type != envspec.ObjectAgent {
		t.Errorf("object type round-tripped to %q, want agent", npc.Type)
	}
	if len(got.Agents) != len(s.Agents) {
		t.Errorf("agent-typed object must stay an object, got %d agents", len(got.Agents))
	}
}

func TestCellFallbackAtOrigin(t *testing.T) {
	s := gridSpec()
	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	// Hand-authored grid entities may carry only a grid_transform. The
	// origin cell must fall back like any other.
	agent := g.EntityByID(s.Agents[0].ID)
	agent.Transform.Position = mgl64.Vec2{}
	agent.Components[component.TypeGridTransform] = component.GridTransform{Row: 0, Col: 0, Layer: 1}

	got, err := ToEnvSpec(g, cfg)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if got.Agents[0].Position != (mgl64.Vec2{0.5, 0.5}) {
		t.Errorf("agent at cell (0,0) restored to %v, want the cell center", got.Agents[0].Position)
	}
}

func TestEventRulesRoundTrip(t *testing.T) {
	s := gridSpec()
	s.Rules.Events = []envspec.EventRule{
		{Condition: envspec.ConditionSpec{Type: envspec.CondObjectReached, ObjectID: "goal-1"}, Effect: "open"},
		{Condition: envspec.ConditionSpec{Type: envspec.CondStep}, Effect: "tick"},
	}

	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(cfg.Events) != 2 {
		t.Fatalf("expected 2 event signals, got %d", len(cfg.Events))
	}
	if cfg.Events[0].Trigger.Type != rlconfig.TriggerEnterRegion || cfg.Events[0].Effect != "open" {
		t.Errorf("first event signal = %+v", cfg.Events[0])
	}
	if cfg.Events[1].Trigger.Type != rlconfig.TriggerStep {
		t.Errorf("step event signal = %+v", cfg.Events[1])
	}

	got, err := ToEnvSpec(g, cfg)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if len(got.Rules.Events) != 2 {
		t.Fatalf("events changed: %+v", got.Rules.Events)
	}
	if got.Rules.Events[0].Condition.ObjectID != "goal-1" || got.Rules.Events[0].Effect != "open" {
		t.Errorf("first event not recovered: %+v", got.Rules.Events[0])
	}
	if got.Rules.Events[1].Condition.Type != envspec.CondStep || got.Rules.Events[1].Effect != "tick" {
		t.Errorf("step event not recovered: %+v", got.Rules.Events[1])
	}
}

func TestDanglingReferenceFails(t *testing.T) {
	s := gridSpec()
	s.Objects[0].Properties = map[string]any{"portal_target": "nowhere"}
	if _, _, err := ToSceneGraph(s); !errors.Is(err, ErrDanglingReference) {
		t.Errorf("dangling portal target should fail with ErrDanglingReference, got %v", err)
	}

	s = gridSpec()
	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	cfg.Rewards[0].Trigger.RegionID = "no-such-entity"
	if _, err := ToEnvSpec(g, cfg); !errors.Is(err, ErrDanglingReference) {
		t.Errorf("dangling trigger target should fail with ErrDanglingReference, got %v", err)
	}
}

func TestCyclicParentChainFails(t *testing.T) {
	s := gridSpec()
	g, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	g.EntityByID("wall-1").ParentID = "goal-1"
	g.EntityByID("goal-1").ParentID = "wall-1"

	if _, err := ToEnvSpec(g, cfg); !errors.Is(err, ErrCycle) {
		t.Errorf("cyclic parents should fail with ErrCycle, got %v", err)
	}
}

func TestMissingGoalForReachCondition(t *testing.T) {
	s := gridSpec()
	s.Rules.Rewards[0].Condition.ObjectID = ""
	// With an implicit target the first goal object is used.
	_, cfg, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("implicit goal target should resolve: %v", err)
	}
	if cfg.Rewards[0].Trigger.RegionID != "goal-1" {
		t.Errorf("implicit target = %q, want goal-1", cfg.Rewards[0].Trigger.RegionID)
	}
}

func TestRestoreWithoutConfig(t *testing.T) {
	s := gridSpec()
	g, _, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	got, err := ToEnvSpec(g, nil)
	if err != nil {
		t.Fatalf("inverse without config: %v", err)
	}
	if got.ActionSpace.Type != envspec.SpaceDiscrete {
		t.Errorf("grid fallback action space = %+v", got.ActionSpace)
	}
	if got.Rules.Episode.MaxSteps != DefaultMaxSteps {
		t.Errorf("fallback max steps = %d", got.Rules.Episode.MaxSteps)
	}
}

func TestScaleDefaultsToUnit(t *testing.T) {
	s := gridSpec()
	g, _, err := ToSceneGraph(s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, e := range g.Entities {
		if e.Transform.Scale != (mgl64.Vec2{1, 1}) {
			t.Errorf("entity %q scale = %v", e.ID, e.Transform.Scale)
		}
	}
}
