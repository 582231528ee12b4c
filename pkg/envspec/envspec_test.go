package envspec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"

	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

func gridSpec() *EnvSpec {
	s := CreateDefault(EnvGrid, "test-grid")
	s.Objects = append(s.Objects,
		ObjectSpec{
			ID:       "wall-1",
			Type:     ObjectWall,
			Position: mgl64.Vec2{3.5, 3.5},
			Size:     SizeSpec{Kind: SizeRect, Width: 1, Height: 1},
			Collision: CollisionSpec{
				Enabled:  true,
				IsStatic: true,
			},
		},
		ObjectSpec{
			ID:       "goal-1",
			Type:     ObjectGoal,
			Position: mgl64.Vec2{9.5, 9.5},
			Size:     SizeSpec{Kind: SizeRect, Width: 1, Height: 1},
			Collision: CollisionSpec{
				Enabled: true,
			},
		},
	)
	s.Rules.Rewards = []RewardRule{
		{Condition: ConditionSpec{Type: CondObjectReached, ObjectID: "goal-1"}, Reward: 10},
	}
	s.Rules.Terminations = []TerminationRule{
		{Condition: ConditionSpec{Type: CondObjectReached, ObjectID: "goal-1"}},
	}
	return s
}

func TestCreateDefaultGrid(t *testing.T) {
	s := CreateDefault(EnvGrid, "my-env")

	if s.ID == "" {
		t.Error("default spec should have an id")
	}
	if s.Name != "my-env" {
		t.Errorf("unexpected name %q", s.Name)
	}
	if s.World.Width <= 0 || s.World.Height <= 0 {
		t.Errorf("default world must be non-empty, got %gx%g", s.World.Width, s.World.Height)
	}
	if s.World.CellSize != 1 {
		t.Errorf("expected cell size 1, got %g", s.World.CellSize)
	}
	if s.ActionSpace.Type != SpaceDiscrete {
		t.Errorf("grid default should be discrete, got %s", s.ActionSpace.Type)
	}
	if len(s.ActionSpace.Actions) != 4 {
		t.Errorf("expected 4-way action set, got %v", s.ActionSpace.Actions)
	}
	if len(s.Agents) != 1 {
		t.Fatalf("expected one default agent, got %d", len(s.Agents))
	}
	if s.Agents[0].Dynamics.Kind != DynamicsGridStep {
		t.Errorf("grid agent should use grid-step dynamics, got %s", s.Agents[0].Dynamics.Kind)
	}

	if r := Validate(s); !r.Valid {
		t.Errorf("default grid spec should validate, got: %v", r.Errors)
	}
}

func TestCreateDefaultContinuous(t *testing.T) {
	for _, et := range []EnvType{EnvContinuous2D, EnvCustom2D} {
		s := CreateDefault(et, "cont")
		if s.ActionSpace.Type != SpaceContinuous {
			t.Errorf("%s default should be continuous, got %s", et, s.ActionSpace.Type)
		}
		if s.ActionSpace.Dimensions != 2 {
			t.Errorf("%s: expected 2 dimensions, got %d", et, s.ActionSpace.Dimensions)
		}
		if s.ActionSpace.Range != [2]float64{-1, 1} {
			t.Errorf("%s: expected range [-1,1], got %v", et, s.ActionSpace.Range)
		}
		if r := Validate(s); !r.Valid {
			t.Errorf("%s default should validate, got: %v", et, r.Errors)
		}
	}
}

func TestValidateWorldDimensions(t *testing.T) {
	s := gridSpec()
	s.World.Width = 0
	r := Validate(s)
	if r.Valid {
		t.Error("expected invalid report for width=0")
	}
	assertHasError(t, r.Errors, "world.width")
}

func TestValidateActionSpaceTopologyMismatch(t *testing.T) {
	s := gridSpec()
	s.ActionSpace = ActionSpaceSpec{Type: SpaceContinuous, Dimensions: 2, Range: [2]float64{-1, 1}}
	r := Validate(s)
	if r.Valid {
		t.Error("continuous actions on a grid topology must be rejected, not coerced")
	}
	assertHasError(t, r.Errors, "action_space.type")

	s2 := CreateDefault(EnvContinuous2D, "c")
	s2.ActionSpace = ActionSpaceSpec{Type: SpaceDiscrete, Actions: []string{"a"}}
	r2 := Validate(s2)
	if r2.Valid {
		t.Error("discrete actions on a continuous topology must be rejected")
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	s := gridSpec()
	s.Objects[1].ID = s.Objects[0].ID
	r := Validate(s)
	if r.Valid {
		t.Error("expected invalid report for duplicate ids")
	}
}

func TestValidateDanglingReference(t *testing.T) {
	s := gridSpec()
	s.Rules.Rewards[0].Condition.ObjectID = "no-such-object"
	r := Validate(s)
	if r.Valid {
		t.Error("expected invalid report for dangling condition reference")
	}
	found := false
	for _, e := range r.Errors {
		if e.Level == "reference" {
			found = true
		}
	}
	if !found {
		t.Error("dangling reference should be reported at reference level")
	}
}

func TestValidateConditionShapes(t *testing.T) {
	s := gridSpec()
	s.Rules.Terminations = append(s.Rules.Terminations, TerminationRule{
		Condition: ConditionSpec{Type: CondTimeout, Steps: 0},
	})
	r := Validate(s)
	if r.Valid {
		t.Error("timeout with steps=0 should be invalid")
	}

	s = gridSpec()
	s.Rules.Rewards = append(s.Rules.Rewards, RewardRule{
		Condition: ConditionSpec{Type: CondCustom},
		Reward:    1,
	})
	if Validate(s).Valid {
		t.Error("custom condition without script should be invalid")
	}

	s = gridSpec()
	s.Rules.Rewards = append(s.Rules.Rewards, RewardRule{
		Condition: ConditionSpec{Type: CondCustom, Script: "if agent.x then"},
		Reward:    1,
	})
	if Validate(s).Valid {
		t.Error("custom condition with broken script should be invalid")
	}

	s = gridSpec()
	s.Rules.Rewards = append(s.Rules.Rewards, RewardRule{
		Condition: ConditionSpec{Type: CondCustom, Script: "return agent.x > 5"},
		Reward:    1,
	})
	if r := Validate(s); !r.Valid {
		t.Errorf("well-formed custom condition should validate, got: %v", r.Errors)
	}
}

func TestValidatePositionBounds(t *testing.T) {
	s := gridSpec()
	s.Objects[0].Position = mgl64.Vec2{42, 3}
	r := Validate(s)
	if r.Valid {
		t.Error("position outside world bounds should be invalid")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := gridSpec()
	s.Objects[0].Properties = map[string]any{"color": "#ff0000", "nested": map[string]any{"k": "v"}}
	s.World.Geometry = &WorldGeometry{
		Walkable: []RegionDef{{ID: "r1", Polygon: []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}}}},
	}

	c := s.Clone()
	if diff := cmp.Diff(s, c); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	c.Objects[0].Properties["color"] = "#00ff00"
	c.Objects[0].Properties["nested"].(map[string]any)["k"] = "changed"
	c.Agents[0].Position = mgl64.Vec2{5, 5}
	c.Rules.Rewards[0].Reward = -1
	c.World.Geometry.Walkable[0].Polygon[0] = mgl64.Vec2{9, 9}
	c.ActionSpace.Actions[0] = "noop"

	if s.Objects[0].Properties["color"] != "#ff0000" {
		t.Error("mutating clone properties reached the original")
	}
	if s.Objects[0].Properties["nested"].(map[string]any)["k"] != "v" {
		t.Error("mutating nested clone map reached the original")
	}
	if s.Agents[0].Position != (mgl64.Vec2{0.5, 0.5}) {
		t.Error("mutating clone agent reached the original")
	}
	if s.Rules.Rewards[0].Reward != 10 {
		t.Error("mutating clone rules reached the original")
	}
	if s.World.Geometry.Walkable[0].Polygon[0] != (mgl64.Vec2{0, 0}) {
		t.Error("mutating clone geometry reached the original")
	}
	if s.ActionSpace.Actions[0] != "up" {
		t.Error("mutating clone actions reached the original")
	}
}

func TestParseJSONRoundTrip(t *testing.T) {
	s := gridSpec()
	data, err := MarshalDocument(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip changed the spec (-want +got):\n%s", diff)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"id": `)); err == nil {
		t.Error("malformed JSON should be rejected")
	}
	// Well-formed JSON that fails schema validation is also rejected.
	if _, err := ParseJSON([]byte(`{"id":"x","name":"x","env_type":"grid"}`)); err == nil {
		t.Error("schema-invalid spec should be rejected")
	}
}

func assertHasError(t *testing.T, errs []validation.Result, path string) {
	t.Helper()
	for _, e := range errs {
		if e.Path == path {
			return
		}
	}
	t.Errorf("expected an error at path %q, got %v", path, errs)
}
