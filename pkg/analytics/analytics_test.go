package analytics

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/legacy"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

func mazeSpec(t *testing.T, grid []string) *envspec.EnvSpec {
	t.Helper()
	s, _ := legacy.Migrate(legacy.Document{
		Name: "maze",
		Grid: grid,
		Rewards: []map[string]any{
			{"type": "reach_goal", "reward": float64(10)},
		},
	})
	return s
}

func TestResolveStats(t *testing.T) {
	s := mazeSpec(t, []string{
		"####",
		"#A.#",
		"#.G#",
		"####",
	})
	stats, report := Resolve(s)

	if stats.AgentCount != 1 {
		t.Errorf("agent count = %d", stats.AgentCount)
	}
	if stats.ObjectsByType["wall"] != 12 || stats.ObjectsByType["goal"] != 1 {
		t.Errorf("objects by type = %v", stats.ObjectsByType)
	}
	if stats.GridRows != 4 || stats.GridCols != 4 {
		t.Errorf("grid = %dx%d", stats.GridRows, stats.GridCols)
	}
	if stats.OccupiedCells != 13 {
		t.Errorf("occupied cells = %d, want 13", stats.OccupiedCells)
	}

	for _, w := range report.Warnings {
		if strings.Contains(w.Message, "not reachable") {
			t.Errorf("open maze reported unreachable goal: %s", w.Message)
		}
	}
}

func TestResolveUnreachableGoal(t *testing.T) {
	s := mazeSpec(t, []string{
		"#####",
		"#A#G#",
		"#####",
	})
	_, report := Resolve(s)

	found := false
	for _, w := range report.Warnings {
		if w.Level == validation.LevelAnalytical && strings.Contains(w.Message, "not reachable") {
			found = true
		}
	}
	if !found {
		t.Error("walled-off goal should produce a reachability warning")
	}
}

func TestResolveNoRewards(t *testing.T) {
	s := envspec.CreateDefault(envspec.EnvGrid, "empty")
	_, report := Resolve(s)

	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w.Message, "no reward rules") {
			found = true
		}
	}
	if !found {
		t.Error("spec without rewards should get an advisory warning")
	}
	if !report.Valid {
		t.Error("analytical findings must stay advisory")
	}
}

func TestResolveBlockedRegionSpawn(t *testing.T) {
	s := envspec.CreateDefault(envspec.EnvGrid, "blocked")
	s.World.Geometry = &envspec.WorldGeometry{
		Blocked: []envspec.RegionDef{{
			ID:      "pit",
			Polygon: []mgl64.Vec2{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		}},
	}

	_, report := Resolve(s)

	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w.Message, "blocked region") {
			found = true
		}
	}
	if !found {
		t.Error("agent spawning inside a blocked region should produce a warning")
	}
	if !report.Valid {
		t.Error("blocked-region findings must stay advisory")
	}
}

func TestResolveScriptDryRun(t *testing.T) {
	s := envspec.CreateDefault(envspec.EnvGrid, "scripted")
	s.Rules.Rewards = []envspec.RewardRule{
		{Condition: envspec.ConditionSpec{Type: envspec.CondCustom, Script: "return 1"}, Reward: 1},
	}

	_, report := Resolve(s)
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w.Message, "dry run") {
			found = true
		}
	}
	if !found {
		t.Error("script returning a number should fail the dry run")
	}

	s.Rules.Rewards[0].Condition.Script = "return agent.x > 5"
	_, report = Resolve(s)
	for _, w := range report.Warnings {
		if strings.Contains(w.Message, "dry run") {
			t.Errorf("boolean script should pass the dry run: %s", w.Message)
		}
	}
}

func TestResolveContinuousSkipsGrid(t *testing.T) {
	s := envspec.CreateDefault(envspec.EnvContinuous2D, "cont")
	s.Objects = append(s.Objects, envspec.ObjectSpec{
		ID:       "goal-1",
		Type:     envspec.ObjectGoal,
		Position: mgl64.Vec2{10, 10},
	})
	stats, _ := Resolve(s)

	if stats.GridRows != 0 || stats.OccupiedCells != 0 {
		t.Errorf("continuous world should have no grid figures, got %+v", stats)
	}
	if stats.ObjectCount != 1 {
		t.Errorf("object count = %d", stats.ObjectCount)
	}
}
