// Package analytics derives summary statistics and solvability warnings
// from a spec. Findings here are advisory: an unreachable goal is a
// design smell worth flagging, not a conversion error.
package analytics

import (
	"fmt"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/script"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// Stats is the computed summary for one environment.
type Stats struct {
	ObjectCount   int            `json:"object_count"`
	AgentCount    int            `json:"agent_count"`
	ObjectsByType map[string]int `json:"objects_by_type"`
	RewardRules   int            `json:"reward_rules"`
	Terminations  int            `json:"terminations"`

	// Grid-only figures; zero for continuous worlds.
	GridRows      int     `json:"grid_rows,omitempty"`
	GridCols      int     `json:"grid_cols,omitempty"`
	OccupiedCells int     `json:"occupied_cells,omitempty"`
	FillRatio     float64 `json:"fill_ratio,omitempty"`
}

// Resolve computes the stats for a spec and runs the advisory checks.
// The report carries analytical-level warnings only; it never marks the
// spec invalid.
func Resolve(s *envspec.EnvSpec) (*Stats, *validation.Report) {
	report := validation.NewReport()

	stats := &Stats{
		ObjectCount:   len(s.Objects),
		AgentCount:    len(s.Agents),
		ObjectsByType: map[string]int{},
		RewardRules:   len(s.Rules.Rewards),
		Terminations:  len(s.Rules.Terminations),
	}
	for _, o := range s.Objects {
		stats.ObjectsByType[string(o.Type)]++
	}

	if s.World.CoordinateSystem == envspec.CoordGrid && s.World.CellSize > 0 {
		resolveGrid(s, stats, report)
	}

	checkRuleCoverage(s, report)
	checkBlockedRegions(s, report)
	checkScripts(s, report)

	return stats, report
}

func checkRuleCoverage(s *envspec.EnvSpec, report *validation.Report) {
	if len(s.Rules.Rewards) == 0 {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     "environment defines no reward rules; agents have nothing to learn from",
			Path:        "rules.rewards",
			Suggestions: []string{"add a reach_goal or step reward"},
		})
	}
	if len(s.Rules.Terminations) == 0 && s.Rules.Episode.MaxSteps <= 0 {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     "no termination rule and no explicit max_steps; episodes end only at the converter default",
			Path:        "rules.terminations",
			Suggestions: []string{"add a termination condition", "set rules.episode.max_steps"},
		})
	}

	hasGoal := false
	for _, o := range s.Objects {
		if o.Type == envspec.ObjectGoal {
			hasGoal = true
			break
		}
	}
	if !hasGoal {
		for _, rr := range s.Rules.Rewards {
			if rr.Condition.Type == envspec.CondObjectReached && rr.Condition.ObjectID == "" {
				report.AddWarning(validation.Result{
					Level:   validation.LevelAnalytical,
					Message: "a reach_goal rule targets the first goal object, but the environment has none",
					Path:    "rules.rewards",
				})
				break
			}
		}
	}
}

// checkScripts dry-runs custom condition scripts against a sample scope.
// The schema validator already compiles them; running one catches the
// mistakes compilation cannot, like a missing return or a non-boolean
// result.
func checkScripts(s *envspec.EnvSpec, report *validation.Report) {
	scope := sampleScope(s)

	check := func(c envspec.ConditionSpec, path string) {
		if c.Type != envspec.CondCustom || c.Script == "" {
			return
		}
		if _, err := script.Eval(c.Script, scope); err != nil {
			report.AddWarning(validation.Result{
				Level:       validation.LevelAnalytical,
				Message:     fmt.Sprintf("custom condition script fails a dry run: %v", err),
				Path:        path,
				Suggestions: []string{"return a boolean from the script"},
			})
		}
	}

	for i, rr := range s.Rules.Rewards {
		check(rr.Condition, fmt.Sprintf("rules.rewards[%d].condition.script", i))
	}
	for i, tr := range s.Rules.Terminations {
		check(tr.Condition, fmt.Sprintf("rules.terminations[%d].condition.script", i))
	}
	for i, er := range s.Rules.Events {
		check(er.Condition, fmt.Sprintf("rules.events[%d].condition.script", i))
	}
}

// sampleScope mirrors the globals a condition script sees at runtime,
// seeded from the first agent's spawn.
func sampleScope(s *envspec.EnvSpec) map[string]any {
	agent := map[string]any{"x": 0.0, "y": 0.0}
	if len(s.Agents) > 0 {
		agent["x"] = s.Agents[0].Position.X()
		agent["y"] = s.Agents[0].Position.Y()
	}
	return map[string]any{"agent": agent, "step": 0}
}

func resolveGrid(s *envspec.EnvSpec, stats *Stats, report *validation.Report) {
	stats.GridRows = s.World.Rows()
	stats.GridCols = s.World.Cols()
	total := stats.GridRows * stats.GridCols
	if total == 0 {
		return
	}

	occ := newOccupancy(s)
	stats.OccupiedCells = occ.count()
	stats.FillRatio = float64(stats.OccupiedCells) / float64(total)

	if stats.FillRatio > 0.9 {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("%.0f%% of grid cells are occupied; agents have little room to move", stats.FillRatio*100),
			Path:        "objects",
			ActualValue: stats.FillRatio,
		})
	}

	checkReachability(s, occ, report)
}
