// Package legacy migrates the older ad-hoc environment format (a grid of
// single-character cell markers plus loosely typed reward and episode
// blocks) into the canonical spec. Migration is best effort and one way:
// it never fails on content, it degrades. Every degradation is recorded
// as a migration-level warning in the returned report.
package legacy

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/geo"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// Document is the legacy environment shape. Rewards and Episode are kept
// loosely typed on purpose; old documents disagree about key names and
// value types, and migration extracts what it recognizes.
type Document struct {
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Grid     []string         `json:"grid,omitempty" yaml:"grid,omitempty"`
	CellSize float64          `json:"cell_size,omitempty" yaml:"cell_size,omitempty"`
	Rewards  []map[string]any `json:"rewards,omitempty" yaml:"rewards,omitempty"`
	Episode  map[string]any   `json:"episode,omitempty" yaml:"episode,omitempty"`
}

// Cell markers the old grid format used.
const (
	markerWall       = '#'
	markerAgent      = 'A'
	markerGoal       = 'G'
	markerObstacle   = 'O'
	markerTrap       = 'T'
	markerKey        = 'K'
	markerDoor       = 'D'
	markerCheckpoint = 'C'
	markerEmpty      = '.'
)

var markerTypes = map[rune]envspec.ObjectType{
	markerWall:       envspec.ObjectWall,
	markerGoal:       envspec.ObjectGoal,
	markerObstacle:   envspec.ObjectObstacle,
	markerTrap:       envspec.ObjectTrap,
	markerKey:        envspec.ObjectKey,
	markerDoor:       envspec.ObjectDoor,
	markerCheckpoint: envspec.ObjectCheckpoint,
}

// ParseJSON decodes a legacy document from JSON.
func ParseJSON(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parsing legacy document: %w", err)
	}
	return d, nil
}

// ParseYAML decodes a legacy document from YAML.
func ParseYAML(data []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parsing legacy document: %w", err)
	}
	return d, nil
}

// Migrate converts a legacy document into a canonical spec. It always
// returns a usable spec; the report carries migration warnings for every
// default applied and every marker that was not recognized.
func Migrate(doc Document) (*envspec.EnvSpec, *validation.Report) {
	r := validation.NewReport()

	name := doc.Name
	if name == "" {
		name = "migrated-environment"
		migrationNote(r, "document has no name, using %q", name)
	}

	s := envspec.CreateDefault(envspec.EnvGrid, name)
	s.ID = uuid.NewString()
	s.Metadata.Description = "migrated from legacy grid format"

	cellSize := doc.CellSize
	if cellSize <= 0 {
		cellSize = 1
		if doc.CellSize != 0 {
			migrationNote(r, "cell_size %g is not positive, using 1", doc.CellSize)
		}
	}

	rows, cols := gridExtent(doc.Grid)
	if rows == 0 || cols == 0 {
		migrationNote(r, "document has no grid, keeping the default %gx%g world", s.World.Width, s.World.Height)
	} else {
		s.World.CellSize = cellSize
		s.World.Width = float64(cols) * cellSize
		s.World.Height = float64(rows) * cellSize
		migrateGrid(doc.Grid, cellSize, s, r)
	}

	if len(doc.Rewards) == 0 {
		migrationNote(r, "document has no reward blocks, rule list is empty")
		s.Rules.Rewards = []envspec.RewardRule{}
	} else {
		s.Rules.Rewards = migrateRewards(doc.Rewards, s, r)
	}

	s.Rules.Episode.MaxSteps = episodeMaxSteps(doc.Episode, r)

	return s, r
}

func gridExtent(grid []string) (rows, cols int) {
	rows = len(grid)
	for _, row := range grid {
		if n := len([]rune(row)); n > cols {
			cols = n
		}
	}
	return rows, cols
}

// migrateGrid walks the marker grid and re-derives objects and agents.
// Grid row 0 is the top row of the old format, which matches the +Y-down
// cell convention directly.
func migrateGrid(grid []string, cellSize float64, s *envspec.EnvSpec, r *validation.Report) {
	s.Objects = s.Objects[:0]
	var agents []envspec.AgentSpec

	for row, line := range grid {
		for col, marker := range []rune(line) {
			pos := geo.CellCenter(geo.Cell{Row: row, Col: col}, cellSize)

			switch {
			case marker == markerEmpty || marker == ' ':
				continue

			case marker == markerAgent:
				agents = append(agents, envspec.AgentSpec{
					ID:       fmt.Sprintf("agent-%d", len(agents)+1),
					Name:     fmt.Sprintf("agent-%d", len(agents)+1),
					Position: pos,
					Dynamics: envspec.DynamicsSpec{Kind: envspec.DynamicsGridStep},
				})

			default:
				s.Objects = append(s.Objects, markerObject(marker, row, col, pos, r))
			}
		}
	}

	if len(agents) > 0 {
		s.Agents = agents
	} else {
		migrationNote(r, "grid has no agent marker, keeping the default agent")
	}
}

func markerObject(marker rune, row, col int, pos mgl64.Vec2, r *validation.Report) envspec.ObjectSpec {
	t, known := markerTypes[marker]
	if !known {
		t = envspec.ObjectCustom
		migrationNote(r, "unknown cell marker %q at (%d,%d), migrated as custom object", string(marker), row, col)
	}

	o := envspec.ObjectSpec{
		ID:       fmt.Sprintf("%s-%d-%d", t, row, col),
		Type:     t,
		Position: pos,
	}
	switch t {
	case envspec.ObjectWall, envspec.ObjectObstacle, envspec.ObjectDoor:
		o.Collision = envspec.CollisionSpec{Enabled: true, IsStatic: true}
	case envspec.ObjectCustom:
		o.Properties = map[string]any{"marker": string(marker)}
	default:
		o.Collision = envspec.CollisionSpec{Enabled: true}
	}
	return o
}

// migrateRewards extracts what it recognizes from the loosely typed
// reward blocks. A block with no usable condition is dropped with a note
// rather than aborting the migration.
func migrateRewards(blocks []map[string]any, s *envspec.EnvSpec, r *validation.Report) []envspec.RewardRule {
	rules := make([]envspec.RewardRule, 0, len(blocks))

	for i, block := range blocks {
		amount, ok := numberKey(block, "reward", "amount", "value")
		if !ok {
			migrationNote(r, "reward block %d has no amount, using 0", i)
		}

		condType, _ := stringKey(block, "type", "condition", "when")
		switch condType {
		case "reach_goal", "goal", "":
			if condType == "" {
				migrationNote(r, "reward block %d has no condition type, assuming reach_goal", i)
			}
			cond := envspec.ConditionSpec{Type: envspec.CondObjectReached}
			if target, ok := stringKey(block, "object_id", "target"); ok && s.ObjectByID(target) != nil {
				cond.ObjectID = target
			}
			rules = append(rules, envspec.RewardRule{Condition: cond, Reward: amount})

		case "step":
			rules = append(rules, envspec.RewardRule{
				Condition: envspec.ConditionSpec{Type: envspec.CondStep},
				Reward:    amount,
			})

		default:
			migrationNote(r, "reward block %d has unrecognized condition %q, dropped", i, condType)
		}
	}
	return rules
}

func episodeMaxSteps(episode map[string]any, r *validation.Report) int {
	if episode == nil {
		migrationNote(r, "document has no episode block, max_steps defaults at conversion")
		return 0
	}
	steps, ok := numberKey(episode, "max_steps", "maxSteps", "steps")
	if !ok || steps <= 0 {
		migrationNote(r, "episode block has no usable max_steps, defaults at conversion")
		return 0
	}
	return int(steps)
}

func migrationNote(r *validation.Report, format string, args ...any) {
	r.AddWarning(validation.Result{
		Level:   validation.LevelMigration,
		Message: fmt.Sprintf(format, args...),
	})
}

func stringKey(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// numberKey reads the first numeric value under any of the keys. JSON
// decodes numbers as float64; YAML may produce int.
func numberKey(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}
