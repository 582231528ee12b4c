package envspec

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// SpecVersion is the current document schema version.
const SpecVersion = "1.0.0"

// DefaultGridActions is the discrete 4-way action set for grid worlds.
var DefaultGridActions = []string{"up", "down", "left", "right"}

const (
	defaultGridCells      = 10
	defaultGridCellSize   = 1.0
	defaultCartesianWidth = 20.0
)

// CreateDefault returns an internally consistent spec for the chosen
// topology: a non-empty world, one agent, and an action space legal for
// the env type (discrete 4-way for grid, 2-dim velocity in [-1,1]
// otherwise).
func CreateDefault(envType EnvType, name string) *EnvSpec {
	now := time.Now().UTC().Format(time.RFC3339)

	s := &EnvSpec{
		ID:      uuid.NewString(),
		Name:    name,
		EnvType: envType,
		Objects: []ObjectSpec{},
		Agents:  []AgentSpec{defaultAgent(envType)},
		StateSpace: StateSpaceSpec{
			Kind: "position",
		},
		Rules: RuleSet{
			Rewards:      []RewardRule{},
			Terminations: []TerminationRule{},
		},
		Visuals: Visuals{
			Theme:    "default",
			ShowGrid: envType == EnvGrid,
		},
		Metadata: Metadata{
			Version:   SpecVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	switch envType {
	case EnvGrid:
		s.World = World{
			CoordinateSystem: CoordGrid,
			Width:            defaultGridCells * defaultGridCellSize,
			Height:           defaultGridCells * defaultGridCellSize,
			CellSize:         defaultGridCellSize,
		}
		s.ActionSpace = ActionSpaceSpec{
			Type:    SpaceDiscrete,
			Actions: append([]string(nil), DefaultGridActions...),
		}
	default:
		s.World = World{
			CoordinateSystem: CoordCartesian,
			Width:            defaultCartesianWidth,
			Height:           defaultCartesianWidth,
			Physics:          PhysicsFlags{Friction: true},
		}
		s.ActionSpace = ActionSpaceSpec{
			Type:       SpaceContinuous,
			Dimensions: 2,
			Range:      [2]float64{-1, 1},
		}
	}

	return s
}

func defaultAgent(envType EnvType) AgentSpec {
	a := AgentSpec{
		ID:   uuid.NewString(),
		Name: "agent-1",
	}
	switch envType {
	case EnvGrid:
		a.Position = mgl64.Vec2{0.5, 0.5} // center of cell (0,0)
		a.Dynamics = DynamicsSpec{Kind: DynamicsGridStep}
	default:
		a.Position = mgl64.Vec2{defaultCartesianWidth / 2, defaultCartesianWidth / 2}
		a.Dynamics = DynamicsSpec{Kind: DynamicsContinuousVelocity, MaxSpeed: 1}
	}
	return a
}
