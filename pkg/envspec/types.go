package envspec

import "github.com/go-gl/mathgl/mgl64"

// EnvType identifies the topology family of an environment.
type EnvType string

const (
	EnvGrid         EnvType = "grid"
	EnvContinuous2D EnvType = "continuous2d"
	EnvCustom2D     EnvType = "custom2d"
)

// CoordinateSystem identifies how world positions are interpreted.
type CoordinateSystem string

const (
	CoordGrid      CoordinateSystem = "grid"
	CoordCartesian CoordinateSystem = "cartesian"
)

// ObjectType identifies the kind of a placed object.
type ObjectType string

const (
	ObjectWall       ObjectType = "wall"
	ObjectAgent      ObjectType = "agent"
	ObjectGoal       ObjectType = "goal"
	ObjectObstacle   ObjectType = "obstacle"
	ObjectRegion     ObjectType = "region"
	ObjectCheckpoint ObjectType = "checkpoint"
	ObjectTrap       ObjectType = "trap"
	ObjectKey        ObjectType = "key"
	ObjectDoor       ObjectType = "door"
	ObjectCustom     ObjectType = "custom"
)

// SpaceType identifies the action-space family.
type SpaceType string

const (
	SpaceDiscrete   SpaceType = "discrete"
	SpaceContinuous SpaceType = "continuous"
)

// DynamicsKind identifies an agent's motion model.
type DynamicsKind string

const (
	DynamicsGridStep           DynamicsKind = "grid-step"
	DynamicsContinuousVelocity DynamicsKind = "continuous-velocity"
	DynamicsCarLike            DynamicsKind = "car-like"
	DynamicsCustom             DynamicsKind = "custom"
)

// ConditionType identifies a rule condition variant. The set is closed;
// the converter dispatch tables and the schema validator must cover every
// member.
type ConditionType string

const (
	CondPositionReached  ConditionType = "position_reached"
	CondObjectReached    ConditionType = "reach_goal"
	CondCollision        ConditionType = "collision"
	CondTimeout          ConditionType = "timeout"
	CondRegionMembership ConditionType = "region_membership"
	CondStep             ConditionType = "step"
	CondCustom           ConditionType = "custom"
)

// SizeKind identifies an object footprint shape.
type SizeKind string

const (
	SizePoint   SizeKind = "point"
	SizeCircle  SizeKind = "circle"
	SizeRect    SizeKind = "rect"
	SizePolygon SizeKind = "polygon"
)

// EnvSpec is the canonical declarative description of one RL environment.
type EnvSpec struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	EnvType     EnvType         `yaml:"env_type" json:"env_type"`
	World       World           `yaml:"world" json:"world"`
	Objects     []ObjectSpec    `yaml:"objects" json:"objects"`
	Agents      []AgentSpec     `yaml:"agents" json:"agents"`
	ActionSpace ActionSpaceSpec `yaml:"action_space" json:"action_space"`
	StateSpace  StateSpaceSpec  `yaml:"state_space" json:"state_space"`
	Rules       RuleSet         `yaml:"rules" json:"rules"`
	Visuals     Visuals         `yaml:"visuals" json:"visuals"`
	Metadata    Metadata        `yaml:"metadata" json:"metadata"`
}

// World describes the arena the environment plays out in.
type World struct {
	CoordinateSystem CoordinateSystem `yaml:"coordinate_system" json:"coordinate_system"`
	Width            float64          `yaml:"width" json:"width"`
	Height           float64          `yaml:"height" json:"height"`
	CellSize         float64          `yaml:"cell_size,omitempty" json:"cell_size,omitempty"`
	Physics          PhysicsFlags     `yaml:"physics" json:"physics"`
	Geometry         *WorldGeometry   `yaml:"geometry,omitempty" json:"geometry,omitempty"`
}

// Rows returns the grid row count, or 0 for non-grid worlds.
func (w World) Rows() int {
	if w.CoordinateSystem != CoordGrid || w.CellSize <= 0 {
		return 0
	}
	return int(w.Height / w.CellSize)
}

// Cols returns the grid column count, or 0 for non-grid worlds.
func (w World) Cols() int {
	if w.CoordinateSystem != CoordGrid || w.CellSize <= 0 {
		return 0
	}
	return int(w.Width / w.CellSize)
}

// PhysicsFlags toggles the simple physics behaviors the runtime supports.
type PhysicsFlags struct {
	Gravity  bool `yaml:"gravity" json:"gravity"`
	Friction bool `yaml:"friction" json:"friction"`
}

// WorldGeometry carries optional walkable / blocked polygon regions for
// custom topologies.
type WorldGeometry struct {
	Walkable []RegionDef `yaml:"walkable,omitempty" json:"walkable,omitempty"`
	Blocked  []RegionDef `yaml:"blocked,omitempty" json:"blocked,omitempty"`
}

// RegionDef is a named polygonal region of the world.
type RegionDef struct {
	ID      string       `yaml:"id" json:"id"`
	Polygon []mgl64.Vec2 `yaml:"polygon" json:"polygon"`
}

// ObjectSpec is one placed, non-agent object.
type ObjectSpec struct {
	ID         string         `yaml:"id" json:"id"`
	Type       ObjectType     `yaml:"type" json:"type"`
	Position   mgl64.Vec2     `yaml:"position" json:"position"`
	Rotation   float64        `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Size       SizeSpec       `yaml:"size" json:"size"`
	Collision  CollisionSpec  `yaml:"collision" json:"collision"`
	Properties map[string]any `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// SizeSpec describes an object footprint.
type SizeSpec struct {
	Kind    SizeKind     `yaml:"kind" json:"kind"`
	Radius  float64      `yaml:"radius,omitempty" json:"radius,omitempty"`
	Width   float64      `yaml:"width,omitempty" json:"width,omitempty"`
	Height  float64      `yaml:"height,omitempty" json:"height,omitempty"`
	Polygon []mgl64.Vec2 `yaml:"polygon,omitempty" json:"polygon,omitempty"`
}

// CollisionSpec carries an object's collision flags.
type CollisionSpec struct {
	Enabled  bool `yaml:"enabled" json:"enabled"`
	IsStatic bool `yaml:"is_static" json:"is_static"`
}

// AgentSpec is one learning agent.
type AgentSpec struct {
	ID       string       `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Position mgl64.Vec2   `yaml:"position" json:"position"`
	Dynamics DynamicsSpec `yaml:"dynamics" json:"dynamics"`
	Sensors  []SensorSpec `yaml:"sensors,omitempty" json:"sensors,omitempty"`
}

// DynamicsSpec selects an agent motion model. Fields beyond Kind apply
// only to the variants that name them.
type DynamicsSpec struct {
	Kind     DynamicsKind `yaml:"kind" json:"kind"`
	MaxSpeed float64      `yaml:"max_speed,omitempty" json:"max_speed,omitempty"`
	TurnRate float64      `yaml:"turn_rate,omitempty" json:"turn_rate,omitempty"`
	Script   string       `yaml:"script,omitempty" json:"script,omitempty"`
}

// SensorSpec describes one sensor attached to an agent.
type SensorSpec struct {
	Type   string         `yaml:"type" json:"type"`
	Range  float64        `yaml:"range,omitempty" json:"range,omitempty"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// ActionSpaceSpec describes the environment's global action space.
type ActionSpaceSpec struct {
	Type       SpaceType  `yaml:"type" json:"type"`
	Actions    []string   `yaml:"actions,omitempty" json:"actions,omitempty"`
	Dimensions int        `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	Range      [2]float64 `yaml:"range,omitempty" json:"range,omitempty"`
}

// StateSpaceSpec describes the observation surface exposed to agents.
// An empty shape means "synthesize from world extents" at conversion time.
type StateSpaceSpec struct {
	Kind  string `yaml:"kind" json:"kind"`
	Shape []int  `yaml:"shape,omitempty" json:"shape,omitempty"`
}

// RuleSet groups the reward, termination and event rules together with
// the episode bounds they apply within.
type RuleSet struct {
	Rewards      []RewardRule      `yaml:"rewards" json:"rewards"`
	Terminations []TerminationRule `yaml:"terminations" json:"terminations"`
	Events       []EventRule       `yaml:"events,omitempty" json:"events,omitempty"`
	Episode      EpisodeSpec       `yaml:"episode" json:"episode"`
}

// ConditionSpec is one rule condition. Which fields are meaningful
// depends on Type; the schema validator enforces the pairing.
type ConditionSpec struct {
	Type      ConditionType `yaml:"type" json:"type"`
	Position  *mgl64.Vec2   `yaml:"position,omitempty" json:"position,omitempty"`
	Tolerance float64       `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	ObjectID  string        `yaml:"object_id,omitempty" json:"object_id,omitempty"`
	Steps     int           `yaml:"steps,omitempty" json:"steps,omitempty"`
	RegionID  string        `yaml:"region_id,omitempty" json:"region_id,omitempty"`
	Inside    bool          `yaml:"inside,omitempty" json:"inside,omitempty"`
	Script    string        `yaml:"script,omitempty" json:"script,omitempty"`
}

// RewardRule pairs a condition with a scalar reward.
type RewardRule struct {
	Condition ConditionSpec `yaml:"condition" json:"condition"`
	Reward    float64       `yaml:"reward" json:"reward"`
	Shaping   bool          `yaml:"shaping,omitempty" json:"shaping,omitempty"`
}

// TerminationRule ends an episode when its condition fires.
type TerminationRule struct {
	Condition ConditionSpec `yaml:"condition" json:"condition"`
}

// EventRule triggers a named effect when its condition fires.
type EventRule struct {
	Condition ConditionSpec `yaml:"condition" json:"condition"`
	Effect    string        `yaml:"effect" json:"effect"`
}

// EpisodeSpec configures episode bounds. Zero MaxSteps means
// "use the converter default".
type EpisodeSpec struct {
	MaxSteps int `yaml:"max_steps,omitempty" json:"max_steps,omitempty"`
}

// Visuals carries editor-facing presentation settings.
type Visuals struct {
	Theme           string `yaml:"theme,omitempty" json:"theme,omitempty"`
	BackgroundColor string `yaml:"background_color,omitempty" json:"background_color,omitempty"`
	ShowGrid        bool   `yaml:"show_grid" json:"show_grid"`
}

// Metadata carries document bookkeeping.
type Metadata struct {
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   string   `yaml:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   string   `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ObjectByID returns the object with the given id, or nil.
func (s *EnvSpec) ObjectByID(id string) *ObjectSpec {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// AgentByID returns the agent with the given id, or nil.
func (s *EnvSpec) AgentByID(id string) *AgentSpec {
	for i := range s.Agents {
		if s.Agents[i].ID == id {
			return &s.Agents[i]
		}
	}
	return nil
}

// RegionByID returns the named geometry region, or nil.
func (s *EnvSpec) RegionByID(id string) *RegionDef {
	if s.World.Geometry == nil {
		return nil
	}
	for i := range s.World.Geometry.Walkable {
		if s.World.Geometry.Walkable[i].ID == id {
			return &s.World.Geometry.Walkable[i]
		}
	}
	for i := range s.World.Geometry.Blocked {
		if s.World.Geometry.Blocked[i].ID == id {
			return &s.World.Geometry.Blocked[i]
		}
	}
	return nil
}
