// Package component catalogs the typed component variants an entity may
// carry and validates their shapes. Components are independent of each
// other; cross-component pairings (a Door next to a trigger-only
// Collision2D, say) are conventions the converters uphold, not rules the
// registry enforces.
package component

// Type names. These are the keys used in an entity's component map and in
// persisted scene documents.
const (
	TypeGridTransform = "grid_transform"
	TypeRender2D      = "render2d"
	TypeCollision2D   = "collision2d"
	TypeGridMovement  = "grid_movement"
	TypeAgent         = "agent"
	TypeInventory     = "inventory"
	TypeTriggerZone   = "trigger_zone"
	TypeStateMachine  = "state_machine"
	TypePickable      = "pickable"
	TypeDoor          = "door"
	TypePortal        = "portal"
)

// GridTransform places an entity on the discrete grid. Layer 0 is the
// tile layer; agents render on layer 1.
type GridTransform struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Layer int `json:"layer"`
}

// Render shape names for Render2D.
const (
	ShapeRect    = "rect"
	ShapeCircle  = "circle"
	ShapePolygon = "polygon"
)

// Render2D describes how an entity is drawn.
type Render2D struct {
	Shape  string  `json:"shape"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Color  string  `json:"color"`
}

// Collision2D carries an entity's collision flags. IsSolid blocks
// movement; IsTrigger fires zone events without blocking.
type Collision2D struct {
	IsSolid   bool `json:"is_solid"`
	IsTrigger bool `json:"is_trigger"`
}

// GridMovement enables discrete stepping for grid-world agents.
type GridMovement struct {
	StepSize int `json:"step_size"`
}

// Agent action-space descriptors.
const (
	ActionSpaceGridMoves4 = "grid_moves_4"
	ActionSpaceCustom     = "custom"
)

// Agent marks an entity as a learning agent and names its action surface.
// CustomActions is carried when the environment names its actions
// explicitly.
type Agent struct {
	ActionSpace   string   `json:"action_space"`
	CustomActions []string `json:"custom_actions,omitempty"`
}

// Inventory holds items an agent has picked up.
type Inventory struct {
	Items    []string `json:"items"`
	Capacity int      `json:"capacity,omitempty"`
}

// TriggerZone fires its actions when an agent enters or leaves the
// entity's footprint. Action strings use the "verb" or "verb:value" form:
// "reward:+10", "penalty:-1", "end_episode".
type TriggerZone struct {
	OnEnter []string `json:"on_enter,omitempty"`
	OnExit  []string `json:"on_exit,omitempty"`
	Once    bool     `json:"once"`
}

// StateMachine gives an entity named states with event-driven transitions.
type StateMachine struct {
	Initial     string       `json:"initial"`
	States      []string     `json:"states"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// Transition is one edge of a state machine.
type Transition struct {
	From  string `json:"from"`
	Event string `json:"event"`
	To    string `json:"to"`
}

// Pickable marks an entity as collectible into an inventory.
type Pickable struct {
	ItemType string `json:"item_type"`
}

// Door blocks passage until opened, optionally gated on a key item.
type Door struct {
	RequiresKey string `json:"requires_key,omitempty"`
	Open        bool   `json:"open"`
}

// Portal teleports an entering agent to the target entity's position.
type Portal struct {
	TargetID string `json:"target_id"`
}
