// Package rlconfig defines the RL companion document persisted alongside
// a scene graph: per-agent space descriptors, reward triggers, and the
// episode block. It is produced and consumed by the converters; nothing
// here inspects scene structure.
package rlconfig

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

// SpaceKind identifies an RL space descriptor family.
type SpaceKind string

const (
	SpaceDiscrete SpaceKind = "discrete"
	SpaceBox      SpaceKind = "box"
)

// Space describes one action or observation space. For box spaces an
// absent Low/High pair means the dimension is unbounded.
type Space struct {
	Kind    SpaceKind `json:"kind"`
	Actions []string  `json:"actions,omitempty"`
	Shape   []int     `json:"shape,omitempty"`
	Low     []float64 `json:"low,omitempty"`
	High    []float64 `json:"high,omitempty"`
}

// AgentConfig pairs one agent entity with its spaces.
type AgentConfig struct {
	ID               string `json:"id"`
	ActionSpace      Space  `json:"action_space"`
	ObservationSpace Space  `json:"observation_space"`
}

// TriggerType identifies a reward/termination trigger variant. The set is
// closed and mirrored by the converter dispatch tables.
type TriggerType string

const (
	TriggerEnterRegion TriggerType = "enter_region"
	TriggerStep        TriggerType = "step"
	TriggerCustom      TriggerType = "custom"
)

// Trigger is the condition side of a reward or termination. Custom
// triggers carry the original spec condition verbatim so the inverse
// conversion can recover it.
type Trigger struct {
	Type      TriggerType            `json:"type"`
	EntityID  string                 `json:"entity_id,omitempty"`
	RegionID  string                 `json:"region_id,omitempty"`
	Condition *envspec.ConditionSpec `json:"condition,omitempty"`
}

// RewardSignal grants Amount when its trigger fires.
type RewardSignal struct {
	Trigger Trigger `json:"trigger"`
	Amount  float64 `json:"amount"`
	Shaping bool    `json:"shaping,omitempty"`
}

// Termination ends the episode when its trigger fires.
type Termination struct {
	Trigger Trigger `json:"trigger"`
}

// EventSignal fires a named effect when its trigger fires.
type EventSignal struct {
	Trigger Trigger `json:"trigger"`
	Effect  string  `json:"effect"`
}

// Pose is a spawn position and heading.
type Pose struct {
	Position mgl64.Vec2 `json:"position"`
	Rotation float64    `json:"rotation,omitempty"`
}

// Reset maps entity ids to the pose they respawn at on episode reset.
type Reset struct {
	Spawns map[string]Pose `json:"spawns"`
}

// Episode bounds one training episode.
type Episode struct {
	MaxSteps     int           `json:"max_steps"`
	Terminations []Termination `json:"terminations"`
	Reset        Reset         `json:"reset"`
}

// Config is the complete RL companion document.
type Config struct {
	Agents  []AgentConfig  `json:"agents"`
	Rewards []RewardSignal `json:"rewards"`
	Events  []EventSignal  `json:"events,omitempty"`
	Episode Episode        `json:"episode"`
}

// AgentByID returns the agent config with the given id, or nil.
func (c *Config) AgentByID(id string) *AgentConfig {
	for i := range c.Agents {
		if c.Agents[i].ID == id {
			return &c.Agents[i]
		}
	}
	return nil
}
