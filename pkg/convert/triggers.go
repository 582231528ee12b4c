package convert

import (
	"fmt"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
	"github.com/soovittt/RL-Studio-sub001/pkg/scenegraph"
)

// The condition<->trigger dispatch tables below are the two halves of one
// closed mapping. Adding a condition kind means extending conditionToTrigger,
// triggerToCondition, and the envspec validator together.

// conditionToTrigger maps one spec condition to an RL trigger. reach_goal
// becomes an enter_region pairing the first agent with the target goal
// entity; step maps to the per-step trigger; everything else rides along
// as a custom passthrough carrying the original condition.
func conditionToTrigger(s *envspec.EnvSpec, c envspec.ConditionSpec, path string) (rlconfig.Trigger, error) {
	switch c.Type {
	case envspec.CondObjectReached:
		if len(s.Agents) == 0 {
			return rlconfig.Trigger{}, fmt.Errorf("%s: reach_goal needs at least one agent: %w", path, ErrDanglingReference)
		}
		targetID := c.ObjectID
		if targetID == "" {
			targetID = firstObjectOfType(s, envspec.ObjectGoal)
		}
		if targetID == "" {
			return rlconfig.Trigger{}, fmt.Errorf("%s: reach_goal has no goal object to target: %w", path, ErrDanglingReference)
		}
		if s.ObjectByID(targetID) == nil {
			return rlconfig.Trigger{}, fmt.Errorf("%s: condition references unknown object %q: %w", path, targetID, ErrDanglingReference)
		}
		return rlconfig.Trigger{
			Type:     rlconfig.TriggerEnterRegion,
			EntityID: s.Agents[0].ID,
			RegionID: targetID,
		}, nil

	case envspec.CondStep:
		return rlconfig.Trigger{Type: rlconfig.TriggerStep}, nil

	case envspec.CondRegionMembership:
		if s.RegionByID(c.RegionID) == nil && s.ObjectByID(c.RegionID) == nil {
			return rlconfig.Trigger{}, fmt.Errorf("%s: condition references unknown region %q: %w", path, c.RegionID, ErrDanglingReference)
		}
		cc := c
		return rlconfig.Trigger{Type: rlconfig.TriggerCustom, Condition: &cc}, nil

	default:
		// position_reached, collision, timeout, custom: lossless passthrough.
		if c.ObjectID != "" && s.ObjectByID(c.ObjectID) == nil && s.AgentByID(c.ObjectID) == nil {
			return rlconfig.Trigger{}, fmt.Errorf("%s: condition references unknown object %q: %w", path, c.ObjectID, ErrDanglingReference)
		}
		cc := c
		return rlconfig.Trigger{Type: rlconfig.TriggerCustom, Condition: &cc}, nil
	}
}

// triggerToCondition reverses conditionToTrigger. Custom passthroughs are
// recovered verbatim; enter_region and step are re-synthesized from the
// ids they reference.
func triggerToCondition(g *scenegraph.Graph, t rlconfig.Trigger, path string) (envspec.ConditionSpec, error) {
	switch t.Type {
	case rlconfig.TriggerEnterRegion:
		if g.EntityByID(t.RegionID) == nil && g.Metadata.RegionByID(t.RegionID) == nil {
			return envspec.ConditionSpec{}, fmt.Errorf("%s: trigger references unknown entity %q: %w", path, t.RegionID, ErrDanglingReference)
		}
		return envspec.ConditionSpec{
			Type:     envspec.CondObjectReached,
			ObjectID: t.RegionID,
		}, nil

	case rlconfig.TriggerStep:
		return envspec.ConditionSpec{Type: envspec.CondStep}, nil

	case rlconfig.TriggerCustom:
		if t.Condition == nil {
			return envspec.ConditionSpec{}, fmt.Errorf("%s: custom trigger carries no condition", path)
		}
		return *t.Condition, nil

	default:
		return envspec.ConditionSpec{}, fmt.Errorf("%s: unknown trigger type %q", path, t.Type)
	}
}

func firstObjectOfType(s *envspec.EnvSpec, t envspec.ObjectType) string {
	for _, o := range s.Objects {
		if o.Type == t {
			return o.ID
		}
	}
	return ""
}
