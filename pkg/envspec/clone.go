package envspec

import "github.com/go-gl/mathgl/mgl64"

// Clone returns a deep copy of the spec. History snapshots rely on this:
// mutating a clone must never reach the original.
func (s *EnvSpec) Clone() *EnvSpec {
	if s == nil {
		return nil
	}

	out := *s

	out.Objects = make([]ObjectSpec, len(s.Objects))
	for i, o := range s.Objects {
		out.Objects[i] = o
		out.Objects[i].Size.Polygon = cloneVecs(o.Size.Polygon)
		out.Objects[i].Properties = cloneAnyMap(o.Properties)
	}

	out.Agents = make([]AgentSpec, len(s.Agents))
	for i, a := range s.Agents {
		out.Agents[i] = a
		out.Agents[i].Sensors = make([]SensorSpec, len(a.Sensors))
		for j, sn := range a.Sensors {
			out.Agents[i].Sensors[j] = sn
			out.Agents[i].Sensors[j].Params = cloneAnyMap(sn.Params)
		}
	}

	out.ActionSpace.Actions = append([]string(nil), s.ActionSpace.Actions...)
	out.StateSpace.Shape = append([]int(nil), s.StateSpace.Shape...)
	out.Metadata.Tags = append([]string(nil), s.Metadata.Tags...)

	out.Rules.Rewards = make([]RewardRule, len(s.Rules.Rewards))
	for i, rr := range s.Rules.Rewards {
		out.Rules.Rewards[i] = rr
		out.Rules.Rewards[i].Condition = cloneCondition(rr.Condition)
	}
	out.Rules.Terminations = make([]TerminationRule, len(s.Rules.Terminations))
	for i, tr := range s.Rules.Terminations {
		out.Rules.Terminations[i] = tr
		out.Rules.Terminations[i].Condition = cloneCondition(tr.Condition)
	}
	out.Rules.Events = make([]EventRule, len(s.Rules.Events))
	for i, er := range s.Rules.Events {
		out.Rules.Events[i] = er
		out.Rules.Events[i].Condition = cloneCondition(er.Condition)
	}

	if s.World.Geometry != nil {
		g := &WorldGeometry{
			Walkable: cloneRegions(s.World.Geometry.Walkable),
			Blocked:  cloneRegions(s.World.Geometry.Blocked),
		}
		out.World.Geometry = g
	}

	return &out
}

func cloneCondition(c ConditionSpec) ConditionSpec {
	if c.Position != nil {
		p := *c.Position
		c.Position = &p
	}
	return c
}

func cloneRegions(rs []RegionDef) []RegionDef {
	if rs == nil {
		return nil
	}
	out := make([]RegionDef, len(rs))
	for i, r := range rs {
		out[i] = r
		out[i].Polygon = cloneVecs(r.Polygon)
	}
	return out
}

func cloneVecs(vs []mgl64.Vec2) []mgl64.Vec2 {
	if vs == nil {
		return nil
	}
	return append([]mgl64.Vec2(nil), vs...)
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneAny(e)
		}
		return out
	default:
		// Scalars (and anything else callers put here) are copied by value.
		return v
	}
}
