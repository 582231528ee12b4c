package analytics

import (
	"fmt"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/geo"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// occupancy is the solid-cell map of a grid world.
type occupancy struct {
	rows, cols int
	solid      map[geo.Cell]bool
	occupied   map[geo.Cell]bool
}

func newOccupancy(s *envspec.EnvSpec) *occupancy {
	occ := &occupancy{
		rows:     s.World.Rows(),
		cols:     s.World.Cols(),
		solid:    map[geo.Cell]bool{},
		occupied: map[geo.Cell]bool{},
	}
	for _, o := range s.Objects {
		cell := geo.CellOf(o.Position, s.World.CellSize)
		occ.occupied[cell] = true
		if o.Collision.Enabled && (o.Type == envspec.ObjectWall || o.Type == envspec.ObjectObstacle) {
			occ.solid[cell] = true
		}
	}
	return occ
}

func (o *occupancy) count() int {
	return len(o.occupied)
}

// walkable reports whether an agent can stand on the cell.
func (o *occupancy) walkable(c geo.Cell) bool {
	return c.InBounds(o.rows, o.cols) && !o.solid[c]
}

// checkReachability runs a flood fill from each agent and warns about
// goals no agent can reach through non-solid cells.
func checkReachability(s *envspec.EnvSpec, occ *occupancy, report *validation.Report) {
	var goals []envspec.ObjectSpec
	for _, o := range s.Objects {
		if o.Type == envspec.ObjectGoal {
			goals = append(goals, o)
		}
	}
	if len(goals) == 0 || len(s.Agents) == 0 {
		return
	}

	reached := map[geo.Cell]bool{}
	for _, a := range s.Agents {
		floodFrom(geo.CellOf(a.Position, s.World.CellSize), occ, reached)
	}

	for _, g := range goals {
		cell := geo.CellOf(g.Position, s.World.CellSize)
		if !reached[cell] {
			report.AddWarning(validation.Result{
				Level:       validation.LevelAnalytical,
				Message:     fmt.Sprintf("goal %q at cell (%d,%d) is not reachable from any agent", g.ID, cell.Row, cell.Col),
				Path:        "objects",
				ActualValue: g.ID,
				Suggestions: []string{"open a path through the walls", "move the goal"},
			})
		}
	}
}

// checkBlockedRegions warns when an agent spawn or a goal lies inside a
// blocked world-geometry region.
func checkBlockedRegions(s *envspec.EnvSpec, report *validation.Report) {
	if s.World.Geometry == nil {
		return
	}
	for _, reg := range s.World.Geometry.Blocked {
		poly := geo.NewPolygon(reg.Polygon...)
		if poly.IsEmpty() {
			continue
		}
		for _, a := range s.Agents {
			if poly.Contains(a.Position) {
				report.AddWarning(validation.Result{
					Level:       validation.LevelAnalytical,
					Message:     fmt.Sprintf("agent %q spawns inside blocked region %q", a.ID, reg.ID),
					Path:        "agents",
					ActualValue: a.ID,
					Suggestions: []string{"move the spawn outside the region", "shrink the region"},
				})
			}
		}
		for _, o := range s.Objects {
			if o.Type == envspec.ObjectGoal && poly.Contains(o.Position) {
				report.AddWarning(validation.Result{
					Level:       validation.LevelAnalytical,
					Message:     fmt.Sprintf("goal %q lies inside blocked region %q", o.ID, reg.ID),
					Path:        "objects",
					ActualValue: o.ID,
				})
			}
		}
	}
}

// floodFrom is a breadth-first fill over walkable cells.
func floodFrom(start geo.Cell, occ *occupancy, reached map[geo.Cell]bool) {
	if !occ.walkable(start) || reached[start] {
		return
	}
	queue := []geo.Cell{start}
	reached[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range cur.Neighbors4() {
			if occ.walkable(next) && !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
}
