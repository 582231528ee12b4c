package scenegraph

import (
	"fmt"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

// ValidateStructure performs structural validation on a scene graph:
// entity id integrity, parent reference resolution, parent-chain cycle
// safety, and per-component shape validation through the registry.
func ValidateStructure(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelStructural,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateParents(g, r)
	validateComponents(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelStructural,
				Message:  fmt.Sprintf("entity at index %d has empty id", i),
				Path:     fmt.Sprintf("entities[%d].id", i),
				Expected: "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("duplicate entity id %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

// validateParents checks that every ParentID resolves and that each
// parent chain terminates within len(entities) hops. Exceeding the hop
// budget means the chain loops back on itself.
func validateParents(g *Graph, r *validation.Report) {
	parents := make(map[string]string, len(g.Entities))
	for _, e := range g.Entities {
		if e.ID != "" {
			parents[e.ID] = e.ParentID
		}
	}

	for i, e := range g.Entities {
		if e.ParentID == "" {
			continue
		}
		if _, ok := parents[e.ParentID]; !ok {
			r.AddError(validation.Result{
				Level:       validation.LevelReference,
				Message:     fmt.Sprintf("entity %q references missing parent %q", e.ID, e.ParentID),
				Path:        fmt.Sprintf("entities[%d].parent_id", i),
				ActualValue: e.ParentID,
				Expected:    "existing entity id",
			})
			continue
		}

		hops := 0
		cur := e.ParentID
		for cur != "" {
			hops++
			if hops > len(g.Entities) {
				r.AddError(validation.Result{
					Level:       validation.LevelStructural,
					Message:     fmt.Sprintf("entity %q has a cyclic parent chain", e.ID),
					Path:        fmt.Sprintf("entities[%d].parent_id", i),
					ActualValue: e.ParentID,
					Expected:    "chain terminating at a root entity",
				})
				break
			}
			cur = parents[cur]
		}
	}
}

func validateComponents(g *Graph, r *validation.Report) {
	for i, e := range g.Entities {
		for name, value := range e.Components {
			path := fmt.Sprintf("entities[%d].components.%s", i, name)
			r.Merge(component.Validate(name, value, path))
		}
	}
}
