// Package scenegraph holds the generic entity/component representation
// scenes are persisted and edited in. It is a pure container: entity
// lookup, child lookup, and structural checks live here; topology and RL
// semantics belong to the converters.
package scenegraph

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
)

// Transform is an entity's pose in world units.
type Transform struct {
	Position mgl64.Vec2 `json:"position"`
	Rotation float64    `json:"rotation"`
	Scale    mgl64.Vec2 `json:"scale"`
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec2{1, 1}}
}

// Entity is a single element of the scene graph. Parent/child structure
// is expressed only through ParentID references so the graph stays
// acyclic by construction checks, never by pointer discipline.
type Entity struct {
	ID         string        `json:"id"`
	AssetID    string        `json:"asset_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	ParentID   string        `json:"parent_id,omitempty"`
	Transform  Transform     `json:"transform"`
	Components component.Map `json:"components"`
}

// Graph is a complete scene document.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
}

// Metadata holds scene-level information, including the world frame the
// entity transforms are expressed in. Converters need the cell size and
// extents to take grid coordinates back to world positions.
type Metadata struct {
	SpecVersion string `json:"spec_version"`
	GeneratedAt string `json:"generated_at"`
	World       World  `json:"world"`
}

// World captures the frame a scene was authored in.
type World struct {
	EnvID            string       `json:"env_id,omitempty"`
	Name             string       `json:"name,omitempty"`
	EnvType          string       `json:"env_type"`
	CoordinateSystem string       `json:"coordinate_system"`
	Width            float64      `json:"width"`
	Height           float64      `json:"height"`
	CellSize         float64      `json:"cell_size,omitempty"`
	Regions          []RegionInfo `json:"regions,omitempty"`
}

// RegionInfo is a named world region carried through conversion so
// region-membership triggers keep resolvable targets.
type RegionInfo struct {
	ID      string       `json:"id"`
	Polygon []mgl64.Vec2 `json:"polygon"`
	Blocked bool         `json:"blocked,omitempty"`
}

// RegionByID returns the world region with the given id, or nil.
func (m Metadata) RegionByID(id string) *RegionInfo {
	for i := range m.World.Regions {
		if m.World.Regions[i].ID == id {
			return &m.World.Regions[i]
		}
	}
	return nil
}

// NewGraph creates an empty scene graph stamped with the current time.
func NewGraph(specVersion string) *Graph {
	return &Graph{
		Metadata: Metadata{
			SpecVersion: specVersion,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Entities: []Entity{},
	}
}

// EntityByID returns the entity with the given id, or nil.
func (g *Graph) EntityByID(id string) *Entity {
	for i := range g.Entities {
		if g.Entities[i].ID == id {
			return &g.Entities[i]
		}
	}
	return nil
}

// ChildrenOf returns the entities whose ParentID is the given id.
func (g *Graph) ChildrenOf(id string) []*Entity {
	var out []*Entity
	for i := range g.Entities {
		if g.Entities[i].ParentID == id {
			out = append(out, &g.Entities[i])
		}
	}
	return out
}

// Add appends an entity to the graph.
func (g *Graph) Add(e Entity) {
	g.Entities = append(g.Entities, e)
}
