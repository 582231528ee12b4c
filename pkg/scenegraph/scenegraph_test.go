package scenegraph

import (
	"testing"

	"github.com/soovittt/RL-Studio-sub001/pkg/component"
)

func testGraph() *Graph {
	g := NewGraph("1.0.0")
	g.Add(Entity{
		ID:        "root",
		Transform: IdentityTransform(),
		Components: component.Map{
			component.TypeCollision2D: component.Collision2D{IsSolid: true},
		},
	})
	g.Add(Entity{
		ID:         "child-a",
		ParentID:   "root",
		Transform:  IdentityTransform(),
		Components: component.Map{},
	})
	g.Add(Entity{
		ID:         "child-b",
		ParentID:   "root",
		Transform:  IdentityTransform(),
		Components: component.Map{},
	})
	return g
}

func TestEntityByID(t *testing.T) {
	g := testGraph()
	if e := g.EntityByID("child-a"); e == nil || e.ID != "child-a" {
		t.Errorf("lookup failed, got %v", e)
	}
	if e := g.EntityByID("nope"); e != nil {
		t.Errorf("expected nil for unknown id, got %v", e)
	}
}

func TestChildrenOf(t *testing.T) {
	g := testGraph()
	kids := g.ChildrenOf("root")
	if len(kids) != 2 {
		t.Fatalf("expected 2 children, got %d", len(kids))
	}
	if len(g.ChildrenOf("child-a")) != 0 {
		t.Error("leaf entity should have no children")
	}
}

func TestValidateStructureOK(t *testing.T) {
	r := ValidateStructure(testGraph())
	if !r.Valid {
		t.Errorf("well-formed graph should validate, got %v", r.Errors)
	}
}

func TestValidateStructureDuplicateID(t *testing.T) {
	g := testGraph()
	g.Add(Entity{ID: "root", Transform: IdentityTransform(), Components: component.Map{}})
	if ValidateStructure(g).Valid {
		t.Error("duplicate entity id should fail validation")
	}
}

func TestValidateStructureMissingParent(t *testing.T) {
	g := testGraph()
	g.Add(Entity{ID: "orphan", ParentID: "ghost", Transform: IdentityTransform(), Components: component.Map{}})
	r := ValidateStructure(g)
	if r.Valid {
		t.Fatal("missing parent should fail validation")
	}
	if r.Errors[0].Level != "reference" {
		t.Errorf("missing parent is a reference error, got %s", r.Errors[0].Level)
	}
}

func TestValidateStructureCycle(t *testing.T) {
	g := NewGraph("1.0.0")
	g.Add(Entity{ID: "a", ParentID: "b", Transform: IdentityTransform(), Components: component.Map{}})
	g.Add(Entity{ID: "b", ParentID: "a", Transform: IdentityTransform(), Components: component.Map{}})
	r := ValidateStructure(g)
	if r.Valid {
		t.Fatal("cyclic parent chain should fail validation")
	}
	found := false
	for _, e := range r.Errors {
		if e.Level == "structural" {
			found = true
		}
	}
	if !found {
		t.Error("cycle should be reported as a structural error")
	}
}

func TestValidateStructureSelfParent(t *testing.T) {
	g := NewGraph("1.0.0")
	g.Add(Entity{ID: "a", ParentID: "a", Transform: IdentityTransform(), Components: component.Map{}})
	if ValidateStructure(g).Valid {
		t.Error("self-parenting should fail validation")
	}
}

func TestValidateStructureBadComponent(t *testing.T) {
	g := testGraph()
	g.Entities[0].Components[component.TypeGridMovement] = component.GridMovement{StepSize: 0}
	if ValidateStructure(g).Valid {
		t.Error("invalid component shape should fail graph validation")
	}
}
