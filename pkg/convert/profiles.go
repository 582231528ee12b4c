package convert

import (
	"github.com/soovittt/RL-Studio-sub001/pkg/component"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

// colorProperty is the properties-bag key a user-chosen color lives under.
// An explicit color always wins over the per-type default, both when
// building a scene and when reading one back.
const colorProperty = "color"

// renderProfile is the default visual for one object type.
type renderProfile struct {
	Shape string
	Color string
}

// renderProfiles is the fixed per-type default table. Sizes come from the
// object's own size spec; only shape and color are type defaults.
var renderProfiles = map[envspec.ObjectType]renderProfile{
	envspec.ObjectWall:       {Shape: component.ShapeRect, Color: "#475569"},
	envspec.ObjectObstacle:   {Shape: component.ShapeRect, Color: "#78716c"},
	envspec.ObjectGoal:       {Shape: component.ShapeRect, Color: "#22c55e"},
	envspec.ObjectTrap:       {Shape: component.ShapeRect, Color: "#ef4444"},
	envspec.ObjectKey:        {Shape: component.ShapeCircle, Color: "#eab308"},
	envspec.ObjectDoor:       {Shape: component.ShapeRect, Color: "#a16207"},
	envspec.ObjectCheckpoint: {Shape: component.ShapeCircle, Color: "#3b82f6"},
	envspec.ObjectRegion:     {Shape: component.ShapeRect, Color: "#8b5cf6"},
	envspec.ObjectAgent:      {Shape: component.ShapeCircle, Color: "#0ea5e9"},
	envspec.ObjectCustom:     {Shape: component.ShapeRect, Color: "#9ca3af"},
}

const agentColor = "#0ea5e9"

// colorFor resolves an object's render color: explicit property first,
// type default second.
func colorFor(o envspec.ObjectSpec) string {
	if c, ok := o.Properties[colorProperty].(string); ok && c != "" {
		return c
	}
	return renderProfiles[o.Type].Color
}

// defaultColorOf returns the type-default color for a recovered object
// type, so the inverse conversion can tell explicit colors apart.
func defaultColorOf(t envspec.ObjectType) string {
	return renderProfiles[t].Color
}

// renderFor builds the Render2D component for an object, resolving shape
// and extent from the object's size spec with cell-sized fallbacks.
func renderFor(o envspec.ObjectSpec, cellSize float64) component.Render2D {
	profile := renderProfiles[o.Type]
	r := component.Render2D{
		Shape: profile.Shape,
		Color: colorFor(o),
	}
	if cellSize <= 0 {
		cellSize = 1
	}

	switch o.Size.Kind {
	case envspec.SizeCircle:
		r.Shape = component.ShapeCircle
		r.Radius = o.Size.Radius
	case envspec.SizeRect:
		r.Shape = component.ShapeRect
		r.Width = o.Size.Width
		r.Height = o.Size.Height
	case envspec.SizePolygon:
		r.Shape = component.ShapePolygon
	default: // point
		if r.Shape == component.ShapeCircle {
			r.Radius = cellSize * 0.4
		} else {
			r.Width = cellSize
			r.Height = cellSize
		}
	}
	return r
}
