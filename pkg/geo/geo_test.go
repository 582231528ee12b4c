package geo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCellOf(t *testing.T) {
	c := CellOf(mgl64.Vec2{9.5, 9.5}, 1)
	if c.Row != 9 || c.Col != 9 {
		t.Errorf("expected (9,9), got (%d,%d)", c.Row, c.Col)
	}

	c = CellOf(mgl64.Vec2{31, 17}, 16)
	if c.Row != 1 || c.Col != 1 {
		t.Errorf("expected (1,1), got (%d,%d)", c.Row, c.Col)
	}
}

func TestWorldFromCellInverse(t *testing.T) {
	for _, cellSize := range []float64{0.5, 1, 16, 32} {
		for row := 0; row < 20; row++ {
			for col := 0; col < 20; col++ {
				pos := WorldFromCell(Cell{Row: row, Col: col}, cellSize)
				got := CellOf(pos, cellSize)
				if got.Row != row || got.Col != col {
					t.Fatalf("cellSize %v: (%d,%d) -> %v -> (%d,%d)",
						cellSize, row, col, pos, got.Row, got.Col)
				}
			}
		}
	}
}

func TestCellCenterInverse(t *testing.T) {
	pos := CellCenter(Cell{Row: 3, Col: 7}, 2)
	got := CellOf(pos, 2)
	if got.Row != 3 || got.Col != 7 {
		t.Errorf("expected (3,7), got (%d,%d)", got.Row, got.Col)
	}
}

func TestCellInBounds(t *testing.T) {
	if !(Cell{Row: 0, Col: 0}).InBounds(10, 10) {
		t.Error("(0,0) should be in bounds of 10x10")
	}
	if (Cell{Row: 10, Col: 0}).InBounds(10, 10) {
		t.Error("(10,0) should be out of bounds of 10x10")
	}
	if (Cell{Row: -1, Col: 5}).InBounds(10, 10) {
		t.Error("negative row should be out of bounds")
	}
}

func TestPolygonContains(t *testing.T) {
	square := NewPolygon(
		mgl64.Vec2{0, 0},
		mgl64.Vec2{4, 0},
		mgl64.Vec2{4, 4},
		mgl64.Vec2{0, 4},
	)

	if !square.Contains(mgl64.Vec2{2, 2}) {
		t.Error("center should be inside")
	}
	if square.Contains(mgl64.Vec2{5, 2}) {
		t.Error("(5,2) should be outside")
	}
	if square.Contains(mgl64.Vec2{-1, -1}) {
		t.Error("(-1,-1) should be outside")
	}
}

func TestPolygonArea(t *testing.T) {
	square := NewPolygon(
		mgl64.Vec2{0, 0},
		mgl64.Vec2{4, 0},
		mgl64.Vec2{4, 4},
		mgl64.Vec2{0, 4},
	)
	if a := square.Area(); a != 16 {
		t.Errorf("expected area 16, got %v", a)
	}

	empty := NewPolygon(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1})
	if !empty.IsEmpty() {
		t.Error("2-vertex polygon should be empty")
	}
	if a := empty.Area(); a != 0 {
		t.Errorf("degenerate polygon area should be 0, got %v", a)
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	tri := NewPolygon(mgl64.Vec2{1, 2}, mgl64.Vec2{5, 1}, mgl64.Vec2{3, 6})
	min, max := tri.BoundingBox()
	if min.X() != 1 || min.Y() != 1 || max.X() != 5 || max.Y() != 6 {
		t.Errorf("unexpected bounds: min=%v max=%v", min, max)
	}
}
