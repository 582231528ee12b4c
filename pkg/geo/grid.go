package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell is a discrete grid coordinate. Row grows with +Y, Col with +X.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellOf maps a world position to the grid cell containing it.
// cellSize must be positive; callers validate before converting.
func CellOf(pos mgl64.Vec2, cellSize float64) Cell {
	return Cell{
		Row: int(math.Floor(pos.Y() / cellSize)),
		Col: int(math.Floor(pos.X() / cellSize)),
	}
}

// WorldFromCell maps a grid cell back to the world position of its
// top-left corner. It is the left inverse of CellOf for any cell with
// non-negative coordinates: CellOf(WorldFromCell(c, s), s) == c.
func WorldFromCell(c Cell, cellSize float64) mgl64.Vec2 {
	return mgl64.Vec2{float64(c.Col) * cellSize, float64(c.Row) * cellSize}
}

// CellCenter returns the world position of the cell's center.
func CellCenter(c Cell, cellSize float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(c.Col) + 0.5) * cellSize,
		(float64(c.Row) + 0.5) * cellSize,
	}
}

// InBounds reports whether the cell lies inside a rows x cols grid.
func (c Cell) InBounds(rows, cols int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}

// Neighbors4 returns the von Neumann neighborhood of the cell.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}
