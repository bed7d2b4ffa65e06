package snake

import "github.com/hoshinonyaruko/snake-in-grid/structs"

// Grid is a width x height torus.
type Grid struct {
	Width  int
	Height int
}

// Contains reports whether c lies inside the board.
func (g Grid) Contains(c structs.Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Wrap folds any coordinate pair back onto the board.
func (g Grid) Wrap(c structs.Cell) structs.Cell {
	return structs.Cell{X: mod(c.X, g.Width), Y: mod(c.Y, g.Height)}
}

// Step returns the neighbour of c in direction d. Leaving one edge
// re-enters on the opposite one.
func (g Grid) Step(c structs.Cell, d structs.Direction) structs.Cell {
	dx, dy := d.Delta()
	return g.Wrap(structs.Cell{X: c.X + dx, Y: c.Y + dy})
}

// Cells is the number of cells on the board.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
