package snake

import (
	"testing"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

func TestStep_StaysOnBoard(t *testing.T) {
	grid := Grid{Width: 7, Height: 4}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			for d := structs.Right; d <= structs.Down; d++ {
				c := structs.Cell{X: x, Y: y}
				if next := grid.Step(c, d); !grid.Contains(next) {
					t.Fatalf("Step(%v, %v)=%v outside %dx%d", c, d, next, grid.Width, grid.Height)
				}
			}
		}
	}
}

func TestStep_Wraps(t *testing.T) {
	grid := Grid{Width: 10, Height: 8}
	for _, tc := range []struct {
		from structs.Cell
		d    structs.Direction
		want structs.Cell
	}{
		{structs.Cell{X: 0, Y: 5}, structs.Left, structs.Cell{X: 9, Y: 5}},
		{structs.Cell{X: 9, Y: 5}, structs.Right, structs.Cell{X: 0, Y: 5}},
		{structs.Cell{X: 3, Y: 0}, structs.Up, structs.Cell{X: 3, Y: 7}},
		{structs.Cell{X: 3, Y: 7}, structs.Down, structs.Cell{X: 3, Y: 0}},
		{structs.Cell{X: 4, Y: 4}, structs.Up, structs.Cell{X: 4, Y: 3}},
	} {
		if got := grid.Step(tc.from, tc.d); got != tc.want {
			t.Fatalf("Step(%v, %v)=%v want %v", tc.from, tc.d, got, tc.want)
		}
	}
}

func TestWrap_NegativeAndLarge(t *testing.T) {
	grid := Grid{Width: 10, Height: 10}
	if got := grid.Wrap(structs.Cell{X: -1, Y: -11}); got != (structs.Cell{X: 9, Y: 9}) {
		t.Fatalf("Wrap(-1,-11)=%v", got)
	}
	if got := grid.Wrap(structs.Cell{X: 22, Y: 20}); got != (structs.Cell{X: 2, Y: 0}) {
		t.Fatalf("Wrap(22,20)=%v", got)
	}
}
