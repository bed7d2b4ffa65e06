package snake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

// Templates maps shape names to cell offsets from the anchor.
var Templates = map[string][]structs.Cell{
	"star":   {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}},
	"hwall":  {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: -1, Y: 0}, {X: -2, Y: 0}},
	"vwall":  {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: -1}, {X: 0, Y: -2}},
	"square": {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
}

// DefaultObstacles is the classic layout: two stars and a horizontal wall.
var DefaultObstacles = []structs.Placement{
	{Shape: "star", X: 3, Y: 3},
	{Shape: "hwall", X: 20, Y: 20},
	{Shape: "star", X: 7, Y: 7},
}

// TemplateNames lists the known shapes in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandLayout turns placements into obstacle cells wrapped onto grid.
// Overlapping templates yield each cell once, in placement order.
func ExpandLayout(grid Grid, layout []structs.Placement) ([]structs.Cell, error) {
	seen := make(map[structs.Cell]bool)
	var cells []structs.Cell
	for _, p := range layout {
		offsets, ok := Templates[p.Shape]
		if !ok {
			return nil, fmt.Errorf("%w: unknown obstacle shape %q (known: %s)",
				ErrInvalidSettings, p.Shape, strings.Join(TemplateNames(), ", "))
		}
		for _, o := range offsets {
			c := grid.Wrap(structs.Cell{X: p.X + o.X, Y: p.Y + o.Y})
			if seen[c] {
				continue
			}
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells, nil
}
