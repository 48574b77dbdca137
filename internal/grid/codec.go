package grid

import (
	"errors"
	"fmt"
)

// Encode returns the grid as a rows×cols matrix of wire codes. The result
// shares no storage with g.
func (g *Grid) Encode() [][]int {
	out := make([][]int, g.rows)
	for r := 0; r < g.rows; r++ {
		row := make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			row[c] = g.cells[r*g.cols+c].Code()
		}
		out[r] = row
	}
	return out
}

// Decode builds a grid from a matrix of wire codes. Start and End positions
// are recovered from the matrix; more than one of either is rejected.
func Decode(matrix [][]int) (*Grid, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, errors.New("grid: empty matrix")
	}
	g, err := New(len(matrix), len(matrix[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range matrix {
		if len(row) != g.cols {
			return nil, fmt.Errorf("grid: row %d has %d columns, want %d", r, len(row), g.cols)
		}
		for c, code := range row {
			cell, err := CellFromCode(code)
			if err != nil {
				return nil, fmt.Errorf("grid: row %d col %d: %w", r, c, err)
			}
			pos := Coord{Row: r, Col: c}
			switch cell {
			case Start:
				if g.start != nil {
					return nil, fmt.Errorf("grid: second start at %s", pos)
				}
				g.start = &pos
			case End:
				if g.end != nil {
					return nil, fmt.Errorf("grid: second end at %s", pos)
				}
				g.end = &pos
			}
			g.cells[r*g.cols+c] = cell
		}
	}
	return g, nil
}
