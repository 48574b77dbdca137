package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultRows = 15
	DefaultCols = 40
)

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
// Nothing is mutated when it is returned.
var ErrOutOfBounds = errors.New("grid: coordinate out of bounds")

// Grid is the rectangular maze matrix. Start and End are tracked alongside
// the cells so a previous marker can be cleared without a scan.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
	start *Coord
	end   *Coord
}

// New returns an all-empty grid.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", rows, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}, nil
}

// MustNew is New for dimensions known to be valid.
func MustNew(rows, cols int) *Grid {
	g, err := New(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c addresses a cell of g.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *Grid) index(c Coord) (int, error) {
	if !g.InBounds(c) {
		return 0, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, c, g.rows, g.cols)
	}
	return c.Row*g.cols + c.Col, nil
}

// At returns the cell at c.
func (g *Grid) At(c Coord) (Cell, error) {
	i, err := g.index(c)
	if err != nil {
		return Empty, err
	}
	return g.cells[i], nil
}

// Start returns the start marker position, if placed.
func (g *Grid) Start() (Coord, bool) {
	if g.start == nil {
		return Coord{}, false
	}
	return *g.start, true
}

// End returns the end marker position, if placed.
func (g *Grid) End() (Coord, bool) {
	if g.end == nil {
		return Coord{}, false
	}
	return *g.end, true
}

// ToggleWall flips c between Empty and Wall. Start, End and Path cells are
// left alone and false is returned.
func (g *Grid) ToggleWall(c Coord) (bool, error) {
	i, err := g.index(c)
	if err != nil {
		return false, err
	}
	switch g.cells[i] {
	case Empty:
		g.cells[i] = Wall
	case Wall:
		g.cells[i] = Empty
	default:
		return false, nil
	}
	return true, nil
}

// PlaceStart moves the start marker to c.
func (g *Grid) PlaceStart(c Coord) (bool, error) {
	return g.place(c, Start, &g.start)
}

// PlaceEnd moves the end marker to c.
func (g *Grid) PlaceEnd(c Coord) (bool, error) {
	return g.place(c, End, &g.end)
}

func (g *Grid) place(c Coord, marker Cell, tracked **Coord) (bool, error) {
	i, err := g.index(c)
	if err != nil {
		return false, err
	}
	switch g.cells[i] {
	case Start, End, Path:
		return false, nil
	}
	if prev := *tracked; prev != nil {
		g.cells[prev.Row*g.cols+prev.Col] = Empty
	}
	g.cells[i] = marker
	pos := c
	*tracked = &pos
	return true, nil
}

// ClearPath returns a copy of g with every Path cell reset to Empty.
// g itself is not modified.
func (g *Grid) ClearPath() *Grid {
	out := g.Clone()
	for i, cell := range out.cells {
		if cell == Path {
			out.cells[i] = Empty
		}
	}
	return out
}

// ClearAll resets every cell to Empty and unsets both markers.
func (g *Grid) ClearAll() {
	clear(g.cells)
	g.start = nil
	g.end = nil
}

// Clone returns a deep copy sharing no storage with g.
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	if g.start != nil {
		s := *g.start
		out.start = &s
	}
	if g.end != nil {
		e := *g.end
		out.end = &e
	}
	return out
}

// Count returns how many cells hold state c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same shape, cells and markers.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return sameCoord(g.start, o.start) && sameCoord(g.end, o.end)
}

func sameCoord(a, b *Coord) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Row returns a copy of row r.
func (g *Grid) Row(r int) []Cell {
	if r < 0 || r >= g.rows {
		return nil
	}
	out := make([]Cell, g.cols)
	copy(out, g.cells[r*g.cols:(r+1)*g.cols])
	return out
}

// String renders one line of glyphs per row.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, c := range g.cells[r*g.cols : (r+1)*g.cols] {
			b.WriteByte(c.Glyph())
		}
	}
	return b.String()
}
