package grid

import "fmt"

// Cell is the state of one grid square. A cell holds exactly one state.
type Cell uint8

const (
	Empty Cell = iota
	Wall
	Start
	End
	Path
)

// Code returns the integer tag used on the wire and in snapshot files.
func (c Cell) Code() int { return int(c) }

// CellFromCode maps a wire tag back to a Cell.
func CellFromCode(code int) (Cell, error) {
	if code < int(Empty) || code > int(Path) {
		return Empty, fmt.Errorf("unknown cell code %d", code)
	}
	return Cell(code), nil
}

// Glyph is the single-character form used by plain-text renderings.
func (c Cell) Glyph() byte {
	switch c {
	case Wall:
		return '#'
	case Start:
		return 'S'
	case End:
		return 'E'
	case Path:
		return '*'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case End:
		return "end"
	case Path:
		return "path"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }
