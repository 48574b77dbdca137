package interaction

import (
	"errors"
	"fmt"

	"github.com/jask/labyrinth/internal/grid"
)

// Mode selects what a pointer action does to the grid.
type Mode int

const (
	PaintWall Mode = iota
	PlaceStart
	PlaceEnd
)

func (m Mode) String() string {
	switch m {
	case PaintWall:
		return "wall"
	case PlaceStart:
		return "start"
	case PlaceEnd:
		return "end"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrLocked is returned for edits attempted while a run is in flight.
var ErrLocked = errors.New("interaction: grid is locked while a run is pending")

// Controller turns pointer events into grid mutations. It owns the mode, the
// drag flag and the edit lock; the grid itself is only mutated from here.
type Controller struct {
	grid    *grid.Grid
	mode    Mode
	engaged bool
	locked  bool
}

// NewController wraps g, starting in PaintWall mode.
func NewController(g *grid.Grid) *Controller {
	return &Controller{grid: g, mode: PaintWall}
}

func (c *Controller) Grid() *grid.Grid { return c.grid }
func (c *Controller) Mode() Mode       { return c.mode }
func (c *Controller) Engaged() bool    { return c.engaged }
func (c *Controller) Locked() bool     { return c.locked }

// SetMode selects the next pointer action.
func (c *Controller) SetMode(m Mode) { c.mode = m }

// Lock refuses further edits until Unlock.
func (c *Controller) Lock()   { c.locked = true }
func (c *Controller) Unlock() { c.locked = false }

// Replace installs g as the live grid, typically a run result.
func (c *Controller) Replace(g *grid.Grid) { c.grid = g }

// PointerDown engages dragging and applies the mode's action at pos. The flag
// is set even when the cell refuses the action.
func (c *Controller) PointerDown(pos grid.Coord) (bool, error) {
	if c.locked {
		return false, ErrLocked
	}
	c.engaged = true
	return c.primary(pos)
}

// PointerEnter paints while a drag is in progress. Placement modes ignore it.
func (c *Controller) PointerEnter(pos grid.Coord) (bool, error) {
	if c.locked {
		return false, ErrLocked
	}
	if !c.engaged || c.mode != PaintWall {
		return false, nil
	}
	return c.grid.ToggleWall(pos)
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() { c.engaged = false }

// Click applies the mode's action without touching the drag flag.
func (c *Controller) Click(pos grid.Coord) (bool, error) {
	if c.locked {
		return false, ErrLocked
	}
	return c.primary(pos)
}

// ClearAll empties the grid, ends any drag and returns to PaintWall.
func (c *Controller) ClearAll() error {
	if c.locked {
		return ErrLocked
	}
	c.grid.ClearAll()
	c.engaged = false
	c.mode = PaintWall
	return nil
}

func (c *Controller) primary(pos grid.Coord) (bool, error) {
	switch c.mode {
	case PlaceStart:
		return c.placed(c.grid.PlaceStart(pos))
	case PlaceEnd:
		return c.placed(c.grid.PlaceEnd(pos))
	default:
		return c.grid.ToggleWall(pos)
	}
}

// placed reverts to PaintWall after a successful placement; refused or
// rejected placements keep the mode armed.
func (c *Controller) placed(ok bool, err error) (bool, error) {
	if ok && err == nil {
		c.mode = PaintWall
	}
	return ok, err
}
