package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/labyrinth/internal/grid"
	"github.com/jask/labyrinth/internal/interaction"
	"github.com/jask/labyrinth/internal/pathfinding"
	"github.com/jask/labyrinth/internal/service"
	"github.com/jask/labyrinth/internal/snapshot"
)

// Options tune a new App. Zero values are usable.
type Options struct {
	Algorithm pathfinding.Algorithm
	ExportDir string
	Log       logrus.FieldLogger
}

// App is the maze editor. All grid mutation happens inside Update; runs are
// executed by a tea.Cmd on a snapshot and report back with runDoneMsg.
type App struct {
	ctx       context.Context
	ctrl      *interaction.Controller
	runs      *service.RunService
	keys      *KeyRegistry
	log       logrus.FieldLogger
	algorithm pathfinding.Algorithm
	exportDir string

	cursor  grid.Coord
	dragAt  *grid.Coord
	pending uint64
	notice  *notice
	status  string
	width   int
	height  int
}

type runDoneMsg struct{ service.Outcome }

type statusMsg string

type errMsg struct{ error }

func New(ctx context.Context, g *grid.Grid, runs *service.RunService, opts Options) *App {
	if opts.Algorithm == "" {
		opts.Algorithm = pathfinding.Dijkstra
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &App{
		ctx:       ctx,
		ctrl:      interaction.NewController(g),
		runs:      runs,
		keys:      NewKeyRegistry(),
		log:       opts.Log,
		algorithm: opts.Algorithm,
		exportDir: opts.ExportDir,
		status:    "draw walls with the mouse, place start and end, then run",
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case tea.MouseMsg:
		a.handleMouse(m)
	case runDoneMsg:
		a.finishRun(m.Outcome)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.notifyErr(m.error)
	}
	return a, nil
}

func (a *App) scope() string {
	if a.notice != nil {
		return scopeNotice
	}
	return scopeGrid
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.Lookup(m.String(), a.scope())
	if b == nil {
		return a, nil
	}
	switch b.Action {
	case actionQuit:
		return a, tea.Quit
	case actionDismiss:
		a.notice = nil
	case actionMove:
		a.move(m.String())
	case actionToggle:
		a.edit(a.ctrl.Click(a.cursor))
	case actionModeWall:
		a.setMode(interaction.PaintWall)
	case actionModeStart:
		a.setMode(interaction.PlaceStart)
	case actionModeEnd:
		a.setMode(interaction.PlaceEnd)
	case actionNextAlgorithm:
		a.algorithm = a.algorithm.Next()
		a.status = "algorithm: " + a.algorithm.Label()
	case actionRun:
		return a, a.startRun()
	case actionClearAll:
		a.clearAll()
	case actionExport:
		return a, a.exportCmd()
	}
	return a, nil
}

func (a *App) move(keyName string) {
	g := a.ctrl.Grid()
	switch keyName {
	case "up", "k":
		a.cursor.Row = max(0, a.cursor.Row-1)
	case "down", "j":
		a.cursor.Row = min(g.Rows()-1, a.cursor.Row+1)
	case "left", "h":
		a.cursor.Col = max(0, a.cursor.Col-1)
	case "right", "l":
		a.cursor.Col = min(g.Cols()-1, a.cursor.Col+1)
	}
}

func (a *App) setMode(mode interaction.Mode) {
	a.ctrl.SetMode(mode)
	a.status = "mode: " + mode.String()
}

func (a *App) handleMouse(m tea.MouseMsg) {
	// a release always ends the drag, even behind a notice
	if m.Action == tea.MouseActionRelease {
		a.dragAt = nil
		a.ctrl.PointerUp()
		return
	}
	if a.notice != nil {
		return
	}
	pos, inside := a.cellAt(m.X, m.Y)
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft || !inside {
			return
		}
		a.cursor = pos
		a.dragAt = &pos
		a.edit(a.ctrl.PointerDown(pos))
	case tea.MouseActionMotion:
		// terminals report motion per column; a cell is entered once
		if !inside || !a.ctrl.Engaged() || (a.dragAt != nil && *a.dragAt == pos) {
			return
		}
		a.cursor = pos
		a.dragAt = &pos
		a.edit(a.ctrl.PointerEnter(pos))
	}
}

// cellAt maps a terminal position onto the grid drawn by View.
func (a *App) cellAt(x, y int) (grid.Coord, bool) {
	if x < gridOriginX || y < gridOriginY {
		return grid.Coord{}, false
	}
	pos := grid.Coord{Row: y - gridOriginY, Col: (x - gridOriginX) / cellWidth}
	return pos, a.ctrl.Grid().InBounds(pos)
}

func (a *App) edit(_ bool, err error) {
	switch {
	case err == nil:
	case errors.Is(err, interaction.ErrLocked):
		a.status = "a run is in progress; edits are locked"
	default:
		a.log.WithError(err).Warn("edit rejected")
		a.status = err.Error()
	}
}

func (a *App) startRun() tea.Cmd {
	if a.pending != 0 {
		a.status = "a run is already in progress"
		return nil
	}
	t, err := a.runs.Prepare(a.ctrl.Grid(), a.algorithm)
	if err != nil {
		a.notifyErr(err)
		return nil
	}
	a.ctrl.Lock()
	a.pending = t.Seq
	a.status = fmt.Sprintf("running %s...", t.Algorithm.Label())
	ctx, runs := a.ctx, a.runs
	return func() tea.Msg {
		return runDoneMsg{runs.Execute(ctx, t)}
	}
}

func (a *App) finishRun(out service.Outcome) {
	if out.Stale || out.Seq != a.pending {
		a.log.WithField("seq", out.Seq).Debug("dropping stale run result")
		return
	}
	a.pending = 0
	a.ctrl.Unlock()
	a.ctrl.Replace(out.Grid)

	if out.Err != nil {
		a.notifyErr(out.Err)
		return
	}
	a.status = fmt.Sprintf("%s: path of %d cells in %s",
		out.Algorithm.Label(), len(out.Route)-len(out.Anomalies), out.Elapsed.Round(time.Millisecond))
	if n := len(out.Anomalies); n > 0 {
		a.status += fmt.Sprintf(" (%d malformed points skipped)", n)
	}
}

// clearAll supersedes a pending run before clearing, so its result is
// dropped when it arrives.
func (a *App) clearAll() {
	if a.pending != 0 {
		a.runs.Invalidate()
		a.pending = 0
		a.ctrl.Unlock()
	}
	if err := a.ctrl.ClearAll(); err != nil {
		a.edit(false, err)
		return
	}
	a.dragAt = nil
	a.status = "grid cleared"
}

func (a *App) exportCmd() tea.Cmd {
	g := a.ctrl.Grid().Clone()
	path := filepath.Join(a.exportDir, "labyrinth-"+time.Now().Format("20060102-150405")+".json")
	return func() tea.Msg {
		if err := snapshot.Save(path, g); err != nil {
			return errMsg{fmt.Errorf("export snapshot: %w", err)}
		}
		return statusMsg("exported " + path)
	}
}
