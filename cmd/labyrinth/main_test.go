package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/labyrinth/internal/grid"
	"github.com/jask/labyrinth/internal/pathfinding"
	"github.com/jask/labyrinth/internal/snapshot"
)

// isolate points every path the CLI touches into a temp dir and the service
// URL at a fake that answers with the straight row between the endpoints.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pathfinding.RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var path []grid.PathPoint
		for c := req.Start.Col; c <= req.End.Col; c++ {
			path = append(path, grid.Pt(req.Start.Row, c))
		}
		_ = json.NewEncoder(w).Encode(pathfinding.RunResponse{Path: path})
	}))
	t.Cleanup(srv.Close)

	t.Setenv("HOME", dir)
	t.Setenv("LABYRINTH_CONFIG", "")
	t.Setenv("LABYRINTH_SERVICE_URL", srv.URL)
	t.Setenv("LABYRINTH_DATABASE_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("LABYRINTH_LOG_FILE", filepath.Join(dir, "labyrinth.log"))
	return dir
}

// execute runs a command the way main does, cleanup included.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, e := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	e.close()
	return out.String(), err
}

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	g := grid.MustNew(2, 5)
	_, err := g.PlaceStart(grid.Coord{Row: 0, Col: 0})
	require.NoError(t, err)
	_, err = g.PlaceEnd(grid.Coord{Row: 0, Col: 4})
	require.NoError(t, err)
	_, err = g.ToggleWall(grid.Coord{Row: 1, Col: 2})
	require.NoError(t, err)
	path := filepath.Join(dir, "maze.yaml")
	require.NoError(t, snapshot.Save(path, g))
	return path
}

func TestAlgorithmsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "algorithms")
	require.NoError(t, err)
	require.Contains(t, out, "dijkstra")
	require.Contains(t, out, "bfs")
	require.Contains(t, out, "dfs")
}

func TestSolveRecordsHistory(t *testing.T) {
	dir := isolate(t)
	maze := writeSnapshot(t, dir)

	out, err := execute(t, "solve", maze, "--algorithm", "BFS")
	require.NoError(t, err)
	require.Contains(t, out, "S***E\n..#..")
	require.Contains(t, out, "BFS: path of 5 cells")

	out, err = execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "OUTCOME")
	require.Contains(t, out, "found")
	require.Contains(t, out, "2x5")

	out, err = execute(t, "history", "stats")
	require.NoError(t, err)
	require.Contains(t, out, "bfs")

	_, err = execute(t, "history", "reset")
	require.ErrorContains(t, err, "--yes")

	out, err = execute(t, "history", "reset", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "removed 1 runs")

	out, err = execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "no runs recorded")
}

func TestSolveRejectsUnknownAlgorithm(t *testing.T) {
	dir := isolate(t)
	maze := writeSnapshot(t, dir)

	_, err := execute(t, "solve", maze, "--algorithm", "djikstra")
	require.ErrorContains(t, err, `did you mean "dijkstra"`)
}

func TestSolveMissingSnapshot(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "solve", filepath.Join(dir, "absent.json"))
	require.ErrorContains(t, err, "does not exist")
}

func TestFailingCommandReleasesHistory(t *testing.T) {
	dir := isolate(t)
	maze := writeSnapshot(t, dir)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)
	t.Setenv("LABYRINTH_SERVICE_URL", failing.URL)

	cmd, e := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"solve", maze})
	err := cmd.ExecuteContext(context.Background())
	var te *pathfinding.TransportError
	require.ErrorAs(t, err, &te)

	db := e.db
	require.NotNil(t, db, "solve should have opened the history")
	e.close()
	require.Empty(t, e.closers)
	require.ErrorContains(t, db.Ping(), "closed")
}
