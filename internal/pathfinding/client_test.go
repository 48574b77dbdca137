package pathfinding

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/labyrinth/internal/grid"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeService records requests and answers with the given status and body.
type fakeService struct {
	calls atomic.Int32
	last  atomic.Pointer[RunRequest]
}

func (f *fakeService) server(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != Endpoint {
			http.NotFound(w, r)
			return
		}
		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.last.Store(&req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func endpoints(t *testing.T, g *grid.Grid, start, end grid.Coord) (*grid.Coord, *grid.Coord) {
	t.Helper()
	_, err := g.PlaceStart(start)
	require.NoError(t, err)
	_, err = g.PlaceEnd(end)
	require.NoError(t, err)
	return &start, &end
}

func TestRunStraightLine(t *testing.T) {
	t.Parallel()

	route := make([]map[string]int, 0, 6)
	for c := 0; c <= 5; c++ {
		route = append(route, map[string]int{"row": 0, "col": c})
	}
	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{"path": route})

	g := grid.MustNew(grid.DefaultRows, grid.DefaultCols)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 5})

	client := NewClient(srv.URL, time.Second, quietLogger())
	path, err := client.Run(context.Background(), g, start, end, BFS)
	require.NoError(t, err)
	require.Len(t, path, 6)

	req := fake.last.Load()
	require.NotNil(t, req)
	require.Equal(t, BFS, req.Algorithm)
	require.Equal(t, grid.Coord{Row: 0, Col: 0}, req.Start)
	require.Equal(t, grid.Coord{Row: 0, Col: 5}, req.End)
	require.Len(t, req.Grid, grid.DefaultRows)
	require.Len(t, req.Grid[0], grid.DefaultCols)
	require.Equal(t, 2, req.Grid[0][0])
	require.Equal(t, 3, req.Grid[0][5])

	out, anomalies := grid.Overlay(g, path)
	require.Empty(t, anomalies)
	for c := 1; c <= 4; c++ {
		cell, _ := out.At(grid.Coord{Row: 0, Col: c})
		require.Equal(t, grid.Path, cell)
	}
}

func TestRunStripsPathBeforeSending(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{"path": []map[string]int{{"row": 0, "col": 0}}})

	g := grid.MustNew(1, 4)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 3})
	g, _ = grid.Overlay(g, []grid.PathPoint{grid.Pt(0, 1), grid.Pt(0, 2)})

	_, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, Dijkstra)
	require.NoError(t, err)
	require.Equal(t, [][]int{{2, 0, 0, 3}}, fake.last.Load().Grid)
	// caller's grid keeps its decoration
	require.Equal(t, 2, g.Count(grid.Path))
}

func TestRunMissingEndpointsSendsNothing(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{"path": []any{}})
	client := NewClient(srv.URL, time.Second, quietLogger())

	g := grid.MustNew(3, 3)
	start := grid.Coord{Row: 0, Col: 0}
	_, err := client.Run(context.Background(), g, &start, nil, BFS)
	require.ErrorIs(t, err, ErrMissingEndpoints)
	_, err = client.Run(context.Background(), g, nil, &start, BFS)
	require.ErrorIs(t, err, ErrMissingEndpoints)
	require.Zero(t, fake.calls.Load())
}

func TestRunStatusTakesPrecedenceOverBody(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusBadRequest, map[string]any{"error": "invalid algorithm"})

	g := grid.MustNew(2, 2)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 1, Col: 1})
	_, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, "astar")

	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.StatusBadRequest, te.Status)
	var se *ServiceError
	require.False(t, errors.As(err, &se))
	require.True(t, IsRecoverable(err))
}

func TestRunServiceError(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{"error": "grid too large"})

	g := grid.MustNew(2, 2)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 1, Col: 1})
	_, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, DFS)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "grid too large", se.Message)
}

func TestRunNoPath(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"empty":   map[string]any{"path": []any{}},
		"missing": map[string]any{},
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeService{}
			srv := fake.server(t, http.StatusOK, body)

			g := grid.MustNew(3, 3)
			for c := 0; c < 3; c++ {
				_, _ = g.ToggleWall(grid.Coord{Row: 1, Col: c})
			}
			start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 2, Col: 2})
			before := g.Clone()

			_, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, BFS)
			require.ErrorIs(t, err, ErrNoPathFound)
			require.True(t, before.Equal(g))
		})
	}
}

func TestRunUndecodableBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	t.Cleanup(srv.Close)

	g := grid.MustNew(2, 2)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 1, Col: 1})
	_, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, BFS)
	require.Error(t, err)
	require.False(t, IsRecoverable(err))
}

func TestRunMalformedPointsPassThrough(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{"path": []map[string]int{{"row": 0, "col": 0}, {"row": 0}, {"row": 0, "col": 2}}})

	g := grid.MustNew(1, 3)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 2})
	path, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, BFS)
	require.NoError(t, err)
	require.Len(t, path, 3)
	_, ok := path[1].Coord()
	require.False(t, ok)
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	a, err := ParseAlgorithm(" BFS ")
	require.NoError(t, err)
	require.Equal(t, BFS, a)

	_, err = ParseAlgorithm("djikstra")
	require.ErrorContains(t, err, `did you mean "dijkstra"`)

	_, err = ParseAlgorithm("simulated-annealing")
	require.ErrorContains(t, err, "want one of")

	require.Equal(t, BFS, Dijkstra.Next())
	require.Equal(t, Dijkstra, DFS.Next())
}

func TestSequencer(t *testing.T) {
	t.Parallel()

	var s Sequencer
	require.False(t, s.IsLatest(0))
	first := s.Next()
	require.True(t, s.IsLatest(first))
	second := s.Next()
	require.False(t, s.IsLatest(first))
	require.True(t, s.IsLatest(second))
	s.Invalidate()
	require.False(t, s.IsLatest(second))
}

func TestRunEmptyErrorMessageIsIgnored(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := fake.server(t, http.StatusOK, map[string]any{
		"path":  []map[string]int{{"row": 0, "col": 0}, {"row": 0, "col": 1}},
		"error": "",
	})

	g := grid.MustNew(1, 2)
	start, end := endpoints(t, g, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 1})
	path, err := NewClient(srv.URL, time.Second, quietLogger()).Run(context.Background(), g, start, end, BFS)
	require.NoError(t, err)
	require.Len(t, path, 2)
}
