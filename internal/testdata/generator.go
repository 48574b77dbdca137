package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/labyrinth/internal/database/repository"
	"github.com/jask/labyrinth/internal/grid"
)

// RandomGrid returns a rows×cols grid with roughly density of its cells
// walled, plus start and end markers on distinct cells.
func RandomGrid(rng *rand.Rand, rows, cols int, density float64) *grid.Grid {
	g := grid.MustNew(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if rng.Float64() < density {
				_, _ = g.ToggleWall(grid.Coord{Row: r, Col: c})
			}
		}
	}
	if rows*cols < 2 {
		return g
	}
	start := grid.Coord{Row: rng.Intn(rows), Col: rng.Intn(cols)}
	end := start
	for end == start {
		end = grid.Coord{Row: rng.Intn(rows), Col: rng.Intn(cols)}
	}
	_, _ = g.PlaceStart(start)
	_, _ = g.PlaceEnd(end)
	return g
}

// RandomRoute returns n route points, some of them malformed or out of range.
func RandomRoute(rng *rand.Rand, rows, cols, n int) []grid.PathPoint {
	out := make([]grid.PathPoint, 0, n)
	for i := 0; i < n; i++ {
		row, col := rng.Intn(rows+2)-1, rng.Intn(cols+2)-1
		switch rng.Intn(8) {
		case 0:
			out = append(out, grid.PathPoint{Row: &row})
		case 1:
			out = append(out, grid.PathPoint{Col: &col})
		default:
			out = append(out, grid.Pt(row, col))
		}
	}
	return out
}

// SeedRuns inserts n sample runs spread over the supported algorithms, newest
// last.
func SeedRuns(ctx context.Context, runs *repository.RunRepo, n int) error {
	algorithms := []string{"dijkstra", "bfs", "dfs"}
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute).Truncate(time.Second)
	for i := 0; i < n; i++ {
		run := repository.Run{
			ID:         uuid.NewString(),
			Algorithm:  algorithms[i%len(algorithms)],
			Rows:       grid.DefaultRows,
			Cols:       grid.DefaultCols,
			EndCol:     5,
			Outcome:    repository.OutcomeFound,
			PathLength: 6 + i,
			Duration:   time.Duration(10+i) * time.Millisecond,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if i%4 == 3 {
			msg := "no path found"
			run.Outcome, run.PathLength, run.Message = repository.OutcomeNoPath, 0, &msg
		}
		if err := runs.Insert(ctx, run); err != nil {
			return fmt.Errorf("seed run %d: %w", i, err)
		}
	}
	return nil
}
