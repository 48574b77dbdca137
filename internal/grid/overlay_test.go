package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func straightRoute(row, from, to int) []PathPoint {
	var out []PathPoint
	for c := from; c <= to; c++ {
		out = append(out, Pt(row, c))
	}
	return out
}

func TestOverlayStraightRoute(t *testing.T) {
	t.Parallel()

	g := MustNew(DefaultRows, DefaultCols)
	_, _ = g.PlaceStart(Coord{0, 0})
	_, _ = g.PlaceEnd(Coord{0, 5})

	out, anomalies := Overlay(g, straightRoute(0, 0, 5))
	require.Empty(t, anomalies)
	for c := 1; c <= 4; c++ {
		cell, _ := out.At(Coord{0, c})
		require.Equal(t, Path, cell, "col %d", c)
	}
	first, _ := out.At(Coord{0, 0})
	last, _ := out.At(Coord{0, 5})
	require.Equal(t, Start, first)
	require.Equal(t, End, last)
	require.Equal(t, 4, out.Count(Path))

	// snapshot untouched
	require.Zero(t, g.Count(Path))
}

func TestOverlayNeverCoversMarkers(t *testing.T) {
	t.Parallel()

	g := MustNew(3, 3)
	_, _ = g.PlaceStart(Coord{1, 1})
	_, _ = g.PlaceEnd(Coord{2, 2})
	route := []PathPoint{Pt(1, 1), Pt(2, 2), Pt(1, 1), Pt(2, 2), Pt(0, 0)}

	out, _ := Overlay(g, route)
	require.Equal(t, 1, out.Count(Start))
	require.Equal(t, 1, out.Count(End))
	require.Equal(t, 1, out.Count(Path))
}

func TestOverlayLeavesWalls(t *testing.T) {
	t.Parallel()

	g := MustNew(1, 3)
	_, _ = g.ToggleWall(Coord{0, 1})
	out, _ := Overlay(g, straightRoute(0, 0, 2))
	cell, _ := out.At(Coord{0, 1})
	require.Equal(t, Wall, cell)
}

func TestOverlaySkipsMalformedPoints(t *testing.T) {
	t.Parallel()

	g := MustNew(2, 4)
	row := 0
	route := []PathPoint{
		Pt(0, 0),
		{Row: &row},
		Pt(0, 9),
		Pt(-1, 0),
		Pt(0, 2),
	}
	out, anomalies := Overlay(g, route)
	require.Len(t, anomalies, 3)
	require.Equal(t, 1, anomalies[0].Index)
	require.Equal(t, "missing row or col", anomalies[0].Reason)
	require.Equal(t, "outside grid", anomalies[1].Reason)
	require.Equal(t, 2, out.Count(Path))
}

func TestOverlayEmptyRoute(t *testing.T) {
	t.Parallel()

	g := MustNew(2, 2)
	out, anomalies := Overlay(g, nil)
	require.Empty(t, anomalies)
	require.True(t, g.Equal(out))
	require.NotSame(t, g, out)
}

func TestPathPointString(t *testing.T) {
	t.Parallel()

	col := 4
	require.Equal(t, "(1,2)", Pt(1, 2).String())
	require.Equal(t, "(?,4)", PathPoint{Col: &col}.String())
}
