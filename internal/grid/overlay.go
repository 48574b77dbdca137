package grid

import "fmt"

// PathPoint is one route entry as received from the pathfinding service.
// Either field may be missing in a malformed response.
type PathPoint struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// Pt builds a well-formed PathPoint.
func Pt(row, col int) PathPoint { return PathPoint{Row: &row, Col: &col} }

// Coord returns the point as a coordinate when both fields are present.
func (p PathPoint) Coord() (Coord, bool) {
	if p.Row == nil || p.Col == nil {
		return Coord{}, false
	}
	return Coord{Row: *p.Row, Col: *p.Col}, true
}

func (p PathPoint) String() string {
	row, col := "?", "?"
	if p.Row != nil {
		row = fmt.Sprint(*p.Row)
	}
	if p.Col != nil {
		col = fmt.Sprint(*p.Col)
	}
	return "(" + row + "," + col + ")"
}

// Anomaly describes a route entry that Overlay skipped.
type Anomaly struct {
	Index  int
	Point  PathPoint
	Reason string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("path[%d] %s: %s", a.Index, a.Point, a.Reason)
}

// Overlay returns a copy of snapshot with every route point that lands on an
// Empty cell marked Path. Start, End and Wall cells keep their state.
// Malformed or out-of-range points are skipped and reported; the rest of the
// route is still applied. snapshot is never modified.
func Overlay(snapshot *Grid, route []PathPoint) (*Grid, []Anomaly) {
	out := snapshot.Clone()
	var anomalies []Anomaly
	for i, p := range route {
		c, ok := p.Coord()
		if !ok {
			anomalies = append(anomalies, Anomaly{Index: i, Point: p, Reason: "missing row or col"})
			continue
		}
		if !out.InBounds(c) {
			anomalies = append(anomalies, Anomaly{Index: i, Point: p, Reason: "outside grid"})
			continue
		}
		idx := c.Row*out.cols + c.Col
		if out.cells[idx] == Empty {
			out.cells[idx] = Path
		}
	}
	return out, anomalies
}
