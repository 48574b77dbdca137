package repository

import "time"

// Outcome values stored for a run.
const (
	OutcomeFound     = "found"
	OutcomeNoPath    = "no_path"
	OutcomeTransport = "transport_error"
	OutcomeService   = "service_error"
	OutcomeFailed    = "failed"
)

// Run represents a runs row: one pathfinding request and how it ended.
type Run struct {
	ID         string
	Algorithm  string
	Rows       int
	Cols       int
	StartRow   int
	StartCol   int
	EndRow     int
	EndCol     int
	Walls      int
	Outcome    string
	PathLength int
	Message    *string
	Duration   time.Duration
	CreatedAt  time.Time
}

// AlgorithmStats aggregates runs per algorithm.
type AlgorithmStats struct {
	Algorithm     string
	Runs          int
	Found         int
	AvgPathLength float64
	AvgDuration   time.Duration
}
