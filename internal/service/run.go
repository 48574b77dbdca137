package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/labyrinth/internal/database/repository"
	"github.com/jask/labyrinth/internal/grid"
	"github.com/jask/labyrinth/internal/pathfinding"
)

// Pathfinder is the run contract of the external service.
type Pathfinder interface {
	Run(ctx context.Context, g *grid.Grid, start, end *grid.Coord, algo pathfinding.Algorithm) ([]grid.PathPoint, error)
}

// RunService drives a run from snapshot to overlaid result and keeps the
// history. Runs are sequenced so a result that arrives after a newer run was
// prepared is flagged stale.
type RunService struct {
	Client Pathfinder
	Runs   *repository.RunRepo // optional
	Log    logrus.FieldLogger

	seq pathfinding.Sequencer
}

// Ticket is a prepared run. Snapshot is owned by the ticket and shares no
// storage with the live grid it was taken from.
type Ticket struct {
	Seq       uint64
	Algorithm pathfinding.Algorithm
	Snapshot  *grid.Grid
	Start     grid.Coord
	End       grid.Coord
	Issued    time.Time
}

// Outcome is the result of executing a ticket. Grid is always consistent:
// the overlaid route on success, otherwise the path-free snapshot.
type Outcome struct {
	Seq       uint64
	Algorithm pathfinding.Algorithm
	Grid      *grid.Grid
	Route     []grid.PathPoint
	Anomalies []grid.Anomaly
	Err       error
	Stale     bool
	Elapsed   time.Duration
}

// Prepare validates the endpoints of live and captures a path-free snapshot.
// It fails with pathfinding.ErrMissingEndpoints before anything is issued.
func (s *RunService) Prepare(live *grid.Grid, algo pathfinding.Algorithm) (Ticket, error) {
	start, okStart := live.Start()
	end, okEnd := live.End()
	if !okStart || !okEnd {
		return Ticket{}, pathfinding.ErrMissingEndpoints
	}
	return Ticket{
		Seq:       s.seq.Next(),
		Algorithm: algo,
		Snapshot:  live.ClearPath(),
		Start:     start,
		End:       end,
		Issued:    time.Now(),
	}, nil
}

// Execute sends the ticket to the service and overlays the route. It never
// mutates the ticket snapshot.
func (s *RunService) Execute(ctx context.Context, t Ticket) Outcome {
	log := s.logger().WithFields(logrus.Fields{"seq": t.Seq, "algorithm": t.Algorithm})
	start, end := t.Start, t.End

	began := time.Now()
	route, err := s.Client.Run(ctx, t.Snapshot, &start, &end, t.Algorithm)
	out := Outcome{
		Seq:       t.Seq,
		Algorithm: t.Algorithm,
		Grid:      t.Snapshot,
		Err:       err,
		Elapsed:   time.Since(began),
	}
	if err == nil {
		out.Route = route
		out.Grid, out.Anomalies = grid.Overlay(t.Snapshot, route)
		for _, a := range out.Anomalies {
			log.WithFields(logrus.Fields{"index": a.Index, "point": a.Point.String()}).
				Warnf("skipping malformed path point: %s", a.Reason)
		}
	} else if !pathfinding.IsRecoverable(err) {
		log.WithError(err).Error("run failed")
	}

	s.record(ctx, t, out)

	out.Stale = !s.seq.IsLatest(t.Seq)
	if out.Stale {
		log.WithField("latest", s.seq.Latest()).Debug("discarding stale result")
	}
	return out
}

// Run prepares and executes in one call.
func (s *RunService) Run(ctx context.Context, live *grid.Grid, algo pathfinding.Algorithm) (Outcome, error) {
	t, err := s.Prepare(live, algo)
	if err != nil {
		return Outcome{}, err
	}
	return s.Execute(ctx, t), nil
}

// IsLatest reports whether seq belongs to the newest prepared run.
func (s *RunService) IsLatest(seq uint64) bool { return s.seq.IsLatest(seq) }

// Invalidate marks every prepared run stale.
func (s *RunService) Invalidate() { s.seq.Invalidate() }

func (s *RunService) record(ctx context.Context, t Ticket, out Outcome) {
	if s.Runs == nil {
		return
	}
	run := repository.Run{
		ID:        uuid.NewString(),
		Algorithm: string(t.Algorithm),
		Rows:      t.Snapshot.Rows(),
		Cols:      t.Snapshot.Cols(),
		StartRow:  t.Start.Row,
		StartCol:  t.Start.Col,
		EndRow:    t.End.Row,
		EndCol:    t.End.Col,
		Walls:     t.Snapshot.Count(grid.Wall),
		Outcome:   classify(out.Err),
		Duration:  out.Elapsed,
	}
	if out.Err == nil {
		run.PathLength = len(out.Route) - len(out.Anomalies)
	} else {
		msg := out.Err.Error()
		run.Message = &msg
	}
	if err := s.Runs.Insert(ctx, run); err != nil {
		s.logger().WithError(err).WithField("seq", t.Seq).Warn("could not record run history")
	}
}

func classify(err error) string {
	var te *pathfinding.TransportError
	var se *pathfinding.ServiceError
	switch {
	case err == nil:
		return repository.OutcomeFound
	case errors.Is(err, pathfinding.ErrNoPathFound):
		return repository.OutcomeNoPath
	case errors.As(err, &te):
		return repository.OutcomeTransport
	case errors.As(err, &se):
		return repository.OutcomeService
	default:
		return repository.OutcomeFailed
	}
}

func (s *RunService) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
