package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/labyrinth/internal/database"
)

// RunRepo handles run history.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Insert(ctx context.Context, run Run) error {
	created := run.CreatedAt
	if created.IsZero() {
		created = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO runs(
	 id, algorithm, rows, cols, start_row, start_col, end_row, end_col,
	 walls, outcome, path_length, message, duration_ms, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		run.ID, run.Algorithm, run.Rows, run.Cols, run.StartRow, run.StartCol, run.EndRow, run.EndCol,
		run.Walls, run.Outcome, run.PathLength, run.Message, run.Duration.Milliseconds(), created)
	return err
}

// List returns the most recent runs first. limit <= 0 returns all of them.
func (r *RunRepo) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, algorithm, rows, cols, start_row, start_col, end_row, end_col,
	 walls, outcome, path_length, message, duration_ms, created_at
	FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var run Run
		var ms int64
		if err := rows.Scan(&run.ID, &run.Algorithm, &run.Rows, &run.Cols, &run.StartRow, &run.StartCol,
			&run.EndRow, &run.EndCol, &run.Walls, &run.Outcome, &run.PathLength, &run.Message, &ms, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// Stats aggregates runs by algorithm. Path length averages only count runs
// that found a path.
func (r *RunRepo) Stats(ctx context.Context) ([]AlgorithmStats, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT algorithm,
	 COUNT(*),
	 SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
	 COALESCE(AVG(CASE WHEN outcome = ? THEN path_length END), 0),
	 COALESCE(AVG(duration_ms), 0)
	FROM runs GROUP BY algorithm ORDER BY algorithm`, OutcomeFound, OutcomeFound)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AlgorithmStats
	for rows.Next() {
		var s AlgorithmStats
		var avgMs float64
		if err := rows.Scan(&s.Algorithm, &s.Runs, &s.Found, &s.AvgPathLength, &avgMs); err != nil {
			return nil, err
		}
		s.AvgDuration = time.Duration(avgMs * float64(time.Millisecond))
		out = append(out, s)
	}
	return out, rows.Err()
}
