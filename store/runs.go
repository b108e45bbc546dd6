package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScrapeRun records one execution of a scrape job.
type ScrapeRun struct {
	RunID      uuid.UUID  `json:"run_id"`
	Job        string     `json:"job"`
	Acadsem    string     `json:"acadsem,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Records    int        `json:"records"`
	Error      *string    `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without an error.
func (r *ScrapeRun) Succeeded() bool {
	return r.FinishedAt != nil && r.Error == nil
}

// RunFilter represents filtering options for listing scrape runs.
type RunFilter struct {
	Job     string
	Acadsem string
	Limit   int
	Offset  int
}

// StartRun records the start of a job.
func (s *Store) StartRun(ctx context.Context, job, acadsem string) (*ScrapeRun, error) {
	run := &ScrapeRun{
		RunID:     uuid.New(),
		Job:       job,
		Acadsem:   acadsem,
		StartedAt: time.Now().Truncate(0),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scrape_runs (run_id, job, acadsem, started_at) VALUES (?, ?, ?, ?)",
		run.RunID.String(), run.Job, run.Acadsem, formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scrape run: %w", err)
	}

	return run, nil
}

// FinishRun records the outcome of a job. runErr is nil on success.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, records int, runErr error) error {
	now := time.Now()
	var errText *string
	if runErr != nil {
		msg := runErr.Error()
		errText = &msg
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE scrape_runs SET finished_at = ?, records = ?, error = ? WHERE run_id = ?",
		formatTime(&now), records, errText, runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update scrape run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// ListRuns lists scrape runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) (Page[ScrapeRun], error) {
	var f whereFilter
	f.eq("job", filter.Job)
	f.eq("acadsem", filter.Acadsem)

	total, err := s.count(ctx, "scrape_runs", &f)
	if err != nil {
		return Page[ScrapeRun]{}, err
	}

	query := `
		SELECT run_id, job, acadsem, started_at, finished_at, records, error
		FROM scrape_runs` + f.where() + `
		ORDER BY rowid DESC` + paginate(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return Page[ScrapeRun]{}, fmt.Errorf("failed to query scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []ScrapeRun
	for rows.Next() {
		var runIDStr, startedAt string
		var finishedAt, errText sql.NullString
		var run ScrapeRun
		if err := rows.Scan(&runIDStr, &run.Job, &run.Acadsem, &startedAt, &finishedAt, &run.Records, &errText); err != nil {
			return Page[ScrapeRun]{}, fmt.Errorf("failed to scan scrape run: %w", err)
		}

		run.RunID, err = uuid.Parse(runIDStr)
		if err != nil {
			return Page[ScrapeRun]{}, fmt.Errorf("failed to parse run ID: %w", err)
		}
		run.StartedAt = parseTime(startedAt)
		if finishedAt.Valid {
			t := parseTime(finishedAt.String)
			run.FinishedAt = &t
		}
		run.Error = nullString(errText)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return Page[ScrapeRun]{}, fmt.Errorf("failed to read scrape runs: %w", err)
	}

	return newPage(total, runs), nil
}
