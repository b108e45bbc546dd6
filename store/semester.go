package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// SaveSemesters upserts the semester catalogue.
func (s *Store) SaveSemesters(ctx context.Context, semesters []model.SemesterDescriptor) error {
	if err := validateBatch(s.validate, "semester", semesters); err != nil {
		return err
	}

	query := `
		INSERT INTO semesters (year, semester, label, value, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (year, semester) DO UPDATE SET
			label = excluded.label,
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, sem := range semesters {
			_, err := tx.ExecContext(ctx, query, sem.Year, sem.Semester, sem.Label, sem.Value, formatTime(&now))
			if err != nil {
				return fmt.Errorf("failed to upsert semester %s: %w", sem.Value, err)
			}
		}
		return nil
	})
}

// ListSemesters returns every known semester, newest first.
func (s *Store) ListSemesters(ctx context.Context) ([]model.SemesterDescriptor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, semester, label, value, updated_at
		FROM semesters
		ORDER BY year DESC, semester DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query semesters: %w", err)
	}
	defer rows.Close()

	semesters := []model.SemesterDescriptor{}
	for rows.Next() {
		var sem model.SemesterDescriptor
		var updatedAt string
		if err := rows.Scan(&sem.Year, &sem.Semester, &sem.Label, &sem.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan semester: %w", err)
		}
		sem.UpdatedAt = parseTime(updatedAt)
		semesters = append(semesters, sem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read semesters: %w", err)
	}

	return semesters, nil
}

// RecentSemesters returns the stored semesters of the newest years.
func (s *Store) RecentSemesters(ctx context.Context, years int) ([]model.SemesterDescriptor, error) {
	all, err := s.ListSemesters(ctx)
	if err != nil {
		return nil, err
	}
	return model.RecentSemesters(all, years), nil
}
