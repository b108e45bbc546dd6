// Package store persists scraped records in SQLite. Each entity type has its
// own write strategy, chosen by how the portal's data for it changes:
//
//   - content and semesters are upserted and never removed (SaveContent,
//     SaveSemesters)
//   - schedules are replaced wholesale per course (SaveSchedules)
//   - exams are upserted with every column overwritten, nulls included
//     (SaveExams)
//
// Every Save call validates the whole batch first and then writes it in a
// single transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for store operations
var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrRunNotFound   = errors.New("scrape run not found")
)

// Store manages scraped data using SQLite.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
}

// Page is one page of a filtered listing. Total counts every matching row,
// Count only the rows returned.
type Page[T any] struct {
	Total int `json:"total"`
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}

func newPage[T any](total int, rows []T) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Total: total, Count: len(rows), Rows: rows}
}

// NewStore opens (creating if needed) the database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, validate: newValidator()}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS course_content (
		course_code TEXT NOT NULL,
		acadsem TEXT NOT NULL,
		title TEXT NOT NULL,
		au REAL,
		description TEXT NOT NULL DEFAULT '',
		prerequisites TEXT NOT NULL DEFAULT '',
		mutually_exclusive_with TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		not_available_to_programme TEXT NOT NULL DEFAULT '',
		not_available_to_all_programme_with TEXT NOT NULL DEFAULT '',
		not_available_as_bde_ue_to_programme TEXT NOT NULL DEFAULT '',
		unrestricted_elective INTEGER NOT NULL DEFAULT 1,
		broadening_deepening_elective INTEGER NOT NULL DEFAULT 1,
		grade_type TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (course_code, acadsem)
	);

	CREATE TABLE IF NOT EXISTS schedule_sections (
		course_code TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		acadsem TEXT NOT NULL,
		idx TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		grp TEXT NOT NULL DEFAULT '',
		day TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		remark TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		UNIQUE (idx, course_code, acadsem, type, day, time, venue)
	);
	CREATE INDEX IF NOT EXISTS schedule_sections_course
		ON schedule_sections (course_code, acadsem);

	CREATE TABLE IF NOT EXISTS exams (
		course_code TEXT NOT NULL,
		acadsem TEXT NOT NULL,
		student_type TEXT NOT NULL,
		title TEXT,
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT '',
		venue TEXT,
		seat_no TEXT,
		exam_type TEXT,
		academic_session TEXT NOT NULL DEFAULT '',
		plan_no TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (course_code, acadsem, student_type)
	);

	CREATE TABLE IF NOT EXISTS semesters (
		year INTEGER NOT NULL,
		semester TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (year, semester)
	);

	CREATE TABLE IF NOT EXISTS scrape_runs (
		run_id TEXT PRIMARY KEY,
		job TEXT NOT NULL,
		acadsem TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT,
		records INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside one transaction, rolling back if it fails. The
// transaction ignores cancellation of ctx: a batch is never abandoned
// halfway through.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// newValidator returns a validator that knows the "acadsem" tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("acadsem", func(fl validator.FieldLevel) bool {
		return model.IsCanonical(fl.Field().String())
	})
	return v
}

// validateBatch checks every record before anything is written.
func validateBatch[T any](v *validator.Validate, kind string, records []T) error {
	for i := range records {
		if err := v.Struct(records[i]); err != nil {
			return fmt.Errorf("%w: %s #%d: %v", ErrInvalidRecord, kind, i, err)
		}
	}
	return nil
}

// whereFilter accumulates WHERE clauses for the list queries.
type whereFilter struct {
	clauses []string
	args    []any
}

// eq adds "col = value" unless value is empty.
func (f *whereFilter) eq(col, value string) {
	if value == "" {
		return
	}
	f.clauses = append(f.clauses, col+" = ?")
	f.args = append(f.args, value)
}

// like adds a case-insensitive substring match unless value is empty.
func (f *whereFilter) like(value string, cols ...string) {
	if value == "" {
		return
	}
	var ors []string
	for _, col := range cols {
		ors = append(ors, col+" LIKE ?")
		f.args = append(f.args, "%"+value+"%")
	}
	f.clauses = append(f.clauses, "("+strings.Join(ors, " OR ")+")")
}

func (f *whereFilter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// count returns the number of rows in table matching the filter.
func (s *Store) count(ctx context.Context, table string, f *whereFilter) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+f.where(), f.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}

func paginate(limit, offset int) string {
	var clause string
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", limit)
		if offset > 0 {
			clause += fmt.Sprintf(" OFFSET %d", offset)
		}
	}
	return clause
}

// Helper functions for time formatting
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
