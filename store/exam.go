package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// ExamFilter represents filtering options for listing exams.
type ExamFilter struct {
	Acadsem     string
	CourseCode  string
	StudentType string
	Limit       int
	Offset      int
}

// SaveExams upserts exam records, overwriting every column including the
// nullable ones. A later scrape that finds the type legend fills in exam
// types for rows stored before it was published.
func (s *Store) SaveExams(ctx context.Context, exams []model.ExamRecord) error {
	if err := validateBatch(s.validate, "exam", exams); err != nil {
		return err
	}

	query := `
		INSERT INTO exams (
			course_code, acadsem, student_type, title, date, time, duration,
			venue, seat_no, exam_type, academic_session, plan_no, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (course_code, acadsem, student_type) DO UPDATE SET
			title = excluded.title,
			date = excluded.date,
			time = excluded.time,
			duration = excluded.duration,
			venue = excluded.venue,
			seat_no = excluded.seat_no,
			exam_type = excluded.exam_type,
			academic_session = excluded.academic_session,
			plan_no = excluded.plan_no,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare exam upsert: %w", err)
		}
		defer stmt.Close()

		for _, e := range exams {
			_, err := stmt.ExecContext(ctx,
				e.CourseCode, e.Acadsem, string(e.StudentType), e.Title, e.Date, e.Time,
				e.Duration, e.Venue, e.SeatNo, e.ExamType, e.AcademicSession, e.PlanNo,
				formatTime(&now),
			)
			if err != nil {
				return fmt.Errorf("failed to upsert exam %s/%s: %w", e.CourseCode, e.Acadsem, err)
			}
		}
		return nil
	})
}

// QueryExams lists exams matching filter in timetable order.
func (s *Store) QueryExams(ctx context.Context, filter ExamFilter) (Page[model.ExamRecord], error) {
	var f whereFilter
	f.eq("acadsem", filter.Acadsem)
	f.eq("course_code", filter.CourseCode)
	f.eq("student_type", filter.StudentType)

	total, err := s.count(ctx, "exams", &f)
	if err != nil {
		return Page[model.ExamRecord]{}, err
	}

	query := `
		SELECT course_code, acadsem, student_type, title, date, time, duration,
		       venue, seat_no, exam_type, academic_session, plan_no, updated_at
		FROM exams` + f.where() + `
		ORDER BY acadsem DESC, course_code, student_type` + paginate(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return Page[model.ExamRecord]{}, fmt.Errorf("failed to query exams: %w", err)
	}
	defer rows.Close()

	var exams []model.ExamRecord
	for rows.Next() {
		var e model.ExamRecord
		var studentType, updatedAt string
		var title, venue, seatNo, examType sql.NullString
		err := rows.Scan(
			&e.CourseCode, &e.Acadsem, &studentType, &title, &e.Date, &e.Time, &e.Duration,
			&venue, &seatNo, &examType, &e.AcademicSession, &e.PlanNo, &updatedAt,
		)
		if err != nil {
			return Page[model.ExamRecord]{}, fmt.Errorf("failed to scan exam: %w", err)
		}
		e.StudentType = model.StudentType(studentType)
		e.Title = nullString(title)
		e.Venue = nullString(venue)
		e.SeatNo = nullString(seatNo)
		e.ExamType = nullString(examType)
		e.UpdatedAt = parseTime(updatedAt)
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return Page[model.ExamRecord]{}, fmt.Errorf("failed to read exams: %w", err)
	}

	return newPage(total, exams), nil
}
