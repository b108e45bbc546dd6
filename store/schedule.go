package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// ScheduleFilter represents filtering options for listing schedule sections.
type ScheduleFilter struct {
	Acadsem    string
	CourseCode string
	Index      string
	Day        string
	Limit      int
	Offset     int
}

// SaveSchedules replaces the stored sections of every course in courses.
// Sections the portal no longer lists (cancelled classes) disappear.
func (s *Store) SaveSchedules(ctx context.Context, courses []model.ScheduleCourse) error {
	if err := validateBatch(s.validate, "schedule", courses); err != nil {
		return err
	}

	insert := `
		INSERT INTO schedule_sections (
			course_code, title, acadsem, idx, type, grp, day, time, venue, remark, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, course := range courses {
			_, err := tx.ExecContext(ctx,
				"DELETE FROM schedule_sections WHERE course_code = ? AND acadsem = ?",
				course.CourseCode, course.Acadsem,
			)
			if err != nil {
				return fmt.Errorf("failed to delete sections of %s/%s: %w", course.CourseCode, course.Acadsem, err)
			}

			for _, sec := range dedupSections(course.Sections()) {
				_, err := tx.ExecContext(ctx, insert,
					sec.CourseCode, sec.Title, sec.Acadsem, sec.Index, sec.Type, sec.Group,
					sec.Day, sec.Time, sec.Venue, sec.Remark, formatTime(&now),
				)
				if err != nil {
					return fmt.Errorf("failed to insert section %s of %s/%s: %w",
						sec.Index, sec.CourseCode, sec.Acadsem, err)
				}
			}
		}
		return nil
	})
}

// dedupSections keeps the first section seen for each key.
func dedupSections(sections []model.ScheduleSection) []model.ScheduleSection {
	seen := make(map[model.SectionKey]bool, len(sections))
	out := sections[:0]
	for _, sec := range sections {
		if seen[sec.Key()] {
			continue
		}
		seen[sec.Key()] = true
		out = append(out, sec)
	}
	return out
}

// QuerySchedules lists schedule sections matching filter, grouped by course
// and index.
func (s *Store) QuerySchedules(ctx context.Context, filter ScheduleFilter) (Page[model.ScheduleSection], error) {
	var f whereFilter
	f.eq("acadsem", filter.Acadsem)
	f.eq("course_code", filter.CourseCode)
	f.eq("idx", filter.Index)
	f.eq("day", filter.Day)

	total, err := s.count(ctx, "schedule_sections", &f)
	if err != nil {
		return Page[model.ScheduleSection]{}, err
	}

	// rowid keeps sections in the order they were scraped.
	query := `
		SELECT course_code, title, acadsem, idx, type, grp, day, time, venue, remark, updated_at
		FROM schedule_sections` + f.where() + `
		ORDER BY acadsem DESC, course_code, idx, rowid` + paginate(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return Page[model.ScheduleSection]{}, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var sections []model.ScheduleSection
	for rows.Next() {
		var sec model.ScheduleSection
		var updatedAt string
		err := rows.Scan(
			&sec.CourseCode, &sec.Title, &sec.Acadsem, &sec.Index, &sec.Type, &sec.Group,
			&sec.Day, &sec.Time, &sec.Venue, &sec.Remark, &updatedAt,
		)
		if err != nil {
			return Page[model.ScheduleSection]{}, fmt.Errorf("failed to scan section: %w", err)
		}
		sec.UpdatedAt = parseTime(updatedAt)
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return Page[model.ScheduleSection]{}, fmt.Errorf("failed to read schedules: %w", err)
	}

	return newPage(total, sections), nil
}
