package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// ContentFilter represents filtering options for listing course content.
type ContentFilter struct {
	Acadsem    string
	CourseCode string
	Department string
	Search     string // matched against code, title and description
	Limit      int
	Offset     int
}

// SaveContent upserts course content. A course missing from courses is left
// as it is: the portal never says a course was withdrawn, it just stops
// listing it.
func (s *Store) SaveContent(ctx context.Context, courses []model.CourseOffering) error {
	if err := validateBatch(s.validate, "course content", courses); err != nil {
		return err
	}

	query := `
		INSERT INTO course_content (
			course_code, acadsem, title, au, description, prerequisites,
			mutually_exclusive_with, department, not_available_to_programme,
			not_available_to_all_programme_with, not_available_as_bde_ue_to_programme,
			unrestricted_elective, broadening_deepening_elective, grade_type, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (course_code, acadsem) DO UPDATE SET
			title = excluded.title,
			au = excluded.au,
			description = excluded.description,
			prerequisites = excluded.prerequisites,
			mutually_exclusive_with = excluded.mutually_exclusive_with,
			department = excluded.department,
			not_available_to_programme = excluded.not_available_to_programme,
			not_available_to_all_programme_with = excluded.not_available_to_all_programme_with,
			not_available_as_bde_ue_to_programme = excluded.not_available_as_bde_ue_to_programme,
			unrestricted_elective = excluded.unrestricted_elective,
			broadening_deepening_elective = excluded.broadening_deepening_elective,
			grade_type = excluded.grade_type,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare content upsert: %w", err)
		}
		defer stmt.Close()

		for _, c := range courses {
			_, err := stmt.ExecContext(ctx,
				c.CourseCode, c.Acadsem, c.Title, c.AU, c.Description, c.Prerequisites,
				c.MutuallyExclusiveWith, c.Department, c.NotAvailableToProgramme,
				c.NotAvailableToAllProgrammeWith, c.NotAvailableAsBDEUEToProgramme,
				c.UnrestrictedElective, c.BroadeningDeepeningElective, c.GradeType,
				formatTime(&now),
			)
			if err != nil {
				return fmt.Errorf("failed to upsert content %s/%s: %w", c.CourseCode, c.Acadsem, err)
			}
		}
		return nil
	})
}

// QueryContent lists course content matching filter, ordered by semester
// (newest first) then course code.
func (s *Store) QueryContent(ctx context.Context, filter ContentFilter) (Page[model.CourseOffering], error) {
	var f whereFilter
	f.eq("acadsem", filter.Acadsem)
	f.eq("course_code", filter.CourseCode)
	f.eq("department", filter.Department)
	f.like(filter.Search, "course_code", "title", "description")

	total, err := s.count(ctx, "course_content", &f)
	if err != nil {
		return Page[model.CourseOffering]{}, err
	}

	query := `
		SELECT course_code, acadsem, title, au, description, prerequisites,
		       mutually_exclusive_with, department, not_available_to_programme,
		       not_available_to_all_programme_with, not_available_as_bde_ue_to_programme,
		       unrestricted_elective, broadening_deepening_elective, grade_type, updated_at
		FROM course_content` + f.where() + `
		ORDER BY acadsem DESC, course_code` + paginate(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return Page[model.CourseOffering]{}, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var courses []model.CourseOffering
	for rows.Next() {
		var c model.CourseOffering
		var au sql.NullFloat64
		var updatedAt string
		err := rows.Scan(
			&c.CourseCode, &c.Acadsem, &c.Title, &au, &c.Description, &c.Prerequisites,
			&c.MutuallyExclusiveWith, &c.Department, &c.NotAvailableToProgramme,
			&c.NotAvailableToAllProgrammeWith, &c.NotAvailableAsBDEUEToProgramme,
			&c.UnrestrictedElective, &c.BroadeningDeepeningElective, &c.GradeType, &updatedAt,
		)
		if err != nil {
			return Page[model.CourseOffering]{}, fmt.Errorf("failed to scan content: %w", err)
		}
		if au.Valid {
			c.AU = &au.Float64
		}
		c.UpdatedAt = parseTime(updatedAt)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return Page[model.CourseOffering]{}, fmt.Errorf("failed to read content: %w", err)
	}

	return newPage(total, courses), nil
}
