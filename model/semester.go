package model

import (
	"slices"
	"time"
)

// SemesterDescriptor is one semester the portal knows about. Key is (Year,
// Semester).
type SemesterDescriptor struct {
	Year      int       `json:"year" validate:"min=1990,max=2999"`
	Semester  string    `json:"semester" validate:"required,alphanum"`
	Label     string    `json:"label"`
	Value     string    `json:"value" validate:"required,acadsem"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Acadsem returns the descriptor's identifier.
func (d SemesterDescriptor) Acadsem() Acadsem {
	return Acadsem{Year: d.Year, Semester: d.Semester}
}

// RecentSemesters keeps the semesters belonging to the most recent n distinct
// years, newest year first and in their original order within a year. A
// non-positive n keeps nothing.
func RecentSemesters(all []SemesterDescriptor, years int) []SemesterDescriptor {
	if years <= 0 {
		return nil
	}

	var distinct []int
	for _, d := range all {
		if !slices.Contains(distinct, d.Year) {
			distinct = append(distinct, d.Year)
		}
	}
	slices.SortFunc(distinct, func(a, b int) int { return b - a })
	if len(distinct) > years {
		distinct = distinct[:years]
	}

	var out []SemesterDescriptor
	for _, y := range distinct {
		for _, d := range all {
			if d.Year == y {
				out = append(out, d)
			}
		}
	}
	return out
}
