package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidAcadsem is returned when a semester identifier is in none of the
// known encodings.
var ErrInvalidAcadsem = errors.New("invalid academic semester identifier")

// acadsemPattern accepts the canonical "2025_2" form and the "2025;2" form
// used by the schedule sub-portal.
var acadsemPattern = regexp.MustCompile(`^\s*(\d{4})\s*[_;]\s*([0-9A-Za-z]+)\s*$`)

// Acadsem identifies one academic semester. The canonical string form is
// "{yyyy}_{code}", e.g. "2025_2".
type Acadsem struct {
	Year     int
	Semester string
}

// ParseAcadsem parses any of the portal's semester encodings.
func ParseAcadsem(s string) (Acadsem, error) {
	m := acadsemPattern.FindStringSubmatch(s)
	if m == nil {
		return Acadsem{}, fmt.Errorf("%w: %q", ErrInvalidAcadsem, s)
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Acadsem{}, fmt.Errorf("%w: %q", ErrInvalidAcadsem, s)
	}

	return Acadsem{Year: year, Semester: m[2]}, nil
}

// MustParseAcadsem is ParseAcadsem for constants and tests.
func MustParseAcadsem(s string) Acadsem {
	a, err := ParseAcadsem(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical form.
func (a Acadsem) String() string {
	return fmt.Sprintf("%04d_%s", a.Year, a.Semester)
}

// ScheduleParam returns the "yyyy;code" form expected by the class schedule
// form.
func (a Acadsem) ScheduleParam() string {
	return fmt.Sprintf("%04d;%s", a.Year, a.Semester)
}

// IsCanonical reports whether s is already in canonical form.
func IsCanonical(s string) bool {
	a, err := ParseAcadsem(s)
	if err != nil {
		return false
	}
	return a.String() == s
}
