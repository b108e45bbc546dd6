package model

import "time"

// CourseOffering is one course's content entry for a semester. Key is
// (CourseCode, Acadsem).
type CourseOffering struct {
	CourseCode                     string    `json:"course_code" validate:"required,max=16"`
	Acadsem                        string    `json:"acadsem" validate:"required,acadsem"`
	Title                          string    `json:"title"`
	AU                             *float64  `json:"au"`
	Description                    string    `json:"description"`
	Prerequisites                  string    `json:"prerequisites"`
	MutuallyExclusiveWith          string    `json:"mutually_exclusive_with"`
	Department                     string    `json:"department"`
	NotAvailableToProgramme        string    `json:"not_available_to_programme"`
	NotAvailableToAllProgrammeWith string    `json:"not_available_to_all_programme_with"`
	NotAvailableAsBDEUEToProgramme string    `json:"not_available_as_bde_ue_to_programme"`
	UnrestrictedElective           bool      `json:"unrestricted_elective"`
	BroadeningDeepeningElective    bool      `json:"broadening_deepening_elective"`
	GradeType                      string    `json:"grade_type"`
	UpdatedAt                      time.Time `json:"updated_at"`
}

// NewCourseOffering returns an offering with both elective flags set, which
// is the portal's default until a negative marker row says otherwise.
func NewCourseOffering(code, acadsem string) CourseOffering {
	return CourseOffering{
		CourseCode:                  code,
		Acadsem:                     acadsem,
		UnrestrictedElective:        true,
		BroadeningDeepeningElective: true,
	}
}
