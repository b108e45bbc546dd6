package model

import "time"

// Exam types as published in the exam timetable legend.
const (
	ExamRestrictedOpenBook = "Restricted Open Book"
	ExamOpenBook           = "Open Book"
	ExamClosedBook         = "Closed Book"
)

// StudentType selects which exam timetable a record came from.
type StudentType string

const (
	Undergraduate StudentType = "undergraduate"
	Graduate      StudentType = "graduate"
)

// Valid reports whether t is one of the known student types.
func (t StudentType) Valid() bool {
	return t == Undergraduate || t == Graduate
}

// ExamRecord is one exam timetable entry. Key is (CourseCode, Acadsem,
// StudentType). Title, Venue, SeatNo and ExamType are nil when unknown.
type ExamRecord struct {
	CourseCode      string      `json:"course_code" validate:"required,min=3,max=16"`
	Acadsem         string      `json:"acadsem" validate:"required,acadsem"`
	StudentType     StudentType `json:"student_type" validate:"required,oneof=undergraduate graduate"`
	Title           *string     `json:"title"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Duration        string      `json:"duration"`
	Venue           *string     `json:"venue"`
	SeatNo          *string     `json:"seat_no"`
	ExamType        *string     `json:"exam_type" validate:"omitnil,oneof='Restricted Open Book' 'Open Book' 'Closed Book'"`
	AcademicSession string      `json:"academic_session"`
	PlanNo          string      `json:"plan_no"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ExamPlan describes one published exam plan. On the plan selection page
// only PlanNo and Label are known; on a result page the remaining fields are
// filled from hidden inputs or the academic session text.
type ExamPlan struct {
	PlanNo          string `json:"plan_no"`
	Label           string `json:"label,omitempty"`
	AcademicSession string `json:"academic_session,omitempty"`
	ExamYear        string `json:"exam_year,omitempty"`
	Semester        string `json:"semester,omitempty"`
}
