package portal

import (
	"strconv"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// Endpoints are the portal pages the scrapers use.
type Endpoints struct {
	ContentIndex      string `yaml:"content_index"`
	ContentSearch     string `yaml:"content_search"`
	ScheduleIndex     string `yaml:"schedule_index"`
	ScheduleSearch    string `yaml:"schedule_search"`
	ExamPlans         string `yaml:"exam_plans"`
	ExamTimetable     string `yaml:"exam_timetable"`
	GradExamPlans     string `yaml:"grad_exam_plans"`
	GradExamTimetable string `yaml:"grad_exam_timetable"`
	Vacancy           string `yaml:"vacancy"`
}

// DefaultEndpoints point at the public portal.
var DefaultEndpoints = Endpoints{
	ContentIndex:      "https://wis.ntu.edu.sg/webexe/owa/AUS_SUBJ_CONT.main_display",
	ContentSearch:     "https://wis.ntu.edu.sg/webexe/owa/AUS_SUBJ_CONT.main_display1",
	ScheduleIndex:     "https://wish.wis.ntu.edu.sg/webexe/owa/aus_schedule.main",
	ScheduleSearch:    "https://wish.wis.ntu.edu.sg/webexe/owa/AUS_SCHEDULE.main_display1",
	ExamPlans:         "https://wis.ntu.edu.sg/webexe/owa/exam_timetable_und.main",
	ExamTimetable:     "https://wis.ntu.edu.sg/webexe/owa/exam_timetable_und.Get_detail",
	GradExamPlans:     "https://wis.ntu.edu.sg/webexe/owa/exam_timetable_grad.main",
	GradExamTimetable: "https://wis.ntu.edu.sg/webexe/owa/exam_timetable_grad.Get_detail",
	Vacancy:           "https://wish.wis.ntu.edu.sg/webexe/owa/aus_vacancy.check_vacancy2",
}

// Form field names the parsers read back from index pages.
const (
	FieldAcadsem   = "acadsem"
	FieldProgramme = "r_course_yr"
)

// ExamPlanURLs returns the plan selection and timetable pages for a student
// type.
func (e Endpoints) ExamPlanURLs(t model.StudentType) (plans, timetable string) {
	if t == model.Graduate {
		return e.GradExamPlans, e.GradExamTimetable
	}
	return e.ExamPlans, e.ExamTimetable
}

// ContentForm searches course content for one programme. The content
// sub-portal takes the canonical "yyyy_s" identifier as is.
func ContentForm(acadsem model.Acadsem, programme string) map[string]string {
	return map[string]string{
		"acadsem":       acadsem.String(),
		"r_course_yr":   programme,
		"r_subj_code":   "",
		"boption":       "CLoad",
		"acad":          strconv.Itoa(acadsem.Year),
		"semester":      acadsem.Semester,
		"r_search_type": "F",
	}
}

// ScheduleForm searches class schedules for one programme. The schedule
// sub-portal wants "yyyy;s".
func ScheduleForm(acadsem model.Acadsem, programme string) map[string]string {
	return map[string]string{
		"acadsem":       acadsem.ScheduleParam(),
		"r_course_yr":   programme,
		"r_subj_code":   "Enter Keywords or Course Code",
		"r_search_type": "F",
		"boption":       "CLoad",
		"staff_access":  "false",
	}
}

// ExamForm requests the full timetable of one exam plan.
func ExamForm(planNo string) map[string]string {
	return map[string]string{
		"p_plan_no":    planNo,
		"p_exam_dt":    "",
		"p_start_time": "",
		"p_dept":       "",
		"p_subj":       "",
		"p_venue":      "",
		"p_matric":     "",
		"bOption":      "Next",
	}
}

// VacancyForm checks the vacancies of one course.
func VacancyForm(courseCode string) map[string]string {
	return map[string]string{"subj": courseCode}
}
