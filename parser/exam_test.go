package parser

import (
	"testing"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examTable = `<table>
<tr><th>Date</th><th>Day</th><th>Time</th><th>Course</th><th>Course Title</th><th>Duration</th></tr>
<tr><td>25 November 2025</td><td>TUE</td><td>9.00 am</td><td>AB1234*</td><td>SOME COURSE</td><td>2 hr</td></tr>
<tr><td>26 November 2025</td><td>WED</td><td>1.00 pm</td><td>cd5678+</td><td>OTHER COURSE</td><td>2.5 hr</td></tr>
<tr><td>27 November 2025</td><td>THU</td><td>5.00 pm</td><td>EF9012</td><td>THIRD COURSE</td><td>2 hr</td></tr>
</table>`

const examLegend = `<p>* Restricted Open Book &nbsp; + Open Book</p>`

var examCtx = ExamContext{
	Acadsem:         "2025_1",
	StudentType:     model.Undergraduate,
	PlanNo:          "113",
	AcademicSession: "Semester 1 Academic Year 2025-2026",
}

// TestParseExams_WithLegend verifies suffixes map to exam types once the
// legend is published
func TestParseExams_WithLegend(t *testing.T) {
	records := ParseExams(`<html><body>`+examTable+examLegend+`</body></html>`, examCtx)

	require.Len(t, records, 3)

	assert.Equal(t, "AB1234", records[0].CourseCode)
	require.NotNil(t, records[0].ExamType)
	assert.Equal(t, model.ExamRestrictedOpenBook, *records[0].ExamType)

	assert.Equal(t, "CD5678", records[1].CourseCode)
	require.NotNil(t, records[1].ExamType)
	assert.Equal(t, model.ExamOpenBook, *records[1].ExamType)

	assert.Equal(t, "EF9012", records[2].CourseCode)
	require.NotNil(t, records[2].ExamType)
	assert.Equal(t, model.ExamClosedBook, *records[2].ExamType)
}

// TestParseExams_WithoutLegend verifies suffixes are stripped but no type is
// inferred
func TestParseExams_WithoutLegend(t *testing.T) {
	records := ParseExams(examTable, examCtx)

	require.Len(t, records, 3)
	assert.Equal(t, "AB1234", records[0].CourseCode)
	assert.Equal(t, "CD5678", records[1].CourseCode)
	for _, r := range records {
		assert.Nil(t, r.ExamType, r.CourseCode)
	}
}

// TestParseExams_PositionalColumns verifies wide rows are read by position
// and carry the page context
func TestParseExams_PositionalColumns(t *testing.T) {
	page := `<table>
	<tr><th>Date</th><th>Day</th><th>Time</th><th>Course</th><th>Course Title</th><th>Duration</th><th>Venue</th></tr>
	<tr><td>1 December 2025</td><td>MON</td><td>9.00 am</td><td>SC2008</td><td>COMPUTER NETWORK</td><td>2 hr</td><td>HALL A</td></tr>
	</table>`

	records := ParseExams(page, examCtx)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "SC2008", r.CourseCode)
	assert.Equal(t, "1 December 2025", r.Date)
	assert.Equal(t, "9.00 am", r.Time)
	assert.Equal(t, "2 hr", r.Duration)
	require.NotNil(t, r.Title)
	assert.Equal(t, "COMPUTER NETWORK", *r.Title)
	require.NotNil(t, r.Venue)
	assert.Equal(t, "HALL A", *r.Venue)
	assert.Equal(t, "2025_1", r.Acadsem)
	assert.Equal(t, model.Undergraduate, r.StudentType)
	assert.Equal(t, "113", r.PlanNo)
	assert.Equal(t, "Semester 1 Academic Year 2025-2026", r.AcademicSession)
}

// TestParseExams_NarrowRowsUseHeader verifies short rows are mapped using
// the header text
func TestParseExams_NarrowRowsUseHeader(t *testing.T) {
	page := `<table>
	<tr><th>Course Code</th><th>Date</th><th>Time</th><th>Venue</th></tr>
	<tr><td>MH1100</td><td>2 December 2025</td><td>2.30 pm</td><td>SPORTS HALL</td></tr>
	</table>`

	records := ParseExams(page, examCtx)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "MH1100", r.CourseCode)
	assert.Equal(t, "2 December 2025", r.Date)
	assert.Equal(t, "2.30 pm", r.Time)
	require.NotNil(t, r.Venue)
	assert.Equal(t, "SPORTS HALL", *r.Venue)
	assert.Nil(t, r.Title)
}

// TestParseExams_SkipsNoise verifies restated headers, short codes and
// unrelated tables are ignored
func TestParseExams_SkipsNoise(t *testing.T) {
	page := `<table><tr><td>Name</td><td>Matric</td></tr><tr><td>A</td><td>B</td></tr></table>
	<table>
	<tr><th>Date</th><th>Day</th><th>Time</th><th>Course</th><th>Course Title</th><th>Duration</th></tr>
	<tr><td>DATE</td><td>DAY</td><td>TIME</td><td>COURSE</td><td>TITLE</td><td>DURATION</td></tr>
	<tr><td>1 Dec</td><td>MON</td><td>9 am</td><td>AB</td><td>TOO SHORT</td><td>1 hr</td></tr>
	<tr><td>1 Dec</td><td>MON</td></tr>
	<tr><td>1 Dec</td><td>MON</td><td>9 am</td><td>GH3456</td><td>KEPT</td><td>1 hr</td></tr>
	</table>`

	records := ParseExams(page, examCtx)

	require.Len(t, records, 1)
	assert.Equal(t, "GH3456", records[0].CourseCode)
}

// TestParseExams_NoSuffixIsClosedBook verifies a code without a suffix is
// closed book whatever the rest of the row says
func TestParseExams_NoSuffixIsClosedBook(t *testing.T) {
	page := `<table>
	<tr><th>Date</th><th>Day</th><th>Time</th><th>Course</th><th>Course Title</th><th>Duration</th></tr>
	<tr><td>1 Dec</td><td>MON</td><td>9 am</td><td>AB1000</td><td>RESTRICTED SPACES IN URBAN DESIGN</td><td>2 hr</td></tr>
	<tr><td>1 Dec</td><td>MON</td><td>9 am</td><td>AB2000</td><td>ART (Open Book)</td><td>2 hr</td></tr>
	</table>` + examLegend

	records := ParseExams(page, examCtx)

	require.Len(t, records, 2)
	for _, r := range records {
		require.NotNil(t, r.ExamType, r.CourseCode)
		assert.Equal(t, model.ExamClosedBook, *r.ExamType, r.CourseCode)
	}
}

// TestParseExams_NarrowRowsCourseTitleHeader verifies a "Course Title"
// column fills the title and leaves the code column alone
func TestParseExams_NarrowRowsCourseTitleHeader(t *testing.T) {
	page := `<table>
	<tr><th>Course Code</th><th>Course Title</th><th>Date</th><th>Time</th></tr>
	<tr><td>MH1100</td><td>CALCULUS I</td><td>2 December 2025</td><td>2.30 pm</td></tr>
	</table>`

	records := ParseExams(page, examCtx)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "MH1100", r.CourseCode)
	require.NotNil(t, r.Title)
	assert.Equal(t, "CALCULUS I", *r.Title)
	assert.Equal(t, "2 December 2025", r.Date)
	assert.Equal(t, "2.30 pm", r.Time)
}

// TestParseExamPlans_Radios verifies plan selection pages yield one plan per
// radio with a fallback label
func TestParseExamPlans_Radios(t *testing.T) {
	page := `<form>
	<input type="radio" name="p_plan_no" value="113">Semester 1 2025-2026 (Undergraduate)<br>
	<input type="RADIO" name="p_plan_no" value="114">
	</form>`

	plans := ParseExamPlans(page)

	require.Len(t, plans, 2)
	assert.Equal(t, model.ExamPlan{PlanNo: "113", Label: "Semester 1 2025-2026 (Undergraduate)"}, plans[0])
	assert.Equal(t, model.ExamPlan{PlanNo: "114", Label: "Plan 114"}, plans[1])
}

// TestParseExamPlans_HiddenFields verifies timetable pages yield a single
// plan and derive year and semester from the session text
func TestParseExamPlans_HiddenFields(t *testing.T) {
	page := `<form>
	<input type="hidden" name="p_plan_no" value="105">
	<input type="hidden" name="academic_session" value="Semester 2 Academic Year 2024-2025">
	</form>`

	plans := ParseExamPlans(page)

	require.Len(t, plans, 1)
	assert.Equal(t, model.ExamPlan{
		PlanNo:          "105",
		AcademicSession: "Semester 2 Academic Year 2024-2025",
		ExamYear:        "2025",
		Semester:        "2",
	}, plans[0])
}

// TestParseExamPlans_SelectedSession verifies the selected option wins and
// explicit fields are not overridden
func TestParseExamPlans_SelectedSession(t *testing.T) {
	page := `<form>
	<input type="hidden" name="p_plan_no" value="105">
	<input type="hidden" name="p_exam_yr" value="2024">
	<select name="academic_session">
	<option value="Semester 1 Academic Year 2025-2026">S1</option>
	<option value="Semester 2 Academic Year 2024-2025" selected>S2</option>
	</select>
	</form>`

	plans := ParseExamPlans(page)

	require.Len(t, plans, 1)
	assert.Equal(t, "Semester 2 Academic Year 2024-2025", plans[0].AcademicSession)
	assert.Equal(t, "2024", plans[0].ExamYear)
	assert.Equal(t, "2", plans[0].Semester)
}

// TestParseExamPlans_Empty verifies unrelated pages yield no plans
func TestParseExamPlans_Empty(t *testing.T) {
	plans := ParseExamPlans(`<html><body><p>Nothing here</p></body></html>`)

	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

// TestSessionAcadsem verifies the first calendar year names the semester
func TestSessionAcadsem(t *testing.T) {
	acadsem, ok := SessionAcadsem("Semester 2 Academic Year 2024-2025")
	require.True(t, ok)
	assert.Equal(t, "2024_2", acadsem)

	_, ok = SessionAcadsem("Special Term")
	assert.False(t, ok)
}
