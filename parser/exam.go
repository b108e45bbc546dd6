package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// ExamContext is attached to every record parsed from one timetable page.
type ExamContext struct {
	Acadsem         string
	StudentType     model.StudentType
	PlanNo          string
	AcademicSession string
}

var (
	academicSessionPattern = regexp.MustCompile(`(?i)semester\s*(\d)\s+academic\s+year\s+(\d{4})\s*-\s*(\d{4})`)

	// Header labels that sometimes get restated in the middle of a table.
	genericHeaders = map[string]bool{
		"DATE":        true,
		"COURSE CODE": true,
		"COURSE":      true,
		"TIME":        true,
		"DAY":         true,
		"VENUE":       true,
	}
)

// ParseExamPlans reads exam plan metadata. A plan selection page yields one
// entry per p_plan_no radio; a timetable page yields a single entry built
// from its hidden fields. Anything else yields an empty slice.
func ParseExamPlans(page string) []model.ExamPlan {
	doc, ok := newDocument(page)
	if !ok {
		return []model.ExamPlan{}
	}

	if planRadios := radios(doc.Selection, "p_plan_no"); planRadios.Length() > 0 {
		plans := []model.ExamPlan{}
		planRadios.Each(func(_ int, input *goquery.Selection) {
			value := strings.TrimSpace(input.AttrOr("value", ""))
			if value == "" {
				return
			}
			label := radioLabel(input)
			if label == "" {
				label = "Plan " + value
			}
			plans = append(plans, model.ExamPlan{PlanNo: value, Label: label})
		})
		return plans
	}

	plan := model.ExamPlan{
		PlanNo:          inputValue(doc, "p_plan_no"),
		AcademicSession: academicSession(doc),
		ExamYear:        inputValue(doc, "p_exam_yr"),
		Semester:        inputValue(doc, "p_semester"),
	}
	if plan.PlanNo == "" && plan.AcademicSession == "" {
		return []model.ExamPlan{}
	}

	if plan.ExamYear == "" || plan.Semester == "" {
		if m := academicSessionPattern.FindStringSubmatch(plan.AcademicSession); m != nil {
			if plan.Semester == "" {
				plan.Semester = m[1]
			}
			if plan.ExamYear == "" {
				plan.ExamYear = m[3]
			}
		}
	}

	return []model.ExamPlan{plan}
}

// SessionAcadsem converts an academic session label such as "Semester 2
// Academic Year 2024-2025" to the canonical identifier "2024_2".
func SessionAcadsem(session string) (string, bool) {
	m := academicSessionPattern.FindStringSubmatch(session)
	if m == nil {
		return "", false
	}
	return m[2] + "_" + m[1], true
}

func inputValue(doc *goquery.Document, name string) string {
	return strings.TrimSpace(doc.Find(`input[name="` + name + `"]`).First().AttrOr("value", ""))
}

// academicSession prefers a hidden input, then the selected option, then the
// first option.
func academicSession(doc *goquery.Document) string {
	if v := inputValue(doc, "academic_session"); v != "" {
		return v
	}

	options := doc.Find(`select[name="academic_session"] option`)
	selected := options.FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr("selected")
		return ok
	}).First()
	if selected.Length() > 0 {
		return optionValue(selected)
	}
	return optionValue(options.First())
}

func optionValue(opt *goquery.Selection) string {
	if v := strings.TrimSpace(opt.AttrOr("value", "")); v != "" {
		return v
	}
	return normalize(opt.Text())
}

// hasExamLegend reports whether the page publishes the exam type legend.
// Until it does, suffixes on course codes carry no meaning.
func hasExamLegend(text string) bool {
	return strings.Contains(text, "Open Book") &&
		strings.Contains(text, "Restricted Open Book") &&
		strings.ContainsAny(text, "*+")
}

// ParseExams extracts exam timetable rows. Columns are positional: date,
// day, time, course code, title, duration and venue.
func ParseExams(page string, ctx ExamContext) []model.ExamRecord {
	doc, ok := newDocument(page)
	if !ok {
		return []model.ExamRecord{}
	}

	legend := hasExamLegend(doc.Text())

	records := []model.ExamRecord{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := tableRows(table)
		if rows.Length() == 0 {
			return
		}
		header := cellTexts(rows.First())
		for i := range header {
			header[i] = strings.ToLower(header[i])
		}
		if !isExamHeader(header) {
			return
		}

		rows.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			if rec, ok := parseExamRow(cellTexts(tr), header, legend, ctx); ok {
				records = append(records, rec)
			}
		})
	})

	return records
}

func isExamHeader(header []string) bool {
	for _, h := range header {
		if strings.Contains(h, "course") || strings.Contains(h, "date") ||
			strings.Contains(h, "time") || strings.Contains(h, "venue") {
			return true
		}
	}
	return false
}

// examColumns holds the raw cell values of one row.
type examColumns struct {
	date, time, code, title, duration, venue string
}

// columnsByHeader maps cells using the header text.
func columnsByHeader(cells, header []string) examColumns {
	var c examColumns
	for i, h := range header {
		v := at(cells, i)
		switch {
		case strings.Contains(h, "date"):
			c.date = v
		case strings.Contains(h, "duration"):
			c.duration = v
		case strings.Contains(h, "time"):
			c.time = v
		case strings.Contains(h, "title"):
			c.title = v
		case strings.Contains(h, "course") || strings.Contains(h, "code"):
			c.code = v
		case strings.Contains(h, "venue"):
			c.venue = v
		}
	}
	return c
}

// columnsByPosition is the layout every published timetable uses.
func columnsByPosition(cells []string) examColumns {
	return examColumns{
		date:     at(cells, 0),
		time:     at(cells, 2),
		code:     at(cells, 3),
		title:    at(cells, 4),
		duration: at(cells, 5),
		venue:    at(cells, 6),
	}
}

func parseExamRow(cells, header []string, legend bool, ctx ExamContext) (model.ExamRecord, bool) {
	if len(cells) < 3 || genericHeaders[strings.ToUpper(cells[0])] {
		return model.ExamRecord{}, false
	}

	cols := columnsByHeader(cells, header)
	if len(cells) >= 5 {
		cols = columnsByPosition(cells)
	}

	code, kind := examType(cols.code, strings.ToLower(strings.Join(cells, " ")), legend)
	if len(code) <= 2 {
		return model.ExamRecord{}, false
	}

	return model.ExamRecord{
		CourseCode:      strings.ToUpper(code),
		Acadsem:         ctx.Acadsem,
		StudentType:     ctx.StudentType,
		Title:           stringPtr(cols.title),
		Date:            cols.date,
		Time:            cols.time,
		Duration:        cols.duration,
		Venue:           stringPtr(cols.venue),
		ExamType:        kind,
		AcademicSession: ctx.AcademicSession,
		PlanNo:          ctx.PlanNo,
	}, true
}

// examType strips the legend suffix from a course code and infers the exam
// type from it. A code without a suffix is closed book. Without a legend on
// the page the type is always unknown.
func examType(code, rowText string, legend bool) (string, *string) {
	code = strings.TrimSpace(code)
	stripped := strings.TrimRight(code, "*+#")
	suffix := code[len(stripped):]
	stripped = strings.TrimSpace(stripped)

	if !legend {
		return stripped, nil
	}

	var t string
	switch {
	case strings.Contains(suffix, "*"):
		t = model.ExamRestrictedOpenBook
	case strings.ContainsAny(suffix, "+#"):
		t = model.ExamOpenBook
	case suffix == "":
		t = model.ExamClosedBook
	}

	// Only reached for a suffix no case above recognises.
	if t == "" {
		switch {
		case strings.Contains(rowText, "restricted"):
			t = model.ExamRestrictedOpenBook
		case strings.Contains(rowText, "open book"):
			t = model.ExamOpenBook
		default:
			t = model.ExamClosedBook
		}
	}
	return stripped, &t
}
