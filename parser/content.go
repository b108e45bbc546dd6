package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// fieldLabel names the labeled field a row fills in. The zero value means no
// label has been seen since the last course started.
type fieldLabel int

const (
	labelNone fieldLabel = iota
	labelPrerequisite
	labelMutual
	labelNotAvailableToProgramme
	labelNotAvailableToAll
	labelNotAvailableAsBDEUE
	labelGrade
	labelDescription
)

// fieldLabels maps the first-cell text of a labeled row to the field it
// fills. Order matters only for readability; the patterns are anchored.
var fieldLabels = []struct {
	label   fieldLabel
	pattern *regexp.Regexp
}{
	{labelPrerequisite, regexp.MustCompile(`(?i)^pre-?\s?requisites?\s*:?$`)},
	{labelMutual, regexp.MustCompile(`(?i)^mutually\s+exclusives?(\s+with)?\s*:?$`)},
	{labelNotAvailableToAll, regexp.MustCompile(`(?i)^not\s+available\s+to\s+all\s+programmes?\s+with\s*:?$`)},
	{labelNotAvailableToProgramme, regexp.MustCompile(`(?i)^not\s+available\s+to\s+programmes?\s*:?$`)},
	{labelNotAvailableAsBDEUE, regexp.MustCompile(`(?i)^not\s+available\s+as\s+(bde\s*/\s*ue|ue\s*/\s*bde|bde|ue)\s+to\s+programmes?\s*:?$`)},
	{labelGrade, regexp.MustCompile(`(?i)^grade\s+type\s*:?$`)},
}

var (
	descriptionLabel = regexp.MustCompile(`(?i)^description\s*:?$`)

	notUnrestrictedElective = regexp.MustCompile(`(?i)not\s+offered\s+as\s+unrestricted\s+elective`)
	notBDElective           = regexp.MustCompile(`(?i)not\s+offered\s+as\s+broadening\s+and\s+deepening\s+elective`)

	// colspan text starting like this is a label that leaked into a merged
	// cell, not description.
	leakedLabel = regexp.MustCompile(`(?i)^(pre-?\s?requisites?|mutually\s+exclusive)`)

	leadingNumber = regexp.MustCompile(`^\d+(\.\d*)?`)
)

// field returns the offering field a label writes to.
func (l fieldLabel) field(c *model.CourseOffering) *string {
	switch l {
	case labelPrerequisite:
		return &c.Prerequisites
	case labelMutual:
		return &c.MutuallyExclusiveWith
	case labelNotAvailableToProgramme:
		return &c.NotAvailableToProgramme
	case labelNotAvailableToAll:
		return &c.NotAvailableToAllProgrammeWith
	case labelNotAvailableAsBDEUE:
		return &c.NotAvailableAsBDEUEToProgramme
	case labelGrade:
		return &c.GradeType
	case labelDescription:
		return &c.Description
	}
	return nil
}

// matchLabel returns the field label for a first cell, or labelNone.
func matchLabel(text string) fieldLabel {
	for _, fl := range fieldLabels {
		if fl.pattern.MatchString(text) {
			return fl.label
		}
	}
	return labelNone
}

func isAnyLabel(text string) bool {
	return matchLabel(text) != labelNone || descriptionLabel.MatchString(text)
}

// contentRow is a table row reduced to what the rules look at.
type contentRow struct {
	cells   []string
	text    string
	colspan []string
}

func newContentRow(tr *goquery.Selection) contentRow {
	row := contentRow{
		cells: cellTexts(tr),
		text:  normalize(tr.Text()),
	}
	rowCells(tr).Each(func(_ int, td *goquery.Selection) {
		if _, ok := td.Attr("colspan"); ok {
			row.colspan = append(row.colspan, normalize(td.Text()))
		}
	})
	return row
}

// value is the text of columns 1 and 2 joined.
func (r contentRow) value() string {
	return joinNonEmpty(at(r.cells, 1), at(r.cells, 2))
}

// contentState is the accumulator of the row fold. current indexes into
// courses, or is -1 while no course is open.
type contentState struct {
	courses   []model.CourseOffering
	current   int
	lastLabel fieldLabel
	acadsem   string
}

func (s *contentState) course() *model.CourseOffering {
	return &s.courses[s.current]
}

// contentRule pairs a row predicate with its handler. Rules are tried in
// order and the first match handles the row.
type contentRule struct {
	match func(s *contentState, r contentRow) bool
	apply func(s *contentState, r contentRow)
}

var contentRules = []contentRule{
	// Column header row.
	{
		match: func(_ *contentState, r contentRow) bool {
			return strings.EqualFold(at(r.cells, 0), "COURSE CODE")
		},
		apply: func(s *contentState, _ contentRow) {
			s.current = -1
			s.lastLabel = labelNone
		},
	},
	// New course: code, title, AU, department.
	{
		match: func(_ *contentState, r contentRow) bool {
			first := at(r.cells, 0)
			return len(r.cells) >= 3 && first != "" && !isAnyLabel(first)
		},
		apply: func(s *contentState, r contentRow) {
			c := model.NewCourseOffering(r.cells[0], s.acadsem)
			c.Title = at(r.cells, 1)
			c.AU = parseAU(at(r.cells, 2))
			c.Department = at(r.cells, 3)
			s.courses = append(s.courses, c)
			s.current = len(s.courses) - 1
			s.lastLabel = labelNone
		},
	},
	// Nothing below applies outside a course.
	{
		match: func(s *contentState, _ contentRow) bool { return s.current < 0 },
		apply: func(*contentState, contentRow) {},
	},
	{
		match: func(_ *contentState, r contentRow) bool { return notUnrestrictedElective.MatchString(r.text) },
		apply: func(s *contentState, _ contentRow) { s.course().UnrestrictedElective = false },
	},
	{
		match: func(_ *contentState, r contentRow) bool { return notBDElective.MatchString(r.text) },
		apply: func(s *contentState, _ contentRow) { s.course().BroadeningDeepeningElective = false },
	},
	// Labeled field.
	{
		match: func(_ *contentState, r contentRow) bool { return matchLabel(at(r.cells, 0)) != labelNone },
		apply: func(s *contentState, r contentRow) {
			label := matchLabel(r.cells[0])
			*label.field(s.course()) = r.value()
			s.lastLabel = label
		},
	},
	{
		match: func(_ *contentState, r contentRow) bool { return descriptionLabel.MatchString(at(r.cells, 0)) },
		apply: func(s *contentState, r contentRow) {
			s.course().Description = r.value()
			s.lastLabel = labelDescription
		},
	},
	// Continuation of the previous labeled field.
	{
		match: func(s *contentState, r contentRow) bool {
			return at(r.cells, 0) == "" && r.value() != "" && s.lastLabel != labelNone
		},
		apply: func(s *contentState, r contentRow) {
			appendText(s.lastLabel.field(s.course()), r.value())
		},
	},
	// Free text in merged cells is description.
	{
		match: func(_ *contentState, r contentRow) bool { return len(r.colspan) > 0 },
		apply: func(s *contentState, r contentRow) {
			for _, text := range r.colspan {
				if text == "" ||
					notUnrestrictedElective.MatchString(text) ||
					notBDElective.MatchString(text) ||
					leakedLabel.MatchString(text) {
					continue
				}
				appendText(&s.course().Description, text)
			}
		},
	},
}

// step applies the first matching rule to a row.
func (s *contentState) step(r contentRow) {
	for _, rule := range contentRules {
		if rule.match(s, r) {
			rule.apply(s, r)
			return
		}
	}
}

// ParseContent extracts course content records from the course content
// search result page. Each table is walked row by row: a course row opens a
// record, labeled rows fill its fields, and unlabeled rows either continue
// the last labeled field or add to the description.
func ParseContent(page, acadsem string) []model.CourseOffering {
	doc, ok := newDocument(page)
	if !ok {
		return []model.CourseOffering{}
	}

	var courses []model.CourseOffering
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		state := &contentState{courses: courses, current: -1, acadsem: acadsem}
		tableRows(table).Each(func(_ int, tr *goquery.Selection) {
			state.step(newContentRow(tr))
		})
		courses = state.courses
	})

	if courses == nil {
		return []model.CourseOffering{}
	}
	for i := range courses {
		trimFields(&courses[i])
	}
	return courses
}

// parseAU reads "3.0 AU" style text. Empty or unreadable text is unset;
// "0.0" is a real value.
func parseAU(text string) *float64 {
	m := leadingNumber.FindString(strings.TrimSpace(text))
	if m == "" {
		return nil
	}
	au, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &au
}

func appendText(field *string, text string) {
	if *field == "" {
		*field = text
		return
	}
	*field += " " + text
}

func trimFields(c *model.CourseOffering) {
	for _, f := range []*string{
		&c.Description,
		&c.Prerequisites,
		&c.MutuallyExclusiveWith,
		&c.NotAvailableToProgramme,
		&c.NotAvailableToAllProgrammeWith,
		&c.NotAvailableAsBDEUEToProgramme,
	} {
		*f = strings.TrimSpace(*f)
	}
}
