package parser

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

var courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// scheduleState is carried from one table to the next. pending is the course
// whose header has been seen but whose session table hasn't.
type scheduleState struct {
	pending *model.ScheduleCourse
	courses []model.ScheduleCourse
}

// ParseSchedule extracts class schedules from the schedule search result
// page. The page is an alternating run of course header tables and session
// tables; each session table belongs to the header just before it.
//
// Two quirks are kept as the portal behaves today: a session table with no
// header before it is dropped, and a header followed directly by another
// header loses the first course.
func ParseSchedule(page, acadsem string) []model.ScheduleCourse {
	doc, ok := newDocument(page)
	if !ok {
		return []model.ScheduleCourse{}
	}

	state := scheduleState{courses: []model.ScheduleCourse{}}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		state = state.next(table, acadsem)
	})
	return state.courses
}

// next folds one table into the state.
func (s scheduleState) next(table *goquery.Selection, acadsem string) scheduleState {
	rows := tableRows(table)
	if rows.Length() == 0 {
		return s
	}
	header := cellTexts(rows.First())

	switch {
	case isSessionHeader(header):
		if s.pending == nil {
			return s
		}
		course := *s.pending
		course.Sessions = parseSessions(rows.Slice(1, goquery.ToEnd))
		return scheduleState{courses: append(s.courses, course)}

	case isCourseHeader(header):
		return scheduleState{
			pending: &model.ScheduleCourse{
				CourseCode: header[0],
				Title:      header[1],
				Acadsem:    acadsem,
			},
			courses: s.courses,
		}
	}

	return s
}

func isSessionHeader(cells []string) bool {
	upper := make([]string, len(cells))
	for i, c := range cells {
		upper[i] = strings.ToUpper(c)
	}
	return slices.Contains(upper, "INDEX") && slices.Contains(upper, "TYPE")
}

func isCourseHeader(cells []string) bool {
	return len(cells) >= 2 &&
		cells[0] != "" && cells[1] != "" &&
		courseCodePattern.MatchString(cells[0])
}

// parseSessions reads session rows. A row with a blank index belongs to the
// index of the nearest row above it that had one.
func parseSessions(rows *goquery.Selection) []model.ScheduleSession {
	sessions := []model.ScheduleSession{}
	index := ""

	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			return
		}
		if cells[0] != "" {
			index = cells[0]
		}
		if index == "" {
			return
		}

		sessions = append(sessions, model.ScheduleSession{
			Index:  index,
			Type:   at(cells, 1),
			Group:  at(cells, 2),
			Day:    at(cells, 3),
			Time:   at(cells, 4),
			Venue:  at(cells, 5),
			Remark: at(cells, 6),
		})
	})

	return sessions
}
