package model

import "time"

// ScheduleCourse groups the class sessions scraped for one course in one
// semester.
type ScheduleCourse struct {
	CourseCode string            `json:"course_code" validate:"required,max=16"`
	Title      string            `json:"title"`
	Acadsem    string            `json:"acadsem" validate:"required,acadsem"`
	Sessions   []ScheduleSession `json:"sessions" validate:"dive"`
}

// ScheduleSession is one row of a course's class schedule table.
type ScheduleSession struct {
	Index  string `json:"index" csv:"index" validate:"required"`
	Type   string `json:"type" csv:"type"`
	Group  string `json:"group" csv:"group"`
	Day    string `json:"day" csv:"day"`
	Time   string `json:"time" csv:"time"`
	Venue  string `json:"venue" csv:"venue"`
	Remark string `json:"remark" csv:"remark"`
}

// ScheduleSection is a persisted session with its owning course key.
type ScheduleSection struct {
	CourseCode string    `json:"course_code" csv:"course_code"`
	Title      string    `json:"title" csv:"title"`
	Acadsem    string    `json:"acadsem" csv:"acadsem"`
	Index      string    `json:"index" csv:"index"`
	Type       string    `json:"type" csv:"type"`
	Group      string    `json:"group" csv:"group"`
	Day        string    `json:"day" csv:"day"`
	Time       string    `json:"time" csv:"time"`
	Venue      string    `json:"venue" csv:"venue"`
	Remark     string    `json:"remark" csv:"remark"`
	UpdatedAt  time.Time `json:"updated_at" csv:"-"`
}

// SectionKey is the composite key used to deduplicate sessions before they
// are written.
type SectionKey struct {
	Index, CourseCode, Acadsem, Type, Day, Time, Venue string
}

// Key returns the section's deduplication key.
func (s ScheduleSection) Key() SectionKey {
	return SectionKey{
		Index:      s.Index,
		CourseCode: s.CourseCode,
		Acadsem:    s.Acadsem,
		Type:       s.Type,
		Day:        s.Day,
		Time:       s.Time,
		Venue:      s.Venue,
	}
}

// Sections flattens the course into persisted sections, in scrape order.
func (c ScheduleCourse) Sections() []ScheduleSection {
	out := make([]ScheduleSection, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		out = append(out, ScheduleSection{
			CourseCode: c.CourseCode,
			Title:      c.Title,
			Acadsem:    c.Acadsem,
			Index:      s.Index,
			Type:       s.Type,
			Group:      s.Group,
			Day:        s.Day,
			Time:       s.Time,
			Venue:      s.Venue,
			Remark:     s.Remark,
		})
	}
	return out
}
