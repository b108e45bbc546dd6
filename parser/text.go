// Package parser turns pages from the university's class portal into
// records. Every function here is pure: HTML in, records out. Markup that
// doesn't look the way we expect degrades to empty results, never to errors,
// because the portal's layout drifts between semesters.
package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// newDocument parses an HTML string. The html5 parser accepts any input, so
// a failure here means the reader itself failed.
func newDocument(html string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// normalize collapses whitespace runs (including non-breaking spaces) to a
// single space and trims the ends.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tableRows returns the rows that belong directly to table, skipping rows of
// any nested tables.
func tableRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

// rowCells returns the td/th children of a row.
func rowCells(tr *goquery.Selection) *goquery.Selection {
	return tr.ChildrenFiltered("td, th")
}

// cellTexts returns the normalized text of every cell in a row.
func cellTexts(tr *goquery.Selection) []string {
	cells := rowCells(tr)
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, td *goquery.Selection) {
		texts = append(texts, normalize(td.Text()))
	})
	return texts
}

// at returns cells[i], or "" when the row is too short.
func at(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// joinNonEmpty space-joins the non-empty parts.
func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// isBlank reports whether a cell is empty, including cells that still carry
// a literal "&nbsp;" after double escaping.
func isBlank(s string) bool {
	s = normalize(s)
	return s == "" || s == "&nbsp;"
}

// ParseNumber parses a vacancy count. Placeholders and anything that isn't
// an integer count as zero.
func ParseNumber(s string) int {
	s = normalize(s)
	switch {
	case s == "", s == "&nbsp;", s == "-", strings.EqualFold(s, "N/A"):
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// stringPtr returns nil for empty strings.
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
