package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
)

// The vacancy page reports downtime through a script alert rather than any
// markup.
var alertPattern = regexp.MustCompile(`alert\(\s*(?:"([^"]*)"|'([^']*)')\s*\)`)

// ParseVacancy extracts index vacancies from the check vacancy page. When
// the portal reports itself unavailable the message is returned in Error and
// the table isn't read. A page without a results table is not an error.
// courseCode is only used for logging.
func ParseVacancy(page, courseCode string) model.VacancyResult {
	result := model.VacancyResult{Indexes: []model.VacancyIndex{}}

	if m := alertPattern.FindStringSubmatch(page); m != nil {
		msg := strings.TrimSpace(m[1] + m[2])
		result.Error = &msg
		slog.Debug("vacancy page reported an error", "course", courseCode, "message", msg)
		return result
	}

	doc, ok := newDocument(page)
	if !ok {
		return result
	}
	table := doc.Find("table[border]").First()
	if table.Length() == 0 {
		return result
	}

	// open is the position of the index group rows are being added to.
	open := -1
	tableRows(table).Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) < 8 {
			return
		}

		class := model.VacancyClass{
			Type:  cells[3],
			Group: cells[4],
			Day:   cells[5],
			Time:  cells[6],
			Venue: cells[7],
		}

		if !isBlank(cells[0]) {
			idx := model.VacancyIndex{
				Index:    cells[0],
				Vacancy:  ParseNumber(cells[1]),
				Waitlist: ParseNumber(cells[2]),
				Classes:  []model.VacancyClass{},
			}
			if !isBlank(class.Type) {
				idx.Classes = append(idx.Classes, class)
			}
			result.Indexes = append(result.Indexes, idx)
			open = len(result.Indexes) - 1
			return
		}

		if open >= 0 && !isBlank(class.Type) {
			result.Indexes[open].Classes = append(result.Indexes[open].Classes, class)
		}
	})

	slog.Debug("parsed vacancy page", "course", courseCode, "indexes", len(result.Indexes))
	return result
}
