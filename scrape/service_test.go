package scrape

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned pages keyed by target.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]func(form map[string]string) (string, error)
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]func(form map[string]string) (string, error)),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) on(target string, fn func(form map[string]string) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[target] = fn
}

func (f *fakeFetcher) page(target, html string) {
	f.on(target, func(map[string]string) (string, error) { return html, nil })
}

func (f *fakeFetcher) Fetch(_ context.Context, target string, form map[string]string) (string, error) {
	f.mu.Lock()
	f.calls[target]++
	fn := f.pages[target]
	f.mu.Unlock()

	if fn == nil {
		return "", fmt.Errorf("no page for %s", target)
	}
	return fn(form)
}

func (f *fakeFetcher) count(target string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[target]
}

var testEndpoints = portal.Endpoints{
	ContentIndex:      "content-index",
	ContentSearch:     "content-search",
	ScheduleIndex:     "schedule-index",
	ScheduleSearch:    "schedule-search",
	ExamPlans:         "exam-plans",
	ExamTimetable:     "exam-timetable",
	GradExamPlans:     "grad-exam-plans",
	GradExamTimetable: "grad-exam-timetable",
	Vacancy:           "vacancy",
}

// Test helper: create a service over a fake portal and a temp store
func createTestService(t *testing.T) (*Service, *fakeFetcher, *store.Store) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "should create store")
	t.Cleanup(func() { st.Close() })

	config := DefaultConfig()
	config.Endpoints = testEndpoints
	config.JobTimeout = 10 * time.Second

	fetcher := newFakeFetcher()
	return NewService(fetcher, st, config), fetcher, st
}

const indexPage = `<html><body><form>
<select name="acadsem">
<option value="2025_1" selected>Acad Yr 2025 Semester 1</option>
<option value="2024_2">Acad Yr 2024 Semester 2</option>
<option value="2024_1">Acad Yr 2024 Semester 1</option>
<option value="2023_2">Acad Yr 2023 Semester 2</option>
</select>
<select name="r_course_yr">
<option value="">---Select an Option---</option>
<option value="CSC;;1;F">Computer Science Year 1</option>
<option value="CE;;1;F">Computer Engineering Year 1</option>
</select>
</form></body></html>`

func contentPage(rows string) string {
	return `<table><tr><td>COURSE CODE</td><td>COURSE TITLE</td><td>AU</td><td>DEPT</td></tr>` + rows + `</table>`
}

func contentRow(code, title string) string {
	return `<tr><td>` + code + `</td><td>` + title + `</td><td>3.0</td><td>CSC</td></tr>`
}

func schedulePage(code, title, index string) string {
	return `<table><tr><td><b>` + code + `</b></td><td><b>` + title + `</b></td><td>3.0 AU</td></tr></table>
	<table><tr><th>INDEX</th><th>TYPE</th><th>GROUP</th><th>DAY</th><th>TIME</th><th>VENUE</th><th>REMARK</th></tr>
	<tr><td>` + index + `</td><td>LEC</td><td>LE</td><td>MON</td><td>0830-1020</td><td>LT1</td><td></td></tr>
	<tr><td></td><td>TUT</td><td>T1</td><td>TUE</td><td>1030-1120</td><td>TR+1</td><td></td></tr>
	</table>`
}
