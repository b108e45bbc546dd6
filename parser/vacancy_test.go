package parser

import (
	"testing"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vacancyPage = `<html><body>
<table border="1">
<tr><th>Index</th><th>Vacancy</th><th>Waitlist</th><th>Class Type</th><th>Group</th><th>Day</th><th>Time</th><th>Venue</th></tr>
<tr><td>10284</td><td>12</td><td>0</td><td>LEC</td><td>LE</td><td>MON</td><td>0830-1020</td><td>LT19A</td></tr>
<tr><td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td><td>TUT</td><td>T1</td><td>TUE</td><td>1030-1120</td><td>TR+12</td></tr>
<tr><td>10285</td><td>-</td><td>N/A</td><td>LEC</td><td>LE</td><td>MON</td><td>0830-1020</td><td>LT19A</td></tr>
<tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td></td><td></td><td>LAB</td><td>L2</td><td>THU</td><td>1430-1620</td><td>HWLAB1</td></tr>
</table>
</body></html>`

// TestParseVacancy_GroupsClassesByIndex verifies blank-index rows join the
// index above them
func TestParseVacancy_GroupsClassesByIndex(t *testing.T) {
	result := ParseVacancy(vacancyPage, "SC1003")

	assert.Nil(t, result.Error)
	require.Len(t, result.Indexes, 2)

	first := result.Indexes[0]
	assert.Equal(t, "10284", first.Index)
	assert.Equal(t, 12, first.Vacancy)
	assert.Equal(t, 0, first.Waitlist)
	assert.Equal(t, []model.VacancyClass{
		{Type: "LEC", Group: "LE", Day: "MON", Time: "0830-1020", Venue: "LT19A"},
		{Type: "TUT", Group: "T1", Day: "TUE", Time: "1030-1120", Venue: "TR+12"},
	}, first.Classes)

	second := result.Indexes[1]
	assert.Equal(t, "10285", second.Index)
	assert.Equal(t, 0, second.Vacancy)
	assert.Equal(t, 0, second.Waitlist)
	require.Len(t, second.Classes, 2)
	assert.Equal(t, "LAB", second.Classes[1].Type)
}

// TestParseVacancy_Alert verifies the portal's downtime alert is surfaced
func TestParseVacancy_Alert(t *testing.T) {
	page := `<html><head><script>alert("Check Vacancies is only available from 9.00 am to 10.00pm daily !")</script></head>` +
		`<body>` + vacancyPage + `</body></html>`

	result := ParseVacancy(page, "SC1003")

	require.NotNil(t, result.Error)
	assert.Equal(t, "Check Vacancies is only available from 9.00 am to 10.00pm daily !", *result.Error)
	assert.Empty(t, result.Indexes)
}

// TestParseVacancy_SingleQuotedAlert verifies single-quoted alerts match too
func TestParseVacancy_SingleQuotedAlert(t *testing.T) {
	result := ParseVacancy(`<script>alert( 'Invalid course code' );</script>`, "XX0000")

	require.NotNil(t, result.Error)
	assert.Equal(t, "Invalid course code", *result.Error)
}

// TestParseVacancy_NoTable verifies a page without a bordered table is an
// empty result, not an error
func TestParseVacancy_NoTable(t *testing.T) {
	result := ParseVacancy(`<table><tr><td>10284</td><td>1</td><td>0</td><td>LEC</td><td>LE</td><td>MON</td><td>0830</td><td>LT1</td></tr></table>`, "SC1003")

	assert.Nil(t, result.Error)
	assert.NotNil(t, result.Indexes)
	assert.Empty(t, result.Indexes)
}
