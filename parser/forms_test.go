package parser

import (
	"testing"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const semesterSelect = `<form><select name="acadsem">
<option value="">-- Select --</option>
<option value="2025;2">Acad Yr 2025  Semester 2</option>
<option value="2025;1" selected>Acad Yr 2025 Semester 1</option>
<option value="2024;S">Acad Yr 2024 Special Term I</option>
<option value="ALL">All</option>
</select></form>`

// TestSelectOptions verifies placeholders are skipped and order is kept
func TestSelectOptions(t *testing.T) {
	options := SelectOptions(semesterSelect, "acadsem")

	assert.Equal(t, []Option{
		{Value: "2025;2", Label: "Acad Yr 2025 Semester 2"},
		{Value: "2025;1", Label: "Acad Yr 2025 Semester 1"},
		{Value: "2024;S", Label: "Acad Yr 2024 Special Term I"},
		{Value: "ALL", Label: "All"},
	}, options)
}

// TestSelectOptions_Missing verifies an absent field yields an empty list
func TestSelectOptions_Missing(t *testing.T) {
	options := SelectOptions(semesterSelect, "r_subj_code")

	assert.NotNil(t, options)
	assert.Empty(t, options)
}

// TestRadioOptions verifies labels come from the following text and checked
// state is reported
func TestRadioOptions(t *testing.T) {
	page := `<form>
	<input type="RADIO" name="r_search_type" value="F" checked> Full Time
	<input type="radio" name="r_search_type" value="P">Part Time<br>
	<label>Other <input type="radio" name="r_search_type" value="O"></label>
	<input type="radio" name="boo_yr" value="1">
	</form>`

	options := RadioOptions(page, "r_search_type")

	require.Len(t, options, 3)
	assert.Equal(t, RadioOption{Value: "F", Label: "Full Time", Checked: true}, options[0])
	assert.Equal(t, RadioOption{Value: "P", Label: "Part Time"}, options[1])
	assert.Equal(t, RadioOption{Value: "O", Label: "Other"}, options[2])
}

// TestParseSemesters verifies options become canonical descriptors
func TestParseSemesters(t *testing.T) {
	semesters := ParseSemesters(semesterSelect, "acadsem")

	require.Len(t, semesters, 3)
	assert.Equal(t, model.SemesterDescriptor{
		Year:     2025,
		Semester: "2",
		Label:    "Acad Yr 2025 Semester 2",
		Value:    "2025_2",
	}, semesters[0])
	assert.Equal(t, "2025_1", semesters[1].Value)
	assert.Equal(t, "2024_S", semesters[2].Value)
	assert.Equal(t, "S", semesters[2].Semester)
}
