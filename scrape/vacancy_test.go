package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vacancyPage = `<table border>
<tr><th>Index</th><th>Vacancy</th><th>Waitlist</th><th>Type</th><th>Group</th><th>Day</th><th>Time</th><th>Venue</th></tr>
<tr><td>10284</td><td>5</td><td>0</td><td>LEC</td><td>LE</td><td>MON</td><td>0830-1020</td><td>LT1</td></tr>
</table>`

// TestCheckVacancy_Cached verifies a second lookup is served without a fetch
func TestCheckVacancy_Cached(t *testing.T) {
	service, fetcher, _ := createTestService(t)
	ctx := context.Background()

	fetcher.on("vacancy", func(form map[string]string) (string, error) {
		assert.Equal(t, "SC1003", form["subj"])
		return vacancyPage, nil
	})

	first, err := service.CheckVacancy(ctx, "sc1003")
	require.NoError(t, err)
	require.Len(t, first.Indexes, 1)
	assert.Equal(t, 5, first.Indexes[0].Vacancy)

	second, err := service.CheckVacancy(ctx, "SC1003 ")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.count("vacancy"))
}

// TestCheckVacancy_PortalMessage verifies portal errors come back as a
// result, not an error
func TestCheckVacancy_PortalMessage(t *testing.T) {
	service, fetcher, _ := createTestService(t)

	fetcher.page("vacancy", `<script>alert("Check Vacancies is only available from 9.00 am to 10.00pm daily !")</script>`)

	result, err := service.CheckVacancy(context.Background(), "SC1003")
	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Empty(t, result.Indexes)
}

// TestCheckVacancy_FetchErrorNotCached verifies failed fetches are retried
func TestCheckVacancy_FetchErrorNotCached(t *testing.T) {
	service, fetcher, _ := createTestService(t)
	ctx := context.Background()

	fail := true
	fetcher.on("vacancy", func(map[string]string) (string, error) {
		if fail {
			return "", errors.New("timeout")
		}
		return vacancyPage, nil
	})

	_, err := service.CheckVacancy(ctx, "SC1003")
	require.Error(t, err)

	fail = false
	result, err := service.CheckVacancy(ctx, "SC1003")
	require.NoError(t, err)
	assert.Len(t, result.Indexes, 1)
	assert.Equal(t, 2, fetcher.count("vacancy"))
}
