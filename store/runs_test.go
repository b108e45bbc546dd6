package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScrapeRuns_Lifecycle verifies runs are recorded and finished
func TestScrapeRuns_Lifecycle(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	ok, err := store.StartRun(ctx, "content", "2025_1")
	require.NoError(t, err)
	failed, err := store.StartRun(ctx, "exams", "2025_1")
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(ctx, ok.RunID, 42, nil))
	require.NoError(t, store.FinishRun(ctx, failed.RunID, 0, errors.New("portal timed out")))

	page, err := store.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	latest := page.Rows[0]
	assert.Equal(t, failed.RunID, latest.RunID)
	assert.False(t, latest.Succeeded())
	require.NotNil(t, latest.Error)
	assert.Equal(t, "portal timed out", *latest.Error)

	first := page.Rows[1]
	assert.True(t, first.Succeeded())
	assert.Equal(t, 42, first.Records)
	require.NotNil(t, first.FinishedAt)
	assert.False(t, first.FinishedAt.Before(first.StartedAt))
}

// TestListRuns_Filter verifies runs can be filtered by job
func TestListRuns_Filter(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	for _, job := range []string{"content", "schedule", "content"} {
		_, err := store.StartRun(ctx, job, "2025_1")
		require.NoError(t, err)
	}

	page, err := store.ListRuns(ctx, RunFilter{Job: "content"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, r := range page.Rows {
		assert.Nil(t, r.FinishedAt)
	}
}

// TestFinishRun_NotFound verifies unknown run ids are reported
func TestFinishRun_NotFound(t *testing.T) {
	store := createTestStore(t)

	err := store.FinishRun(context.Background(), uuid.New(), 0, nil)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
