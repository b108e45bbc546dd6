package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestService_RunOnStartAndStop verifies startup jobs run and Stop returns
// cleanly
func TestService_RunOnStartAndStop(t *testing.T) {
	service, fetcher, st := createTestService(t)
	service.config.Schedules = map[string]string{JobSemesters: "@every 1h"}
	fetcher.page("content-index", indexPage)

	done := make(chan error, 1)
	go func() { done <- service.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		semesters, err := st.ListSemesters(context.Background())
		return err == nil && len(semesters) == 4
	}, 5*time.Second, 10*time.Millisecond)

	service.Stop()
	service.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

// TestService_RunContextCancelled verifies cancellation stops Run
func TestService_RunContextCancelled(t *testing.T) {
	service, _, _ := createTestService(t)
	service.config.Schedules = map[string]string{JobSemesters: "@every 1h"}
	service.config.RunOnStart = false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// TestService_RunRejectsBadSpec verifies invalid cron specs are reported
func TestService_RunRejectsBadSpec(t *testing.T) {
	service, _, _ := createTestService(t)
	service.config.Schedules = map[string]string{JobContent: "not a spec"}

	err := service.Run(context.Background())
	assert.Error(t, err)
}

// TestService_RunRejectsUnknownJob verifies unknown job names are reported
func TestService_RunRejectsUnknownJob(t *testing.T) {
	service, _, _ := createTestService(t)
	service.config.Schedules = map[string]string{"timetables": "@every 1h"}

	err := service.Run(context.Background())
	assert.Error(t, err)
}
