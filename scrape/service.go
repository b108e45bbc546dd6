// Package scrape runs the scrape jobs: fetch portal pages, parse them and
// hand the records to the store. Jobs run on cron schedules inside Run or
// on demand from the CLI.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
)

// ErrJobRunning is returned when the same job for the same semester is
// already in progress.
var ErrJobRunning = errors.New("scrape job already running")

// Job names, as recorded in the run ledger.
const (
	JobContent   = "content"
	JobSchedule  = "schedule"
	JobExams     = "exams"
	JobSemesters = "semesters"
)

// Store is the persistence the service writes to.
type Store interface {
	SaveContent(ctx context.Context, courses []model.CourseOffering) error
	SaveSchedules(ctx context.Context, courses []model.ScheduleCourse) error
	SaveExams(ctx context.Context, exams []model.ExamRecord) error
	SaveSemesters(ctx context.Context, semesters []model.SemesterDescriptor) error
	RecentSemesters(ctx context.Context, years int) ([]model.SemesterDescriptor, error)
	StartRun(ctx context.Context, job, acadsem string) (*store.ScrapeRun, error)
	FinishRun(ctx context.Context, runID uuid.UUID, records int, runErr error) error
}

// Config holds configuration for the scrape service.
type Config struct {
	Endpoints portal.Endpoints
	// Maximum number of jobs running at once
	Concurrency int
	// Timeout for one whole job, all of its page fetches included
	JobTimeout time.Duration
	// Number of most recent academic years scraped by scheduled runs
	RecentYears int
	// Cron specs per job; an empty spec disables the job
	Schedules map[string]string
	// Run every scheduled job once when Run starts
	RunOnStart bool
	// Live vacancy cache
	VacancyTTL       time.Duration
	VacancyCacheSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Endpoints:   portal.DefaultEndpoints,
		Concurrency: 2,
		JobTimeout:  30 * time.Minute,
		RecentYears: 2,
		Schedules: map[string]string{
			JobSemesters: "0 3 * * *",
			JobContent:   "30 3 * * *",
			JobSchedule:  "0 */6 * * *",
			JobExams:     "0 4 * * *",
		},
		RunOnStart:       true,
		VacancyTTL:       30 * time.Second,
		VacancyCacheSize: 512,
	}
}

// Service runs scrape jobs against the portal.
type Service struct {
	fetcher   portal.Fetcher
	store     Store
	config    *Config
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	semaphore chan struct{}

	mu       sync.Mutex
	inFlight map[string]bool

	vacancies *expirable.LRU[string, model.VacancyResult]
}

// NewService creates a new scrape service.
func NewService(fetcher portal.Fetcher, st Store, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	return &Service{
		fetcher:   fetcher,
		store:     st,
		config:    config,
		stopChan:  make(chan struct{}),
		semaphore: make(chan struct{}, config.Concurrency),
		inFlight:  make(map[string]bool),
		vacancies: expirable.NewLRU[string, model.VacancyResult](config.VacancyCacheSize, nil, config.VacancyTTL),
	}
}

// claim marks job/acadsem as running. It returns false if it already is.
func (s *Service) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// runJob runs fn as one ledger-recorded job. At most one job per
// (job, acadsem) runs at a time, and at most Concurrency jobs overall.
func (s *Service) runJob(ctx context.Context, job, acadsem string, fn func(ctx context.Context) (int, error)) (int, error) {
	key := job + "/" + acadsem
	if !s.claim(key) {
		return 0, fmt.Errorf("%w: %s", ErrJobRunning, key)
	}
	defer s.release(key)

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case s.semaphore <- struct{}{}:
	}
	defer func() { <-s.semaphore }()

	run, err := s.store.StartRun(ctx, job, acadsem)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	startTime := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	n, jobErr := fn(jobCtx)
	duration := time.Since(startTime)

	if err := s.store.FinishRun(context.WithoutCancel(ctx), run.RunID, n, jobErr); err != nil {
		slog.ErrorContext(ctx, "failed to record scrape run", "run_id", run.RunID, "error", err)
	}

	if jobErr != nil {
		slog.ErrorContext(ctx, "scrape job failed",
			"job", job, "acadsem", acadsem, "run_id", run.RunID, "duration", duration, "error", jobErr)
		return n, jobErr
	}

	level := slog.LevelInfo
	if duration > s.config.JobTimeout/2 {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "scrape job finished",
		"job", job, "acadsem", acadsem, "run_id", run.RunID, "records", n, "duration", duration)
	return n, nil
}

// fetch wraps the fetcher so every error names the page.
func (s *Service) fetch(ctx context.Context, target string, form map[string]string) (string, error) {
	page, err := s.fetcher.Fetch(ctx, target, form)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	return page, nil
}
