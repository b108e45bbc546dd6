package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/robfig/cron/v3"
)

// Run schedules every configured job and blocks until Stop is called or ctx
// is cancelled. In-progress jobs are waited for before it returns.
func (s *Service) Run(ctx context.Context) error {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	// Sorted so semesters are refreshed before the jobs that read them.
	jobs := make([]string, 0, len(s.config.Schedules))
	for job := range s.config.Schedules {
		jobs = append(jobs, job)
	}
	slices.SortFunc(jobs, func(a, b string) int { return jobOrder(a) - jobOrder(b) })

	var tasks []func()
	for _, job := range jobs {
		spec := s.config.Schedules[job]
		if spec == "" {
			continue
		}
		task, err := s.task(ctx, job)
		if err != nil {
			return err
		}
		if _, err := c.AddFunc(spec, task); err != nil {
			return fmt.Errorf("failed to schedule %s job %q: %w", job, spec, err)
		}
		slog.InfoContext(ctx, "scheduled scrape job", "job", job, "spec", spec)
		tasks = append(tasks, task)
	}

	// The startup pass runs in order, one job after another.
	if s.config.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for _, task := range tasks {
				task()
			}
		}()
	}

	slog.InfoContext(ctx, "scrape service starting")
	c.Start()

	var err error
	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "scrape service stopping (context cancelled)")
		err = ctx.Err()
	case <-s.stopChan:
		slog.InfoContext(ctx, "scrape service stopping")
	}

	// Wait for in-progress jobs to complete
	<-c.Stop().Done()
	s.wg.Wait()
	return err
}

// Stop signals Run to stop gracefully.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// task returns the scheduled function for a job name.
func (s *Service) task(ctx context.Context, job string) (func(), error) {
	switch job {
	case JobSemesters:
		return func() { s.RefreshSemesters(ctx) }, nil
	case JobContent, JobSchedule:
		return func() {
			if err := s.ScrapeRecent(ctx, job); err != nil {
				slog.ErrorContext(ctx, "scheduled scrape failed", "job", job, "error", err)
			}
		}, nil
	case JobExams:
		return func() {
			if err := s.ScrapeAllExams(ctx); err != nil {
				slog.ErrorContext(ctx, "scheduled scrape failed", "job", job, "error", err)
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown scrape job %q", job)
}

func jobOrder(job string) int {
	switch job {
	case JobSemesters:
		return 0
	case JobContent:
		return 1
	case JobSchedule:
		return 2
	}
	return 3
}

// cronLogger sends cron's own logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
