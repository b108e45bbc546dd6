package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/parser"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
)

// programmes lists the programme options of an index page. A page without
// the select still gets one search with an empty programme.
func (s *Service) programmes(ctx context.Context, indexURL string) ([]string, error) {
	page, err := s.fetch(ctx, indexURL, nil)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, opt := range parser.SelectOptions(page, portal.FieldProgramme) {
		values = append(values, opt.Value)
	}
	if len(values) == 0 {
		values = []string{""}
	}
	return values, nil
}

// ScrapeContent scrapes course content for one semester. acadsem may be in
// any of the portal's encodings.
func (s *Service) ScrapeContent(ctx context.Context, acadsem string) (int, error) {
	sem, err := model.ParseAcadsem(acadsem)
	if err != nil {
		return 0, err
	}

	return s.runJob(ctx, JobContent, sem.String(), func(ctx context.Context) (int, error) {
		programmes, err := s.programmes(ctx, s.config.Endpoints.ContentIndex)
		if err != nil {
			return 0, err
		}

		// The same course is listed under every programme that offers it.
		seen := make(map[string]bool)
		var courses []model.CourseOffering
		for _, programme := range programmes {
			page, err := s.fetch(ctx, s.config.Endpoints.ContentSearch, portal.ContentForm(sem, programme))
			if err != nil {
				return 0, err
			}
			for _, c := range parser.ParseContent(page, sem.String()) {
				if seen[c.CourseCode] {
					continue
				}
				seen[c.CourseCode] = true
				courses = append(courses, c)
			}
		}

		if err := s.store.SaveContent(ctx, courses); err != nil {
			return 0, fmt.Errorf("failed to save content: %w", err)
		}
		return len(courses), nil
	})
}

// ScrapeSchedule scrapes class schedules for one semester.
func (s *Service) ScrapeSchedule(ctx context.Context, acadsem string) (int, error) {
	sem, err := model.ParseAcadsem(acadsem)
	if err != nil {
		return 0, err
	}

	return s.runJob(ctx, JobSchedule, sem.String(), func(ctx context.Context) (int, error) {
		programmes, err := s.programmes(ctx, s.config.Endpoints.ScheduleIndex)
		if err != nil {
			return 0, err
		}

		seen := make(map[string]bool)
		var courses []model.ScheduleCourse
		for _, programme := range programmes {
			page, err := s.fetch(ctx, s.config.Endpoints.ScheduleSearch, portal.ScheduleForm(sem, programme))
			if err != nil {
				return 0, err
			}
			for _, c := range parser.ParseSchedule(page, sem.String()) {
				if seen[c.CourseCode] {
					continue
				}
				seen[c.CourseCode] = true
				courses = append(courses, c)
			}
		}

		if err := s.store.SaveSchedules(ctx, courses); err != nil {
			return 0, fmt.Errorf("failed to save schedules: %w", err)
		}
		return len(courses), nil
	})
}

// ScrapeExams scrapes every published exam plan for a student type.
func (s *Service) ScrapeExams(ctx context.Context, studentType model.StudentType) (int, error) {
	if !studentType.Valid() {
		return 0, fmt.Errorf("unknown student type %q", studentType)
	}

	return s.runJob(ctx, JobExams, string(studentType), func(ctx context.Context) (int, error) {
		plansURL, timetableURL := s.config.Endpoints.ExamPlanURLs(studentType)

		page, err := s.fetch(ctx, plansURL, nil)
		if err != nil {
			return 0, err
		}
		plans := parser.ParseExamPlans(page)
		if len(plans) == 0 {
			slog.WarnContext(ctx, "no exam plans published", "student_type", studentType)
			return 0, nil
		}

		var records []model.ExamRecord
		for _, plan := range plans {
			page, err := s.fetch(ctx, timetableURL, portal.ExamForm(plan.PlanNo))
			if err != nil {
				return 0, err
			}

			examCtx, ok := examContext(page, plan, studentType)
			if !ok {
				slog.WarnContext(ctx, "skipping exam plan without academic session",
					"plan_no", plan.PlanNo, "label", plan.Label)
				continue
			}
			records = append(records, parser.ParseExams(page, examCtx)...)
		}

		if err := s.store.SaveExams(ctx, records); err != nil {
			return 0, fmt.Errorf("failed to save exams: %w", err)
		}
		return len(records), nil
	})
}

// examContext reads the plan details a timetable page carries. The session
// text on the page wins over the label of the plan radio.
func examContext(page string, plan model.ExamPlan, studentType model.StudentType) (parser.ExamContext, bool) {
	session := plan.Label
	if details := parser.ParseExamPlans(page); len(details) == 1 && details[0].AcademicSession != "" {
		session = details[0].AcademicSession
	}

	acadsem, ok := parser.SessionAcadsem(session)
	if !ok {
		return parser.ExamContext{}, false
	}
	return parser.ExamContext{
		Acadsem:         acadsem,
		StudentType:     studentType,
		PlanNo:          plan.PlanNo,
		AcademicSession: session,
	}, true
}

// RefreshSemesters reloads the semester catalogue from the content index
// page.
func (s *Service) RefreshSemesters(ctx context.Context) (int, error) {
	return s.runJob(ctx, JobSemesters, "", func(ctx context.Context) (int, error) {
		page, err := s.fetch(ctx, s.config.Endpoints.ContentIndex, nil)
		if err != nil {
			return 0, err
		}

		semesters := parser.ParseSemesters(page, portal.FieldAcadsem)
		if err := s.store.SaveSemesters(ctx, semesters); err != nil {
			return 0, fmt.Errorf("failed to save semesters: %w", err)
		}
		return len(semesters), nil
	})
}

// recentSemesters returns the semesters scheduled runs cover, loading the
// catalogue first if it is empty.
func (s *Service) recentSemesters(ctx context.Context) ([]model.SemesterDescriptor, error) {
	semesters, err := s.store.RecentSemesters(ctx, s.config.RecentYears)
	if err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}
	if len(semesters) > 0 {
		return semesters, nil
	}

	if _, err := s.RefreshSemesters(ctx); err != nil {
		return nil, err
	}
	return s.store.RecentSemesters(ctx, s.config.RecentYears)
}

// ScrapeRecent runs job for every recent semester in parallel, bounded by
// the service's concurrency. Failures are recorded per semester and joined
// into the returned error.
func (s *Service) ScrapeRecent(ctx context.Context, job string) error {
	var scrape func(context.Context, string) (int, error)
	switch job {
	case JobContent:
		scrape = s.ScrapeContent
	case JobSchedule:
		scrape = s.ScrapeSchedule
	default:
		return fmt.Errorf("job %q is not per semester", job)
	}

	semesters, err := s.recentSemesters(ctx)
	if err != nil {
		return err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, sem := range semesters {
		wg.Add(1)
		go func(acadsem string) {
			defer wg.Done()
			if _, err := scrape(ctx, acadsem); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", acadsem, err))
				mu.Unlock()
			}
		}(sem.Value)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// ScrapeAllExams scrapes exam plans for both student types.
func (s *Service) ScrapeAllExams(ctx context.Context) error {
	var errs []error
	for _, t := range []model.StudentType{model.Undergraduate, model.Graduate} {
		if _, err := s.ScrapeExams(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
		}
	}
	return errors.Join(errs...)
}
