package scrape

import (
	"context"
	"strings"

	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/parser"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
)

// CheckVacancy looks up live vacancies for a course. Answers, including
// the portal's own error messages, are cached for a short while; fetch
// failures are not.
func (s *Service) CheckVacancy(ctx context.Context, courseCode string) (model.VacancyResult, error) {
	code := strings.ToUpper(strings.TrimSpace(courseCode))

	if cached, ok := s.vacancies.Get(code); ok {
		return cached, nil
	}

	page, err := s.fetch(ctx, s.config.Endpoints.Vacancy, portal.VacancyForm(code))
	if err != nil {
		return model.VacancyResult{}, err
	}

	result := parser.ParseVacancy(page, code)
	s.vacancies.Add(code, result)
	return result, nil
}
