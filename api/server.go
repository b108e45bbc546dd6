// Package api serves the scraped data over a read-only REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

var courseCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,16}$`)

// errInvalidParameter marks a bad query parameter.
var errInvalidParameter = errors.New("invalid parameter")

// Store is the read side of the store.
type Store interface {
	QueryContent(ctx context.Context, filter store.ContentFilter) (store.Page[model.CourseOffering], error)
	QuerySchedules(ctx context.Context, filter store.ScheduleFilter) (store.Page[model.ScheduleSection], error)
	QueryExams(ctx context.Context, filter store.ExamFilter) (store.Page[model.ExamRecord], error)
	ListSemesters(ctx context.Context) ([]model.SemesterDescriptor, error)
	ListRuns(ctx context.Context, filter store.RunFilter) (store.Page[store.ScrapeRun], error)
}

// VacancyChecker looks up live vacancies.
type VacancyChecker interface {
	CheckVacancy(ctx context.Context, courseCode string) (model.VacancyResult, error)
}

// Server represents the HTTP API server.
type Server struct {
	store   Store
	vacancy VacancyChecker
}

// NewServer creates a new API server.
func NewServer(st Store, vacancy VacancyChecker) *Server {
	return &Server{
		store:   st,
		vacancy: vacancy,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.GET("/content", s.HandleListContent)
	api.GET("/schedules", s.HandleListSchedules)
	api.GET("/exams", s.HandleListExams)
	api.GET("/semesters", s.HandleListSemesters)
	api.GET("/runs", s.HandleListRuns)
	api.GET("/vacancy/:code", s.HandleVacancy)

	return router
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Total  int `json:"total"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Rows   []T `json:"rows"`
}

func listResponse[T any](page store.Page[T], p paging) ListResponse[T] {
	return ListResponse[T]{
		Total:  page.Total,
		Count:  page.Count,
		Limit:  p.limit,
		Offset: p.offset,
		Rows:   page.Rows,
	}
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *Server) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidParameter), errors.Is(err, model.ErrInvalidAcadsem):
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", err.Error()))
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

type paging struct {
	limit, offset int
}

// parsePaging reads limit (default 50, capped at 1000) and offset.
func parsePaging(c *gin.Context) (paging, error) {
	p := paging{limit: defaultLimit}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			return paging{}, fmt.Errorf("%w: limit must be a positive integer", errInvalidParameter)
		}
		p.limit = min(limit, maxLimit)
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			return paging{}, fmt.Errorf("%w: offset must be a non-negative integer", errInvalidParameter)
		}
		p.offset = offset
	}

	return p, nil
}

// acadsemParam reads the optional acadsem parameter in any encoding and
// returns it in canonical form.
func acadsemParam(c *gin.Context) (string, error) {
	raw := c.Query("acadsem")
	if raw == "" {
		return "", nil
	}
	a, err := model.ParseAcadsem(raw)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func courseCodeParam(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Query("course_code")))
}

// HandleListContent handles GET /api/v1/content.
func (s *Server) HandleListContent(c *gin.Context) {
	p, err := parsePaging(c)
	if err != nil {
		s.handleError(c, err)
		return
	}
	acadsem, err := acadsemParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	page, err := s.store.QueryContent(c.Request.Context(), store.ContentFilter{
		Acadsem:    acadsem,
		CourseCode: courseCodeParam(c),
		Department: c.Query("department"),
		Search:     strings.TrimSpace(c.Query("q")),
		Limit:      p.limit,
		Offset:     p.offset,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(page, p))
}

// HandleListSchedules handles GET /api/v1/schedules.
func (s *Server) HandleListSchedules(c *gin.Context) {
	p, err := parsePaging(c)
	if err != nil {
		s.handleError(c, err)
		return
	}
	acadsem, err := acadsemParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	page, err := s.store.QuerySchedules(c.Request.Context(), store.ScheduleFilter{
		Acadsem:    acadsem,
		CourseCode: courseCodeParam(c),
		Index:      c.Query("index"),
		Day:        strings.ToUpper(c.Query("day")),
		Limit:      p.limit,
		Offset:     p.offset,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(page, p))
}

// HandleListExams handles GET /api/v1/exams.
func (s *Server) HandleListExams(c *gin.Context) {
	p, err := parsePaging(c)
	if err != nil {
		s.handleError(c, err)
		return
	}
	acadsem, err := acadsemParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	studentType := model.StudentType(c.Query("student_type"))
	if studentType != "" && !studentType.Valid() {
		s.handleError(c, fmt.Errorf("%w: student_type must be undergraduate or graduate", errInvalidParameter))
		return
	}

	page, err := s.store.QueryExams(c.Request.Context(), store.ExamFilter{
		Acadsem:     acadsem,
		CourseCode:  courseCodeParam(c),
		StudentType: string(studentType),
		Limit:       p.limit,
		Offset:      p.offset,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(page, p))
}

// HandleListSemesters handles GET /api/v1/semesters. The optional years
// parameter keeps only the newest academic years.
func (s *Server) HandleListSemesters(c *gin.Context) {
	p, err := parsePaging(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	semesters, err := s.store.ListSemesters(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	if yearsParam := c.Query("years"); yearsParam != "" {
		years, err := strconv.Atoi(yearsParam)
		if err != nil || years < 1 {
			s.handleError(c, fmt.Errorf("%w: years must be a positive integer", errInvalidParameter))
			return
		}
		semesters = model.RecentSemesters(semesters, years)
	}

	total := len(semesters)
	start := min(p.offset, total)
	end := min(start+p.limit, total)
	rows := semesters[start:end]
	if rows == nil {
		rows = []model.SemesterDescriptor{}
	}

	c.JSON(http.StatusOK, listResponse(store.Page[model.SemesterDescriptor]{
		Total: total,
		Count: len(rows),
		Rows:  rows,
	}, p))
}

// HandleListRuns handles GET /api/v1/runs.
func (s *Server) HandleListRuns(c *gin.Context) {
	p, err := parsePaging(c)
	if err != nil {
		s.handleError(c, err)
		return
	}
	acadsem, err := acadsemParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	page, err := s.store.ListRuns(c.Request.Context(), store.RunFilter{
		Job:     c.Query("job"),
		Acadsem: acadsem,
		Limit:   p.limit,
		Offset:  p.offset,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(page, p))
}

// HandleVacancy handles GET /api/v1/vacancy/{code}. Portal downtime is
// reported in the result's error field with a 200; only a failed fetch is
// an HTTP error.
func (s *Server) HandleVacancy(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if !courseCodePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid course code"))
		return
	}

	result, err := s.vacancy.CheckVacancy(c.Request.Context(), code)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "vacancy lookup failed", "course", code, "error", err)
		c.JSON(http.StatusBadGateway, errorResponse("upstream_error", "Failed to reach the class portal"))
		return
	}

	c.JSON(http.StatusOK, result)
}
