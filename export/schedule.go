// Package export writes persisted records out as CSV.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
)

// batchSize is how many sections are read from the store per query.
const batchSize = 1000

// ScheduleQuerier is the store method the exporter reads from.
type ScheduleQuerier interface {
	QuerySchedules(ctx context.Context, filter store.ScheduleFilter) (store.Page[model.ScheduleSection], error)
}

// WriteSchedules writes sections as CSV with a header row.
func WriteSchedules(w io.Writer, sections []model.ScheduleSection) error {
	if err := gocsv.Marshal(&sections, w); err != nil {
		return fmt.Errorf("failed to write schedules: %w", err)
	}
	return nil
}

// SchedulesString renders sections as a CSV string.
func SchedulesString(sections []model.ScheduleSection) (string, error) {
	out, err := gocsv.MarshalString(&sections)
	if err != nil {
		return "", fmt.Errorf("failed to render schedules: %w", err)
	}
	return out, nil
}

// CollectSchedules reads every section matching filter, ignoring its Limit
// and Offset.
func CollectSchedules(ctx context.Context, q ScheduleQuerier, filter store.ScheduleFilter) ([]model.ScheduleSection, error) {
	var sections []model.ScheduleSection
	filter.Limit = batchSize
	filter.Offset = 0
	for {
		page, err := q.QuerySchedules(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query schedules: %w", err)
		}
		sections = append(sections, page.Rows...)
		if page.Count < batchSize {
			return sections, nil
		}
		filter.Offset += page.Count
	}
}

// ExportSchedules writes every section matching filter to the file at path,
// replacing it if it exists. It returns the number of sections written.
func ExportSchedules(ctx context.Context, q ScheduleQuerier, filter store.ScheduleFilter, path string) (int, error) {
	sections, err := CollectSchedules(ctx, q, filter)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&sections, out); err != nil {
		return 0, fmt.Errorf("failed to write schedules: %w", err)
	}
	return len(sections), nil
}
