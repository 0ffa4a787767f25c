package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// Source lists stored phase history.
type Source interface {
	ListPhases(ctx context.Context, filter model.HistoryFilter) ([]model.PhaseRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Records []model.PhaseRecord
	Days    []DayTotal
	Summary Summary
	Top     []PresetTotal
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src Source, filter model.HistoryFilter, loc *time.Location) (Report, error) {
	records, err := src.ListPhases(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Records: records,
		Days:    DailyPoints(records, loc),
		Summary: Summarize(records),
		Top:     TopPresets(records, 3),
	}, nil
}
