package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pomocoin.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []model.PhaseRecord{
		{PresetName: "default", Phase: model.PhaseFocus, PlannedSeconds: 1500, Points: 600, EndedAt: base},
		{PresetName: "default", Phase: model.PhaseShortBreak, PlannedSeconds: 300, Points: 60, EndedAt: base.Add(30 * time.Minute)},
		{PresetName: "default", Phase: model.PhaseFocus, PlannedSeconds: 1500, Skipped: true, EndedAt: base.AddDate(0, 0, 2)},
		{PresetName: "sprint", Phase: model.PhaseFocus, PlannedSeconds: 600, Points: 240, EndedAt: base.AddDate(0, 0, 2).Add(time.Hour)},
	}
	for _, rec := range records {
		if err := st.InsertPhase(ctx, rec); err != nil {
			t.Fatalf("insert phase: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.HistoryFilter{Last: 3}, time.UTC)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(report.Records))
	}
	if report.Records[0].Phase != model.PhaseShortBreak {
		t.Fatalf("expected oldest kept record to be the break, got %s", report.Records[0].Phase)
	}
	if len(report.Days) != 3 {
		t.Fatalf("expected 3 days including the empty one, got %d", len(report.Days))
	}
	if report.Days[1].Points != 0 || report.Days[2].Points != 240 {
		t.Fatalf("unexpected day totals: %+v", report.Days)
	}
	if report.Summary.Skipped != 1 || report.Summary.Points != 300 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Top) != 2 || report.Top[0].Name != "sprint" {
		t.Fatalf("unexpected top presets: %+v", report.Top)
	}
}
