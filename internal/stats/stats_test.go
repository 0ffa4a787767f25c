package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.PhaseRecord{
		{Phase: model.PhaseFocus, PlannedSeconds: 1500, Points: 10},
		{Phase: model.PhaseLongBreak, PlannedSeconds: 900, Points: 7},
		{Phase: model.PhaseFocus, PlannedSeconds: 1500, Skipped: true},
	})
	if s.Phases != 3 || s.Completed != 2 || s.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.FocusPhases != 1 || s.BreakPhases != 1 {
		t.Fatalf("unexpected phase split: %+v", s)
	}
	if s.Points != 17 || s.BestPhase != 10 || s.FocusMinutes != 25 {
		t.Fatalf("unexpected totals: %+v", s)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	ended := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	err := RenderHistory(&buf, []model.PhaseRecord{
		{PresetName: "default", Phase: model.PhaseFocus, PlannedSeconds: 1500, Points: 12, EndedAt: ended},
		{PresetName: "default", Phase: model.PhaseShortBreak, PlannedSeconds: 300, Skipped: true, EndedAt: ended},
	}, time.UTC)
	if err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2024-03-01 09:30") {
		t.Fatalf("expected timestamp in output: %q", out)
	}
	if !strings.Contains(out, "skipped") {
		t.Fatalf("expected skipped marker in output: %q", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if buf.String() != "No phases recorded.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
