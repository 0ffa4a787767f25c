package stats

import (
	"testing"

	"github.com/verte-zerg/pomocoin/internal/model"
)

func TestTopPresets(t *testing.T) {
	records := []model.PhaseRecord{
		{PresetName: "b", Points: 3},
		{PresetName: "a", Points: 2},
		{PresetName: "a", Points: 2},
		{PresetName: "c", Points: 1},
		{PresetName: "c", Points: 0, Skipped: true},
	}
	top := TopPresets(records, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(top))
	}
	if top[0].Name != "a" || top[1].Name != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
	if top[0].Points != 4 || top[0].Phases != 2 {
		t.Fatalf("unexpected totals for a: %+v", top[0])
	}
}
