package stats

import (
	"sort"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// PresetTotal is the points a preset banked across history.
type PresetTotal struct {
	Name   string
	Points int
	Phases int
}

// TopPresets returns the n presets that banked the most points.
func TopPresets(records []model.PhaseRecord, n int) []PresetTotal {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	byName := map[string]*PresetTotal{}
	for _, rec := range records {
		if rec.Skipped {
			continue
		}
		total, ok := byName[rec.PresetName]
		if !ok {
			total = &PresetTotal{Name: rec.PresetName}
			byName[rec.PresetName] = total
		}
		total.Points += rec.Points
		total.Phases++
	}
	items := make([]PresetTotal, 0, len(byName))
	for _, total := range byName {
		items = append(items, *total)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Points == items[j].Points {
			return items[i].Name < items[j].Name
		}
		return items[i].Points > items[j].Points
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
