package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a slice of phase records.
type Summary struct {
	Phases       int
	Completed    int
	Skipped      int
	FocusPhases  int
	BreakPhases  int
	Points       int
	FocusMinutes float64
	BestPhase    int
}

// DayTotal is the points banked on one calendar day.
type DayTotal struct {
	Day    time.Time
	Points int
	Phases int
}

// Summarize computes totals over records. Skipped phases count toward Phases only.
func Summarize(records []model.PhaseRecord) Summary {
	var s Summary
	for _, rec := range records {
		s.Phases++
		if rec.Skipped {
			s.Skipped++
			continue
		}
		s.Completed++
		s.Points += rec.Points
		if rec.Points > s.BestPhase {
			s.BestPhase = rec.Points
		}
		if rec.Phase.IsBreak() {
			s.BreakPhases++
		} else {
			s.FocusPhases++
			s.FocusMinutes += float64(rec.PlannedSeconds) / 60
		}
	}
	return s
}

// DailyPoints buckets records by calendar day in loc, filling empty days between the first
// and last record with zeroes.
func DailyPoints(records []model.PhaseRecord, loc *time.Location) []DayTotal {
	if len(records) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	byDay := map[time.Time]*DayTotal{}
	first, last := dayOf(records[0].EndedAt, loc), dayOf(records[0].EndedAt, loc)
	for _, rec := range records {
		day := dayOf(rec.EndedAt, loc)
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
		total, ok := byDay[day]
		if !ok {
			total = &DayTotal{Day: day}
			byDay[day] = total
		}
		total.Phases++
		total.Points += rec.Points
	}

	var out []DayTotal
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if total, ok := byDay[day]; ok {
			out = append(out, *total)
			continue
		}
		out = append(out, DayTotal{Day: day})
	}
	return out
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the records.
func RenderSummary(w io.Writer, records []model.PhaseRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No phases recorded.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Phases: %d (%d completed, %d skipped)", s.Phases, s.Completed, s.Skipped),
		fmt.Sprintf("Focus: %d phases, %.0f min", s.FocusPhases, s.FocusMinutes),
		fmt.Sprintf("Breaks: %d", s.BreakPhases),
		fmt.Sprintf("Points earned: %d", s.Points),
		fmt.Sprintf("Best phase: %d", s.BestPhase),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a sparkline of daily points smoothed over window days.
func RenderTrend(w io.Writer, days []DayTotal, window int) error {
	if len(days) == 0 {
		return nil
	}
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(d.Points)
	}
	values = MovingAverage(values, window)
	_, err := fmt.Fprintf(w, "Daily points %s..%s\n[%s]\n\n",
		days[0].Day.Format("2006-01-02"), days[len(days)-1].Day.Format("2006-01-02"), Sparkline(values))
	return err
}

// RenderHistory prints one row per phase record, oldest first.
func RenderHistory(w io.Writer, records []model.PhaseRecord, loc *time.Location) error {
	if len(records) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	headers := []string{"Ended", "Preset", "Phase", "Min", "Points", ""}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		note := ""
		if rec.Skipped {
			note = "skipped"
		}
		rows = append(rows, []string{
			rec.EndedAt.In(loc).Format("2006-01-02 15:04"),
			rec.PresetName,
			string(rec.Phase),
			fmt.Sprintf("%d", rec.PlannedSeconds/60),
			fmt.Sprintf("%d", rec.Points),
			note,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
