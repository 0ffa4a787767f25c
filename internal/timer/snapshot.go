package timer

import (
	"fmt"
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// Snapshot is the observable state of a Session.
type Snapshot struct {
	Hours            string      `json:"hours"`
	Minutes          string      `json:"minutes"`
	Seconds          string      `json:"seconds"`
	RemainingSeconds int         `json:"remainingSeconds"`
	PhaseSeconds     int         `json:"phaseSeconds"`
	State            RunState    `json:"state"`
	Phase            model.Phase `json:"phase"`
	IsBreak          bool        `json:"isBreak"`
	ElapsedRounds    int         `json:"elapsedRounds"`
	ElapsedSessions  int         `json:"elapsedSessions"`
	Finished         bool        `json:"finishedPreset"`
	Points           int         `json:"points"`
	Activity         string      `json:"activity"`
	PresetID         int64       `json:"presetId"`
	PresetName       string      `json:"presetName"`
	RoundsInSession  int         `json:"roundsInSession"`
	TotalSessions    int         `json:"totalSessions"`
}

// Snapshot captures the Session's current state.
func (s *Session) Snapshot() Snapshot {
	remaining := s.countdown.Remaining()
	hours, minutes, seconds := FormatClock(remaining)
	return Snapshot{
		Hours:            hours,
		Minutes:          minutes,
		Seconds:          seconds,
		RemainingSeconds: int(remaining / time.Second),
		PhaseSeconds:     int(PhaseLength(s.preset, s.progress) / time.Second),
		State:            s.countdown.State(),
		Phase:            CurrentPhase(s.preset, s.progress),
		IsBreak:          s.progress.IsBreak,
		ElapsedRounds:    s.progress.ElapsedRounds,
		ElapsedSessions:  s.progress.ElapsedSessions,
		Finished:         s.progress.Finished,
		Points:           s.points,
		Activity:         s.oracle.Activity().String(),
		PresetID:         s.preset.ID,
		PresetName:       s.preset.Name,
		RoundsInSession:  s.preset.RoundsInSession,
		TotalSessions:    s.preset.TotalSessions,
	}
}

// FormatClock splits d into two-digit hours, minutes and seconds.
func FormatClock(d time.Duration) (hours, minutes, seconds string) {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return pad(total / 3600), pad(total % 3600 / 60), pad(total % 60)
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}
