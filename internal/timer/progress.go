package timer

import (
	"time"

	"github.com/verte-zerg/pomocoin/internal/model"
)

// Progress is the position within a preset run.
type Progress struct {
	ElapsedRounds   int  `json:"elapsedRounds"`
	ElapsedSessions int  `json:"elapsedSessions"`
	IsBreak         bool `json:"isBreak"`
	Finished        bool `json:"finished"`
}

// ResetProgress returns progress at the first focus phase.
func ResetProgress() Progress {
	return Progress{}
}

// Advance moves to the next phase. Entering a break completes a round; completing
// RoundsInSession rounds completes a session. Finished is sticky.
func Advance(p model.Preset, cur Progress) Progress {
	next := cur
	next.IsBreak = !cur.IsBreak
	if next.IsBreak {
		next.ElapsedRounds++
	}
	if next.ElapsedRounds != 0 && next.ElapsedRounds%roundsInSession(p) == 0 {
		next.ElapsedSessions++
		next.ElapsedRounds = 0
	}
	if next.ElapsedSessions >= p.TotalSessions {
		next.Finished = true
	}
	return next
}

// CurrentPhase returns the phase the progress points at.
func CurrentPhase(p model.Preset, cur Progress) model.Phase {
	if !cur.IsBreak {
		return model.PhaseFocus
	}
	// A long break follows every completed set of rounds.
	if cur.ElapsedRounds%roundsInSession(p) == 0 {
		return model.PhaseLongBreak
	}
	return model.PhaseShortBreak
}

// PhaseLength returns the countdown length of the current phase.
func PhaseLength(p model.Preset, cur Progress) time.Duration {
	switch CurrentPhase(p, cur) {
	case model.PhaseLongBreak:
		return time.Duration(p.LongBreakLength) * time.Minute
	case model.PhaseShortBreak:
		return time.Duration(p.BreakLength) * time.Minute
	default:
		return time.Duration(p.FocusLength) * time.Minute
	}
}

func roundsInSession(p model.Preset) int {
	if p.RoundsInSession < 1 {
		return 1
	}
	return p.RoundsInSession
}
