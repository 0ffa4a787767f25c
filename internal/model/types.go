// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPresetID is the sentinel id for the built-in preset. Ids <= 0 never hit the store.
const DefaultPresetID int64 = 0

// Preset is a named timer configuration. Lengths are minutes.
type Preset struct {
	ID              int64  `json:"id" yaml:"-"`
	Name            string `json:"name" yaml:"name"`
	RoundsInSession int    `json:"roundsInSession" yaml:"rounds_in_session"`
	TotalSessions   int    `json:"totalSessions" yaml:"total_sessions"`
	FocusLength     int    `json:"focusLength" yaml:"focus_length"`
	BreakLength     int    `json:"breakLength" yaml:"break_length"`
	LongBreakLength int    `json:"longBreakLength" yaml:"long_break_length"`
}

// DefaultPreset returns the built-in preset used when no stored preset is selected.
func DefaultPreset() Preset {
	return Preset{
		ID:              DefaultPresetID,
		Name:            "default",
		RoundsInSession: 3,
		TotalSessions:   2,
		FocusLength:     25,
		BreakLength:     5,
		LongBreakLength: 25,
	}
}

// Validate checks that a preset can be stored.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.RoundsInSession <= 0 {
		return fmt.Errorf("rounds in session must be > 0")
	}
	if p.TotalSessions <= 0 {
		return fmt.Errorf("total sessions must be > 0")
	}
	if p.FocusLength <= 0 || p.BreakLength <= 0 || p.LongBreakLength <= 0 {
		return fmt.Errorf("lengths must be > 0")
	}
	return nil
}

// Settings is the durable user record.
type Settings struct {
	Currency        int  `json:"currency"`
	ShowCoinWarning bool `json:"showCoinWarning"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{Currency: 0, ShowCoinWarning: true}
}

// Unlockable is an item that can be bought with currency.
type Unlockable struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Cost      int    `json:"cost"`
	Purchased bool   `json:"purchased"`
}

// SampleUnlockables are the prizes seeded into an empty shop.
func SampleUnlockables() []Unlockable {
	return []Unlockable{
		{Name: "Amazing prize", Cost: 25},
		{Name: "Incredible prize", Cost: 50},
		{Name: "Mindblowing prize", Cost: 100},
	}
}

// Phase identifies a timer interval.
type Phase string

const (
	// PhaseNone means no phase has been set up yet.
	PhaseNone       Phase = ""
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// IsBreak reports whether the phase is any kind of break.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// PhaseRecord is one finished or skipped phase.
type PhaseRecord struct {
	ID             string    `json:"id"`
	PresetID       int64     `json:"presetId"`
	PresetName     string    `json:"presetName"`
	Phase          Phase     `json:"phase"`
	PlannedSeconds int       `json:"plannedSeconds"`
	Points         int       `json:"points"`
	Skipped        bool      `json:"skipped"`
	EndedAt        time.Time `json:"endedAt"`
}

// HistoryFilter defines filters for phase history output.
type HistoryFilter struct {
	Since *time.Time
	Last  int
}
