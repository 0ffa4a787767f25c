package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

type fakeStore struct {
	mu          sync.Mutex
	settings    model.Settings
	presets     []model.Preset
	warningSets []bool
}

func (f *fakeStore) ListPresets(context.Context) ([]model.Preset, error) {
	return f.presets, nil
}

func (f *fakeStore) GetSettings(context.Context) (model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeStore) UpdateCoinWarning(_ context.Context, show bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.ShowCoinWarning = show
	f.warningSets = append(f.warningSets, show)
	return nil
}

func newTestModel(t *testing.T, st *fakeStore) *Model {
	t.Helper()
	session := timer.New(nil, bonus.NewOracle(), timer.Options{TickInterval: time.Millisecond})
	m := NewModel(session, st, model.DefaultPresetID)
	m.Update(settingsMsg{settings: st.settings})
	return m
}

func press(m *Model, keys string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	if keys == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

// earnPoints runs one focus tick that lands on a bonus second.
func earnPoints(t *testing.T, m *Model) {
	t.Helper()
	m.session.SetTimerLength(6 * time.Second)
	cmd := press(m, " ")
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Positive(t, m.session.Points())
	m.session.Pause()
}

func TestSpaceTogglesCountdown(t *testing.T) {
	m := newTestModel(t, &fakeStore{settings: model.DefaultSettings()})

	assert.NotNil(t, press(m, " "))
	assert.Equal(t, timer.StateRunning, m.session.State())

	assert.Nil(t, press(m, " "))
	assert.Equal(t, timer.StatePaused, m.session.State())
}

func TestSkipAsksBeforeForfeitingPoints(t *testing.T) {
	m := newTestModel(t, &fakeStore{settings: model.DefaultSettings()})
	earnPoints(t, m)

	press(m, "s")
	assert.True(t, m.confirmSkip)
	assert.False(t, m.session.Progress().IsBreak)
	assert.Contains(t, m.View(), "forfeits")

	press(m, "n")
	assert.False(t, m.confirmSkip)
	assert.Positive(t, m.session.Points())

	press(m, "s")
	press(m, "y")
	assert.False(t, m.confirmSkip)
	assert.Zero(t, m.session.Points())
	assert.True(t, m.session.Progress().IsBreak)
}

func TestSkipDontAskAgainDisablesWarning(t *testing.T) {
	st := &fakeStore{settings: model.DefaultSettings()}
	m := newTestModel(t, st)
	earnPoints(t, m)

	press(m, "s")
	cmd := press(m, "d")
	require.NotNil(t, cmd)
	runCmd(cmd)
	assert.Equal(t, []bool{false}, st.warningSets)
	assert.False(t, m.settings.ShowCoinWarning)
	assert.True(t, m.session.Progress().IsBreak)
}

func TestSkipWithoutWarning(t *testing.T) {
	m := newTestModel(t, &fakeStore{settings: model.Settings{ShowCoinWarning: false}})
	earnPoints(t, m)

	press(m, "s")
	assert.False(t, m.confirmSkip)
	assert.True(t, m.session.Progress().IsBreak)
}

func TestAdjustKeys(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	press(m, "+")
	assert.Equal(t, 26*time.Minute, m.session.Remaining())
	press(m, "-")
	press(m, "-")
	assert.Equal(t, 24*time.Minute, m.session.Remaining())
}

func TestNextPresetCycles(t *testing.T) {
	st := &fakeStore{presets: []model.Preset{{ID: 4, Name: "a"}, {ID: 9, Name: "b"}}}
	m := newTestModel(t, st)
	m.Update(presetsMsg{presets: st.presets})

	assert.Equal(t, int64(4), m.nextPresetID())
}

func TestBankedRefreshesSettings(t *testing.T) {
	st := &fakeStore{settings: model.Settings{Currency: 10}}
	m := newTestModel(t, st)

	st.settings.Currency = 25
	_, cmd := m.Update(timer.BankedMsg{})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 25, m.settings.Currency)
	assert.Contains(t, m.View(), "Coins 25")
}
