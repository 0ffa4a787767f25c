// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

const (
	storeTimeout    = 5 * time.Second
	contentMaxWidth = 48
)

// Store is the persistence the timer screen reads besides the Session's own.
type Store interface {
	ListPresets(ctx context.Context) ([]model.Preset, error)
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateCoinWarning(ctx context.Context, show bool) error
}

type settingsMsg struct {
	settings model.Settings
	err      error
}

type presetsMsg struct {
	presets []model.Preset
	err     error
}

// Model implements the Bubble Tea timer UI.
type Model struct {
	session  *timer.Session
	store    Store
	presetID int64

	settings    model.Settings
	hasSettings bool
	presets     []model.Preset

	keys        keyMap
	help        help.Model
	bar         progress.Model
	confirmSkip bool
	status      string

	width  int
	height int
}

var (
	clockStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	breakStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FB760"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FF4D4F")).Padding(0, 2)
)

// NewModel constructs the timer TUI. presetID selects the preset loaded on Init.
func NewModel(session *timer.Session, store Store, presetID int64) *Model {
	return &Model{
		session:  session,
		store:    store,
		presetID: presetID,
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.session.LoadPreset(m.presetID), m.loadSettings(), m.loadPresets())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case settingsMsg:
		if msg.err != nil {
			logger.Warn("failed to load settings", "err", msg.err)
			return m, nil
		}
		m.settings = msg.settings
		m.hasSettings = true
		return m, nil
	case presetsMsg:
		if msg.err != nil {
			logger.Warn("failed to list presets", "err", msg.err)
			return m, nil
		}
		m.presets = msg.presets
		return m, nil
	case ActivityMsg:
		m.session.Oracle().SetActivity(msg.Activity)
		return m, nil
	case timer.BankedMsg:
		m.status = ""
		if msg.Err != nil {
			m.status = "could not save the last phase"
		}
		return m, m.loadSettings()
	default:
		return m, m.session.Update(msg)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirmSkip {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmSkip = false
			return m.session.Skip()
		case key.Matches(msg, m.keys.Never):
			m.confirmSkip = false
			m.settings.ShowCoinWarning = false
			return tea.Batch(m.session.Skip(), m.disableCoinWarning())
		case key.Matches(msg, m.keys.Cancel):
			m.confirmSkip = false
		case msg.Type == tea.KeyCtrlC:
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if m.session.State() == timer.StateRunning {
			m.session.Pause()
			return nil
		}
		return m.session.Start()
	case key.Matches(msg, m.keys.Skip):
		if m.settings.ShowCoinWarning && m.session.Points() > 0 {
			m.confirmSkip = true
			return nil
		}
		return m.session.Skip()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
	case key.Matches(msg, m.keys.Plus):
		m.session.AdjustTime(60)
	case key.Matches(msg, m.keys.Minus):
		m.session.AdjustTime(-60)
	case key.Matches(msg, m.keys.End):
		m.session.End()
	case key.Matches(msg, m.keys.Preset):
		return m.session.LoadPreset(m.nextPresetID())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// nextPresetID cycles through the default preset followed by the stored ones.
func (m *Model) nextPresetID() int64 {
	ids := []int64{model.DefaultPresetID}
	for _, p := range m.presets {
		ids = append(ids, p.ID)
	}
	current := m.session.Preset().ID
	for i, id := range ids {
		if id == current {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

func (m *Model) loadSettings() tea.Cmd {
	st := m.store
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		settings, err := st.GetSettings(ctx)
		return settingsMsg{settings: settings, err: err}
	}
}

func (m *Model) loadPresets() tea.Cmd {
	st := m.store
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		presets, err := st.ListPresets(ctx)
		return presetsMsg{presets: presets, err: err}
	}
}

func (m *Model) disableCoinWarning() tea.Cmd {
	st := m.store
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := st.UpdateCoinWarning(ctx, false); err != nil {
			logger.Error("failed to disable coin warning", "err", err)
		}
		return nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.session.Snapshot()
	content := m.renderTimer(snap)
	if m.confirmSkip {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", m.renderConfirm(snap))
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter(snap)
	}
	footer := m.renderFooter(snap)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTimer(snap timer.Snapshot) string {
	label := phaseLabel(snap)
	labelStyle := focusStyle
	if snap.IsBreak {
		labelStyle = breakStyle
	}

	clock := fmt.Sprintf("%s:%s", snap.Minutes, snap.Seconds)
	if snap.Hours != "00" {
		clock = snap.Hours + ":" + clock
	}

	width := contentMaxWidth
	if m.width > 0 && m.width-4 < width {
		width = max(m.width-4, 10)
	}
	m.bar.Width = width

	lines := []string{
		labelStyle.Render(label),
		clockStyle.Render(clock),
		m.bar.ViewAs(elapsedFraction(snap)),
		dimStyle.Render(progressLine(snap)),
		dimStyle.Render(fmt.Sprintf("%s · points %d · activity %s", snap.State, snap.Points, snap.Activity)),
	}
	if m.status != "" {
		lines = append(lines, warnStyle.Render(m.status))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderConfirm(snap timer.Snapshot) string {
	text := fmt.Sprintf("Skipping forfeits %d unbanked points.", snap.Points)
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center, text, m.help.View(confirmKeys{keys: m.keys})))
}

func (m *Model) renderFooter(snap timer.Snapshot) string {
	segments := []string{fmt.Sprintf("Preset %s", snap.PresetName)}
	if m.hasSettings {
		segments = append(segments, fmt.Sprintf("Coins %d", m.settings.Currency))
	}
	if snap.Points > 0 {
		segments = append(segments, fmt.Sprintf("Unbanked %d", snap.Points))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func phaseLabel(snap timer.Snapshot) string {
	if snap.Finished {
		return "Done"
	}
	switch snap.Phase {
	case model.PhaseShortBreak:
		return "Short break"
	case model.PhaseLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

func progressLine(snap timer.Snapshot) string {
	if snap.Finished {
		return fmt.Sprintf("%d/%d sessions", snap.TotalSessions, snap.TotalSessions)
	}
	return fmt.Sprintf("Rounds %d/%d · Sessions %d/%d",
		snap.ElapsedRounds, max(snap.RoundsInSession, 1),
		snap.ElapsedSessions, snap.TotalSessions)
}

func elapsedFraction(snap timer.Snapshot) float64 {
	if snap.PhaseSeconds <= 0 {
		return 0
	}
	done := float64(snap.PhaseSeconds-snap.RemainingSeconds) / float64(snap.PhaseSeconds)
	return min(max(done, 0), 1)
}
