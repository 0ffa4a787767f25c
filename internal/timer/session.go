package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/model"
)

const (
	// DefaultBonusInterval is how often, in countdown seconds, a bonus is awarded.
	DefaultBonusInterval = 5

	loadTimeout    = 5 * time.Second
	persistTimeout = 5 * time.Second
)

// Store is the persistence a Session needs.
type Store interface {
	GetPreset(ctx context.Context, id int64) (model.Preset, error)
	AddCurrency(ctx context.Context, delta int) error
	InsertPhase(ctx context.Context, rec model.PhaseRecord) error
}

// Retry bounds how often a failed write is attempted.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn until it succeeds, attempts run out or ctx is done.
func (r Retry) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(r.Delay):
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}

// Options tune a Session. Zero values select defaults.
type Options struct {
	// BonusInterval is the number of countdown seconds between bonus awards.
	BonusInterval int
	// TickInterval is the wall-clock time per countdown second.
	TickInterval time.Duration
	// Chime runs when a phase runs out.
	Chime func()
	Retry Retry
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.BonusInterval <= 0 {
		o.BonusInterval = DefaultBonusInterval
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Retry.Attempts <= 0 {
		o.Retry = Retry{Attempts: 3, Delay: 200 * time.Millisecond}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type presetLoadedMsg struct {
	seq    int
	id     int64
	preset model.Preset
	err    error
}

// BankedMsg reports the outcome of persisting a finished or skipped phase.
type BankedMsg struct {
	Record model.PhaseRecord
	Err    error
}

// Session binds a Countdown, session progress and a bonus Oracle for one preset run.
// A Session is not safe for concurrent use; its owner serializes calls and Update.
type Session struct {
	store     Store
	oracle    *bonus.Oracle
	countdown *Countdown
	opts      Options

	preset   model.Preset
	progress Progress
	// configured is the phase whose length the countdown holds, or PhaseNone.
	configured model.Phase
	points     int
	loadSeq    int
}

// New returns a Session on the default preset, set up for the first focus phase.
func New(st Store, oracle *bonus.Oracle, opts Options) *Session {
	if oracle == nil {
		oracle = bonus.NewOracle()
	}
	s := &Session{
		store:     st,
		oracle:    oracle,
		countdown: NewCountdown(),
		opts:      opts.withDefaults(),
		preset:    model.DefaultPreset(),
	}
	s.countdown.interval = s.opts.TickInterval
	s.resetProgress()
	s.setup()
	return s
}

// Preset returns the loaded preset.
func (s *Session) Preset() model.Preset {
	return s.preset
}

// Progress returns the current progress.
func (s *Session) Progress() Progress {
	return s.progress
}

// Points returns the unbanked points of the current phase.
func (s *Session) Points() int {
	return s.points
}

// State returns the countdown run state.
func (s *Session) State() RunState {
	return s.countdown.State()
}

// Remaining returns the countdown's remaining time.
func (s *Session) Remaining() time.Duration {
	return s.countdown.Remaining()
}

// Oracle returns the bonus oracle the Session consults.
func (s *Session) Oracle() *bonus.Oracle {
	return s.oracle
}

// LoadPreset switches to the preset with the given id. Ids <= 0 select the default preset
// without a lookup. Stored presets load asynchronously through the returned command; a
// failed lookup keeps the previously loaded preset.
func (s *Session) LoadPreset(id int64) tea.Cmd {
	if id < model.DefaultPresetID {
		id = model.DefaultPresetID
	}
	if id == s.preset.ID {
		return nil
	}
	s.countdown.Pause()
	s.points = 0
	s.resetProgress()
	s.setup()
	s.loadSeq++
	if id == model.DefaultPresetID {
		s.applyPreset(model.DefaultPreset())
		return nil
	}

	seq := s.loadSeq
	st := s.store
	return func() tea.Msg {
		if st == nil {
			return presetLoadedMsg{seq: seq, id: id, err: fmt.Errorf("no preset store")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		p, err := st.GetPreset(ctx, id)
		return presetLoadedMsg{seq: seq, id: id, preset: p, err: err}
	}
}

// Start runs the countdown for the current phase, setting it up first if needed.
// It does nothing once the preset is finished.
func (s *Session) Start() tea.Cmd {
	if s.progress.Finished {
		return nil
	}
	if s.configured == model.PhaseNone {
		s.setup()
	}
	return s.countdown.Start()
}

// Pause stops the countdown.
func (s *Session) Pause() {
	s.countdown.Pause()
}

// Skip forfeits the unbanked points and moves to the next phase without starting it.
// The skip is recorded in history with zero points.
func (s *Session) Skip() tea.Cmd {
	s.points = 0
	if s.progress.Finished {
		return nil
	}
	rec := s.record(0, true)
	s.countdown.Pause()
	s.configured = model.PhaseNone
	s.progress = Advance(s.preset, s.progress)
	s.setup()
	return s.persist(rec)
}

// Reset returns to the first focus phase of the preset.
func (s *Session) Reset() {
	s.countdown.Pause()
	s.points = 0
	s.resetProgress()
	s.setup()
}

// AdjustTime adds seconds to the remaining time, clamped at zero.
func (s *Session) AdjustTime(deltaSeconds int) {
	s.countdown.AdjustTime(deltaSeconds)
}

// SetTimerLength overwrites the remaining time. Negative lengths are ignored.
func (s *Session) SetTimerLength(d time.Duration) {
	s.countdown.SetTime(d)
}

// End finishes the preset early. Unbanked points are dropped.
func (s *Session) End() {
	s.points = 0
	s.progress.Finished = true
	s.countdown.End()
	s.setup()
}

// Update handles messages produced by the Session's own commands. Other messages are ignored.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		return s.handleTick(msg)
	case presetLoadedMsg:
		s.handlePresetLoaded(msg)
	}
	return nil
}

func (s *Session) handleTick(msg TickMsg) tea.Cmd {
	ticked, finished, next := s.countdown.Update(msg)
	if !ticked {
		return nil
	}
	secs := int(s.countdown.Remaining() / time.Second)
	if secs%s.opts.BonusInterval == 0 {
		s.points += s.oracle.Bonus(s.progress.IsBreak)
	}
	if !finished {
		return next
	}
	return s.completePhase()
}

// completePhase banks the phase and chains into the next one unless the preset is done.
func (s *Session) completePhase() tea.Cmd {
	rec := s.record(s.points, false)
	s.points = 0
	s.progress = Advance(s.preset, s.progress)
	s.countdown.Pause()
	s.configured = model.PhaseNone

	cmds := []tea.Cmd{s.chime(), s.persist(rec)}
	if !s.progress.Finished {
		cmds = append(cmds, s.Start())
	}
	return tea.Batch(cmds...)
}

func (s *Session) handlePresetLoaded(msg presetLoadedMsg) {
	if msg.seq != s.loadSeq {
		return
	}
	if msg.err != nil {
		logger.Warn("failed to load preset, keeping current", "id", msg.id, "current", s.preset.ID, "err", msg.err)
		return
	}
	s.applyPreset(msg.preset)
}

func (s *Session) applyPreset(p model.Preset) {
	s.countdown.Pause()
	s.preset = p
	s.points = 0
	s.resetProgress()
	s.setup()
}

func (s *Session) resetProgress() {
	s.progress = ResetProgress()
	if s.preset.TotalSessions <= 0 {
		s.progress.Finished = true
	}
}

func (s *Session) setup() {
	s.countdown.Configure(PhaseLength(s.preset, s.progress))
	s.configured = CurrentPhase(s.preset, s.progress)
}

func (s *Session) record(points int, skipped bool) model.PhaseRecord {
	phase := s.configured
	if phase == model.PhaseNone {
		phase = CurrentPhase(s.preset, s.progress)
	}
	return model.PhaseRecord{
		ID:             uuid.NewString(),
		PresetID:       s.preset.ID,
		PresetName:     s.preset.Name,
		Phase:          phase,
		PlannedSeconds: int(PhaseLength(s.preset, s.progress) / time.Second),
		Points:         points,
		Skipped:        skipped,
		EndedAt:        s.opts.Now(),
	}
}

func (s *Session) chime() tea.Cmd {
	chime := s.opts.Chime
	if chime == nil {
		return nil
	}
	return func() tea.Msg {
		chime()
		return nil
	}
}

// persist banks rec.Points and stores rec. Currency and history are retried separately so a
// history failure never re-banks points.
func (s *Session) persist(rec model.PhaseRecord) tea.Cmd {
	st := s.store
	if st == nil {
		return nil
	}
	retry := s.opts.Retry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		var errs []error
		if rec.Points != 0 {
			if err := retry.Do(ctx, func(ctx context.Context) error {
				return st.AddCurrency(ctx, rec.Points)
			}); err != nil {
				logger.Error("failed to bank points", "points", rec.Points, "err", err)
				errs = append(errs, fmt.Errorf("failed to bank points: %w", err))
			}
		}
		if err := retry.Do(ctx, func(ctx context.Context) error {
			return st.InsertPhase(ctx, rec)
		}); err != nil {
			logger.Warn("failed to record phase", "phase", rec.Phase, "err", err)
			errs = append(errs, fmt.Errorf("failed to record phase: %w", err))
		}
		return BankedMsg{Record: rec, Err: errors.Join(errs...)}
	}
}
