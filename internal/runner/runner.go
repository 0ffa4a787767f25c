// Package runner drives a timer.Session without a terminal.
//
// The Runner goroutine is the only code touching the Session. Commands the Session returns run
// on their own goroutines and post their messages back to the Runner's queue, the same contract
// a Bubble Tea program gives the TUI.
package runner

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

// ErrStopped is returned by Do once the Runner has stopped.
var ErrStopped = errors.New("runner stopped")

type request struct {
	fn   func(*timer.Session) tea.Cmd
	done chan timer.Snapshot
}

// Runner owns a Session on a single goroutine.
type Runner struct {
	session *timer.Session
	msgs    chan tea.Msg
	reqs    chan request
	stopped chan struct{}
	// OnMsg, when set, sees every message after the Session handled it.
	OnMsg func(tea.Msg)
}

// New wraps a Session. Call Run to start processing.
func New(session *timer.Session) *Runner {
	return &Runner{
		session: session,
		msgs:    make(chan tea.Msg, 16),
		reqs:    make(chan request),
		stopped: make(chan struct{}),
	}
}

// Run processes requests and messages until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-r.reqs:
			r.exec(ctx, req.fn(r.session))
			req.done <- r.session.Snapshot()
		case msg := <-r.msgs:
			r.exec(ctx, r.session.Update(msg))
			if banked, ok := msg.(timer.BankedMsg); ok {
				logger.Info("phase recorded", "phase", banked.Record.Phase, "points", banked.Record.Points, "skipped", banked.Record.Skipped)
			}
			if r.OnMsg != nil {
				r.OnMsg(msg)
			}
		}
	}
}

// Do runs fn against the Session on the Runner goroutine and returns the resulting snapshot.
func (r *Runner) Do(ctx context.Context, fn func(*timer.Session) tea.Cmd) (timer.Snapshot, error) {
	req := request{fn: fn, done: make(chan timer.Snapshot, 1)}
	select {
	case r.reqs <- req:
	case <-r.stopped:
		return timer.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return timer.Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.done:
		return snap, nil
	case <-ctx.Done():
		return timer.Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the Session's current state.
func (r *Runner) Snapshot(ctx context.Context) (timer.Snapshot, error) {
	return r.Do(ctx, func(*timer.Session) tea.Cmd { return nil })
}

func (r *Runner) exec(ctx context.Context, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		r.dispatch(ctx, cmd())
	}()
}

func (r *Runner) dispatch(ctx context.Context, msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			r.exec(ctx, cmd)
		}
		return
	}
	select {
	case r.msgs <- msg:
	case <-ctx.Done():
	}
}
