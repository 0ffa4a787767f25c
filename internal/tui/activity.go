package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pomocoin/internal/bonus"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ActivityMsg carries an activity change into the Update loop.
type ActivityMsg struct {
	Activity bonus.Activity
}

// ActivityForwarder is an activity.Setter that posts changes to the program, so the
// oracle is only written from Update.
type ActivityForwarder struct {
	Sender Sender
}

// SetActivity implements activity.Setter.
func (f ActivityForwarder) SetActivity(a bonus.Activity) {
	f.Sender.Send(ActivityMsg{Activity: a})
}
