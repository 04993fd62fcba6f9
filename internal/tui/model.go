// Package tui renders a media-selection session in the terminal and turns
// key presses into workflow requests.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/posediver/media-picker/internal/media"
	"github.com/posediver/media-picker/internal/workflow"
)

// Controller is the part of the workflow the session drives.
type Controller interface {
	RequestCapture(ctx context.Context, req workflow.CaptureRequest) (*workflow.Pending, error)
	RequestSelection(ctx context.Context, req workflow.SelectionRequest) (*workflow.Pending, error)
	ClearAll()
	Snapshot() workflow.Snapshot
}

// Options tunes the requests the toolbar issues.
type Options struct {
	AllowsEditing  bool
	SelectionLimit int
}

// NotificationMsg carries a workflow notification into the update loop.
type NotificationMsg workflow.Notification

// requestRejectedMsg reports a request the workflow refused without
// notifying observers.
type requestRejectedMsg struct {
	err error
}

// Model is the bubbletea model for a session.
type Model struct {
	ctx  context.Context
	ctrl Controller
	opts Options

	keys      keyMap
	alertKeys alertKeyMap
	help      help.Model
	snapshot  workflow.Snapshot
	alert     string
	width     int
	height    int
}

// New returns a model showing ctrl's current state.
func New(ctx context.Context, ctrl Controller, opts Options) Model {
	if opts.SelectionLimit < 1 {
		opts.SelectionLimit = 1
	}
	keys := newKeyMap()
	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		keys:      keys,
		alertKeys: alertKeyMap{keys},
		help:      help.New(),
		snapshot:  ctrl.Snapshot(),
	}
}

// Observe returns a workflow observer that forwards notifications to p.
// Delivery goes through the program's message loop, so workflow mutators
// must never be called from inside Update.
func Observe(p *tea.Program) workflow.Observer {
	return func(n workflow.Notification) {
		p.Send(NotificationMsg(n))
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case NotificationMsg:
		m.snapshot = msg.Snapshot
		if msg.Err != nil {
			m.alert = workflow.AlertMessage(msg.Err)
		}
		return m, nil

	case requestRejectedMsg:
		m.alert = workflow.AlertMessage(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.alert != "" {
			return m.updateAlert(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.OK):
		m.alert = ""
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Capture):
		if m.snapshot.Presented {
			return m, nil
		}
		return m, m.captureCmd()
	case key.Matches(msg, m.keys.Pick):
		if m.snapshot.Presented {
			return m, nil
		}
		return m, m.selectCmd(media.KindVideo)
	case key.Matches(msg, m.keys.Clear):
		if len(m.snapshot.Results) == 0 {
			return m, nil
		}
		return m, m.clearCmd()
	}
	return m, nil
}

// Requests run as commands so the workflow's notifications can reach the
// program while they are in flight.

func (m Model) captureCmd() tea.Cmd {
	ctx, ctrl, editing := m.ctx, m.ctrl, m.opts.AllowsEditing
	return func() tea.Msg {
		_, err := ctrl.RequestCapture(ctx, workflow.CaptureRequest{Kind: media.KindVideo, AllowsEditing: editing})
		return rejection(err)
	}
}

func (m Model) selectCmd(kind media.Kind) tea.Cmd {
	ctx, ctrl, limit := m.ctx, m.ctrl, m.opts.SelectionLimit
	return func() tea.Msg {
		_, err := ctrl.RequestSelection(ctx, workflow.SelectionRequest{Kind: kind, Limit: limit})
		return rejection(err)
	}
}

func (m Model) clearCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.ClearAll()
		return nil
	}
}

// rejection turns request errors that were not published as notifications
// into a message. Availability failures arrive as notifications already.
func rejection(err error) tea.Msg {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrInvalidLimit),
		errors.Is(err, workflow.ErrUnsupportedKind):
		return requestRejectedMsg{err: err}
	}
	return nil
}
