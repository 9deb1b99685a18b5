package player

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/session"
)

// Controller is the part of a session the player drives.
type Controller interface {
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	JumpTo(ctx context.Context, k int) error
	TogglePause(ctx context.Context) error
	Resample(ctx context.Context) error
	Updates() <-chan session.Snapshot
}

type snapshotMsg session.Snapshot

// actionErrMsg reports a failed key action.
type actionErrMsg struct{ err error }

// changeMsg is sent when the server announced a new listing and the session
// refreshed from it.
type changeMsg gallery.Change

// refreshErrMsg is sent when a refresh after a change failed.
type refreshErrMsg struct {
	category gallery.Category
	err      error
}

// Model is the bubbletea model of the player.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	styles Styles

	snap   session.Snapshot
	status string
	width  int
}

// New creates a model starting from snap.
func New(ctx context.Context, ctrl Controller, snap session.Snapshot) Model {
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		styles: DefaultStyles(),
		snap:   snap,
		width:  80,
	}
}

// Snapshot returns the state currently rendered.
func (m Model) Snapshot() session.Snapshot { return m.snap }

// Status returns the status line.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.ctx, m.ctrl.Updates())
}

func waitForSnapshot(ctx context.Context, ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-ch:
			return snapshotMsg(snap)
		case <-ctx.Done():
			return nil
		}
	}
}

// action runs op off the update goroutine; session calls block on its loop.
func (m Model) action(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := op(ctx); err != nil {
			return actionErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		// Older snapshots can arrive after a newer one was rendered.
		if msg.Seq >= m.snap.Seq {
			m.snap = session.Snapshot(msg)
		}
		return m, waitForSnapshot(m.ctx, m.ctrl.Updates())

	case actionErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case changeMsg:
		if msg.Hash == "" {
			m.status = fmt.Sprintf("%s reloaded", msg.Category)
			return m, nil
		}
		m.status = fmt.Sprintf("%s updated: %d photos", msg.Category, msg.Count)
		return m, nil

	case refreshErrMsg:
		m.status = fmt.Sprintf("%s refresh failed: %v", msg.category, msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.status = ""
		return m, m.action(m.ctrl.Previous)
	case "right", "l":
		m.status = ""
		return m, m.action(m.ctrl.Next)
	case " ", "p":
		m.status = ""
		return m, m.action(m.ctrl.TogglePause)
	case "r":
		m.status = ""
		return m, m.action(m.ctrl.Resample)
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		k := int(key[0] - '1')
		m.status = ""
		return m, m.action(func(ctx context.Context) error { return m.ctrl.JumpTo(ctx, k) })
	}
	return m, nil
}
