// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the interactive clock face. The model never touches
// the clock directly: key presses go through the session and clock ticks
// arrive as messages from a Bridge.
package tui // import "github.com/toeirei/goclock/internal/tui"

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/goclock/internal/clock"
	"github.com/toeirei/goclock/internal/i18n"
	"github.com/toeirei/goclock/internal/logging"
	"github.com/toeirei/goclock/internal/model"
	"github.com/toeirei/goclock/internal/session"
)

// Options configures the clock face.
type Options struct {
	// SaveName is the snapshot name used by the save key. When empty a
	// name is derived from the current time.
	SaveName string
}

// Model is the bubbletea model of the clock face.
type Model struct {
	ctx     context.Context
	session *session.Session
	bridge  *Bridge
	opts    Options

	keys    keyMap
	help    help.Model
	status  session.Status
	message string
	isError bool
	width   int

	// copyFn writes to the system clipboard.
	copyFn func(string) error
	now    func() time.Time
}

// New returns the clock face for s. The bridge may be nil when no ticks
// are expected, e.g. in tests.
func New(ctx context.Context, s *session.Session, b *Bridge, opts Options) Model {
	if b == nil {
		b = NewBridge()
	}
	return Model{
		ctx:     ctx,
		session: s,
		bridge:  b,
		opts:    opts,
		keys:    newKeyMap(),
		help:    help.New(),
		status:  s.Status(),
		width:   60,
		copyFn:  clipboard.WriteAll,
		now:     time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.session.Do(func(*clock.Clock) { msg.fn() })
		if m.bridge.takeChanged() {
			m.status = m.session.Status()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message, m.isError = "", false
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Halt()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Switch):
		m.session.Switch()

	case key.Matches(msg, m.keys.Pause):
		if _, err := m.session.TogglePause(); err != nil {
			m.setError(i18n.T("clock.not_started"))
		}

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.message = i18n.T("status.reset")

	case key.Matches(msg, m.keys.Undo):
		if err := m.session.Undo(); err != nil {
			if errors.Is(err, session.ErrNothingToUndo) {
				m.setError(i18n.T("status.undo_empty"))
			} else {
				m.setError(err.Error())
			}
		}

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Copy):
		if err := m.copyFn(m.session.Status().String()); err != nil {
			m.setError(i18n.T("status.copy_failed", err))
		} else {
			m.message = i18n.T("status.copied")
		}
	}
	m.bridge.takeChanged()
	m.status = m.session.Status()
	return m, nil
}

func (m *Model) save() {
	name := m.opts.SaveName
	if name == "" {
		name = "game-" + m.now().Format("20060102-150405")
	}
	if _, err := m.session.Save(m.ctx, name, true); err != nil {
		if errors.Is(err, session.ErrNoStore) {
			m.setError(i18n.T("status.no_store"))
		} else {
			logging.Errorf("tui: save failed: %v", err)
			m.setError(i18n.T("status.save_failed", err))
		}
		return
	}
	m.message = i18n.T("status.saved", name)
}

func (m *Model) setError(s string) {
	m.message, m.isError = s, true
}

func (m Model) View() string {
	var b strings.Builder

	title := titleStyle.Render(i18n.T("app.title"))
	sub := i18n.T("clock.no_limit")
	if m.status.Settings != "" {
		sub = m.status.Settings
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, title, subtitleStyle.Render(sub)))
	b.WriteString("\n\n")

	panes := make([]string, 0, len(m.status.Players))
	for _, p := range m.status.Players {
		panes = append(panes, m.renderPlayer(p))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n\n")

	var state string
	switch {
	case m.status.ToMove == nil:
		state = i18n.T("clock.not_started")
	case m.status.Paused:
		state = i18n.T("clock.halted")
	default:
		state = i18n.T("clock.move", clock.FormatSeconds(int64(m.status.MoveElapsed/time.Second)))
	}
	msg := m.message
	switch {
	case msg == "":
	case m.isError:
		msg = errorStyle.Render(msg)
	default:
		msg = successStyle.Render(msg)
	}
	b.WriteString(AlignFooter(footerStyle.Render(state), msg, m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) renderPlayer(p session.PlayerStatus) string {
	name := i18n.T("color.black")
	if p.Color == model.White {
		name = i18n.T("color.white")
	}
	lines := []string{colorNameStyle.Render(name), "", timeStyle.Render(p.Display)}
	switch {
	case p.Lost:
		lines = append(lines, lostStyle.Render(i18n.T("clock.lost_on_time")))
	case p.InOvertime:
		lines = append(lines, overtimeStyle.Render(i18n.T("clock.overtime")))
	default:
		lines = append(lines, "")
	}
	if p.ToMove {
		lines = append(lines, subtitleStyle.Render(i18n.T("clock.to_move")))
	} else {
		lines = append(lines, "")
	}
	style := paneStyle
	if p.ToMove {
		style = activePaneStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Run shows the clock face until the user quits. The clock behind s must
// have been created with b as its dispatcher for the face to refresh while
// a move is timed.
func Run(ctx context.Context, s *session.Session, b *Bridge, opts Options) error {
	s.SetListener(b)
	defer s.SetListener(nil)

	p := tea.NewProgram(New(ctx, s, b, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	b.attach(p)
	defer b.attach(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("clock face: %w", err)
	}
	return nil
}
