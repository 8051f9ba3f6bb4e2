// Package tui is the terminal single-page client: a URL prompt, the fetched
// post and the list of recent searches.
//
// The model does not own any fetch state. It starts fetches through a
// session.Session and renders the session's Snapshot, so the same state is
// visible to every other caller of that session.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qepting91/reddit-viewer/internal/collector"
	"github.com/qepting91/reddit-viewer/internal/session"
)

// ExampleURL is offered by ctrl+e.
const ExampleURL = "https://www.reddit.com/r/typescript/comments/1bshvi6/typescript_5_announcement/"

type focusArea int

const (
	focusInput focusArea = iota
	focusBrowse
)

// fetchDoneMsg reports that the fetch with sequence Seq has resolved.
type fetchDoneMsg struct {
	Seq uint64
}

// Model is the root Bubble Tea model.
type Model struct {
	session *session.Session
	ctx     context.Context

	input    textinput.Model
	spinner  spinner.Model
	focus    focusArea
	touched  bool
	expanded bool
	cursor   int

	width  int
	height int
	now    func() time.Time
}

func New(ctx context.Context, sess *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter Reddit post URL"
	ti.Prompt = "URL › "
	ti.CharLimit = 2048
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statsStyle

	return Model{
		session: sess,
		ctx:     ctx,
		input:   ti,
		spinner: s,
		focus:   focusInput,
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 20)
		return m, nil

	case spinner.TickMsg:
		// Let the tick chain die once nothing is loading.
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		m.expanded = false
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		url := strings.TrimSpace(m.input.Value())
		if !collector.IsPostURL(url) {
			m.touched = true
			return m, nil
		}
		if m.loading() {
			return m, nil
		}
		m.input.Reset()
		m.touched = false
		m.focus = focusBrowse
		m.input.Blur()
		return m, m.startFetch(url)

	case key.Matches(msg, keys.Blur):
		m.touched = m.input.Value() != ""
		m.focus = focusBrowse
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Example):
		m.input.SetValue(ExampleURL)
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Focus):
		m.focus = focusInput
		return m, m.input.Focus()

	case key.Matches(msg, keys.NewSearch):
		m.session.Clear()
		m.expanded = false
		m.focus = focusInput
		return m, m.input.Focus()

	case key.Matches(msg, keys.Expand):
		if snap.Outcome.State == session.Success {
			m.expanded = !m.expanded
		}

	case key.Matches(msg, keys.Retry):
		if snap.Outcome.State == session.Failure && snap.LastURL != "" {
			return m, m.startFetch(snap.LastURL)
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(snap.History)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Submit):
		if m.showHistory(snap) && m.cursor < len(snap.History) {
			return m, m.startFetch(snap.History[m.cursor])
		}

	case key.Matches(msg, keys.ClearRecent):
		if m.showHistory(snap) {
			m.session.ClearHistory()
			m.cursor = 0
		}
	}
	return m, nil
}

// startFetch moves the session to Loading now and resolves in a command.
func (m Model) startFetch(url string) tea.Cmd {
	t := m.session.Begin(url)
	sess, ctx := m.session, m.ctx
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			sess.Resolve(ctx, t)
			return fetchDoneMsg{Seq: t.Seq}
		},
	)
}

func (m Model) loading() bool {
	return m.session.Snapshot().Outcome.State == session.Loading
}

// showHistory mirrors the web client: recent searches are listed whenever
// there is no post on screen and nothing is loading.
func (m Model) showHistory(snap session.Snapshot) bool {
	st := snap.Outcome.State
	return st != session.Success && st != session.Loading && len(snap.History) > 0
}
