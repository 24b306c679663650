package session_tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protalker/protalker/pkg/auth"
	"github.com/protalker/protalker/pkg/feedback"
	"github.com/protalker/protalker/pkg/session"
)

// Results of asynchronous work. Each carries the task it belongs to; a
// result is applied only if the task is still live.

type sessionResolvedMsg struct {
	task    session.TaskID
	session *auth.Session
	err     error
}

type reportLoadedMsg struct {
	task   session.TaskID
	report *feedback.Report
	err    error
}

type chatSettledMsg struct {
	task  session.TaskID
	reply string
	err   error
}

type demoSettledMsg struct {
	task session.TaskID
	err  error
}

type captureSettledMsg struct {
	task session.TaskID
	text string
	err  error
}

type signOutSettledMsg struct {
	task session.TaskID
	err  error
}

func (m Model) resolveSessionCmd() tea.Cmd {
	id, ctx := m.tasks.Start()
	provider := m.deps.Auth
	return func() tea.Msg {
		if provider == nil {
			return sessionResolvedMsg{task: id, err: auth.ErrNotSignedIn}
		}
		sess, err := provider.CurrentSession(ctx)
		return sessionResolvedMsg{task: id, session: sess, err: err}
	}
}

func (m Model) fetchReportCmd() tea.Cmd {
	id, ctx := m.tasks.Start()
	source := m.deps.Feedback
	return func() tea.Msg {
		report, err := source.Fetch(ctx)
		return reportLoadedMsg{task: id, report: report, err: err}
	}
}

func (m Model) chatCmd(text string) tea.Cmd {
	id, ctx := m.tasks.Start()
	chat := m.deps.Chat
	return func() tea.Msg {
		reply, err := chat.Chat(ctx, text)
		return chatSettledMsg{task: id, reply: reply, err: err}
	}
}

func (m Model) demoCmd() tea.Cmd {
	id, ctx := m.tasks.Start()
	demo := m.deps.Demo
	return func() tea.Msg {
		return demoSettledMsg{task: id, err: demo.RunDemo(ctx)}
	}
}

func (m *Model) captureCmd() tea.Cmd {
	id, ctx := m.tasks.Start()
	m.captureTask = id
	capturer := m.deps.Speech
	return func() tea.Msg {
		text, err := capturer.Capture(ctx)
		return captureSettledMsg{task: id, text: text, err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	id, ctx := m.tasks.Start()
	provider := m.deps.Auth
	return func() tea.Msg {
		return signOutSettledMsg{task: id, err: provider.SignOut(ctx)}
	}
}
