package session_tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protalker/protalker/pkg/nav"
	"github.com/protalker/protalker/pkg/session"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastTickMsg:
		return m, m.toasts.tick()

	case sessionResolvedMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("could not resolve session")
		}
		if msg.err != nil || msg.session == nil {
			return m.teardown(nav.SignIn)
		}
		user := msg.session.User
		m.user = &user
		m.log.WithField("user_id", user.ID).Debug("session resolved")
		return m, nil

	case reportLoadedMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("could not load feedback report")
			return m, nil
		}
		m.report = msg.report
		return m, nil

	case chatSettledMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Error("chat request failed")
			m.notifier.Error(NoticeChatFailed)
		}
		m.state.FinishSend(msg.reply, msg.err)
		m.input.Reset()
		m.refreshTranscript()
		return m, m.toasts.schedule()

	case demoSettledMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		if _, ok := m.state.FinishDemo(msg.err); ok {
			m.notifier.Success(NoticeDemoStarted)
			m.refreshTranscript()
		} else {
			m.log.WithError(msg.err).Error("voice demo failed")
			m.notifier.Error(NoticeDemoFailed)
		}
		return m, m.toasts.schedule()

	case captureSettledMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("dictation failed")
			m.state.AbortCapture()
			return m, nil
		}
		if m.state.FinishCapture(msg.text) {
			m.input.SetValue(m.state.Draft)
		}
		return m, nil

	case signOutSettledMsg:
		if !m.tasks.Done(msg.task) {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Error("sign-out failed")
			m.endingSession = false
			m.notifier.Error(NoticeSignOutError)
			return m, m.toasts.schedule()
		}
		return m.teardown(nav.Landing)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m.teardown(nav.None)
	}
	if m.loading {
		return m, nil
	}

	if m.help.ShowAll {
		if key.Matches(msg, m.keyMap.Help) || msg.String() == "esc" {
			m.help.ShowAll = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keyMap.SwitchTab):
		if m.activeTab == ChatTab {
			m.activeTab = FeedbackTab
		} else {
			m.activeTab = ChatTab
		}
		return m, nil

	case key.Matches(msg, m.keyMap.EndSession):
		return m.endSession()

	case key.Matches(msg, m.keyMap.RunDemo):
		return m.runDemo()

	case key.Matches(msg, m.keyMap.ToggleMic):
		return m.toggleCapture()

	case key.Matches(msg, m.keyMap.ScrollUp), key.Matches(msg, m.keyMap.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.activeTab != ChatTab {
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Send) {
		return m.send()
	}

	// The input is disabled while a request is outstanding.
	if m.state.Busy() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.Draft = m.input.Value()
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text, ok := m.state.BeginSend()
	if !ok {
		return m, nil
	}
	m.log.WithField("length", len(text)).Debug("sending message")
	m.refreshTranscript()
	return m, m.chatCmd(text)
}

func (m Model) runDemo() (tea.Model, tea.Cmd) {
	if !m.state.BeginDemo() {
		return m, nil
	}
	m.notifier.Info(NoticeDemoStarting)
	return m, tea.Batch(m.demoCmd(), m.toasts.schedule())
}

func (m Model) toggleCapture() (tea.Model, tea.Cmd) {
	switch m.state.ToggleCapture() {
	case session.CaptureStarted:
		return m, m.captureCmd()
	case session.CaptureStopped:
		m.tasks.Cancel(m.captureTask)
	}
	return m, nil
}

func (m Model) endSession() (tea.Model, tea.Cmd) {
	if m.endingSession || m.deps.Auth == nil {
		return m, nil
	}
	m.endingSession = true
	return m, m.signOutCmd()
}

// teardown cancels outstanding work, navigates and quits.
func (m Model) teardown(dest nav.Destination) (tea.Model, tea.Cmd) {
	m.tasks.Close()
	m.quitting = true
	if dest != nav.None && m.deps.Nav != nil {
		m.deps.Nav.Navigate(dest)
	}
	return m, tea.Quit
}
