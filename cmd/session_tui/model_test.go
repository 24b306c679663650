package session_tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protalker/protalker/pkg/auth"
	"github.com/protalker/protalker/pkg/backend"
	"github.com/protalker/protalker/pkg/feedback"
	"github.com/protalker/protalker/pkg/nav"
	"github.com/protalker/protalker/pkg/notify"
	"github.com/protalker/protalker/pkg/session"
	"github.com/protalker/protalker/pkg/speech"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeAuth struct {
	session    *auth.Session
	err        error
	signOutErr error
	signOuts   int
}

func (f *fakeAuth) CurrentSession(context.Context) (*auth.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignIn(context.Context, string, string) (*auth.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.signOuts++
	return f.signOutErr
}

type fakeChat struct {
	reply string
	err   error
	got   []string
}

func (f *fakeChat) Chat(_ context.Context, message string) (string, error) {
	f.got = append(f.got, message)
	return f.reply, f.err
}

type fakeDemo struct {
	err   error
	calls int
}

func (f *fakeDemo) RunDemo(context.Context) error {
	f.calls++
	return f.err
}

type harness struct {
	auth     *fakeAuth
	chat     *fakeChat
	demo     *fakeDemo
	nav      *nav.Recorder
	notifier *notify.Recorder
}

func newHarness() *harness {
	return &harness{
		auth:     &fakeAuth{session: &auth.Session{User: auth.User{ID: "u-1", Email: "ana@example.com"}}},
		chat:     &fakeChat{reply: "¡Perfecto! Empecemos."},
		demo:     &fakeDemo{},
		nav:      &nav.Recorder{},
		notifier: &notify.Recorder{},
	}
}

func (h *harness) model(t *testing.T) Model {
	t.Helper()
	m := New(Deps{
		Auth:     h.auth,
		Nav:      h.nav,
		Chat:     h.chat,
		Demo:     h.demo,
		Speech:   speech.Static{Text: speech.DictationPhrase},
		Feedback: feedback.Static{},
		Notifier: h.notifier,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return next.(Model)
}

// mounted returns a model whose Init work has completed.
func (h *harness) mounted(t *testing.T) Model {
	t.Helper()
	m := h.model(t)
	m = run(t, m, m.Init())
	require.False(t, m.loading)
	return m
}

// run executes cmd and feeds the view's own result messages back into
// Update. Timer and quit commands are not followed.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
	case sessionResolvedMsg, reportLoadedMsg, chatSettledMsg, demoSettledMsg, captureSettledMsg, signOutSettledMsg:
		next, cmd := m.Update(msg)
		m = run(t, next.(Model), cmd)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyMic   = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyDemo  = tea.KeyMsg{Type: tea.KeyCtrlO}
	keyEnd   = tea.KeyMsg{Type: tea.KeyCtrlL}
	keyQuit  = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func texts(msgs []session.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func TestMountShowsGreetingOnly(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	assert.Equal(t, []string{session.Greeting}, texts(m.Transcript()))
	require.NotNil(t, m.user)
	assert.Equal(t, "ana@example.com", m.user.Email)
	assert.NotNil(t, m.report)
	assert.Empty(t, h.nav.History())
}

func TestLoadingShowsSpinnerOnly(t *testing.T) {
	m := newHarness().model(t)

	view := m.View()

	assert.Contains(t, view, "Cargando sesión")
	assert.NotContains(t, view, "Asistente")
}

func TestAuthGate(t *testing.T) {
	tests := []struct {
		name string
		auth *fakeAuth
	}{
		{name: "no session", auth: &fakeAuth{}},
		{name: "resolution error", auth: &fakeAuth{err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.auth = tt.auth
			m := h.model(t)

			m = run(t, m, m.Init())

			assert.Equal(t, nav.SignIn, h.nav.Last())
			assert.True(t, m.quitting)
			assert.True(t, m.tasks.Closed())
			assert.Empty(t, m.View())
		})
	}
}

func TestSendMessageSuccess(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	m = typeText(t, m, "  Hola  ")
	m, cmd := press(t, m, keyEnter)

	require.NotNil(t, cmd)
	assert.True(t, m.state.Busy())
	assert.Equal(t, []string{session.Greeting, "  Hola  "}, texts(m.Transcript()))

	m = run(t, m, cmd)

	assert.Equal(t, []string{"  Hola  "}, h.chat.got, "raw text is forwarded")
	assert.Equal(t, []string{session.Greeting, "  Hola  ", "¡Perfecto! Empecemos."}, texts(m.Transcript()))
	assert.False(t, m.state.Busy())
	assert.Empty(t, m.state.Draft)
	assert.Empty(t, m.input.Value())
	assert.Zero(t, h.notifier.Count(notify.LevelError))
}

func TestSendMessageFailure(t *testing.T) {
	h := newHarness()
	h.chat.err = backend.ErrRequestFailed
	m := h.mounted(t)

	m = typeText(t, m, "Hola")
	m, cmd := press(t, m, keyEnter)
	m = run(t, m, cmd)

	msgs := m.Transcript()
	require.Len(t, msgs, 3)
	assert.Equal(t, session.RoleAssistant, msgs[2].Role)
	assert.Equal(t, session.FallbackReply, msgs[2].Text)
	assert.Equal(t, []notify.Notice{{Level: notify.LevelError, Text: NoticeChatFailed}}, h.notifier.Notices())
	assert.Empty(t, m.state.Draft)
	assert.False(t, m.state.Busy())
}

func TestSendIgnoredWhenBlankOrBusy(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	m = typeText(t, m, "   ")
	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd)
	assert.Len(t, m.Transcript(), 1)

	m = typeText(t, m, "hola")
	m, cmd = press(t, m, keyEnter)
	require.NotNil(t, cmd)

	m, second := press(t, m, keyEnter)
	assert.Nil(t, second)
	m, demo := press(t, m, keyDemo)
	assert.Nil(t, demo, "demo shares the busy flag")
	assert.Len(t, m.Transcript(), 2)
}

func TestRunDemo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newHarness()
		m := h.mounted(t)

		m, cmd := press(t, m, keyDemo)
		assert.True(t, m.state.Busy())
		m = run(t, m, cmd)

		assert.Equal(t, 1, h.demo.calls)
		assert.Equal(t, []string{session.Greeting, session.DemoStartedReply}, texts(m.Transcript()))
		assert.Equal(t, []notify.Notice{
			{Level: notify.LevelInfo, Text: NoticeDemoStarting},
			{Level: notify.LevelSuccess, Text: NoticeDemoStarted},
		}, h.notifier.Notices())
		assert.False(t, m.state.Busy())
	})

	t.Run("failure appends nothing", func(t *testing.T) {
		h := newHarness()
		h.demo.err = &backend.StatusError{Endpoint: backend.DemoPath, StatusCode: 500}
		m := h.mounted(t)

		m, cmd := press(t, m, keyDemo)
		m = run(t, m, cmd)

		assert.Equal(t, []string{session.Greeting}, texts(m.Transcript()))
		assert.Equal(t, 1, h.notifier.Count(notify.LevelError))
		assert.False(t, m.state.Busy())
	})
}

func TestVoiceCapture(t *testing.T) {
	t.Run("completes into the draft", func(t *testing.T) {
		h := newHarness()
		m := h.mounted(t)
		m = typeText(t, m, "Hola. ")

		m, cmd := press(t, m, keyMic)
		assert.True(t, m.state.Capturing)
		m = run(t, m, cmd)

		assert.False(t, m.state.Capturing)
		assert.Equal(t, "Hola. "+speech.DictationPhrase, m.state.Draft)
		assert.Equal(t, m.state.Draft, m.input.Value())
		assert.Len(t, m.Transcript(), 1, "dictation never sends")
	})

	t.Run("stopping early discards the late result", func(t *testing.T) {
		h := newHarness()
		m := h.mounted(t)

		m, cmd := press(t, m, keyMic)
		m, stop := press(t, m, keyMic)
		assert.Nil(t, stop)
		assert.False(t, m.state.Capturing)

		m = run(t, m, cmd)

		assert.Empty(t, m.state.Draft)
		assert.False(t, m.state.Capturing)
	})

	t.Run("ignored while busy", func(t *testing.T) {
		h := newHarness()
		m := h.mounted(t)
		m = typeText(t, m, "hola")
		m, _ = press(t, m, keyEnter)

		m, cmd := press(t, m, keyMic)

		assert.Nil(t, cmd)
		assert.False(t, m.state.Capturing)
	})
}

func TestEndSession(t *testing.T) {
	t.Run("signs out and navigates to landing", func(t *testing.T) {
		h := newHarness()
		m := h.mounted(t)

		m, cmd := press(t, m, keyEnd)
		m = run(t, m, cmd)

		assert.Equal(t, 1, h.auth.signOuts)
		assert.Equal(t, []nav.Destination{nav.Landing}, h.nav.History())
		assert.True(t, m.quitting)
		assert.True(t, m.tasks.Closed())
	})

	t.Run("failure keeps the view", func(t *testing.T) {
		h := newHarness()
		h.auth.signOutErr = errors.New("disk full")
		m := h.mounted(t)

		m, cmd := press(t, m, keyEnd)
		m = run(t, m, cmd)

		assert.Empty(t, h.nav.History())
		assert.False(t, m.quitting)
		assert.False(t, m.endingSession)
		assert.Equal(t, 1, h.notifier.Count(notify.LevelError))
	})
}

func TestLateResultsAfterTeardownAreDropped(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	m = typeText(t, m, "hola")
	m, chat := press(t, m, keyEnter)
	before := texts(m.Transcript())

	m.Close()
	msg := chat()
	next, cmd := m.Update(msg)
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, before, texts(m.Transcript()))
	assert.True(t, m.state.Busy(), "state is left as it was at teardown")
	assert.Zero(t, h.notifier.Count(notify.LevelError))
}

func TestQuitCancelsWithoutNavigating(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	m, cmd := press(t, m, keyQuit)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.tasks.Closed())
	assert.Empty(t, h.nav.History())
}

func TestTabsAndView(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)

	view := m.View()
	assert.Contains(t, view, "Asistente")
	assert.Contains(t, view, "Escenarios")
	assert.Contains(t, view, "ana@example.com")

	m, _ = press(t, m, keyTab)
	assert.Equal(t, FeedbackTab, m.activeTab)
	view = m.View()
	assert.Contains(t, view, "Análisis de comunicación")
	assert.Contains(t, view, "Claridad del mensaje")

	m = typeText(t, m, "x")
	assert.Empty(t, m.state.Draft, "typing goes nowhere on the feedback tab")

	m, _ = press(t, m, keyTab)
	assert.Equal(t, ChatTab, m.activeTab)
}

func TestRenderTranscriptLabels(t *testing.T) {
	h := newHarness()
	m := h.mounted(t)
	m = typeText(t, m, "hola")
	m, cmd := press(t, m, keyEnter)
	m = run(t, m, cmd)

	out := m.renderTranscript(120)

	assert.Equal(t, 2, strings.Count(out, "Asistente"))
	assert.Equal(t, 1, strings.Count(out, "Tú"))
}
