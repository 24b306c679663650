package session_tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/sirupsen/logrus"

	"github.com/protalker/protalker/pkg/auth"
	"github.com/protalker/protalker/pkg/backend"
	"github.com/protalker/protalker/pkg/feedback"
	"github.com/protalker/protalker/pkg/nav"
	"github.com/protalker/protalker/pkg/notify"
	"github.com/protalker/protalker/pkg/session"
	"github.com/protalker/protalker/pkg/speech"
)

// Notice texts shown by the session view.
const (
	NoticeChatFailed   = "Error al comunicarse con el asistente"
	NoticeDemoStarting = "Iniciando ElevenLabs..."
	NoticeDemoStarted  = "Demo de ElevenLabs iniciado correctamente"
	NoticeDemoFailed   = "Error al iniciar el demo de ElevenLabs"
	NoticeSignOutError = "No se pudo cerrar la sesión"
)

type Tab int

const (
	ChatTab Tab = iota
	FeedbackTab
)

func (t Tab) String() string {
	return [...]string{"Chat", "Retroalimentación"}[t]
}

// Deps are the collaborators of the session view.
type Deps struct {
	Auth     auth.Provider
	Nav      nav.Navigator
	Chat     backend.ChatService
	Demo     backend.DemoService
	Speech   speech.Capturer
	Feedback feedback.Source

	// Notifier receives user notices. Nil shows them as on-screen toasts.
	Notifier notify.Notifier

	Logger  *logrus.Entry
	Context context.Context
}

// Model is the Bubble Tea model of the practice session screen.
type Model struct {
	deps     Deps
	notifier notify.Notifier
	log      *logrus.Entry

	state  *session.State
	tasks  *session.Tasks
	report *feedback.Report
	user   *auth.User

	loading       bool
	endingSession bool
	quitting      bool
	captureTask   session.TaskID
	activeTab     Tab

	width  int
	height int

	keyMap   KeyMap
	help     help.Model
	spinner  spinner.Model
	input    textarea.Model
	viewport viewport.Model
	toasts   *Toasts
}

// New creates the session view. Missing speech and feedback collaborators
// fall back to the simulated dictation and the static report.
func New(deps Deps) Model {
	if deps.Speech == nil {
		deps.Speech = speech.NewSimulated()
	}
	if deps.Feedback == nil {
		deps.Feedback = feedback.Static{}
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	log := deps.Logger
	if log == nil {
		log = logrus.WithField("component", "session-tui")
	}

	toasts := NewToasts()
	var notifier notify.Notifier = toasts
	if deps.Notifier != nil {
		notifier = deps.Notifier
	}

	keyMap := NewKeyMap()
	helpModel := help.NewBuilder().
		WithKeys(keyMap).
		WithTitle("Sesión de práctica - Ayuda").
		Build()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.DefaultTheme.Info

	ta := textarea.New()
	ta.Placeholder = "Escribe tu mensaje..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keyMap.Newline
	ta.Focus()

	m := Model{
		deps:     deps,
		notifier: notifier,
		log:      log,
		state:    session.NewState(),
		tasks:    session.NewTasks(deps.Context),
		loading:  true,
		keyMap:   keyMap,
		help:     helpModel,
		spinner:  sp,
		input:    ta,
		viewport: viewport.New(80, 10),
		toasts:   toasts,
	}
	m.layout()
	return m
}

// Init resolves the current session and loads the feedback report.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
		m.resolveSessionCmd(),
		m.fetchReportCmd(),
	)
}

// Transcript returns the messages shown so far.
func (m Model) Transcript() []session.Message {
	return m.state.Transcript.Messages()
}

// Close cancels every outstanding task of the view.
func (m Model) Close() {
	m.tasks.Close()
}

// layout sizes the components for the current window.
func (m *Model) layout() {
	width, height := m.width, m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	chatWidth := width - m.sidebarWidth() - 2
	if chatWidth < 20 {
		chatWidth = 20
	}
	m.input.SetWidth(chatWidth - 2)

	// header, tabs, input box, status line, toasts, help
	vpHeight := height - 14
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight
	m.refreshTranscript()
}

func (m Model) sidebarWidth() int {
	if m.width > 0 && m.width < 90 {
		return 0
	}
	return 34
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	m.viewport.GotoBottom()
}
