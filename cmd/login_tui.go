package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/mattsolo1/grove-core/tui/keymap"
	"github.com/mattsolo1/grove-core/tui/theme"

	"github.com/protalker/protalker/pkg/auth"
)

type loginKeyMap struct {
	keymap.Base
	Next   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func newLoginKeyMap() loginKeyMap {
	km := loginKeyMap{
		Base: keymap.NewBase(),
		Next: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	)
	return km
}

func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel}
}

func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Submit, k.Cancel, k.Quit}}
}

type signInResultMsg struct {
	session *auth.Session
	err     error
}

type loginTUIModel struct {
	ctx        context.Context
	provider   auth.Provider
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	err        string
	session    *auth.Session
	cancelled  bool
	keyMap     loginKeyMap
	help       help.Model
	spinner    spinner.Model
}

func newLoginTUIModel(ctx context.Context, provider auth.Provider, email string) loginTUIModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "tu@correo.com"
	emailInput.Prompt = "Correo:     "
	emailInput.SetValue(email)
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "contraseña"
	passwordInput.Prompt = "Contraseña: "
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := loginTUIModel{
		ctx:      ctx,
		provider: provider,
		email:    emailInput,
		password: passwordInput,
		keyMap:   newLoginKeyMap(),
		help:     help.New(newLoginKeyMap()),
		spinner:  sp,
	}
	if email != "" {
		m.setFocus(1)
	}
	return m
}

func (m *loginTUIModel) setFocus(i int) {
	m.focus = i
	if i == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.email.Blur()
		m.password.Focus()
	}
}

func (m loginTUIModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginTUIModel) signInCmd() tea.Cmd {
	ctx, provider := m.ctx, m.provider
	email, password := strings.TrimSpace(m.email.Value()), m.password.Value()
	return func() tea.Msg {
		sess, err := provider.SignIn(ctx, email, password)
		return signInResultMsg{session: sess, err: err}
	}
}

func (m loginTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, auth.ErrInvalidCredentials) {
				m.err = "Correo o contraseña incorrectos"
			} else {
				m.err = fmt.Sprintf("No se pudo iniciar sesión: %v", msg.err)
			}
			m.password.SetValue("")
			m.setFocus(1)
			return m, nil
		}
		m.session = msg.session
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit), key.Matches(msg, m.keyMap.Cancel):
			m.cancelled = true
			return m, tea.Quit
		}
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keyMap.Next):
			m.setFocus(1 - m.focus)
			return m, nil
		case key.Matches(msg, m.keyMap.Submit):
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}
			if strings.TrimSpace(m.email.Value()) == "" {
				m.err = "Introduce tu correo"
				m.setFocus(0)
				return m, nil
			}
			m.err = ""
			m.submitting = true
			return m, tea.Batch(m.signInCmd(), m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginTUIModel) View() string {
	if m.session != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.DefaultTheme.Header.Padding(0, 1).Render("🎙 ProTalker · Iniciar sesión"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.email.View() + "\n")
	b.WriteString("  " + m.password.View() + "\n\n")

	switch {
	case m.submitting:
		b.WriteString("  " + m.spinner.View() + " " + theme.DefaultTheme.Muted.Render("Iniciando sesión...") + "\n")
	case m.err != "":
		b.WriteString("  " + theme.DefaultTheme.Error.Render(theme.IconError+" "+m.err) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// runLoginTUI shows the sign-in form. It reports whether the user signed in.
func runLoginTUI(ctx context.Context, provider auth.Provider, email string) (bool, error) {
	model := newLoginTUIModel(ctx, provider, email)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, fmt.Errorf("error running TUI: %w", err)
	}

	m := final.(loginTUIModel)
	if m.session == nil {
		return false, nil
	}
	fmt.Println(theme.DefaultTheme.Success.Render(theme.IconSuccess) + " " + signedInAs(m.session))
	return true, nil
}
