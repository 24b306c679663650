package session_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"

	"github.com/protalker/protalker/pkg/feedback"
	"github.com/protalker/protalker/pkg/notify"
	"github.com/protalker/protalker/pkg/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.loading {
		body := m.spinner.View() + " " + theme.DefaultTheme.Muted.Render("Cargando sesión...")
		if m.width == 0 || m.height == 0 {
			return "\n  " + body + "\n"
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Padding(1).Render("🎙 ProTalker - Ayuda"),
			m.help.View(),
		)
	}

	var main string
	if m.activeTab == ChatTab {
		main = m.renderChat()
	} else {
		main = m.renderFeedback()
	}
	if m.sidebarWidth() > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", m.renderSidebar())
	}

	parts := []string{m.renderHeader(), m.renderTabs(), main}
	if toasts := m.renderToasts(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.help.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := theme.DefaultTheme.Header.Padding(0, 1).Render("🎙 ProTalker · Sesión de práctica")
	if m.user == nil || m.user.Email == "" {
		return title + "\n"
	}
	return title + "  " + theme.DefaultTheme.Muted.Render(m.user.Email) + "\n"
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, tab := range []Tab{ChatTab, FeedbackTab} {
		label := " " + tab.String() + " "
		if tab == m.activeTab {
			tabs = append(tabs, theme.DefaultTheme.Selected.Render(label))
		} else {
			tabs = append(tabs, theme.DefaultTheme.Muted.Render(label))
		}
	}
	return strings.Join(tabs, " ") + "\n"
}

func (m Model) renderChat() string {
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultTheme.Muted.GetForeground())
	if m.state.Busy() {
		inputStyle = inputStyle.Faint(true)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		inputStyle.Render(m.input.View()),
		m.renderStatus(),
	)
}

func (m Model) renderStatus() string {
	switch {
	case m.state.Busy():
		return m.spinner.View() + " " + theme.DefaultTheme.Info.Render("Esperando respuesta...")
	case m.state.Capturing:
		return theme.DefaultTheme.Error.Render("● Escuchando...") + " " +
			theme.DefaultTheme.Muted.Render("(ctrl+r para detener)")
	case m.endingSession:
		return m.spinner.View() + " " + theme.DefaultTheme.Muted.Render("Cerrando sesión...")
	case !m.state.CanSend():
		return theme.DefaultTheme.Muted.Render("Escribe un mensaje o pulsa ctrl+r para dictar")
	default:
		return theme.DefaultTheme.Muted.Render("enter para enviar · alt+enter nueva línea")
	}
}

// renderTranscript renders every message wrapped to width.
func (m Model) renderTranscript(width int) string {
	if width < 10 {
		width = 10
	}
	body := lipgloss.NewStyle().Width(width - 2).PaddingLeft(2)

	var b strings.Builder
	for i, msg := range m.state.Transcript.Messages() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == session.RoleUser {
			b.WriteString(theme.DefaultTheme.Success.Bold(true).Render("Tú"))
		} else {
			b.WriteString(theme.DefaultTheme.Info.Bold(true).Render("Asistente"))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(msg.Text))
	}
	return b.String()
}

func (m Model) renderFeedback() string {
	if m.report == nil {
		return theme.DefaultTheme.Muted.Render("Sin datos de retroalimentación todavía.")
	}

	var b strings.Builder
	b.WriteString(theme.DefaultTheme.Bold.Render("Análisis de comunicación"))
	b.WriteString("\n\n")
	for _, s := range m.report.Metrics.Scores {
		b.WriteString(fmt.Sprintf("%-22s %s %3d%%\n", s.Label, bar(s.Percent, 20), s.Percent))
	}
	b.WriteString("\n")
	b.WriteString(theme.DefaultTheme.Bold.Render("Recomendaciones"))
	b.WriteString("\n")
	for _, r := range m.report.Metrics.Recommendations {
		b.WriteString("  • " + r + "\n")
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String())
}

func (m Model) renderSidebar() string {
	box := theme.DefaultTheme.Box.Width(m.sidebarWidth() - 2)

	var scenarios, progress strings.Builder
	scenarios.WriteString(theme.DefaultTheme.Bold.Render("Escenarios"))
	progress.WriteString(theme.DefaultTheme.Bold.Render("Tu progreso"))
	if m.report == nil {
		scenarios.WriteString("\n" + theme.DefaultTheme.Muted.Render("Cargando..."))
		progress.WriteString("\n" + theme.DefaultTheme.Muted.Render("Cargando..."))
	} else {
		for _, s := range m.report.Scenarios {
			scenarios.WriteString("\n• " + s)
		}
		writeProgress(&progress, m.report.Progress)
	}

	demo := theme.DefaultTheme.Bold.Render("Demo de voz") + "\n" +
		"Practica con el asistente por voz de ElevenLabs.\n"
	if m.state.Busy() {
		demo += theme.DefaultTheme.Muted.Render("ctrl+o no disponible")
	} else {
		demo += theme.DefaultTheme.Info.Render("ctrl+o iniciar demo")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		box.Render(scenarios.String()),
		box.Render(progress.String()),
		box.Render(demo),
	)
}

func writeProgress(b *strings.Builder, p feedback.Progress) {
	fmt.Fprintf(b, "\nSesiones: %d/%d\n%s %d%%", p.SessionsCompleted, p.SessionsTotal, bar(p.Percent(), 16), p.Percent())
	if len(p.Achievements) > 0 {
		b.WriteString("\n" + theme.DefaultTheme.Muted.Render("Logros:"))
		for _, a := range p.Achievements {
			b.WriteString("\n" + theme.DefaultTheme.Success.Render(theme.IconSuccess) + " " + a)
		}
	}
}

func (m Model) renderToasts() string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		switch n.Level {
		case notify.LevelError:
			lines = append(lines, theme.DefaultTheme.Error.Render(theme.IconError+" "+n.Text))
		case notify.LevelSuccess:
			lines = append(lines, theme.DefaultTheme.Success.Render(theme.IconSuccess+" "+n.Text))
		default:
			lines = append(lines, theme.DefaultTheme.Info.Render(theme.IconInfo+" "+n.Text))
		}
	}
	return strings.Join(lines, "\n")
}

func bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return theme.DefaultTheme.Success.Render(strings.Repeat("█", filled)) +
		theme.DefaultTheme.Muted.Render(strings.Repeat("░", width-filled))
}
