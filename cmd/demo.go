package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/protalker/protalker/cmd/session_tui"
	"github.com/protalker/protalker/pkg/auth"
	"github.com/protalker/protalker/pkg/backend"
	"github.com/protalker/protalker/pkg/feedback"
	"github.com/protalker/protalker/pkg/nav"
	"github.com/protalker/protalker/pkg/speech"
)

func NewDemoCmd() *cobra.Command {
	var chatURL, demoURL string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Start a practice session with the training assistant",
		Long: `Open the practice session screen. You can chat with the assistant,
dictate a message, launch the ElevenLabs voice demo and review your feedback.

If you are not signed in, the sign-in form is shown first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if chatURL != "" {
				cfg.ChatURL = chatURL
			}
			if demoURL != "" {
				cfg.DemoURL = demoURL
			}

			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("protalker demo requires an interactive terminal")
			}
			return runDemo(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&chatURL, "chat-url", "", "Base URL of the chat backend")
	cmd.Flags().StringVar(&demoURL, "demo-url", "", "Base URL of the voice demo backend")

	return cmd
}

func runDemo(ctx context.Context, cfg *ProtalkerConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	restore, err := redirectLogsToFile(cfg)
	if err != nil {
		return err
	}
	defer restore()

	provider, store, err := newAuthProvider(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout, _ := cfg.timeout()
	delay, _ := cfg.speechDelay()
	client := backend.NewClient(cfg.ChatURL, cfg.DemoURL,
		backend.WithTimeout(timeout),
		backend.WithLogger(newLogger(cfg, "protalker.backend")),
	)
	log := newLogger(cfg, "protalker.session")

	for {
		navigator := &nav.Recorder{}
		model := session_tui.New(session_tui.Deps{
			Auth:     provider,
			Nav:      navigator,
			Chat:     client,
			Demo:     client,
			Speech:   &speech.Simulated{Delay: delay, Phrase: speech.DictationPhrase},
			Feedback: feedback.Static{},
			Logger:   log,
			Context:  ctx,
		})

		final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if m, ok := final.(session_tui.Model); ok {
			m.Close()
		}
		if err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}

		switch navigator.Last() {
		case nav.SignIn:
			log.Info("no active session, showing sign-in")
			signedIn, err := runLoginTUI(ctx, provider, "")
			if err != nil {
				return err
			}
			if !signedIn {
				return nil
			}
		case nav.Landing:
			color.New(color.FgGreen).Println("¡Hasta pronto! Tu sesión ha finalizado.")
			return nil
		default:
			return nil
		}
	}
}

// signedInAs formats the signed-in user for plain output.
func signedInAs(sess *auth.Session) string {
	if sess == nil || sess.User.Email == "" {
		return "Sesión iniciada"
	}
	return "Sesión iniciada como " + color.New(color.Bold).Sprint(sess.User.Email)
}
