package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/protalker/protalker/pkg/feedback"
)

func NewFeedbackCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Show your communication analysis and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedback(cmd, noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runFeedback(cmd *cobra.Command, noColor bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := feedback.Static{}.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch feedback: %w", err)
	}

	opts := cli.GetOptions(cmd)
	if opts.JSONOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	if noColor {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	writeFeedbackReport(cmd.OutOrStdout(), report)
	return nil
}

func writeFeedbackReport(w io.Writer, report *feedback.Report) {
	heading := color.New(color.Bold, color.FgCyan)
	good := color.New(color.FgGreen)
	muted := color.New(color.Faint)

	heading.Fprintln(w, "Análisis de comunicación")
	for _, s := range report.Metrics.Scores {
		fmt.Fprintf(w, "  %-22s %s %3d%%\n", s.Label, plainBar(s.Percent, 20), s.Percent)
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Recomendaciones")
	for _, r := range report.Metrics.Recommendations {
		fmt.Fprintf(w, "  • %s\n", r)
	}

	p := report.Progress
	fmt.Fprintln(w)
	heading.Fprintln(w, "Tu progreso")
	fmt.Fprintf(w, "  Sesiones completadas: %d/%d %s %d%%\n", p.SessionsCompleted, p.SessionsTotal, plainBar(p.Percent(), 10), p.Percent())
	for _, a := range p.Achievements {
		fmt.Fprintf(w, "  %s %s\n", good.Sprint("✓"), a)
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Escenarios disponibles")
	for _, s := range report.Scenarios {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	muted.Fprintln(w, "\nEjecuta 'protalker demo' para practicar.")
}

func plainBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
