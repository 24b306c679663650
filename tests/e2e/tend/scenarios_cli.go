package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
	"github.com/mattsolo1/grove-tend/pkg/verify"
)

// FeedbackReportScenario checks 'protalker feedback' in JSON and text form.
var FeedbackReportScenario = harness.NewScenario(
	"feedback-report",
	"Prints the feedback report as JSON and as plain text.",
	[]string{"cli", "feedback"},
	[]harness.Step{
		harness.NewStep("Print report as JSON", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "feedback", "--json")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("feedback --json failed: %w", result.Error)
			}

			var report struct {
				Metrics struct {
					Scores []struct {
						Label   string `json:"label"`
						Percent int    `json:"percent"`
					} `json:"scores"`
					Recommendations []string `json:"recommendations"`
				} `json:"metrics"`
				Progress struct {
					SessionsCompleted int `json:"sessions_completed"`
					SessionsTotal     int `json:"sessions_total"`
				} `json:"progress"`
				Scenarios []string `json:"scenarios"`
			}
			if err := json.Unmarshal([]byte(result.Stdout), &report); err != nil {
				return fmt.Errorf("feedback output is not JSON: %w\n%s", err, result.Stdout)
			}
			if len(report.Metrics.Scores) != 3 {
				return fmt.Errorf("expected 3 scores, got %d", len(report.Metrics.Scores))
			}

			return ctx.Verify(func(v *verify.Collector) {
				v.Equal("first score label", "Claridad del mensaje", report.Metrics.Scores[0].Label)
				v.Equal("first score percent", 78, report.Metrics.Scores[0].Percent)
				v.Equal("recommendation count", 4, len(report.Metrics.Recommendations))
				v.Equal("sessions completed", 3, report.Progress.SessionsCompleted)
				v.Equal("sessions total", 10, report.Progress.SessionsTotal)
				v.Equal("scenario count", 4, len(report.Scenarios))
			})
		}),

		harness.NewStep("Print report as text", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "feedback", "--no-color")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("feedback failed: %w", result.Error)
			}

			return ctx.Verify(func(v *verify.Collector) {
				v.Contains("metrics heading", result.Stdout, "Análisis de comunicación")
				v.Contains("recommendations heading", result.Stdout, "Recomendaciones")
				v.Contains("progress line", result.Stdout, "Sesiones completadas: 3/10")
				v.True("no ANSI escapes", !strings.Contains(result.Stdout, "\x1b["))
			})
		}),
	},
)

// LocalSignInScenario signs in and out with the offline provider and checks
// the state file in between.
var LocalSignInScenario = harness.NewScenario(
	"local-sign-in",
	"Signs in with --email/--password, then signs out, using the local provider.",
	[]string{"cli", "auth"},
	[]harness.Step{
		harness.NewStep("Login without flags outside a terminal fails", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "login")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error == nil {
				return fmt.Errorf("expected login without credentials to fail outside a terminal")
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.True("exit code is non-zero", result.ExitCode != 0)
				v.True("no credentials written", !strings.Contains(readOrEmpty(stateFilePath(ctx)), "credentials:"))
			})
		}),

		harness.NewStep("Login with flags", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "login", "--email", "ana@example.com", "--password", "secreto")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("login failed: %w", result.Error)
			}

			if err := ctx.Check("state file has credentials", fs.AssertContains(stateFilePath(ctx), "credentials:")); err != nil {
				return err
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.Contains("signed-in message", result.Stdout, "Sesión iniciada como")
				v.Contains("signed-in email", result.Stdout, "ana@example.com")
			})
		}),

		harness.NewStep("Logout clears credentials", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "logout")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("logout failed: %w", result.Error)
			}

			content, err := fs.ReadString(stateFilePath(ctx))
			if err != nil {
				return fmt.Errorf("failed to read state file: %w", err)
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.Contains("signed-out message", result.Stdout, "Sesión cerrada")
				v.True("credentials removed", !strings.Contains(content, "credentials:"))
				v.Contains("last email kept", content, "last_email: ana@example.com")
			})
		}),
	},
)

// VersionScenario checks the version command in both output modes.
var VersionScenario = harness.NewScenario(
	"version",
	"Prints version information as text and JSON.",
	[]string{"cli"},
	[]harness.Step{
		harness.NewStep("Print version as JSON", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "version", "--json")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("version --json failed: %w", result.Error)
			}

			var info map[string]string
			if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
				return fmt.Errorf("version output is not JSON: %w\n%s", err, result.Stdout)
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.True("version set", info["version"] != "")
				v.True("go version set", strings.HasPrefix(info["go_version"], "go"))
				v.Contains("platform", info["platform"], "/")
			})
		}),

		harness.NewStep("Print version as text", func(ctx *harness.Context) error {
			cmd, err := protalkerCmd(ctx, "version")
			if err != nil {
				return err
			}
			result := cmd.Run()
			ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
			if result.Error != nil {
				return fmt.Errorf("version failed: %w", result.Error)
			}
			return ctx.Verify(func(v *verify.Collector) {
				v.Contains("binary name", result.Stdout, "protalker ")
			})
		}),
	},
)
