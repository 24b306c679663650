package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
	"github.com/mattsolo1/grove-tend/pkg/tui"
	"github.com/mattsolo1/grove-tend/pkg/verify"
)

// DemoSessionTUIScenario drives 'protalker demo' against the dev server.
var DemoSessionTUIScenario = harness.NewScenarioWithOptions(
	"demo-session-tui",
	"Signs in locally, chats with the dev server through the session view and ends the session.",
	[]string{"tui", "demo", "devserver"},
	[]harness.Step{
		harness.NewStep("Start devserver", startDevServer),
		harness.NewStep("Sign in with the local provider", signInLocally),
		harness.NewStep("Launch session view", launchSessionTUI),
		harness.NewStep("Send a message and read the reply", sendMessageInTUI),
		harness.NewStep("End the session", endSessionInTUI),
		harness.NewStep("Stop devserver", stopDevServer),
	},
	true,  // localOnly = true, as it requires tmux
	false, // explicitOnly = false
)

func signInLocally(ctx *harness.Context) error {
	cmd, err := protalkerCmd(ctx, "login", "--email", "ana@example.com", "--password", "secreto")
	if err != nil {
		return err
	}
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	if result.Error != nil {
		return fmt.Errorf("login failed: %w", result.Error)
	}
	return nil
}

func launchSessionTUI(ctx *harness.Context) error {
	bin, err := getProtalkerBinary()
	if err != nil {
		return err
	}
	baseURL := ctx.GetString("devserver_url")

	// tmux does not pass the harness environment through, so export it here.
	var script strings.Builder
	script.WriteString("#!/bin/bash\n")
	for _, kv := range sandboxEnv(ctx) {
		script.WriteString(fmt.Sprintf("export %q\n", kv))
	}
	script.WriteString(fmt.Sprintf("export PROTALKER_CHAT_URL=%q\n", baseURL))
	script.WriteString(fmt.Sprintf("export PROTALKER_DEMO_URL=%q\n", baseURL))
	script.WriteString(fmt.Sprintf("cd %q\n", ctx.RootDir))
	script.WriteString(fmt.Sprintf("exec %q demo\n", bin))

	wrapperScript := filepath.Join(ctx.RootDir, "run-protalker-demo")
	if err := fs.WriteString(wrapperScript, script.String()); err != nil {
		return fmt.Errorf("failed to create wrapper script: %w", err)
	}
	if err := os.Chmod(wrapperScript, 0755); err != nil {
		return fmt.Errorf("failed to make wrapper script executable: %w", err)
	}

	session, err := ctx.StartTUI(wrapperScript, []string{})
	if err != nil {
		return fmt.Errorf("failed to start `protalker demo`: %w", err)
	}
	ctx.Set("tui_session", session)

	if err := session.WaitForText("Sesión de práctica", 10*time.Second); err != nil {
		content, _ := session.Capture()
		return fmt.Errorf("session view did not load: %w\nContent:\n%s", err, content)
	}
	if err := session.WaitStable(); err != nil {
		return err
	}

	content, err := session.Capture(tui.WithCleanedOutput())
	if err != nil {
		return err
	}
	return ctx.Verify(func(v *verify.Collector) {
		v.Contains("greeting", content, "¡Hola!")
		v.Contains("signed-in email", content, "ana@example.com")
		v.Contains("chat tab", content, "Chat")
	})
}

func sendMessageInTUI(ctx *harness.Context) error {
	session := ctx.Get("tui_session").(*tui.Session)

	if err := session.SendKeys("entrevista"); err != nil {
		return fmt.Errorf("failed to type message: %w", err)
	}
	if err := session.SendKeys("Enter"); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if err := session.WaitForText("Has dicho", 10*time.Second); err != nil {
		content, _ := session.Capture()
		return fmt.Errorf("assistant reply did not appear: %w\nContent:\n%s", err, content)
	}

	content, err := session.Capture(tui.WithCleanedOutput())
	if err != nil {
		return err
	}
	return ctx.Verify(func(v *verify.Collector) {
		v.Contains("user label", content, "Tú")
		v.Contains("echoed message", content, "entrevista")
		v.True("no error notice", !strings.Contains(content, "Error al comunicarse con el asistente"))
	})
}

func endSessionInTUI(ctx *harness.Context) error {
	session := ctx.Get("tui_session").(*tui.Session)

	if err := session.SendKeys("C-l"); err != nil {
		return fmt.Errorf("failed to send ctrl+l: %w", err)
	}
	// The program exits after signing out, so watch the state file rather than
	// the pane.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		state, err := fs.ReadString(stateFilePath(ctx))
		if err == nil && !strings.Contains(state, "credentials:") {
			return ctx.Verify(func(v *verify.Collector) {
				v.Contains("last email kept", state, "last_email: ana@example.com")
			})
		}
		time.Sleep(200 * time.Millisecond)
	}

	content, _ := session.Capture()
	return fmt.Errorf("sign-out did not clear credentials within 10s\nContent:\n%s", content)
}
