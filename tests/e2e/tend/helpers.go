package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattsolo1/grove-tend/pkg/command"
	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
)

// getProtalkerBinary finds the protalker binary under test.
func getProtalkerBinary() (string, error) {
	if bin := os.Getenv("PROTALKER_BINARY"); bin != "" {
		return bin, nil
	}

	candidates := []string{
		"./bin/protalker",
		"../bin/protalker",
		"../../bin/protalker",
		"../../../bin/protalker",
		"../../../../bin/protalker",
	}
	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath, nil
			}
		}
	}

	return "", fmt.Errorf("protalker binary not found. Build it with 'make build' or set PROTALKER_BINARY env var")
}

// sandboxEnv keeps every run inside the harness home and off real accounts.
func sandboxEnv(ctx *harness.Context) []string {
	return []string{
		"HOME=" + ctx.HomeDir(),
		"PROTALKER_AUTH_PROVIDER=local",
		"PROTALKER_SESSION_STORE=file",
		"PROTALKER_LOG_LEVEL=debug",
		"SUPABASE_URL=",
		"SUPABASE_ANON_KEY=",
		"OPENAI_API_KEY=",
	}
}

// protalkerCmd builds a sandboxed protalker invocation.
func protalkerCmd(ctx *harness.Context, args ...string) (*command.Command, error) {
	bin, err := getProtalkerBinary()
	if err != nil {
		return nil, err
	}
	cmd := command.New(bin, args...).Dir(ctx.RootDir)
	for _, kv := range sandboxEnv(ctx) {
		cmd.Env(kv)
	}
	return cmd, nil
}

// stateFilePath is where the file credential store writes inside the sandbox.
func stateFilePath(ctx *harness.Context) string {
	return filepath.Join(ctx.HomeDir(), ".protalker", "state.yml")
}

func freeAddr() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	return l.Addr().String(), nil
}

// startDevServer launches 'protalker devserver' in the background and waits
// for /ping. The base URL is stored under "devserver_url".
func startDevServer(ctx *harness.Context) error {
	bin, err := getProtalkerBinary()
	if err != nil {
		return err
	}
	addr, err := freeAddr()
	if err != nil {
		return fmt.Errorf("failed to pick a port: %w", err)
	}

	proc := exec.Command(bin, "devserver", "--addr", addr)
	proc.Dir = ctx.RootDir
	proc.Env = append(os.Environ(), sandboxEnv(ctx)...)
	proc.Stdout = nil
	proc.Stderr = nil
	if err := proc.Start(); err != nil {
		return fmt.Errorf("failed to start devserver: %w", err)
	}
	ctx.Set("devserver_process", proc)

	baseURL := "http://" + addr
	ctx.Set("devserver_url", baseURL)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if body, status, err := httpCall(http.MethodGet, baseURL+"/ping", ""); err == nil && status == http.StatusOK && body == "pong" {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("devserver did not answer /ping on %s", addr)
}

// stopDevServer interrupts the background devserver and waits for it to exit.
func stopDevServer(ctx *harness.Context) error {
	proc, ok := ctx.Get("devserver_process").(*exec.Cmd)
	if !ok || proc.Process == nil {
		return nil
	}
	if err := proc.Process.Signal(os.Interrupt); err != nil {
		return fmt.Errorf("failed to interrupt devserver: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("devserver exited with error: %w", err)
		}
		return nil
	case <-time.After(10 * time.Second):
		proc.Process.Kill()
		return fmt.Errorf("devserver did not shut down within 10s")
	}
}

func httpCall(method, url, body string) (string, int, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return "", 0, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(data), resp.StatusCode, nil
}

func readOrEmpty(path string) string {
	content, err := fs.ReadString(path)
	if err != nil {
		return ""
	}
	return content
}
