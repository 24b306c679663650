package devserver

import (
	"context"
	"errors"
	"strings"

	"github.com/protalker/protalker/pkg/exec"
)

// ErrNoDemoCommand is returned by a CommandRunner with nothing to run.
var ErrNoDemoCommand = errors.New("no demo command configured")

// DemoRunner starts the voice demo and returns its pid.
type DemoRunner interface {
	Run(ctx context.Context) (int, error)
}

// NoopRunner pretends to start the demo. It reports pid 0.
type NoopRunner struct{}

// Run implements DemoRunner.
func (NoopRunner) Run(context.Context) (int, error) {
	return 0, nil
}

// CommandRunner starts a configured command line through a Launcher.
type CommandRunner struct {
	Launcher exec.Launcher
	Command  []string
}

// NewCommandRunner splits commandLine on whitespace.
func NewCommandRunner(launcher exec.Launcher, commandLine string) *CommandRunner {
	return &CommandRunner{Launcher: launcher, Command: strings.Fields(commandLine)}
}

// Run implements DemoRunner. The process is not tied to ctx, which ends
// with the HTTP request.
func (r *CommandRunner) Run(context.Context) (int, error) {
	if len(r.Command) == 0 {
		return 0, ErrNoDemoCommand
	}
	return r.Launcher.Start(context.Background(), r.Command[0], r.Command[1:]...)
}
