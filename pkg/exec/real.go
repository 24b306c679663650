package exec

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// StartError wraps a launch failure with the command that failed.
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ProcessLauncher implements Launcher with os/exec.
type ProcessLauncher struct {
	// Dir is the working directory of started processes. Empty means the
	// current directory.
	Dir string

	// Output receives the child's stdout and stderr. Nil discards them.
	Output io.Writer

	Logger *logrus.Entry
}

// LookPath implements Launcher.
func (l *ProcessLauncher) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Start implements Launcher. The child is reaped in the background.
func (l *ProcessLauncher) Start(ctx context.Context, name string, arg ...string) (int, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return 0, &StartError{Command: name, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, arg...)
	cmd.Dir = l.Dir
	if l.Output != nil {
		cmd.Stdout = l.Output
		cmd.Stderr = l.Output
	}

	if err := cmd.Start(); err != nil {
		return 0, &StartError{Command: name, Err: err}
	}

	pid := cmd.Process.Pid
	log := l.logger().WithFields(logrus.Fields{"command": name, "pid": pid})
	log.Info("process started")

	go func() {
		if err := cmd.Wait(); err != nil {
			log.WithError(err).Warn("process exited with error")
			return
		}
		log.Debug("process exited")
	}()

	return pid, nil
}

func (l *ProcessLauncher) logger() *logrus.Entry {
	if l.Logger != nil {
		return l.Logger
	}
	return logrus.WithField("component", "exec")
}
