package exec

import (
	"context"
	"strings"
	"sync"
)

// MockLauncher records launches instead of running anything.
type MockLauncher struct {
	mu sync.Mutex

	// Commands records every command line passed to Start.
	Commands []string

	LookPathFunc func(file string) (string, error)
	StartFunc    func(ctx context.Context, name string, arg ...string) (int, error)
}

// LookPath implements Launcher. By default every command exists.
func (m *MockLauncher) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/path/to/" + file, nil
}

// Start implements Launcher. By default it reports pid 4242.
func (m *MockLauncher) Start(ctx context.Context, name string, arg ...string) (int, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, strings.TrimSpace(name+" "+strings.Join(arg, " ")))
	m.mu.Unlock()

	if m.StartFunc != nil {
		return m.StartFunc(ctx, name, arg...)
	}
	return 4242, nil
}

// Recorded returns a copy of the recorded command lines.
func (m *MockLauncher) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Commands...)
}
