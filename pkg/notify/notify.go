package notify

import "sync"

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	return [...]string{"info", "success", "error"}[l]
}

// Notice is a transient message for the user.
type Notice struct {
	Level Level
	Text  string
}

// Notifier shows transient notices. Calls never block and return nothing.
type Notifier interface {
	Info(text string)
	Success(text string)
	Error(text string)
}

// Recorder collects notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Info(text string)    { r.add(LevelInfo, text) }
func (r *Recorder) Success(text string) { r.add(LevelSuccess, text) }
func (r *Recorder) Error(text string)   { r.add(LevelError, text) }

func (r *Recorder) add(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Text: text})
}

// Notices returns everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Count returns the number of recorded notices at level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.Level == level {
			n++
		}
	}
	return n
}

var _ Notifier = (*Recorder)(nil)
