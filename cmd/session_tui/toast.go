package session_tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/protalker/protalker/pkg/notify"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 4 * time.Second

type toastTickMsg struct{}

type toast struct {
	notice  notify.Notice
	expires time.Time
}

// Toasts is the on-screen notification stack. It implements notify.Notifier.
type Toasts struct {
	mu      sync.Mutex
	items   []toast
	ticking bool
	now     func() time.Time
}

// NewToasts returns an empty stack.
func NewToasts() *Toasts {
	return &Toasts{now: time.Now}
}

func (t *Toasts) Info(text string)    { t.push(notify.LevelInfo, text) }
func (t *Toasts) Success(text string) { t.push(notify.LevelSuccess, text) }
func (t *Toasts) Error(text string)   { t.push(notify.LevelError, text) }

func (t *Toasts) push(level notify.Level, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, toast{
		notice:  notify.Notice{Level: level, Text: text},
		expires: t.now().Add(ToastTTL),
	})
}

// Active returns the notices currently shown, oldest first.
func (t *Toasts) Active() []notify.Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]notify.Notice, len(t.items))
	for i, it := range t.items {
		out[i] = it.notice
	}
	return out
}

// prune drops expired toasts and returns how many remain.
func (t *Toasts) prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.expires) {
			kept = append(kept, it)
		}
	}
	t.items = kept
	return len(kept)
}

// schedule returns a tick command if toasts are showing and no tick is
// pending already.
func (t *Toasts) schedule() tea.Cmd {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticking || len(t.items) == 0 {
		return nil
	}
	t.ticking = true
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

// tick handles a toastTickMsg.
func (t *Toasts) tick() tea.Cmd {
	remaining := t.prune()
	t.mu.Lock()
	t.ticking = false
	t.mu.Unlock()
	if remaining == 0 {
		return nil
	}
	return t.schedule()
}

var _ notify.Notifier = (*Toasts)(nil)
