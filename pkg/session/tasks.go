package session

import (
	"context"
	"sync"
)

// TaskID identifies an asynchronous operation started by a view.
type TaskID uint64

// Tasks tracks the asynchronous operations of a view so they can be cancelled
// together when the view goes away. A task's result must only be applied if
// Done returns true for it.
type Tasks struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	next   TaskID
	live   map[TaskID]context.CancelFunc
	closed bool
}

// NewTasks creates a registry whose tasks derive from parent.
func NewTasks(parent context.Context) *Tasks {
	ctx, cancel := context.WithCancel(parent)
	return &Tasks{
		ctx:    ctx,
		cancel: cancel,
		live:   make(map[TaskID]context.CancelFunc),
	}
}

// Start registers a new task and returns its id and context. After Close the
// returned context is already cancelled.
func (t *Tasks) Start() (TaskID, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	id := t.next
	ctx, cancel := context.WithCancel(t.ctx)
	if t.closed {
		cancel()
		return id, ctx
	}
	t.live[id] = cancel
	return id, ctx
}

// Cancel cancels a single task. Its result will be rejected by Done.
func (t *Tasks) Cancel(id TaskID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cancel, ok := t.live[id]; ok {
		cancel()
		delete(t.live, id)
	}
}

// Done marks a task as settled and reports whether its result should be
// applied. It returns false for unknown, cancelled or post-Close tasks.
func (t *Tasks) Done(id TaskID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}
	cancel, ok := t.live[id]
	if !ok {
		return false
	}
	cancel()
	delete(t.live, id)
	return true
}

// Pending returns the number of outstanding tasks.
func (t *Tasks) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Close cancels every outstanding task. It is safe to call more than once.
func (t *Tasks) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	for id, cancel := range t.live {
		cancel()
		delete(t.live, id)
	}
	t.cancel()
}

// Closed reports whether Close has been called.
func (t *Tasks) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
