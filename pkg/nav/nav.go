package nav

import "sync"

// Destination is a place the client can send the user to.
type Destination string

const (
	None    Destination = ""
	SignIn  Destination = "/signin"
	Landing Destination = "/"
)

// Navigator moves the user to another destination.
type Navigator interface {
	Navigate(dest Destination)
}

// Recorder is a Navigator that remembers where it was sent. The CLI inspects
// it after a view exits to decide what to run next.
type Recorder struct {
	mu      sync.Mutex
	history []Destination
}

// Navigate implements Navigator.
func (r *Recorder) Navigate(dest Destination) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, dest)
}

// Last returns the most recent destination, or None.
func (r *Recorder) Last() Destination {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return None
	}
	return r.history[len(r.history)-1]
}

// History returns every destination in order.
func (r *Recorder) History() []Destination {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Destination, len(r.history))
	copy(out, r.history)
	return out
}

// Reset forgets all recorded destinations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}

var _ Navigator = (*Recorder)(nil)
