// Package speech provides the dictation capability used by the session view.
//
// There is no real speech-to-text integration yet. Simulated stands in for it
// by returning a fixed phrase after a delay.
package speech

import (
	"context"
	"time"
)

const (
	// DictationPhrase is what the simulated recognizer "hears".
	DictationPhrase = "Me gustaría practicar para una entrevista en el sector tecnológico. "

	DefaultDelay = 3 * time.Second
)

// Capturer records speech and returns its transcription.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// Simulated waits Delay and then returns Phrase.
type Simulated struct {
	Delay  time.Duration
	Phrase string
}

// NewSimulated returns a Simulated capturer with the default delay and phrase.
func NewSimulated() *Simulated {
	return &Simulated{Delay: DefaultDelay, Phrase: DictationPhrase}
}

// Capture blocks for the configured delay. It returns ctx.Err() if the
// context ends first.
func (s *Simulated) Capture(ctx context.Context) (string, error) {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return s.Phrase, nil
	}
}

// Static completes immediately with Text or Err. Used as a deterministic
// stand-in in tests.
type Static struct {
	Text string
	Err  error
}

// Capture implements Capturer.
func (s Static) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Text, s.Err
}

var (
	_ Capturer = (*Simulated)(nil)
	_ Capturer = Static{}
)
