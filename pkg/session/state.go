package session

import "strings"

// CaptureTransition reports what ToggleCapture did.
type CaptureTransition int

const (
	CaptureIgnored CaptureTransition = iota
	CaptureStarted
	CaptureStopped
)

func (c CaptureTransition) String() string {
	return [...]string{"ignored", "started", "stopped"}[c]
}

// State holds the transient state of one session view: the transcript, the
// draft being composed and the two flags gating user actions.
//
// State is not safe for concurrent use. The owning view mutates it from its
// event loop only.
type State struct {
	Transcript    *Transcript
	Draft         string
	Capturing     bool
	AwaitingReply bool
}

// NewState returns a fresh state with a seeded transcript.
func NewState() *State {
	return &State{Transcript: NewTranscript()}
}

// Busy reports whether a remote request is outstanding.
func (s *State) Busy() bool {
	return s.AwaitingReply
}

// CanSend reports whether the current draft may be sent.
func (s *State) CanSend() bool {
	return !s.AwaitingReply && strings.TrimSpace(s.Draft) != ""
}

// BeginSend appends the draft as a user message and marks the state as
// awaiting a reply. It returns the raw draft text to forward to the chat
// service, or false when sending is not allowed.
func (s *State) BeginSend() (string, bool) {
	if !s.CanSend() {
		return "", false
	}
	text := s.Draft
	s.Transcript.Append(Message{Role: RoleUser, Text: text})
	s.AwaitingReply = true
	return text, true
}

// FinishSend settles an outstanding chat request. A nil error appends reply
// verbatim; any error appends FallbackReply. The draft is cleared and input
// re-enabled either way. The appended message is returned.
func (s *State) FinishSend(reply string, err error) Message {
	msg := Message{Role: RoleAssistant, Text: reply}
	if err != nil {
		msg.Text = FallbackReply
	}
	s.Transcript.Append(msg)
	s.Draft = ""
	s.AwaitingReply = false
	return msg
}

// BeginDemo marks the state busy for a voice demo request.
func (s *State) BeginDemo() bool {
	if s.AwaitingReply {
		return false
	}
	s.AwaitingReply = true
	return true
}

// FinishDemo settles a voice demo request. On success it appends the
// informational assistant message and returns it.
func (s *State) FinishDemo(err error) (Message, bool) {
	s.AwaitingReply = false
	if err != nil {
		return Message{}, false
	}
	msg := Message{Role: RoleAssistant, Text: DemoStartedReply}
	s.Transcript.Append(msg)
	return msg, true
}

// ToggleCapture flips the voice capture flag. Toggling is ignored while a
// request is outstanding.
func (s *State) ToggleCapture() CaptureTransition {
	if s.AwaitingReply {
		return CaptureIgnored
	}
	if s.Capturing {
		s.Capturing = false
		return CaptureStopped
	}
	s.Capturing = true
	return CaptureStarted
}

// FinishCapture appends captured text to the draft and leaves the capturing
// state. It returns false, changing nothing, when capture was already stopped.
func (s *State) FinishCapture(text string) bool {
	if !s.Capturing {
		return false
	}
	s.Draft += text
	s.Capturing = false
	return true
}

// AbortCapture leaves the capturing state without touching the draft.
func (s *State) AbortCapture() {
	s.Capturing = false
}
