package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriptSeedsGreeting(t *testing.T) {
	tr := NewTranscript()

	require.Equal(t, 1, tr.Len())
	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, Message{Role: RoleAssistant, Text: Greeting}, last)
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	msgs := tr.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, Greeting, tr.Messages()[0].Text)
}

func TestBeginSend(t *testing.T) {
	tests := []struct {
		name     string
		draft    string
		awaiting bool
		wantOK   bool
	}{
		{name: "plain text", draft: "hola", wantOK: true},
		{name: "text with surrounding spaces is sent raw", draft: "  hola  ", wantOK: true},
		{name: "empty draft", draft: "", wantOK: false},
		{name: "whitespace only", draft: " \n\t ", wantOK: false},
		{name: "reply pending", draft: "hola", awaiting: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Draft = tt.draft
			s.AwaitingReply = tt.awaiting

			text, ok := s.BeginSend()

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, 1, s.Transcript.Len(), "nothing should be appended")
				assert.Equal(t, tt.awaiting, s.AwaitingReply)
				return
			}
			assert.Equal(t, tt.draft, text)
			assert.True(t, s.AwaitingReply)
			last, _ := s.Transcript.Last()
			assert.Equal(t, Message{Role: RoleUser, Text: tt.draft}, last)
		})
	}
}

func TestFinishSend(t *testing.T) {
	t.Run("success appends reply verbatim", func(t *testing.T) {
		s := NewState()
		s.Draft = "hola"
		_, ok := s.BeginSend()
		require.True(t, ok)

		msg := s.FinishSend("X", nil)

		assert.Equal(t, Message{Role: RoleAssistant, Text: "X"}, msg)
		assert.Empty(t, s.Draft)
		assert.False(t, s.AwaitingReply)
		msgs := s.Transcript.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, RoleUser, msgs[1].Role)
		assert.Equal(t, RoleAssistant, msgs[2].Role)
	})

	t.Run("failure appends fallback", func(t *testing.T) {
		s := NewState()
		s.Draft = "hola"
		_, _ = s.BeginSend()

		msg := s.FinishSend("ignored", errors.New("boom"))

		assert.Equal(t, FallbackReply, msg.Text)
		assert.Empty(t, s.Draft)
		assert.False(t, s.AwaitingReply)
		assert.Equal(t, 3, s.Transcript.Len())
	})
}

func TestDemoSharesBusyFlag(t *testing.T) {
	s := NewState()
	require.True(t, s.BeginDemo())
	assert.True(t, s.Busy())
	assert.False(t, s.BeginDemo(), "second demo must be rejected while busy")

	s.Draft = "hola"
	_, ok := s.BeginSend()
	assert.False(t, ok, "send must be rejected while demo is pending")
}

func TestFinishDemo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := NewState()
		s.BeginDemo()

		msg, ok := s.FinishDemo(nil)

		assert.True(t, ok)
		assert.Equal(t, DemoStartedReply, msg.Text)
		assert.Equal(t, 2, s.Transcript.Len())
		assert.False(t, s.Busy())
	})

	t.Run("failure appends nothing", func(t *testing.T) {
		s := NewState()
		s.BeginDemo()

		_, ok := s.FinishDemo(errors.New("500"))

		assert.False(t, ok)
		assert.Equal(t, 1, s.Transcript.Len())
		assert.False(t, s.Busy())
	})
}

func TestCaptureLifecycle(t *testing.T) {
	s := NewState()
	s.Draft = "Hola. "

	assert.Equal(t, CaptureStarted, s.ToggleCapture())
	assert.True(t, s.Capturing)

	assert.True(t, s.FinishCapture("texto dictado. "))
	assert.Equal(t, "Hola. texto dictado. ", s.Draft)
	assert.False(t, s.Capturing)
}

func TestCaptureStoppedBeforeCompletion(t *testing.T) {
	s := NewState()

	assert.Equal(t, CaptureStarted, s.ToggleCapture())
	assert.Equal(t, CaptureStopped, s.ToggleCapture())
	assert.False(t, s.FinishCapture("late"))
	assert.Empty(t, s.Draft)
}

func TestCaptureIgnoredWhileBusy(t *testing.T) {
	s := NewState()
	s.BeginDemo()

	assert.Equal(t, CaptureIgnored, s.ToggleCapture())
	assert.False(t, s.Capturing)
	assert.Equal(t, "ignored", CaptureIgnored.String())
}
