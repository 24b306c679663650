package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.Equal(t, None, r.Last())

	r.Navigate(SignIn)
	r.Navigate(Landing)

	assert.Equal(t, Landing, r.Last())
	assert.Equal(t, []Destination{SignIn, Landing}, r.History())

	r.Reset()
	assert.Equal(t, None, r.Last())
	assert.Empty(t, r.History())
}
