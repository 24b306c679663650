package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "nested", "state.yml")}

	st, err := f.Load()

	require.NoError(t, err)
	assert.Nil(t, st.Credentials)
	assert.Empty(t, st.LastEmail)
}

func TestCredentialsRoundTrip(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "nested", "state.yml")}
	expires := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.SetCredentials(&Credentials{
		UserID:      "u-1",
		Email:       "ana@example.com",
		AccessToken: "tok",
		ExpiresAt:   expires,
	}))

	st, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, st.Credentials)
	assert.Equal(t, "u-1", st.Credentials.UserID)
	assert.Equal(t, "tok", st.Credentials.AccessToken)
	assert.True(t, expires.Equal(st.Credentials.ExpiresAt))
	assert.Equal(t, "ana@example.com", st.LastEmail)

	info, err := os.Stat(f.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, f.ClearCredentials())
	st, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, st.Credentials)
	assert.Equal(t, "ana@example.com", st.LastEmail, "last email survives sign-out")
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: [unclosed"), 0600))

	_, err := (&File{Path: path}).Load()

	assert.Error(t, err)
}

func TestNewFileDefaultsToHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	f, err := NewFile("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".protalker", "state.yml"), f.Path)
}
