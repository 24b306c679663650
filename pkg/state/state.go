package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Credentials is the persisted sign-in of the local user.
type Credentials struct {
	UserID       string    `yaml:"user_id"`
	Email        string    `yaml:"email"`
	AccessToken  string    `yaml:"access_token,omitempty"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `yaml:"expires_at,omitempty"`
}

// State represents the local protalker state.
type State struct {
	Credentials *Credentials `yaml:"credentials,omitempty"`
	LastEmail   string       `yaml:"last_email,omitempty"`
}

// DefaultPath returns ~/.protalker/state.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".protalker", "state.yml"), nil
}

// File reads and writes a State at a fixed path.
type File struct {
	Path string
}

// NewFile returns a File at path, or at DefaultPath when path is empty.
func NewFile(path string) (*File, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &File{Path: path}, nil
}

// Load loads the state from the state file.
func (f *File) Load() (*State, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty state if file doesn't exist
			return &State{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	return &state, nil
}

// Save writes the state file. The file holds tokens, so it is private to the user.
func (f *File) Save(state *State) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(f.Path, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// SetCredentials stores creds and remembers the email for the next sign-in.
func (f *File) SetCredentials(creds *Credentials) error {
	state, err := f.Load()
	if err != nil {
		return err
	}

	state.Credentials = creds
	if creds != nil && creds.Email != "" {
		state.LastEmail = creds.Email
	}
	return f.Save(state)
}

// ClearCredentials removes the stored sign-in but keeps the last email.
func (f *File) ClearCredentials() error {
	state, err := f.Load()
	if err != nil {
		return err
	}

	state.Credentials = nil
	return f.Save(state)
}
