// Package auth provides the authentication collaborator of the session view:
// who is signed in, signing in and signing out.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotSignedIn        = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidStoreType   = errors.New("invalid credential store type")
	ErrInvalidConfig      = errors.New("invalid auth configuration")
)

// User identifies the signed-in person.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated sign-in.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the access token is past its expiry. Sessions
// without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Provider is the auth collaborator.
type Provider interface {
	// CurrentSession returns the active session, or nil when signed out.
	CurrentSession(ctx context.Context) (*Session, error)

	// SignIn authenticates and persists the resulting session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignOut ends the current session. Local credentials are always cleared.
	SignOut(ctx context.Context) error
}
