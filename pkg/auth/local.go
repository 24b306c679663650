package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LocalProvider signs in any non-empty email without contacting a server.
// It is meant for working against the dev server.
type LocalProvider struct {
	store Store
}

// NewLocalProvider returns a LocalProvider persisting to store.
func NewLocalProvider(store Store) *LocalProvider {
	return &LocalProvider{store: store}
}

// CurrentSession implements Provider.
func (p *LocalProvider) CurrentSession(ctx context.Context) (*Session, error) {
	return p.store.Load(ctx)
}

// SignIn implements Provider. The password is not checked.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	sess := &Session{User: User{ID: uuid.NewString(), Email: email}}
	if err := p.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// SignOut implements Provider.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	return p.store.Clear(ctx)
}

var _ Provider = (*LocalProvider)(nil)
