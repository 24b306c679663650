package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// SupabaseConfig holds Supabase connection configuration.
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// tokenAPI is the part of GoTrue the provider needs.
type tokenAPI interface {
	passwordGrant(email, password string) (*Session, error)
	refreshGrant(refreshToken string) (*Session, error)
	user(accessToken string) (*User, error)
	logout(accessToken string) error
}

// SupabaseProvider authenticates against Supabase Auth (GoTrue) and keeps
// the resulting tokens in a Store.
type SupabaseProvider struct {
	api    tokenAPI
	store  Store
	now    func() time.Time
	logger *logrus.Entry
}

// NewSupabaseProvider creates a provider for the given project.
func NewSupabaseProvider(cfg SupabaseConfig, store Store) (*SupabaseProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: supabase URL is required", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", ErrInvalidConfig)
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return newSupabaseProvider(&gotrueAPI{client: client}, store), nil
}

func newSupabaseProvider(api tokenAPI, store Store) *SupabaseProvider {
	return &SupabaseProvider{
		api:    api,
		store:  store,
		now:    time.Now,
		logger: logrus.WithField("component", "auth.supabase"),
	}
}

// CurrentSession returns the stored session after checking it with the
// server. An expired or rejected token is refreshed once; if that fails the
// local credentials are dropped and nil is returned.
func (p *SupabaseProvider) CurrentSession(ctx context.Context) (*Session, error) {
	sess, err := p.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	if !sess.Expired(p.now()) {
		user, err := p.api.user(sess.AccessToken)
		if err == nil {
			sess.User = *user
			return sess, nil
		}
		p.logger.WithError(err).Debug("stored access token rejected")
	}

	if sess.RefreshToken == "" {
		return nil, p.forget(ctx)
	}

	refreshed, err := p.api.refreshGrant(sess.RefreshToken)
	if err != nil {
		p.logger.WithError(err).Warn("session refresh failed")
		return nil, p.forget(ctx)
	}
	if err := p.store.Save(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("save refreshed session: %w", err)
	}
	return refreshed, nil
}

// SignIn implements Provider using the password grant.
func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	sess, err := p.api.passwordGrant(email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err := p.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	p.logger.WithField("user_id", sess.User.ID).Info("signed in")
	return sess, nil
}

// SignOut revokes the session server-side when possible and always clears
// the local credentials. Only a local failure is returned.
func (p *SupabaseProvider) SignOut(ctx context.Context) error {
	sess, err := p.store.Load(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("could not read stored session before sign-out")
	}
	if sess != nil && sess.AccessToken != "" {
		if err := p.api.logout(sess.AccessToken); err != nil {
			p.logger.WithError(err).Warn("remote logout failed")
		}
	}
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

func (p *SupabaseProvider) forget(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

// gotrueAPI adapts the supabase-go Auth client.
type gotrueAPI struct {
	client *supabase.Client
}

func (g *gotrueAPI) passwordGrant(email, password string) (*Session, error) {
	resp, err := g.client.Auth.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp), nil
}

func (g *gotrueAPI) refreshGrant(refreshToken string) (*Session, error) {
	resp, err := g.client.Auth.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp), nil
}

func (g *gotrueAPI) user(accessToken string) (*User, error) {
	resp, err := g.client.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, err
	}
	return &User{ID: resp.ID.String(), Email: resp.Email}, nil
}

func (g *gotrueAPI) logout(accessToken string) error {
	return g.client.Auth.WithToken(accessToken).Logout()
}

func sessionFromToken(resp *types.TokenResponse) *Session {
	sess := &Session{
		User: User{
			ID:    resp.User.ID.String(),
			Email: resp.User.Email,
		},
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	}
	return sess
}

var _ Provider = (*SupabaseProvider)(nil)
