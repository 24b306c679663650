package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		name      string
		storeType StoreType
		opts      []StoreOption
		wantErr   error
	}{
		{name: "memory", storeType: StoreTypeMemory},
		{name: "file", storeType: StoreTypeFile, opts: []StoreOption{WithFilePath(filepath.Join(t.TempDir(), "s.yml"))}},
		{name: "empty defaults to file", storeType: "", opts: []StoreOption{WithFilePath(filepath.Join(t.TempDir(), "s.yml"))}},
		{name: "redis without client", storeType: StoreTypeRedis, wantErr: ErrInvalidConfig},
		{name: "unknown", storeType: "etcd", wantErr: ErrInvalidStoreType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.storeType, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	expires := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	for _, storeType := range []StoreType{StoreTypeMemory, StoreTypeFile} {
		t.Run(string(storeType), func(t *testing.T) {
			store, err := NewStore(storeType, WithFilePath(filepath.Join(t.TempDir(), "state.yml")))
			require.NoError(t, err)

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)

			want := &Session{
				User:         User{ID: "u-1", Email: "ana@example.com"},
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresAt:    expires,
			}
			require.NoError(t, store.Save(ctx, want))

			got, err = store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.User, got.User)
			assert.Equal(t, "access", got.AccessToken)
			assert.Equal(t, "refresh", got.RefreshToken)
			assert.True(t, expires.Equal(got.ExpiresAt))

			require.NoError(t, store.Clear(ctx))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&Session{}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Minute)}).Expired(now))
}

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	p := NewLocalProvider(store)

	sess, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = p.SignIn(ctx, "   ", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err = p.SignIn(ctx, " ana@example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.User.ID)

	current, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, sess.User, current.User)

	require.NoError(t, p.SignOut(ctx))
	current, err = p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

type fakeTokenAPI struct {
	passwordSession *Session
	passwordErr     error
	refreshSession  *Session
	refreshErr      error
	userErr         error
	logoutErr       error

	refreshCalls int
	logoutTokens []string
}

func (f *fakeTokenAPI) passwordGrant(email, password string) (*Session, error) {
	if f.passwordErr != nil {
		return nil, f.passwordErr
	}
	return f.passwordSession, nil
}

func (f *fakeTokenAPI) refreshGrant(refreshToken string) (*Session, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshSession, nil
}

func (f *fakeTokenAPI) user(accessToken string) (*User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &User{ID: "u-1", Email: "ana@example.com"}, nil
}

func (f *fakeTokenAPI) logout(accessToken string) error {
	f.logoutTokens = append(f.logoutTokens, accessToken)
	return f.logoutErr
}

func newTestSupabase(t *testing.T, api *fakeTokenAPI) (*SupabaseProvider, Store) {
	t.Helper()
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	p := newSupabaseProvider(api, store)
	p.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return p, store
}

func TestNewSupabaseProviderValidatesConfig(t *testing.T) {
	_, err := NewSupabaseProvider(SupabaseConfig{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSupabaseProvider(SupabaseConfig{URL: "https://x.supabase.co"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSupabaseSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists the session", func(t *testing.T) {
		api := &fakeTokenAPI{passwordSession: &Session{User: User{ID: "u-1"}, AccessToken: "a"}}
		p, store := newTestSupabase(t, api)

		sess, err := p.SignIn(ctx, "ana@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "a", sess.AccessToken)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "a", stored.AccessToken)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		api := &fakeTokenAPI{passwordErr: errors.New("400 invalid_grant")}
		p, _ := newTestSupabase(t, api)

		_, err := p.SignIn(ctx, "ana@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty password is rejected locally", func(t *testing.T) {
		p, _ := newTestSupabase(t, &fakeTokenAPI{})

		_, err := p.SignIn(ctx, "ana@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSupabaseCurrentSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("no stored session", func(t *testing.T) {
		p, _ := newTestSupabase(t, &fakeTokenAPI{})

		sess, err := p.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("valid token", func(t *testing.T) {
		api := &fakeTokenAPI{}
		p, store := newTestSupabase(t, api)
		require.NoError(t, store.Save(ctx, &Session{AccessToken: "a", ExpiresAt: now.Add(time.Hour)}))

		sess, err := p.CurrentSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "ana@example.com", sess.User.Email)
		assert.Zero(t, api.refreshCalls)
	})

	t.Run("expired token is refreshed", func(t *testing.T) {
		api := &fakeTokenAPI{refreshSession: &Session{AccessToken: "b", RefreshToken: "r2"}}
		p, store := newTestSupabase(t, api)
		require.NoError(t, store.Save(ctx, &Session{AccessToken: "a", RefreshToken: "r1", ExpiresAt: now.Add(-time.Hour)}))

		sess, err := p.CurrentSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "b", sess.AccessToken)
		assert.Equal(t, 1, api.refreshCalls)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "r2", stored.RefreshToken)
	})

	t.Run("failed refresh signs out locally", func(t *testing.T) {
		api := &fakeTokenAPI{userErr: errors.New("401"), refreshErr: errors.New("revoked")}
		p, store := newTestSupabase(t, api)
		require.NoError(t, store.Save(ctx, &Session{AccessToken: "a", RefreshToken: "r1"}))

		sess, err := p.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestSupabaseSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("remote failure still clears local credentials", func(t *testing.T) {
		api := &fakeTokenAPI{logoutErr: errors.New("network down")}
		p, store := newTestSupabase(t, api)
		require.NoError(t, store.Save(ctx, &Session{AccessToken: "a"}))

		require.NoError(t, p.SignOut(ctx))

		assert.Equal(t, []string{"a"}, api.logoutTokens)
		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("signed out already", func(t *testing.T) {
		api := &fakeTokenAPI{}
		p, _ := newTestSupabase(t, api)

		require.NoError(t, p.SignOut(ctx))
		assert.Empty(t, api.logoutTokens)
	})
}
