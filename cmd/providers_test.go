package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protalker/protalker/pkg/auth"
)

func TestNewAuthProviderLocal(t *testing.T) {
	var cfg ProtalkerConfig
	cfg.applyDefaults()
	cfg.Auth.StateFile = filepath.Join(t.TempDir(), "state.yml")

	provider, store, err := newAuthProvider(&cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &auth.LocalProvider{}, provider)

	_, err = provider.SignIn(context.Background(), "ana@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", lastEmail(&cfg))
}

func TestNewAuthProviderSupabase(t *testing.T) {
	var cfg ProtalkerConfig
	cfg.Auth.SupabaseURL = "https://demo.supabase.co"
	cfg.Auth.SupabaseAnonKey = "anon"
	cfg.Auth.Store = "memory"
	cfg.applyDefaults()

	provider, store, err := newAuthProvider(&cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &auth.SupabaseProvider{}, provider)
}

func TestNewCredentialStoreRedisNeedsURL(t *testing.T) {
	var cfg ProtalkerConfig
	cfg.applyDefaults()
	cfg.Auth.Store = "redis"

	_, err := newCredentialStore(&cfg)

	assert.ErrorIs(t, err, auth.ErrInvalidConfig)
}

func TestNewCredentialStoreRedis(t *testing.T) {
	var cfg ProtalkerConfig
	cfg.applyDefaults()
	cfg.Auth.Store = "redis"
	cfg.Auth.RedisURL = "redis://localhost:6379/0"

	store, err := newCredentialStore(&cfg)

	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
