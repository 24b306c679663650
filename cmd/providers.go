package cmd

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/protalker/protalker/pkg/auth"
)

// newCredentialStore builds the store named by auth.store.
func newCredentialStore(cfg *ProtalkerConfig) (auth.Store, error) {
	storeType := auth.StoreType(strings.ToLower(cfg.Auth.Store))
	opts := []auth.StoreOption{auth.WithFilePath(cfg.Auth.StateFile)}

	if storeType == auth.StoreTypeRedis {
		if cfg.Auth.RedisURL == "" {
			return nil, fmt.Errorf("%w: redis store requires REDIS_URL", auth.ErrInvalidConfig)
		}
		redisOpts, err := redis.ParseURL(cfg.Auth.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = append(opts, auth.WithRedisClient(redis.NewClient(redisOpts)))
	}

	return auth.NewStore(storeType, opts...)
}

// newAuthProvider builds the configured provider. The caller closes the store.
func newAuthProvider(cfg *ProtalkerConfig) (auth.Provider, auth.Store, error) {
	store, err := newCredentialStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(cfg.Auth.Provider) {
	case providerSupabase:
		provider, err := auth.NewSupabaseProvider(auth.SupabaseConfig{
			URL:    cfg.Auth.SupabaseURL,
			APIKey: cfg.Auth.SupabaseAnonKey,
		}, store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		return provider, store, nil
	default:
		return auth.NewLocalProvider(store), store, nil
	}
}
