package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/protalker/protalker/pkg/state"
)

// StoreType selects where credentials are persisted.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
)

// Store persists the signed-in session between runs.
type Store interface {
	// Load returns the stored session, or nil if there is none.
	Load(ctx context.Context) (*Session, error)

	// Save replaces the stored session.
	Save(ctx context.Context, s *Session) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error

	// Close releases any resources.
	Close() error
}

// StoreOption is a functional option for configuring a credential store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	filePath    string
	redisClient *redis.Client
	redisKey    string
	redisTTL    time.Duration
}

// WithFilePath sets the state file used by the file store.
func WithFilePath(path string) StoreOption {
	return func(c *storeConfig) {
		c.filePath = path
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisKey sets the key holding the session.
func WithRedisKey(key string) StoreOption {
	return func(c *storeConfig) {
		c.redisKey = key
	}
}

// WithRedisTTL sets the TTL for the Redis key.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// NewStore creates a credential store of the given type.
// The Redis store requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{}, nil

	case StoreTypeFile, "":
		f, err := state.NewFile(config.filePath)
		if err != nil {
			return nil, err
		}
		return &fileStore{file: f}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		key := config.redisKey
		if key == "" {
			key = "protalker:session:default"
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 30 * 24 * time.Hour
		}
		return &redisStore{client: config.redisClient, key: key, ttl: ttl}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, storeType)
	}
}

// memoryStore keeps the session for the lifetime of the process.
type memoryStore struct {
	mu      sync.RWMutex
	session *Session
}

func (s *memoryStore) Load(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *memoryStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.session = &copied
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

// fileStore keeps the session in the YAML state file.
type fileStore struct {
	file *state.File
}

func (s *fileStore) Load(ctx context.Context) (*Session, error) {
	st, err := s.file.Load()
	if err != nil {
		return nil, err
	}
	if st.Credentials == nil {
		return nil, nil
	}
	c := st.Credentials
	return &Session{
		User:         User{ID: c.UserID, Email: c.Email},
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt,
	}, nil
}

func (s *fileStore) Save(ctx context.Context, sess *Session) error {
	return s.file.SetCredentials(&state.Credentials{
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
	})
}

func (s *fileStore) Clear(ctx context.Context) error {
	return s.file.ClearCredentials()
}

func (s *fileStore) Close() error {
	return nil
}

// redisStore keeps the session as a JSON value under a single key.
type redisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *redisStore) Load(ctx context.Context) (*Session, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return &sess, nil
}

func (s *redisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *redisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
