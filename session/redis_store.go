package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultKeyPrefix = "docassist:session:"

const (
	// DefaultLockTTL bounds how long a crashed holder keeps a session locked
	DefaultLockTTL = 2 * time.Minute
	lockRetry      = 50 * time.Millisecond
)

// releaseScript deletes the lock only while it still carries the holder's token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisStore shares sessions between processes through redis
type RedisStore struct {
	client *redis.Client
	prefix  string
	ttl     time.Duration
	lockTTL time.Duration
	logger  *zap.Logger
}

var (
	_ Store         = (*RedisStore)(nil)
	_ SessionLocker = (*RedisStore)(nil)
)

// NewRedisStore returns a RedisStore, a non positive ttl falls back to DefaultTTL
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:  client,
		prefix:  DefaultKeyPrefix,
		ttl:     ttl,
		lockTTL: DefaultLockTTL,
		logger:  zap.NewNop(),
	}
}

// NewRedisStoreFromURL connects to a redis:// url
func NewRedisStoreFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

// WithPrefix sets the key prefix
func (s *RedisStore) WithPrefix(prefix string) *RedisStore {
	s.prefix = prefix
	return s
}

// WithLockTTL sets the expiry of session locks, non positive values are ignored
func (s *RedisStore) WithLockTTL(ttl time.Duration) *RedisStore {
	if ttl > 0 {
		s.lockTTL = ttl
	}
	return s
}

// WithLogger sets the logger used to report failed lock releases
func (s *RedisStore) WithLogger(l *zap.Logger) *RedisStore {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) lockKey(id string) string {
	return s.prefix + "lock:" + id
}

// LockSession takes a redis lock on id with SET NX and a random token, polling until it is free.
// The lock expires after the lock ttl so a crashed holder cannot block a session forever.
func (s *RedisStore) LockSession(ctx context.Context, id string) (func(), error) {
	key := s.lockKey(id)
	token := uuid.NewString()
	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock session %s: %w", id, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock session %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
	var released bool
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil {
			s.logger.Warn("release session lock", zap.String("session_id", id), zap.Error(err))
		}
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	bs, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	state := new(State)
	if err := state.UnmarshalBinary(bs); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	return s.client.Set(ctx, s.key(state.SessionID), state, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
