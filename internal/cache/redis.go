package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZanzyTHEbar/methodmatch/internal/resilience"
)

const keyPrefix = "methodmatch:score:"

// RedisStore shares the score cache across server instances. Calls go through
// a circuit breaker; while it is open, gets miss and sets are skipped.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	addr    string
	breaker *resilience.CircuitBreaker
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		ttl:     ttl,
		addr:    client.Options().Addr,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
}

// Get retrieves an item; Redis errors are logged and reported as a miss
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	err := s.breaker.Call(func() error {
		var err error
		data, err = s.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			data = nil
			return nil
		}
		return err
	})
	if err != nil {
		s.logFailure("get", key, err)
		return nil, false
	}
	return data, data != nil
}

// Set stores an item with the store TTL
func (s *RedisStore) Set(ctx context.Context, key string, data []byte) {
	if s.ttl <= 0 {
		return
	}
	err := s.breaker.Call(func() error {
		return s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err()
	})
	if err != nil {
		s.logFailure("set", key, err)
	}
}

func (s *RedisStore) logFailure(op, key string, err error) {
	var open *resilience.CircuitBreakerError
	if errors.As(err, &open) {
		slog.Debug("Redis cache skipped, circuit open", "op", op)
		return
	}
	slog.Warn("Redis cache "+op+" failed", "key", key[:8]+"...", "error", err)
}

// Stats returns connection pool statistics
func (s *RedisStore) Stats() map[string]interface{} {
	pool := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     "redis",
		"addr":        s.addr,
		"ttl_seconds": s.ttl.Seconds(),
		"hits":        pool.Hits,
		"misses":      pool.Misses,
		"timeouts":    pool.Timeouts,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
		"breaker":     s.breaker.GetStats(),
	}
}

// Close is a no-op; the client is owned by the caller
func (s *RedisStore) Close() error { return nil }

// New returns a Redis-backed store when client is non-nil, else an in-memory one
func New(client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		slog.Info("Score cache using in-memory store", "ttl", ttl)
		return NewMemoryStore(ttl)
	}
	slog.Info("Score cache using Redis", "addr", client.Options().Addr, "ttl", ttl)
	return NewRedisStore(client, ttl)
}

