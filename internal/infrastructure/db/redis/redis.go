// Package redis holds the Redis adapters: OAuth state, the credential
// invalidation bus and the client they share.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the connection setup for the shared Redis client.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int           // 0 keeps the go-redis default
	Timeout  time.Duration // dial, read and write; 5s when zero
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 5 * time.Second
}

// Connect returns a client that has answered PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	t := cfg.timeout()
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  t,
		ReadTimeout:  t,
		WriteTimeout: t,
	})

	if err := Ping(ctx, rdb, t); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Ping bounds a PING to timeout. Zero means the caller's deadline only.
func Ping(ctx context.Context, rdb *redis.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: ping: %w", rdb.Options().Addr, err)
	}
	return nil
}
