package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// unreachable returns a client pointed at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOAuthStateStore_KeyIsProviderScoped(t *testing.T) {
	s := NewOAuthStateStore(unreachable(t), domain.ProviderQuickBooks, 0)

	assert.Equal(t, "oauth:state:quickbooks:abc", s.key("abc"))
	assert.Equal(t, defaultStateTTL, s.ttl)
}

func TestOAuthStateStore_BackendErrorIsNotInvalidState(t *testing.T) {
	s := NewOAuthStateStore(unreachable(t), domain.ProviderQuickBooks, time.Minute)

	_, err := s.Consume(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidState))

	_, err = s.Issue(context.Background(), "client-1")
	assert.Error(t, err)
}

func TestConnect_FailsFast(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
