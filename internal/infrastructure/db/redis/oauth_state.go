package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

const defaultStateTTL = 10 * time.Minute

// OAuthStateStore keeps pending authorizations in Redis.
// Key format: oauth:state:<provider>:<state> → client id
type OAuthStateStore struct {
	client   *redis.Client
	provider domain.Provider
	ttl      time.Duration
}

// NewOAuthStateStore creates a store for provider. ttl <= 0 uses defaultStateTTL.
func NewOAuthStateStore(client *redis.Client, provider domain.Provider, ttl time.Duration) *OAuthStateStore {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &OAuthStateStore{client: client, provider: provider, ttl: ttl}
}

// Issue records a fresh random state for clientID.
func (s *OAuthStateStore) Issue(ctx context.Context, clientID string) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, s.key(state), clientID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return state, nil
}

// Consume removes the state and returns its client id. Each state is usable
// exactly once.
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (string, error) {
	clientID, err := s.client.GetDel(ctx, s.key(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidState
		}
		return "", fmt.Errorf("consume oauth state: %w", err)
	}
	return clientID, nil
}

func (s *OAuthStateStore) key(state string) string {
	return fmt.Sprintf("oauth:state:%s:%s", s.provider, state)
}
