// Package cache holds the process-local API-key cache that fronts the
// credential store.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

// APIKeyCache memoizes provider keys per (client, provider). It is unbounded
// and has no TTL: writers invalidate explicitly through Clear. The store stays
// authoritative.
type APIKeyCache struct {
	store ports.CredentialRepository
	log   zerolog.Logger

	mu      sync.RWMutex
	entries map[string]map[domain.Provider]string
	// generations guards against a lookup that started before a Clear
	// repopulating the cache with a value read before the write.
	generations map[string]uint64
}

// NewAPIKeyCache returns an empty cache reading misses from store.
func NewAPIKeyCache(store ports.CredentialRepository, log zerolog.Logger) *APIKeyCache {
	return &APIKeyCache{
		store:       store,
		log:         log,
		entries:     make(map[string]map[domain.Provider]string),
		generations: make(map[string]uint64),
	}
}

// Get returns the provider key for clientID. On a miss it reads the store once
// and caches a non-empty result; absent keys are not cached.
func (c *APIKeyCache) Get(ctx context.Context, clientID string, provider domain.Provider) (string, bool, error) {
	spec, ok := domain.LookupProvider(provider)
	if !ok {
		return "", false, domain.Invalid(fmt.Sprintf("unknown provider %q", provider))
	}

	c.mu.RLock()
	key, hit := c.entries[clientID][provider]
	gen := c.generations[clientID]
	c.mu.RUnlock()

	if hit {
		metrics.APIKeyCacheLookupsTotal.WithLabelValues("hit").Inc()
		return key, true, nil
	}
	metrics.APIKeyCacheLookupsTotal.WithLabelValues("miss").Inc()

	settings, err := c.store.Get(ctx, clientID)
	if err != nil {
		return "", false, fmt.Errorf("api key lookup: %w", err)
	}
	key = settings.Credentials()[spec.KeyField]
	if key == "" {
		return "", false, nil
	}

	c.mu.Lock()
	if c.generations[clientID] == gen {
		if c.entries[clientID] == nil {
			c.entries[clientID] = make(map[domain.Provider]string)
		}
		c.entries[clientID][provider] = key
	}
	c.mu.Unlock()

	return key, true, nil
}

// Peek reports whether a key is cached without reading the store.
func (c *APIKeyCache) Peek(clientID string, provider domain.Provider) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[clientID][provider]
	return ok
}

// Clear evicts every entry of clientID.
func (c *APIKeyCache) Clear(clientID string) {
	c.mu.Lock()
	delete(c.entries, clientID)
	c.generations[clientID]++
	c.mu.Unlock()

	c.log.Debug().Str("client_id", clientID).Msg("api key cache cleared")
}

// Len returns the number of cached entries across all clients.
func (c *APIKeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.entries {
		n += len(m)
	}
	return n
}
