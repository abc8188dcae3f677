package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// APIKeyCache is the process-local lookup cache in front of the credential store.
type APIKeyCache interface {
	// Get returns the provider's key for the client, reading the store on a miss.
	Get(ctx context.Context, clientID string, provider domain.Provider) (string, bool, error)
	// Clear evicts every cached entry of the client.
	Clear(clientID string)
	// Peek reports whether an entry is cached without touching the store.
	Peek(clientID string, provider domain.Provider) bool
}

// InvalidationPublisher fans a credential change out to other instances.
type InvalidationPublisher interface {
	Publish(ctx context.Context, clientID string) error
}

// ProviderStatus is the diagnostic view of one provider.
type ProviderStatus struct {
	Connected     bool
	MissingFields []string
}

// CacheState reports the cache state of one provider key.
type CacheState struct {
	Cached    bool // entry was cached before this call
	Available bool // a key could be resolved (cache or store)
}

// IntegrationService aggregates provider connectivity for a client.
type IntegrationService interface {
	Status(ctx context.Context, clientID string) (map[domain.Provider]bool, error)
	Diagnose(ctx context.Context, clientID string) (map[domain.Provider]ProviderStatus, error)
	CredentialPresence(ctx context.Context, clientID string) (map[string]bool, error)
	CacheStatus(ctx context.Context, clientID string, provider domain.Provider) (CacheState, error)
	GetAPIKey(ctx context.Context, clientID string, provider domain.Provider) (string, bool, error)
	SaveCredentials(ctx context.Context, clientID string, patch map[string]*string) (map[domain.Provider]bool, error)
	InvalidateCredentials(ctx context.Context, clientID string) error
}
