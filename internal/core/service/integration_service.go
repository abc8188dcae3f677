package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// IntegrationService computes provider connectivity from stored credentials
// and owns credential writes, so every write invalidates the key cache.
type IntegrationService struct {
	store     ports.CredentialRepository
	cache     ports.APIKeyCache
	publisher ports.InvalidationPublisher // optional
	logger    zerolog.Logger
}

func NewIntegrationService(
	store ports.CredentialRepository,
	cache ports.APIKeyCache,
	publisher ports.InvalidationPublisher,
	logger zerolog.Logger,
) *IntegrationService {
	return &IntegrationService{store: store, cache: cache, publisher: publisher, logger: logger}
}

func (s *IntegrationService) credentials(ctx context.Context, clientID string) (domain.Credentials, error) {
	if clientID == "" {
		return nil, domain.Invalid("Client ID is required")
	}
	settings, err := s.store.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return settings.Credentials(), nil
}

// Status reports the connected flag of every provider.
func (s *IntegrationService) Status(ctx context.Context, clientID string) (map[domain.Provider]bool, error) {
	creds, err := s.credentials(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return domain.ComputeIntegrationStatus(creds), nil
}

// Diagnose is Status plus the fields each provider is missing.
func (s *IntegrationService) Diagnose(ctx context.Context, clientID string) (map[domain.Provider]ports.ProviderStatus, error) {
	creds, err := s.credentials(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Provider]ports.ProviderStatus, len(domain.Providers))
	for _, p := range domain.Providers {
		missing := p.MissingFields(creds)
		if missing == nil {
			missing = []string{}
		}
		out[p.Name] = ports.ProviderStatus{Connected: len(missing) == 0, MissingFields: missing}
	}
	return out, nil
}

// CredentialPresence reports, per known field, whether a value is stored.
// Values themselves are never returned.
func (s *IntegrationService) CredentialPresence(ctx context.Context, clientID string) (map[string]bool, error) {
	creds, err := s.credentials(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, f := range domain.CredentialFields() {
		out[f] = creds.Has(f)
	}
	return out, nil
}

// CacheStatus records whether the provider key was cached, then resolves it.
func (s *IntegrationService) CacheStatus(ctx context.Context, clientID string, provider domain.Provider) (ports.CacheState, error) {
	cached := s.cache.Peek(clientID, provider)
	_, ok, err := s.cache.Get(ctx, clientID, provider)
	if err != nil {
		return ports.CacheState{}, err
	}
	return ports.CacheState{Cached: cached, Available: ok}, nil
}

// GetAPIKey resolves the provider's key through the cache.
func (s *IntegrationService) GetAPIKey(ctx context.Context, clientID string, provider domain.Provider) (string, bool, error) {
	return s.cache.Get(ctx, clientID, provider)
}

// SaveCredentials applies a partial credential update and invalidates every
// cached key of the client.
func (s *IntegrationService) SaveCredentials(ctx context.Context, clientID string, patch map[string]*string) (map[domain.Provider]bool, error) {
	if clientID == "" {
		return nil, domain.Invalid("Client ID is required")
	}
	settings, err := s.store.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if err := settings.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	if err := s.InvalidateCredentials(ctx, clientID); err != nil {
		// The write is durable and the local cache is already clear.
		s.logger.Warn().Err(err).Str("client_id", clientID).Msg("credential invalidation broadcast failed")
	}
	s.logger.Info().Str("client_id", clientID).Int("fields", len(patch)).Msg("credentials saved")
	return domain.ComputeIntegrationStatus(settings.Credentials()), nil
}

// InvalidateCredentials clears the local cache for the client and tells the
// other instances to do the same.
func (s *IntegrationService) InvalidateCredentials(ctx context.Context, clientID string) error {
	s.cache.Clear(clientID)
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, clientID); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}
