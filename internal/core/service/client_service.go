package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// ClientService resolves the client a request acts on and applies branding
// and settings changes to it.
type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// GetCurrentClient loads the client resolved for the request.
func (s *ClientService) GetCurrentClient(ctx context.Context, clientID string) (*domain.Client, error) {
	if clientID == "" {
		return nil, domain.ErrClientNotFound
	}
	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get current client: %w", err)
	}
	return client, nil
}

func (s *ClientService) GetBranding(ctx context.Context, clientID string) (*ports.BrandingView, error) {
	client, err := s.GetCurrentClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ports.BrandingView{CompanyName: client.CompanyName, Branding: client.Branding}, nil
}

// UpdateBranding persists only the fields present in patch.
func (s *ClientService) UpdateBranding(ctx context.Context, clientID string, patch domain.BrandingPatch) error {
	if clientID == "" {
		return domain.ErrClientNotFound
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		// Nothing to write, but an unknown client must still surface.
		_, err := s.GetCurrentClient(ctx, clientID)
		return err
	}
	if err := s.repo.UpdateColumns(ctx, clientID, cols); err != nil {
		return fmt.Errorf("update branding: %w", err)
	}
	s.logger.Info().Str("client_id", clientID).Int("fields", len(cols)).Msg("branding updated")
	return nil
}

// UpdateSettings merges patch into the stored settings and returns the result.
func (s *ClientService) UpdateSettings(ctx context.Context, clientID string, patch domain.SettingsPatch) (*domain.Settings, error) {
	client, err := s.GetCurrentClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	settings := client.Settings
	patch.Apply(&settings)

	if err := s.repo.UpdateSettings(ctx, clientID, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.logger.Info().Str("client_id", clientID).Msg("settings updated")
	return &settings, nil
}
