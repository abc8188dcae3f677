package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// BrandingView is the branding payload of the current client.
type BrandingView struct {
	CompanyName string
	domain.Branding
}

// ClientService resolves the request's client and mutates its branding and
// settings.
type ClientService interface {
	GetCurrentClient(ctx context.Context, clientID string) (*domain.Client, error)
	GetBranding(ctx context.Context, clientID string) (*BrandingView, error)
	UpdateBranding(ctx context.Context, clientID string, patch domain.BrandingPatch) error
	UpdateSettings(ctx context.Context, clientID string, patch domain.SettingsPatch) (*domain.Settings, error)
}
