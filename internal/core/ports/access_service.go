package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// BrandingSummary is the slice of branding exposed in client listings.
type BrandingSummary struct {
	PrimaryColor   *string
	SecondaryColor *string
	CompanyName    string
}

// ClientSummary is one entry of a user's accessible clients.
type ClientSummary struct {
	ID           string
	Name         string
	Slug         string
	BusinessType string
	Branding     *BrandingSummary
	Role         string
}

// AccessibleClients is the result of ListAccessibleClients.
type AccessibleClients struct {
	User    *domain.User
	Agency  *domain.Agency // nil when the user has no agency
	Clients []ClientSummary
}

// OnboardClientInput carries the fields of a new client. TemplateID is optional.
type OnboardClientInput struct {
	CompanyName  string
	Slug         string
	BusinessType string
	TemplateID   string
}

// AccessService resolves which clients a user may act on.
type AccessService interface {
	ListAccessibleClients(ctx context.Context, email string) (*AccessibleClients, error)
	HasAccess(ctx context.Context, email, clientID string) (bool, error)
	ListTemplates(ctx context.Context, email string) ([]domain.DeploymentTemplate, error)
	OnboardClient(ctx context.Context, email string, in OnboardClientInput) (*domain.Client, error)
}
