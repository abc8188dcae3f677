package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// ClientRepository defines persistence for clients (tenants).
type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	// UpdateColumns writes only the given columns. Returns ErrClientNotFound
	// when no row matches.
	UpdateColumns(ctx context.Context, id string, cols map[string]any) error
	UpdateSettings(ctx context.Context, id string, settings domain.Settings) error
	// CreateWithAccess inserts the client and grants access in one transaction.
	CreateWithAccess(ctx context.Context, client *domain.Client, access *domain.ClientAccess) error
}

// TemplateRepository reads deployment templates.
type TemplateRepository interface {
	ListByAgency(ctx context.Context, agencyID string) ([]domain.DeploymentTemplate, error)
	FindByID(ctx context.Context, id string) (*domain.DeploymentTemplate, error)
}
