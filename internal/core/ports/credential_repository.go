package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// CredentialRepository is the credential store: one APISettings row per client.
type CredentialRepository interface {
	// Get returns the stored record. A client without a row yields an empty
	// record carrying only ClientID, never an error.
	Get(ctx context.Context, clientID string) (*domain.APISettings, error)
	// Save upserts the record.
	Save(ctx context.Context, settings *domain.APISettings) error
}
