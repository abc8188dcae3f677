package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// UserRepository defines persistence for users and their client access rows.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindWithAccess loads the user, its agency and every ClientAccess row with
	// the related client in a single round trip.
	FindWithAccess(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// AccessRole returns the role userID holds on clientID, or "" when none.
	AccessRole(ctx context.Context, userID, clientID string) (string, error)
}
