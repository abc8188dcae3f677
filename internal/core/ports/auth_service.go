package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// RegisterInput carries the fields of a new user account. Role and AgencyID
// are only honoured when an admin Inviter is present.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	AgencyID string
	Inviter  *Inviter
}

// Inviter is the authenticated caller creating an account for someone else.
type Inviter struct {
	Role     string
	AgencyID string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
