package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// Error codes carried back to the integrations page.
const (
	OAuthErrMissingParameters = "missing_parameters"
	OAuthErrInvalidState      = "invalid_state"
	OAuthErrFailed            = "oauth_failed"
)

// OAuthStateStore issues and consumes single-use state values.
type OAuthStateStore interface {
	// Issue records a new state bound to clientID and returns it.
	Issue(ctx context.Context, clientID string) (string, error)
	// Consume atomically removes state and returns its client id, or
	// domain.ErrInvalidState when unknown or expired.
	Consume(ctx context.Context, state string) (string, error)
}

// TokenExchanger talks to a provider's OAuth endpoints.
type TokenExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.OAuthTokens, error)
}

// OAuthCallbackInput is the query string of a provider redirect.
type OAuthCallbackInput struct {
	Code    string
	State   string
	RealmID string
	Error   string
}

// OAuthOutcome is the terminal state of a callback. ErrorCode is empty on success.
type OAuthOutcome struct {
	Provider  domain.Provider
	ErrorCode string
}

// OAuthService runs the authorization-code flow for one provider.
type OAuthService interface {
	AuthorizationURL(ctx context.Context, clientID string) (string, error)
	Callback(ctx context.Context, in OAuthCallbackInput) OAuthOutcome
}
