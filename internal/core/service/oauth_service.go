package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// CredentialInvalidator drops cached credentials after a write.
type CredentialInvalidator interface {
	InvalidateCredentials(ctx context.Context, clientID string) error
}

// OAuthService runs the QuickBooks authorization-code flow. Tokens are stored
// against the tenant that started the flow; they never travel to the browser.
type OAuthService struct {
	provider    domain.Provider
	states      ports.OAuthStateStore
	exchanger   ports.TokenExchanger
	store       ports.CredentialRepository
	invalidator CredentialInvalidator
	log         zerolog.Logger
}

func NewOAuthService(
	states ports.OAuthStateStore,
	exchanger ports.TokenExchanger,
	store ports.CredentialRepository,
	invalidator CredentialInvalidator,
	log zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		provider:    domain.ProviderQuickBooks,
		states:      states,
		exchanger:   exchanger,
		store:       store,
		invalidator: invalidator,
		log:         log,
	}
}

// AuthorizationURL issues a state bound to clientID and returns the provider
// consent URL carrying it.
func (s *OAuthService) AuthorizationURL(ctx context.Context, clientID string) (string, error) {
	if clientID == "" {
		return "", domain.Invalid("Client ID is required")
	}
	state, err := s.states.Issue(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("issue oauth state: %w", err)
	}
	return s.exchanger.AuthCodeURL(state), nil
}

// Callback drives one redirect to a terminal outcome. It never returns an
// error: every failure maps to an error code for the integrations page.
func (s *OAuthService) Callback(ctx context.Context, in ports.OAuthCallbackInput) ports.OAuthOutcome {
	out := ports.OAuthOutcome{Provider: s.provider}

	// 1. Provider reported an error (user denied consent, etc.).
	if in.Error != "" {
		s.log.Warn().Str("provider", string(s.provider)).Str("error", in.Error).Msg("oauth provider returned error")
		out.ErrorCode = in.Error
		return out
	}

	// 2. All three parameters are mandatory.
	if in.Code == "" || in.State == "" || in.RealmID == "" {
		out.ErrorCode = ports.OAuthErrMissingParameters
		return out
	}

	// 3. The state must be one we issued and not yet used.
	clientID, err := s.states.Consume(ctx, in.State)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			s.log.Warn().Str("provider", string(s.provider)).Msg("oauth state rejected")
			out.ErrorCode = ports.OAuthErrInvalidState
			return out
		}
		s.log.Error().Err(err).Msg("oauth state lookup failed")
		out.ErrorCode = ports.OAuthErrFailed
		return out
	}

	// 4. Single exchange attempt; no retry.
	tokens, err := s.exchanger.Exchange(ctx, in.Code)
	if err != nil {
		s.log.Error().Err(err).Str("client_id", clientID).Str("provider", string(s.provider)).Msg("oauth code exchange failed")
		out.ErrorCode = ports.OAuthErrFailed
		return out
	}

	// 5. Persist server-side.
	if err := s.saveTokens(ctx, clientID, in.RealmID, tokens); err != nil {
		s.log.Error().Err(err).Str("client_id", clientID).Msg("failed to persist oauth tokens")
		out.ErrorCode = ports.OAuthErrFailed
		return out
	}

	s.log.Info().Str("client_id", clientID).Str("provider", string(s.provider)).Str("realm_id", in.RealmID).Msg("oauth connection established")
	return out
}

func (s *OAuthService) saveTokens(ctx context.Context, clientID, realmID string, tokens *domain.OAuthTokens) error {
	settings, err := s.store.Get(ctx, clientID)
	if err != nil {
		return err
	}
	settings.QuickBooksAccessToken = tokens.AccessToken
	settings.QuickBooksRefreshToken = tokens.RefreshToken
	settings.QuickBooksRealmID = realmID
	if !tokens.Expiry.IsZero() {
		expiry := tokens.Expiry.UTC()
		settings.QuickBooksTokenExpiresAt = &expiry
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return err
	}
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateCredentials(ctx, clientID); err != nil {
			s.log.Warn().Err(err).Str("client_id", clientID).Msg("credential invalidation failed")
		}
	}
	return nil
}
