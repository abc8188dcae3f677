// Package quickbooks implements the Intuit OAuth 2.0 authorization-code flow.
package quickbooks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

const (
	AuthURL         = "https://appcenter.intuit.com/connect/oauth2"
	TokenURL        = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	ScopeAccounting = "com.intuit.quickbooks.accounting"

	providerLabel = "quickbooks"
)

// Config holds the app registration with Intuit.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
	// AuthURL and TokenURL override the Intuit endpoints; tests point them
	// at an httptest server.
	AuthURL  string
	TokenURL string
}

// Exchanger implements ports.TokenExchanger.
type Exchanger struct {
	oauth  *oauth2.Config
	client *http.Client
}

func NewExchanger(cfg Config) *Exchanger {
	authURL, tokenURL := cfg.AuthURL, cfg.TokenURL
	if authURL == "" {
		authURL = AuthURL
	}
	if tokenURL == "" {
		tokenURL = TokenURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Exchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{ScopeAccounting},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: &http.Client{Timeout: timeout},
	}
}

func (e *Exchanger) AuthCodeURL(state string) string {
	return e.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*domain.OAuthTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)

	start := time.Now()
	tok, err := e.oauth.Exchange(ctx, code)
	metrics.ProviderRequestDuration.WithLabelValues(providerLabel, metrics.ResultLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: quickbooks token exchange: %v", domain.ErrUpstream, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: quickbooks returned no access token", domain.ErrUpstream)
	}

	return &domain.OAuthTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}
