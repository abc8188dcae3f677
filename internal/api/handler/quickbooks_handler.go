package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

const integrationsPath = "/dashboard/integrations"

// QuickBooksHandler starts the OAuth flow and receives Intuit's redirect.
// Both endpoints answer with redirects, never JSON bodies.
type QuickBooksHandler struct {
	oauth   ports.OAuthService
	baseURL string
}

// NewQuickBooksHandler builds the handler. baseURL prefixes the integrations
// page; empty yields a relative redirect.
func NewQuickBooksHandler(oauth ports.OAuthService, baseURL string) *QuickBooksHandler {
	return &QuickBooksHandler{oauth: oauth, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *QuickBooksHandler) integrationsURL(q url.Values) string {
	return h.baseURL + integrationsPath + "?" + q.Encode()
}

// Connect redirects the browser to the Intuit consent screen.
//
// @Summary      Start QuickBooks OAuth
// @Tags         quickbooks
// @Param        x-client-id  header  string  false  "Client id"
// @Success      302
// @Router       /api/quickbooks/connect [get]
func (h *QuickBooksHandler) Connect(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	authURL, err := h.oauth.AuthorizationURL(c.Request().Context(), p.ClientID)
	if err != nil {
		return respondError(c, err, "Failed to start QuickBooks authorization")
	}
	return c.Redirect(http.StatusFound, authURL)
}

// Callback completes the OAuth flow and sends the browser back to the
// integrations page with success=true or an error code.
//
// @Summary      QuickBooks OAuth callback
// @Tags         quickbooks
// @Param        code     query  string  false  "Authorization code"
// @Param        state    query  string  false  "State issued by connect"
// @Param        realmId  query  string  false  "QuickBooks company id"
// @Param        error    query  string  false  "Provider error"
// @Success      302
// @Router       /api/quickbooks/callback [get]
func (h *QuickBooksHandler) Callback(c echo.Context) error {
	outcome := h.oauth.Callback(c.Request().Context(), ports.OAuthCallbackInput{
		Code:    c.QueryParam("code"),
		State:   c.QueryParam("state"),
		RealmID: c.QueryParam("realmId"),
		Error:   c.QueryParam("error"),
	})

	q := url.Values{}
	label := "success"
	if outcome.ErrorCode != "" {
		q.Set("error", outcome.ErrorCode)
		label = outcomeLabel(outcome.ErrorCode)
	} else {
		q.Set("success", "true")
		q.Set("provider", string(outcome.Provider))
	}
	metrics.OAuthCallbacksTotal.WithLabelValues(string(outcome.Provider), label).Inc()

	return c.Redirect(http.StatusFound, h.integrationsURL(q))
}

// outcomeLabel bounds the metric label set; provider error values are free text.
func outcomeLabel(code string) string {
	switch code {
	case ports.OAuthErrMissingParameters, ports.OAuthErrInvalidState, ports.OAuthErrFailed:
		return code
	}
	return "provider_error"
}
