package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// cacheStatusProviders are reported by the credential debug endpoint.
var cacheStatusProviders = []domain.Provider{domain.ProviderPipedrive, domain.ProviderReachInbox}

type IntegrationHandler struct {
	integrations ports.IntegrationService
}

func NewIntegrationHandler(integrations ports.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations}
}

type providerDiagnostic struct {
	Connected     bool     `json:"connected"`
	MissingFields []string `json:"missingFields"`
}

type checkIntegrationsResponse struct {
	Success      bool                                   `json:"success"`
	ClientID     string                                 `json:"clientId"`
	Integrations map[domain.Provider]providerDiagnostic `json:"integrations"`
}

type cacheIndicator struct {
	Cached    bool `json:"cached"`
	Available bool `json:"available"`
}

type debugCredentialsResponse struct {
	Success     bool                               `json:"success"`
	ClientID    string                             `json:"clientId"`
	Credentials map[string]bool                    `json:"credentials"`
	Cache       map[domain.Provider]cacheIndicator `json:"cache"`
}

type integrationStatusResponse struct {
	Success      bool                     `json:"success"`
	ClientID     string                   `json:"clientId"`
	Integrations map[domain.Provider]bool `json:"integrations"`
}

// CheckIntegrations reports, per provider, whether it is connected and which
// required fields are missing.
//
// @Summary      Diagnose provider connectivity
// @Tags         debug
// @Produce      json
// @Param        x-client-id  header    string  false  "Client id"
// @Success      200          {object}  checkIntegrationsResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/debug/check-integrations [get]
func (h *IntegrationHandler) CheckIntegrations(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	statuses, err := h.integrations.Diagnose(c.Request().Context(), p.ClientID)
	if err != nil {
		return respondError(c, err, "Failed to check integrations")
	}

	out := make(map[domain.Provider]providerDiagnostic, len(statuses))
	for name, s := range statuses {
		out[name] = providerDiagnostic{Connected: s.Connected, MissingFields: s.MissingFields}
	}

	return c.JSON(http.StatusOK, checkIntegrationsResponse{Success: true, ClientID: p.ClientID, Integrations: out})
}

// DebugCredentials reports which credential fields are stored and whether
// the API-key cache held a key before this request.
//
// @Summary      Inspect stored credentials
// @Tags         debug
// @Produce      json
// @Param        x-client-id  header    string  false  "Client id"
// @Success      200          {object}  debugCredentialsResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/debug/integrations [get]
func (h *IntegrationHandler) DebugCredentials(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	presence, err := h.integrations.CredentialPresence(ctx, p.ClientID)
	if err != nil {
		return respondError(c, err, "Failed to inspect integrations")
	}

	cache := make(map[domain.Provider]cacheIndicator, len(cacheStatusProviders))
	for _, provider := range cacheStatusProviders {
		state, err := h.integrations.CacheStatus(ctx, p.ClientID, provider)
		if err != nil {
			return respondError(c, err, "Failed to inspect integrations")
		}
		cache[provider] = cacheIndicator{Cached: state.Cached, Available: state.Available}
	}

	return c.JSON(http.StatusOK, debugCredentialsResponse{
		Success:     true,
		ClientID:    p.ClientID,
		Credentials: presence,
		Cache:       cache,
	})
}

// ClearCache drops every cached API key of the client on all instances.
//
// @Summary      Clear the API-key cache
// @Tags         debug
// @Produce      json
// @Param        x-client-id  header    string  false  "Client id"
// @Success      200          {object}  messageResponse
// @Router       /api/debug/integrations [post]
func (h *IntegrationHandler) ClearCache(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	if err := h.integrations.InvalidateCredentials(c.Request().Context(), p.ClientID); err != nil {
		// Local entries are already gone; only the broadcast failed.
		return respondError(c, err, "Cache cleared locally but broadcast failed")
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "API key cache cleared for client " + p.ClientID})
}

// Status returns the connected flag of every provider.
//
// @Summary      Integration status
// @Tags         integrations
// @Produce      json
// @Param        x-client-id  header    string  false  "Client id"
// @Success      200          {object}  integrationStatusResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/settings/integrations [get]
func (h *IntegrationHandler) Status(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	status, err := h.integrations.Status(c.Request().Context(), p.ClientID)
	if err != nil {
		return respondError(c, err, "Failed to fetch integrations")
	}

	return c.JSON(http.StatusOK, integrationStatusResponse{Success: true, ClientID: p.ClientID, Integrations: status})
}

// SaveCredentials applies a partial credential update. Keys are credential
// field names; null leaves a field unchanged, "" clears it.
//
// @Summary      Update provider credentials
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        x-client-id  header    string             false  "Client id"
// @Param        body         body      map[string]string  true   "Credential fields"
// @Success      200          {object}  integrationStatusResponse
// @Failure      400          {object}  errorResponse
// @Router       /api/settings/integrations [put]
func (h *IntegrationHandler) SaveCredentials(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	var patch map[string]*string
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid payload")
	}
	if len(patch) == 0 {
		return badRequest(c, "no credential fields provided")
	}

	status, err := h.integrations.SaveCredentials(c.Request().Context(), p.ClientID, patch)
	if err != nil {
		return respondError(c, err, "Failed to save integrations")
	}

	return c.JSON(http.StatusOK, integrationStatusResponse{Success: true, ClientID: p.ClientID, Integrations: status})
}
