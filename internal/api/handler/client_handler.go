package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// ClientHandler serves the caller's client list, onboarding and settings.
type ClientHandler struct {
	access  ports.AccessService
	clients ports.ClientService
}

func NewClientHandler(access ports.AccessService, clients ports.ClientService) *ClientHandler {
	return &ClientHandler{access: access, clients: clients}
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type agencySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clientBranding struct {
	PrimaryColor   *string `json:"primaryColor"`
	SecondaryColor *string `json:"secondaryColor"`
	CompanyName    string  `json:"companyName"`
}

type clientSummary struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	BusinessType string          `json:"businessType"`
	Branding     *clientBranding `json:"branding"`
	Role         string          `json:"role"`
}

type clientsResponse struct {
	User    userSummary     `json:"user"`
	Agency  *agencySummary  `json:"agency"`
	Clients []clientSummary `json:"clients"`
}

func toClientsResponse(r *ports.AccessibleClients) clientsResponse {
	resp := clientsResponse{
		User: userSummary{
			ID:    r.User.ID,
			Name:  r.User.Name,
			Email: r.User.Email,
			Role:  r.User.Role,
		},
		Clients: make([]clientSummary, 0, len(r.Clients)),
	}
	if r.Agency != nil {
		resp.Agency = &agencySummary{ID: r.Agency.ID, Name: r.Agency.Name}
	}
	for _, c := range r.Clients {
		s := clientSummary{
			ID:           c.ID,
			Name:         c.Name,
			Slug:         c.Slug,
			BusinessType: c.BusinessType,
			Role:         c.Role,
		}
		if c.Branding != nil {
			s.Branding = &clientBranding{
				PrimaryColor:   c.Branding.PrimaryColor,
				SecondaryColor: c.Branding.SecondaryColor,
				CompanyName:    c.Branding.CompanyName,
			}
		}
		resp.Clients = append(resp.Clients, s)
	}
	return resp
}

// List returns every client the caller can access.
//
// @Summary      List accessible clients
// @Tags         clients
// @Produce      json
// @Success      200  {object}  clientsResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	result, err := h.access.ListAccessibleClients(c.Request().Context(), p.Email)
	if err != nil {
		return respondError(c, err, "Failed to fetch clients")
	}

	return c.JSON(http.StatusOK, toClientsResponse(result))
}

type onboardClientRequest struct {
	CompanyName  string `json:"companyName" validate:"required,max=255"`
	Slug         string `json:"slug" validate:"omitempty,max=128"`
	BusinessType string `json:"businessType" validate:"omitempty,max=64"`
	TemplateID   string `json:"templateId"`
}

type clientResponse struct {
	Success bool           `json:"success"`
	Client  *domain.Client `json:"client"`
}

// Create onboards a new client under the caller's agency.
//
// @Summary      Onboard a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      onboardClientRequest  true  "New client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req onboardClientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "Failed to create client")
	}

	client, err := h.access.OnboardClient(c.Request().Context(), p.Email, ports.OnboardClientInput{
		CompanyName:  req.CompanyName,
		Slug:         req.Slug,
		BusinessType: req.BusinessType,
		TemplateID:   req.TemplateID,
	})
	if err != nil {
		return respondError(c, err, "Failed to create client")
	}

	return c.JSON(http.StatusCreated, clientResponse{Success: true, Client: client})
}

type templatesResponse struct {
	Success   bool                        `json:"success"`
	Templates []domain.DeploymentTemplate `json:"templates"`
}

// Templates lists the deployment templates of the caller's agency.
//
// @Summary      List deployment templates
// @Tags         clients
// @Produce      json
// @Success      200  {object}  templatesResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/templates [get]
func (h *ClientHandler) Templates(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	templates, err := h.access.ListTemplates(c.Request().Context(), p.Email)
	if err != nil {
		return respondError(c, err, "Failed to fetch templates")
	}
	if templates == nil {
		templates = []domain.DeploymentTemplate{}
	}

	return c.JSON(http.StatusOK, templatesResponse{Success: true, Templates: templates})
}

type updateSettingsRequest struct {
	Timezone     *string        `json:"timezone" validate:"omitempty,max=64"`
	Currency     *string        `json:"currency" validate:"omitempty,len=3"`
	CustomFields map[string]any `json:"customFields"`
}

type settingsResponse struct {
	Success  bool             `json:"success"`
	Settings *domain.Settings `json:"settings"`
}

// UpdateSettings merges operational settings of the current client.
//
// @Summary      Update client settings
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        x-client-id  header    string                 false  "Client id"
// @Param        body         body      updateSettingsRequest  true   "Settings to change"
// @Success      200          {object}  settingsResponse
// @Failure      400          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /api/settings [patch]
func (h *ClientHandler) UpdateSettings(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "Failed to update settings")
	}

	settings, err := h.clients.UpdateSettings(c.Request().Context(), p.ClientID, domain.SettingsPatch{
		Timezone:     req.Timezone,
		Currency:     req.Currency,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		return respondError(c, err, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, settingsResponse{Success: true, Settings: settings})
}
