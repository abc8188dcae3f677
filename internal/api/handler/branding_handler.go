package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

type BrandingHandler struct {
	clients ports.ClientService
}

func NewBrandingHandler(clients ports.ClientService) *BrandingHandler {
	return &BrandingHandler{clients: clients}
}

// brandingPayload always carries all eight keys; unset values are null.
type brandingPayload struct {
	CompanyName    string  `json:"companyName"`
	Slogan         *string `json:"slogan"`
	LogoURL        *string `json:"logoUrl"`
	PrimaryColor   *string `json:"primaryColor"`
	SecondaryColor *string `json:"secondaryColor"`
	SupportEmail   *string `json:"supportEmail"`
	SupportPhone   *string `json:"supportPhone"`
	Website        *string `json:"website"`
}

type brandingResponse struct {
	Success  bool            `json:"success"`
	Branding brandingPayload `json:"branding"`
}

// updateBrandingRequest is a partial update. An omitted key is left
// unchanged, an empty string clears the stored value.
type updateBrandingRequest struct {
	LogoURL        *string `json:"logoUrl" validate:"omitempty,max=2048"`
	PrimaryColor   *string `json:"primaryColor" validate:"omitempty,max=32"`
	SecondaryColor *string `json:"secondaryColor" validate:"omitempty,max=32"`
	Slogan         *string `json:"slogan" validate:"omitempty,max=255"`
	SupportEmail   *string `json:"supportEmail" validate:"omitempty,max=255"`
	SupportPhone   *string `json:"supportPhone" validate:"omitempty,max=64"`
	Website        *string `json:"website" validate:"omitempty,max=255"`
}

func (r updateBrandingRequest) patch() domain.BrandingPatch {
	return domain.BrandingPatch{
		LogoURL:        r.LogoURL,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		Slogan:         r.Slogan,
		SupportEmail:   r.SupportEmail,
		SupportPhone:   r.SupportPhone,
		Website:        r.Website,
	}
}

// Get returns the current client's branding.
//
// @Summary      Get branding
// @Tags         branding
// @Produce      json
// @Param        x-client-id  header    string  false  "Client id"
// @Success      200          {object}  brandingResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/branding [get]
func (h *BrandingHandler) Get(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	view, err := h.clients.GetBranding(c.Request().Context(), p.ClientID)
	if err != nil {
		return serverError(c, err, "Failed to fetch branding")
	}

	return c.JSON(http.StatusOK, brandingResponse{
		Success: true,
		Branding: brandingPayload{
			CompanyName:    view.CompanyName,
			Slogan:         view.Slogan,
			LogoURL:        view.LogoURL,
			PrimaryColor:   view.PrimaryColor,
			SecondaryColor: view.SecondaryColor,
			SupportEmail:   view.SupportEmail,
			SupportPhone:   view.SupportPhone,
			Website:        view.Website,
		},
	})
}

// Update applies a partial branding update to the current client.
//
// @Summary      Update branding
// @Tags         branding
// @Accept       json
// @Produce      json
// @Param        x-client-id  header    string                 false  "Client id"
// @Param        body         body      updateBrandingRequest  true   "Branding fields to change"
// @Success      200          {object}  messageResponse
// @Failure      400          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/branding [post]
func (h *BrandingHandler) Update(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	var req updateBrandingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "Failed to update branding")
	}

	if err := h.clients.UpdateBranding(c.Request().Context(), p.ClientID, req.patch()); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return respondError(c, err, "Failed to update branding")
		}
		return serverError(c, err, "Failed to update branding")
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Branding updated successfully"})
}
