package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/api/middleware"
)

// principal returns the caller resolved by the Auth, Identity and Tenant
// middleware. It fails fast when the chain did not run.
func principal(c echo.Context) (middleware.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p.Email == "" {
		return p, echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	}
	return p, nil
}

// tenant is principal plus a non-empty client id.
func tenant(c echo.Context) (middleware.Principal, error) {
	p, err := principal(c)
	if err != nil {
		return p, err
	}
	if p.ClientID == "" {
		return p, echo.NewHTTPError(http.StatusBadRequest, "Client ID is required")
	}
	return p, nil
}
