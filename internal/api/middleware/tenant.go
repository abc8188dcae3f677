package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// HeaderClientID selects the tenant of a request.
const HeaderClientID = "x-client-id"

// AccessChecker answers whether a user may act on a client.
type AccessChecker interface {
	HasAccess(ctx context.Context, email, clientID string) (bool, error)
}

// Principal is the resolved caller of a request.
type Principal struct {
	UserID        string
	Email         string
	Role          string
	AgencyID      string
	ClientID      string
	Authenticated bool
}

// PrincipalFrom reads what Auth and Tenant stored on c.
func PrincipalFrom(c echo.Context) Principal {
	get := func(key string) string {
		v, _ := c.Get(key).(string)
		return v
	}
	authenticated, _ := c.Get(keyAuthenticated).(bool)
	return Principal{
		UserID:        get(KeyUserID),
		Email:         get(KeyEmail),
		Role:          get(KeyRole),
		AgencyID:      get(KeyAgencyID),
		ClientID:      get(KeyClientID),
		Authenticated: authenticated,
	}
}

// Identity fills in the default user email for unauthenticated requests.
// Must run after Auth.
func Identity(defaultEmail string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if email, _ := c.Get(KeyEmail).(string); email == "" {
				c.Set(KeyEmail, defaultEmail)
			}
			return next(c)
		}
	}
}

// Tenant resolves the client id from the x-client-id header, falling back to
// defaultClientID. An empty defaultClientID makes the header mandatory.
// Authenticated callers other than super admins must hold an access row on
// that client. Must run after Auth and Identity.
func Tenant(defaultClientID string, checker AccessChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := strings.TrimSpace(c.Request().Header.Get(HeaderClientID))
			if clientID == "" {
				clientID = defaultClientID
			}
			if clientID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "Client ID is required")
			}
			c.Set(KeyClientID, clientID)

			p := PrincipalFrom(c)
			if !p.Authenticated || p.Role == domain.RoleSuperAdmin {
				return next(c)
			}

			ok, err := checker.HasAccess(c.Request().Context(), p.Email, clientID)
			if err != nil {
				return err
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access to client denied")
			}
			return next(c)
		}
	}
}
