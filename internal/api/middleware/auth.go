package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by Auth and Tenant.
const (
	KeyUserID   = "user_id"
	KeyEmail    = "email"
	KeyRole     = "role"
	KeyAgencyID = "agency_id"
	KeyClientID = "client_id"

	keyAuthenticated = "authenticated"
)

// Auth validates a bearer JWT and copies its claims into the echo context.
// When required is false a request without an Authorization header passes
// through unauthenticated; a malformed or invalid token is always rejected.
func Auth(jwtSecret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			email := stringClaim(claims, "email")
			if email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing email")
			}

			c.Set(keyAuthenticated, true)
			c.Set(KeyUserID, stringClaim(claims, "sub"))
			c.Set(KeyEmail, email)
			c.Set(KeyRole, stringClaim(claims, "role"))
			c.Set(KeyAgencyID, stringClaim(claims, "agency_id"))

			return next(c)
		}
	}
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
