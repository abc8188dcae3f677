package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/api/middleware"
	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

// AuthHandler issues hub accounts and bearer tokens.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=super_admin agency_admin client_admin technician viewer"`
	AgencyID string `json:"agencyId"`
}

// input attaches the caller as inviter when a valid bearer token came with
// the request; the service decides what that caller may grant.
func (r registerRequest) input(caller middleware.Principal) ports.RegisterInput {
	in := ports.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		AgencyID: r.AgencyID,
	}
	if caller.Authenticated {
		in.Inviter = &ports.Inviter{Role: caller.Role, AgencyID: caller.AgencyID}
	}
	return in
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse carries the account and, on login, its token.
type sessionResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// Register
//
// @Summary      Create a hub account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	const failed = "Failed to register user"

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, failed)
	}

	user, err := h.auth.Register(c.Request().Context(), req.input(middleware.PrincipalFrom(c)))
	if err != nil {
		return respondError(c, err, failed)
	}
	return c.JSON(http.StatusCreated, sessionResponse{Success: true, User: user})
}

// Login
//
// @Summary      Exchange credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	const failed = "Failed to log in"

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, failed)
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		// same answer as a wrong password
		return respondError(c, domain.ErrInvalidCredentials, failed)
	case err != nil:
		return respondError(c, err, failed)
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true, Token: token, User: user})
}
