package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/pkg/logger"
)

// errorResponse is the error envelope of every JSON endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusFor maps a known domain error to an HTTP status and client message.
// ok is false for errors that must not be shown to callers.
func StatusFor(err error) (code int, msg string, ok bool) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg, true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid request", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "Client not found", true
	case errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound, "Template not found", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusForbidden, "invalid webhook signature", true
	case errors.Is(err, domain.ErrProviderNotConnected):
		return http.StatusUnprocessableEntity, "provider not connected", true
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream provider failure", true
	}
	return 0, "", false
}

// respondError writes the envelope for err. Unknown errors are logged and
// replaced by fallback.
func respondError(c echo.Context, err error, fallback string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return err
	}
	if code, msg, ok := StatusFor(err); ok {
		return c.JSON(code, errorResponse{Error: msg})
	}

	log := logger.FromEcho(c)
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg(fallback)

	return c.JSON(http.StatusInternalServerError, errorResponse{Error: fallback})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// serverError logs err and writes a 500 envelope carrying only msg.
func serverError(c echo.Context, err error, msg string) error {
	log := logger.FromEcho(c)
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
}
