package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// messageResponse is the envelope for client-side failures.
type messageResponse struct {
	Msg string `json:"msg"`
}

// faultResponse is the envelope for server-side failures.
type faultResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusByError maps sentinel errors to their status. The sentinel's own
// message is what the client sees.
var statusByError = []struct {
	err  error
	code int
}{
	{domain.ErrTokenMissing, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrTokenInvalidSignature, http.StatusUnauthorized},
	{domain.ErrTokenMalformed, http.StatusUnauthorized},
	{domain.ErrSubjectNotFound, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrWebsiteNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrRoleNotFound, http.StatusNotFound},
	{domain.ErrDuplicateEmail, http.StatusBadRequest},
	{domain.ErrUnknownRole, http.StatusBadRequest},
	{domain.ErrRoleExists, http.StatusBadRequest},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes with a {"msg"} body.
//   - Reports generation failures as retryable 500s.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, faultResponse{Error: http.StatusText(he.Code), Message: fmt.Sprintf("%v", he.Message)}
		}
		return he.Code, messageResponse{Msg: fmt.Sprintf("%v", he.Message)}
	}

	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest, messageResponse{Msg: err.Error()}
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.code, messageResponse{Msg: m.err.Error()}
		}
	}

	if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrMalformedResponse) {
		log.Warn().
			Err(err).
			Str("path", c.Path()).
			Msg("content generation failed")
		return http.StatusInternalServerError, faultResponse{
			Error:   "Content generation failed",
			Message: "The content generator could not produce a website. Please try again.",
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, faultResponse{
		Error:   "Internal server error",
		Message: "An unexpected error occurred.",
	}
}
