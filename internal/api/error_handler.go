package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/api/handler"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps kind-carrying domain errors to their classified HTTP status and
//     numeric envelope code.
//   - Maps Echo's own errors (bind failures, 404 from the router) into the
//     same envelope.
//   - Logs infrastructure failures with full detail server-side while the
//     client only sees a generic message — never driver errors or stack text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, handler.Response{Code: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (status, code int, msg string) {
	var de *domain.Error
	if errors.As(err, &de) {
		kind := de.Kind
		if kind == domain.KindInfrastructure {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("infrastructure failure")
			return kind.HTTPStatus(), kind.Code(), "internal error"
		}
		return kind.HTTPStatus(), kind.Code(), de.Message
	}

	// Echo's own errors: bind failures, 404 from the router, 405, etc.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, statusToCode(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.CodeInfrastructure, "internal error"
}

// statusToCode maps transport-level failures that never pass through the
// domain taxonomy onto its nearest code.
func statusToCode(status int) int {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.CodeUnauthorized
	case status >= 400 && status < 500:
		return domain.CodeInvalidInput
	default:
		return domain.CodeInfrastructure
	}
}
