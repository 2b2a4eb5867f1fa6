package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/medicalunion/medical-union-api/internal/api/middleware"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty role proves the middleware
// ran, a positive user id proves the token named a subject.
func ctxIdentity(c echo.Context) (userID int64, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	userID, _ = c.Get(middleware.CtxUserID).(int64)
	if role == "" || userID <= 0 {
		return 0, "", domain.NewError(domain.KindUnauthorized, "missing authentication context")
	}
	return userID, role, nil
}

// ctxRawToken returns the bearer token the middleware validated.
func ctxRawToken(c echo.Context) (string, error) {
	raw, _ := c.Get(middleware.CtxRawToken).(string)
	if raw == "" {
		return "", domain.NewError(domain.KindUnauthorized, "missing authentication context")
	}
	return raw, nil
}
