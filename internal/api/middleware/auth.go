package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medicalunion/medical-union-api/internal/api/metrics"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
	"github.com/medicalunion/medical-union-api/internal/core/token"
)

// Context keys the middleware populates for downstream handlers. The values
// live only for the request; nothing is cached across requests.
const (
	CtxUserID   = "userId"
	CtxRole     = "role"
	CtxTokenID  = "tokenId"
	CtxRawToken = "token"
)

// Auth validates the bearer token and injects the caller's identity into the
// request context.
//
// Pre-flight OPTIONS requests pass through unauthenticated. Every failure —
// missing header, malformed header, bad signature, expiry, revocation — is
// rendered identically to the client so responses reveal nothing about why a
// token was rejected.
func Auth(issuer *token.Issuer, revoker ports.TokenRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return unauthorized()
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return unauthorized()
			}

			if revoker != nil && claims.TokenID != "" {
				revoked, err := revoker.IsRevoked(c.Request().Context(), claims.TokenID)
				if err != nil {
					// The deny-list is unreachable; failing open would honor
					// revoked tokens, so the request fails as infrastructure.
					return domain.NewError(domain.KindInfrastructure, "revocation check failed")
				}
				if revoked {
					metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
					return unauthorized()
				}
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxTokenID, claims.TokenID)
			c.Set(CtxRawToken, raw)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized() error {
	return domain.NewError(domain.KindUnauthorized, "unauthorized")
}
