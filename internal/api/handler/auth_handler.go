package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicalunion/medical-union-api/internal/api/metrics"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Response
// @Failure      400   {object}  Response
// @Failure      500   {object}  Response
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, err.Error())
	}

	userID, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	metrics.RegistrationsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "registered", registerResponse{UserID: userID})
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		LoginName: req.LoginName,
		Password:  req.Password,
		LoginType: req.LoginType,
		UserType:  req.UserType,
	})
	metrics.LoginsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "login ok", res)
}

// Logout revokes the presented token for its remaining validity.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, err := ctxRawToken(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), raw); err != nil {
		return err
	}
	metrics.TokenRevocationsTotal.Inc()

	return Success(c, http.StatusOK, "logged out", nil)
}

// UserInfo returns the caller's profile.
//
// @Summary      Current user info
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/v1/auth/user/info [get]
func (h *AuthHandler) UserInfo(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	info, err := h.authService.UserInfo(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "ok", info)
}

// resultLabel collapses an operation's error into the metric label: "ok" for
// success, the kind's name otherwise.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err).String()
}
