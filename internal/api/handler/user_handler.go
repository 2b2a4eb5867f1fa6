package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the caller's profile.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/v1/user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	info, err := h.userService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "ok", info)
}

// UpdateProfile updates the caller's mutable profile fields.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Router       /api/v1/user/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, err.Error())
	}

	if err := h.userService.UpdateProfile(c.Request().Context(), userID, ports.UpdateProfileInput{
		Name:     req.Name,
		IDNumber: req.IDNumber,
		Phone:    req.Phone,
	}); err != nil {
		return err
	}

	return Success(c, http.StatusOK, "updated", nil)
}

// ChangePassword verifies the old password and installs a new one. Tokens
// issued before the change stay valid until their own expiry.
//
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Router       /api/v1/user/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewError(domain.KindInvalidInput, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return Success(c, http.StatusOK, "password changed", nil)
}

// GetUser returns any user's profile; the route is gated to ADMIN by RBAC.
//
// @Summary      Get a user by id (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Failure      403  {object}  Response
// @Router       /api/v1/admin/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.NewError(domain.KindInvalidInput, "id must be a positive integer")
	}

	info, err := h.userService.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "ok", info)
}
