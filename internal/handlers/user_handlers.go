package handlers

import (
	"net/http"

	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles tenant user management
type UserHandlers struct {
	userService services.UserService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// ListUsers handles listing the users of the caller's tenant
func (h *UserHandlers) ListUsers(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), identity.TenantDBID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// InviteUser creates an active user who links their Firebase account on first login.
func (h *UserHandlers) InviteUser(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.InviteUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Invite(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// DeactivateUser disables a user and revokes their sessions
func (h *UserHandlers) DeactivateUser(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	if err := h.userService.Deactivate(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}
