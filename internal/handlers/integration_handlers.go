package handlers

import (
	"net/http"

	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// IntegrationHandlers handles third-party vendor integrations
type IntegrationHandlers struct {
	integrationService services.IntegrationService
}

func NewIntegrationHandlers(integrationService services.IntegrationService) *IntegrationHandlers {
	return &IntegrationHandlers{integrationService: integrationService}
}

func (h *IntegrationHandlers) ListIntegrations(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	integrations, err := h.integrationService.List(c.Request().Context(), identity.TenantDBID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"integrations": integrations})
}

func (h *IntegrationHandlers) CreateIntegration(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.CreateIntegrationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	integration, err := h.integrationService.Create(c.Request().Context(), identity.TenantDBID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, integration)
}

func (h *IntegrationHandlers) DeleteIntegration(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	if err := h.integrationService.Delete(c.Request().Context(), identity.TenantDBID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TestConnection pings the vendor and records the outcome on the integration.
func (h *IntegrationHandlers) TestConnection(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	integration, err := h.integrationService.TestConnection(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, integration)
}

// Sync pulls drivers and vehicles from an ELD vendor.
func (h *IntegrationHandlers) Sync(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.integrationService.Sync(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
