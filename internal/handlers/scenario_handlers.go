package handlers

import (
	"net/http"

	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// ScenarioHandlers handles saved what-if scenarios
type ScenarioHandlers struct {
	scenarioService services.ScenarioService
}

func NewScenarioHandlers(scenarioService services.ScenarioService) *ScenarioHandlers {
	return &ScenarioHandlers{scenarioService: scenarioService}
}

func (h *ScenarioHandlers) ListScenarios(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	scenarios, err := h.scenarioService.List(c.Request().Context(), identity.TenantDBID, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scenarios": scenarios})
}

func (h *ScenarioHandlers) GetScenario(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	scenario, err := h.scenarioService.Get(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scenario)
}

func (h *ScenarioHandlers) CreateScenario(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.CreateScenarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	scenario, err := h.scenarioService.Create(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, scenario)
}

func (h *ScenarioHandlers) DeleteScenario(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	if err := h.scenarioService.Delete(c.Request().Context(), identity.TenantDBID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
