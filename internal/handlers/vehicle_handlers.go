package handlers

import (
	"net/http"

	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// VehicleHandlers handles fleet vehicle requests
type VehicleHandlers struct {
	vehicleService services.VehicleService
}

func NewVehicleHandlers(vehicleService services.VehicleService) *VehicleHandlers {
	return &VehicleHandlers{vehicleService: vehicleService}
}

func (h *VehicleHandlers) ListVehicles(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	vehicles, err := h.vehicleService.List(c.Request().Context(), identity.TenantDBID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *VehicleHandlers) GetVehicle(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Get(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandlers) CreateVehicle(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.CreateVehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Create(c.Request().Context(), identity.TenantDBID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandlers) UpdateVehicle(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.UpdateVehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Update(c.Request().Context(), identity.TenantDBID, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandlers) DeleteVehicle(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	if err := h.vehicleService.Delete(c.Request().Context(), identity.TenantDBID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
