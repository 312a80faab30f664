package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DriverHandlers handles driver roster requests
type DriverHandlers struct {
	driverService services.DriverService
}

// NewDriverHandlers creates a new driver handlers instance
func NewDriverHandlers(driverService services.DriverService) *DriverHandlers {
	return &DriverHandlers{driverService: driverService}
}

// ListDrivers handles listing drivers, optionally filtered by status
func (h *DriverHandlers) ListDrivers(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	var status *models.DriverStatus
	if s := strings.ToUpper(c.QueryParam("status")); s != "" {
		ds := models.DriverStatus(s)
		status = &ds
	}

	drivers, err := h.driverService.List(c.Request().Context(), identity.TenantDBID, status, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"drivers": drivers,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetDriver handles getting a driver by ID
func (h *DriverHandlers) GetDriver(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	driver, err := h.driverService.Get(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, driver)
}

// CreateDriver handles adding a driver to the roster
func (h *DriverHandlers) CreateDriver(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.DriverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	driver, err := h.driverService.Create(c.Request().Context(), identity.TenantDBID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, driver)
}

// UpdateDriver handles replacing a driver's details
func (h *DriverHandlers) UpdateDriver(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.DriverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	driver, err := h.driverService.Update(c.Request().Context(), identity.TenantDBID, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, driver)
}

// DeleteDriver handles removing a driver
func (h *DriverHandlers) DeleteDriver(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	if err := h.driverService.Delete(c.Request().Context(), identity.TenantDBID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportDrivers streams the whole roster as an XLSX workbook.
func (h *DriverHandlers) ExportDrivers(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.driverService.Export(c.Request().Context(), identity.TenantDBID)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("drivers-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
