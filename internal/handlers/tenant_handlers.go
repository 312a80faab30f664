package handlers

import (
	"net/http"
	"strings"

	"sally/internal/middleware"
	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant registration and the approval workflow
type TenantHandlers struct {
	tenantService services.TenantService
}

// NewTenantHandlers creates a new tenant handlers instance
func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// Register creates a pending tenant and its inactive owner account.
func (h *TenantHandlers) Register(c echo.Context) error {
	var req services.RegisterTenantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tenant, owner, err := h.tenantService.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"tenant":  tenant,
		"user":    owner,
		"message": "Registration received. You will be notified by email once your account is approved.",
	})
}

// CheckSubdomain reports whether a subdomain can still be registered.
func (h *TenantHandlers) CheckSubdomain(c echo.Context) error {
	subdomain := services.NormalizeSubdomain(c.Param("subdomain"))

	available, err := h.tenantService.CheckSubdomainAvailability(c.Request().Context(), subdomain)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subdomain": subdomain,
		"available": available,
	})
}

// ListTenants handles getting a list of tenants, optionally filtered by status
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	limit, offset := pagination(c)

	var status *models.TenantStatus
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		ts := models.TenantStatus(s)
		status = &ts
	}

	tenants, err := h.tenantService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetTenant handles getting a tenant by its external ID
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tenant, err := h.tenantService.GetByTenantID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// ApproveTenant activates a pending tenant and its admins.
func (h *TenantHandlers) ApproveTenant(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	tenant, err := h.tenantService.Approve(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// RejectTenant rejects a pending tenant with a reason.
func (h *TenantHandlers) RejectTenant(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	var req services.RejectTenantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tenant, err := h.tenantService.Reject(c.Request().Context(), c.Param("id"), req.Reason, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// TenantAuditLogs lists the audit trail of one tenant, newest first.
func (h *TenantHandlers) TenantAuditLogs(c echo.Context) error {
	limit, offset := pagination(c)

	logs, err := h.tenantService.AuditLogs(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}
