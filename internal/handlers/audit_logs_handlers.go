package handlers

import (
	"net/http"

	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit log requests for the caller's own tenant
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditLogsService: auditLogsService}
}

// ListAuditLogs retrieves the tenant's audit trail with pagination
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	logs, err := h.auditLogsService.ListAuditLogs(c.Request().Context(), identity.TenantDBID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}
