package middleware

import (
	"sally/internal/common"
	"sally/internal/models"

	"github.com/labstack/echo/v4"
)

var (
	SuperAdminOnly = []models.UserRole{models.RoleSuperAdmin}
	TenantAdmins   = []models.UserRole{models.RoleOwner, models.RoleAdmin}
	DispatchStaff  = []models.UserRole{models.RoleOwner, models.RoleAdmin, models.RoleDispatcher}
)

// RequireRoles rejects callers whose role is not listed. SUPER_ADMIN does not
// bypass tenant roles: it has no tenant to act in.
func RequireRoles(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := GetIdentity(c)
			if err != nil {
				return err
			}
			if !identity.HasRole(roles...) {
				return common.Forbidden("Insufficient permissions")
			}
			return next(c)
		}
	}
}
