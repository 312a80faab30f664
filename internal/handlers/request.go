package handlers

import (
	"sally/internal/common"
	"sally/internal/middleware"

	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request body into req and runs the struct
// validator registered on the echo instance.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.Validation("Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// pagination reads limit/offset query parameters.
func pagination(c echo.Context) (int, int) {
	return common.ValidatePaginationParams(c.QueryParam("limit"), c.QueryParam("offset"))
}

// tenantIdentity returns the caller and rejects principals without a tenant.
func tenantIdentity(c echo.Context) (*common.Identity, error) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return nil, err
	}
	if identity.TenantDBID == 0 {
		return nil, common.Forbidden("No tenant associated with this account")
	}
	return identity, nil
}
