package handlers

import (
	"net/http"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// LoadHandlers handles load dispatch and load document requests
type LoadHandlers struct {
	loadService services.LoadService
}

// NewLoadHandlers creates a new load handlers instance
func NewLoadHandlers(loadService services.LoadService) *LoadHandlers {
	return &LoadHandlers{loadService: loadService}
}

// ListLoads handles listing loads, optionally filtered by status
func (h *LoadHandlers) ListLoads(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	var status *models.LoadStatus
	if s := strings.ToUpper(c.QueryParam("status")); s != "" {
		ls := models.LoadStatus(s)
		status = &ls
	}

	loads, err := h.loadService.List(c.Request().Context(), identity.TenantDBID, status, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"loads":  loads,
		"limit":  limit,
		"offset": offset,
	})
}

// GetLoad handles getting a load by ID
func (h *LoadHandlers) GetLoad(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	load, err := h.loadService.Get(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, load)
}

// CreateLoad handles creating a pending load
func (h *LoadHandlers) CreateLoad(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.CreateLoadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	load, err := h.loadService.Create(c.Request().Context(), identity.TenantDBID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, load)
}

// UpdateLoadStatus handles moving a load through its lifecycle
func (h *LoadHandlers) UpdateLoadStatus(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.UpdateLoadStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	load, err := h.loadService.UpdateStatus(c.Request().Context(), identity.TenantDBID, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, load)
}

// AssignLoad handles setting the driver and vehicle of a load
func (h *LoadHandlers) AssignLoad(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.AssignLoadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	load, err := h.loadService.Assign(c.Request().Context(), identity.TenantDBID, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, load)
}

// UploadDocument accepts a multipart "file" field and stores it against the load.
func (h *LoadHandlers) UploadDocument(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.Validation("file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.Validation("unable to read uploaded file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.loadService.UploadDocument(c.Request().Context(), identity.TenantDBID, c.Param("id"), services.DocumentUpload{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Reader:      src,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles listing a load's documents with download links
func (h *LoadHandlers) ListDocuments(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.loadService.ListDocuments(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"documents": docs})
}
