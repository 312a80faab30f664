package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const streamHeartbeat = 25 * time.Second

// AlertSubscriber is satisfied by caching.AlertBroker.
type AlertSubscriber interface {
	Subscribe(ctx context.Context, tenantID string) (<-chan []byte, error)
}

// AlertHandlers handles alert CRUD and the live alert stream
type AlertHandlers struct {
	alertService services.AlertService
	subscriber   AlertSubscriber
	log          *zap.Logger
}

// NewAlertHandlers creates a new alert handlers instance
func NewAlertHandlers(alertService services.AlertService, subscriber AlertSubscriber, log *zap.Logger) *AlertHandlers {
	return &AlertHandlers{
		alertService: alertService,
		subscriber:   subscriber,
		log:          log.Named("alert-stream"),
	}
}

// ListAlerts handles listing alerts with optional status, priority, driver and vehicle filters
func (h *AlertHandlers) ListAlerts(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	filters := models.AlertFilters{Limit: limit, Offset: offset}
	if s := strings.ToUpper(c.QueryParam("status")); s != "" {
		status := models.AlertStatus(s)
		filters.Status = &status
	}
	if p := strings.ToUpper(c.QueryParam("priority")); p != "" {
		priority := models.AlertPriority(p)
		filters.Priority = &priority
	}
	if d := c.QueryParam("driver_id"); d != "" {
		filters.DriverID = &d
	}
	if v := c.QueryParam("vehicle_id"); v != "" {
		filters.VehicleID = &v
	}

	alerts, err := h.alertService.List(c.Request().Context(), identity.TenantDBID, filters)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetAlert handles getting a single alert
func (h *AlertHandlers) GetAlert(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	alert, err := h.alertService.Get(c.Request().Context(), identity.TenantDBID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// CreateAlert handles raising a new alert
func (h *AlertHandlers) CreateAlert(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	var req services.CreateAlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	alert, err := h.alertService.Create(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, alert)
}

// AcknowledgeAlert handles acknowledging an alert
func (h *AlertHandlers) AcknowledgeAlert(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	alert, err := h.alertService.Acknowledge(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// ResolveAlert handles resolving an alert
func (h *AlertHandlers) ResolveAlert(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	alert, err := h.alertService.Resolve(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// StreamAlerts holds the connection open and writes tenant alert events as
// server-sent events until the client goes away.
func (h *AlertHandlers) StreamAlerts(c echo.Context) error {
	identity, err := tenantIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	events, err := h.subscriber.Subscribe(ctx, identity.TenantID)
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return nil
	}
	w.Flush()

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case data, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "event: alert\ndata: %s\n\n", data); err != nil {
				h.log.Debug("stream client went away", zap.String("user_id", identity.UserID), zap.Error(err))
				return nil
			}
			w.Flush()
		}
	}
}
