package handlers

import (
	"net/http"
	"strconv"

	"sally/internal/middleware"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers handles the caller's in-app notifications
type NotificationHandlers struct {
	notificationSvc services.NotificationService
}

// NewNotificationHandlers creates a new notification handlers instance
func NewNotificationHandlers(notificationSvc services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationSvc: notificationSvc}
}

// ListNotifications returns the caller's notifications, newest first.
// ?unread=true limits the result to unread ones.
func (h *NotificationHandlers) ListNotifications(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))

	notifications, err := h.notificationSvc.List(c.Request().Context(), identity.TenantDBID, identity.UserID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"limit":         limit,
		"offset":        offset,
	})
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	if err := h.notificationSvc.MarkRead(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead marks all of the caller's notifications as read
func (h *NotificationHandlers) MarkAllRead(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	updated, err := h.notificationSvc.MarkAllRead(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"updated": updated})
}
