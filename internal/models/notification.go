package models

import "time"

type NotificationType string

const (
	NotificationTypeAlert          NotificationType = "ALERT"
	NotificationTypeTenantApproved NotificationType = "TENANT_APPROVED"
	NotificationTypeSystem         NotificationType = "SYSTEM"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID             int64            `json:"-" db:"id"`
	NotificationID string           `json:"notification_id" db:"notification_id"`
	TenantID       int64            `json:"-" db:"tenant_id"`
	UserID         string           `json:"user_id" db:"user_id"`
	Type           NotificationType `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	IsRead         bool             `json:"is_read" db:"is_read"`
	ReadAt         *time.Time       `json:"read_at" db:"read_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
