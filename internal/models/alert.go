package models

import "time"

type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "LOW"
	AlertPriorityMedium   AlertPriority = "MEDIUM"
	AlertPriorityHigh     AlertPriority = "HIGH"
	AlertPriorityCritical AlertPriority = "CRITICAL"
)

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

type Alert struct {
	ID             int64         `json:"-" db:"id"`
	AlertID        string        `json:"alert_id" db:"alert_id"`
	TenantID       int64         `json:"-" db:"tenant_id"`
	AlertType      string        `json:"alert_type" db:"alert_type"`
	Category       string        `json:"category" db:"category"`
	Priority       AlertPriority `json:"priority" db:"priority"`
	Title          string        `json:"title" db:"title"`
	Message        string        `json:"message" db:"message"`
	DriverID       *string       `json:"driver_id" db:"driver_id"`
	VehicleID      *string       `json:"vehicle_id" db:"vehicle_id"`
	Status         AlertStatus   `json:"status" db:"status"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at" db:"acknowledged_at"`
	AcknowledgedBy *string       `json:"acknowledged_by" db:"acknowledged_by"`
	ResolvedAt     *time.Time    `json:"resolved_at" db:"resolved_at"`
	ResolvedBy     *string       `json:"resolved_by" db:"resolved_by"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

type AlertFilters struct {
	Status     *AlertStatus
	Priority   *AlertPriority
	DriverID   *string
	VehicleID  *string
	AlertType  *string
	Unresolved bool // excludes RESOLVED; ignored when Status is set
	Limit      int
	Offset     int
}
