package models

import "time"

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusOnDuty    DriverStatus = "ON_DUTY"
	DriverStatusDriving   DriverStatus = "DRIVING"
	DriverStatusOffDuty   DriverStatus = "OFF_DUTY"
	DriverStatusSleeper   DriverStatus = "SLEEPER"
)

type Driver struct {
	ID             int64        `json:"-" db:"id"`
	DriverID       string       `json:"driver_id" db:"driver_id"`
	TenantID       int64        `json:"-" db:"tenant_id"`
	Name           string       `json:"name" db:"name"`
	LicenseNumber  *string      `json:"license_number" db:"license_number"`
	LicenseState   *string      `json:"license_state" db:"license_state"`
	Phone          *string      `json:"phone" db:"phone"`
	Email          *string      `json:"email" db:"email"`
	Status         DriverStatus `json:"status" db:"status"`
	ExternalSource *string      `json:"external_source" db:"external_source"`
	ExternalID     *string      `json:"external_id" db:"external_id"`
	LastSyncedAt   *time.Time   `json:"last_synced_at" db:"last_synced_at"`
	IsActive       bool         `json:"is_active" db:"is_active"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// ReadOnly reports whether the record is owned by an integration sync.
func (d *Driver) ReadOnly() bool {
	return d.ExternalSource != nil && *d.ExternalSource != ""
}
