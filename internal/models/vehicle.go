package models

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusInUse       VehicleStatus = "IN_USE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
)

type Vehicle struct {
	ID                  int64         `json:"-" db:"id"`
	VehicleID           string        `json:"vehicle_id" db:"vehicle_id"`
	TenantID            int64         `json:"-" db:"tenant_id"`
	UnitNumber          string        `json:"unit_number" db:"unit_number"`
	Make                *string       `json:"make" db:"make"`
	Model               *string       `json:"model" db:"model"`
	Year                *int32        `json:"year" db:"year"`
	VIN                 *string       `json:"vin" db:"vin"`
	FuelCapacityGallons float64       `json:"fuel_capacity_gallons" db:"fuel_capacity_gallons"`
	CurrentFuelGallons  *float64      `json:"current_fuel_gallons" db:"current_fuel_gallons"`
	MPG                 *float64      `json:"mpg" db:"mpg"`
	Status              VehicleStatus `json:"status" db:"status"`
	ExternalSource      *string       `json:"external_source" db:"external_source"`
	ExternalID          *string       `json:"external_id" db:"external_id"`
	LastSyncedAt        *time.Time    `json:"last_synced_at" db:"last_synced_at"`
	IsActive            bool          `json:"is_active" db:"is_active"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// ReadOnly reports whether the record is owned by an integration sync.
func (v *Vehicle) ReadOnly() bool {
	return v.ExternalSource != nil && *v.ExternalSource != ""
}
