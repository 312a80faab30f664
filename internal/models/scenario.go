package models

import "time"

// Scenario is a saved simulator template.
type Scenario struct {
	ID          int64     `json:"-" db:"id"`
	ScenarioID  string    `json:"scenario_id" db:"scenario_id"`
	TenantID    int64     `json:"-" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	DriverID    *string   `json:"driver_id" db:"driver_id"`
	VehicleID   *string   `json:"vehicle_id" db:"vehicle_id"`
	Parameters  JSONB     `json:"parameters" db:"parameters"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
