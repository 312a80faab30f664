package models

import "time"

type IntegrationType string

const (
	IntegrationTypeELD     IntegrationType = "ELD"
	IntegrationTypeTMS     IntegrationType = "TMS"
	IntegrationTypeFuel    IntegrationType = "FUEL"
	IntegrationTypeWeather IntegrationType = "WEATHER"
)

type IntegrationStatus string

const (
	IntegrationStatusConfigured IntegrationStatus = "CONFIGURED"
	IntegrationStatusActive     IntegrationStatus = "ACTIVE"
	IntegrationStatusError      IntegrationStatus = "ERROR"
	IntegrationStatusDisabled   IntegrationStatus = "DISABLED"
)

type Integration struct {
	ID                   int64             `json:"-" db:"id"`
	IntegrationID        string            `json:"integration_id" db:"integration_id"`
	TenantID             int64             `json:"-" db:"tenant_id"`
	IntegrationType      IntegrationType   `json:"integration_type" db:"integration_type"`
	Vendor               string            `json:"vendor" db:"vendor"`
	DisplayName          string            `json:"display_name" db:"display_name"`
	BaseURL              string            `json:"base_url" db:"base_url"`
	EncryptedCredentials []byte            `json:"-" db:"encrypted_credentials"`
	Status               IntegrationStatus `json:"status" db:"status"`
	LastSyncAt           *time.Time        `json:"last_sync_at" db:"last_sync_at"`
	LastError            *string           `json:"last_error" db:"last_error"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

// SyncResult summarises one integration sync run.
type SyncResult struct {
	DriversSynced  int       `json:"drivers_synced"`
	VehiclesSynced int       `json:"vehicles_synced"`
	SyncedAt       time.Time `json:"synced_at"`
}
