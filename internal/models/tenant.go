package models

import "time"

type TenantStatus string

const (
	TenantStatusPendingApproval TenantStatus = "PENDING_APPROVAL"
	TenantStatusActive          TenantStatus = "ACTIVE"
	TenantStatusRejected        TenantStatus = "REJECTED"
)

// Tenant is a fleet company. ID is internal; TenantID is the external identifier.
type Tenant struct {
	ID              int64        `json:"-" db:"id"`
	TenantID        string       `json:"tenant_id" db:"tenant_id"`
	CompanyName     string       `json:"company_name" db:"company_name"`
	Subdomain       string       `json:"subdomain" db:"subdomain"`
	DOTNumber       *string      `json:"dot_number" db:"dot_number"`
	FleetSize       *string      `json:"fleet_size" db:"fleet_size"`
	ContactEmail    string       `json:"contact_email" db:"contact_email"`
	ContactPhone    *string      `json:"contact_phone" db:"contact_phone"`
	Status          TenantStatus `json:"status" db:"status"`
	IsActive        bool         `json:"is_active" db:"is_active"`
	ApprovedAt      *time.Time   `json:"approved_at" db:"approved_at"`
	ApprovedBy      *string      `json:"approved_by" db:"approved_by"`
	RejectedAt      *time.Time   `json:"rejected_at" db:"rejected_at"`
	RejectionReason *string      `json:"rejection_reason" db:"rejection_reason"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}
