package models

import (
	"time"
)

// JSONB represents PostgreSQL JSONB type
type JSONB map[string]interface{}

// AuditLog records a tenant lifecycle event
type AuditLog struct {
	ID          int64     `json:"-" db:"id"`
	TenantID    int64     `json:"-" db:"tenant_id"`
	ActorUserID *string   `json:"actor_user_id" db:"actor_user_id"`
	Action      string    `json:"action" db:"action"`
	Metadata    JSONB     `json:"metadata" db:"metadata"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionTenantRegistered = "TENANT_REGISTERED"
	ActionTenantApproved   = "TENANT_APPROVED"
	ActionTenantRejected   = "TENANT_REJECTED"
	ActionUserInvited      = "USER_INVITED"
	ActionUserDeactivated  = "USER_DEACTIVATED"
)
