package models

import "time"

type UserRole string

const (
	RoleOwner      UserRole = "OWNER"
	RoleAdmin      UserRole = "ADMIN"
	RoleDispatcher UserRole = "DISPATCHER"
	RoleDriver     UserRole = "DRIVER"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleDispatcher, RoleDriver, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID          int64      `json:"-" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	TenantID    int64      `json:"-" db:"tenant_id"`
	Email       string     `json:"email" db:"email"`
	FirebaseUID *string    `json:"-" db:"firebase_uid"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Role        UserRole   `json:"role" db:"role"`
	DriverID    *string    `json:"driver_id" db:"driver_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// UserWithTenant is the auth lookup row: a user joined with its tenant state.
type UserWithTenant struct {
	User
	TenantExternalID string       `db:"tenant_external_id"`
	TenantName       string       `db:"company_name"`
	TenantSubdomain  string       `db:"subdomain"`
	TenantStatus     TenantStatus `db:"tenant_status"`
	TenantIsActive   bool         `db:"tenant_is_active"`
}
