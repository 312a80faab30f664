package repositories

import (
	"context"
	"fmt"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	GetByTenantID(ctx context.Context, tenantID string) (*models.Tenant, error)
	GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*models.Tenant, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	Approve(ctx context.Context, id int64, approvedBy string, at time.Time) error
	Reject(ctx context.Context, id int64, reason string, at time.Time) error
	List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error)
}

const tenantColumns = `id, tenant_id, company_name, subdomain, dot_number, fleet_size, contact_email,
		contact_phone, status, is_active, approved_at, approved_by, rejected_at, rejection_reason,
		created_at, updated_at`

type tenantRepo struct {
	db database.DB
}

func NewTenantRepo(db database.DB) TenantRepository {
	return &tenantRepo{db: db}
}

func scanTenant(row scanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.TenantID, &t.CompanyName, &t.Subdomain, &t.DOTNumber, &t.FleetSize,
		&t.ContactEmail, &t.ContactPhone, &t.Status, &t.IsActive, &t.ApprovedAt, &t.ApprovedBy,
		&t.RejectedAt, &t.RejectionReason, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (tenant_id, company_name, subdomain, dot_number, fleet_size, contact_email,
			contact_phone, status, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		tenant.TenantID, tenant.CompanyName, tenant.Subdomain, tenant.DOTNumber, tenant.FleetSize,
		tenant.ContactEmail, tenant.ContactPhone, tenant.Status, tenant.IsActive,
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("Subdomain '%s' is already taken", tenant.Subdomain)
	}
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, common.NotFound("Tenant not found")
	}
	return t, err
}

func (r *tenantRepo) GetByTenantID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1`
	t, err := scanTenant(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID))
	if isNoRows(err) {
		return nil, common.NotFound("Tenant %s not found", tenantID)
	}
	return t, err
}

// GetByTenantIDForUpdate locks the row until the surrounding transaction ends.
func (r *tenantRepo) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1 FOR UPDATE`
	t, err := scanTenant(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID))
	if isNoRows(err) {
		return nil, common.NotFound("Tenant %s not found", tenantID)
	}
	return t, err
}

func (r *tenantRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE LOWER(subdomain) = LOWER($1))`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, subdomain).Scan(&exists)
	return exists, err
}

func (r *tenantRepo) Approve(ctx context.Context, id int64, approvedBy string, at time.Time) error {
	query := `
		UPDATE tenants
		SET status = $1, is_active = true, approved_at = $2, approved_by = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, models.TenantStatusActive, at, approvedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Tenant not found")
	}
	return nil
}

func (r *tenantRepo) Reject(ctx context.Context, id int64, reason string, at time.Time) error {
	query := `
		UPDATE tenants
		SET status = $1, is_active = false, rejected_at = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, models.TenantStatusRejected, at, reason, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Tenant not found")
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants`
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []*models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}
