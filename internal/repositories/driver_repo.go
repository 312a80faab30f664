package repositories

import (
	"context"
	"fmt"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type DriverRepository interface {
	List(ctx context.Context, tenantID int64, status *models.DriverStatus, limit, offset int) ([]*models.Driver, error)
	GetByDriverID(ctx context.Context, tenantID int64, driverID string) (*models.Driver, error)
	Create(ctx context.Context, driver *models.Driver) error
	Update(ctx context.Context, driver *models.Driver) error
	SoftDelete(ctx context.Context, tenantID int64, driverID string) error
	UpsertExternal(ctx context.Context, driver *models.Driver) error
}

const driverColumns = `id, driver_id, tenant_id, name, license_number, license_state, phone, email, status,
		external_source, external_id, last_synced_at, is_active, created_at, updated_at`

type driverRepo struct {
	db database.DB
}

func NewDriverRepo(db database.DB) DriverRepository {
	return &driverRepo{db: db}
}

func scanDriver(row scanner) (*models.Driver, error) {
	d := &models.Driver{}
	err := row.Scan(&d.ID, &d.DriverID, &d.TenantID, &d.Name, &d.LicenseNumber, &d.LicenseState, &d.Phone,
		&d.Email, &d.Status, &d.ExternalSource, &d.ExternalID, &d.LastSyncedAt, &d.IsActive,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) List(ctx context.Context, tenantID int64, status *models.DriverStatus, limit, offset int) ([]*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE tenant_id = $1 AND is_active = true`
	args := []any{tenantID}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []*models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) GetByDriverID(ctx context.Context, tenantID int64, driverID string) (*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE tenant_id = $1 AND driver_id = $2 AND is_active = true`
	d, err := scanDriver(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, driverID))
	if isNoRows(err) {
		return nil, common.NotFound("Driver %s not found", driverID)
	}
	return d, err
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) error {
	query := `
		INSERT INTO drivers (driver_id, tenant_id, name, license_number, license_state, phone, email, status,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		d.DriverID, d.TenantID, d.Name, d.LicenseNumber, d.LicenseState, d.Phone, d.Email, d.Status,
	).Scan(&d.ID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("Driver with ID %s already exists", d.DriverID)
	}
	return err
}

func (r *driverRepo) Update(ctx context.Context, d *models.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, license_number = $2, license_state = $3, phone = $4, email = $5, status = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND driver_id = $8 AND external_source IS NULL
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		d.Name, d.LicenseNumber, d.LicenseState, d.Phone, d.Email, d.Status, d.TenantID, d.DriverID,
	).Scan(&d.UpdatedAt)
	if isNoRows(err) {
		return common.NotFound("Driver %s not found", d.DriverID)
	}
	return err
}

func (r *driverRepo) SoftDelete(ctx context.Context, tenantID int64, driverID string) error {
	query := `
		UPDATE drivers SET is_active = false, updated_at = NOW()
		WHERE tenant_id = $1 AND driver_id = $2 AND external_source IS NULL
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, tenantID, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Driver %s not found", driverID)
	}
	return nil
}

// UpsertExternal inserts or refreshes a driver owned by an integration.
func (r *driverRepo) UpsertExternal(ctx context.Context, d *models.Driver) error {
	query := `
		INSERT INTO drivers (driver_id, tenant_id, name, license_number, license_state, phone, email, status,
			external_source, external_id, last_synced_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), true, NOW(), NOW())
		ON CONFLICT (tenant_id, driver_id) DO UPDATE
		SET name = EXCLUDED.name, license_number = EXCLUDED.license_number, license_state = EXCLUDED.license_state,
			phone = EXCLUDED.phone, email = EXCLUDED.email, status = EXCLUDED.status,
			external_source = EXCLUDED.external_source, external_id = EXCLUDED.external_id,
			last_synced_at = NOW(), is_active = true, updated_at = NOW()
	`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		d.DriverID, d.TenantID, d.Name, d.LicenseNumber, d.LicenseState, d.Phone, d.Email, d.Status,
		d.ExternalSource, d.ExternalID,
	)
	return err
}
