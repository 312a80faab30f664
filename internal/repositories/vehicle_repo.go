package repositories

import (
	"context"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type VehicleRepository interface {
	List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error)
	GetByVehicleID(ctx context.Context, tenantID int64, vehicleID string) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	SoftDelete(ctx context.Context, tenantID int64, vehicleID string) error
	UpsertExternal(ctx context.Context, vehicle *models.Vehicle) error
}

const vehicleColumns = `id, vehicle_id, tenant_id, unit_number, make, model, year, vin, fuel_capacity_gallons,
		current_fuel_gallons, mpg, status, external_source, external_id, last_synced_at, is_active,
		created_at, updated_at`

type vehicleRepo struct {
	db database.DB
}

func NewVehicleRepo(db database.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func scanVehicle(row scanner) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := row.Scan(&v.ID, &v.VehicleID, &v.TenantID, &v.UnitNumber, &v.Make, &v.Model, &v.Year, &v.VIN,
		&v.FuelCapacityGallons, &v.CurrentFuelGallons, &v.MPG, &v.Status, &v.ExternalSource, &v.ExternalID,
		&v.LastSyncedAt, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepo) List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE tenant_id = $1 AND is_active = true
		ORDER BY unit_number LIMIT $2 OFFSET $3`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepo) GetByVehicleID(ctx context.Context, tenantID int64, vehicleID string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE tenant_id = $1 AND vehicle_id = $2 AND is_active = true`
	v, err := scanVehicle(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, vehicleID))
	if isNoRows(err) {
		return nil, common.NotFound("Vehicle %s not found", vehicleID)
	}
	return v, err
}

func (r *vehicleRepo) Create(ctx context.Context, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (vehicle_id, tenant_id, unit_number, make, model, year, vin, fuel_capacity_gallons,
			current_fuel_gallons, mpg, status, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		v.VehicleID, v.TenantID, v.UnitNumber, v.Make, v.Model, v.Year, v.VIN, v.FuelCapacityGallons,
		v.CurrentFuelGallons, v.MPG, v.Status,
	).Scan(&v.ID, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("Vehicle with ID %s already exists", v.VehicleID)
	}
	return err
}

func (r *vehicleRepo) Update(ctx context.Context, v *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET unit_number = $1, make = $2, model = $3, year = $4, vin = $5, fuel_capacity_gallons = $6,
			current_fuel_gallons = $7, mpg = $8, status = $9, updated_at = NOW()
		WHERE tenant_id = $10 AND vehicle_id = $11 AND external_source IS NULL
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		v.UnitNumber, v.Make, v.Model, v.Year, v.VIN, v.FuelCapacityGallons, v.CurrentFuelGallons, v.MPG,
		v.Status, v.TenantID, v.VehicleID,
	).Scan(&v.UpdatedAt)
	if isNoRows(err) {
		return common.NotFound("Vehicle %s not found", v.VehicleID)
	}
	return err
}

func (r *vehicleRepo) SoftDelete(ctx context.Context, tenantID int64, vehicleID string) error {
	query := `
		UPDATE vehicles SET is_active = false, updated_at = NOW()
		WHERE tenant_id = $1 AND vehicle_id = $2 AND external_source IS NULL
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, tenantID, vehicleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Vehicle %s not found", vehicleID)
	}
	return nil
}

// UpsertExternal inserts or refreshes a vehicle owned by an integration,
// including the telematics fuel reading the low fuel scan relies on.
func (r *vehicleRepo) UpsertExternal(ctx context.Context, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (vehicle_id, tenant_id, unit_number, make, model, year, vin, fuel_capacity_gallons,
			current_fuel_gallons, mpg, status, external_source, external_id, last_synced_at, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), true, NOW(), NOW())
		ON CONFLICT (tenant_id, vehicle_id) DO UPDATE
		SET unit_number = EXCLUDED.unit_number, make = EXCLUDED.make, model = EXCLUDED.model, year = EXCLUDED.year,
			vin = EXCLUDED.vin, fuel_capacity_gallons = EXCLUDED.fuel_capacity_gallons,
			current_fuel_gallons = EXCLUDED.current_fuel_gallons, mpg = EXCLUDED.mpg, status = EXCLUDED.status,
			external_source = EXCLUDED.external_source, external_id = EXCLUDED.external_id,
			last_synced_at = NOW(), is_active = true, updated_at = NOW()
	`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		v.VehicleID, v.TenantID, v.UnitNumber, v.Make, v.Model, v.Year, v.VIN, v.FuelCapacityGallons,
		v.CurrentFuelGallons, v.MPG, v.Status, v.ExternalSource, v.ExternalID,
	)
	return err
}
