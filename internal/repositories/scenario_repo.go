package repositories

import (
	"context"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type ScenarioRepository interface {
	List(ctx context.Context, tenantID int64, category string) ([]*models.Scenario, error)
	GetByScenarioID(ctx context.Context, tenantID int64, scenarioID string) (*models.Scenario, error)
	Create(ctx context.Context, s *models.Scenario) error
	Delete(ctx context.Context, tenantID int64, scenarioID string) error
}

const scenarioColumns = `id, scenario_id, tenant_id, name, description, category, driver_id, vehicle_id,
		parameters, created_by, created_at, updated_at`

type scenarioRepo struct {
	db database.DB
}

func NewScenarioRepo(db database.DB) ScenarioRepository {
	return &scenarioRepo{db: db}
}

func scanScenario(row scanner) (*models.Scenario, error) {
	s := &models.Scenario{}
	err := row.Scan(&s.ID, &s.ScenarioID, &s.TenantID, &s.Name, &s.Description, &s.Category, &s.DriverID,
		&s.VehicleID, &s.Parameters, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *scenarioRepo) List(ctx context.Context, tenantID int64, category string) ([]*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE tenant_id = $1 AND ($2 = '' OR category = $2) ORDER BY name`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Scenario{}
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *scenarioRepo) GetByScenarioID(ctx context.Context, tenantID int64, scenarioID string) (*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE tenant_id = $1 AND scenario_id = $2`
	s, err := scanScenario(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, scenarioID))
	if isNoRows(err) {
		return nil, common.NotFound("Scenario %s not found", scenarioID)
	}
	return s, err
}

func (r *scenarioRepo) Create(ctx context.Context, s *models.Scenario) error {
	query := `
		INSERT INTO scenarios (scenario_id, tenant_id, name, description, category, driver_id, vehicle_id,
			parameters, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query,
		s.ScenarioID, s.TenantID, s.Name, s.Description, s.Category, s.DriverID, s.VehicleID,
		s.Parameters, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *scenarioRepo) Delete(ctx context.Context, tenantID int64, scenarioID string) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM scenarios WHERE tenant_id = $1 AND scenario_id = $2`, tenantID, scenarioID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Scenario %s not found", scenarioID)
	}
	return nil
}
