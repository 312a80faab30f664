package repositories

import (
	"context"
	"fmt"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type AlertRepository interface {
	List(ctx context.Context, tenantID int64, filters models.AlertFilters) ([]*models.Alert, error)
	GetByAlertID(ctx context.Context, tenantID int64, alertID string) (*models.Alert, error)
	Create(ctx context.Context, alert *models.Alert) error
	Acknowledge(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error)
	Resolve(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error)
}

const alertColumns = `id, alert_id, tenant_id, alert_type, category, priority, title, message, driver_id,
		vehicle_id, status, acknowledged_at, acknowledged_by, resolved_at, resolved_by, created_at, updated_at`

type alertRepo struct {
	db database.DB
}

func NewAlertRepo(db database.DB) AlertRepository {
	return &alertRepo{db: db}
}

func scanAlert(row scanner) (*models.Alert, error) {
	a := &models.Alert{}
	err := row.Scan(&a.ID, &a.AlertID, &a.TenantID, &a.AlertType, &a.Category, &a.Priority, &a.Title,
		&a.Message, &a.DriverID, &a.VehicleID, &a.Status, &a.AcknowledgedAt, &a.AcknowledgedBy,
		&a.ResolvedAt, &a.ResolvedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *alertRepo) List(ctx context.Context, tenantID int64, f models.AlertFilters) ([]*models.Alert, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if f.Status != nil {
		args = append(args, *f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	} else if f.Unresolved {
		args = append(args, models.AlertStatusResolved)
		conditions = append(conditions, fmt.Sprintf("status <> $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if f.VehicleID != nil {
		args = append(args, *f.VehicleID)
		conditions = append(conditions, fmt.Sprintf("vehicle_id = $%d", len(args)))
	}
	if f.AlertType != nil {
		args = append(args, *f.AlertType)
		conditions = append(conditions, fmt.Sprintf("alert_type = $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		alertColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []*models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *alertRepo) GetByAlertID(ctx context.Context, tenantID int64, alertID string) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE tenant_id = $1 AND alert_id = $2`
	a, err := scanAlert(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, alertID))
	if isNoRows(err) {
		return nil, common.NotFound("Alert %s not found", alertID)
	}
	return a, err
}

func (r *alertRepo) Create(ctx context.Context, a *models.Alert) error {
	query := `
		INSERT INTO alerts (alert_id, tenant_id, alert_type, category, priority, title, message, driver_id,
			vehicle_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query,
		a.AlertID, a.TenantID, a.AlertType, a.Category, a.Priority, a.Title, a.Message, a.DriverID,
		a.VehicleID, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Acknowledge only applies to ACTIVE alerts.
func (r *alertRepo) Acknowledge(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error) {
	query := `
		UPDATE alerts
		SET status = $1, acknowledged_at = NOW(), acknowledged_by = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND alert_id = $4 AND status = $5
		RETURNING ` + alertColumns
	a, err := scanAlert(database.Conn(ctx, r.db).QueryRow(ctx, query,
		models.AlertStatusAcknowledged, userID, tenantID, alertID, models.AlertStatusActive))
	if isNoRows(err) {
		return nil, common.InvalidState("Alert %s is not active", alertID)
	}
	return a, err
}

// Resolve applies to ACTIVE and ACKNOWLEDGED alerts.
func (r *alertRepo) Resolve(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error) {
	query := `
		UPDATE alerts
		SET status = $1, resolved_at = NOW(), resolved_by = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND alert_id = $4 AND status <> $1
		RETURNING ` + alertColumns
	a, err := scanAlert(database.Conn(ctx, r.db).QueryRow(ctx, query,
		models.AlertStatusResolved, userID, tenantID, alertID))
	if isNoRows(err) {
		return nil, common.InvalidState("Alert %s is already resolved", alertID)
	}
	return a, err
}
