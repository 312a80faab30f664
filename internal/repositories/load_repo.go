package repositories

import (
	"context"
	"fmt"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type LoadRepository interface {
	List(ctx context.Context, tenantID int64, status *models.LoadStatus, limit, offset int) ([]*models.Load, error)
	GetByLoadID(ctx context.Context, tenantID int64, loadID string) (*models.Load, error)
	Create(ctx context.Context, load *models.Load) error
	UpdateStatus(ctx context.Context, tenantID int64, loadID string, from, to models.LoadStatus) error
	Assign(ctx context.Context, tenantID int64, loadID string, driverID, vehicleID *string) error
	CreateDocument(ctx context.Context, doc *models.LoadDocument) error
	ListDocuments(ctx context.Context, tenantID int64, loadID string) ([]*models.LoadDocument, error)
}

const loadColumns = `id, load_id, tenant_id, reference_number, customer_name, origin, destination, pickup_at,
		delivery_at, weight_lbs, commodity, status, driver_id, vehicle_id, rate_cents, created_at, updated_at`

type loadRepo struct {
	db database.DB
}

func NewLoadRepo(db database.DB) LoadRepository {
	return &loadRepo{db: db}
}

func scanLoad(row scanner) (*models.Load, error) {
	l := &models.Load{}
	err := row.Scan(&l.ID, &l.LoadID, &l.TenantID, &l.ReferenceNumber, &l.CustomerName, &l.Origin,
		&l.Destination, &l.PickupAt, &l.DeliveryAt, &l.WeightLbs, &l.Commodity, &l.Status, &l.DriverID,
		&l.VehicleID, &l.RateCents, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loadRepo) List(ctx context.Context, tenantID int64, status *models.LoadStatus, limit, offset int) ([]*models.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := []*models.Load{}
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

func (r *loadRepo) GetByLoadID(ctx context.Context, tenantID int64, loadID string) (*models.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads WHERE tenant_id = $1 AND load_id = $2`
	l, err := scanLoad(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, loadID))
	if isNoRows(err) {
		return nil, common.NotFound("Load %s not found", loadID)
	}
	return l, err
}

func (r *loadRepo) Create(ctx context.Context, l *models.Load) error {
	query := `
		INSERT INTO loads (load_id, tenant_id, reference_number, customer_name, origin, destination, pickup_at,
			delivery_at, weight_lbs, commodity, status, rate_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		l.LoadID, l.TenantID, l.ReferenceNumber, l.CustomerName, l.Origin, l.Destination, l.PickupAt,
		l.DeliveryAt, l.WeightLbs, l.Commodity, l.Status, l.RateCents,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("Load with reference %s already exists", l.ReferenceNumber)
	}
	return err
}

// UpdateStatus moves a load from one status to another; a concurrent change makes it fail.
func (r *loadRepo) UpdateStatus(ctx context.Context, tenantID int64, loadID string, from, to models.LoadStatus) error {
	query := `UPDATE loads SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND load_id = $3 AND status = $4`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, to, tenantID, loadID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.InvalidState("Load %s is no longer %s", loadID, from)
	}
	return nil
}

func (r *loadRepo) Assign(ctx context.Context, tenantID int64, loadID string, driverID, vehicleID *string) error {
	query := `
		UPDATE loads SET driver_id = $1, vehicle_id = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND load_id = $4
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, driverID, vehicleID, tenantID, loadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Load %s not found", loadID)
	}
	return nil
}

func (r *loadRepo) CreateDocument(ctx context.Context, doc *models.LoadDocument) error {
	query := `
		INSERT INTO load_documents (document_id, load_id, tenant_id, file_name, content_type, object_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query,
		doc.DocumentID, doc.LoadID, doc.TenantID, doc.FileName, doc.ContentType, doc.ObjectKey, doc.SizeBytes,
	).Scan(&doc.CreatedAt)
}

func (r *loadRepo) ListDocuments(ctx context.Context, tenantID int64, loadID string) ([]*models.LoadDocument, error) {
	query := `
		SELECT document_id, load_id, tenant_id, file_name, content_type, object_key, size_bytes, created_at
		FROM load_documents
		WHERE tenant_id = $1 AND load_id = $2
		ORDER BY created_at
	`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*models.LoadDocument{}
	for rows.Next() {
		d := &models.LoadDocument{}
		if err := rows.Scan(&d.DocumentID, &d.LoadID, &d.TenantID, &d.FileName, &d.ContentType, &d.ObjectKey,
			&d.SizeBytes, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
