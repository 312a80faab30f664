package repositories

import (
	"context"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type IntegrationRepository interface {
	List(ctx context.Context, tenantID int64) ([]*models.Integration, error)
	GetByIntegrationID(ctx context.Context, tenantID int64, integrationID string) (*models.Integration, error)
	Create(ctx context.Context, in *models.Integration) error
	Delete(ctx context.Context, tenantID int64, integrationID string) error
	UpdateStatus(ctx context.Context, id int64, status models.IntegrationStatus, lastError *string, syncedAt *time.Time) error
}

const integrationColumns = `id, integration_id, tenant_id, integration_type, vendor, display_name, base_url,
		encrypted_credentials, status, last_sync_at, last_error, created_at, updated_at`

type integrationRepo struct {
	db database.DB
}

func NewIntegrationRepo(db database.DB) IntegrationRepository {
	return &integrationRepo{db: db}
}

func scanIntegration(row scanner) (*models.Integration, error) {
	in := &models.Integration{}
	err := row.Scan(&in.ID, &in.IntegrationID, &in.TenantID, &in.IntegrationType, &in.Vendor, &in.DisplayName,
		&in.BaseURL, &in.EncryptedCredentials, &in.Status, &in.LastSyncAt, &in.LastError, &in.CreatedAt,
		&in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (r *integrationRepo) List(ctx context.Context, tenantID int64) ([]*models.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE tenant_id = $1 ORDER BY created_at`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Integration{}
	for rows.Next() {
		in, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *integrationRepo) GetByIntegrationID(ctx context.Context, tenantID int64, integrationID string) (*models.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE tenant_id = $1 AND integration_id = $2`
	in, err := scanIntegration(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, integrationID))
	if isNoRows(err) {
		return nil, common.NotFound("Integration %s not found", integrationID)
	}
	return in, err
}

func (r *integrationRepo) Create(ctx context.Context, in *models.Integration) error {
	query := `
		INSERT INTO integrations (integration_id, tenant_id, integration_type, vendor, display_name, base_url,
			encrypted_credentials, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		in.IntegrationID, in.TenantID, in.IntegrationType, in.Vendor, in.DisplayName, in.BaseURL,
		in.EncryptedCredentials, in.Status,
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("A %s integration for %s already exists", in.IntegrationType, in.Vendor)
	}
	return err
}

func (r *integrationRepo) Delete(ctx context.Context, tenantID int64, integrationID string) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM integrations WHERE tenant_id = $1 AND integration_id = $2`, tenantID, integrationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Integration %s not found", integrationID)
	}
	return nil
}

// UpdateStatus records the outcome of a connection test or sync. A nil syncedAt keeps last_sync_at.
func (r *integrationRepo) UpdateStatus(ctx context.Context, id int64, status models.IntegrationStatus, lastError *string, syncedAt *time.Time) error {
	query := `
		UPDATE integrations
		SET status = $1, last_error = $2, last_sync_at = COALESCE($3, last_sync_at), updated_at = NOW()
		WHERE id = $4
	`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query, status, lastError, syncedAt, id)
	return err
}
