package repositories

import (
	"context"

	"sally/internal/models"
	"sally/pkg/database"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogRepo struct {
	db database.DB
}

func NewAuditLogRepo(db database.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (tenant_id, actor_user_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query, log.TenantID, log.ActorUserID, log.Action, log.Metadata).
		Scan(&log.ID, &log.CreatedAt)
}

func (r *auditLogRepo) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, tenant_id, actor_user_id, action, metadata, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.TenantID, &l.ActorUserID, &l.Action, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
