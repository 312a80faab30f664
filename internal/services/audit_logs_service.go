package services

import (
	"context"
	"errors"

	"sally/internal/models"
	"sally/internal/repositories"
)

type AuditLogsService interface {
	// LogActivity records a tenant lifecycle event. Runs inside the caller's transaction when one is open.
	LogActivity(ctx context.Context, tenantID int64, action string, actorUserID *string, metadata models.JSONB) error
	ListAuditLogs(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

func (s *auditLogsService) LogActivity(ctx context.Context, tenantID int64, action string, actorUserID *string, metadata models.JSONB) error {
	if action == "" {
		return errors.New("action is required")
	}
	if tenantID == 0 {
		return errors.New("tenant is required")
	}

	return s.auditLogsRepo.Create(ctx, &models.AuditLog{
		TenantID:    tenantID,
		ActorUserID: actorUserID,
		Action:      action,
		Metadata:    metadata,
	})
}

func (s *auditLogsService) ListAuditLogs(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditLogsRepo.ListByTenant(ctx, tenantID, limit, offset)
}
