package services

import (
	"context"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertPublisher fans alerts out to live subscribers of a tenant.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, tenantID string, alert *models.Alert) error
}

type AlertService interface {
	List(ctx context.Context, tenantID int64, filters models.AlertFilters) ([]*models.Alert, error)
	Get(ctx context.Context, tenantID int64, alertID string) (*models.Alert, error)
	Create(ctx context.Context, identity *common.Identity, req *CreateAlertRequest) (*models.Alert, error)
	Acknowledge(ctx context.Context, identity *common.Identity, alertID string) (*models.Alert, error)
	Resolve(ctx context.Context, identity *common.Identity, alertID string) (*models.Alert, error)
}

type CreateAlertRequest struct {
	AlertType string               `json:"alert_type" validate:"required,max=50"`
	Category  string               `json:"category" validate:"required,max=50"`
	Priority  models.AlertPriority `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Title     string               `json:"title" validate:"required,max=255"`
	Message   string               `json:"message" validate:"required"`
	DriverID  string               `json:"driver_id"`
	VehicleID string               `json:"vehicle_id"`
}

var alertRecipients = []models.UserRole{models.RoleOwner, models.RoleAdmin, models.RoleDispatcher}

type alertService struct {
	repo          repositories.AlertRepository
	publisher     AlertPublisher
	notifications NotificationService
	log           *zap.Logger
}

func NewAlertService(repo repositories.AlertRepository, publisher AlertPublisher, notifications NotificationService, log *zap.Logger) AlertService {
	return &alertService{repo: repo, publisher: publisher, notifications: notifications, log: log.Named("alerts")}
}

func (s *alertService) List(ctx context.Context, tenantID int64, filters models.AlertFilters) ([]*models.Alert, error) {
	return s.repo.List(ctx, tenantID, filters)
}

func (s *alertService) Get(ctx context.Context, tenantID int64, alertID string) (*models.Alert, error) {
	return s.repo.GetByAlertID(ctx, tenantID, alertID)
}

// Create stores the alert, then publishes it and notifies dispatch staff.
// Publish and notify failures are logged; the alert is already persisted.
func (s *alertService) Create(ctx context.Context, identity *common.Identity, req *CreateAlertRequest) (*models.Alert, error) {
	alert := &models.Alert{
		AlertID:   uuid.NewString(),
		TenantID:  identity.TenantDBID,
		AlertType: strings.TrimSpace(req.AlertType),
		Category:  strings.TrimSpace(req.Category),
		Priority:  req.Priority,
		Title:     strings.TrimSpace(req.Title),
		Message:   req.Message,
		DriverID:  common.StringPtr(req.DriverID),
		VehicleID: common.StringPtr(req.VehicleID),
		Status:    models.AlertStatusActive,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishAlert(ctx, identity.TenantID, alert); err != nil {
		s.log.Warn("failed to publish alert", zap.String("alert_id", alert.AlertID), zap.Error(err))
	}
	if err := s.notifications.NotifyRoles(ctx, identity.TenantDBID, alertRecipients,
		models.NotificationTypeAlert, alert.Title, alert.Message); err != nil {
		s.log.Warn("failed to notify alert recipients", zap.String("alert_id", alert.AlertID), zap.Error(err))
	}

	return alert, nil
}

// Acknowledge moves an ACTIVE alert to ACKNOWLEDGED. Unknown alerts are 404,
// alerts in any other state are 400.
func (s *alertService) Acknowledge(ctx context.Context, identity *common.Identity, alertID string) (*models.Alert, error) {
	if _, err := s.repo.GetByAlertID(ctx, identity.TenantDBID, alertID); err != nil {
		return nil, err
	}
	return s.repo.Acknowledge(ctx, identity.TenantDBID, alertID, identity.UserID)
}

func (s *alertService) Resolve(ctx context.Context, identity *common.Identity, alertID string) (*models.Alert, error) {
	if _, err := s.repo.GetByAlertID(ctx, identity.TenantDBID, alertID); err != nil {
		return nil, err
	}
	return s.repo.Resolve(ctx, identity.TenantDBID, alertID, identity.UserID)
}
