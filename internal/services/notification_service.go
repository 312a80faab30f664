package services

import (
	"context"

	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService manages in-app notifications for users
type NotificationService interface {
	Notify(ctx context.Context, tenantID int64, userID string, nType models.NotificationType, title, message string) error
	NotifyRoles(ctx context.Context, tenantID int64, roles []models.UserRole, nType models.NotificationType, title, message string) error
	List(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo     repositories.NotificationRepository
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, userRepo repositories.UserRepository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, log: log.Named("notifications")}
}

func (s *notificationService) Notify(ctx context.Context, tenantID int64, userID string, nType models.NotificationType, title, message string) error {
	return s.repo.Create(ctx, &models.Notification{
		NotificationID: uuid.NewString(),
		TenantID:       tenantID,
		UserID:         userID,
		Type:           nType,
		Title:          title,
		Message:        message,
	})
}

// NotifyRoles fans a notification out to every active user holding one of roles.
// A failure for one recipient does not stop the others.
func (s *notificationService) NotifyRoles(ctx context.Context, tenantID int64, roles []models.UserRole, nType models.NotificationType, title, message string) error {
	users, err := s.userRepo.ListByTenant(ctx, tenantID, roles)
	if err != nil {
		return err
	}

	var firstErr error
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		if err := s.Notify(ctx, tenantID, u.UserID, nType, title, message); err != nil {
			s.log.Warn("failed to notify user", zap.String("user_id", u.UserID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *notificationService) List(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.repo.ListForUser(ctx, tenantID, userID, unreadOnly, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
