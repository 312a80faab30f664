package repositories

import (
	"context"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type notificationRepo struct {
	db database.DB
}

func NewNotificationRepo(db database.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, tenant_id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
		RETURNING id, created_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query,
		n.NotificationID, n.TenantID, n.UserID, n.Type, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepo) ListForUser(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, notification_id, tenant_id, user_id, type, title, message, is_read, read_at, created_at
		FROM notifications
		WHERE tenant_id = $1 AND user_id = $2 AND ($3 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, tenantID, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.NotificationID, &n.TenantID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE notifications SET is_read = true, read_at = COALESCE(read_at, NOW())
		WHERE user_id = $1 AND notification_id = $2
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Notification %s not found", notificationID)
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND is_read = false`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
