package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListForMember(ctx context.Context, memberID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	query := `
		SELECT id, member_id, title, body, read, created_at
		FROM notifications
		WHERE member_id = ?
	`
	args := []interface{}{memberID}
	if unreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	var notifications []model.Notification
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) Create(ctx context.Context, notification model.Notification) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO notifications (member_id, title, body)
		VALUES (?, ?, ?)
	`, notification.MemberID, notification.Title, notification.Body).Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, memberID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE notifications SET read = TRUE WHERE id = ? AND member_id = ?
	`, id, memberID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
