package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
)

type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, principal model.Principal, unreadOnly bool) ([]model.Notification, error) {
	return s.notifications.ListForMember(ctx, principal.UserID, unreadOnly)
}

// MarkRead marks the caller's notification as read. The member scoping
// in the repository keeps one member from touching another's rows.
func (s *NotificationService) MarkRead(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, principal.UserID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
