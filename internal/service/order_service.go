package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/cache"
	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type OrderService struct {
	orders        *repository.OrderRepository
	quotes        *repository.QuoteRepository
	notifications *repository.NotificationRepository
	cache         *cache.QuoteCache
	log           zerolog.Logger
	now           func() time.Time
}

func NewOrderService(
	orders *repository.OrderRepository,
	quotes *repository.QuoteRepository,
	notifications *repository.NotificationRepository,
	quoteCache *cache.QuoteCache,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:        orders,
		quotes:        quotes,
		notifications: notifications,
		cache:         quoteCache,
		log:           log,
		now:           time.Now,
	}
}

func (s *OrderService) List(ctx context.Context, principal model.Principal, status string) ([]model.Order, error) {
	return s.orders.List(ctx, status)
}

func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ConvertQuote turns an approved quote version into an order. The quote
// must be approved first; the enquiry is marked converted in the same
// transaction as the order insert.
func (s *OrderService) ConvertQuote(ctx context.Context, principal model.Principal, quoteID uuid.UUID) (*model.Order, error) {
	if !principal.CanEditQuotes() {
		return nil, ErrPermissionDenied
	}

	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quote.Status != workbook.QuoteStatusApproved {
		return nil, fmt.Errorf("%w: quote version %d is not approved", ErrInvalidInput, quote.Version)
	}

	order, err := s.orders.Create(ctx, model.Order{
		EnquiryID:   quote.EnquiryID,
		QuoteID:     quote.ID,
		OrderNumber: s.orderNumber(),
		Amount:      quote.TotalAmount,
		Status:      model.OrderStatusPlaced,
		CreatedByID: principal.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEnquiry(ctx, quote.EnquiryID.String())
	s.notify(ctx, quote.CreatedByID, "Order placed",
		fmt.Sprintf("Order %s placed from quote version %d", order.OrderNumber, quote.Version))
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.OrderStatus) error {
	if !principal.CanEditQuotes() && !principal.IsVendor() {
		return ErrPermissionDenied
	}
	switch status {
	case model.OrderStatusPlaced, model.OrderStatusInProgress, model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *OrderService) orderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102"), suffix)
}

func (s *OrderService) notify(ctx context.Context, memberID uuid.UUID, title, body string) {
	if memberID == uuid.Nil {
		return
	}
	err := s.notifications.Create(ctx, model.Notification{
		MemberID: memberID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to create notification")
	}
}
