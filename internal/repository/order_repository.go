package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context, status string) ([]model.Order, error) {
	query := `
		SELECT id, enquiry_id, quote_id, order_number, amount, status, created_by_id, created_at, updated_at
		FROM orders
	`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	var orders []model.Order
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, enquiry_id, quote_id, order_number, amount, status, created_by_id, created_at, updated_at
		FROM orders
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

// Create inserts the order and marks its enquiry converted in one
// transaction.
func (r *OrderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	var saved model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO orders (enquiry_id, quote_id, order_number, amount, status, created_by_id)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, enquiry_id, quote_id, order_number, amount, status, created_by_id, created_at, updated_at
		`,
			order.EnquiryID,
			order.QuoteID,
			order.OrderNumber,
			order.Amount,
			order.Status,
			order.CreatedByID,
		).Scan(&saved).Error; err != nil {
			return err
		}

		return tx.Exec(`
			UPDATE enquiries SET status = ?, updated_at = NOW() WHERE id = ?
		`, model.EnquiryStatusConverted, order.EnquiryID).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
