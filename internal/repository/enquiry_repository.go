package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type EnquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

func (r *EnquiryRepository) List(ctx context.Context, status string, clientID *uuid.UUID) ([]model.Enquiry, error) {
	query := `
		SELECT id, client_id, client_name, subject, details, status, created_by_id, created_at, updated_at
		FROM enquiries
	`
	var filters []string
	var args []interface{}
	if status != "" {
		filters = append(filters, "status = ?")
		args = append(args, status)
	}
	if clientID != nil {
		filters = append(filters, "client_id = ?")
		args = append(args, *clientID)
	}
	for i, filter := range filters {
		if i == 0 {
			query += " WHERE " + filter
		} else {
			query += " AND " + filter
		}
	}
	query += " ORDER BY created_at DESC"

	var enquiries []model.Enquiry
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&enquiries).Error; err != nil {
		return nil, err
	}
	return enquiries, nil
}

func (r *EnquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enquiry, error) {
	var enquiry model.Enquiry
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, client_name, subject, details, status, created_by_id, created_at, updated_at
		FROM enquiries
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&enquiry).Error
	if err != nil {
		return nil, err
	}
	if enquiry.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &enquiry, nil
}

func (r *EnquiryRepository) Create(ctx context.Context, enquiry model.Enquiry) (*model.Enquiry, error) {
	var saved model.Enquiry
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO enquiries (client_id, client_name, subject, details, status, created_by_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, client_id, client_name, subject, details, status, created_by_id, created_at, updated_at
	`,
		enquiry.ClientID,
		enquiry.ClientName,
		enquiry.Subject,
		enquiry.Details,
		enquiry.Status,
		enquiry.CreatedByID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *EnquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EnquiryStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE enquiries SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
