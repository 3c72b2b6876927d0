package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = `
	id,
	enquiry_id,
	version,
	items,
	tax_percent,
	transport,
	installation,
	total_amount,
	reason,
	notes,
	attachments,
	status,
	created_by_id,
	created_at,
	updated_at
`

func (r *QuoteRepository) ListByEnquiry(ctx context.Context, enquiryID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE enquiry_id = ?
		ORDER BY version ASC
	`, enquiryID).Scan(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &quote, nil
}

// Create inserts a new version, numbering it one past the enquiry's
// current highest inside a single transaction.
func (r *QuoteRepository) Create(ctx context.Context, quote model.Quote) (*model.Quote, error) {
	var saved model.Quote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextVersion int
		if err := tx.Raw(`
			SELECT COALESCE(MAX(version), 0) + 1 FROM quotes WHERE enquiry_id = ?
		`, quote.EnquiryID).Scan(&nextVersion).Error; err != nil {
			return err
		}

		return tx.Raw(`
			INSERT INTO quotes (
				enquiry_id,
				version,
				items,
				tax_percent,
				transport,
				installation,
				total_amount,
				reason,
				notes,
				attachments,
				status,
				created_by_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+quoteColumns+`
		`,
			quote.EnquiryID,
			nextVersion,
			quote.Items,
			quote.TaxPercent,
			quote.Transport,
			quote.Installation,
			quote.TotalAmount,
			quote.Reason,
			quote.Notes,
			quote.Attachments,
			quote.Status,
			quote.CreatedByID,
		).Scan(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Mutate loads the quote with a row lock, lets apply rewrite it, and
// writes the result back. Changeset application is order-sensitive, so
// the read-modify-write must not interleave with another writer.
func (r *QuoteRepository) Mutate(ctx context.Context, id uuid.UUID, apply func(*model.Quote) error) (*model.Quote, error) {
	var updated model.Quote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote model.Quote
		if err := tx.Raw(`
			SELECT `+quoteColumns+`
			FROM quotes
			WHERE id = ?
			FOR UPDATE
		`, id).Scan(&quote).Error; err != nil {
			return err
		}
		if quote.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}

		if err := apply(&quote); err != nil {
			return err
		}

		if err := tx.Exec(`
			UPDATE quotes
			SET
				items = ?,
				tax_percent = ?,
				transport = ?,
				installation = ?,
				total_amount = ?,
				reason = ?,
				notes = ?,
				attachments = ?,
				status = ?,
				updated_at = NOW()
			WHERE id = ?
		`,
			quote.Items,
			quote.TaxPercent,
			quote.Transport,
			quote.Installation,
			quote.TotalAmount,
			quote.Reason,
			quote.Notes,
			quote.Attachments,
			quote.Status,
			quote.ID,
		).Error; err != nil {
			return err
		}

		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotes SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
