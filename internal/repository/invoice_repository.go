package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `
	id,
	invoice_number,
	order_id,
	enquiry_id,
	client_name,
	client_address,
	client_gstin,
	items,
	transport_charges,
	installation_charges,
	cgst_amount,
	sgst_amount,
	igst_amount,
	total_amount,
	status,
	invoice_date,
	created_by_id,
	created_at,
	updated_at
`

func (r *InvoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + invoiceColumns + `
		FROM invoices
		ORDER BY invoice_date DESC, created_at DESC
	`).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice model.Invoice) (*model.Invoice, error) {
	var saved model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO invoices (
			invoice_number,
			order_id,
			enquiry_id,
			client_name,
			client_address,
			client_gstin,
			items,
			transport_charges,
			installation_charges,
			cgst_amount,
			sgst_amount,
			igst_amount,
			total_amount,
			status,
			invoice_date,
			created_by_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+invoiceColumns+`
	`,
		invoice.InvoiceNumber,
		invoice.OrderID,
		invoice.EnquiryID,
		invoice.ClientName,
		invoice.ClientAddress,
		invoice.ClientGSTIN,
		invoice.Items,
		invoice.TransportCharges,
		invoice.InstallationCharges,
		invoice.CGSTAmount,
		invoice.SGSTAmount,
		invoice.IGSTAmount,
		invoice.TotalAmount,
		invoice.Status,
		invoice.InvoiceDate,
		invoice.CreatedByID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvoiceStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE invoices SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
