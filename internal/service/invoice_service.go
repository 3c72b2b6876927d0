package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type PDFGenerator interface {
	Generate(invoice model.Invoice) ([]byte, error)
}

type InvoiceService struct {
	invoices *repository.InvoiceRepository
	orders   *repository.OrderRepository
	pdf      PDFGenerator
	now      func() time.Time
}

func NewInvoiceService(invoices *repository.InvoiceRepository, orders *repository.OrderRepository, pdf PDFGenerator) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		orders:   orders,
		pdf:      pdf,
		now:      time.Now,
	}
}

func (s *InvoiceService) List(ctx context.Context, principal model.Principal) ([]model.Invoice, error) {
	if principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	return s.invoices.List(ctx)
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

type CreateInvoiceInput struct {
	OrderID             uuid.UUID
	ClientName          string
	ClientAddress       string
	ClientGSTIN         string
	Items               []model.InvoiceItem
	TransportCharges    float64
	InstallationCharges float64
	CGSTEnabled         bool
	SGSTEnabled         bool
	IGSTEnabled         bool
	InvoiceDate         time.Time
	Principal           model.Principal
}

// Create raises a GST invoice against an order. Each GST component is a
// toggle: enabled means 9% of the item amounts, charges excluded from
// the base.
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*model.Invoice, error) {
	if !input.Principal.CanEditQuotes() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("%w: item %d has no description", ErrInvalidInput, i+1)
		}
	}

	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	itemsTotal := 0.0
	for _, item := range input.Items {
		itemsTotal += item.Amount
	}
	cgst := workbook.ToggleGST(itemsTotal, input.CGSTEnabled)
	sgst := workbook.ToggleGST(itemsTotal, input.SGSTEnabled)
	igst := workbook.ToggleGST(itemsTotal, input.IGSTEnabled)
	total := workbook.InvoiceTotal(itemsTotal, input.TransportCharges, input.InstallationCharges, cgst, sgst, igst)

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = s.now()
	}

	return s.invoices.Create(ctx, model.Invoice{
		InvoiceNumber:       s.invoiceNumber(),
		OrderID:             order.ID,
		EnquiryID:           order.EnquiryID,
		ClientName:          input.ClientName,
		ClientAddress:       input.ClientAddress,
		ClientGSTIN:         input.ClientGSTIN,
		Items:               input.Items,
		TransportCharges:    input.TransportCharges,
		InstallationCharges: input.InstallationCharges,
		CGSTAmount:          cgst,
		SGSTAmount:          sgst,
		IGSTAmount:          igst,
		TotalAmount:         total,
		Status:              model.InvoiceStatusDraft,
		InvoiceDate:         invoiceDate,
		CreatedByID:         input.Principal.UserID,
	})
}

func (s *InvoiceService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.InvoiceStatus) error {
	if !principal.CanEditQuotes() {
		return ErrPermissionDenied
	}
	switch status {
	case model.InvoiceStatusDraft, model.InvoiceStatusIssued, model.InvoiceStatusPaid:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	if err := s.invoices.UpdateStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type DownloadResult struct {
	FileName string
	Content  []byte
}

// Download renders the invoice as a PDF document.
func (s *InvoiceService) Download(ctx context.Context, principal model.Principal, id uuid.UUID) (*DownloadResult, error) {
	if principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*invoice)
	if err != nil {
		return nil, err
	}
	return &DownloadResult{
		FileName: fmt.Sprintf("invoice-%s.pdf", invoice.InvoiceNumber),
		Content:  content,
	}, nil
}

func (s *InvoiceService) invoiceNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s", s.now().Format("20060102"), suffix)
}
