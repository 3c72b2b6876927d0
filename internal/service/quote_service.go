package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/cache"
	"github.com/mkamath/quotedesk/internal/config"
	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
	"github.com/mkamath/quotedesk/internal/storage"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type ExcelGenerator interface {
	Generate(enquiry model.Enquiry, quotes []model.Quote) ([]byte, error)
}

type ItemImporter interface {
	ParseItems(content []byte) ([]workbook.ImportRow, error)
}

type QuoteService struct {
	quotes        *repository.QuoteRepository
	enquiries     *repository.EnquiryRepository
	notifications *repository.NotificationRepository
	cache         *cache.QuoteCache
	files         *storage.FileStore
	excel         ExcelGenerator
	importer      ItemImporter
	cfg           *config.Config
	log           zerolog.Logger
}

func NewQuoteService(
	quotes *repository.QuoteRepository,
	enquiries *repository.EnquiryRepository,
	notifications *repository.NotificationRepository,
	quoteCache *cache.QuoteCache,
	files *storage.FileStore,
	excel ExcelGenerator,
	importer ItemImporter,
	cfg *config.Config,
	log zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		quotes:        quotes,
		enquiries:     enquiries,
		notifications: notifications,
		cache:         quoteCache,
		files:         files,
		excel:         excel,
		importer:      importer,
		cfg:           cfg,
		log:           log,
	}
}

// ListVersions returns the enquiry's quote versions in wire shape,
// reading through the cache. Clients only see their own enquiries.
func (s *QuoteService) ListVersions(ctx context.Context, principal model.Principal, enquiryID uuid.UUID) ([]workbook.QuoteVersion, error) {
	enquiry, err := s.getEnquiry(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if principal.IsClient() && enquiry.ClientID != principal.UserID {
		return nil, ErrPermissionDenied
	}

	quotes, ok := s.cache.GetQuotes(ctx, enquiryID.String())
	if !ok {
		quotes, err = s.quotes.ListByEnquiry(ctx, enquiryID)
		if err != nil {
			return nil, err
		}
		s.cache.SetQuotes(ctx, enquiryID.String(), quotes)
	}

	versions := make([]workbook.QuoteVersion, 0, len(quotes))
	for _, quote := range quotes {
		version := quote.ToWorkbook()
		if principal.IsVendor() {
			scopeToVendor(&version, principal.UserID.String())
		}
		versions = append(versions, version)
	}
	return versions, nil
}

// scopeToVendor strips every vendor assignment that does not belong to
// the caller. Vendors see the item rows for context but only their own
// sourcing terms.
func scopeToVendor(version *workbook.QuoteVersion, vendorID string) {
	for i := range version.Items {
		var own []workbook.VendorAssignment
		for _, vendor := range version.Items[i].Vendors {
			if vendor.VendorID == vendorID {
				own = append(own, vendor)
			}
		}
		version.Items[i].Vendors = own
	}
}

type CreateVersionInput struct {
	EnquiryID   uuid.UUID
	Draft       workbook.QuoteVersion
	Attachments []workbook.Upload
	Principal   model.Principal
}

// CreateVersion persists a new quote version for the enquiry and moves
// the enquiry into the QUOTED state.
func (s *QuoteService) CreateVersion(ctx context.Context, input CreateVersionInput) (*workbook.QuoteVersion, error) {
	if !input.Principal.CanEditQuotes() {
		return nil, ErrPermissionDenied
	}
	enquiry, err := s.getEnquiry(ctx, input.EnquiryID)
	if err != nil {
		return nil, err
	}

	items := make([]workbook.LineItem, 0, len(input.Draft.Items))
	for _, item := range input.Draft.Items {
		items = append(items, workbook.NormalizeItem(item))
	}
	totals := workbook.ComputeTotal(items, input.Draft.Transport.Float(), input.Draft.Installation.Float(), input.Draft.TaxPercent.Float())

	attachments := append([]string(nil), input.Draft.Attachments...)
	for _, upload := range input.Attachments {
		url, err := s.files.Save(upload.Name, upload.Content)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, url)
	}

	status := input.Draft.Status
	if status == "" {
		status = workbook.QuoteStatusDraft
	}

	saved, err := s.quotes.Create(ctx, model.Quote{
		EnquiryID:    input.EnquiryID,
		Items:        items,
		TaxPercent:   input.Draft.TaxPercent.Float(),
		Transport:    input.Draft.Transport.Float(),
		Installation: input.Draft.Installation.Float(),
		TotalAmount:  totals.TotalAmount,
		Reason:       input.Draft.Reason,
		Notes:        input.Draft.Notes,
		Attachments:  attachments,
		Status:       status,
		CreatedByID:  input.Principal.UserID,
	})
	if err != nil {
		return nil, err
	}

	if enquiry.Status == model.EnquiryStatusOpen {
		if err := s.enquiries.UpdateStatus(ctx, enquiry.ID, model.EnquiryStatusQuoted); err != nil {
			s.log.Warn().Err(err).Str("enquiry_id", enquiry.ID.String()).Msg("failed to mark enquiry quoted")
		}
	}
	s.cache.InvalidateEnquiry(ctx, input.EnquiryID.String())
	s.notify(ctx, enquiry.ClientID, "New quotation", fmt.Sprintf("Quote version %d is ready for %q", saved.Version, enquiry.Subject))

	version := saved.ToWorkbook()
	return &version, nil
}

type UpdateVersionInput struct {
	QuoteID    uuid.UUID
	Changeset  workbook.Changeset
	Attachment *workbook.Upload
	Principal  model.Principal
}

// UpdateVersion applies a partial changeset to a stored version. An empty
// changeset with no attachment is rejected before any write.
func (s *QuoteService) UpdateVersion(ctx context.Context, input UpdateVersionInput) (*workbook.QuoteVersion, error) {
	if !input.Principal.CanEditQuotes() {
		return nil, ErrPermissionDenied
	}
	if input.Changeset.Empty() && input.Attachment == nil {
		return nil, ErrNoChanges
	}

	var attachmentURL string
	if input.Attachment != nil {
		url, err := s.files.Save(input.Attachment.Name, input.Attachment.Content)
		if err != nil {
			return nil, err
		}
		attachmentURL = url
	}

	updated, err := s.quotes.Mutate(ctx, input.QuoteID, func(quote *model.Quote) error {
		if err := applyChangeset(quote, input.Changeset); err != nil {
			return err
		}
		if attachmentURL != "" {
			quote.Attachments = append(quote.Attachments, attachmentURL)
		}
		totals := workbook.ComputeTotal(quote.Items, quote.Transport, quote.Installation, quote.TaxPercent)
		quote.TotalAmount = totals.TotalAmount
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cache.InvalidateEnquiry(ctx, updated.EnquiryID.String())
	version := updated.ToWorkbook()
	return &version, nil
}

type SaveVendorInput struct {
	QuoteID     uuid.UUID
	ItemIndex   int
	VendorIndex int // -1 appends
	Vendor      workbook.VendorAssignment
	Principal   model.Principal
}

// SaveVendor adds or replaces one vendor assignment. Vendor mutations
// are independent transactions, not part of the version-level diff.
func (s *QuoteService) SaveVendor(ctx context.Context, input SaveVendorInput) error {
	if !input.Principal.CanEditQuotes() {
		return ErrPermissionDenied
	}
	if err := validateVendorInput(input.Vendor); err != nil {
		return err
	}

	vendorID, err := uuid.Parse(input.Vendor.VendorID)
	if err != nil {
		return fmt.Errorf("%w: invalid vendor id", ErrInvalidInput)
	}

	updated, err := s.quotes.Mutate(ctx, input.QuoteID, func(quote *model.Quote) error {
		if input.ItemIndex < 0 || input.ItemIndex >= len(quote.Items) {
			return fmt.Errorf("%w: item index %d out of range", ErrInvalidInput, input.ItemIndex)
		}
		item := &quote.Items[input.ItemIndex]
		vendor := workbook.NormalizeVendor(input.Vendor)
		vendor.IsNew = false

		if input.VendorIndex < 0 {
			item.Vendors = append(item.Vendors, vendor)
			return nil
		}
		if input.VendorIndex >= len(item.Vendors) {
			return fmt.Errorf("%w: vendor index %d out of range", ErrInvalidInput, input.VendorIndex)
		}
		item.Vendors[input.VendorIndex] = vendor
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	s.cache.InvalidateEnquiry(ctx, updated.EnquiryID.String())
	s.notify(ctx, vendorID, "New assignment",
		fmt.Sprintf("You have been assigned %q on quote version %d", input.Vendor.Description, updated.Version))
	return nil
}

// DeleteVendor removes a persisted vendor assignment by vendor id.
func (s *QuoteService) DeleteVendor(ctx context.Context, principal model.Principal, quoteID uuid.UUID, itemIndex int, vendorID string) error {
	if !principal.CanEditQuotes() {
		return ErrPermissionDenied
	}

	updated, err := s.quotes.Mutate(ctx, quoteID, func(quote *model.Quote) error {
		if itemIndex < 0 || itemIndex >= len(quote.Items) {
			return fmt.Errorf("%w: item index %d out of range", ErrInvalidInput, itemIndex)
		}
		item := &quote.Items[itemIndex]
		for i := range item.Vendors {
			if item.Vendors[i].VendorID == vendorID {
				item.Vendors = append(item.Vendors[:i], item.Vendors[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	s.cache.InvalidateEnquiry(ctx, updated.EnquiryID.String())
	return nil
}

// DeleteAttachment removes the attachment at the given index and deletes
// the file after the row update succeeds.
func (s *QuoteService) DeleteAttachment(ctx context.Context, principal model.Principal, quoteID uuid.UUID, index int) error {
	if !principal.CanEditQuotes() {
		return ErrPermissionDenied
	}

	var removedURL string
	updated, err := s.quotes.Mutate(ctx, quoteID, func(quote *model.Quote) error {
		if index < 0 || index >= len(quote.Attachments) {
			return fmt.Errorf("%w: attachment index %d out of range", ErrInvalidInput, index)
		}
		removedURL = quote.Attachments[index]
		quote.Attachments = append(quote.Attachments[:index], quote.Attachments[index+1:]...)
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if err := s.files.Remove(removedURL); err != nil {
		s.log.Warn().Err(err).Str("url", removedURL).Msg("failed to delete attachment file")
	}
	s.cache.InvalidateEnquiry(ctx, updated.EnquiryID.String())
	return nil
}

// UpdateStatus changes a version's status through the dedicated
// operation, independent of any other pending edit.
func (s *QuoteService) UpdateStatus(ctx context.Context, principal model.Principal, quoteID uuid.UUID, status string) error {
	if !principal.CanEditQuotes() {
		return ErrPermissionDenied
	}
	if !s.isValidStatus(status) {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if err := s.quotes.UpdateStatus(ctx, quoteID, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	s.cache.InvalidateEnquiry(ctx, quote.EnquiryID.String())
	if enquiry, err := s.getEnquiry(ctx, quote.EnquiryID); err == nil {
		s.notify(ctx, enquiry.ClientID, "Quotation "+strings.ToLower(status),
			fmt.Sprintf("Quote version %d is now %s", quote.Version, status))
	}
	return nil
}

// Export renders the enquiry's quote table as a spreadsheet.
func (s *QuoteService) Export(ctx context.Context, principal model.Principal, enquiryID uuid.UUID) (string, []byte, error) {
	enquiry, err := s.getEnquiry(ctx, enquiryID)
	if err != nil {
		return "", nil, err
	}
	if principal.IsClient() && enquiry.ClientID != principal.UserID {
		return "", nil, ErrPermissionDenied
	}

	quotes, err := s.quotes.ListByEnquiry(ctx, enquiryID)
	if err != nil {
		return "", nil, err
	}

	content, err := s.excel.Generate(*enquiry, quotes)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("quotes-%s.xlsx", sanitizeFileName(enquiry.Subject))
	return fileName, content, nil
}

// ImportItems parses an uploaded spreadsheet into line items ready to
// replace an edit buffer's item list.
func (s *QuoteService) ImportItems(content []byte) ([]workbook.LineItem, error) {
	rows, err := s.importer.ParseItems(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet has no item rows", ErrInvalidInput)
	}
	return workbook.ImportItems(rows), nil
}

func (s *QuoteService) getEnquiry(ctx context.Context, id uuid.UUID) (*model.Enquiry, error) {
	enquiry, err := s.enquiries.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return enquiry, nil
}

func (s *QuoteService) isValidStatus(status string) bool {
	for _, valid := range s.cfg.Quotes.ValidStatuses {
		if valid == status {
			return true
		}
	}
	return false
}

// notify is best-effort: a failed notification never fails the mutation
// that triggered it.
func (s *QuoteService) notify(ctx context.Context, memberID uuid.UUID, title, body string) {
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

func validateVendorInput(vendor workbook.VendorAssignment) error {
	switch {
	case strings.TrimSpace(vendor.VendorID) == "":
		return fmt.Errorf("%w: vendor is required", ErrInvalidInput)
	case strings.TrimSpace(vendor.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case vendor.Quantity.Float() <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	case vendor.CostPerUnit.Float() <= 0:
		return fmt.Errorf("%w: cost per unit must be positive", ErrInvalidInput)
	case vendor.DeliveryDate.IsZero():
		return fmt.Errorf("%w: delivery date is required", ErrInvalidInput)
	}
	return nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
