package workbook

import "context"

// Upload is a file staged for a multipart request.
type Upload struct {
	Name    string
	Content []byte
}

// Persister is the remote persistence collaborator behind the workbook.
// Every call may fail; the workbook never retries and never mutates the
// store before a call has succeeded. internal/client implements this over
// the quotedesk HTTP API.
type Persister interface {
	// FetchQuotes returns the ordered quote versions of an enquiry.
	FetchQuotes(ctx context.Context, enquiryID string) ([]QuoteVersion, error)

	// CreateQuote persists a new draft and returns it with its assigned
	// id and version label.
	CreateQuote(ctx context.Context, enquiryID string, quote QuoteVersion, attachments []Upload) (QuoteVersion, error)

	// UpdateQuote applies a partial changeset to an existing version,
	// optionally with one newly staged attachment.
	UpdateQuote(ctx context.Context, quoteID string, cs Changeset, attachment *Upload) error

	// SaveVendor adds or replaces a vendor assignment. vendorIndex is the
	// position within the item's vendor list; -1 appends.
	SaveVendor(ctx context.Context, quoteID string, itemIndex, vendorIndex int, vendor VendorAssignment) error

	// DeleteVendor removes a persisted vendor assignment.
	DeleteVendor(ctx context.Context, quoteID string, itemIndex int, vendorID string) error

	// DeleteAttachment removes the attachment at the given index.
	DeleteAttachment(ctx context.Context, quoteID string, attachmentIndex int) error

	// UpdateStatus changes a version's status, independent of other edits.
	UpdateStatus(ctx context.Context, quoteID string, status QuoteStatus) error

	// ListMembers returns the team members used for vendor selection.
	ListMembers(ctx context.Context) ([]Member, error)
}
