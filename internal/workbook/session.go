package workbook

import (
	"context"

	"github.com/rs/zerolog"
)

// Session is the edit workflow for one enquiry's quote workbook: it owns
// the edit buffer, the last-synced snapshot it is diffed against, and the
// staged attachment. Field edits flow through the setters so the subtotal
// and total invariants hold after every keystroke.
type Session struct {
	store     *Store
	persister Persister
	log       zerolog.Logger

	enquiryID  string
	buffer     QuoteVersion
	snapshot   QuoteVersion
	attachment *Upload
}

func NewSession(store *Store, persister Persister, log zerolog.Logger) *Session {
	return &Session{
		store:     store,
		persister: persister,
		log:       log,
		buffer:    BlankTemplate(),
		snapshot:  BlankTemplate(),
	}
}

// Load fetches the enquiry's versions into the store and resets the
// buffer to a new draft.
func (s *Session) Load(ctx context.Context, enquiryID string) error {
	versions, err := s.persister.FetchQuotes(ctx, enquiryID)
	if err != nil {
		return err
	}
	s.enquiryID = enquiryID
	s.store.ReplaceAll(versions)
	s.Select(DraftMarker)
	return nil
}

// Select switches the buffer to the chosen version label, discarding any
// in-progress edits. The snapshot is what a later save diffs against.
func (s *Session) Select(label string) {
	s.buffer = Hydrate(s.store, label, s.buffer)
	s.snapshot = s.buffer.Clone()
	s.attachment = nil
}

// Buffer returns a copy of the current edit buffer.
func (s *Session) Buffer() QuoteVersion {
	return s.buffer.Clone()
}

// SetRootField updates one quote-level field in the buffer and keeps the
// derived total current.
func (s *Session) SetRootField(field string, value interface{}) {
	applyRootChanges(&s.buffer, map[string]interface{}{field: value})
	s.recomputeTotal()
}

// SetItemField updates one field of the item at position i. Edits to
// quantity or unit price recompute the item subtotal immediately.
func (s *Session) SetItemField(i int, field string, value interface{}) {
	if i < 0 || i >= len(s.buffer.Items) {
		return
	}
	item := &s.buffer.Items[i]
	applyItemChanges(item, map[string]interface{}{field: value})
	if field == "quantity" || field == "finalUnitPrice" {
		item.Subtotal = LooseFloat(item.Quantity.Float() * item.FinalUnitPrice.Float())
	}
	s.recomputeTotal()
}

// AddItem appends a blank line item to the buffer.
func (s *Session) AddItem() {
	s.buffer.Items = append(s.buffer.Items, LineItem{RowID: newRowID()})
}

// RemoveItem deletes the item at position i from the buffer.
func (s *Session) RemoveItem(i int) {
	if i < 0 || i >= len(s.buffer.Items) {
		return
	}
	s.buffer.Items = append(s.buffer.Items[:i], s.buffer.Items[i+1:]...)
	s.recomputeTotal()
}

// ReplaceItems overwrites the buffer's items wholesale, used by the bulk
// spreadsheet import.
func (s *Session) ReplaceItems(items []LineItem) {
	s.buffer.Items = cloneItems(items)
	s.recomputeTotal()
}

// StageAttachment holds a file to be uploaded with the next save. A
// staged attachment counts as a change even when no field differs.
func (s *Session) StageAttachment(upload Upload) {
	s.attachment = &upload
}

// Totals returns the current derived totals, rounded for display.
func (s *Session) Totals() Totals {
	return ComputeTotal(s.buffer.Items, s.buffer.Transport.Float(), s.buffer.Installation.Float(), s.buffer.TaxPercent.Float()).Rounded()
}

// Save persists the buffer. A draft is created whole; an existing version
// is diffed against the snapshot and only the changeset crosses the
// network. ErrNoChanges is returned, without any network call, when there
// is nothing to persist. The store is updated only after success.
func (s *Session) Save(ctx context.Context) error {
	if s.buffer.Version == DraftMarker {
		return s.saveDraft(ctx)
	}

	cs := Diff(s.snapshot, s.buffer)
	if cs.Empty() && s.attachment == nil {
		return ErrNoChanges
	}
	if err := s.persister.UpdateQuote(ctx, s.snapshot.ID, cs, s.attachment); err != nil {
		return err
	}
	s.store.ApplyRootAndItemDiff(s.snapshot.ID, cs)
	s.buffer.ID = s.snapshot.ID
	s.snapshot = s.buffer.Clone()
	s.attachment = nil
	return nil
}

func (s *Session) saveDraft(ctx context.Context) error {
	var attachments []Upload
	if s.attachment != nil {
		attachments = append(attachments, *s.attachment)
	}
	created, err := s.persister.CreateQuote(ctx, s.enquiryID, s.buffer, attachments)
	if err != nil {
		return err
	}
	s.store.AppendVersion(created)
	s.buffer = created.Clone()
	s.snapshot = created.Clone()
	s.attachment = nil
	return nil
}

// SetStatus changes a stored version's status through the dedicated
// endpoint, independent of any pending edits.
func (s *Session) SetStatus(ctx context.Context, quoteID string, status QuoteStatus) error {
	if err := s.persister.UpdateStatus(ctx, quoteID, status); err != nil {
		return err
	}
	s.store.SetStatus(quoteID, status)
	return nil
}

// DeleteAttachment removes a persisted attachment by index, server first.
func (s *Session) DeleteAttachment(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.snapshot.Attachments) {
		return ErrNoChanges
	}
	if err := s.persister.DeleteAttachment(ctx, s.snapshot.ID, index); err != nil {
		return err
	}
	s.snapshot.Attachments = append(s.snapshot.Attachments[:index], s.snapshot.Attachments[index+1:]...)
	s.buffer.Attachments = append([]string(nil), s.snapshot.Attachments...)
	s.store.ApplyRootAndItemDiff(s.snapshot.ID, Changeset{
		Root: map[string]interface{}{"attachments": append([]string(nil), s.snapshot.Attachments...)},
	})
	return nil
}

func (s *Session) recomputeTotal() {
	totals := ComputeTotal(s.buffer.Items, s.buffer.Transport.Float(), s.buffer.Installation.Float(), s.buffer.TaxPercent.Float())
	s.buffer.TotalAmount = LooseFloat(totals.TotalAmount)
}
