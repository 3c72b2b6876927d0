package workbook

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RowKey addresses one vendor assignment row by its position in the
// store: version index, item index, vendor index.
type RowKey struct {
	Version int
	Item    int
	Vendor  int
}

// Ledger manages per-row editing of vendor assignments. At most one row
// across the whole sub-ledger is in edit mode at a time; that is an edit
// session owned here, not a data-model invariant. Vendor mutations are
// persisted immediately, independent of any pending version-level diff.
type Ledger struct {
	store     *Store
	persister Persister
	log       zerolog.Logger
	editing   *RowKey
	buffer    VendorAssignment
	now       func() time.Time
}

func NewLedger(store *Store, persister Persister, log zerolog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		persister: persister,
		log:       log,
		now:       time.Now,
	}
}

// Editing returns the row currently in edit mode, if any.
func (l *Ledger) Editing() (RowKey, bool) {
	if l.editing == nil {
		return RowKey{}, false
	}
	return *l.editing, true
}

// Buffer returns the edit buffer of the active row.
func (l *Ledger) Buffer() VendorAssignment {
	return l.buffer
}

// SetBuffer replaces the edit buffer with the user's current field values.
func (l *Ledger) SetBuffer(vendor VendorAssignment) {
	rowID := l.buffer.RowID
	isNew := l.buffer.IsNew
	l.buffer = vendor
	l.buffer.RowID = rowID
	l.buffer.IsNew = isNew
}

// BeginAdd inserts a blank assignment at the end of the addressed item's
// vendor list and immediately enters edit mode for it. The delivery date
// defaults to today; the row is marked new so it can be discarded without
// a remote deletion.
func (l *Ledger) BeginAdd(versionIndex, itemIndex int) (RowKey, error) {
	if l.editing != nil {
		return RowKey{}, ErrEditInProgress
	}
	vendor := NormalizeVendor(VendorAssignment{
		DeliveryDate: l.now(),
		IsNew:        true,
	})
	l.store.AddVendor(versionIndex, itemIndex, vendor)

	item := l.store.Version(versionIndex).Items[itemIndex]
	key := RowKey{Version: versionIndex, Item: itemIndex, Vendor: len(item.Vendors) - 1}
	l.editing = &key
	l.buffer = item.Vendors[key.Vendor]
	return key, nil
}

// BeginEdit copies the addressed assignment into the edit buffer.
func (l *Ledger) BeginEdit(key RowKey) error {
	if l.editing != nil {
		return ErrEditInProgress
	}
	vendor := l.vendorAt(key)
	l.editing = &key
	l.buffer = vendor
	return nil
}

// CommitEdit validates the buffer, persists it, merges the result into
// the store and leaves edit mode. On validation failure the first missing
// field is reported and no network call happens. On a persistence failure
// the row stays in edit mode so the user can retry.
func (l *Ledger) CommitEdit(ctx context.Context) error {
	if l.editing == nil {
		return ErrNoChanges
	}
	key := *l.editing
	if err := validateVendor(l.buffer); err != nil {
		return err
	}

	quote := l.store.Version(key.Version)
	vendorIndex := key.Vendor
	if l.buffer.IsNew {
		vendorIndex = -1
	}
	committed := l.buffer
	committed.IsNew = false
	if err := l.persister.SaveVendor(ctx, quote.ID, key.Item, vendorIndex, committed); err != nil {
		return err
	}

	l.store.ReplaceVendor(key.Version, key.Item, key.Vendor, committed)
	l.editing = nil
	return nil
}

// CancelEdit drops the edit buffer without persisting. A row that was
// added and never committed stays in the store as a blank new row; the
// delete path below disposes of it locally.
func (l *Ledger) CancelEdit() {
	l.editing = nil
}

// DeleteVendor removes a vendor row. A row with no meaningful data, or
// one that was never persisted (IsNew), is removed locally without any
// network call. A persisted row is only removed locally after the server
// confirmed the deletion.
func (l *Ledger) DeleteVendor(ctx context.Context, key RowKey) error {
	vendor := l.vendorAt(key)

	persisted := !vendor.IsNew && !isBlankVendor(vendor)
	if persisted {
		quote := l.store.Version(key.Version)
		if err := l.persister.DeleteVendor(ctx, quote.ID, key.Item, vendor.VendorID); err != nil {
			return err
		}
	}

	l.store.RemoveVendorByRowID(key.Version, key.Item, vendor.RowID)
	if l.editing != nil && *l.editing == key {
		l.editing = nil
	}
	return nil
}

func (l *Ledger) vendorAt(key RowKey) VendorAssignment {
	item := l.store.Version(key.Version).Items[key.Item]
	return item.Vendors[key.Vendor]
}

func validateVendor(vendor VendorAssignment) error {
	switch {
	case strings.TrimSpace(vendor.VendorID) == "":
		return &ValidationError{Field: "vendor"}
	case strings.TrimSpace(vendor.Description) == "":
		return &ValidationError{Field: "description"}
	case vendor.Quantity.Float() <= 0:
		return &ValidationError{Field: "quantity"}
	case vendor.CostPerUnit.Float() <= 0:
		return &ValidationError{Field: "cost per unit"}
	case vendor.DeliveryDate.IsZero():
		return &ValidationError{Field: "delivery date"}
	}
	return nil
}

func isBlankVendor(vendor VendorAssignment) bool {
	return strings.TrimSpace(vendor.VendorID) == "" &&
		strings.TrimSpace(vendor.Description) == "" &&
		vendor.Quantity == 0 &&
		vendor.CostPerUnit == 0
}
