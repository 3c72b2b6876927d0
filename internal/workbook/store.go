package workbook

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Store holds the quote versions of the currently open enquiry. It is the
// single shared mutable structure among the editing components; callers
// serialize access (there is one writer by construction), and every
// mutation is visible synchronously. Network calls happen in the calling
// component; the store is only updated after a call succeeds.
type Store struct {
	versions []QuoteVersion
	log      zerolog.Logger
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// ReplaceAll overwrites the whole collection, used after an initial fetch.
func (s *Store) ReplaceAll(versions []QuoteVersion) {
	s.versions = make([]QuoteVersion, len(versions))
	for i, v := range versions {
		s.versions[i] = normalizeVersion(v)
	}
}

// AppendVersion adds a newly created quote version after a successful
// "New Quote" submission.
func (s *Store) AppendVersion(version QuoteVersion) {
	s.versions = append(s.versions, normalizeVersion(version))
}

// normalizeVersion canonicalizes a version before it enters the store.
// Row ids never travel over the wire, so fetched items and vendors arrive
// without them; assigning ids here keeps row-addressed mutations such as
// RemoveVendorByRowID unambiguous. Vendor delivery status also gets its
// Pending default.
func normalizeVersion(v QuoteVersion) QuoteVersion {
	out := v.Clone()
	for i := range out.Items {
		out.Items[i] = NormalizeItem(out.Items[i])
	}
	return out
}

// Reset clears the store, e.g. when the enquiry is closed or the user
// logs out.
func (s *Store) Reset() {
	s.versions = nil
}

func (s *Store) Len() int {
	return len(s.versions)
}

// Versions returns a deep copy of the collection.
func (s *Store) Versions() []QuoteVersion {
	out := make([]QuoteVersion, len(s.versions))
	for i, v := range s.versions {
		out[i] = v.Clone()
	}
	return out
}

// Version returns a copy of the version at position i.
func (s *Store) Version(i int) QuoteVersion {
	return s.versions[i].Clone()
}

// FindByLabel returns a copy of the version whose label equals the given
// selection.
func (s *Store) FindByLabel(label string) (QuoteVersion, bool) {
	for _, v := range s.versions {
		if v.Version == label {
			return v.Clone(), true
		}
	}
	return QuoteVersion{}, false
}

// ApplyRootAndItemDiff merges a persisted changeset into the stored
// version. An unknown version id is a recoverable inconsistency (the list
// may have been refetched underneath us): it is logged and ignored.
//
// Removals are applied in descending index order against the item array as
// it stood before any removal, so earlier removals never shift the indices
// of later ones.
func (s *Store) ApplyRootAndItemDiff(versionID string, cs Changeset) {
	idx := -1
	for i := range s.versions {
		if s.versions[i].ID == versionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.Warn().Str("quote_id", versionID).Msg("diff addressed unknown quote version, skipping")
		return
	}
	version := &s.versions[idx]

	applyRootChanges(version, cs.Root)

	var removals []int
	for _, change := range cs.Items {
		switch change.Type {
		case ChangeAdded:
			if change.Data != nil {
				version.Items = append(version.Items, NormalizeItem(*change.Data))
			}
		case ChangeModified:
			if change.Index >= 0 && change.Index < len(version.Items) {
				applyItemChanges(&version.Items[change.Index], change.Changes)
			}
		case ChangeRemoved:
			removals = append(removals, change.Index)
		}
	}
	for i := len(removals) - 1; i >= 0; i-- {
		pos := removals[i]
		if pos < 0 || pos >= len(version.Items) {
			continue
		}
		version.Items = append(version.Items[:pos], version.Items[pos+1:]...)
	}
}

// AddVendor appends a vendor assignment to the addressed line item. The
// indices originate from iteration over this same store, so an
// out-of-range index is a programming error and panics.
func (s *Store) AddVendor(versionIndex, itemIndex int, vendor VendorAssignment) {
	item := s.mustItem(versionIndex, itemIndex)
	item.Vendors = append(item.Vendors, NormalizeVendor(vendor))
}

// ReplaceVendor overwrites the vendor assignment at vendorIndex.
func (s *Store) ReplaceVendor(versionIndex, itemIndex, vendorIndex int, vendor VendorAssignment) {
	item := s.mustItem(versionIndex, itemIndex)
	if vendorIndex < 0 || vendorIndex >= len(item.Vendors) {
		panic(fmt.Sprintf("workbook: vendor index %d out of range", vendorIndex))
	}
	rowID := item.Vendors[vendorIndex].RowID
	vendor.RowID = rowID
	item.Vendors[vendorIndex] = NormalizeVendor(vendor)
}

// RemoveVendorByRowID deletes the vendor assignment with the given local
// row id. Unknown row ids are ignored: the row may already be gone after
// a concurrent refetch.
func (s *Store) RemoveVendorByRowID(versionIndex, itemIndex int, rowID string) {
	item := s.mustItem(versionIndex, itemIndex)
	for i := range item.Vendors {
		if item.Vendors[i].RowID == rowID {
			item.Vendors = append(item.Vendors[:i], item.Vendors[i+1:]...)
			return
		}
	}
}

// SetStatus overwrites the status of the matching version only. Status is
// mutated exclusively through this operation, independent of other edits.
func (s *Store) SetStatus(versionID string, status QuoteStatus) {
	for i := range s.versions {
		if s.versions[i].ID == versionID {
			s.versions[i].Status = status
			return
		}
	}
	s.log.Warn().Str("quote_id", versionID).Msg("status change addressed unknown quote version, skipping")
}

func (s *Store) mustItem(versionIndex, itemIndex int) *LineItem {
	if versionIndex < 0 || versionIndex >= len(s.versions) {
		panic(fmt.Sprintf("workbook: version index %d out of range", versionIndex))
	}
	version := &s.versions[versionIndex]
	if itemIndex < 0 || itemIndex >= len(version.Items) {
		panic(fmt.Sprintf("workbook: item index %d out of range", itemIndex))
	}
	return &version.Items[itemIndex]
}

func applyRootChanges(version *QuoteVersion, changes map[string]interface{}) {
	for field, value := range changes {
		switch field {
		case "taxPercent":
			version.TaxPercent = LooseFloat(asFloat(value))
		case "transport":
			version.Transport = LooseFloat(asFloat(value))
		case "installation":
			version.Installation = LooseFloat(asFloat(value))
		case "totalAmount":
			version.TotalAmount = LooseFloat(asFloat(value))
		case "reason":
			version.Reason = asString(value)
		case "notes":
			version.Notes = asString(value)
		case "attachments":
			if urls, ok := value.([]string); ok {
				version.Attachments = append([]string(nil), urls...)
			}
		}
	}
}

func applyItemChanges(item *LineItem, changes map[string]interface{}) {
	for field, value := range changes {
		switch field {
		case "description":
			item.Description = asString(value)
		case "hsn":
			item.HSN = asString(value)
		case "unit":
			item.Unit = asString(value)
		case "quantity":
			item.Quantity = LooseFloat(asFloat(value))
		case "finalUnitPrice":
			item.FinalUnitPrice = LooseFloat(asFloat(value))
		case "subtotal":
			item.Subtotal = LooseFloat(asFloat(value))
		}
	}
}

func asFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case LooseFloat:
		return v.Float()
	case int:
		return float64(v)
	}
	return 0
}

func asString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
