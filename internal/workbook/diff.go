package workbook

import "slices"

type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// ItemChange describes one mutation of the item list, addressed by the
// item's position in the original version. Data is set for added entries,
// Changes for modified entries.
type ItemChange struct {
	Index   int                    `json:"index"`
	Type    ChangeType             `json:"type"`
	Data    *LineItem              `json:"data,omitempty"`
	Changes map[string]interface{} `json:"changes,omitempty"`
}

// Changeset is the minimal difference between an edited quote buffer and
// its last-synced snapshot. Only the fields present in Root and the
// entries in Items cross the network.
type Changeset struct {
	Root  map[string]interface{} `json:"rootFieldChanges"`
	Items []ItemChange           `json:"itemChanges"`
}

// Empty reports whether the changeset carries no work. Callers saving a
// quote must treat an empty changeset (with no staged attachment) as "no
// changes" and skip the network call entirely.
func (c Changeset) Empty() bool {
	return len(c.Root) == 0 && len(c.Items) == 0
}

// Recognized field names. These match the server's patch vocabulary; a
// field not listed here is never diffed or persisted incrementally.
var (
	rootNumericFields = []string{"taxPercent", "transport", "installation", "totalAmount"}
	rootTextFields    = []string{"reason", "notes"}
	itemTextFields    = []string{"description", "hsn", "unit"}
	itemNumericFields = []string{"quantity", "finalUnitPrice", "subtotal"}
)

// Diff compares an edited quote version against its original snapshot and
// produces the minimal changeset.
//
// Entries are emitted in ascending item index, with added and modified
// entries before removed ones. The server applies removals against the
// original item array in descending index order, so emission order of the
// removals themselves is not load-bearing, but the added/modified-first
// convention is part of the contract.
func Diff(original, edited QuoteVersion) Changeset {
	cs := Changeset{Root: map[string]interface{}{}}

	for _, field := range rootNumericFields {
		before := rootNumeric(original, field)
		after := rootNumeric(edited, field)
		if before != after {
			cs.Root[field] = after
		}
	}
	for _, field := range rootTextFields {
		before := rootText(original, field)
		after := rootText(edited, field)
		if before != after {
			cs.Root[field] = after
		}
	}
	if !slices.Equal(original.Attachments, edited.Attachments) {
		cs.Root["attachments"] = append([]string(nil), edited.Attachments...)
	}

	var removals []ItemChange
	for i := range edited.Items {
		if i >= len(original.Items) {
			added := NormalizeItem(edited.Items[i])
			cs.Items = append(cs.Items, ItemChange{Index: i, Type: ChangeAdded, Data: &added})
			continue
		}
		changes := diffItem(original.Items[i], edited.Items[i])
		if len(changes) > 0 {
			cs.Items = append(cs.Items, ItemChange{Index: i, Type: ChangeModified, Changes: changes})
		}
	}
	for i := len(edited.Items); i < len(original.Items); i++ {
		removals = append(removals, ItemChange{Index: i, Type: ChangeRemoved})
	}
	cs.Items = append(cs.Items, removals...)

	return cs
}

func diffItem(original, edited LineItem) map[string]interface{} {
	changes := map[string]interface{}{}
	for _, field := range itemTextFields {
		before := itemText(original, field)
		after := itemText(edited, field)
		if before != after {
			changes[field] = after
		}
	}
	for _, field := range itemNumericFields {
		before := itemNumeric(original, field)
		after := itemNumeric(edited, field)
		if before != after {
			changes[field] = after
		}
	}
	return changes
}

func rootNumeric(q QuoteVersion, field string) float64 {
	switch field {
	case "taxPercent":
		return q.TaxPercent.Float()
	case "transport":
		return q.Transport.Float()
	case "installation":
		return q.Installation.Float()
	case "totalAmount":
		return q.TotalAmount.Float()
	}
	return 0
}

func rootText(q QuoteVersion, field string) string {
	switch field {
	case "reason":
		return q.Reason
	case "notes":
		return q.Notes
	}
	return ""
}

func itemText(item LineItem, field string) string {
	switch field {
	case "description":
		return item.Description
	case "hsn":
		return item.HSN
	case "unit":
		return item.Unit
	}
	return ""
}

func itemNumeric(item LineItem, field string) float64 {
	switch field {
	case "quantity":
		return item.Quantity.Float()
	case "finalUnitPrice":
		return item.FinalUnitPrice.Float()
	case "subtotal":
		return item.Subtotal.Float()
	}
	return 0
}
