package workbook

// BlankTemplate is the edit buffer for a fresh "New Quote" draft: one
// empty line item, zeroed charges, no attachments.
func BlankTemplate() QuoteVersion {
	return QuoteVersion{
		Version: DraftMarker,
		Status:  QuoteStatusDraft,
		Items: []LineItem{
			{RowID: newRowID()},
		},
		Attachments: []string{},
	}
}

// Hydrate translates a version selection into a populated edit buffer.
// The draft marker resets to the blank template, discarding any
// in-progress edits. An existing label copies the matching stored version
// into a fresh buffer. An unknown label (which the selector should never
// produce) leaves the current buffer unchanged.
func Hydrate(store *Store, selection string, current QuoteVersion) QuoteVersion {
	if selection == DraftMarker {
		return BlankTemplate()
	}
	version, ok := store.FindByLabel(selection)
	if !ok {
		return current
	}
	buffer := version.Clone()
	for i := range buffer.Items {
		if buffer.Items[i].RowID == "" {
			buffer.Items[i].RowID = newRowID()
		}
	}
	if buffer.Attachments == nil {
		buffer.Attachments = []string{}
	}
	return buffer
}

// ImportRow is one row of an externally parsed tabular dataset (e.g. an
// uploaded spreadsheet) with description/unit/quantity/price/amount
// columns.
type ImportRow struct {
	Description string
	Unit        string
	Quantity    LooseFloat
	UnitPrice   LooseFloat
	Amount      LooseFloat
}

// ImportItems maps imported rows into line items. The subtotal is taken
// from the imported amount column as-is, not recomputed, so rounding done
// in the source sheet survives the import. The result replaces a buffer's
// items wholesale; import never merges.
func ImportItems(rows []ImportRow) []LineItem {
	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, LineItem{
			RowID:          newRowID(),
			Description:    row.Description,
			Unit:           row.Unit,
			Quantity:       row.Quantity,
			FinalUnitPrice: row.UnitPrice,
			Subtotal:       row.Amount,
		})
	}
	return items
}
