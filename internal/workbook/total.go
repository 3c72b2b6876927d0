package workbook

// Totals is the derived summary of a quote version buffer.
type Totals struct {
	SubtotalSum float64
	TaxAmount   float64
	TotalAmount float64
}

// Rounded returns the totals with TotalAmount rounded to two decimals for
// display. Persistence uses the unrounded value.
func (t Totals) Rounded() Totals {
	t.TotalAmount = round2(t.TotalAmount)
	return t
}

// ComputeTotal derives taxable amount, tax and grand total for a quote
// buffer. Subtotals are recomputed from quantity and unit price rather
// than trusted from the stored field, so an in-flight item edit can never
// leave the displayed total stale.
func ComputeTotal(items []LineItem, transport, installation, taxPercent float64) Totals {
	subtotalSum := 0.0
	for _, item := range items {
		subtotalSum += item.Quantity.Float() * item.FinalUnitPrice.Float()
	}
	taxAmount := subtotalSum * taxPercent / 100
	return Totals{
		SubtotalSum: subtotalSum,
		TaxAmount:   taxAmount,
		TotalAmount: subtotalSum + taxAmount + transport + installation,
	}
}

// gstToggleRate is the fixed per-tax rate applied when a CGST/SGST/IGST
// toggle is checked on a plain invoice.
const gstToggleRate = 9.0

// ToggleGST returns the tax amount for one GST component: 9% of the item
// amounts (transport and installation charges are excluded from the base)
// when the toggle is on, zero when it is off. Each of CGST, SGST and IGST
// is toggled independently.
func ToggleGST(itemsTotal float64, enabled bool) float64 {
	if !enabled {
		return 0
	}
	return itemsTotal * gstToggleRate / 100
}

// InvoiceTotal is the plain (non-revision) invoice total: item amounts
// plus charges plus whichever GST components are currently set.
func InvoiceTotal(itemsTotal, transport, installation, cgst, sgst, igst float64) float64 {
	return itemsTotal + transport + installation + cgst + sgst + igst
}
