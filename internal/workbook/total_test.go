package workbook

import "testing"

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{Quantity: 4, FinalUnitPrice: 150},
		{Quantity: 2, FinalUnitPrice: 200},
	}
	totals := ComputeTotal(items, 50, 20, 10)

	if totals.SubtotalSum != 1000 {
		t.Errorf("subtotal sum = %v, want 1000", totals.SubtotalSum)
	}
	if totals.TaxAmount != 100 {
		t.Errorf("tax = %v, want 100", totals.TaxAmount)
	}
	if totals.TotalAmount != 1170 {
		t.Errorf("total = %v, want 1170", totals.TotalAmount)
	}
}

func TestComputeTotalIgnoresStoredSubtotal(t *testing.T) {
	// Stored subtotals can be stale mid-edit; the sum always comes from
	// quantity times price.
	items := []LineItem{{Quantity: 3, FinalUnitPrice: 150, Subtotal: 999999}}
	totals := ComputeTotal(items, 0, 0, 0)
	if totals.SubtotalSum != 450 {
		t.Errorf("subtotal sum = %v, want 450", totals.SubtotalSum)
	}
}

func TestTotalsRounded(t *testing.T) {
	items := []LineItem{{Quantity: 3, FinalUnitPrice: 33.333}}
	totals := ComputeTotal(items, 0, 0, 0).Rounded()
	if totals.TotalAmount != 100.00 {
		t.Errorf("rounded total = %v, want 100.00", totals.TotalAmount)
	}
}

func TestToggleGST(t *testing.T) {
	itemsTotal := 2000.0

	cgst := ToggleGST(itemsTotal, true)
	if cgst != 180 {
		t.Errorf("cgst = %v, want 180", cgst)
	}

	sgst := ToggleGST(itemsTotal, true)
	cgst = ToggleGST(itemsTotal, false)
	if cgst != 0 {
		t.Errorf("unchecked cgst = %v, want 0", cgst)
	}
	if sgst != 180 {
		t.Errorf("sgst must be independent of cgst toggle, got %v", sgst)
	}
}

func TestToggleGSTExcludesCharges(t *testing.T) {
	// The 9% base is the item amounts only; transport and installation
	// enter the total but never the tax base.
	itemsTotal := 1000.0
	cgst := ToggleGST(itemsTotal, true)
	total := InvoiceTotal(itemsTotal, 300, 200, cgst, 0, 0)
	if cgst != 90 {
		t.Errorf("cgst = %v, want 90", cgst)
	}
	if total != 1590 {
		t.Errorf("invoice total = %v, want 1590", total)
	}
}
