package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/workbook"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func storedQuote() model.Quote {
	return model.Quote{
		Items: model.ItemList{
			{Description: "Desk", HSN: "9403", Unit: "pcs", Quantity: 2, FinalUnitPrice: 100, Subtotal: 200},
			{Description: "Chair", HSN: "9401", Unit: "pcs", Quantity: 4, FinalUnitPrice: 50, Subtotal: 200},
			{Description: "Lamp", HSN: "9405", Unit: "pcs", Quantity: 1, FinalUnitPrice: 80, Subtotal: 80},
		},
		TaxPercent:  18,
		Transport:   100,
		Attachments: model.StringList{"/uploads/a.pdf"},
	}
}

func TestApplyChangesetRootFields(t *testing.T) {
	quote := storedQuote()
	cs := workbook.Changeset{Root: map[string]interface{}{
		"transport": "250",
		"notes":     "revised freight",
	}}

	if err := applyChangeset(&quote, cs); err != nil {
		t.Fatalf("applyChangeset: %v", err)
	}
	if quote.Transport != 250 {
		t.Errorf("transport = %v, want 250", quote.Transport)
	}
	if quote.Notes != "revised freight" {
		t.Errorf("notes = %q", quote.Notes)
	}
}

func TestApplyChangesetUnknownRootField(t *testing.T) {
	quote := storedQuote()
	cs := workbook.Changeset{Root: map[string]interface{}{"surcharge": 10}}

	if err := applyChangeset(&quote, cs); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestApplyChangesetItemMutations(t *testing.T) {
	quote := storedQuote()
	added := workbook.LineItem{Description: "Shelf", Quantity: 3, FinalUnitPrice: 150, Subtotal: 450}
	cs := workbook.Changeset{Items: []workbook.ItemChange{
		{Index: 1, Type: workbook.ChangeModified, Changes: map[string]interface{}{"quantity": 6, "subtotal": 300}},
		{Index: 3, Type: workbook.ChangeAdded, Data: &added},
	}}

	if err := applyChangeset(&quote, cs); err != nil {
		t.Fatalf("applyChangeset: %v", err)
	}
	if len(quote.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(quote.Items))
	}
	if quote.Items[1].Quantity.Float() != 6 {
		t.Errorf("quantity = %v, want 6", quote.Items[1].Quantity)
	}
	if quote.Items[3].Description != "Shelf" {
		t.Errorf("added item = %+v", quote.Items[3])
	}
}

// Removal indexes refer to the array as it was before any removal, so
// applying them from the highest index down must not shift the rows
// still pending removal.
func TestApplyChangesetRemovalsDescend(t *testing.T) {
	quote := storedQuote()
	cs := workbook.Changeset{Items: []workbook.ItemChange{
		{Index: 0, Type: workbook.ChangeRemoved},
		{Index: 2, Type: workbook.ChangeRemoved},
	}}

	if err := applyChangeset(&quote, cs); err != nil {
		t.Fatalf("applyChangeset: %v", err)
	}
	if len(quote.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(quote.Items))
	}
	if quote.Items[0].Description != "Chair" {
		t.Errorf("surviving item = %q, want Chair", quote.Items[0].Description)
	}
}

func TestApplyChangesetRemovedIndexOutOfRange(t *testing.T) {
	quote := storedQuote()
	cs := workbook.Changeset{Items: []workbook.ItemChange{
		{Index: 9, Type: workbook.ChangeRemoved},
	}}

	if err := applyChangeset(&quote, cs); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestValidateVendorInput(t *testing.T) {
	base := workbook.VendorAssignment{
		VendorID:     "3e9d2f6a-4c1b-4b62-9a0e-79df6a1f8e11",
		Description:  "Frames",
		Quantity:     5,
		CostPerUnit:  40,
		DeliveryDate: mustDate(t, "2026-09-15"),
	}

	if err := validateVendorInput(base); err != nil {
		t.Fatalf("valid vendor rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*workbook.VendorAssignment)
	}{
		{"missing vendor", func(v *workbook.VendorAssignment) { v.VendorID = "" }},
		{"missing description", func(v *workbook.VendorAssignment) { v.Description = " " }},
		{"zero quantity", func(v *workbook.VendorAssignment) { v.Quantity = 0 }},
		{"zero cost", func(v *workbook.VendorAssignment) { v.CostPerUnit = 0 }},
		{"missing date", func(v *workbook.VendorAssignment) { v.DeliveryDate = mustDate(t, "0001-01-01") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vendor := base
			tc.mutate(&vendor)
			if err := validateVendorInput(vendor); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := sanitizeFileName("Office fit-out / Phase 2"); got != "Office-fit-out---Phase-2" {
		t.Errorf("sanitizeFileName = %q", got)
	}
	if got := sanitizeFileName("///"); got != "" {
		t.Errorf("sanitizeFileName = %q, want empty", got)
	}
}
