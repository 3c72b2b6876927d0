package workbook

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestReplaceAllNormalizesFetchedRows(t *testing.T) {
	version := baseVersion()
	version.Items[0].RowID = ""
	version.Items[0].Vendors = []VendorAssignment{
		{VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10},
	}
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{version})

	item := store.Version(0).Items[0]
	if item.RowID == "" {
		t.Error("fetched items must get a local row id")
	}
	vendor := item.Vendors[0]
	if vendor.RowID == "" {
		t.Error("fetched vendors must get a local row id")
	}
	if vendor.DeliveryStatus != DeliveryStatusPending {
		t.Errorf("delivery status = %s, want Pending", vendor.DeliveryStatus)
	}
}

func TestApplyRootAndItemDiff(t *testing.T) {
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})

	lamp := NormalizeItem(LineItem{Description: "Lamp", Quantity: 3, FinalUnitPrice: 150})
	store.ApplyRootAndItemDiff("q1", Changeset{
		Root: map[string]interface{}{"transport": 250.0, "notes": "rush order"},
		Items: []ItemChange{
			{Index: 0, Type: ChangeModified, Changes: map[string]interface{}{"quantity": 5.0, "subtotal": 2500.0}},
			{Index: 2, Type: ChangeAdded, Data: &lamp},
			{Index: 1, Type: ChangeRemoved},
		},
	})

	got := store.Version(0)
	if got.Transport != 250 || got.Notes != "rush order" {
		t.Errorf("root fields not applied: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Quantity != 5 {
		t.Errorf("item 0 quantity = %v, want 5", got.Items[0].Quantity)
	}
	if got.Items[1].Description != "Lamp" {
		t.Errorf("surviving second item = %q, want Lamp", got.Items[1].Description)
	}
}

func TestApplyDiffRemovalsDescending(t *testing.T) {
	version := baseVersion()
	version.Items = append(version.Items, LineItem{RowID: "c", Description: "Lamp", Quantity: 1, FinalUnitPrice: 100, Subtotal: 100})
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{version})

	// Removing indices 0 and 2 must leave exactly the middle item;
	// ascending application would strike the wrong rows.
	store.ApplyRootAndItemDiff("q1", Changeset{
		Items: []ItemChange{
			{Index: 0, Type: ChangeRemoved},
			{Index: 2, Type: ChangeRemoved},
		},
	})

	got := store.Version(0)
	if len(got.Items) != 1 || got.Items[0].Description != "Chair" {
		t.Errorf("surviving items = %+v, want only Chair", got.Items)
	}
}

func TestApplyDiffUnknownVersionIsNoop(t *testing.T) {
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})

	store.ApplyRootAndItemDiff("missing", Changeset{
		Root: map[string]interface{}{"transport": 999.0},
	})

	if got := store.Version(0).Transport; got != 100 {
		t.Errorf("unknown version id must not mutate the store, transport = %v", got)
	}
}

func TestSetStatus(t *testing.T) {
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})

	store.SetStatus("q1", QuoteStatusApproved)
	if got := store.Version(0).Status; got != QuoteStatusApproved {
		t.Errorf("status = %s, want Approved", got)
	}
	if got := store.Version(0).Reason; got != "initial" {
		t.Errorf("status change must not touch other fields, reason = %q", got)
	}
}

func TestVendorMutationOutOfRangePanics(t *testing.T) {
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})

	defer func() {
		if recover() == nil {
			t.Error("out-of-range item index must panic")
		}
	}()
	store.AddVendor(0, 99, VendorAssignment{})
}

func TestVersionsReturnsCopies(t *testing.T) {
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})

	snapshot := store.Versions()
	snapshot[0].Items[0].Description = "mutated"

	if got := store.Version(0).Items[0].Description; got != "Desk" {
		t.Errorf("store leaked internal state, description = %q", got)
	}
}
