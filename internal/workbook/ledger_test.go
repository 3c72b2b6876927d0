package workbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func ledgerFixture(t *testing.T) (*Store, *Ledger, *fakePersister) {
	t.Helper()
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{baseVersion()})
	persister := &fakePersister{}
	ledger := NewLedger(store, persister, zerolog.Nop())
	return store, ledger, persister
}

func TestBeginAddEntersEditMode(t *testing.T) {
	store, ledger, _ := ledgerFixture(t)

	key, err := ledger.BeginAdd(0, 0)
	if err != nil {
		t.Fatalf("BeginAdd: %v", err)
	}
	if key.Vendor != 0 {
		t.Errorf("new row index = %d, want 0", key.Vendor)
	}

	row := store.Version(0).Items[0].Vendors[0]
	if !row.IsNew {
		t.Error("new row must be marked IsNew")
	}
	if row.DeliveryStatus != DeliveryStatusPending {
		t.Errorf("delivery status = %s, want Pending", row.DeliveryStatus)
	}
	if row.DeliveryDate.IsZero() {
		t.Error("delivery date must default to now")
	}

	if _, err := ledger.BeginAdd(0, 1); !errors.Is(err, ErrEditInProgress) {
		t.Errorf("second BeginAdd = %v, want ErrEditInProgress", err)
	}
}

func TestCommitEditValidation(t *testing.T) {
	_, ledger, persister := ledgerFixture(t)
	if _, err := ledger.BeginAdd(0, 0); err != nil {
		t.Fatalf("BeginAdd: %v", err)
	}

	cases := []struct {
		name   string
		buffer VendorAssignment
		field  string
	}{
		{"missing vendor", VendorAssignment{Description: "steel", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now()}, "vendor"},
		{"blank description", VendorAssignment{VendorID: "m1", Description: "  ", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now()}, "description"},
		{"zero quantity", VendorAssignment{VendorID: "m1", Description: "steel", CostPerUnit: 10, DeliveryDate: time.Now()}, "quantity"},
		{"zero cost", VendorAssignment{VendorID: "m1", Description: "steel", Quantity: 2, DeliveryDate: time.Now()}, "cost per unit"},
		{"zero date", VendorAssignment{VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10}, "delivery date"},
	}
	for _, tc := range cases {
		ledger.SetBuffer(tc.buffer)
		err := ledger.CommitEdit(context.Background())
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: err = %v, want ValidationError", tc.name, err)
		}
		if vErr.Field != tc.field {
			t.Errorf("%s: field = %q, want %q", tc.name, vErr.Field, tc.field)
		}
	}
	if len(persister.vendorSaves) != 0 {
		t.Errorf("validation failures must not reach the network: %v", persister.vendorSaves)
	}
	if _, editing := ledger.Editing(); !editing {
		t.Error("edit mode must survive a validation failure")
	}
}

func TestCommitEditPersistsAndMerges(t *testing.T) {
	store, ledger, persister := ledgerFixture(t)
	if _, err := ledger.BeginAdd(0, 1); err != nil {
		t.Fatalf("BeginAdd: %v", err)
	}
	ledger.SetBuffer(VendorAssignment{
		VendorID:     "m1",
		Description:  "chair frames",
		Quantity:     4,
		CostPerUnit:  120,
		Advance:      100,
		DeliveryDate: time.Now(),
	})

	if err := ledger.CommitEdit(context.Background()); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	if len(persister.vendorSaves) != 1 || persister.vendorSaves[0] != "q1/1/-1/m1" {
		t.Errorf("vendor saves = %v", persister.vendorSaves)
	}

	row := store.Version(0).Items[1].Vendors[0]
	if row.IsNew {
		t.Error("committed row must not stay IsNew")
	}
	if row.Description != "chair frames" {
		t.Errorf("merged description = %q", row.Description)
	}
	if _, editing := ledger.Editing(); editing {
		t.Error("commit must leave edit mode")
	}
}

func TestCommitEditKeepsEditModeOnFailure(t *testing.T) {
	_, ledger, persister := ledgerFixture(t)
	if _, err := ledger.BeginAdd(0, 0); err != nil {
		t.Fatalf("BeginAdd: %v", err)
	}
	ledger.SetBuffer(VendorAssignment{
		VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now(),
	})
	persister.failNext = errors.New("boom")

	if err := ledger.CommitEdit(context.Background()); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, editing := ledger.Editing(); !editing {
		t.Error("edit mode must survive a persistence failure")
	}
}

func TestDeleteVendorBranching(t *testing.T) {
	store, ledger, persister := ledgerFixture(t)
	ctx := context.Background()

	// Persisted row, populated, not new: remote delete required.
	store.AddVendor(0, 0, VendorAssignment{
		VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now(),
	})
	// Populated but never persisted.
	store.AddVendor(0, 0, VendorAssignment{
		VendorID: "m2", Description: "glass", Quantity: 1, CostPerUnit: 5, DeliveryDate: time.Now(), IsNew: true,
	})
	// Fully blank unsaved row.
	store.AddVendor(0, 0, VendorAssignment{IsNew: true})

	if err := ledger.DeleteVendor(ctx, RowKey{Version: 0, Item: 0, Vendor: 2}); err != nil {
		t.Fatalf("delete blank row: %v", err)
	}
	if err := ledger.DeleteVendor(ctx, RowKey{Version: 0, Item: 0, Vendor: 1}); err != nil {
		t.Fatalf("delete new row: %v", err)
	}
	if len(persister.vendorDels) != 0 {
		t.Fatalf("unsaved rows must not trigger remote deletes: %v", persister.vendorDels)
	}

	if err := ledger.DeleteVendor(ctx, RowKey{Version: 0, Item: 0, Vendor: 0}); err != nil {
		t.Fatalf("delete persisted row: %v", err)
	}
	if len(persister.vendorDels) != 1 || persister.vendorDels[0] != "q1/0/m1" {
		t.Errorf("vendor deletes = %v", persister.vendorDels)
	}
	if got := len(store.Version(0).Items[0].Vendors); got != 0 {
		t.Errorf("remaining vendors = %d, want 0", got)
	}
}

func TestDeleteVendorOnFetchedRows(t *testing.T) {
	// Rows as decoded off the wire carry no local row ids; ingest must
	// assign them so a delete strikes the addressed row and not merely
	// the first unlabeled one.
	version := baseVersion()
	version.Items[0].Vendors = []VendorAssignment{
		{VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now()},
		{VendorID: "m2", Description: "glass", Quantity: 1, CostPerUnit: 5, DeliveryDate: time.Now()},
	}
	store := NewStore(zerolog.Nop())
	store.ReplaceAll([]QuoteVersion{version})
	persister := &fakePersister{}
	ledger := NewLedger(store, persister, zerolog.Nop())

	if err := ledger.DeleteVendor(context.Background(), RowKey{Version: 0, Item: 0, Vendor: 1}); err != nil {
		t.Fatalf("DeleteVendor: %v", err)
	}
	if len(persister.vendorDels) != 1 || persister.vendorDels[0] != "q1/0/m2" {
		t.Errorf("vendor deletes = %v", persister.vendorDels)
	}
	vendors := store.Version(0).Items[0].Vendors
	if len(vendors) != 1 || vendors[0].VendorID != "m1" {
		t.Errorf("surviving vendors = %+v, want only m1", vendors)
	}
}

func TestDeleteVendorKeepsRowOnRemoteFailure(t *testing.T) {
	store, ledger, persister := ledgerFixture(t)
	store.AddVendor(0, 0, VendorAssignment{
		VendorID: "m1", Description: "steel", Quantity: 2, CostPerUnit: 10, DeliveryDate: time.Now(),
	})
	persister.failNext = errors.New("boom")

	if err := ledger.DeleteVendor(context.Background(), RowKey{Version: 0, Item: 0, Vendor: 0}); err == nil {
		t.Fatal("expected remote delete failure")
	}
	if got := len(store.Version(0).Items[0].Vendors); got != 1 {
		t.Errorf("row must stay until the server confirms, got %d rows", got)
	}
}
