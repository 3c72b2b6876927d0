package workbook

import "testing"

func baseVersion() QuoteVersion {
	return QuoteVersion{
		ID:      "q1",
		Version: "1",
		Items: []LineItem{
			{RowID: "a", Description: "Desk", HSN: "9403", Unit: "pcs", Quantity: 2, FinalUnitPrice: 500, Subtotal: 1000},
			{RowID: "b", Description: "Chair", HSN: "9401", Unit: "pcs", Quantity: 4, FinalUnitPrice: 250, Subtotal: 1000},
		},
		TaxPercent:  18,
		Transport:   100,
		Reason:      "initial",
		Attachments: []string{"https://files/quote-1.pdf"},
		Status:      QuoteStatusDraft,
	}
}

func TestDiffRootFieldOnly(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Reason = "revised pricing"

	cs := Diff(original, edited)

	if len(cs.Root) != 1 {
		t.Fatalf("expected exactly one root change, got %v", cs.Root)
	}
	if cs.Root["reason"] != "revised pricing" {
		t.Errorf("expected reason change, got %v", cs.Root)
	}
	if len(cs.Items) != 0 {
		t.Errorf("expected no item changes, got %v", cs.Items)
	}
}

func TestDiffNoChanges(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()

	cs := Diff(original, edited)
	if !cs.Empty() {
		t.Fatalf("expected empty changeset, got root=%v items=%v", cs.Root, cs.Items)
	}
}

func TestDiffNumericCoercion(t *testing.T) {
	// "100" and 100 decode to the same LooseFloat; a representation-only
	// difference must never produce a diff entry.
	original := baseVersion()
	edited := original.Clone()

	var transport LooseFloat
	if err := transport.UnmarshalJSON([]byte(`"100"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	edited.Transport = transport

	cs := Diff(original, edited)
	if _, ok := cs.Root["transport"]; ok {
		t.Errorf("string-vs-number transport must not diff: %v", cs.Root)
	}
}

func TestDiffItemModified(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Items[1].Quantity = 6
	edited.Items[1].Subtotal = 1500

	cs := Diff(original, edited)
	if len(cs.Items) != 1 {
		t.Fatalf("expected one item change, got %v", cs.Items)
	}
	change := cs.Items[0]
	if change.Type != ChangeModified || change.Index != 1 {
		t.Fatalf("expected modified@1, got %+v", change)
	}
	if len(change.Changes) != 2 {
		t.Errorf("expected only quantity and subtotal, got %v", change.Changes)
	}
	if change.Changes["quantity"] != 6.0 {
		t.Errorf("quantity = %v", change.Changes["quantity"])
	}
}

func TestDiffItemRemoved(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Items = edited.Items[:1]

	cs := Diff(original, edited)
	if len(cs.Items) != 1 {
		t.Fatalf("expected one removal, got %v", cs.Items)
	}
	if cs.Items[0].Type != ChangeRemoved || cs.Items[0].Index != 1 {
		t.Errorf("expected removed@1, got %+v", cs.Items[0])
	}
}

func TestDiffItemAdded(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Items = append(edited.Items, LineItem{Description: "Lamp", Quantity: 3, FinalUnitPrice: 150})

	cs := Diff(original, edited)
	if len(cs.Items) != 1 {
		t.Fatalf("expected one addition, got %v", cs.Items)
	}
	change := cs.Items[0]
	if change.Type != ChangeAdded || change.Index != 2 {
		t.Fatalf("expected added@2, got %+v", change)
	}
	if change.Data == nil || change.Data.Subtotal != 450 {
		t.Errorf("added item must carry recomputed subtotal, got %+v", change.Data)
	}
}

func TestDiffEmissionOrder(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Items[0].Description = "Standing desk"
	edited.Items = edited.Items[:1]

	cs := Diff(original, edited)
	if len(cs.Items) != 2 {
		t.Fatalf("expected two entries, got %v", cs.Items)
	}
	if cs.Items[0].Type != ChangeModified {
		t.Errorf("modifications must precede removals, got %+v first", cs.Items[0])
	}
	if cs.Items[1].Type != ChangeRemoved {
		t.Errorf("removal must come last, got %+v", cs.Items[1])
	}
}

func TestDiffAttachmentsBySerializedEquality(t *testing.T) {
	original := baseVersion()
	edited := original.Clone()
	edited.Attachments = append(edited.Attachments, "https://files/site-photo.jpg")

	cs := Diff(original, edited)
	urls, ok := cs.Root["attachments"].([]string)
	if !ok || len(urls) != 2 {
		t.Fatalf("expected attachments root change, got %v", cs.Root)
	}
}
