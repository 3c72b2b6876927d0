package workbook

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func sessionFixture(t *testing.T) (*Store, *Session, *fakePersister) {
	t.Helper()
	store := NewStore(zerolog.Nop())
	persister := &fakePersister{quotes: []QuoteVersion{baseVersion()}}
	session := NewSession(store, persister, zerolog.Nop())
	if err := session.Load(context.Background(), "enq-1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, session, persister
}

func TestSelectExistingVersion(t *testing.T) {
	_, session, _ := sessionFixture(t)

	session.Select("1")
	buffer := session.Buffer()
	if buffer.ID != "q1" || len(buffer.Items) != 2 {
		t.Fatalf("hydrated buffer = %+v", buffer)
	}
	if buffer.Reason != "initial" {
		t.Errorf("reason = %q, want initial", buffer.Reason)
	}
}

func TestSelectDraftDiscardsEdits(t *testing.T) {
	_, session, _ := sessionFixture(t)

	session.Select("1")
	session.SetRootField("reason", "half-finished edit")
	session.SetItemField(0, "quantity", 99.0)

	session.Select(DraftMarker)
	buffer := session.Buffer()
	if buffer.Version != DraftMarker {
		t.Fatalf("version = %q, want draft marker", buffer.Version)
	}
	if len(buffer.Items) != 1 || buffer.Items[0].Quantity != 0 {
		t.Errorf("draft template must have one blank item, got %+v", buffer.Items)
	}
	if buffer.Reason != "" || buffer.Transport != 0 {
		t.Errorf("draft template must zero charges and text, got %+v", buffer)
	}
}

func TestSelectUnknownLabelLeavesBuffer(t *testing.T) {
	_, session, _ := sessionFixture(t)
	session.Select("1")
	session.Select("does-not-exist")
	if got := session.Buffer().ID; got != "q1" {
		t.Errorf("unknown label must leave the buffer, id = %q", got)
	}
}

func TestSubtotalInvariantOnEdit(t *testing.T) {
	_, session, _ := sessionFixture(t)
	session.Select("1")

	session.SetItemField(0, "quantity", 3.0)
	session.SetItemField(0, "finalUnitPrice", 150.0)

	item := session.Buffer().Items[0]
	if item.Subtotal != 450 {
		t.Errorf("subtotal = %v, want 450", item.Subtotal)
	}
}

func TestSaveNoChanges(t *testing.T) {
	_, session, persister := sessionFixture(t)
	session.Select("1")

	err := session.Save(context.Background())
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("err = %v, want ErrNoChanges", err)
	}
	if len(persister.updateCalls) != 0 || persister.createCalls != 0 {
		t.Error("no-change save must not hit the network")
	}
}

func TestSaveSendsMinimalChangeset(t *testing.T) {
	store, session, persister := sessionFixture(t)
	session.Select("1")
	session.SetRootField("reason", "updated terms")

	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(persister.updateCalls) != 1 {
		t.Fatalf("update calls = %d", len(persister.updateCalls))
	}
	cs := persister.updateCalls[0]
	if cs.Root["reason"] != "updated terms" {
		t.Errorf("changeset root = %v", cs.Root)
	}
	if _, ok := cs.Root["taxPercent"]; ok {
		t.Errorf("unchanged fields must not be sent: %v", cs.Root)
	}

	if got := store.Version(0).Reason; got != "updated terms" {
		t.Errorf("store must be updated after success, reason = %q", got)
	}

	// A second save with no further edits finds a fresh snapshot.
	if err := session.Save(context.Background()); !errors.Is(err, ErrNoChanges) {
		t.Errorf("second save = %v, want ErrNoChanges", err)
	}
}

func TestSaveStagedAttachmentCountsAsChange(t *testing.T) {
	_, session, persister := sessionFixture(t)
	session.Select("1")
	session.StageAttachment(Upload{Name: "site.jpg", Content: []byte{1}})

	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(persister.updateCalls) != 1 {
		t.Errorf("staged attachment must force an update call")
	}
}

func TestSaveDraftAppendsVersion(t *testing.T) {
	store, session, persister := sessionFixture(t)

	session.SetItemField(0, "description", "Desk")
	session.SetItemField(0, "quantity", 2.0)
	session.SetItemField(0, "finalUnitPrice", 500.0)

	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if persister.createCalls != 1 {
		t.Fatalf("create calls = %d", persister.createCalls)
	}
	if store.Len() != 2 {
		t.Errorf("store length = %d, want 2", store.Len())
	}
	if got := session.Buffer().ID; got == "" {
		t.Error("buffer must adopt the server-assigned id")
	}
}

func TestSaveFailureLeavesStore(t *testing.T) {
	store, session, persister := sessionFixture(t)
	session.Select("1")
	session.SetRootField("notes", "will not stick")
	persister.failNext = errors.New("boom")

	if err := session.Save(context.Background()); err == nil {
		t.Fatal("expected save failure")
	}
	if got := store.Version(0).Notes; got != "" {
		t.Errorf("failed save must not mutate the store, notes = %q", got)
	}
}

func TestTotalRecomputedReactively(t *testing.T) {
	_, session, _ := sessionFixture(t)
	session.Select("1")

	session.SetRootField("taxPercent", 10.0)
	session.SetRootField("transport", 50.0)
	session.SetRootField("installation", 20.0)
	session.SetItemField(0, "quantity", 2.0)
	session.SetItemField(0, "finalUnitPrice", 500.0)
	session.RemoveItem(1)

	totals := session.Totals()
	if totals.TotalAmount != 1170 {
		t.Errorf("total = %v, want 1170", totals.TotalAmount)
	}
	if got := session.Buffer().TotalAmount.Float(); got != 1170 {
		t.Errorf("buffer total = %v, want 1170", got)
	}
}

func TestReplaceItemsWholesale(t *testing.T) {
	_, session, _ := sessionFixture(t)
	session.Select("1")

	session.ReplaceItems(ImportItems([]ImportRow{
		{Description: "Cable tray", Unit: "m", Quantity: 10, UnitPrice: 45, Amount: 450},
	}))

	items := session.Buffer().Items
	if len(items) != 1 {
		t.Fatalf("import must replace, not merge: %d items", len(items))
	}
	if items[0].Subtotal != 450 {
		t.Errorf("imported subtotal = %v, want the sheet's amount", items[0].Subtotal)
	}
}

func TestSetStatusThroughSession(t *testing.T) {
	store, session, persister := sessionFixture(t)

	if err := session.SetStatus(context.Background(), "q1", QuoteStatusApproved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if len(persister.statusCalls) != 1 || persister.statusCalls[0] != "q1/Approved" {
		t.Errorf("status calls = %v", persister.statusCalls)
	}
	if got := store.Version(0).Status; got != QuoteStatusApproved {
		t.Errorf("store status = %s", got)
	}
}

func TestDeleteAttachment(t *testing.T) {
	store, session, persister := sessionFixture(t)
	session.Select("1")

	if err := session.DeleteAttachment(context.Background(), 0); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if len(persister.attachmentDels) != 1 {
		t.Fatalf("attachment deletes = %v", persister.attachmentDels)
	}
	if got := len(store.Version(0).Attachments); got != 0 {
		t.Errorf("store attachments = %d, want 0", got)
	}
	if got := len(session.Buffer().Attachments); got != 0 {
		t.Errorf("buffer attachments = %d, want 0", got)
	}
}
