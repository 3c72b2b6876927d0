package workbook

import (
	"context"
	"fmt"
)

// fakePersister records calls and can be primed to fail.
type fakePersister struct {
	quotes []QuoteVersion

	failNext error

	createCalls    int
	updateCalls    []Changeset
	vendorSaves    []string
	vendorDels     []string
	statusCalls    []string
	attachmentDels []int
}

func (f *fakePersister) fail() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakePersister) FetchQuotes(_ context.Context, _ string) ([]QuoteVersion, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.quotes, nil
}

func (f *fakePersister) CreateQuote(_ context.Context, _ string, quote QuoteVersion, _ []Upload) (QuoteVersion, error) {
	if err := f.fail(); err != nil {
		return QuoteVersion{}, err
	}
	f.createCalls++
	created := quote.Clone()
	created.ID = fmt.Sprintf("q%d", f.createCalls)
	created.Version = fmt.Sprintf("%d", f.createCalls)
	return created, nil
}

func (f *fakePersister) UpdateQuote(_ context.Context, quoteID string, cs Changeset, _ *Upload) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.updateCalls = append(f.updateCalls, cs)
	return nil
}

func (f *fakePersister) SaveVendor(_ context.Context, quoteID string, itemIndex, vendorIndex int, vendor VendorAssignment) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.vendorSaves = append(f.vendorSaves, fmt.Sprintf("%s/%d/%d/%s", quoteID, itemIndex, vendorIndex, vendor.VendorID))
	return nil
}

func (f *fakePersister) DeleteVendor(_ context.Context, quoteID string, itemIndex int, vendorID string) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.vendorDels = append(f.vendorDels, fmt.Sprintf("%s/%d/%s", quoteID, itemIndex, vendorID))
	return nil
}

func (f *fakePersister) DeleteAttachment(_ context.Context, _ string, index int) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.attachmentDels = append(f.attachmentDels, index)
	return nil
}

func (f *fakePersister) UpdateStatus(_ context.Context, quoteID string, status QuoteStatus) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.statusCalls = append(f.statusCalls, fmt.Sprintf("%s/%s", quoteID, status))
	return nil
}

func (f *fakePersister) ListMembers(_ context.Context) ([]Member, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []Member{{ID: "m1", Name: "Acme Traders", Role: "vendor"}}, nil
}
