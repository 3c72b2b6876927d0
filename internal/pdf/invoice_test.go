package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/mkamath/quotedesk/internal/model"
)

func TestGenerateProducesPDF(t *testing.T) {
	invoice := model.Invoice{
		InvoiceNumber: "INV-20260830-AB12CD34",
		ClientName:    "Acme Interiors",
		ClientGSTIN:   "29ABCDE1234F1Z5",
		Items: model.InvoiceItemList{
			{Description: "Desk", HSN: "9403", Quantity: 2, Rate: 100, Amount: 200},
			{Description: "Chair", HSN: "9401", Quantity: 4, Rate: 50, Amount: 200},
		},
		TransportCharges: 100,
		CGSTAmount:       36,
		SGSTAmount:       36,
		TotalAmount:      572,
		InvoiceDate:      time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}

	content, err := NewGenerator().Generate(invoice)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, first bytes: %q", content[:minInt(8, len(content))])
	}
}

func TestGenerateEmptyItems(t *testing.T) {
	content, err := NewGenerator().Generate(model.Invoice{InvoiceNumber: "INV-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(content) == 0 {
		t.Error("empty output")
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
