package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

// InvoiceItem is one billed row on a plain (non-revision) GST invoice.
// Amount is entered directly, not derived.
type InvoiceItem struct {
	Description string  `json:"description"`
	HSN         string  `json:"hsn"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type InvoiceItemList []InvoiceItem

func (l InvoiceItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]InvoiceItem{})
	}
	return json.Marshal(l)
}

func (l *InvoiceItemList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// Invoice is a GST invoice raised against an order. CGST/SGST/IGST are
// toggle-driven: each is either 9% of the item amounts or zero.
type Invoice struct {
	ID                  uuid.UUID
	InvoiceNumber       string
	OrderID             uuid.UUID
	EnquiryID           uuid.UUID
	ClientName          string
	ClientAddress       string
	ClientGSTIN         string
	Items               InvoiceItemList `gorm:"type:jsonb"`
	TransportCharges    float64
	InstallationCharges float64
	CGSTAmount          float64
	SGSTAmount          float64
	IGSTAmount          float64
	TotalAmount         float64
	Status              InvoiceStatus
	InvoiceDate         time.Time
	CreatedByID         uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Invoice) TableName() string {
	return "invoices"
}

// ItemsTotal is the GST base: item amounts only, charges excluded.
func (inv Invoice) ItemsTotal() float64 {
	total := 0.0
	for _, item := range inv.Items {
		total += item.Amount
	}
	return total
}
