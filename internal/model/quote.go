package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/workbook"
)

// ItemList stores a quote's line items (with their nested vendor
// assignments) as a JSONB column.
type ItemList []workbook.LineItem

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]workbook.LineItem{})
	}
	return json.Marshal(l)
}

func (l *ItemList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// StringList stores attachment URLs as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// Quote is one persisted revision of a quotation for an enquiry.
type Quote struct {
	ID           uuid.UUID
	EnquiryID    uuid.UUID
	Version      int
	Items        ItemList `gorm:"type:jsonb"`
	TaxPercent   float64
	Transport    float64
	Installation float64
	TotalAmount  float64
	Reason       string
	Notes        string
	Attachments  StringList `gorm:"type:jsonb"`
	Status       workbook.QuoteStatus
	CreatedByID  uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Quote) TableName() string {
	return "quotes"
}

// ToWorkbook converts the persisted record to the wire shape the workbook
// edits.
func (q Quote) ToWorkbook() workbook.QuoteVersion {
	return workbook.QuoteVersion{
		ID:           q.ID.String(),
		Version:      formatVersion(q.Version),
		Items:        append([]workbook.LineItem(nil), q.Items...),
		TaxPercent:   workbook.LooseFloat(q.TaxPercent),
		Transport:    workbook.LooseFloat(q.Transport),
		Installation: workbook.LooseFloat(q.Installation),
		TotalAmount:  workbook.LooseFloat(q.TotalAmount),
		Reason:       q.Reason,
		Notes:        q.Notes,
		Attachments:  append([]string(nil), q.Attachments...),
		Status:       q.Status,
	}
}

func formatVersion(v int) string {
	if v <= 0 {
		return workbook.DraftMarker
	}
	return strconv.Itoa(v)
}
