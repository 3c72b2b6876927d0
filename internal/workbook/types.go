package workbook

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DraftMarker is the sentinel version label for a quote that has not been
// persisted yet.
const DraftMarker = "New Quote"

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "Draft"
	QuoteStatusApproved QuoteStatus = "Approved"
)

type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "Pending"
	DeliveryStatusInProgress DeliveryStatus = "InProgress"
	DeliveryStatusDelivered  DeliveryStatus = "Delivered"
)

// LooseFloat is a float64 that also accepts quoted numbers when decoding
// JSON. The API and older exports are inconsistent about whether monetary
// fields arrive as numbers or strings, so coercion lives here and nowhere
// else.
type LooseFloat float64

func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*f = LooseFloat(value)
	return nil
}

func (f LooseFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

func (f LooseFloat) Float() float64 {
	return float64(f)
}

// QuoteVersion is one revision of a quotation for a client enquiry. ID is
// assigned by the server; an unsaved draft has an empty ID and the
// DraftMarker version label.
type QuoteVersion struct {
	ID           string      `json:"id,omitempty"`
	Version      string      `json:"version"`
	Items        []LineItem  `json:"items"`
	TaxPercent   LooseFloat  `json:"taxPercent"`
	Transport    LooseFloat  `json:"transport"`
	Installation LooseFloat  `json:"installation"`
	TotalAmount  LooseFloat  `json:"totalAmount"`
	Reason       string      `json:"reason"`
	Notes        string      `json:"notes"`
	Attachments  []string    `json:"attachments"`
	Status       QuoteStatus `json:"status"`
}

// LineItem is one priced row inside a quote version. RowID is a local
// identifier generated when the item enters the buffer; the server API
// addresses items positionally, so RowID never crosses the wire.
type LineItem struct {
	RowID          string             `json:"-"`
	Description    string             `json:"description"`
	HSN            string             `json:"hsn"`
	Unit           string             `json:"unit"`
	Quantity       LooseFloat         `json:"quantity"`
	FinalUnitPrice LooseFloat         `json:"finalUnitPrice"`
	Subtotal       LooseFloat         `json:"subtotal"`
	Vendors        []VendorAssignment `json:"vendors,omitempty"`
}

// VendorAssignment is a sourcing commitment from one vendor for a line
// item. IsNew marks a row that exists only in the local buffer and was
// never confirmed by the server.
type VendorAssignment struct {
	RowID          string         `json:"-"`
	VendorID       string         `json:"vendorId"`
	Description    string         `json:"description"`
	Quantity       LooseFloat     `json:"quantity"`
	CostPerUnit    LooseFloat     `json:"costPerUnit"`
	Advance        LooseFloat     `json:"advance"`
	DeliveryDate   time.Time      `json:"deliveryDate"`
	DeliveryStatus DeliveryStatus `json:"vendordeliveryStatus"`
	IsNew          bool           `json:"-"`
}

// Member is a team member; vendors are members with the vendor role.
type Member struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func newRowID() string {
	return uuid.NewString()
}

// Clone returns a deep copy safe to edit without touching the receiver.
func (q QuoteVersion) Clone() QuoteVersion {
	out := q
	out.Items = cloneItems(q.Items)
	out.Attachments = append([]string(nil), q.Attachments...)
	return out
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Vendors = append([]VendorAssignment(nil), item.Vendors...)
	}
	return out
}
