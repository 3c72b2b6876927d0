package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Generate renders every version of an enquiry's quote onto one sheet.
// Items flatten to one row per vendor assignment; an item without
// vendors still gets one row with the vendor columns blank.
func (e *Exporter) Generate(enquiry model.Enquiry, quotes []model.Quote) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Quotes"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Enquiry")
	set("B1", enquiry.Subject)
	set("A2", "Client")
	set("B2", enquiry.ClientName)
	set("A3", "Status")
	set("B3", string(enquiry.Status))

	tableRow := 5
	headers := []string{
		"Version",
		"Item Description",
		"HSN",
		"Unit",
		"Qty",
		"Final Unit Price",
		"Subtotal",
		"Tax %",
		"Transport",
		"Installation",
		"Total",
		"Status",
		"Vendor ID",
		"Vendor Description",
		"Vendor Qty",
		"Cost Per Unit",
		"Advance",
		"Delivery Date",
		"Delivery Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	row := tableRow + 1
	for _, quote := range quotes {
		version := fmt.Sprintf("Quotation %d", quote.Version)
		for _, item := range quote.Items {
			vendors := item.Vendors
			if len(vendors) == 0 {
				vendors = []workbook.VendorAssignment{{}}
			}
			for _, vendor := range vendors {
				set(fmt.Sprintf("A%d", row), version)
				set(fmt.Sprintf("B%d", row), item.Description)
				set(fmt.Sprintf("C%d", row), item.HSN)
				set(fmt.Sprintf("D%d", row), item.Unit)
				set(fmt.Sprintf("E%d", row), item.Quantity.Float())
				set(fmt.Sprintf("F%d", row), item.FinalUnitPrice.Float())
				set(fmt.Sprintf("G%d", row), item.Subtotal.Float())
				set(fmt.Sprintf("H%d", row), quote.TaxPercent)
				set(fmt.Sprintf("I%d", row), quote.Transport)
				set(fmt.Sprintf("J%d", row), quote.Installation)
				set(fmt.Sprintf("K%d", row), quote.TotalAmount)
				set(fmt.Sprintf("L%d", row), string(quote.Status))
				if vendor.VendorID != "" {
					set(fmt.Sprintf("M%d", row), vendor.VendorID)
					set(fmt.Sprintf("N%d", row), vendor.Description)
					set(fmt.Sprintf("O%d", row), vendor.Quantity.Float())
					set(fmt.Sprintf("P%d", row), vendor.CostPerUnit.Float())
					set(fmt.Sprintf("Q%d", row), vendor.Advance.Float())
					set(fmt.Sprintf("R%d", row), formatDate(vendor.DeliveryDate))
					set(fmt.Sprintf("S%d", row), string(vendor.DeliveryStatus))
				}
				row++
			}
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "E", 10)
	_ = file.SetColWidth(sheet, "F", "K", 14)
	_ = file.SetColWidth(sheet, "L", "L", 12)
	_ = file.SetColWidth(sheet, "M", "N", 32)
	_ = file.SetColWidth(sheet, "O", "S", 14)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
