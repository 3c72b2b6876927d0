package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mkamath/quotedesk/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a GST tax invoice. Each GST line prints only when
// its amount is non-zero, matching the toggle semantics used when the
// invoice was raised.
func (g *Generator) Generate(invoice model.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "TAX INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice No. %s dated %s", invoice.InvoiceNumber, formatDate(invoice.InvoiceDate)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.clientBlock(pdf, invoice)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Items", "", 1, "L", false, 0, "")

	headers := []string{"Description", "HSN", "Qty", "Rate", "Amount"}
	colWidths := []float64{80, 25, 20, 27, 28}
	g.tableRow(pdf, headers, colWidths, true)
	for _, item := range invoice.Items {
		row := []string{
			item.Description,
			item.HSN,
			formatAmount(item.Quantity, 2),
			formatAmount(item.Rate, 2),
			formatAmount(item.Amount, 2),
		}
		g.tableRow(pdf, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Items total: %s", formatAmount(invoice.ItemsTotal(), 2)), "", 1, "R", false, 0, "")
	if invoice.TransportCharges != 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Transportation charges: %s", formatAmount(invoice.TransportCharges, 2)), "", 1, "R", false, 0, "")
	}
	if invoice.InstallationCharges != 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Installation charges: %s", formatAmount(invoice.InstallationCharges, 2)), "", 1, "R", false, 0, "")
	}
	if invoice.CGSTAmount != 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("CGST (9%%): %s", formatAmount(invoice.CGSTAmount, 2)), "", 1, "R", false, 0, "")
	}
	if invoice.SGSTAmount != 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("SGST (9%%): %s", formatAmount(invoice.SGSTAmount, 2)), "", 1, "R", false, 0, "")
	}
	if invoice.IGSTAmount != 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("IGST (9%%): %s", formatAmount(invoice.IGSTAmount, 2)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Grand total: %s", formatAmount(invoice.TotalAmount, 2)), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "For QuoteDesk: ______________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Authorised signatory", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) clientBlock(pdf *gofpdf.Fpdf, invoice model.Invoice) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	lines := []string{
		invoice.ClientName,
		fmt.Sprintf("Address: %s", safeValue(invoice.ClientAddress)),
		fmt.Sprintf("GSTIN: %s", safeValue(invoice.ClientGSTIN)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func (g *Generator) tableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(g.fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
