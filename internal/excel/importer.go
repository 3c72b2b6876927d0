package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mkamath/quotedesk/internal/workbook"
)

type Importer struct{}

func NewImporter() *Importer {
	return &Importer{}
}

// ParseItems reads line items from the first sheet of an uploaded
// workbook. The first row is treated as a header and skipped; rows with
// an empty description are ignored. Numeric cells that fail to parse
// come back as zero rather than failing the whole import.
func (im *Importer) ParseItems(content []byte) ([]workbook.ImportRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	items := make([]workbook.ImportRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		description := strings.TrimSpace(cellAt(row, 0))
		if description == "" {
			continue
		}
		items = append(items, workbook.ImportRow{
			Description: description,
			Unit:        strings.TrimSpace(cellAt(row, 1)),
			Quantity:    parseLoose(cellAt(row, 2)),
			UnitPrice:   parseLoose(cellAt(row, 3)),
			Amount:      parseLoose(cellAt(row, 4)),
		})
	}
	return items, nil
}

func cellAt(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return row[index]
}

func parseLoose(value string) workbook.LooseFloat {
	var f workbook.LooseFloat
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	if err := f.UnmarshalJSON([]byte(`"` + trimmed + `"`)); err != nil {
		return 0
	}
	return f
}
