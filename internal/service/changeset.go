package service

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/workbook"
)

// applyChangeset patches a stored quote with a partial-update changeset.
//
// Additions and modifications are applied in emission order. Removals are
// applied last, in descending index order against the item array as it
// stood when the diff was computed. That ordering is the contract with
// the workbook client: index-addressed removal applied ascending would
// shift the rows behind it.
func applyChangeset(quote *model.Quote, cs workbook.Changeset) error {
	if err := applyRootChanges(quote, cs.Root); err != nil {
		return err
	}

	var removals []int
	for _, change := range cs.Items {
		switch change.Type {
		case workbook.ChangeAdded:
			if change.Data == nil {
				return fmt.Errorf("%w: added item entry without data", ErrInvalidInput)
			}
			quote.Items = append(quote.Items, workbook.NormalizeItem(*change.Data))
		case workbook.ChangeModified:
			if change.Index < 0 || change.Index >= len(quote.Items) {
				return fmt.Errorf("%w: item index %d out of range", ErrInvalidInput, change.Index)
			}
			if err := applyItemChanges(&quote.Items[change.Index], change.Changes); err != nil {
				return err
			}
		case workbook.ChangeRemoved:
			removals = append(removals, change.Index)
		default:
			return fmt.Errorf("%w: unknown item change type %q", ErrInvalidInput, change.Type)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(removals)))
	for _, index := range removals {
		if index < 0 || index >= len(quote.Items) {
			return fmt.Errorf("%w: removal index %d out of range", ErrInvalidInput, index)
		}
		quote.Items = append(quote.Items[:index], quote.Items[index+1:]...)
	}

	return nil
}

func applyRootChanges(quote *model.Quote, changes map[string]interface{}) error {
	for field, value := range changes {
		switch field {
		case "taxPercent":
			quote.TaxPercent = coerceFloat(value)
		case "transport":
			quote.Transport = coerceFloat(value)
		case "installation":
			quote.Installation = coerceFloat(value)
		case "totalAmount":
			quote.TotalAmount = coerceFloat(value)
		case "reason":
			quote.Reason = coerceString(value)
		case "notes":
			quote.Notes = coerceString(value)
		case "attachments":
			quote.Attachments = coerceStringSlice(value)
		default:
			return fmt.Errorf("%w: unknown root field %q", ErrInvalidInput, field)
		}
	}
	return nil
}

func applyItemChanges(item *workbook.LineItem, changes map[string]interface{}) error {
	for field, value := range changes {
		switch field {
		case "description":
			item.Description = coerceString(value)
		case "hsn":
			item.HSN = coerceString(value)
		case "unit":
			item.Unit = coerceString(value)
		case "quantity":
			item.Quantity = workbook.LooseFloat(coerceFloat(value))
		case "finalUnitPrice":
			item.FinalUnitPrice = workbook.LooseFloat(coerceFloat(value))
		case "subtotal":
			item.Subtotal = workbook.LooseFloat(coerceFloat(value))
		default:
			return fmt.Errorf("%w: unknown item field %q", ErrInvalidInput, field)
		}
	}
	return nil
}

// Changesets arrive as decoded JSON, so numbers are float64 but older
// clients send numerics as strings. Coercion is centralized here.
func coerceFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	case workbook.LooseFloat:
		return v.Float()
	}
	return 0
}

func coerceString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func coerceStringSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			out = append(out, coerceString(entry))
		}
		return out
	}
	return nil
}
