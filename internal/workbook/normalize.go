package workbook

import "math"

// NormalizeItem coerces a line item into canonical form: the subtotal is
// recomputed from quantity and unit price, and a row id is assigned if the
// item does not have one yet. All normalization of item data happens here
// so the diff engine and the store never see divergent representations.
func NormalizeItem(item LineItem) LineItem {
	item.Subtotal = LooseFloat(item.Quantity.Float() * item.FinalUnitPrice.Float())
	if item.RowID == "" {
		item.RowID = newRowID()
	}
	for i := range item.Vendors {
		item.Vendors[i] = NormalizeVendor(item.Vendors[i])
	}
	return item
}

// NormalizeVendor fills vendor assignment defaults: Pending delivery
// status when absent and a generated row id.
func NormalizeVendor(vendor VendorAssignment) VendorAssignment {
	if vendor.DeliveryStatus == "" {
		vendor.DeliveryStatus = DeliveryStatusPending
	}
	if vendor.RowID == "" {
		vendor.RowID = newRowID()
	}
	return vendor
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
