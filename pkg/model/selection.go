package model

import "strings"

// ApplySelection builds the field value after a single-select change. The
// quantity carries over when the same value was already selected, otherwise
// it starts at 1. The client description auto-fills from the chosen option.
func ApplySelection(field SpecField, prev FieldValue, supplier string) FieldValue {
	quantity := 1
	if prev.Supplier.Selected != nil &&
		prev.Supplier.Selected.Value == supplier &&
		prev.Supplier.Selected.Quantity > 0 {
		quantity = prev.Supplier.Selected.Quantity
	}
	return FieldValue{
		Supplier: SupplierOption(Option{
			Label:    supplier,
			Value:    supplier,
			Quantity: quantity,
		}),
		Client:           field.ClientDescriptionFor(supplier),
		ArtworkDimension: field.ArtworkDimension,
	}
}

// ApplyMultiSelection builds the field value after a multi-select change.
// Quantities of values that stay selected carry over; new values start at 1.
// The client description joins the per-option descriptions with ",".
func ApplyMultiSelection(field SpecField, prev FieldValue, suppliers []string) FieldValue {
	carried := make(map[string]int, len(prev.Supplier.List))
	for _, opt := range prev.Supplier.List {
		if opt.Quantity > 0 {
			carried[opt.Value] = opt.Quantity
		}
	}

	list := make([]Option, 0, len(suppliers))
	clients := make([]string, 0, len(suppliers))
	for _, supplier := range suppliers {
		quantity := carried[supplier]
		if quantity == 0 {
			quantity = 1
		}
		list = append(list, Option{Label: supplier, Value: supplier, Quantity: quantity})
		if client := field.ClientDescriptionFor(supplier); client != "" {
			clients = append(clients, client)
		}
	}

	return FieldValue{
		Supplier:         SupplierList(list),
		Client:           strings.Join(clients, ","),
		ArtworkDimension: field.ArtworkDimension,
	}
}
