package validation

import (
	"strconv"

	"github.com/goliatone/go-productform/pkg/errtree"
	"github.com/goliatone/go-productform/pkg/model"
)

// RuleFunc is a pure predicate over one field definition and its current
// value, writing any findings into the tree.
type RuleFunc func(field model.SpecField, value model.FieldValue, tree *errtree.Tree)

// registry maps field types to their validation rule. Dimension fields
// bypass the registry and always use the text rule.
var registry = map[model.FieldType]RuleFunc{
	model.FieldTypeText:   requireSupplierText,
	model.FieldTypeNumber: requireSupplierText,
	model.FieldTypeSelect: requireSupplierSelection,
}

func supplierPath(field model.SpecField) string {
	return "specification." + field.FieldName + ".supplierDescription"
}

func requireSupplierText(field model.SpecField, value model.FieldValue, tree *errtree.Tree) {
	if value.Supplier.IsEmpty() {
		tree.Set(supplierPath(field), MsgRequired)
	}
}

// requireSupplierSelection covers scalar, object, and list selections with
// the uniform emptiness rule.
func requireSupplierSelection(field model.SpecField, value model.FieldValue, tree *errtree.Tree) {
	if value.Supplier.IsEmpty() {
		tree.Set(supplierPath(field), MsgRequired)
	}
}

// validateQuantities enforces a positive integer quantity on each selected
// option of an addQuantity select field. Opt-in via WithQuantityRule.
func validateQuantities(field model.SpecField, value model.FieldValue, tree *errtree.Tree) {
	options := value.Supplier.List
	if options == nil && value.Supplier.Selected != nil {
		options = []model.Option{*value.Supplier.Selected}
	}
	for idx, opt := range options {
		path := supplierPath(field) + "." + strconv.Itoa(idx) + ".quantity"
		switch {
		case opt.Quantity == 0:
			tree.Set(path, MsgQuantityMissing)
		case opt.Quantity < 1:
			tree.Set(path, MsgQuantityBad)
		}
	}
}
