package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option is a selected choice, optionally carrying a per-option quantity.
type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Quantity int    `json:"quantity,omitempty"`
}

// SupplierValue holds the supplier description of a specification field. The
// wire shape is polymorphic: a plain string for text/number fields, a single
// option object for selects, or a list of options for multi-selects. Exactly
// one of the three slots is populated.
type SupplierValue struct {
	Text     string
	Selected *Option
	List     []Option
}

// SupplierText wraps a scalar supplier description.
func SupplierText(text string) SupplierValue {
	return SupplierValue{Text: text}
}

// SupplierOption wraps a single selection.
func SupplierOption(opt Option) SupplierValue {
	return SupplierValue{Selected: &opt}
}

// SupplierList wraps a multi-selection.
func SupplierList(opts []Option) SupplierValue {
	return SupplierValue{List: opts}
}

// IsEmpty implements the single emptiness rule shared by every field kind:
// empty string, nil/empty list, or a selection object without a value.
func (v SupplierValue) IsEmpty() bool {
	switch {
	case v.List != nil:
		return len(v.List) == 0
	case v.Selected != nil:
		return v.Selected.Value == ""
	default:
		return v.Text == ""
	}
}

// MarshalJSON emits the polymorphic wire shape.
func (v SupplierValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.List != nil:
		return json.Marshal(v.List)
	case v.Selected != nil:
		return json.Marshal(v.Selected)
	case v.Text != "":
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any of the three wire shapes.
func (v *SupplierValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = SupplierValue{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []Option
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("model: supplier description list: %w", err)
		}
		*v = SupplierValue{List: list}
	case '{':
		var opt Option
		if err := json.Unmarshal(trimmed, &opt); err != nil {
			return fmt.Errorf("model: supplier description option: %w", err)
		}
		*v = SupplierValue{Selected: &opt}
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("model: supplier description text: %w", err)
		}
		*v = SupplierValue{Text: text}
	default:
		// Numbers arrive from legacy records as bare scalars.
		var raw json.Number
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("model: supplier description scalar: %w", err)
		}
		*v = SupplierValue{Text: raw.String()}
	}
	return nil
}

// FieldValue is the per-field entry inside the specification map.
type FieldValue struct {
	Supplier         SupplierValue `json:"supplierDescription"`
	Client           string        `json:"clientDescription,omitempty"`
	ArtworkDimension bool          `json:"artworkDimensionStatus,omitempty"`
}
