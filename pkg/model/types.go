package model

// FieldType enumerates the template field kinds the engine understands.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeSelect FieldType = "select"
)

// Dimension field names are structural: when a template flags artwork
// dimensions these two are required regardless of the exclude toggle.
const (
	FieldWidth  = "Width"
	FieldHeight = "Height"
)

// SpecOption is a single choice offered by a select-type template field.
type SpecOption struct {
	SupplierDescription string `json:"supplierDescription"`
	ClientDescription   string `json:"clientDescription,omitempty"`
}

// SpecField is the read-only per-product-type definition of one
// specification attribute, as published by the template service.
type SpecField struct {
	FieldName        string       `json:"fieldName"`
	FieldType        FieldType    `json:"fieldType"`
	Multiple         bool         `json:"multiple,omitempty"`
	AddQuantity      bool         `json:"addQuantity,omitempty"`
	ArtworkDimension bool         `json:"artworkDimensionStatus,omitempty"`
	Options          []SpecOption `json:"option,omitempty"`
}

// IsDimension reports whether the field belongs to the artwork dimension
// group, either by flag or by the two reserved names.
func (f SpecField) IsDimension() bool {
	return f.ArtworkDimension || f.FieldName == FieldWidth || f.FieldName == FieldHeight
}

// ClientDescriptionFor looks up the client description paired with a
// supplier description, returning empty when the option is unknown.
func (f SpecField) ClientDescriptionFor(supplier string) string {
	for _, opt := range f.Options {
		if opt.SupplierDescription == supplier {
			return opt.ClientDescription
		}
	}
	return ""
}

// TypeTemplate is the template service response for one product type.
type TypeTemplate struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Fields []SpecField `json:"productTypeTemplates"`
}

// Ref is a label/value pair used for reference selections (product type,
// status, linked products).
type Ref struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NewRef builds a Ref where label and value coincide, the shape catalog
// option lists use.
func NewRef(value string) Ref {
	return Ref{Value: value, Label: value}
}
