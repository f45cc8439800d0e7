package model

// Statuses a product can be saved under.
var Statuses = []Ref{
	{Value: "draft", Label: "Draft"},
	{Value: "active", Label: "Active"},
	{Value: "expired", Label: "Expired"},
}

// FormValues is the single mutable record driving the screen. Size1/Size2
// live beside the specification map in memory but travel inside it on the
// wire (see SpecificationDocument).
type FormValues struct {
	Enabled                bool
	ExcludeProductSpec     bool
	RecordProductHistory   bool
	PrintImage             bool
	RecordStockTransaction bool

	Name        string
	Status      string
	Code        string
	Description string
	GST         string

	ProductTypeID *Ref

	Size1         string
	Size2         string
	Specification map[string]FieldValue

	Image            *Image
	AdditionalImages []Image

	// Legacy single-list linked product fields, kept alongside the row
	// lists because the transport still consumes them.
	RelatedImages    []Image
	LocalImages      []Image
	RelatedProductID *Ref
	LocalProductID   *Ref
}

// NewFormValues returns the defaults used when creating a product.
func NewFormValues() *FormValues {
	return &FormValues{
		Enabled:              true,
		RecordProductHistory: true,
		PrintImage:           true,
		Specification:        make(map[string]FieldValue),
	}
}

// ValuesFromProduct seeds form values from a persisted record when editing.
func ValuesFromProduct(p *Product) *FormValues {
	if p == nil {
		return NewFormValues()
	}
	values := &FormValues{
		Enabled:                p.Enabled,
		ExcludeProductSpec:     p.ExcludeProductSpec,
		RecordProductHistory:   p.RecordProductHistory,
		PrintImage:             p.PrintImage,
		RecordStockTransaction: p.RecordStockTransaction,
		Name:                   p.Name,
		Status:                 p.Status,
		Code:                   p.TemporaryCode,
		Description:            p.Description,
		GST:                    p.GST,
		Size1:                  p.Specification.Size1,
		Size2:                  p.Specification.Size2,
		Specification:          make(map[string]FieldValue, len(p.Specification.Fields)),
		AdditionalImages:       PersistedImages(p.AdditionalImages),
	}
	for name, value := range p.Specification.Fields {
		values.Specification[name] = value
	}
	if p.ProductTypeID != "" {
		label := p.ProductTypeID
		if p.ProductType != nil && p.ProductType.Name != "" {
			label = p.ProductType.Name
		}
		values.ProductTypeID = &Ref{Value: p.ProductTypeID, Label: label}
	}
	if p.Image != "" {
		img := Persisted(p.Image)
		values.Image = &img
	}
	if p.RelatedProduct != nil {
		ref := NewRef(p.RelatedProduct.TemporaryCode)
		values.RelatedProductID = &ref
		values.RelatedImages = PersistedImages(p.RelatedProduct.Images)
	}
	if p.LocalProduct != nil {
		ref := NewRef(p.LocalProduct.TemporaryCode)
		values.LocalProductID = &ref
		values.LocalImages = PersistedImages(p.LocalProduct.Images)
	}
	return values
}

// ProductTypeValue returns the primitive id of the selected product type.
func (v *FormValues) ProductTypeValue() string {
	if v == nil || v.ProductTypeID == nil {
		return ""
	}
	return v.ProductTypeID.Value
}

// SpecificationDocument merges size1/size2 with the field entries into the
// single structure that is JSON-encoded for transport.
func (v *FormValues) SpecificationDocument() map[string]any {
	doc := make(map[string]any, len(v.Specification)+2)
	doc["size1"] = v.Size1
	doc["size2"] = v.Size2
	for name, value := range v.Specification {
		doc[name] = value
	}
	return doc
}

// SetSpecField writes one specification entry, allocating the map when the
// form was seeded without one.
func (v *FormValues) SetSpecField(name string, value FieldValue) {
	if v.Specification == nil {
		v.Specification = make(map[string]FieldValue)
	}
	v.Specification[name] = value
}
