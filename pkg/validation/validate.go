// Package validation implements the pure value-to-error-tree function behind
// the form. Every applicable rule runs; the full tree is returned even when
// callers only read a subset.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-productform/pkg/errtree"
	"github.com/goliatone/go-productform/pkg/model"
)

// Messages surfaced on the form. Kept as constants so tests and the tab
// aggregator reference the exact strings the transport consumers expect.
const (
	MsgRequired        = "Required"
	MsgInvalidSize     = "Invalid Size"
	MsgImageCap        = "You cannot upload more than 5 images in total"
	MsgNameSpacing     = "Name has an excessive number of intermediate spaces"
	MsgNameTooShort    = "Name must be more than 1 character"
	MsgNameTooLong     = "Name cannot exceed more than 60 characters"
	MsgQuantityMissing = "Quantity is required"
	MsgQuantityBad     = "Quantity must be a positive integer"
)

// MaxImages caps each image category (main + category total).
const MaxImages = 5

var (
	decimalPattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	interiorSpacing = regexp.MustCompile(` {2,}`)
)

// Options toggles optional rules.
type Options struct {
	// QuantityRule enables the per-selected-option quantity check on
	// addQuantity select fields. Off by default.
	QuantityRule bool
}

// Option mutates validation options.
type Option func(*Options)

// WithQuantityRule enables the quantity-per-option rule.
func WithQuantityRule() Option {
	return func(o *Options) {
		o.QuantityRule = true
	}
}

// Validate runs every rule against a value snapshot and returns the full
// error tree. Deterministic: two runs over the same snapshot produce
// identical trees.
func Validate(values *model.FormValues, active []model.SpecField, removed map[string]bool, opts ...Option) *errtree.Tree {
	options := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	tree := errtree.New()
	if values == nil {
		return tree
	}

	validateName(values.Name, tree)
	validateCommon(values, tree)
	validateImageCaps(values, tree)
	validateSizes(values, tree)
	validateSpecFields(values, active, removed, options, tree)
	return tree
}

func validateName(name string, tree *errtree.Tree) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		tree.Set("name", MsgRequired)
	case interiorSpacing.MatchString(trimmed):
		tree.Set("name", MsgNameSpacing)
	case utf8.RuneCountInString(trimmed) < 2:
		tree.Set("name", MsgNameTooShort)
	case utf8.RuneCountInString(trimmed) > 60:
		tree.Set("name", MsgNameTooLong)
	}
}

func validateCommon(values *model.FormValues, tree *errtree.Tree) {
	if strings.TrimSpace(values.Code) == "" {
		tree.Set("code", MsgRequired)
	}
	if strings.TrimSpace(values.Description) == "" {
		tree.Set("description", MsgRequired)
	}
	if values.ProductTypeID == nil || values.ProductTypeID.Value == "" {
		tree.Set("productTypeId", MsgRequired)
	}
	if strings.TrimSpace(values.GST) == "" {
		tree.Set("gst", MsgRequired)
	}
	if strings.TrimSpace(values.Status) == "" {
		tree.Set("status", MsgRequired)
	}
}

func validateImageCaps(values *model.FormValues, tree *errtree.Tree) {
	main := 0
	if values.Image != nil {
		main = 1
	}
	if main+len(values.AdditionalImages) > MaxImages {
		tree.Set("additionalImages", MsgImageCap)
	}
	if main+len(values.RelatedImages) > MaxImages {
		tree.Set("relatedProductImages", MsgImageCap)
	}
	if main+len(values.LocalImages) > MaxImages {
		tree.Set("localProductImages", MsgImageCap)
	}
}

func validateSizes(values *model.FormValues, tree *errtree.Tree) {
	validateSize("specification.size1", values.Size1, tree)
	validateSize("specification.size2", values.Size2, tree)
}

func validateSize(path, value string, tree *errtree.Tree) {
	if value == "" {
		tree.Set(path, MsgRequired)
		return
	}
	if !decimalPattern.MatchString(value) {
		tree.Set(path, MsgInvalidSize)
	}
}

func validateSpecFields(values *model.FormValues, active []model.SpecField, removed map[string]bool, options Options, tree *errtree.Tree) {
	if values.ProductTypeID == nil || values.ProductTypeID.Value == "" {
		return
	}
	for _, field := range active {
		if removed[field.FieldName] {
			continue
		}
		if values.ExcludeProductSpec && !field.ArtworkDimension {
			continue
		}
		rule, ok := registry[field.FieldType]
		if !ok {
			rule = requireSupplierText
		}
		if field.FieldName == model.FieldWidth || field.FieldName == model.FieldHeight {
			rule = requireSupplierText
		}
		rule(field, values.Specification[field.FieldName], tree)

		if options.QuantityRule && field.FieldType == model.FieldTypeSelect && field.AddQuantity {
			validateQuantities(field, values.Specification[field.FieldName], tree)
		}
	}
}
