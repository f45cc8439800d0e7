// Package template resolves the active set of specification fields for a
// product type and applies the specification reseed rules triggered by type
// and exclude-flag changes.
package template

import (
	"github.com/goliatone/go-productform/pkg/model"
)

// ResolveInput carries everything active-field resolution depends on.
type ResolveInput struct {
	// Fields is the full template for the selected product type.
	Fields []model.SpecField
	// Editing is true when the form was opened on a persisted record.
	Editing bool
	// SavedPresent is true when that record carried a specification
	// document, even one holding only the size scalars.
	SavedPresent bool
	// Saved is the specification document stored with that record.
	Saved model.SavedSpecification
	// SavedProductTypeID is the type the record was persisted under.
	SavedProductTypeID string
	// CurrentProductTypeID is the type currently selected on the form.
	CurrentProductTypeID string
	// Removed holds field names the operator dropped this session.
	Removed map[string]bool
}

// Resolve returns the ordered list of template fields currently active.
//
// When editing with a saved document and an unchanged type, only fields
// present in the saved document stay active: fields added to the template
// after the record was saved remain hidden until the operator deliberately
// switches type. A saved document with no field entries therefore activates
// nothing. Switching type (or creating new) activates the full template
// minus removed fields.
func Resolve(in ResolveInput) []model.SpecField {
	if len(in.Fields) == 0 {
		return nil
	}

	if in.Editing && in.SavedPresent {
		if in.SavedProductTypeID != in.CurrentProductTypeID {
			return withoutRemoved(in.Fields, in.Removed)
		}
		out := make([]model.SpecField, 0, len(in.Fields))
		for _, field := range in.Fields {
			if in.Removed[field.FieldName] {
				continue
			}
			if _, saved := in.Saved.Fields[field.FieldName]; !saved {
				continue
			}
			out = append(out, field)
		}
		return out
	}

	return withoutRemoved(in.Fields, in.Removed)
}

func withoutRemoved(fields []model.SpecField, removed map[string]bool) []model.SpecField {
	out := make([]model.SpecField, 0, len(fields))
	for _, field := range fields {
		if removed[field.FieldName] {
			continue
		}
		out = append(out, field)
	}
	return out
}

// PreserveOnTypeChange rewrites a specification map after the product type
// changes: entries flagged as artwork dimensions survive, as do the reserved
// Width/Height names, everything else is discarded.
func PreserveOnTypeChange(spec map[string]model.FieldValue) map[string]model.FieldValue {
	out := make(map[string]model.FieldValue, 2)
	for name, value := range spec {
		if name == model.FieldWidth || name == model.FieldHeight || value.ArtworkDimension {
			out[name] = value
		}
	}
	return out
}

// PreserveOnExclude rewrites a specification map when the exclude toggle
// flips: only Width/Height entries that are also flagged as artwork
// dimensions survive.
func PreserveOnExclude(spec map[string]model.FieldValue) map[string]model.FieldValue {
	out := make(map[string]model.FieldValue, 2)
	for name, value := range spec {
		if (name == model.FieldWidth || name == model.FieldHeight) && value.ArtworkDimension {
			out[name] = value
		}
	}
	return out
}

// HasDimensionFields reports whether any template field belongs to the
// artwork dimension group.
func HasDimensionFields(fields []model.SpecField) bool {
	for _, field := range fields {
		if field.ArtworkDimension {
			return true
		}
	}
	return false
}
