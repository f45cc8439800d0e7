// Package openapi derives specification template fields from an OpenAPI
// document. Template services that publish their product-type catalogs as
// component schemas can feed the form engine without a bespoke format.
//
// Recognised schema extensions per property:
//
//	x-field-type          text|number|select (inferred from type when absent)
//	x-multiple            bool
//	x-add-quantity        bool
//	x-artwork-dimension   bool
//	x-client-descriptions map of option value to client description
//	x-field-order         int, controls ordering (name order otherwise)
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-productform/pkg/model"
)

// TemplateFields extracts the template fields for one component schema.
func TemplateFields(ctx context.Context, data []byte, schemaName string) ([]model.SpecField, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if schemaName == "" {
		return nil, errors.New("openapi: schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", schemaName)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", schemaName)
	}

	return fieldsFromSchema(ref.Value)
}

type orderedField struct {
	order int
	field model.SpecField
}

func fieldsFromSchema(schema *openapi3.Schema) ([]model.SpecField, error) {
	ordered := make([]orderedField, 0, len(schema.Properties))
	for name, propRef := range schema.Properties {
		if propRef == nil || propRef.Value == nil {
			continue
		}
		prop := propRef.Value
		field := model.SpecField{
			FieldName:        name,
			FieldType:        fieldType(prop),
			Multiple:         boolExtension(prop.Extensions, "x-multiple"),
			AddQuantity:      boolExtension(prop.Extensions, "x-add-quantity"),
			ArtworkDimension: boolExtension(prop.Extensions, "x-artwork-dimension"),
		}
		if field.FieldType == model.FieldTypeSelect {
			field.Options = optionsFor(prop)
		}
		ordered = append(ordered, orderedField{
			order: intExtension(prop.Extensions, "x-field-order"),
			field: field,
		})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].order != ordered[j].order {
			return ordered[i].order < ordered[j].order
		}
		return ordered[i].field.FieldName < ordered[j].field.FieldName
	})

	out := make([]model.SpecField, 0, len(ordered))
	for _, entry := range ordered {
		out = append(out, entry.field)
	}
	return out, nil
}

func fieldType(prop *openapi3.Schema) model.FieldType {
	if explicit := stringExtension(prop.Extensions, "x-field-type"); explicit != "" {
		return model.FieldType(explicit)
	}
	if len(prop.Enum) > 0 {
		return model.FieldTypeSelect
	}
	if prop.Type != nil {
		if prop.Type.Is(openapi3.TypeNumber) || prop.Type.Is(openapi3.TypeInteger) {
			return model.FieldTypeNumber
		}
		if prop.Type.Is(openapi3.TypeArray) {
			return model.FieldTypeSelect
		}
	}
	return model.FieldTypeText
}

func optionsFor(prop *openapi3.Schema) []model.SpecOption {
	enum := prop.Enum
	if len(enum) == 0 && prop.Items != nil && prop.Items.Value != nil {
		enum = prop.Items.Value.Enum
	}
	if len(enum) == 0 {
		return nil
	}
	clientDescriptions := mapExtension(prop.Extensions, "x-client-descriptions")
	out := make([]model.SpecOption, 0, len(enum))
	for _, raw := range enum {
		value, ok := raw.(string)
		if !ok {
			value = fmt.Sprint(raw)
		}
		out = append(out, model.SpecOption{
			SupplierDescription: value,
			ClientDescription:   clientDescriptions[value],
		})
	}
	return out
}

func boolExtension(ext map[string]any, key string) bool {
	value, ok := ext[key]
	if !ok {
		return false
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case json.RawMessage:
		var out bool
		if err := json.Unmarshal(typed, &out); err == nil {
			return out
		}
	}
	return false
}

func stringExtension(ext map[string]any, key string) string {
	value, ok := ext[key]
	if !ok {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(typed, &out); err == nil {
			return out
		}
	}
	return ""
}

func intExtension(ext map[string]any, key string) int {
	value, ok := ext[key]
	if !ok {
		return 0
	}
	switch typed := value.(type) {
	case int:
		return typed
	case float64:
		return int(typed)
	case json.RawMessage:
		var out int
		if err := json.Unmarshal(typed, &out); err == nil {
			return out
		}
	}
	return 0
}

func mapExtension(ext map[string]any, key string) map[string]string {
	out := make(map[string]string)
	value, ok := ext[key]
	if !ok {
		return out
	}
	switch typed := value.(type) {
	case map[string]any:
		for k, v := range typed {
			if s, isString := v.(string); isString {
				out[k] = s
			}
		}
	case json.RawMessage:
		_ = json.Unmarshal(typed, &out)
	}
	return out
}
