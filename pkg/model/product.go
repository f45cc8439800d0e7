package model

import (
	"encoding/json"
	"fmt"
)

// NamedRef is an id/name pair carried by expanded references.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LinkedProduct is the persisted shape of a related or local product
// reference, including its image collection.
type LinkedProduct struct {
	TemporaryCode string   `json:"temporaryCode"`
	Name          string   `json:"name,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// SavedSpecification is the persisted specification document: size1/size2
// are plain strings living next to the per-field value objects.
type SavedSpecification struct {
	Size1  string
	Size2  string
	Fields map[string]FieldValue
}

// UnmarshalJSON splits the scalar sizes from the field entries.
func (s *SavedSpecification) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: specification document: %w", err)
	}
	out := SavedSpecification{Fields: make(map[string]FieldValue, len(raw))}
	for key, entry := range raw {
		switch key {
		case "size1":
			if err := json.Unmarshal(entry, &out.Size1); err != nil {
				return fmt.Errorf("model: specification size1: %w", err)
			}
		case "size2":
			if err := json.Unmarshal(entry, &out.Size2); err != nil {
				return fmt.Errorf("model: specification size2: %w", err)
			}
		default:
			var value FieldValue
			if err := json.Unmarshal(entry, &value); err != nil {
				return fmt.Errorf("model: specification field %q: %w", key, err)
			}
			out.Fields[key] = value
		}
	}
	*s = out
	return nil
}

// MarshalJSON rebuilds the merged document shape.
func (s SavedSpecification) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Fields)+2)
	doc["size1"] = s.Size1
	doc["size2"] = s.Size2
	for name, value := range s.Fields {
		doc[name] = value
	}
	return json.Marshal(doc)
}

// FieldNames lists the field entries present in the saved document.
func (s SavedSpecification) FieldNames() []string {
	if len(s.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	return names
}

// Product is the persisted record returned by the data-fetch service.
type Product struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	TemporaryCode          string             `json:"temporaryCode"`
	Description            string             `json:"description,omitempty"`
	GST                    string             `json:"gst,omitempty"`
	Status                 string             `json:"status,omitempty"`
	Enabled                bool               `json:"enabled"`
	ExcludeProductSpec     bool               `json:"excludeProductSpec"`
	RecordProductHistory   bool               `json:"recordProductHistory"`
	PrintImage             bool               `json:"printImage"`
	RecordStockTransaction bool               `json:"recordStockTransaction"`
	ProductTypeID          string             `json:"productTypeId,omitempty"`
	ProductType            *NamedRef          `json:"productType,omitempty"`
	Specification          SavedSpecification `json:"specification"`
	Image                  string             `json:"image,omitempty"`
	AdditionalImages       []string           `json:"additionalImages,omitempty"`
	RelatedProduct         *LinkedProduct     `json:"relatedProduct,omitempty"`
	LocalProduct           *LinkedProduct     `json:"localProduct,omitempty"`
}
