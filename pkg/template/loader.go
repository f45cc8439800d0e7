package template

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-productform/pkg/model"
)

type fileTemplate struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	FieldName        string       `yaml:"fieldName"`
	FieldType        string       `yaml:"fieldType"`
	Multiple         bool         `yaml:"multiple"`
	AddQuantity      bool         `yaml:"addQuantity"`
	ArtworkDimension bool         `yaml:"artworkDimensionStatus"`
	Options          []fileOption `yaml:"option"`
}

type fileOption struct {
	SupplierDescription string `yaml:"supplierDescription"`
	ClientDescription   string `yaml:"clientDescription"`
}

// ParseTemplate decodes a YAML template definition.
func ParseTemplate(data []byte) (*model.TypeTemplate, error) {
	var raw fileTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("template: parse: %w", err)
	}
	if raw.ID == "" {
		return nil, errors.New("template: id is required")
	}

	out := &model.TypeTemplate{ID: raw.ID, Name: raw.Name}
	for _, field := range raw.Fields {
		if field.FieldName == "" {
			return nil, errors.New("template: field name is required")
		}
		kind := model.FieldType(field.FieldType)
		switch kind {
		case model.FieldTypeText, model.FieldTypeNumber, model.FieldTypeSelect:
		case "":
			kind = model.FieldTypeText
		default:
			return nil, fmt.Errorf("template: field %q has unknown type %q", field.FieldName, field.FieldType)
		}
		spec := model.SpecField{
			FieldName:        field.FieldName,
			FieldType:        kind,
			Multiple:         field.Multiple,
			AddQuantity:      field.AddQuantity,
			ArtworkDimension: field.ArtworkDimension,
		}
		for _, opt := range field.Options {
			spec.Options = append(spec.Options, model.SpecOption{
				SupplierDescription: opt.SupplierDescription,
				ClientDescription:   opt.ClientDescription,
			})
		}
		out.Fields = append(out.Fields, spec)
	}
	return out, nil
}

// LoadTemplate reads and decodes a YAML template definition file.
func LoadTemplate(path string) (*model.TypeTemplate, error) {
	if path == "" {
		return nil, errors.New("template: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: read %s: %w", path, err)
	}
	return ParseTemplate(data)
}
