// Package submit assembles the transport-ready multipart payload from final
// form values and the linked-product row lists.
package submit

import (
	"fmt"
	"io"
	"mime/multipart"
)

// Part is one multipart entry: either a plain value or binary file content.
type Part struct {
	Key      string
	Value    string
	Filename string
	Data     []byte
}

// IsFile reports whether the part carries binary content.
func (p Part) IsFile() bool {
	return p.Data != nil
}

// Payload is the ordered multipart structure handed to the transport layer.
// Keys repeat for list-valued fields.
type Payload struct {
	parts []Part
}

func (p *Payload) appendValue(key, value string) {
	p.parts = append(p.parts, Part{Key: key, Value: value})
}

func (p *Payload) appendFile(key, filename string, data []byte) {
	if data == nil {
		data = []byte{}
	}
	p.parts = append(p.parts, Part{Key: key, Filename: filename, Data: data})
}

// Parts returns the entries in assembly order.
func (p *Payload) Parts() []Part {
	out := make([]Part, len(p.parts))
	copy(out, p.parts)
	return out
}

// Values returns every plain value appended under a key, in order.
func (p *Payload) Values(key string) []string {
	var out []string
	for _, part := range p.parts {
		if part.Key == key && !part.IsFile() {
			out = append(out, part.Value)
		}
	}
	return out
}

// Value returns the first plain value under a key.
func (p *Payload) Value(key string) (string, bool) {
	for _, part := range p.parts {
		if part.Key == key && !part.IsFile() {
			return part.Value, true
		}
	}
	return "", false
}

// Files returns every file part appended under a key, in order.
func (p *Payload) Files(key string) []Part {
	var out []Part
	for _, part := range p.parts {
		if part.Key == key && part.IsFile() {
			out = append(out, part)
		}
	}
	return out
}

// Has reports whether any part was appended under a key.
func (p *Payload) Has(key string) bool {
	for _, part := range p.parts {
		if part.Key == key {
			return true
		}
	}
	return false
}

// Len returns the number of parts.
func (p *Payload) Len() int {
	return len(p.parts)
}

// WriteMultipart encodes the payload onto w and returns the content type
// including the boundary.
func (p *Payload) WriteMultipart(w io.Writer) (string, error) {
	writer := multipart.NewWriter(w)
	for _, part := range p.parts {
		if part.IsFile() {
			name := part.Filename
			if name == "" {
				name = part.Key
			}
			dest, err := writer.CreateFormFile(part.Key, name)
			if err != nil {
				return "", fmt.Errorf("submit: create file part %q: %w", part.Key, err)
			}
			if _, err := dest.Write(part.Data); err != nil {
				return "", fmt.Errorf("submit: write file part %q: %w", part.Key, err)
			}
			continue
		}
		if err := writer.WriteField(part.Key, part.Value); err != nil {
			return "", fmt.Errorf("submit: write field %q: %w", part.Key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("submit: close multipart writer: %w", err)
	}
	return writer.FormDataContentType(), nil
}
