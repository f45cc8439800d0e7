// Package catalog holds the read-only product catalog pages backing the
// linked-product pickers: option projection, display-name lookup, and
// sanitising of service-supplied text.
package catalog

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-productform/pkg/model"
)

// Product is one catalog search record.
type Product struct {
	TemporaryCode  string               `json:"temporaryCode"`
	Name           string               `json:"name"`
	RelatedProduct *model.LinkedProduct `json:"relatedProduct,omitempty"`
	LocalProduct   *model.LinkedProduct `json:"localProduct,omitempty"`
	Images         []string             `json:"images,omitempty"`
}

// Page is one page of catalog search results. Mutation only ever replaces a
// whole page, so concurrent readers need no locking.
type Page struct {
	Items []Product `json:"items"`
	Total int       `json:"total,omitempty"`
}

// Options projects the page into picker options; label and value both carry
// the temporary code.
func (p *Page) Options() []model.Ref {
	if p == nil || len(p.Items) == 0 {
		return nil
	}
	out := make([]model.Ref, 0, len(p.Items))
	for _, item := range p.Items {
		if item.TemporaryCode == "" {
			continue
		}
		out = append(out, model.NewRef(item.TemporaryCode))
	}
	return out
}

// NameByCode resolves the sanitised display name for a selected code,
// returning empty when the code is not on the page. This is a read-only
// projection, never authoritative state.
func (p *Page) NameByCode(code string) string {
	if p == nil || code == "" {
		return ""
	}
	for _, item := range p.Items {
		if item.TemporaryCode == code {
			return SanitizeText(item.Name)
		}
	}
	return ""
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips any markup from catalog-supplied text before it is
// shown next to form fields.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}
