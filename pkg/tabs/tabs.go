// Package tabs maps the validation error tree onto per-section visibility:
// a section shows its red indicator only once it has been visited (or the
// form submitted), independently of global validity.
package tabs

import (
	"github.com/goliatone/go-productform/pkg/errtree"
	"github.com/goliatone/go-productform/pkg/model"
)

// Section indexes the four form sections.
type Section int

const (
	SectionBasic Section = iota
	SectionConfiguration
	SectionSpecification
	SectionImages
)

// Sections lists every section in navigation order.
var Sections = []Section{SectionBasic, SectionConfiguration, SectionSpecification, SectionImages}

var sectionFields = map[Section][]string{
	SectionBasic:         {"name", "description", "productTypeId", "code"},
	SectionConfiguration: {"gst", "status"},
	SectionSpecification: {"specification", "size1", "size2"},
	SectionImages:        {"image", "additionalImages", "relatedImages", "localImages"},
}

// Fields returns the field names registered to a section.
func Fields(s Section) []string {
	return sectionFields[s]
}

// SpecContext carries the template state the specification section needs to
// decide which errors count.
type SpecContext struct {
	Active             []model.SpecField
	Removed            map[string]bool
	ExcludeProductSpec bool
}

// VisitedSet tracks sections the operator has navigated away from. Append
// only until the form resets.
type VisitedSet map[Section]bool

// Aggregator owns the visited/submitted state and the one-shot auto-jump
// latch used after a failed submit.
type Aggregator struct {
	visited   VisitedSet
	submitted bool
	jumped    bool
}

// NewAggregator returns an aggregator with nothing visited.
func NewAggregator() *Aggregator {
	return &Aggregator{visited: make(VisitedSet)}
}

// MarkVisited records that a section has been left at least once.
func (a *Aggregator) MarkVisited(s Section) {
	a.visited[s] = true
}

// Visited reports whether a section has been visited.
func (a *Aggregator) Visited(s Section) bool {
	return a.visited[s]
}

// BeginSubmit marks every section visited, sets the submitted flag, and
// re-arms the auto-jump latch. Called once per submit attempt.
func (a *Aggregator) BeginSubmit() {
	for _, s := range Sections {
		a.visited[s] = true
	}
	a.submitted = true
	a.jumped = false
}

// Submitted reports whether a submit attempt happened since the last reset.
func (a *Aggregator) Submitted() bool {
	return a.submitted
}

// Reset clears all session state, used after a successful submission or when
// the entity id changes.
func (a *Aggregator) Reset() {
	a.visited = make(VisitedSet)
	a.submitted = false
	a.jumped = false
}

// Flags computes visible_error per section:
// (visited OR submitted) AND has_error.
func (a *Aggregator) Flags(tree *errtree.Tree, spec SpecContext) map[Section]bool {
	out := make(map[Section]bool, len(Sections))
	for _, s := range Sections {
		out[s] = (a.visited[s] || a.submitted) && HasError(s, tree, spec)
	}
	return out
}

// AutoJump returns the lowest-indexed section with an error exactly once per
// submit attempt. Subsequent calls report false until BeginSubmit re-arms it.
func (a *Aggregator) AutoJump(tree *errtree.Tree, spec SpecContext) (Section, bool) {
	if !a.submitted || a.jumped {
		return 0, false
	}
	a.jumped = true
	for _, s := range Sections {
		if HasError(s, tree, spec) {
			return s, true
		}
	}
	return 0, false
}

// HasError reports whether a section currently carries validation errors.
// The specification section only counts active, non-removed fields whose
// validation applies under the exclude/dimension gate.
func HasError(s Section, tree *errtree.Tree, spec SpecContext) bool {
	if tree == nil {
		return false
	}
	if s == SectionSpecification {
		return specSectionHasError(tree, spec)
	}
	for _, field := range sectionFields[s] {
		if tree.Has(field) {
			return true
		}
	}
	return false
}

func specSectionHasError(tree *errtree.Tree, spec SpecContext) bool {
	for _, field := range spec.Active {
		if spec.Removed[field.FieldName] {
			continue
		}
		if spec.ExcludeProductSpec && !field.ArtworkDimension {
			continue
		}
		if tree.Has("specification." + field.FieldName + ".supplierDescription") {
			return true
		}
	}
	return false
}

// TouchPaths expands a section into the field paths stamped "touched" when
// the operator leaves it. The specification entry expands to the
// supplier-description path of every active field, and the size scalars
// carry the specification prefix the validator writes them under.
func TouchPaths(s Section, active []model.SpecField) []string {
	fields := sectionFields[s]
	out := make([]string, 0, len(fields)+len(active))
	for _, field := range fields {
		if s == SectionSpecification {
			if field == "specification" {
				for _, spec := range active {
					out = append(out, "specification."+spec.FieldName+".supplierDescription")
				}
				continue
			}
			out = append(out, "specification."+field)
			continue
		}
		out = append(out, field)
	}
	return out
}
