// Package session owns one open product form: its values, template, error
// visibility, linked-product rows, and the submit flow. All mutating entry
// points serialise on an internal mutex so UI callbacks and async fetch
// completions can land in any order.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-productform/pkg/catalog"
	"github.com/goliatone/go-productform/pkg/client"
	"github.com/goliatone/go-productform/pkg/errtree"
	"github.com/goliatone/go-productform/pkg/linked"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/submit"
	"github.com/goliatone/go-productform/pkg/tabs"
	"github.com/goliatone/go-productform/pkg/template"
	"github.com/goliatone/go-productform/pkg/validation"
)

// DataService loads and persists product records.
type DataService interface {
	Product(ctx context.Context, id string) (*model.Product, error)
	SubmitProduct(ctx context.Context, id string, payload *submit.Payload) error
}

// TemplateService resolves the specification template for a product type.
type TemplateService interface {
	Template(ctx context.Context, productTypeID string) (*model.TypeTemplate, error)
}

// CatalogService runs paginated product searches for the linked-product
// pickers.
type CatalogService interface {
	SearchProducts(ctx context.Context, q client.Query) (*catalog.Page, error)
}

// ValidationError is returned by Submit when the form is invalid. It carries
// the full error tree plus the section the form auto-jumped to, when the
// one-shot latch fired.
type ValidationError struct {
	Errors *errtree.Tree
	Jump   tabs.Section
	Jumped bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: validation failed with %d errors", e.Errors.Len())
}

// Session is the engine behind one open form.
type Session struct {
	mu sync.Mutex

	data      DataService
	templates TemplateService
	catalogs  CatalogService

	valOpts []validation.Option

	values   *model.FormValues
	saved    *model.Product
	template *model.TypeTemplate

	removed map[string]bool
	touched map[string]bool

	agg       *tabs.Aggregator
	activeTab tabs.Section

	related *linked.List
	local   *linked.List

	relatedCatalog *catalog.Page
	localCatalog   *catalog.Page

	// templateGen increments on every product-type selection; template
	// responses carrying a stale generation are discarded.
	templateGen uint64
}

// Option mutates the session during construction.
type Option func(*Session)

// WithValidationOptions forwards rule toggles to every validation run.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(s *Session) {
		s.valOpts = append(s.valOpts, opts...)
	}
}

// New builds a session over the three backing services.
func New(data DataService, templates TemplateService, catalogs CatalogService, opts ...Option) *Session {
	s := &Session{
		data:      data,
		templates: templates,
		catalogs:  catalogs,
		values:    model.NewFormValues(),
		removed:   make(map[string]bool),
		touched:   make(map[string]bool),
		agg:       tabs.NewAggregator(),
		related:   linked.NewList(linked.RoleRelated),
		local:     linked.NewList(linked.RoleLocal),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load opens the form. An empty id starts a create flow with defaults; a
// non-empty id fetches the record and seeds every sub-state from it. A
// not-found fetch passes client.ErrNotFound through unchanged so the caller
// can render the missing-record state.
func (s *Session) Load(ctx context.Context, id string) error {
	if id == "" {
		s.mu.Lock()
		s.resetLocked(nil)
		s.mu.Unlock()
		return nil
	}

	product, err := s.data.Product(ctx, id)
	if err != nil {
		return err
	}

	var tpl *model.TypeTemplate
	if product.ProductTypeID != "" {
		tpl, err = s.templates.Template(ctx, product.ProductTypeID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(product)
	s.template = tpl
	if product.RelatedProduct != nil {
		s.related = linked.SeedList(linked.RoleRelated,
			model.NewRef(product.RelatedProduct.TemporaryCode),
			model.PersistedImages(product.RelatedProduct.Images))
	}
	if product.LocalProduct != nil {
		s.local = linked.SeedList(linked.RoleLocal,
			model.NewRef(product.LocalProduct.TemporaryCode),
			model.PersistedImages(product.LocalProduct.Images))
	}
	return nil
}

// resetLocked rebuilds every piece of session state around a record, or
// around defaults when the record is nil.
func (s *Session) resetLocked(product *model.Product) {
	s.saved = product
	s.values = model.ValuesFromProduct(product)
	s.template = nil
	s.removed = make(map[string]bool)
	s.touched = make(map[string]bool)
	s.agg.Reset()
	s.activeTab = tabs.SectionBasic
	s.related = linked.NewList(linked.RoleRelated)
	s.local = linked.NewList(linked.RoleLocal)
	s.templateGen++
}

// Editing reports whether the form is bound to a persisted record.
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved != nil
}

// Values returns the live form values. Mutate through the Set methods so
// touched tracking and reseed rules stay consistent.
func (s *Session) Values() *model.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// SetField applies a mutation to the form values and stamps the given path
// touched.
func (s *Session) SetField(path string, mutate func(*model.FormValues)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mutate != nil {
		mutate(s.values)
	}
	if path != "" {
		s.touched[path] = true
	}
}

// SetSpecValue writes one specification entry and stamps its
// supplier-description path touched.
func (s *Session) SetSpecValue(name string, value model.FieldValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.SetSpecField(name, value)
	s.touched["specification."+name+".supplierDescription"] = true
}

// SetProductType changes the selected product type. The specification map is
// reseeded immediately (dimension entries survive, everything else is
// dropped), the exclude flag clears, the per-session removed set empties, and
// the new template is fetched. A selection made while the fetch is in flight
// wins: the stale response is discarded.
func (s *Session) SetProductType(ctx context.Context, ref *model.Ref) error {
	s.mu.Lock()
	s.values.ProductTypeID = ref
	s.values.Specification = template.PreserveOnTypeChange(s.values.Specification)
	s.values.ExcludeProductSpec = false
	s.removed = make(map[string]bool)
	s.touched["productTypeId"] = true
	s.template = nil
	if s.saved != nil && (ref == nil || ref.Value != s.saved.ProductTypeID) {
		s.agg.MarkVisited(tabs.SectionSpecification)
	}
	s.templateGen++
	gen := s.templateGen
	s.mu.Unlock()

	if ref == nil || ref.Value == "" {
		return nil
	}

	tpl, err := s.templates.Template(ctx, ref.Value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.templateGen {
		return nil
	}
	s.template = tpl
	return nil
}

// SetExcludeSpec flips the exclude-product-spec toggle. Turning it on
// reseeds the specification map down to flagged Width/Height entries.
func (s *Session) SetExcludeSpec(exclude bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exclude && !s.values.ExcludeProductSpec {
		s.values.Specification = template.PreserveOnExclude(s.values.Specification)
	}
	s.values.ExcludeProductSpec = exclude
	s.touched["excludeProductSpec"] = true
}

// RemoveSpecification drops a template field for the rest of the session:
// its value, touched stamps, and future validation all go with it.
func (s *Session) RemoveSpecification(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[name] = true
	delete(s.values.Specification, name)
	prefix := "specification." + name + "."
	for path := range s.touched {
		if strings.HasPrefix(path, prefix) {
			delete(s.touched, path)
		}
	}
}

// ActiveTab returns the currently shown section.
func (s *Session) ActiveTab() tabs.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// ChangeTab navigates to a section, marking the section being left as
// visited and stamping all of its field paths touched.
func (s *Session) ChangeTab(next tabs.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next == s.activeTab {
		return
	}
	leaving := s.activeTab
	s.agg.MarkVisited(leaving)
	for _, path := range tabs.TouchPaths(leaving, s.activeFieldsLocked()) {
		s.touched[path] = true
	}
	s.activeTab = next
}

// ActiveFields resolves the template fields currently shown on the
// specification section.
func (s *Session) ActiveFields() []model.SpecField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFieldsLocked()
}

func (s *Session) activeFieldsLocked() []model.SpecField {
	if s.template == nil {
		return nil
	}
	in := template.ResolveInput{
		Fields:               s.template.Fields,
		Editing:              s.saved != nil,
		CurrentProductTypeID: s.values.ProductTypeValue(),
		Removed:              s.removed,
	}
	if s.saved != nil {
		// A persisted record always carries a specification document,
		// even one holding only the size scalars.
		in.SavedPresent = true
		in.Saved = s.saved.Specification
		in.SavedProductTypeID = s.saved.ProductTypeID
	}
	return template.Resolve(in)
}

// Errors validates the current snapshot and returns the full tree.
func (s *Session) Errors() *errtree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorsLocked()
}

func (s *Session) errorsLocked() *errtree.Tree {
	return validation.Validate(s.values, s.activeFieldsLocked(), s.removed, s.valOpts...)
}

func (s *Session) specContextLocked() tabs.SpecContext {
	return tabs.SpecContext{
		Active:             s.activeFieldsLocked(),
		Removed:            s.removed,
		ExcludeProductSpec: s.values.ExcludeProductSpec,
	}
}

// TabErrors computes the per-section error indicator flags.
func (s *Session) TabErrors() map[tabs.Section]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Flags(s.errorsLocked(), s.specContextLocked())
}

// FieldError returns the message to show under a field path, applying the
// visibility gate: an error shows only once its path was touched, its owning
// section visited, or the form submitted.
func (s *Session) FieldError(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.errorsLocked().Get(path)
	if !ok {
		return "", false
	}
	if s.touched[path] || s.agg.Submitted() {
		return message, true
	}
	if section, found := owningSection(path); found && s.agg.Visited(section) {
		return message, true
	}
	return "", false
}

// owningSection maps a field path to the section its top-level field is
// registered under.
func owningSection(path string) (tabs.Section, bool) {
	top := path
	if i := strings.IndexByte(path, '.'); i >= 0 {
		top = path[:i]
	}
	for _, section := range tabs.Sections {
		for _, field := range tabs.Fields(section) {
			if field == top {
				return section, true
			}
		}
	}
	// The size scalars live under the specification prefix.
	if top == "specification" || top == "size1" || top == "size2" {
		return tabs.SectionSpecification, true
	}
	return 0, false
}

// Related returns the related-product row list.
func (s *Session) Related() *linked.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.related
}

// Local returns the local-product row list.
func (s *Session) Local() *linked.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// SearchCatalog runs a picker search for one role and stores the page so
// option filtering and name lookup read consistent data.
func (s *Session) SearchCatalog(ctx context.Context, role linked.Role, input string) (*catalog.Page, error) {
	status := true
	page, err := s.catalogs.SearchProducts(ctx, client.Query{
		Search:    catalog.SanitizeText(input),
		Take:      10,
		SortOrder: "ASC",
		Status:    &status,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if role == linked.RoleLocal {
		s.localCatalog = page
	} else {
		s.relatedCatalog = page
	}
	return page, nil
}

// DisplayName resolves the sanitised catalog name for a selected code from
// the role's stored page, empty when the code is not on the page.
func (s *Session) DisplayName(role linked.Role, code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.relatedCatalog
	if role == linked.RoleLocal {
		page = s.localCatalog
	}
	return page.NameByCode(code)
}

// RowOptions returns the picker options for one row: the stored catalog page
// minus values already selected by sibling rows.
func (s *Session) RowOptions(role linked.Role, rowID string) []model.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.relatedCatalog
	list := s.related
	if role == linked.RoleLocal {
		page = s.localCatalog
		list = s.local
	}
	return list.FilteredOptions(rowID, page.Options())
}

// Submit validates, auto-jumps on failure, assembles the payload, and sends
// it. POST semantics for a create flow, PUT for an edit. On success the
// session-scoped state resets (submitted latch, removed fields, rows,
// touched stamps) while the form values stay for further editing.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.agg.BeginSubmit()

	tree := s.errorsLocked()
	if !tree.Empty() {
		jump, jumped := s.agg.AutoJump(tree, s.specContextLocked())
		if jumped {
			s.activeTab = jump
		}
		s.mu.Unlock()
		return &ValidationError{Errors: tree, Jump: jump, Jumped: jumped}
	}

	payload, err := submit.Assemble(s.values, s.related, s.local)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	id := ""
	if s.saved != nil {
		id = s.saved.ID
	}
	s.mu.Unlock()

	if err := s.data.SubmitProduct(ctx, id, payload); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.Reset()
	s.removed = make(map[string]bool)
	s.touched = make(map[string]bool)
	s.related.Clear()
	s.local.Clear()
	return nil
}
