package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-productform/pkg/catalog"
	"github.com/goliatone/go-productform/pkg/client"
	"github.com/goliatone/go-productform/pkg/linked"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/session"
	"github.com/goliatone/go-productform/pkg/submit"
	"github.com/goliatone/go-productform/pkg/tabs"
	"github.com/goliatone/go-productform/pkg/testsupport"
)

type fakeData struct {
	product      *model.Product
	err          error
	submittedIDs []string
	payloads     []*submit.Payload
}

func (f *fakeData) Product(_ context.Context, id string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeData) SubmitProduct(_ context.Context, id string, payload *submit.Payload) error {
	f.submittedIDs = append(f.submittedIDs, id)
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeTemplates struct {
	templates map[string]*model.TypeTemplate
	// hook runs before a fetch returns; tests use it to interleave a second
	// selection with an in-flight one.
	hook func(productTypeID string)
}

func (f *fakeTemplates) Template(_ context.Context, id string) (*model.TypeTemplate, error) {
	if f.hook != nil {
		hook := f.hook
		f.hook = nil
		hook(id)
	}
	tpl, ok := f.templates[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return tpl, nil
}

type fakeCatalogs struct {
	page      *catalog.Page
	lastQuery client.Query
}

func (f *fakeCatalogs) SearchProducts(_ context.Context, q client.Query) (*catalog.Page, error) {
	f.lastQuery = q
	return f.page, nil
}

func newSession(data *fakeData, templates *fakeTemplates) *session.Session {
	if templates == nil {
		templates = &fakeTemplates{}
	}
	return session.New(data, templates, &fakeCatalogs{})
}

func validValues(values *model.FormValues) {
	values.Name = "Banner"
	values.Code = "P-001"
	values.Description = "Outdoor banner"
	values.GST = "10"
	values.Status = "active"
	values.Size1 = "10"
	values.Size2 = "20"
	values.ProductTypeID = &model.Ref{Value: "pt-1", Label: "Banner"}
}

func TestLoadCreateDefaults(t *testing.T) {
	sess := newSession(&fakeData{}, nil)
	require.NoError(t, sess.Load(context.Background(), ""))

	values := sess.Values()
	assert.True(t, values.Enabled)
	assert.True(t, values.RecordProductHistory)
	assert.True(t, values.PrintImage)
	assert.False(t, sess.Editing())
	assert.Equal(t, 0, sess.Related().Len())
}

func TestLoadSeedsFromRecord(t *testing.T) {
	data := &fakeData{product: testsupport.MustLoadProduct(t, "testdata/product.json")}
	templates := &fakeTemplates{templates: map[string]*model.TypeTemplate{
		"pt-1": testsupport.MustLoadTemplate(t, "testdata/template.json"),
	}}

	sess := newSession(data, templates)
	require.NoError(t, sess.Load(context.Background(), "p-1"))

	assert.True(t, sess.Editing())
	values := sess.Values()
	assert.Equal(t, "Banner", values.Name)
	assert.Equal(t, "10", values.Size1)
	assert.Equal(t, "Vinyl", values.Specification["Material"].Supplier.Text)

	// Finish was added to the template after save and stays hidden.
	fields := sess.ActiveFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "Material", fields[0].FieldName)

	rows := sess.Related().Entries()
	require.Len(t, rows, 1)
	assert.Equal(t, "P-009", rows[0].Product.Value)
	require.Len(t, rows[0].Images, 1)
	assert.True(t, rows[0].Images[0].IsPersisted())
}

func TestLoadNotFoundPassesThrough(t *testing.T) {
	sess := newSession(&fakeData{err: client.ErrNotFound}, nil)
	err := sess.Load(context.Background(), "missing")
	assert.True(t, errors.Is(err, client.ErrNotFound))
}

func TestSetProductTypeReseeds(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]*model.TypeTemplate{
		"pt-2": {ID: "pt-2", Fields: []model.SpecField{{FieldName: "Material", FieldType: model.FieldTypeText}}},
	}}
	sess := newSession(&fakeData{}, templates)
	require.NoError(t, sess.Load(context.Background(), ""))

	sess.SetSpecValue("Material", model.FieldValue{Supplier: model.SupplierText("Vinyl")})
	sess.SetSpecValue(model.FieldWidth, model.FieldValue{
		Supplier:         model.SupplierText("100"),
		ArtworkDimension: true,
	})
	sess.SetExcludeSpec(true)
	sess.RemoveSpecification("Material")

	ref := model.Ref{Value: "pt-2", Label: "Poster"}
	require.NoError(t, sess.SetProductType(context.Background(), &ref))

	values := sess.Values()
	assert.False(t, values.ExcludeProductSpec, "type change clears the exclude flag")
	_, hasMaterial := values.Specification["Material"]
	assert.False(t, hasMaterial, "non-dimension entries are discarded")
	_, hasWidth := values.Specification[model.FieldWidth]
	assert.True(t, hasWidth, "dimension entries survive the reseed")

	// The removed set was cleared, so Material is active again.
	fields := sess.ActiveFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "Material", fields[0].FieldName)
}

func TestSetProductTypeStaleResponseDiscarded(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]*model.TypeTemplate{
		"pt-1": {ID: "pt-1", Fields: []model.SpecField{{FieldName: "Old", FieldType: model.FieldTypeText}}},
		"pt-2": {ID: "pt-2", Fields: []model.SpecField{{FieldName: "New", FieldType: model.FieldTypeText}}},
	}}
	sess := newSession(&fakeData{}, templates)
	require.NoError(t, sess.Load(context.Background(), ""))

	// While pt-1 is in flight the operator picks pt-2; the pt-1 response
	// must not clobber the later selection.
	templates.hook = func(id string) {
		if id == "pt-1" {
			second := model.Ref{Value: "pt-2", Label: "pt-2"}
			require.NoError(t, sess.SetProductType(context.Background(), &second))
		}
	}
	first := model.Ref{Value: "pt-1", Label: "pt-1"}
	require.NoError(t, sess.SetProductType(context.Background(), &first))

	fields := sess.ActiveFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "New", fields[0].FieldName)
}

func TestFieldErrorVisibilityGate(t *testing.T) {
	sess := newSession(&fakeData{}, nil)
	require.NoError(t, sess.Load(context.Background(), ""))

	// Name is empty so the error exists, but nothing has been touched.
	_, visible := sess.FieldError("name")
	assert.False(t, visible)

	sess.SetField("name", func(values *model.FormValues) {
		values.Name = ""
	})
	message, visible := sess.FieldError("name")
	assert.True(t, visible)
	assert.Equal(t, "Required", message)

	// Untouched field on a visited section becomes visible on navigation.
	_, visible = sess.FieldError("description")
	assert.False(t, visible)
	sess.ChangeTab(tabs.SectionConfiguration)
	_, visible = sess.FieldError("description")
	assert.True(t, visible)
}

func TestChangeTabStampsSpecPaths(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]*model.TypeTemplate{
		"pt-1": {ID: "pt-1", Fields: []model.SpecField{{FieldName: "Material", FieldType: model.FieldTypeText}}},
	}}
	sess := newSession(&fakeData{}, templates)
	require.NoError(t, sess.Load(context.Background(), ""))
	ref := model.Ref{Value: "pt-1", Label: "pt-1"}
	require.NoError(t, sess.SetProductType(context.Background(), &ref))

	sess.ChangeTab(tabs.SectionSpecification)
	_, visible := sess.FieldError("specification.Material.supplierDescription")
	assert.False(t, visible, "spec errors stay hidden until the section is left")

	sess.ChangeTab(tabs.SectionImages)
	message, visible := sess.FieldError("specification.Material.supplierDescription")
	assert.True(t, visible)
	assert.Equal(t, "Required", message)

	// The size scalars are stamped under the same prefix the validator
	// writes their errors to.
	message, visible = sess.FieldError("specification.size1")
	assert.True(t, visible)
	assert.Equal(t, "Required", message)
}

func TestRemoveSpecificationDropsEverything(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]*model.TypeTemplate{
		"pt-1": {ID: "pt-1", Fields: []model.SpecField{{FieldName: "Material", FieldType: model.FieldTypeText}}},
	}}
	sess := newSession(&fakeData{}, templates)
	require.NoError(t, sess.Load(context.Background(), ""))
	ref := model.Ref{Value: "pt-1", Label: "pt-1"}
	require.NoError(t, sess.SetProductType(context.Background(), &ref))

	sess.SetSpecValue("Material", model.FieldValue{Supplier: model.SupplierText("Vinyl")})
	sess.RemoveSpecification("Material")

	assert.Empty(t, sess.ActiveFields())
	_, ok := sess.Values().Specification["Material"]
	assert.False(t, ok)
	assert.False(t, sess.Errors().Has("specification.Material"))
}

func TestSubmitInvalidJumpsOnce(t *testing.T) {
	sess := newSession(&fakeData{}, nil)
	require.NoError(t, sess.Load(context.Background(), ""))
	sess.ChangeTab(tabs.SectionImages)

	err := sess.Submit(context.Background())
	var valErr *session.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.True(t, valErr.Jumped)
	assert.Equal(t, tabs.SectionBasic, valErr.Jump)
	assert.Equal(t, tabs.SectionBasic, sess.ActiveTab())

	// The latch re-arms per attempt, so the next failed submit jumps again.
	sess.ChangeTab(tabs.SectionImages)
	err = sess.Submit(context.Background())
	require.True(t, errors.As(err, &valErr))
	assert.True(t, valErr.Jumped)
}

func TestSubmitSuccessResets(t *testing.T) {
	data := &fakeData{}
	sess := newSession(data, nil)
	require.NoError(t, sess.Load(context.Background(), ""))

	sess.SetField("", validValues)
	entry := sess.Related().Add()
	selected := model.NewRef("P-009")
	sess.Related().SetSelection(entry.ID, &selected)

	require.NoError(t, sess.Submit(context.Background()))

	require.Len(t, data.submittedIDs, 1)
	assert.Equal(t, "", data.submittedIDs[0], "create submits without an id")
	assert.Equal(t, 0, sess.Related().Len(), "rows clear after success")

	// The submitted latch cleared: untouched errors hide again.
	sess.SetField("", func(values *model.FormValues) {
		values.Description = ""
	})
	_, visible := sess.FieldError("description")
	assert.False(t, visible)
}

func TestSubmitEditUsesRecordID(t *testing.T) {
	data := &fakeData{product: &model.Product{ID: "p-1", Name: "Banner", TemporaryCode: "P-001"}}
	sess := newSession(data, nil)
	require.NoError(t, sess.Load(context.Background(), "p-1"))

	sess.SetField("", validValues)
	require.NoError(t, sess.Submit(context.Background()))

	require.Len(t, data.submittedIDs, 1)
	assert.Equal(t, "p-1", data.submittedIDs[0])
}

func TestSubmitGuardErrorSurfaces(t *testing.T) {
	sess := newSession(&fakeData{}, nil)
	require.NoError(t, sess.Load(context.Background(), ""))

	sess.SetField("", func(values *model.FormValues) {
		validValues(values)
		values.LocalImages = []model.Image{model.Upload("orphan.png", []byte{1})}
	})

	err := sess.Submit(context.Background())
	var fieldErr *submit.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "localProductId", fieldErr.Field)
}

func TestSearchCatalogSanitisesInput(t *testing.T) {
	catalogs := &fakeCatalogs{page: &catalog.Page{Items: []catalog.Product{
		{TemporaryCode: "P-001", Name: "Banner"},
	}}}
	sess := session.New(&fakeData{}, &fakeTemplates{}, catalogs)
	require.NoError(t, sess.Load(context.Background(), ""))

	page, err := sess.SearchCatalog(context.Background(), linked.RoleRelated, "<b>ban</b>")
	require.NoError(t, err)
	assert.Equal(t, "ban", catalogs.lastQuery.Search)
	require.NotNil(t, catalogs.lastQuery.Status)
	assert.True(t, *catalogs.lastQuery.Status)
	require.Len(t, page.Items, 1)

	entry := sess.Related().Add()
	options := sess.RowOptions(linked.RoleRelated, entry.ID)
	require.Len(t, options, 1)
	assert.Equal(t, "P-001", options[0].Value)

	assert.Equal(t, "Banner", sess.DisplayName(linked.RoleRelated, "P-001"))
	assert.Equal(t, "", sess.DisplayName(linked.RoleLocal, "P-001"), "pages are role-scoped")
}

func TestDebouncerLatestWins(t *testing.T) {
	debouncer := session.NewDebouncer(20 * time.Millisecond)
	defer debouncer.Stop()

	var first, second atomic.Int32
	debouncer.Trigger(func() { first.Add(1) })
	debouncer.Trigger(func() { second.Add(1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "superseded trigger never runs")
	assert.Equal(t, int32(1), second.Load())
}
