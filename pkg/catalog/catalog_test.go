package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-productform/pkg/catalog"
	"github.com/goliatone/go-productform/pkg/model"
)

func TestOptionsProjection(t *testing.T) {
	page := &catalog.Page{Items: []catalog.Product{
		{TemporaryCode: "P-001", Name: "Banner"},
		{TemporaryCode: "", Name: "skipped"},
		{TemporaryCode: "P-002", Name: "Flag"},
	}}

	want := []model.Ref{model.NewRef("P-001"), model.NewRef("P-002")}
	if diff := cmp.Diff(want, page.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	var empty *catalog.Page
	if empty.Options() != nil {
		t.Fatal("nil page must produce nil options")
	}
}

func TestNameByCode(t *testing.T) {
	page := &catalog.Page{Items: []catalog.Product{
		{TemporaryCode: "P-001", Name: "Banner <script>alert(1)</script>"},
	}}

	if got := page.NameByCode("P-001"); got != "Banner" {
		t.Fatalf("want sanitised name, got %q", got)
	}
	if got := page.NameByCode("P-404"); got != "" {
		t.Fatalf("unknown code must resolve to empty, got %q", got)
	}
}

func TestSanitizeText(t *testing.T) {
	if got := catalog.SanitizeText("  <b>bold</b> name "); got != "bold name" {
		t.Fatalf("unexpected sanitised text %q", got)
	}
	if got := catalog.SanitizeText("   "); got != "" {
		t.Fatalf("blank input must stay empty, got %q", got)
	}
}
