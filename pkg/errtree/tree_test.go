package errtree_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-productform/pkg/errtree"
)

func TestSetGetDelete(t *testing.T) {
	tree := errtree.New()
	tree.Set("name", "Required")
	tree.Set("specification.Material.supplierDescription", "Required")
	tree.Set("specification.size1", "Invalid Size")

	if msg, ok := tree.Get("specification.Material.supplierDescription"); !ok || msg != "Required" {
		t.Fatalf("expected leaf message, got %q ok=%v", msg, ok)
	}
	if !tree.Has("specification") {
		t.Fatal("expected subtree presence under specification")
	}
	if tree.Has("specification.Material.clientDescription") {
		t.Fatal("unexpected leaf")
	}

	tree.Delete("specification.Material.supplierDescription")
	if tree.Has("specification.Material") {
		t.Fatal("expected empty interior node to be pruned")
	}
	if !tree.Has("specification.size1") {
		t.Fatal("sibling leaf should survive deletion")
	}
}

func TestFlattenAndTopLevel(t *testing.T) {
	tree := errtree.New()
	tree.Set("gst", "Required")
	tree.Set("specification.Width.supplierDescription", "Required")
	tree.Set("specification.size2", "Required")

	want := map[string]string{
		"gst":                                   "Required",
		"specification.Width.supplierDescription": "Required",
		"specification.size2":                   "Required",
	}
	if diff := cmp.Diff(want, tree.Flatten()); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}

	wantKeys := []string{"gst", "specification"}
	if diff := cmp.Diff(wantKeys, tree.TopLevel()); diff != "" {
		t.Fatalf("top-level keys mismatch (-want +got):\n%s", diff)
	}
	if tree.Len() != 3 {
		t.Fatalf("expected 3 leaves, got %d", tree.Len())
	}
}

func TestMergeLaterWins(t *testing.T) {
	base := errtree.New()
	base.Set("name", "Required")
	base.Set("specification.size1", "Required")

	extra := errtree.New()
	extra.Set("specification.size1", "Invalid Size")
	extra.Set("status", "Required")

	base.Merge(extra)

	want := map[string]string{
		"name":                "Required",
		"specification.size1": "Invalid Size",
		"status":              "Required",
	}
	if diff := cmp.Diff(want, base.Flatten()); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := errtree.New()
	if !tree.Empty() {
		t.Fatal("new tree should be empty")
	}
	tree.Set("", "ignored")
	tree.Set("  ", "ignored")
	if !tree.Empty() {
		t.Fatal("blank paths must not create nodes")
	}
	if tree.TopLevel() != nil {
		t.Fatal("expected nil top-level keys for empty tree")
	}
}
