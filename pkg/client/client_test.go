package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-productform/pkg/client"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/submit"
)

func TestProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := client.New(server.URL)
	_, err := c.Product(context.Background(), "missing")
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProductDecodesWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/product/p-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"p-1","name":"Banner","temporaryCode":"P-001",` +
			`"specification":{"size1":"10","size2":"20","Material":{"supplierDescription":"Vinyl"}}}}`))
	}))
	defer server.Close()

	c := client.New(server.URL)
	product, err := c.Product(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("fetch product: %v", err)
	}
	if product.Name != "Banner" || product.Specification.Size1 != "10" {
		t.Fatalf("unexpected product %+v", product)
	}
	material := product.Specification.Fields["Material"]
	if material.Supplier.Text != "Vinyl" {
		t.Fatalf("unexpected specification entry %+v", material)
	}
}

func TestSearchProductsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("search") != "ban" || q.Get("take") != "10" || q.Get("status") != "true" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[{"temporaryCode":"P-001","name":"Banner"}],"total":1}`))
	}))
	defer server.Close()

	status := true
	c := client.New(server.URL)
	page, err := c.SearchProducts(context.Background(), client.Query{
		Search: "ban", Take: 10, SortOrder: "ASC", Status: &status,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].TemporaryCode != "P-001" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestSubmitMethodSelection(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	values := model.NewFormValues()
	values.Name = "Banner"
	payload, err := submit.Assemble(values, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	c := client.New(server.URL)
	if err := c.SubmitProduct(context.Background(), "", payload); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/product" {
		t.Fatalf("create used %s %s", gotMethod, gotPath)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("unexpected content type %q", gotContentType)
	}

	if err := c.SubmitProduct(context.Background(), "p-1", payload); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/product/p-1" {
		t.Fatalf("update used %s %s", gotMethod, gotPath)
	}
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.New(server.URL)
	_, err := c.Template(context.Background(), "pt-1")
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want StatusError 500, got %v", err)
	}
}
