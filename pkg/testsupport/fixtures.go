// Package testsupport holds fixture and golden-file helpers shared by the
// package test suites. Helpers fail the calling test on error so contract
// tests stay concise.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-productform/pkg/model"
)

// MustLoadProduct reads a JSON fixture into a persisted product record.
func MustLoadProduct(t *testing.T, path string) *model.Product {
	t.Helper()

	product, err := LoadProduct(path)
	if err != nil {
		t.Fatalf("load product fixture: %v", err)
	}
	return product
}

// LoadProduct reads a product fixture without requiring testing.T, for
// callers wiring fixtures in setup functions.
func LoadProduct(path string) (*model.Product, error) {
	if path == "" {
		return nil, errors.New("testsupport: product path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read product: %w", err)
	}
	var product model.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal product: %w", err)
	}
	return &product, nil
}

// MustLoadTemplate reads a JSON fixture into a product-type template.
func MustLoadTemplate(t *testing.T, path string) *model.TypeTemplate {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load template fixture: %v", err)
	}
	var tpl model.TypeTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		t.Fatalf("unmarshal template fixture: %v", err)
	}
	return &tpl
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGoldenJSON compares a value against a JSON golden file after a
// round-trip through encoding/json, so struct field ordering and formatting
// never matter. UPDATE_GOLDENS rewrites the file instead.
func AssertGoldenJSON(t *testing.T, path string, got any) {
	t.Helper()

	encoded, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	if WriteMaybeGolden(t, path, encoded) {
		return
	}

	var want, round any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	if err := json.Unmarshal(encoded, &round); err != nil {
		t.Fatalf("round-trip value: %v", err)
	}
	if diff := cmp.Diff(want, round); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}
