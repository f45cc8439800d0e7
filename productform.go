// Package productform is the engine behind a schema-driven product form:
// template resolution, validation, per-section error visibility, linked
// product rows, and multipart submission assembly. The root package
// re-exports the types most callers need so a basic integration imports one
// path.
package productform

import (
	"github.com/goliatone/go-productform/pkg/client"
	"github.com/goliatone/go-productform/pkg/errtree"
	"github.com/goliatone/go-productform/pkg/linked"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/session"
	"github.com/goliatone/go-productform/pkg/submit"
	"github.com/goliatone/go-productform/pkg/tabs"
	"github.com/goliatone/go-productform/pkg/validation"
)

// FormValues is the mutable record driving one open form.
type FormValues = model.FormValues

// FieldValue is a per-field specification entry.
type FieldValue = model.FieldValue

// SpecField is one template field definition.
type SpecField = model.SpecField

// Ref is a label/value selection pair.
type Ref = model.Ref

// Product is the persisted record shape.
type Product = model.Product

// Session owns one open form.
type Session = session.Session

// ValidationError is the failed-submit result carrying the error tree.
type ValidationError = session.ValidationError

// ErrorTree is the path-addressed validation output.
type ErrorTree = errtree.Tree

// Section indexes the form sections.
type Section = tabs.Section

// FieldError is a cross-entity guard violation raised during assembly.
type FieldError = submit.FieldError

// LinkedList is an ordered collection of linked-product rows.
type LinkedList = linked.List

// Client talks to the backing product, template, and catalog services.
type Client = client.Client

// ErrNotFound marks a missing record on a fetch-one request.
var ErrNotFound = client.ErrNotFound

// New builds a session over a single service client, the common wiring where
// one backend serves records, templates, and catalog searches.
func New(c *Client, opts ...session.Option) *Session {
	return session.New(c, c, c, opts...)
}

// NewSession builds a session over independently supplied services.
func NewSession(data session.DataService, templates session.TemplateService, catalogs session.CatalogService, opts ...session.Option) *Session {
	return session.New(data, templates, catalogs, opts...)
}

// Validate runs the full rule set against a value snapshot and returns the
// error tree, for callers that want validation without a session.
func Validate(values *FormValues, active []SpecField, removed map[string]bool, opts ...validation.Option) *ErrorTree {
	return validation.Validate(values, active, removed, opts...)
}

// Assemble converts final values plus the linked rows into the multipart
// payload without sending it.
func Assemble(values *FormValues, related, local *LinkedList) (*submit.Payload, error) {
	return submit.Assemble(values, related, local)
}
