// Package linked manages the ordered collections of related and local
// product rows, each carrying its own selection, search input, and image
// sub-collection.
package linked

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-productform/pkg/model"
)

// Role distinguishes the two linked-product collections.
type Role string

const (
	RoleRelated Role = "related"
	RoleLocal   Role = "local"
)

// Entry is one row: a locally generated id stable for the session, an
// optional product selection, its images, and the free-text search input.
type Entry struct {
	ID      string
	Product *model.Ref
	Images  []model.Image
	Input   string
}

// HasSelection reports whether the row carries a product selection.
func (e Entry) HasSelection() bool {
	return e.Product != nil && e.Product.Value != ""
}

// List is an ordered collection of entries for one role.
type List struct {
	role    Role
	entries []Entry
}

// NewList returns an empty list for the given role.
func NewList(role Role) *List {
	return &List{role: role}
}

// SeedList builds a list with a single pre-populated row, used when editing
// a record that already carries a linked product.
func SeedList(role Role, ref model.Ref, images []model.Image) *List {
	list := NewList(role)
	list.entries = append(list.entries, Entry{
		ID:      uuid.NewString(),
		Product: &ref,
		Images:  images,
	})
	return list
}

// Role returns the list role.
func (l *List) Role() Role {
	return l.role
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the rows in order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Add appends a fresh row with no selection and no images, returning it.
func (l *List) Add() Entry {
	entry := Entry{ID: uuid.NewString()}
	l.entries = append(l.entries, entry)
	return entry
}

// Remove drops the row with the given id. Removing an unknown id is a no-op.
func (l *List) Remove(id string) {
	out := l.entries[:0]
	for _, entry := range l.entries {
		if entry.ID != id {
			out = append(out, entry)
		}
	}
	l.entries = out
}

// SetSelection sets or clears a row's product selection. It does not
// deduplicate; callers present candidates through FilteredOptions so a value
// already chosen by a sibling never reaches this method.
func (l *List) SetSelection(id string, ref *model.Ref) bool {
	return l.update(id, func(entry *Entry) {
		entry.Product = ref
	})
}

// SetImages replaces a row's image collection.
func (l *List) SetImages(id string, images []model.Image) bool {
	return l.update(id, func(entry *Entry) {
		entry.Images = images
	})
}

// SetInput records a row's current search text.
func (l *List) SetInput(id, input string) bool {
	return l.update(id, func(entry *Entry) {
		entry.Input = input
	})
}

func (l *List) update(id string, fn func(*Entry)) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			fn(&l.entries[i])
			return true
		}
	}
	return false
}

// FilteredOptions returns the candidate options minus every value already
// selected by a sibling row, preventing duplicate selections.
func (l *List) FilteredOptions(id string, options []model.Ref) []model.Ref {
	taken := make(map[string]bool, len(l.entries))
	for _, entry := range l.entries {
		if entry.ID == id || !entry.HasSelection() {
			continue
		}
		taken[entry.Product.Value] = true
	}
	out := make([]model.Ref, 0, len(options))
	for _, opt := range options {
		if taken[opt.Value] {
			continue
		}
		out = append(out, opt)
	}
	return out
}

// SelectedValues returns the non-null selection values in row order.
func (l *List) SelectedValues() []string {
	out := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		if entry.HasSelection() {
			out = append(out, entry.Product.Value)
		}
	}
	return out
}

// Clear drops every row, used after a successful submission.
func (l *List) Clear() {
	l.entries = nil
}
