// Package errtree implements the path-addressed error tree produced by
// validation. Paths are dot-separated field name segments mirroring the value
// shape (for example "specification.Material.supplierDescription"). The tree
// is plain data: it never halts anything, callers read the subset they need.
package errtree

import (
	"sort"
	"strings"
)

// Tree holds error messages in a nested structure keyed by path segments.
// Interior nodes are maps, leaves are message strings.
type Tree struct {
	nodes map[string]any
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: make(map[string]any)}
}

// Set writes a message at a dotted path, creating intermediate nodes as
// needed. Setting a message over a subtree replaces the subtree.
func (t *Tree) Set(path, message string) {
	segments := split(path)
	if len(segments) == 0 {
		return
	}
	if t.nodes == nil {
		t.nodes = make(map[string]any)
	}
	node := t.nodes
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = message
}

// Get returns the leaf message at a path.
func (t *Tree) Get(path string) (string, bool) {
	value, ok := t.lookup(path)
	if !ok {
		return "", false
	}
	message, ok := value.(string)
	return message, ok
}

// Has reports whether a path resolves to a leaf or a non-empty subtree.
func (t *Tree) Has(path string) bool {
	value, ok := t.lookup(path)
	if !ok {
		return false
	}
	if child, isMap := value.(map[string]any); isMap {
		return len(child) > 0
	}
	return true
}

// Delete removes the leaf or subtree at a path, pruning interior nodes left
// empty by the removal.
func (t *Tree) Delete(path string) {
	segments := split(path)
	if len(segments) == 0 || t == nil || t.nodes == nil {
		return
	}
	prune(t.nodes, segments)
}

// Merge copies every leaf of other into t, later writes winning on overlap.
func (t *Tree) Merge(other *Tree) {
	if other == nil {
		return
	}
	for path, message := range other.Flatten() {
		t.Set(path, message)
	}
}

// Flatten returns every leaf as a dotted-path to message map.
func (t *Tree) Flatten() map[string]string {
	out := make(map[string]string)
	if t == nil {
		return out
	}
	flatten(t.nodes, "", out)
	return out
}

// TopLevel returns the sorted top-level keys of the tree.
func (t *Tree) TopLevel() []string {
	if t == nil || len(t.nodes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.nodes))
	for key := range t.nodes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len counts leaf messages.
func (t *Tree) Len() int {
	return len(t.Flatten())
}

// Empty reports whether the tree carries no messages.
func (t *Tree) Empty() bool {
	return t == nil || len(t.nodes) == 0
}

func (t *Tree) lookup(path string) (any, bool) {
	if t == nil || t.nodes == nil {
		return nil, false
	}
	segments := split(path)
	if len(segments) == 0 {
		return nil, false
	}
	var current any = t.nodes
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func prune(node map[string]any, segments []string) {
	head := segments[0]
	if len(segments) == 1 {
		delete(node, head)
		return
	}
	child, ok := node[head].(map[string]any)
	if !ok {
		return
	}
	prune(child, segments[1:])
	if len(child) == 0 {
		delete(node, head)
	}
}

func flatten(node map[string]any, prefix string, out map[string]string) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			flatten(typed, path, out)
		case string:
			out[path] = typed
		}
	}
}

func split(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		out = append(out, segment)
	}
	return out
}
