package content

import (
	"reflect"
	"strings"
)

// The tree matchers are pure recursive descents over dynamic trees.
// Well-formed content is acyclic, but the traversal never assumes it:
// every container is tracked in a visited set keyed by object identity,
// and a revisited container contributes a non-match for that branch
// instead of recursing forever.

// visitSet tracks container identities on the current traversal.
type visitSet map[uintptr]struct{}

// identity returns a stable pointer identity for mappings and sequences.
// Scalars return ok=false: they are never tracked.
func identity(node interface{}) (uintptr, bool) {
	switch node.(type) {
	case map[string]interface{}, []interface{}:
		return reflect.ValueOf(node).Pointer(), true
	default:
		return 0, false
	}
}

// enter marks node as visited. It reports false when node is a container
// already on the set, meaning the branch must be skipped.
func (v visitSet) enter(node interface{}) bool {
	id, ok := identity(node)
	if !ok {
		return true
	}
	if _, seen := v[id]; seen {
		return false
	}
	v[id] = struct{}{}
	return true
}

// UsesComponent reports whether any mapping node in tree, at any depth,
// carries the component tag field equal to name. A nil tree and empty
// containers yield false.
func UsesComponent(tree interface{}, name string) bool {
	if tree == nil || name == "" {
		return false
	}
	return usesComponent(tree, name, visitSet{})
}

func usesComponent(node interface{}, name string, visited visitSet) bool {
	if !visited.enter(node) {
		return false
	}

	switch n := node.(type) {
	case map[string]interface{}:
		if tag, ok := n[ComponentTagField].(string); ok && tag == name {
			return true
		}
		for _, child := range n {
			if usesComponent(child, name, visited) {
				return true
			}
		}
	case []interface{}:
		for _, child := range n {
			if usesComponent(child, name, visited) {
				return true
			}
		}
	}
	return false
}

// ContainsText reports whether any string leaf anywhere in tree contains
// query as a substring. Matching is case-insensitive unless caseSensitive
// is set. Non-string scalars never match.
func ContainsText(tree interface{}, query string, caseSensitive bool) bool {
	if tree == nil || query == "" {
		return false
	}
	if !caseSensitive {
		query = strings.ToLower(query)
	}
	return containsText(tree, query, caseSensitive, visitSet{})
}

func containsText(node interface{}, query string, caseSensitive bool, visited visitSet) bool {
	if !visited.enter(node) {
		return false
	}

	switch n := node.(type) {
	case string:
		if caseSensitive {
			return strings.Contains(n, query)
		}
		return strings.Contains(strings.ToLower(n), query)
	case map[string]interface{}:
		for _, child := range n {
			if containsText(child, query, caseSensitive, visited) {
				return true
			}
		}
	case []interface{}:
		for _, child := range n {
			if containsText(child, query, caseSensitive, visited) {
				return true
			}
		}
	}
	return false
}
