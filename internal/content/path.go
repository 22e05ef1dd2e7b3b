package content

import (
	"strconv"
	"strings"
)

// GetPath resolves a dot-separated path against a dynamic tree and
// returns the value with ok=true, or (nil, false) when any segment does
// not resolve. A segment of digits indexes the current node when it is a
// sequence; on a mapping it is an ordinary field name. Out-of-bounds and
// negative indexes, field access on non-mappings, and index access on
// non-sequences all yield (nil, false) rather than an error.
func GetPath(tree interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}

	node := tree
	for _, seg := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]interface{}:
			child, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []interface{}:
			idx, ok := parseIndex(seg)
			if !ok || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// SetPath writes value at a dot-separated path, creating intermediate
// mappings along the way, or sequences when the next segment is numeric.
// Existing intermediates of the wrong shape are overwritten. Sequences
// grow with nil padding as needed; grown sequences are written back into
// their parent, so callers must treat tree as the canonical root.
func SetPath(tree map[string]interface{}, path string, value interface{}) {
	if tree == nil || path == "" {
		return
	}
	segs := strings.Split(path, ".")
	tree[segs[0]] = setInto(tree[segs[0]], segs[1:], value)
}

// setInto places value under the remaining segments of node and returns
// the (possibly replaced) node.
func setInto(node interface{}, segs []string, value interface{}) interface{} {
	if len(segs) == 0 {
		return value
	}

	seg := segs[0]
	if idx, numeric := parseIndex(seg); numeric {
		seq, ok := node.([]interface{})
		if !ok {
			seq = nil
		}
		for len(seq) <= idx {
			seq = append(seq, nil)
		}
		seq[idx] = setInto(seq[idx], segs[1:], value)
		return seq
	}

	m, ok := node.(map[string]interface{})
	if !ok {
		m = map[string]interface{}{}
	}
	m[seg] = setInto(m[seg], segs[1:], value)
	return m
}

// parseIndex reports whether seg is a plain non-negative decimal index.
func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return idx, true
}
