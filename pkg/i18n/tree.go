package i18n

import (
	"maps"
	"strings"
)

// Tree is a nested translation mapping. Leaves are strings, inner nodes are
// map[string]any, exactly as produced by decoding a JSON object.
type Tree = map[string]any

// M is a shorthand for interpolation parameters.
type M = map[string]any

// MergeScope overlays fragment onto acc at the insertion point named by scope
// and returns the result. acc is never modified: the returned tree shares every
// branch that is not on the scope path with acc.
//
// An empty scope makes the fragment itself the result. For a dotted scope such
// as "HOME.COMMON" the value stored at HOME.COMMON is read from the fragment at
// the same path. Fragments that do not carry their own scope path are used as
// the bare sub-tree for the scope.
func MergeScope(scope string, acc, fragment Tree) Tree {
	if scope == "" {
		return cloneTree(fragment)
	}

	path := strings.Split(scope, ".")
	return SetPath(acc, path, scopeValue(fragment, path))
}

// SetPath returns a copy of root with value assigned at path. Every node along
// path is freshly allocated, missing or non-map nodes are replaced with empty
// maps, and all other branches are shared with root by reference.
func SetPath(root Tree, path []string, value any) Tree {
	result := cloneTree(root)
	if len(path) == 0 {
		return result
	}

	node := result
	for _, key := range path[:len(path)-1] {
		var next Tree
		if child, ok := node[key].(Tree); ok {
			next = maps.Clone(child)
		} else {
			next = Tree{}
		}
		node[key] = next
		node = next
	}
	node[path[len(path)-1]] = value

	return result
}

// LookupPath walks tree along path and reports whether the final key exists.
// Intermediate values that are not maps end the walk with false.
func LookupPath(tree Tree, path []string) (any, bool) {
	node := tree
	for i, key := range path {
		v, ok := node[key]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if node, ok = v.(Tree); !ok {
			return nil, false
		}
	}
	return nil, false
}

// scopeValue extracts the sub-tree a fragment contributes for the scope path.
func scopeValue(fragment Tree, path []string) any {
	if v, ok := LookupPath(fragment, path); ok && v != nil {
		return v
	}
	if _, ok := fragment[path[0]]; ok {
		// The fragment is rooted at the scope path but lacks the leaf.
		return Tree{}
	}
	return cloneTree(fragment)
}

// mergeDeep combines source into target without touching either argument.
// Nested maps are merged recursively, any other source value wins.
func mergeDeep(target, source Tree) Tree {
	out := cloneTree(target)
	for key, sv := range source {
		srcMap, srcIsMap := sv.(Tree)
		dstMap, dstIsMap := out[key].(Tree)
		if srcIsMap && dstIsMap {
			out[key] = mergeDeep(dstMap, srcMap)
			continue
		}
		out[key] = sv
	}
	return out
}

// overlaps reports whether the value at path in tree is already populated.
func overlaps(tree Tree, path []string) bool {
	v, ok := LookupPath(tree, path)
	if !ok || v == nil {
		return false
	}
	if m, isMap := v.(Tree); isMap {
		return len(m) > 0
	}
	return true
}

func cloneTree(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	return maps.Clone(t)
}
