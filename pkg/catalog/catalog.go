package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// Sentinel errors.
var (
	ErrInvalidFile = errors.New("catalog: invalid translation file")
	ErrNoLanguages = errors.New("catalog: no languages given")
)

// Scopes lists the scope directories of a fragment directory, shortest first.
// Names of equal length are ordered alphabetically.
func Scopes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %q: %w", dir, err)
	}

	var scopes []string
	for _, e := range entries {
		if e.IsDir() {
			scopes = append(scopes, e.Name())
		}
	}
	slices.SortFunc(scopes, func(a, b string) int {
		if d := len(a) - len(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return scopes, nil
}

// Join assembles the complete translation tree of lang from the root file and
// every scope fragment under dir. Scopes are applied shortest first; each one
// contributes only the sub-tree at its own path. Missing files count as empty.
func Join(dir, lang string) (i18n.Tree, error) {
	tree, err := ReadFile(fragmentFile(dir, lang, ""))
	if err != nil {
		return nil, err
	}

	scopes, err := Scopes(dir)
	if err != nil {
		return nil, err
	}

	for _, scope := range scopes {
		fragment, err := ReadFile(fragmentFile(dir, lang, scope))
		if err != nil {
			return nil, err
		}
		path := strings.Split(scope, ".")
		if v, ok := i18n.LookupPath(fragment, path); ok && v != nil {
			tree = i18n.SetPath(tree, path, v)
		}
	}

	return tree, nil
}

// Split writes tree back as fragments of the scope directories that exist
// under dir. Longest scopes are cut out first, so "HOME.COMMON" is removed
// from "HOME" before "HOME" is written. Whatever remains goes to the root file.
func Split(dir, lang string, tree i18n.Tree) error {
	scopes, err := Scopes(dir)
	if err != nil {
		return err
	}
	slices.Reverse(scopes)

	rest := tree
	for _, scope := range scopes {
		path := strings.Split(scope, ".")

		value, _ := i18n.LookupPath(rest, path)
		if isEmpty(value) {
			value = i18n.Tree{}
		}

		if err := WriteFile(fragmentFile(dir, lang, scope), i18n.SetPath(nil, path, value)); err != nil {
			return err
		}
		rest = deletePath(rest, path)
	}

	return WriteFile(fragmentFile(dir, lang, ""), rest)
}

// ReadFile decodes a translation file. A missing file yields an empty tree.
func ReadFile(name string) (i18n.Tree, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return i18n.Tree{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %q: %w", name, err)
	}
	return Decode(data, name)
}

// Decode parses a JSON translation object.
func Decode(data []byte, source string) (i18n.Tree, error) {
	var tree i18n.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, source, err)
	}
	if tree == nil {
		tree = i18n.Tree{}
	}
	return tree, nil
}

// WriteFile writes tree to name in the canonical format, creating the
// parent directory when needed.
func WriteFile(name string, tree i18n.Tree) error {
	data, err := Encode(tree)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := os.WriteFile(name, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// Encode renders tree as JSON with two-space indentation, sorted keys and
// unescaped non-ASCII text. The output has no trailing newline.
func Encode(tree i18n.Tree) ([]byte, error) {
	if tree == nil {
		tree = i18n.Tree{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("catalog: encoding: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func fragmentFile(dir, lang, scope string) string {
	return filepath.Join(dir, scope, lang+".json")
}

// deletePath returns tree without the value at path. Nodes along path are
// copied; tree itself is left untouched.
func deletePath(tree i18n.Tree, path []string) i18n.Tree {
	if len(path) == 0 {
		return tree
	}
	if _, ok := tree[path[0]]; !ok {
		return tree
	}

	out := maps.Clone(tree)

	if len(path) == 1 {
		delete(out, path[0])
		return out
	}

	child, ok := out[path[0]].(i18n.Tree)
	if !ok {
		return tree
	}
	out[path[0]] = deletePath(child, path[1:])
	return out
}

// isEmpty reports values that produce an empty chunk: missing, null, false,
// zero, empty strings, empty objects and empty arrays.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case i18n.Tree:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}
