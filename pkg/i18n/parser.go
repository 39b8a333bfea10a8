package i18n

import (
	"fmt"
	"regexp"
	"strings"
)

// Parser resolves dotted keys inside a translation tree and substitutes
// parameters into the located template.
type Parser interface {
	// GetValue returns the value stored under a dotted key.
	GetValue(tree Tree, key string) (any, bool)

	// Interpolate renders value with params. Values that are not strings
	// yield ErrNotTemplate.
	Interpolate(value any, params M) (string, error)
}

// Render looks key up in tree and interpolates params into the value.
// A key missing from tree yields ErrKeyNotFound.
func Render(p Parser, tree Tree, key string, params M) (string, error) {
	value, ok := p.GetValue(tree, key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return p.Interpolate(value, params)
}

// placeholderPattern matches {{name}} and {{ name }} placeholders.
var placeholderPattern = regexp.MustCompile(`{{\s?([^{}\s]*)\s?}}`)

// DefaultParser is the Parser used by Store unless another one is configured.
//
// Keys are split on dots and walked through nested maps. Segments that do not
// resolve to a nested map are joined with the following segment, so a tree
// holding a literal "HOME.TITLE" key still resolves "HOME.TITLE".
//
// Placeholders use the {{name}} format, where name may itself be a dotted path
// into params:
//
//	template: "Hello, {{ user.name }}!"
//	params:   M{"user": M{"name": "John"}}
//	returns:  "Hello, John!"
type DefaultParser struct{}

// GetValue implements Parser.
func (DefaultParser) GetValue(tree Tree, key string) (any, bool) {
	if tree == nil || key == "" {
		return nil, false
	}

	keys := strings.Split(key, ".")
	var target any = tree
	pending := ""

	for i, k := range keys {
		pending += k
		last := i == len(keys)-1

		if node, ok := target.(Tree); ok {
			if v, found := node[pending]; found && v != nil {
				if _, isMap := v.(Tree); isMap || last {
					target = v
					pending = ""
					continue
				}
			}
		}

		if last {
			return nil, false
		}
		pending += "."
	}

	return target, true
}

// Interpolate implements Parser.
// Placeholders without a matching parameter are left unchanged.
func (p DefaultParser) Interpolate(value any, params M) (string, error) {
	tmpl, ok := value.(string)
	if !ok {
		return "", ErrNotTemplate
	}
	if err := checkBraces(tmpl); err != nil {
		return "", err
	}
	if len(params) == 0 {
		return tmpl, nil
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		v, found := p.GetValue(params, name)
		if !found {
			return match
		}
		if _, isMap := v.(Tree); isMap {
			return match
		}
		return fmt.Sprintf("%v", v)
	}), nil
}

// checkBraces rejects templates with unbalanced placeholder delimiters.
func checkBraces(tmpl string) error {
	depth := 0
	for i := 0; i < len(tmpl)-1; i++ {
		switch tmpl[i : i+2] {
		case "{{":
			depth++
			i++
		case "}}":
			depth--
			i++
		}
		if depth < 0 || depth > 1 {
			return fmt.Errorf("%w: %q", ErrMalformedTemplate, tmpl)
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %q", ErrMalformedTemplate, tmpl)
	}
	return nil
}

var _ Parser = DefaultParser{}
