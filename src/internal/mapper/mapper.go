// Package mapper turns lookup records into deposition form fields.
package mapper

import (
	"strings"

	"github.com/cockroachdb/errors"

	"depositimport/src/internal/importsource"
)

// Rule copies one value of the query record into one form field.
type Rule struct {
	// From is a dotted path into the query record, e.g. "pub_info.year".
	From string `yaml:"from"`
	// To is the form field id; dots create nested objects.
	To string `yaml:"to"`
	// Types limits the rule to these deposition types. Empty means all.
	Types []string `yaml:"types,omitempty"`
	// Transform names a conversion applied to the value, see transforms.
	Transform string `yaml:"transform,omitempty"`
}

func (r Rule) appliesTo(depositionType string) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, t := range r.Types {
		if strings.EqualFold(t, depositionType) {
			return true
		}
	}
	return false
}

// FieldMapper implements importsource.Mapper with an ordered rule list.
// Later rules overwrite earlier ones writing the same field.
type FieldMapper struct {
	rules []Rule
}

var _ importsource.Mapper = (*FieldMapper)(nil)

// New checks the rules and returns a FieldMapper.
func New(rules []Rule) (*FieldMapper, error) {
	for i, r := range rules {
		if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
			return nil, errors.Newf("mapper: rule %d: from and to are required", i)
		}
		if _, ok := transforms[r.Transform]; !ok {
			return nil, errors.Newf("mapper: rule %d: unknown transform %q", i, r.Transform)
		}
	}
	return &FieldMapper{rules: rules}, nil
}

// Rules returns a copy of the mapper's rules.
func (m *FieldMapper) Rules() []Rule { return append([]Rule(nil), m.rules...) }

// Map applies every rule matching depositionType. Missing source values are skipped.
func (m *FieldMapper) Map(query map[string]any, depositionType string) (importsource.Mapping, error) {
	out := importsource.Mapping{}
	for _, r := range m.rules {
		if !r.appliesTo(depositionType) {
			continue
		}
		v, ok := lookup(query, r.From)
		if !ok {
			continue
		}
		v, err := transforms[r.Transform](v)
		if err != nil {
			return nil, errors.Wrapf(err, "mapper: %s -> %s", r.From, r.To)
		}
		if isEmpty(v) {
			continue
		}
		assign(out, r.To, v)
	}
	return out, nil
}

// lookup walks a dotted path through nested objects.
func lookup(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// assign sets a value at a dotted path, creating intermediate objects.
func assign(data map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	cur := data
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	}
	return false
}
