package mapper

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"depositimport/src/internal/dates"
)

type transformFunc func(any) (any, error)

// transforms holds the conversions a Rule can name. "" is the identity.
var transforms = map[string]transformFunc{
	"":        func(v any) (any, error) { return v, nil },
	"trim":    stringOp(strings.TrimSpace),
	"lower":   stringOp(strings.ToLower),
	"upper":   stringOp(strings.ToUpper),
	"join":    join,
	"first":   first,
	"authors": authors,
	"year":    year,
}

func stringOp(f func(string) string) transformFunc {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf("expected string, got %T", v)
		}
		return f(s), nil
	}
}

// join renders a list of scalars as one comma-separated string.
func join(v any) (any, error) {
	list, ok := v.([]any)
	if !ok {
		if s, isStr := v.(string); isStr {
			return s, nil
		}
		return nil, errors.Newf("expected list, got %T", v)
	}
	parts := make([]string, 0, len(list))
	for _, it := range list {
		if s := strings.TrimSpace(fmt.Sprint(it)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", "), nil
}

func first(v any) (any, error) {
	list, ok := v.([]any)
	if !ok {
		return v, nil
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// authors turns [{family, given}] records into the form's [{name: "Family, Given"}] rows.
func authors(v any) (any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, errors.Newf("expected author list, got %T", v)
	}
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		var name string
		switch a := it.(type) {
		case string:
			name = strings.TrimSpace(a)
		case map[string]any:
			fam, _ := a["family"].(string)
			giv, _ := a["given"].(string)
			fam, giv = strings.TrimSpace(fam), strings.TrimSpace(giv)
			switch {
			case fam != "" && giv != "":
				name = fam + ", " + giv
			case fam != "":
				name = fam
			default:
				name = giv
			}
		}
		if name != "" {
			out = append(out, map[string]any{"name": name})
		}
	}
	return out, nil
}

// year accepts JSON numbers or date-like strings.
func year(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		if y := dates.ExtractYear(t); y > 0 {
			return y, nil
		}
		return nil, nil
	}
	return nil, errors.Newf("expected year, got %T", v)
}
