package stringsx

import "strings"

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Collapse folds runs of whitespace, newlines included, into single spaces.
// Feed titles and abstracts are line-wrapped.
func Collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
