package sanitize

import (
	"net/url"
	"strings"

	"depositimport/src/internal/schema"
)

// CleanString trims and removes ASCII control characters except tab/newline/carriage
// return up to max runes (if max <= 0, no truncation).
func CleanString(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || (r >= 0x20 && r != 0x7f) {
			b.WriteRune(r)
			n++
			if max > 0 && n >= max {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// CleanCategories trims, dedupes, and limits subject categories. Case is
// kept: arXiv categories such as hep-ph and math.GT are case-sensitive.
func CleanCategories(cats []string) []string {
	const maxCategories = 32
	seen := map[string]bool{}
	var out []string
	for _, c := range cats {
		c = CleanString(c, 64)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) >= maxCategories {
			break
		}
	}
	return out
}

// CleanAuthors sanitizes author names, dropping empty ones.
func CleanAuthors(authors schema.Authors) schema.Authors {
	const max = 256
	var out schema.Authors
	for _, a := range authors {
		au := schema.Author{Family: CleanString(a.Family, max), Given: CleanString(a.Given, max)}
		if au.FullName() == "" {
			continue
		}
		out = append(out, au)
	}
	return out
}

// CleanEntry applies conservative sanitization to all strings in the entry.
func CleanEntry(e *schema.Entry) {
	if e == nil {
		return
	}
	e.ID = CleanString(e.ID, 64)
	e.Type = CleanString(e.Type, 32)
	e.Provider = CleanString(e.Provider, 32)
	e.Title = CleanString(e.Title, 1024)
	e.Date = CleanString(e.Date, 32)
	e.Journal = CleanString(e.Journal, 512)
	e.Volume = CleanString(e.Volume, 64)
	e.Issue = CleanString(e.Issue, 64)
	e.Pages = CleanString(e.Pages, 64)
	e.Publisher = CleanString(e.Publisher, 512)
	e.DOI = CleanString(e.DOI, 256)
	e.ArXivID = CleanString(e.ArXivID, 64)
	e.ISBN = CleanString(e.ISBN, 32)
	e.Abstract = CleanString(e.Abstract, 20000)
	e.URL = CleanURL(e.URL)
	e.Authors = CleanAuthors(e.Authors)
	e.Categories = CleanCategories(e.Categories)
}
