// Package ident recognizes and normalizes the identifiers records are looked up by.
package ident

import (
	"regexp"
	"strconv"
	"strings"
)

// Identifier kinds.
const (
	KindDOI   = "doi"
	KindArXiv = "arxiv"
	KindISBN  = "isbn"
)

// Kinds lists every supported identifier kind.
var Kinds = []string{KindDOI, KindArXiv, KindISBN}

var (
	doiFind      = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9<>\[\]]+`)
	doiExact     = regexp.MustCompile(`(?i)^10\.\d{4,9}/\S+$`)
	arxivNew     = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
	arxivOld     = regexp.MustCompile(`(?i)^[a-z-]+(\.[a-z]{2})?/\d{7}(v\d+)?$`)
	arxivVersion = regexp.MustCompile(`v\d+$`)
)

// ExtractDOI extracts a DOI-like token from an arbitrary string containing a DOI or DOI URL.
func ExtractDOI(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(doiFind.FindString(s))
}

// NormalizeDOI strips doi: and resolver prefixes and lowercases; DOIs are case-insensitive.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(low, p) {
			low = strings.TrimSpace(low[len(p):])
			break
		}
	}
	return low
}

// ValidDOI reports whether s is a bare DOI (after prefix stripping).
func ValidDOI(s string) bool { return doiExact.MatchString(NormalizeDOI(s)) }

// NormalizeArXivID strips an arXiv: prefix and version suffix: "arXiv:1207.7214v2" -> "1207.7214".
func NormalizeArXivID(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "arxiv:") {
		s = strings.TrimSpace(s[6:])
	}
	return strings.ToLower(arxivVersion.ReplaceAllString(s, ""))
}

// ValidArXivID accepts new-style (1207.7214) and old-style (hep-th/9711200) ids.
func ValidArXivID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "arxiv:") {
		s = strings.TrimSpace(s[6:])
	}
	return arxivNew.MatchString(s) || arxivOld.MatchString(s)
}

// isbnDigits keeps digits and X, uppercased, dropping separators.
func isbnDigits(isbn string) string {
	s := strings.ToUpper(strings.TrimSpace(isbn))
	core := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' || r == 'X' {
			core = append(core, r)
		}
	}
	return string(core)
}

// NormalizeISBN keeps digits and X, uppercased, and completes a 9-digit core
// with its ISBN-10 check digit.
func NormalizeISBN(isbn string) string {
	core := isbnDigits(isbn)
	if len(core) == 9 && !strings.ContainsRune(core, 'X') {
		return core + isbn10CheckDigit(core)
	}
	return core
}

// ValidISBN checks the ISBN-10 or ISBN-13 checksum of the digits as given;
// a 9-digit core without its check digit is not an ISBN.
func ValidISBN(isbn string) bool {
	s := isbnDigits(isbn)
	switch len(s) {
	case 10:
		if strings.ContainsRune(s[:9], 'X') {
			return false
		}
		return isbn10CheckDigit(s[:9]) == s[9:]
	case 13:
		if strings.ContainsRune(s, 'X') {
			return false
		}
		sum := 0
		for i, ch := range s[:12] {
			d := int(ch - '0')
			if i%2 == 1 {
				d *= 3
			}
			sum += d
		}
		return strconv.Itoa((10-sum%10)%10) == s[12:]
	}
	return false
}

// isbn10CheckDigit computes the ISBN-10 check digit for a 9-digit string, returning "0"-"9" or "X".
func isbn10CheckDigit(s string) string {
	sum := 0
	for i, ch := range s {
		sum += (i + 1) * int(ch-'0')
	}
	cd := sum % 11
	if cd == 10 {
		return "X"
	}
	return strconv.Itoa(cd)
}

// Normalize dispatches to the normalizer of kind; unknown kinds are trimmed only.
func Normalize(kind, value string) string {
	switch kind {
	case KindDOI:
		return NormalizeDOI(value)
	case KindArXiv:
		return NormalizeArXivID(value)
	case KindISBN:
		return NormalizeISBN(value)
	}
	return strings.TrimSpace(value)
}

// Valid dispatches to the validator of kind; unknown kinds are never valid.
func Valid(kind, value string) bool {
	switch kind {
	case KindDOI:
		return ValidDOI(value)
	case KindArXiv:
		return ValidArXivID(value)
	case KindISBN:
		return ValidISBN(value)
	}
	return false
}

// Known reports whether kind is a supported identifier kind.
func Known(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
