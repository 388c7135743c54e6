package names

import (
	"strings"
)

// Initials converts a given name string into spaced initials: "Jane Q" -> "J. Q.".
// Hyphenated names keep the hyphen: "Jean-Pierre" -> "J.-P.".
func Initials(given string) string {
	given = strings.TrimSpace(given)
	if given == "" {
		return ""
	}
	var out []string
	for _, w := range strings.Fields(given) {
		var parts []string
		for _, p := range strings.Split(w, "-") {
			r := []rune(strings.TrimSpace(p))
			if len(r) == 0 {
				continue
			}
			parts = append(parts, strings.ToUpper(string(r[0]))+".")
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, "-"))
		}
	}
	return strings.Join(out, " ")
}

// IsCollaboration reports whether name is a collaboration or consortium
// rather than a person ("ATLAS Collaboration", "The CMS Consortium").
func IsCollaboration(name string) bool {
	l := strings.ToLower(name)
	return strings.Contains(l, "collaboration") || strings.Contains(l, "consortium") || strings.Contains(l, " group")
}

// Split splits a full name into (family, givenInitials). It accepts either
// "Family, Given Names" or "Given Names Family". Collaborations are returned
// whole as the family name.
func Split(name string) (family, givenInitials string) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ""
	}
	if IsCollaboration(name) {
		return name, ""
	}
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), Initials(name[i+1:])
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[len(parts)-1], Initials(strings.Join(parts[:len(parts)-1], " "))
}
