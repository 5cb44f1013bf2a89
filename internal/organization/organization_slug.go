package organization

import "strings"

// normalizeSlug lowercases and trims the slug and reports whether only
// lowercase letters, digits and single hyphens remain.
func normalizeSlug(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return s, false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return s, false
		}
	}
	return s, true
}
