// Package author derives display names from upstream author strings.
package author

import "strings"

// First returns the name before the first comma of a comma separated
// author list, trimmed of surrounding whitespace. Without a comma the whole
// trimmed string is returned.
func First(authors string) string {
	if authors == "" {
		return ""
	}

	first, _, _ := strings.Cut(authors, ",")

	return strings.TrimSpace(first)
}
