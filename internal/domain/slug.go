package domain

import "strings"

// NormalizeSlug lowercases s, turns spaces into underscores and drops
// apostrophes. It is idempotent.
func NormalizeSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}
