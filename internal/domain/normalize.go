package domain

import (
	"strings"
)

// NormalizeQuery prepares a free-text search query for comparison:
// whitespace runs collapse to one space, ends are trimmed, letters are
// lowercased. Non-Latin scripts (Devanagari sign names) pass through.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
