// Package search implements the substring filter used by the log and user
// listings. No tokenization or ranking, just case-insensitive containment.
package search

import "strings"

// MatchesAny reports whether any of the fields contains query as a
// case-insensitive substring. An empty query matches everything.
func MatchesAny(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// likeEscaper neutralizes LIKE metacharacters so the query only matches as a
// literal substring. Queries must use `LIKE ? ESCAPE '\'`.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern converts a query into a SQL LIKE pattern matching the same
// items MatchesAny would: `%` and `_` in the query are literals, not
// wildcards. Both sides are expected to be lowercased in SQL.
func LikePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}
