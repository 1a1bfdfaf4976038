package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAny(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"empty query matches", "", []string{"anything"}, true},
		{"whitespace query matches", "   ", []string{"anything"}, true},
		{"exact match", "oatmeal", []string{"oatmeal"}, true},
		{"substring match", "meal", []string{"oatmeal"}, true},
		{"case folded both sides", "OAT", []string{"Oatmeal"}, true},
		{"matches second field", "alice", []string{"pancakes", "Alice"}, true},
		{"no match", "xyz", []string{"oatmeal", "alice"}, false},
		{"no fields", "a", nil, false},
		{"query longer than field", "oatmeals", []string{"oatmeal"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesAny(tc.query, tc.fields...))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%oat%", LikePattern("OAT"))
	assert.Equal(t, "%%", LikePattern(""))
	assert.Equal(t, "%a b%", LikePattern("  a b "))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	// LIKE metacharacters in the query are literals, same as MatchesAny.
	assert.Equal(t, `%\%%`, LikePattern("%"))
	assert.Equal(t, `%\_%`, LikePattern("_"))
	assert.Equal(t, `%\\%`, LikePattern(`\`))
	assert.Equal(t, `%100\% oats%`, LikePattern("100% oats"))
}
