package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentIsRecent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"just published", 0, true},
		{"one hour ago", -time.Hour, true},
		{"23h59m ago", -(23*time.Hour + 59*time.Minute), true},
		{"exactly 24h ago", -24 * time.Hour, true},
		{"25h ago", -25 * time.Hour, false},
		{"one second in the future", time.Second, false},
		{"one day in the future", 24 * time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Comment{Comment: "hello", PubDate: now.Add(tc.offset)}
			assert.Equal(t, tc.want, c.IsRecent(now))
		})
	}
}
