package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awu/foodlog/internal/models"
)

func TestCanViewLogs(t *testing.T) {
	cases := []struct {
		name     string
		viewer   uint
		owner    uint
		showLogs bool
		want     bool
	}{
		{"public owner, stranger", 2, 1, true, true},
		{"public owner, anonymous", AnonymousID, 1, true, true},
		{"public owner, self", 1, 1, true, true},
		{"private owner, stranger", 2, 1, false, false},
		{"private owner, anonymous", AnonymousID, 1, false, false},
		{"private owner, self", 1, 1, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanViewLogs(tc.viewer, tc.owner, tc.showLogs))
		})
	}
}

func TestCanDeleteLog(t *testing.T) {
	log := models.Log{ID: 7, CreatorID: 3}
	assert.True(t, CanDeleteLog(3, log))
	assert.False(t, CanDeleteLog(4, log))
	assert.False(t, CanDeleteLog(AnonymousID, log))
}

func TestCanComment(t *testing.T) {
	log := models.Log{ID: 7, CreatorID: 3}

	// Anonymous users can never comment, even on public logs.
	assert.False(t, CanComment(AnonymousID, log, true))

	// Anyone authenticated may comment on public logs.
	assert.True(t, CanComment(5, log, true))
	assert.True(t, CanComment(3, log, true))

	// Private logs accept comments from the owner only.
	assert.True(t, CanComment(3, log, false))
	assert.False(t, CanComment(5, log, false))
}

func TestPrivateOwnerNeverLeaksViaZeroOwnerID(t *testing.T) {
	// A malformed row with owner id 0 must not become visible to anonymous
	// viewers through the self-check.
	assert.False(t, CanViewLogs(AnonymousID, AnonymousID, false))
}
