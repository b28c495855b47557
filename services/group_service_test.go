package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionProviderIDs(t *testing.T) {
	providers := map[string][]int{
		"u1": {8, 337},
		"u2": {8, 9},
		"u3": nil,
	}

	// Union, not intersection: one member's subscription serves the group.
	assert.Equal(t, []int{8, 9, 337}, UnionProviderIDs(providers))
}

func TestUnionProviderIDsEmpty(t *testing.T) {
	assert.Empty(t, UnionProviderIDs(nil))
	assert.Empty(t, UnionProviderIDs(map[string][]int{"u1": nil}))
}

func TestNewInviteCode(t *testing.T) {
	code := newInviteCode()
	assert.Len(t, code, 6)
	assert.NotEqual(t, code, newInviteCode())
}
