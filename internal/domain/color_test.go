package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserColorIsStable(t *testing.T) {
	assert.Equal(t, UserColor("userA"), UserColor("userA"))
}

func TestUserColorFromPalette(t *testing.T) {
	for _, id := range []string{"userA", "userB", "", "a-rather-long-user-identifier"} {
		assert.Contains(t, cursorPalette, UserColor(id))
	}
}
