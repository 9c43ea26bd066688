package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "abc...", TruncateRunes("abcdef", 3))

	// Multi-byte runes count as one
	assert.Equal(t, "santé", TruncateRunes("santé", 5))
	assert.Equal(t, "sant...", TruncateRunes("santé numérique", 4))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a \n\n b\t\tc  "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
