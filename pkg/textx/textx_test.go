package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/career-compass/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello world", textx.SanitizeText("  hello world \x00\x01 "))
	assert.Equal(t, "a\nb", textx.SanitizeText("a\nb"))
	assert.Equal(t, "", textx.SanitizeText("\x00\x02"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", textx.Truncate("abc", 10))
	assert.Equal(t, "ab", textx.Truncate("abcd", 2))
	assert.Equal(t, "", textx.Truncate("abc", 0))
	// rune-safe
	assert.Equal(t, "hél", textx.Truncate("héllo", 3))
}
