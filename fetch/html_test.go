package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "hello world", "hello world"},
		{"strips tags", "<p>hello <b>world</b></p>", "hello world"},
		{
			"collapses blank lines",
			"<div>first</div>\n\n   \n<div>second</div>",
			"first\nsecond",
		},
		{"entities decoded", "a &amp; b", "a & b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanHTML(tt.in))
		})
	}
}

func TestIsRedditPlaceholder(t *testing.T) {
	placeholder := `submitted by /u/gopher [link] [comments]`
	assert.True(t, isRedditPlaceholder(placeholder))

	// All three markers are required.
	assert.False(t, isRedditPlaceholder("submitted by someone"))
	assert.False(t, isRedditPlaceholder("/u/gopher wrote [link]"))
	assert.False(t, isRedditPlaceholder("a real article about links"))
}
