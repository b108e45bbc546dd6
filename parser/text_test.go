package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseNumber verifies placeholders and junk count as zero
func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{" 7 ", 7},
		{"0", 0},
		{"", 0},
		{"&nbsp;", 0},
		{" ", 0},
		{"-", 0},
		{"N/A", 0},
		{"n/a", 0},
		{"full", 0},
		{"3.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

// TestNormalize verifies whitespace runs collapse
func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", normalize("  a\n\t b  c "))
	assert.Equal(t, "", normalize(" \n "))
}

// TestParseAU verifies the leading number is used
func TestParseAU(t *testing.T) {
	au := parseAU("3.0 AU")
	if assert.NotNil(t, au) {
		assert.Equal(t, 3.0, *au)
	}
	au = parseAU("0")
	if assert.NotNil(t, au) {
		assert.Equal(t, 0.0, *au)
	}
	assert.Nil(t, parseAU(""))
	assert.Nil(t, parseAU("-"))
}
