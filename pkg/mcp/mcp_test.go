package mcp_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/tempo/pkg/mcp"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	const marker = "\n[OUTPUT TRUNCATED]"

	tcs := map[string]struct {
		input  string
		maxLen int
		want   string
	}{
		"short input unchanged": {
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		"exact length unchanged": {
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		"ascii cut": {
			input:  "hello world",
			maxLen: 5,
			want:   "hello" + marker,
		},
		"cut inside two byte rune": {
			input:  "aé",
			maxLen: 2,
			want:   "a" + marker,
		},
		"cut inside four byte rune": {
			input:  "ab🙂c",
			maxLen: 4,
			want:   "ab" + marker,
		},
		"cut on rune boundary": {
			input:  "日本語",
			maxLen: 6,
			want:   "日本" + marker,
		},
		"cut inside first rune": {
			input:  "日本",
			maxLen: 1,
			want:   marker,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := mcp.TruncateString(tc.input, tc.maxLen)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateString_LongMultibyte(t *testing.T) {
	t.Parallel()

	// 3-byte runes never align with a 200 byte limit.
	input := strings.Repeat("€", 100)

	got := mcp.TruncateString(input, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("€", 66)+"\n[OUTPUT TRUNCATED]", got)
}
