// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsBase64(t *testing.T) {
	var policy EncodingPolicy

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"empty", "", false},
		{"plain", "plain value", false},
		{"leading space", " leading", true},
		{"leading colon", ":colon", true},
		{"leading angle bracket", "<file", true},
		{"trailing space", "trailing ", true},
		{"embedded newline", "two\nlines", true},
		{"non-ascii", "José", true},
		{"control byte", "bell\x07", true},
		{"dn-like", "uid=jdoe,dc=example,dc=com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.NeedsBase64(tt.value))
		})
	}
}

func TestNeedsBase64_Forced(t *testing.T) {
	policy := EncodingPolicy{ForceBase64: true}
	assert.True(t, policy.NeedsBase64("plain"))
	assert.True(t, policy.NeedsBase64(""))
}

func TestFormatValue(t *testing.T) {
	var policy EncodingPolicy

	assert.Equal(t, "cn: John Doe", policy.FormatValue("cn", "John Doe"))

	line := policy.FormatValue("cn", "José")
	require.True(t, strings.HasPrefix(line, "cn:: "))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, "cn:: "))
	require.NoError(t, err)
	assert.Equal(t, "José", string(decoded))
}

func TestFormatValue_RoundTrip(t *testing.T) {
	var policy EncodingPolicy

	values := []string{
		" leading space",
		"trailing space ",
		":starts with colon",
		"multi\nline\nvalue",
		"Zoë Müller",
		"日本語",
	}

	for _, v := range values {
		line := policy.FormatValue("attr", v)
		require.True(t, strings.HasPrefix(line, "attr:: "), "value %q must be base64 encoded", v)

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, "attr:: "))
		require.NoError(t, err)
		assert.Equal(t, v, string(decoded))
	}
}

// unfold reverses FoldLine: drop each newline plus the single leading space
// of the continuation segment.
func unfold(folded string) string {
	return strings.ReplaceAll(folded, "\n ", "")
}

func TestFoldLine(t *testing.T) {
	t.Run("short line unchanged", func(t *testing.T) {
		assert.Equal(t, "cn: John", FoldLine("cn: John", 78))
	})

	t.Run("exact width unchanged", func(t *testing.T) {
		line := strings.Repeat("a", 78)
		assert.Equal(t, line, FoldLine(line, 78))
	})

	t.Run("segment widths", func(t *testing.T) {
		line := "description: " + strings.Repeat("x", 200)
		folded := FoldLine(line, 78)
		segments := strings.Split(folded, "\n")

		assert.Len(t, segments[0], 78)
		for i, seg := range segments[1:] {
			assert.LessOrEqual(t, len(seg), 78, "segment %d too wide", i+1)
			assert.True(t, strings.HasPrefix(seg, " "), "continuation %d missing leading space", i+1)
		}
	})

	t.Run("lossless", func(t *testing.T) {
		for _, width := range []int{10, 20, 78} {
			for _, line := range []string{
				"short",
				strings.Repeat("abc", 100),
				"attr: " + strings.Repeat("v", 333),
			} {
				assert.Equal(t, line, unfold(FoldLine(line, width)), "width %d", width)
			}
		}
	})

	t.Run("below minimum width falls back to default", func(t *testing.T) {
		line := strings.Repeat("a", 100)
		folded := FoldLine(line, 3)
		assert.Len(t, strings.Split(folded, "\n")[0], DefaultLineLength)
	})
}
