// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"encoding/base64"
	"strings"
)

const (
	// DefaultLineLength is the conventional LDIF wrap width per RFC 2849.
	DefaultLineLength = 78

	// MinLineLength is the smallest wrap width the writer accepts.
	MinLineLength = 10
)

// EncodingPolicy decides, per attribute value, whether RFC 2849 requires
// base64 encoding.
type EncodingPolicy struct {
	// ForceBase64 encodes every value regardless of content.
	ForceBase64 bool
}

// NeedsBase64 reports whether the value must be base64-encoded: a leading
// space, colon or "<", a trailing space, or any byte outside printable ASCII
// (32-126), which subsumes newlines and multi-byte UTF-8.
func (p EncodingPolicy) NeedsBase64(value string) bool {
	if p.ForceBase64 {
		return true
	}
	if value == "" {
		return false
	}
	switch value[0] {
	case ' ', ':', '<':
		return true
	}
	if value[len(value)-1] == ' ' {
		return true
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 32 || value[i] > 126 {
			return true
		}
	}
	return false
}

// FormatValue renders a complete attribute line: "attr: value", or
// "attr:: <base64>" when the encoding policy demands it.
func (p EncodingPolicy) FormatValue(attr, value string) string {
	if p.NeedsBase64(value) {
		return attr + ":: " + base64.StdEncoding.EncodeToString([]byte(value))
	}
	return attr + ": " + value
}

// FoldLine wraps a complete attribute line to the given width per RFC 2849:
// the first segment is exactly width bytes, every continuation segment is
// width-1 bytes prefixed with a single space. Unfolding (dropping each
// newline plus the following space) reproduces the input exactly.
func FoldLine(line string, width int) string {
	if width < MinLineLength {
		width = DefaultLineLength
	}
	if len(line) <= width {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 2*(len(line)/width))
	b.WriteString(line[:width])
	rest := line[width:]

	for len(rest) > width-1 {
		b.WriteString("\n ")
		b.WriteString(rest[:width-1])
		rest = rest[width-1:]
	}
	b.WriteString("\n ")
	b.WriteString(rest)

	return b.String()
}
