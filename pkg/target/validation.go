// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package target

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flextlabs/target-ldif/pkg/ldif"
	"github.com/flextlabs/target-ldif/pkg/singer"
)

// MaxAttributeValueLength is the soft cap on attribute value size.
const MaxAttributeValueLength = 1000

// idFields are the identifier-like fields a record or schema should carry
// for DN generation. Their absence is a warning, never enforced.
var idFields = []string{"id", "uid", "user_id", "username"}

var (
	attributeNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

	// Source field names additionally allow underscores; the normalizer
	// strips them when deriving attribute names.
	fieldNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// ValidationResult collects per-field validation errors and soft warnings.
// Validation never raises; the caller decides whether to drop, fix or abort.
type ValidationResult struct {
	Errors   map[string][]string
	Warnings []string
}

// Valid reports whether no errors were recorded.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AddError records an error against a field.
func (r *ValidationResult) AddError(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], message)
}

// AddWarning records a soft warning.
func (r *ValidationResult) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// ValidateAttributeName reports whether the name is a syntactically valid
// LDAP attribute name: alphanumeric plus hyphen, starting with a letter.
func ValidateAttributeName(name string) bool {
	return attributeNameRe.MatchString(name)
}

// ValidateAttributeValue reports whether the value fits the soft size cap.
// Non-string values are accepted as-is; canonicalization handles them later.
func ValidateAttributeValue(value any) bool {
	if s, ok := value.(string); ok {
		return len(s) <= MaxAttributeValueLength
	}
	return true
}

// SanitizeAttributeName strips characters an LDAP attribute name cannot
// carry, prefixes a leading non-letter with "attr", and falls back to
// "unknownAttr" when nothing survives.
func SanitizeAttributeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	sanitized := b.String()

	if sanitized != "" {
		first := sanitized[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			sanitized = "attr" + sanitized
		}
	}
	if sanitized == "" {
		sanitized = "unknownAttr"
	}
	return sanitized
}

// ValidateRecord checks a record's field names and value sizes, and warns
// when no identifier-like field is present.
func ValidateRecord(rec *ldif.Record) *ValidationResult {
	result := &ValidationResult{}

	if rec == nil || rec.Len() == 0 {
		result.AddError("record", "record cannot be empty")
		return result
	}

	if !hasIDField(rec.Has) {
		result.AddWarning("record has no identifier field (id, uid, user_id or username)")
	}

	for _, field := range rec.Fields() {
		value, _ := rec.Get(field)
		if !fieldNameRe.MatchString(field) {
			result.AddError(field, fmt.Sprintf("invalid field name: %s", field))
		}
		if !ValidateAttributeValue(value) {
			result.AddError(field, fmt.Sprintf("attribute value exceeds %d characters", MaxAttributeValueLength))
		}
	}

	return result
}

// ValidateSchema checks a stream schema for LDIF compatibility: it must
// define properties with valid names, and should carry an identifier-like
// field for DN generation.
func ValidateSchema(schema *singer.Schema) *ValidationResult {
	result := &ValidationResult{}

	if schema == nil || len(schema.Properties) == 0 {
		result.AddError("schema", "schema must define properties")
		return result
	}

	if !hasIDField(func(f string) bool { _, ok := schema.Properties[f]; return ok }) {
		result.AddWarning("schema has no identifier field for DN generation (id, uid, user_id or username)")
	}

	for name := range schema.Properties {
		if !fieldNameRe.MatchString(name) {
			result.AddError(name, fmt.Sprintf("invalid property name: %s", name))
		}
	}

	return result
}

func hasIDField(has func(string) bool) bool {
	for _, f := range idFields {
		if has(f) {
			return true
		}
	}
	return false
}
