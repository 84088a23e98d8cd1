// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TransformFunc maps a raw scalar value to canonical LDAP-compatible text.
// Transformers never fail: malformed input degrades to an empty string or an
// unchanged passthrough, and nil always yields "".
type TransformFunc func(value any) string

// generalizedTimeLayout is LDAP GeneralizedTime, always rendered in UTC.
const generalizedTimeLayout = "20060102150405"

// Stringify renders a raw value as text without canonicalization. Numbers
// keep their JSON textual form, nil becomes "".
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.UTC().Format(generalizedTimeLayout) + "Z"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// TransformTimestamp converts timestamps to LDAP GeneralizedTime
// (YYYYMMDDHHMMSSZ, UTC). Strings are attempted as ISO-8601, tolerating a
// trailing literal Z; unparsable strings pass through unchanged.
func TransformTimestamp(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.UTC().Format(generalizedTimeLayout) + "Z"
	case string:
		if t, ok := parseISO8601(v); ok {
			return t.UTC().Format(generalizedTimeLayout) + "Z"
		}
		return v
	default:
		return Stringify(value)
	}
}

func parseISO8601(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	// No offset, optionally with a bare trailing Z
	trimmed := strings.TrimSuffix(s, "Z")
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TransformBoolean converts truthy values to the LDAP booleans "TRUE" and
// "FALSE". Unrecognized values are stringified unchanged.
func TransformBoolean(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "1", "on":
			return "TRUE"
		case "false", "no", "0", "off":
			return "FALSE"
		}
		return v
	default:
		return Stringify(value)
	}
}

// TransformEmail trims and lowercases an address. Anything without both "@"
// and "." is rejected as empty.
func TransformEmail(value any) string {
	if value == nil {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(Stringify(value)))
	if strings.Contains(s, "@") && strings.Contains(s, ".") {
		return s
	}
	return ""
}

// TransformPhone strips everything except digits, "+", "-", spaces and
// parentheses.
func TransformPhone(value any) string {
	if value == nil {
		return ""
	}
	s := Stringify(value)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || strings.ContainsRune("+- ()", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TransformName trims and title-cases each whitespace-separated token.
func TransformName(value any) string {
	if value == nil {
		return ""
	}
	s := strings.TrimSpace(Stringify(value))
	if s == "" {
		return ""
	}
	titled := cases.Title(language.Und).String(s)
	return strings.Join(strings.Fields(titled), " ")
}

// dispatchRule pairs an attribute-name predicate with a transformer. The
// rules are consulted in order; the order is a compatibility contract (an
// attribute named "isEmail" dispatches to Boolean, not Email).
type dispatchRule struct {
	match     func(attr string) bool
	transform TransformFunc
}

func inSet(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(attr string) bool {
		_, ok := set[attr]
		return ok
	}
}

var builtinDispatch = []dispatchRule{
	{inSet("mail", "email"), TransformEmail},
	{inSet("telephonenumber", "phone", "mobile"), TransformPhone},
	{inSet("givenname", "sn", "cn", "displayname"), TransformName},
	{inSet("createtimestamp", "modifytimestamp"), TransformTimestamp},
	{func(attr string) bool {
		return strings.HasSuffix(attr, "boolean") || strings.HasPrefix(attr, "is")
	}, TransformBoolean},
}

// builtinTransformer returns the transformer matching the attribute name, or
// nil when no convention applies. Matching is case-insensitive.
func builtinTransformer(attrName string) TransformFunc {
	attr := strings.ToLower(attrName)
	for _, rule := range builtinDispatch {
		if rule.match(attr) {
			return rule.transform
		}
	}
	return nil
}

// NormalizeValue canonicalizes a raw value for the target attribute. A
// caller-supplied override for the attribute takes precedence over the
// built-in dispatch; unmatched attributes fall back to trim-and-stringify.
func NormalizeValue(attrName string, value any, overrides map[string]TransformFunc) string {
	if value == nil {
		return ""
	}
	if overrides != nil {
		if fn, ok := overrides[attrName]; ok {
			return fn(value)
		}
	}
	if fn := builtinTransformer(attrName); fn != nil {
		return fn(value)
	}
	return strings.TrimSpace(Stringify(value))
}
