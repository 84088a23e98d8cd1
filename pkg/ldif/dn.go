// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import "regexp"

// placeholderRe matches {field} placeholders in a DN template.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// TemplatePlaceholders returns the placeholder field names referenced by a
// DN template, in order of appearance.
func TemplatePlaceholders(template string) []string {
	var fields []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		fields = append(fields, m[1])
	}
	return fields
}

// GenerateDN renders a Distinguished Name from the template by substituting
// each {field} placeholder with the record's raw field value, stringified
// but otherwise untouched. A placeholder referencing a field absent from the
// record fails with *MissingFieldError; there is no fallback DN, since a
// fabricated DN risks directory-entry collisions.
func GenerateDN(rec *Record, template string) (string, error) {
	var missing string
	dn := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		field := m[1 : len(m)-1]
		value, ok := rec.Get(field)
		if !ok || value == nil {
			if missing == "" {
				missing = field
			}
			return m
		}
		return Stringify(value)
	})
	if missing != "" {
		return "", &MissingFieldError{Field: missing, Template: template}
	}
	return dn, nil
}
