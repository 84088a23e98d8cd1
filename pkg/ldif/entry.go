// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import "strings"

// AttributeMap is an insertion-ordered mapping of LDAP attribute names to
// one or more canonical string values. Lookups are case-insensitive; the
// spelling of the first Set wins for output (e.g. "objectClass" renders with
// its conventional camel case while remaining addressable as "objectclass").
type AttributeMap struct {
	names  []string            // display spelling, insertion order
	values map[string][]string // keyed by lowercase name
}

// NewAttributeMap creates an empty attribute map.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{values: make(map[string][]string)}
}

// Set replaces the values for an attribute, preserving first-insertion order
// and the first-seen spelling of the name.
func (m *AttributeMap) Set(name string, values ...string) {
	key := strings.ToLower(name)
	if _, ok := m.values[key]; !ok {
		m.names = append(m.names, name)
	}
	m.values[key] = values
}

// Add appends a value to an attribute, creating it if absent.
func (m *AttributeMap) Add(name string, value string) {
	key := strings.ToLower(name)
	if _, ok := m.values[key]; !ok {
		m.names = append(m.names, name)
	}
	m.values[key] = append(m.values[key], value)
}

// Get returns the values for an attribute, nil if absent.
func (m *AttributeMap) Get(name string) []string {
	return m.values[strings.ToLower(name)]
}

// First returns the first value for an attribute, "" if absent.
func (m *AttributeMap) First(name string) string {
	vs := m.values[strings.ToLower(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Has reports whether the attribute is present.
func (m *AttributeMap) Has(name string) bool {
	_, ok := m.values[strings.ToLower(name)]
	return ok
}

// Names returns the attribute names in insertion order, in their display
// spelling.
func (m *AttributeMap) Names() []string {
	return m.names
}

// Len returns the number of attributes.
func (m *AttributeMap) Len() int {
	return len(m.names)
}

// Entry is a single directory entry: a Distinguished Name plus its
// attributes. It is the unit written per output record.
type Entry struct {
	DN         string
	Attributes *AttributeMap
}
