// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import "strings"

// defaultAttributeMapping maps common source field names to their
// conventional LDAP attributes. User-supplied mappings are merged over it.
var defaultAttributeMapping = map[string]string{
	"email":        "mail",
	"first_name":   "givenName",
	"last_name":    "sn",
	"full_name":    "cn",
	"display_name": "displayName",
	"phone":        "telephoneNumber",
	"mobile_phone": "mobile",
	"user_id":      "uid",
	"username":     "uid",
	"created_at":   "createTimestamp",
	"updated_at":   "modifyTimestamp",
}

// Normalizer converts flat records into attribute maps: field renames, value
// canonicalization, empty-value dropping and required-attribute injection.
type Normalizer struct {
	mapping      map[string]string
	transformers map[string]TransformFunc
}

// NewNormalizer creates a normalizer. mapping holds user field renames
// (taking precedence over the built-in defaults); transformers holds
// per-attribute value transformers (taking precedence over the built-in
// dispatch). Both may be nil.
func NewNormalizer(mapping map[string]string, transformers map[string]TransformFunc) *Normalizer {
	return &Normalizer{mapping: mapping, transformers: transformers}
}

// resolveAttribute maps a source field name to its target LDAP attribute:
// explicit user mapping, then built-in defaults, then the convention of
// lowercasing and stripping underscores.
func (n *Normalizer) resolveAttribute(field string) string {
	if attr, ok := n.mapping[field]; ok {
		return attr
	}
	if attr, ok := defaultAttributeMapping[field]; ok {
		return attr
	}
	return strings.ToLower(strings.ReplaceAll(field, "_", ""))
}

// Normalize maps every record field to a canonicalized attribute, then
// injects the attributes every written entry must carry.
func (n *Normalizer) Normalize(rec *Record) *AttributeMap {
	attrs := NewAttributeMap()

	for _, field := range rec.Fields() {
		value, _ := rec.Get(field)
		if value == nil {
			continue
		}

		attr := n.resolveAttribute(field)

		if list, ok := value.([]any); ok {
			var values []string
			for _, item := range list {
				if v := NormalizeValue(attr, item, n.transformers); v != "" {
					values = append(values, v)
				}
			}
			if len(values) > 0 {
				attrs.Set(attr, values...)
			}
			continue
		}

		if v := NormalizeValue(attr, value, n.transformers); v != "" {
			attrs.Set(attr, v)
		}
	}

	n.injectRequired(attrs)
	return attrs
}

// injectRequired backfills objectClass, cn and sn. The order matters: cn may
// derive from givenName/sn, and sn may in turn derive from the cn just
// injected.
func (n *Normalizer) injectRequired(attrs *AttributeMap) {
	if !attrs.Has("objectClass") {
		attrs.Set("objectClass", "inetOrgPerson", "person")
	}

	if !attrs.Has("cn") {
		given := attrs.First("givenName")
		surname := attrs.First("sn")
		switch {
		case given != "" && surname != "":
			attrs.Set("cn", given+" "+surname)
		case attrs.Has("displayName"):
			attrs.Set("cn", attrs.First("displayName"))
		case attrs.Has("uid"):
			attrs.Set("cn", attrs.First("uid"))
		default:
			attrs.Set("cn", "Unknown User")
		}
	}

	if !attrs.Has("sn") {
		words := strings.Fields(attrs.First("cn"))
		if len(words) > 0 {
			attrs.Set("sn", words[len(words)-1])
		} else {
			attrs.Set("sn", "Unknown")
		}
	}
}
