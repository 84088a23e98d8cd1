// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

// Package singer models the slice of the Singer protocol a target consumes:
// SCHEMA, RECORD and STATE messages arriving as JSON lines on stdin.
package singer

import (
	"encoding/json"

	"github.com/flextlabs/target-ldif/pkg/ldif"
)

// MessageType identifies a Singer message.
type MessageType string

const (
	MessageTypeSchema MessageType = "SCHEMA"
	MessageTypeRecord MessageType = "RECORD"
	MessageTypeState  MessageType = "STATE"
)

// Schema is the JSON-schema-like shape a tap announces per stream. The
// target only inspects property names.
type Schema struct {
	Type       any                        `json:"type,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// Message is one line of the Singer stream.
type Message struct {
	Type          MessageType `json:"type"`
	Stream        string      `json:"stream,omitempty"`
	Schema        *Schema     `json:"schema,omitempty"`
	KeyProperties []string    `json:"key_properties,omitempty"`

	// Record carries the payload of a RECORD message with its field order
	// preserved.
	Record *ldif.Record `json:"record,omitempty"`

	// Value carries the opaque payload of a STATE message.
	Value json.RawMessage `json:"value,omitempty"`
}
