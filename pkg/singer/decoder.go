// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package singer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	initialBufSize = 64 * 1024
	maxLineSize    = 20 * 1024 * 1024
)

// Decoder reads Singer messages line by line.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder creates a decoder over the given reader. The line buffer grows
// up to 20 MiB to accommodate wide records.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)
	return &Decoder{scanner: scanner}
}

// Next returns the next message, io.EOF when the input is exhausted. Blank
// lines are skipped.
func (d *Decoder) Next() (*Message, error) {
	for d.scanner.Scan() {
		d.line++
		data := bytes.TrimSpace(d.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("line %d: decode message: %w", d.line, err)
		}
		if msg.Type == "" {
			return nil, fmt.Errorf("line %d: message missing type", d.line)
		}
		return &msg, nil
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return nil, io.EOF
}

// Line returns the number of lines consumed so far.
func (d *Decoder) Line() int {
	return d.line
}
