// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"errors"
	"fmt"
)

// ErrWriterClosed is returned when writing to or reopening a closed writer.
var ErrWriterClosed = errors.New("ldif: writer is closed")

// MissingFieldError reports a DN template placeholder that references a
// field absent from the current record. It is a per-record, recoverable
// failure: callers typically skip the record and continue the stream.
type MissingFieldError struct {
	Field    string
	Template string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("dn template %q references field %q absent from record", e.Template, e.Field)
}
