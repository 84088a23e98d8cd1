// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// WriterOptions holds the LDIF format options for a single output file.
type WriterOptions struct {
	// LineLength is the wrap width for attribute lines (default 78).
	LineLength int

	// Base64Encode forces base64 encoding of every value.
	Base64Encode bool

	// IncludeTimestamps toggles the generation-timestamp header comment and
	// the trailing record-count comment.
	IncludeTimestamps bool
}

type writerState int

const (
	writerUnopened writerState = iota
	writerOpen
	writerClosed
)

// Writer serializes records into one LDIF file. It owns the file handle
// exclusively and must be driven by a single goroutine; independent streams
// use independent writers over independent files.
//
// Lifecycle: Unopened -> Open -> Closed (terminal). WriteRecord opens
// lazily on first call; Close is idempotent and a closed writer is never
// reopened.
type Writer struct {
	path       string
	dnTemplate string
	normalizer *Normalizer
	policy     EncodingPolicy
	opts       WriterOptions

	state   writerState
	file    *os.File
	buf     *bufio.Writer
	count   int
	written int64
}

// NewWriter creates a writer for the given output path. Nothing touches the
// filesystem until the first write.
func NewWriter(path, dnTemplate string, normalizer *Normalizer, opts WriterOptions) *Writer {
	if opts.LineLength < MinLineLength {
		opts.LineLength = DefaultLineLength
	}
	if normalizer == nil {
		normalizer = NewNormalizer(nil, nil)
	}
	return &Writer{
		path:       path,
		dnTemplate: dnTemplate,
		normalizer: normalizer,
		policy:     EncodingPolicy{ForceBase64: opts.Base64Encode},
		opts:       opts,
	}
}

// Open creates the output directory tree and the file, and writes the
// header exactly once. Idempotent while open; fails with ErrWriterClosed
// after Close.
func (w *Writer) Open() error {
	switch w.state {
	case writerOpen:
		return nil
	case writerClosed:
		return ErrWriterClosed
	}

	if dir := filepath.Dir(w.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("open ldif file: %w", err)
	}

	w.file = file
	w.buf = bufio.NewWriter(file)
	w.state = writerOpen

	return w.writeHeader()
}

func (w *Writer) writeHeader() error {
	if err := w.writeLine("version: 1"); err != nil {
		return err
	}
	if w.opts.IncludeTimestamps {
		if err := w.writeLine("# Generated on: " + time.Now().Format(time.RFC3339)); err != nil {
			return err
		}
		if err := w.writeLine("# FLEXT Target LDIF - Singer Target"); err != nil {
			return err
		}
	}
	return w.writeLine("")
}

// WriteRecord normalizes the record into an entry and appends it to the
// file: the DN line, one line per attribute value in insertion order, then a
// blank separator. A *MissingFieldError from DN generation leaves the file
// untouched so the caller can skip the record and continue.
func (w *Writer) WriteRecord(rec *Record) error {
	if w.state == writerClosed {
		return ErrWriterClosed
	}
	if w.state == writerUnopened {
		if err := w.Open(); err != nil {
			return err
		}
	}

	dn, err := GenerateDN(rec, w.dnTemplate)
	if err != nil {
		return err
	}
	attrs := w.normalizer.Normalize(rec)

	if err := w.writeLine(FoldLine(w.policy.FormatValue("dn", dn), w.opts.LineLength)); err != nil {
		return err
	}
	for _, name := range attrs.Names() {
		for _, value := range attrs.Get(name) {
			if err := w.writeLine(FoldLine(w.policy.FormatValue(name, value), w.opts.LineLength)); err != nil {
				return err
			}
		}
	}
	if err := w.writeLine(""); err != nil {
		return err
	}

	w.count++
	return nil
}

// Close flushes buffered output, appends the trailing record-count comment
// when timestamps are enabled, and closes the file. Closing an already
// closed writer is a no-op; a writer that never opened just transitions to
// closed without touching the filesystem.
func (w *Writer) Close() error {
	switch w.state {
	case writerClosed:
		return nil
	case writerUnopened:
		w.state = writerClosed
		return nil
	}

	w.state = writerClosed

	if w.opts.IncludeTimestamps {
		if err := w.writeLine("# Total records written: " + strconv.Itoa(w.count)); err != nil {
			w.file.Close()
			return err
		}
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush ldif file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close ldif file: %w", err)
	}
	return nil
}

// RecordCount returns the number of records written, accurate after Close.
func (w *Writer) RecordCount() int {
	return w.count
}

// BytesWritten returns the number of bytes emitted so far, including the
// header and footer.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) writeLine(line string) error {
	n, err := w.buf.WriteString(line)
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("write ldif file: %w", err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("write ldif file: %w", err)
	}
	w.written++
	return nil
}
