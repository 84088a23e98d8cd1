// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package target

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flextlabs/target-ldif/pkg/config"
	"github.com/flextlabs/target-ldif/pkg/ldif"
	"github.com/flextlabs/target-ldif/pkg/logger"
)

// Sink owns the LDIF writer for one stream. It buffers records up to the
// configured batch size before draining them to the writer; the on-disk
// layout is identical to writing each record immediately. A sink is driven
// by the single-threaded record-dispatch loop that owns its stream.
type Sink struct {
	stream  string
	cfg     *config.Config
	writer  *ldif.Writer
	buffer  []*ldif.Record
	skipped int
	closed  bool
	metrics *Metrics
	log     zerolog.Logger
}

// NewSink creates a sink for the given stream name. The output file is
// <output_path>/<safe-stream-name>.ldif; nothing is written until the first
// record arrives.
func NewSink(cfg *config.Config, stream string) *Sink {
	path := filepath.Join(cfg.OutputPath, SafeStreamName(stream)+".ldif")
	normalizer := ldif.NewNormalizer(cfg.AttributeMapping, nil)
	writer := ldif.NewWriter(path, cfg.DNTemplate, normalizer, ldif.WriterOptions{
		LineLength:        cfg.Ldif.LineLength,
		Base64Encode:      cfg.Ldif.Base64Encode,
		IncludeTimestamps: cfg.Ldif.IncludeTimestamps,
	})

	return &Sink{
		stream:  stream,
		cfg:     cfg,
		writer:  writer,
		buffer:  make([]*ldif.Record, 0, cfg.BatchSize),
		metrics: NewMetrics(),
		log:     logger.With().Str("stream", stream).Str("file", path).Logger(),
	}
}

// SafeStreamName reduces a stream name to a safe file stem, keeping only
// alphanumerics, "-" and "_", and falling back to "stream" when nothing
// survives.
func SafeStreamName(name string) string {
	var out []rune
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "stream"
	}
	return string(out)
}

// ProcessRecord validates and buffers a record, draining the buffer once it
// reaches the batch size. Soft validation findings are logged and the record
// is still written; only file errors are returned.
func (s *Sink) ProcessRecord(rec *ldif.Record) error {
	if s.closed {
		return ldif.ErrWriterClosed
	}

	result := ValidateRecord(rec)
	if !result.Valid() || len(result.Warnings) > 0 {
		s.metrics.ValidationWarnings.Inc()
		for field, msgs := range result.Errors {
			for _, msg := range msgs {
				s.log.Warn().Str("field", field).Msg(msg)
			}
		}
		for _, msg := range result.Warnings {
			s.log.Warn().Msg(msg)
		}
	}

	s.buffer = append(s.buffer, rec)
	if len(s.buffer) >= s.cfg.BatchSize {
		return s.Drain()
	}
	return nil
}

// Drain writes all buffered records to the LDIF file. Records whose DN
// template references a missing field are skipped with a warning; any other
// write failure aborts the stream.
func (s *Sink) Drain() error {
	if len(s.buffer) == 0 {
		return nil
	}

	batchID := uuid.New().String()[:8]
	start := time.Now()
	written := 0

	for _, rec := range s.buffer {
		err := s.writer.WriteRecord(rec)
		if err == nil {
			written++
			continue
		}

		var missing *ldif.MissingFieldError
		if errors.As(err, &missing) {
			s.skipped++
			s.metrics.RecordsSkipped.Inc()
			s.log.Warn().
				Str("batch_id", batchID).
				Str("field", missing.Field).
				Msg("skipping record: dn template field missing")
			continue
		}

		return fmt.Errorf("stream %s: %w", s.stream, err)
	}

	s.buffer = s.buffer[:0]
	s.metrics.RecordsWritten.Add(float64(written))
	s.metrics.BatchesFlushed.Inc()
	s.metrics.FlushDuration.Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("batch_id", batchID).
		Int("count", written).
		Dur("duration", time.Since(start)).
		Msg("drained record batch")

	return nil
}

// Close drains remaining records and closes the writer. Idempotent.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}

	drainErr := s.Drain()
	closeErr := s.writer.Close()
	s.closed = true

	if drainErr == nil && closeErr == nil {
		s.log.Info().
			Int("records", s.writer.RecordCount()).
			Int("skipped", s.skipped).
			Str("bytes", humanize.Bytes(uint64(s.writer.BytesWritten()))).
			Msg("ldif file written")
	}

	if drainErr != nil {
		return drainErr
	}
	return closeErr
}

// RecordCount returns the number of records written to the file so far.
func (s *Sink) RecordCount() int {
	return s.writer.RecordCount()
}

// Skipped returns the number of records dropped for DN generation failures.
func (s *Sink) Skipped() int {
	return s.skipped
}

// Path returns the sink's output file path.
func (s *Sink) Path() string {
	return s.writer.Path()
}
