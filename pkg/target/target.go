// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

// Package target orchestrates the Singer message loop: one sink per stream,
// soft record/schema validation, and STATE passthrough to stdout.
package target

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/flextlabs/target-ldif/pkg/config"
	"github.com/flextlabs/target-ldif/pkg/logger"
	"github.com/flextlabs/target-ldif/pkg/singer"
)

// Target consumes Singer messages and routes records to per-stream sinks.
// The message loop is single-threaded; sinks are never shared across
// goroutines.
type Target struct {
	cfg     *config.Config
	sinks   map[string]*Sink
	order   []string // stream registration order, for deterministic close
	metrics *Metrics
	log     zerolog.Logger

	pendingState json.RawMessage
}

// New creates a target and eagerly creates the output directory so
// permission problems surface before any records arrive.
func New(cfg *config.Config) (*Target, error) {
	if err := os.MkdirAll(cfg.OutputPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Target{
		cfg:     cfg,
		sinks:   make(map[string]*Sink),
		metrics: NewMetrics(),
		log:     logger.With().Str("component", "target").Logger(),
	}, nil
}

// GetSink returns the sink for a stream, creating it on first use.
func (t *Target) GetSink(stream string) *Sink {
	if sink, ok := t.sinks[stream]; ok {
		return sink
	}
	sink := NewSink(t.cfg, stream)
	t.sinks[stream] = sink
	t.order = append(t.order, stream)
	t.metrics.StreamsActive.Inc()
	t.log.Info().Str("stream", stream).Str("file", sink.Path()).Msg("stream registered")
	return sink
}

// Process reads Singer messages from in until EOF or context cancellation,
// then closes every sink exactly once and emits the final state to out.
func (t *Target) Process(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	defer func() {
		if closeErr := t.closeAll(); err == nil {
			err = closeErr
		}
		if err == nil {
			err = t.emitState(out)
		}
	}()

	dec := singer.NewDecoder(in)
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Msg("shutdown requested, closing streams")
			return ctx.Err()
		default:
		}

		msg, decErr := dec.Next()
		if decErr != nil {
			if errors.Is(decErr, io.EOF) {
				return nil
			}
			return decErr
		}

		if err := t.dispatch(msg, out); err != nil {
			return err
		}
	}
}

func (t *Target) dispatch(msg *singer.Message, out io.Writer) error {
	switch msg.Type {
	case singer.MessageTypeSchema:
		if msg.Stream == "" {
			return fmt.Errorf("SCHEMA message missing stream name")
		}
		result := ValidateSchema(msg.Schema)
		for field, msgs := range result.Errors {
			for _, m := range msgs {
				t.log.Warn().Str("stream", msg.Stream).Str("field", field).Msg(m)
			}
		}
		for _, m := range result.Warnings {
			t.log.Warn().Str("stream", msg.Stream).Msg(m)
		}
		t.GetSink(msg.Stream)
		return nil

	case singer.MessageTypeRecord:
		if msg.Stream == "" {
			return fmt.Errorf("RECORD message missing stream name")
		}
		if msg.Record == nil {
			t.log.Warn().Str("stream", msg.Stream).Msg("RECORD message without record payload, skipped")
			return nil
		}
		return t.GetSink(msg.Stream).ProcessRecord(msg.Record)

	case singer.MessageTypeState:
		t.pendingState = msg.Value
		// Records preceding the state must be durable before the state is
		// surfaced downstream.
		if err := t.drainAll(); err != nil {
			return err
		}
		return t.emitState(out)

	default:
		t.log.Debug().Str("type", string(msg.Type)).Msg("ignoring unsupported message type")
		return nil
	}
}

func (t *Target) drainAll() error {
	for _, stream := range t.order {
		if err := t.sinks[stream].Drain(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Target) closeAll() error {
	var firstErr error
	for _, stream := range t.order {
		if err := t.sinks[stream].Close(); err != nil {
			t.log.Error().Err(err).Str("stream", stream).Msg("failed to close sink")
			if firstErr == nil {
				firstErr = err
			}
		}
		t.metrics.StreamsActive.Dec()
	}
	return firstErr
}

// emitState writes the pending STATE payload to out, once.
func (t *Target) emitState(out io.Writer) error {
	if t.pendingState == nil {
		return nil
	}
	if _, err := out.Write(append(t.pendingState, '\n')); err != nil {
		return fmt.Errorf("emit state: %w", err)
	}
	t.pendingState = nil
	return nil
}
