// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package target

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	tgt, err := New(cfg)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"type":"SCHEMA","stream":"users","schema":{"properties":{"uid":{"type":"string"},"email":{"type":"string"}}},"key_properties":["uid"]}`,
		`{"type":"RECORD","stream":"users","record":{"uid":"jdoe","email":"JDOE@Example.COM","first_name":"john","last_name":"doe"}}`,
		`{"type":"RECORD","stream":"users","record":{"uid":"asmith","email":"asmith@example.com"}}`,
		`{"type":"STATE","value":{"bookmarks":{"users":{"uid":"asmith"}}}}`,
	}, "\n")

	var out strings.Builder
	require.NoError(t, tgt.Process(context.Background(), strings.NewReader(input), &out))

	// STATE surfaced exactly once, after the records became durable
	assert.JSONEq(t, `{"bookmarks":{"users":{"uid":"asmith"}}}`, strings.TrimSpace(out.String()))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))

	data, err := os.ReadFile(filepath.Join(cfg.OutputPath, "users.ldif"))
	require.NoError(t, err)
	ldifOut := string(data)

	assert.Contains(t, ldifOut, "version: 1\n")
	assert.Contains(t, ldifOut, "dn: uid=jdoe,ou=users,dc=example,dc=com\n")
	assert.Contains(t, ldifOut, "dn: uid=asmith,ou=users,dc=example,dc=com\n")
	assert.Contains(t, ldifOut, "mail: jdoe@example.com\n")
	assert.Contains(t, ldifOut, "givenName: John\n")
}

func TestTarget_MultipleStreams(t *testing.T) {
	cfg := testConfig(t)
	cfg.DNTemplate = "cn={name},dc=example,dc=com"
	tgt, err := New(cfg)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"type":"RECORD","stream":"users","record":{"name":"alice","uid":"alice"}}`,
		`{"type":"RECORD","stream":"groups","record":{"name":"admins","uid":"admins"}}`,
	}, "\n")

	var out strings.Builder
	require.NoError(t, tgt.Process(context.Background(), strings.NewReader(input), &out))

	for _, stream := range []string{"users", "groups"} {
		_, err := os.Stat(filepath.Join(cfg.OutputPath, stream+".ldif"))
		assert.NoError(t, err, "missing output for stream %s", stream)
	}
}

func TestTarget_RecordWithoutPayloadSkipped(t *testing.T) {
	cfg := testConfig(t)
	tgt, err := New(cfg)
	require.NoError(t, err)

	input := `{"type":"RECORD","stream":"users"}` + "\n" +
		`{"type":"RECORD","stream":"users","record":{"uid":"jdoe"}}` + "\n"

	var out strings.Builder
	require.NoError(t, tgt.Process(context.Background(), strings.NewReader(input), &out))

	assert.Equal(t, 1, tgt.GetSink("users").RecordCount())
}

func TestTarget_SchemaWithoutStreamFails(t *testing.T) {
	tgt, err := New(testConfig(t))
	require.NoError(t, err)

	input := `{"type":"SCHEMA","schema":{"properties":{"id":{}}}}` + "\n"

	var out strings.Builder
	err = tgt.Process(context.Background(), strings.NewReader(input), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA message missing stream")
}

func TestTarget_UnknownMessageTypeIgnored(t *testing.T) {
	tgt, err := New(testConfig(t))
	require.NoError(t, err)

	input := `{"type":"ACTIVATE_VERSION","stream":"users"}` + "\n" +
		`{"type":"RECORD","stream":"users","record":{"uid":"jdoe"}}` + "\n"

	var out strings.Builder
	require.NoError(t, tgt.Process(context.Background(), strings.NewReader(input), &out))
	assert.Equal(t, 1, tgt.GetSink("users").RecordCount())
}

func TestTarget_StateFlushesBuffers(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 100 // larger than the record count, only STATE can drain
	tgt, err := New(cfg)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"type":"RECORD","stream":"users","record":{"uid":"jdoe"}}`,
		`{"type":"STATE","value":{"pos":1}}`,
	}, "\n")

	var out strings.Builder
	require.NoError(t, tgt.Process(context.Background(), strings.NewReader(input), &out))

	assert.Equal(t, 1, tgt.GetSink("users").RecordCount())
	assert.JSONEq(t, `{"pos":1}`, strings.TrimSpace(out.String()))
}

func TestTarget_ContextCancellation(t *testing.T) {
	tgt, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err = tgt.Process(ctx, strings.NewReader(`{"type":"RECORD","stream":"users","record":{"uid":"a"}}`), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTarget_GetSinkReusesExisting(t *testing.T) {
	tgt, err := New(testConfig(t))
	require.NoError(t, err)

	first := tgt.GetSink("users")
	second := tgt.GetSink("users")
	assert.Same(t, first, second)
}
