// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

package ldif

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = "uid={uid},ou=users,dc=example,dc=com"

func newTestWriter(t *testing.T, opts WriterOptions) *Writer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.ldif")
	return NewWriter(path, testTemplate, nil, opts)
}

func readOutput(t *testing.T, w *Writer) string {
	t.Helper()
	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	return string(data)
}

func TestWriter_SingleEntry(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	rec := recordOf(
		"uid", "jdoe",
		"email", "JDOE@Example.COM",
		"first_name", "john",
		"last_name", "doe",
	)
	require.NoError(t, w.WriteRecord(rec))
	require.NoError(t, w.Close())

	out := readOutput(t, w)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "version: 1", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "dn: uid=jdoe,ou=users,dc=example,dc=com", lines[2])
	assert.Contains(t, out, "uid: jdoe\n")
	assert.Contains(t, out, "mail: jdoe@example.com\n")
	assert.Contains(t, out, "givenName: John\n")
	assert.Contains(t, out, "sn: Doe\n")
	assert.Contains(t, out, "objectClass: inetOrgPerson\n")
	assert.Contains(t, out, "objectClass: person\n")
	assert.Contains(t, out, "cn: John Doe\n")
	assert.True(t, strings.HasSuffix(out, "\n\n"), "entry must end with a blank separator")

	assert.Equal(t, 1, w.RecordCount())
	assert.Equal(t, int64(len(out)), w.BytesWritten())
}

func TestWriter_GoldenOutput(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe", "cn", "John Doe", "last_name", "doe")))
	require.NoError(t, w.Close())

	want := strings.Join([]string{
		"version: 1",
		"",
		"dn: uid=jdoe,ou=users,dc=example,dc=com",
		"uid: jdoe",
		"cn: John Doe",
		"sn: Doe",
		"objectClass: inetOrgPerson",
		"objectClass: person",
		"",
		"",
	}, "\n")

	if diff := cmp.Diff(want, readOutput(t, w)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_TimestampHeaderAndFooter(t *testing.T) {
	w := newTestWriter(t, WriterOptions{IncludeTimestamps: true})

	for _, uid := range []string{"a", "b", "c"} {
		require.NoError(t, w.WriteRecord(recordOf("uid", uid)))
	}
	require.NoError(t, w.Close())

	out := readOutput(t, w)
	assert.Contains(t, out, "# Generated on: ")
	assert.Contains(t, out, "# FLEXT Target LDIF - Singer Target\n")
	assert.Contains(t, out, "# Total records written: 3\n")
}

func TestWriter_Base64ValueInFile(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jgarcia", "cn", "José García")))
	require.NoError(t, w.Close())

	out := readOutput(t, w)
	var encoded string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "cn:: ") {
			encoded = strings.TrimPrefix(line, "cn:: ")
		}
	}
	require.NotEmpty(t, encoded, "cn must be base64 encoded")

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "José García", string(decoded))
}

func TestWriter_ForcedBase64(t *testing.T) {
	w := newTestWriter(t, WriterOptions{Base64Encode: true})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe")))
	require.NoError(t, w.Close())

	out := readOutput(t, w)
	assert.Contains(t, out, "dn:: ")
	assert.Contains(t, out, "uid:: ")
	assert.NotContains(t, out, "uid: jdoe")
}

func TestWriter_FoldsLongLines(t *testing.T) {
	w := newTestWriter(t, WriterOptions{LineLength: 40})

	rec := recordOf("uid", "jdoe", "description", strings.Repeat("x", 120))
	require.NoError(t, w.WriteRecord(rec))
	require.NoError(t, w.Close())

	for i, line := range strings.Split(readOutput(t, w), "\n") {
		assert.LessOrEqual(t, len(line), 40, "line %d exceeds wrap width: %q", i, line)
	}
}

func TestWriter_MissingDNFieldLeavesFileUntouched(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe")))
	before := w.BytesWritten()

	err := w.WriteRecord(recordOf("email", "no-uid@example.com"))
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)

	assert.Equal(t, before, w.BytesWritten())
	assert.Equal(t, 1, w.RecordCount())

	// The writer stays usable for subsequent records
	require.NoError(t, w.WriteRecord(recordOf("uid", "asmith")))
	require.NoError(t, w.Close())
	assert.Equal(t, 2, w.RecordCount())
}

func TestWriter_WriteAfterClose(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe")))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.WriteRecord(recordOf("uid", "asmith")), ErrWriterClosed)
	assert.ErrorIs(t, w.Open(), ErrWriterClosed)
}

func TestWriter_CloseIdempotent(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe")))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWriter_CloseWithoutOpen(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.Close())
	_, err := os.Stat(w.Path())
	assert.True(t, os.IsNotExist(err), "closing an unopened writer must not create the file")
}

func TestWriter_OpenIdempotent(t *testing.T) {
	w := newTestWriter(t, WriterOptions{})

	require.NoError(t, w.Open())
	headerBytes := w.BytesWritten()
	require.NoError(t, w.Open())
	assert.Equal(t, headerBytes, w.BytesWritten())

	require.NoError(t, w.Close())
}

func TestWriter_CreatesOutputDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.ldif")
	w := NewWriter(path, testTemplate, nil, WriterOptions{})

	require.NoError(t, w.WriteRecord(recordOf("uid", "jdoe")))
	require.NoError(t, w.Close())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
