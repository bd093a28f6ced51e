package pak

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePart packs files into a pak file below dir and returns its path.
func writePart(t *testing.T, dir, name string, lastSplit bool, files ...File) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	_, _, err = WriteArchive(context.Background(), f, files, lastSplit)
	require.NoError(t, err)
	return p
}

func TestOpenClosesOnValidationFailure(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "bad.pak")
	require.NoError(t, os.WriteFile(p, []byte("too short"), 0o644))

	_, err := Open(p)
	require.ErrorIs(t, err, ErrTruncatedHeader)

	_, err = Open(filepath.Join(t.TempDir(), "missing.pak"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	p := writePart(t, t.TempDir(), "data.pak", true, BytesFile("a.txt", []byte("hello")))
	a, err := Open(p)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, p, a.Path())
	entries, err := a.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got, err := a.ReadFile(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestScanSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writePart(t, dir, "data.pak", false, BytesFile("base.txt", []byte("base"))),
		writePart(t, dir, "data_001.pak", false, BytesFile("one.txt", []byte("1"))),
		writePart(t, dir, "data_002.pak", true, BytesFile("two.txt", []byte("2")), BytesFile("zwei.txt", []byte("2"))),
	}

	parts, err := ScanSet(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	for i, part := range parts {
		assert.Equal(t, paths[i], part.Path)
	}
	assert.Equal(t, "base.txt", parts[0].Entries[0].Name)
	assert.Len(t, parts[2].Entries, 2)
	assert.True(t, parts[2].Header.IsLastSplit())
}

func TestScanSetSequenceErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	more := writePart(t, dir, "more.pak", false)
	last := writePart(t, dir, "last.pak", true)

	tests := []struct {
		name  string
		paths []string
	}{
		{"no terminal part", []string{more, more}},
		{"terminal part first", []string{last, more}},
		{"two terminal parts", []string{last, last}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ScanSet(context.Background(), tt.paths)
			require.ErrorIs(t, err, ErrSplitSequence)
		})
	}

	parts, err := ScanSet(context.Background(), []string{last})
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestScanSetPartError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writePart(t, dir, "good.pak", true)
	bad := filepath.Join(dir, "bad.pak")
	require.NoError(t, os.WriteFile(bad, make([]byte, HeaderSize), 0o644))

	_, err := ScanSet(context.Background(), []string{bad, good})
	require.ErrorIs(t, err, ErrBadSignature)
	assert.Contains(t, err.Error(), "bad.pak")
}
