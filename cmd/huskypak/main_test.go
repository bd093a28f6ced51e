package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pak "github.com/exectails/huskypak"
	"github.com/exectails/huskypak/internal/testutil"
)

// execute runs the root command with an isolated config file and returns
// what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", writeConfig(t, "log_level: warn\n")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPackListExtract(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateFiles(t, src, map[string]string{
		"a.txt":        "hello",
		"db/items.xml": "<items/>",
	})
	pakFile := filepath.Join(t.TempDir(), "nested", "data.pak")

	out, err := execute(t, "pack", src, pakFile, "true")
	require.NoError(t, err)
	assert.Contains(t, out, "New Pak File: data.pak")
	assert.Contains(t, out, "  db/items.xml\n")
	assert.Contains(t, out, "Packed 2 files.")

	out, err = execute(t, "list", pakFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Pak File: data.pak")
	assert.Contains(t, out, "  a.txt         ")
	assert.Contains(t, out, "(5 B)")

	dst := t.TempDir()
	out, err = execute(t, "extract", pakFile, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 2 files.")
	got, err := os.ReadFile(filepath.Join(dst, "db", "items.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<items/>", string(got))
}

func TestPackBackslash(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateFiles(t, src, map[string]string{"db/items.xml": "x"})
	pakFile := filepath.Join(t.TempDir(), "data.pak")

	_, err := execute(t, "--backslash", "pack", src, pakFile)
	require.NoError(t, err)

	a, err := pak.Open(pakFile)
	require.NoError(t, err)
	defer a.Close()
	assert.False(t, a.Header().IsLastSplit())
	entries, err := a.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `db\items.xml`, entries[0].Name)
}

func TestPackErrors(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	pakFile := filepath.Join(t.TempDir(), "data.pak")

	_, err := execute(t, "pack", src, pakFile, "maybe")
	require.ErrorContains(t, err, "splitEnd")

	_, err = execute(t, "pack", filepath.Join(src, "missing"), pakFile)
	require.ErrorContains(t, err, "folder not found")
	_, statErr := os.Stat(pakFile)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestListMissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "list", filepath.Join(t.TempDir(), "missing.pak"))
	require.ErrorIs(t, err, errPakNotFound)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateFiles(t, src, map[string]string{"a.txt": "a", "b.txt": "b"})
	pakFile := filepath.Join(t.TempDir(), "data.pak")
	_, err := execute(t, "pack", "--last-split", src, pakFile)
	require.NoError(t, err)

	raw, err := os.ReadFile(pakFile)
	require.NoError(t, err)

	out, err := execute(t, "inspect", pakFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Digest:       "+digest.FromBytes(raw).String())
	assert.Contains(t, out, "Version:      0x201")
	assert.Contains(t, out, "Split Flag:   4, last")
	assert.Contains(t, out, "Records:      2")
	assert.Contains(t, out, "Chain:        2 records, consistent with scan")
}

func TestSet(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateFiles(t, src, map[string]string{"a.txt": "a"})
	dir := t.TempDir()
	first := filepath.Join(dir, "data.pak")
	last := filepath.Join(dir, "data_001.pak")

	_, err := execute(t, "pack", src, first)
	require.NoError(t, err)
	_, err = execute(t, "pack", src, last, "true")
	require.NoError(t, err)

	out, err := execute(t, "set", first, last)
	require.NoError(t, err)
	assert.Contains(t, out, "data.pak: more, 1 files")
	assert.Contains(t, out, "data_001.pak: last, 1 files")
	assert.Contains(t, out, "2 parts, 2 files.")

	_, err = execute(t, "set", last, first)
	require.ErrorIs(t, err, pak.ErrSplitSequence)
}

func TestWriteEntryTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeEntryTable(&buf, []pak.Entry{
		{Name: "a", SizeCompressed: 3, SizeUncompressed: 2048},
		{Name: "abc", SizeCompressed: 10, SizeUncompressed: 10},
	})
	assert.Equal(t, "  a    3 B (2.0 KiB)\n  abc  10 B (10 B)\n", buf.String())
}

func TestWriteEntryTableCountsCharacters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeEntryTable(&buf, []pak.Entry{
		{Name: "名前.txt", SizeCompressed: 1, SizeUncompressed: 1},
		{Name: "abcdef", SizeCompressed: 1, SizeUncompressed: 1},
	})
	assert.Equal(t, "  名前.txt  1 B (1 B)\n  abcdef  1 B (1 B)\n", buf.String())
}
