package pak

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/exectails/huskypak/internal/testutil"
)

var (
	benchSinkEntries []Entry
	benchSinkBytes   []byte
)

type benchPattern string

const (
	benchPatternCompressible benchPattern = "compressible"
	benchPatternRandom       benchPattern = "random"
)

func benchFiles(count, size int, pattern benchPattern) []File {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // deterministic test data
	files := make([]File, count)
	for i := range count {
		data := make([]byte, size)
		switch pattern {
		case benchPatternRandom:
			rng.Read(data)
		default:
			copy(data, bytes.Repeat([]byte("<item id=\"1\" name=\"stone\"/>\n"), size/28+1))
		}
		files[i] = BytesFile(fmt.Sprintf("db/dir%02d/file%05d.xml", i%16, i), data)
	}
	return files
}

func BenchmarkWriteArchive(b *testing.B) {
	cases := []struct {
		name      string
		fileCount int
		fileSize  int
		pattern   benchPattern
	}{
		{"small-compressible", 1000, 1 << 10, benchPatternCompressible},
		{"small-random", 1000, 1 << 10, benchPatternRandom},
		{"large-compressible", 16, 1 << 20, benchPatternCompressible},
	}
	for _, bc := range cases {
		b.Run(bc.name, func(b *testing.B) {
			files := benchFiles(bc.fileCount, bc.fileSize, bc.pattern)
			b.SetBytes(int64(bc.fileCount * bc.fileSize))
			b.ReportAllocs()
			for b.Loop() {
				_, entries, err := WriteArchive(context.Background(), testutil.NewMemFile(nil), files, true)
				if err != nil {
					b.Fatal(err)
				}
				benchSinkEntries = entries
			}
		})
	}
}

func BenchmarkEntries(b *testing.B) {
	mf := testutil.NewMemFile(nil)
	if _, _, err := WriteArchive(context.Background(), mf, benchFiles(5000, 256, benchPatternCompressible), true); err != nil {
		b.Fatal(err)
	}
	raw := mf.Bytes()

	b.ReportAllocs()
	for b.Loop() {
		r, err := NewReader(bytes.NewReader(raw))
		if err != nil {
			b.Fatal(err)
		}
		entries, err := r.Entries()
		if err != nil {
			b.Fatal(err)
		}
		benchSinkEntries = entries
	}
}

func BenchmarkReadFile(b *testing.B) {
	mf := testutil.NewMemFile(nil)
	_, entries, err := WriteArchive(context.Background(), mf, benchFiles(1, 1<<20, benchPatternCompressible), true)
	if err != nil {
		b.Fatal(err)
	}
	r, err := NewReader(bytes.NewReader(mf.Bytes()))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(1 << 20)
	b.ReportAllocs()
	for b.Loop() {
		data, err := r.ReadFile(entries[0])
		if err != nil {
			b.Fatal(err)
		}
		benchSinkBytes = data
	}
}
