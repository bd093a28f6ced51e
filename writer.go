package pak

import (
	"bufio"
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/exectails/huskypak/internal/cipher"
	"github.com/exectails/huskypak/internal/codec"
	"github.com/exectails/huskypak/internal/sizing"
)

// File is one input to WriteArchive.
type File struct {
	// Name is the entry's relative path as it will be stored.
	Name string

	// Open returns the file content. It is called once, while the file is
	// being written, and the reader is closed afterwards.
	Open func() (io.ReadCloser, error)
}

// BytesFile returns a File backed by an in-memory buffer.
func BytesFile(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Writer creates pak archives.
type Writer struct {
	cfg  writeConfig
	pool *codec.Pool
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts ...WriteOption) (*Writer, error) {
	cfg := newWriteConfig(opts)
	pool, err := codec.NewPool(cfg.level)
	if err != nil {
		return nil, err
	}
	return &Writer{cfg: cfg, pool: pool}, nil
}

// WriteArchive writes files as a new archive to dst. See Writer.Write.
func WriteArchive(ctx context.Context, dst io.WriteSeeker, files []File, lastSplit bool, opts ...WriteOption) (Header, []Entry, error) {
	w, err := NewWriter(opts...)
	if err != nil {
		return Header{}, nil, err
	}
	return w.Write(ctx, dst, files, lastSplit)
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Writer) log() *slog.Logger {
	if w.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.cfg.logger
}

// Write serializes files into a new archive starting at the current position
// of dst, which is taken as archive offset 0.
//
// Files are written sorted by Name (byte-wise), each record followed by its
// zlib payload. Once all records are written the header is patched with the
// masked offset of the last record and the split flag (4 when lastSplit is
// set, 2 otherwise), and dst is left positioned at the end of the archive.
//
// It returns the header and the entries in the order they were written.
func (w *Writer) Write(ctx context.Context, dst io.WriteSeeker, files []File, lastSplit bool) (Header, []Entry, error) {
	maxFiles := w.cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxFiles > 0 && len(files) > maxFiles {
		return Header{}, nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(files), maxFiles)
	}

	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b File) int {
		return cmp.Compare(a.Name, b.Name)
	})

	base, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, nil, ioError("seek start", 0, err)
	}

	enc := cipher.NewWriteSeeker(dst)
	bw := bufio.NewWriterSize(enc, 64*1024)
	out := &countingWriter{W: bw}

	w.log().Info("writing archive", "files", len(sorted), "last_split", lastSplit, "level", w.pool.Level())

	placeholder, _ := Header{Version: Version}.MarshalBinary() //nolint:errcheck // never fails
	if _, err := out.Write(placeholder); err != nil {
		return Header{}, nil, ioError("write header", 0, err)
	}

	entries := make([]Entry, 0, len(sorted))
	var prev int64
	for _, f := range sorted {
		if err := ctx.Err(); err != nil {
			return Header{}, nil, err
		}
		e, err := w.writeEntry(out, f, prev)
		if err != nil {
			return Header{}, nil, err
		}
		entries = append(entries, e)
		prev = e.Offset

		w.log().Debug("packed entry", "name", e.Name, "offset", e.Offset,
			"size_compressed", e.SizeCompressed, "size_uncompressed", e.SizeUncompressed)
		reportProgress(w.cfg.progress, ProgressEvent{
			Stage:      StagePacking,
			Path:       e.Name,
			BytesDone:  uint64(out.N), //nolint:gosec // N is never negative
			FilesDone:  len(entries),
			FilesTotal: len(sorted),
		})
	}

	if err := bw.Flush(); err != nil {
		return Header{}, nil, ioError("flush", out.N, err)
	}

	reportProgress(w.cfg.progress, ProgressEvent{
		Stage:      StageFinalizing,
		BytesDone:  uint64(out.N), //nolint:gosec // N is never negative
		FilesDone:  len(entries),
		FilesTotal: len(sorted),
	})

	// prev is the start of the last record written, or 0 without entries.
	h := newHeader(uint32(prev), lastSplit) //nolint:gosec // checked by sizing.Field in writeEntry
	if err := patchHeader(enc, base, h); err != nil {
		return Header{}, nil, err
	}
	if _, err := enc.Seek(base+out.N, io.SeekStart); err != nil {
		return Header{}, nil, ioError("seek end", out.N, err)
	}

	w.log().Info("archive written", "files", len(entries), "size", out.N)
	return h, entries, nil
}

// writeEntry compresses f and writes its record and payload at the current
// position of out. prev is the start of the previous record, 0 for the first.
func (w *Writer) writeEntry(out *countingWriter, f File, prev int64) (Entry, error) {
	name, err := encodeName(f.Name)
	if err != nil {
		return Entry{}, err
	}

	compressed, size, err := w.compress(f)
	if err != nil {
		return Entry{}, err
	}

	offset := out.N
	dataOffset := dataOffsetFor(offset, len(name))
	fail := func(err error) (Entry, error) {
		return Entry{}, &EntryError{Offset: offset, Name: f.Name, Err: err}
	}

	// The end of this payload is the next record's start, so it must fit too.
	end, err := sizing.AddField(dataOffset, int64(len(compressed)), ErrSizeOverflow)
	if err != nil {
		return fail(err)
	}
	e := Entry{
		Offset:    offset,
		Reserved1: Reserved1Value,
		Reserved2: Reserved2Value,
		Name:      f.Name,
	}
	fields := []struct {
		dst *uint32
		v   int64
	}{
		{&e.DataOffset, dataOffset},
		{&e.SizeCompressed, int64(len(compressed))},
		{&e.SizeUncompressed, size},
		{&e.PrevEntryOffset, prev},
	}
	for _, fld := range fields {
		if *fld.dst, err = sizing.Field(fld.v, ErrSizeOverflow); err != nil {
			return fail(err)
		}
	}

	rec := appendRecord(make([]byte, 0, recordOverhead+len(name)), e, name)
	if _, err := out.Write(rec); err != nil {
		return fail(ioError("write record", offset, err))
	}
	if _, err := out.Write(compressed); err != nil {
		return fail(ioError("write payload", dataOffset, err))
	}
	if out.N != end {
		return fail(fmt.Errorf("%w: wrote to 0x%x, expected 0x%x", ErrOffsetMismatch, out.N, end))
	}
	return e, nil
}

func (w *Writer) compress(f File) ([]byte, int64, error) {
	if f.Open == nil {
		return nil, 0, fmt.Errorf("pak: file %q has no content source", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	compressed, size, err := w.pool.Compress(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("compress %s: %w", f.Name, err)
	}
	return compressed, size, nil
}

// patchHeader overwrites the two masked header words of the archive at base.
func patchHeader(enc io.WriteSeeker, base int64, h Header) error {
	if _, err := enc.Seek(base+headerMaskOffset, io.SeekStart); err != nil {
		return ioError("seek header", headerMaskOffset, err)
	}
	if _, err := enc.Write(h.appendMasked(nil)); err != nil {
		return ioError("patch header", headerMaskOffset, err)
	}
	return nil
}

// countingWriter tracks the archive offset of the next byte written.
type countingWriter struct {
	W io.Writer
	N int64
}

// Write implements io.Writer.
func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	cw.N += int64(n)
	return n, err
}
