package pak

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/exectails/huskypak/internal/cipher"
	"github.com/exectails/huskypak/internal/codec"
)

// Reader reads entries from a pak stream.
//
// A Reader owns the read position of its stream. It is not safe for
// concurrent use; open the archive once per goroutine instead.
type Reader struct {
	src    io.ReadSeeker
	size   int64
	header Header
	cfg    readConfig
	pool   *codec.Pool
}

// NewReader validates the header of the raw pak stream rs and returns a
// Reader over it. The archive must start at offset 0 of rs.
func NewReader(rs io.ReadSeeker, opts ...ReadOption) (*Reader, error) {
	cfg := readConfig{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	src := cipher.NewReadSeeker(rs)
	size, err := streamSize(src)
	if err != nil {
		return nil, err
	}
	h, err := readHeader(src, size)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		src:    src,
		size:   size,
		header: h,
		cfg:    cfg,
		pool:   codec.NewDecoderPool(),
	}
	r.log().Debug("opened archive",
		"size", size,
		"last_entry", h.LastEntryOffset(),
		"split", h.SplitFlag().String())
	return r, nil
}

// ScanEntries validates the raw pak stream rs and returns its entries in
// physical order.
func ScanEntries(rs io.ReadSeeker) ([]Entry, error) {
	r, err := NewReader(rs)
	if err != nil {
		return nil, err
	}
	return r.Entries()
}

// ExtractPayload returns the stored (still compressed) payload of e from the
// raw pak stream rs.
func ExtractPayload(rs io.ReadSeeker, e Entry) ([]byte, error) {
	src := cipher.NewReadSeeker(rs)
	size, err := streamSize(src)
	if err != nil {
		return nil, err
	}
	r := &Reader{src: src, size: size}
	return r.ReadRaw(e)
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// Size returns the length of the archive in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.cfg.logger
}

// Entries scans the record chain from the end of the header to the end of
// the stream and returns the entries in the order they are stored, which is
// the order they were written.
//
// The first malformed record aborts the scan; no partial list is returned.
func (r *Reader) Entries() ([]Entry, error) {
	if _, err := r.src.Seek(HeaderSize, io.SeekStart); err != nil {
		return nil, ioError("seek first record", HeaderSize, err)
	}

	var entries []Entry
	var prev int64
	off := int64(HeaderSize)
	for off < r.size {
		e, next, err := r.readRecord(off)
		if err != nil {
			return nil, err
		}
		if r.cfg.strict {
			if err := checkOffsets(e, prev, off == HeaderSize); err != nil {
				return nil, err
			}
		}
		r.log().Debug("scanned entry",
			"name", e.Name,
			"offset", e.Offset,
			"size_compressed", e.SizeCompressed,
			"size_uncompressed", e.SizeUncompressed)

		entries = append(entries, e)
		reportProgress(r.cfg.progress, ProgressEvent{
			Stage:     StageScanning,
			Path:      e.Name,
			BytesDone: uint64(next), //nolint:gosec // next is bounded by r.size
			FilesDone: len(entries),
		})
		prev = off
		off = next
	}
	return entries, nil
}

// readRecord reads the record starting at off, which must be the current
// stream position. It returns the entry and the position of the next record.
func (r *Reader) readRecord(off int64) (Entry, int64, error) {
	le := binary.LittleEndian
	fail := func(name string, err error) (Entry, int64, error) {
		return Entry{}, 0, &EntryError{Offset: off, Name: name, Err: err}
	}

	var fixed [recordFixedSize]byte
	if err := readFull(r.src, fixed[:], "record fields", off); err != nil {
		return fail("", err)
	}
	e := Entry{
		Offset:           off,
		Reserved1:        int32(le.Uint32(fixed[0:])), //nolint:gosec // reinterpreting the stored bits
		Reserved2:        int32(le.Uint32(fixed[4:])), //nolint:gosec // reinterpreting the stored bits
		DataOffset:       le.Uint32(fixed[8:]),
		SizeCompressed:   le.Uint32(fixed[12:]),
		SizeUncompressed: le.Uint32(fixed[16:]),
	}
	pos := off + recordFixedSize

	nameBytes := int64(le.Uint32(fixed[20:])) * 2
	if nameBytes > r.size-pos {
		return fail("", fmt.Errorf("%w: name of %d bytes at 0x%x", ErrTruncated, nameBytes, pos))
	}
	raw := make([]byte, nameBytes)
	if err := readFull(r.src, raw, "name", pos); err != nil {
		return fail("", err)
	}
	name, err := decodeName(raw)
	if err != nil {
		return fail("", fmt.Errorf("%w: %w", ErrInvalidName, err))
	}
	e.Name = name
	pos += nameBytes

	var word [4]byte
	if err := readFull(r.src, word[:], "trailer length", pos); err != nil {
		return fail(name, err)
	}
	if n := le.Uint32(word[:]); n != TrailerLength {
		return fail(name, fmt.Errorf("%w: %d", ErrRecordTrailer, n))
	}
	pos += 4

	var trailer [TrailerLength]byte
	if err := readFull(r.src, trailer[:], "trailer", pos); err != nil {
		return fail(name, err)
	}
	e.PrevEntryOffset = le.Uint32(trailer[trailerReservedSize:])
	pos += TrailerLength

	if int64(e.SizeCompressed) > r.size-pos {
		return fail(name, fmt.Errorf("%w: payload of %d bytes at 0x%x", ErrTruncated, e.SizeCompressed, pos))
	}
	next, err := r.src.Seek(int64(e.SizeCompressed), io.SeekCurrent)
	if err != nil {
		return fail(name, ioError("skip payload", pos, err))
	}
	return e, next, nil
}

// checkOffsets verifies the layout invariants of e. prev is the start of the
// record physically before e.
func checkOffsets(e Entry, prev int64, first bool) error {
	nameBytes, err := encodeName(e.Name)
	if err != nil {
		return &EntryError{Offset: e.Offset, Name: e.Name, Err: err}
	}
	if want := dataOffsetFor(e.Offset, len(nameBytes)); int64(e.DataOffset) != want {
		return &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: data offset 0x%x, want 0x%x", ErrOffsetMismatch, e.DataOffset, want),
		}
	}
	if first {
		prev = 0
	}
	if int64(e.PrevEntryOffset) != prev {
		return &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: chain offset 0x%x, want 0x%x", ErrOffsetMismatch, e.PrevEntryOffset, prev),
		}
	}
	return nil
}

// Chain walks the record chain backwards, starting at the last entry named
// by the header and following each PrevEntryOffset until it reaches 0.
// Entries are returned last-written first.
//
// Listing and extraction use the forward scan of Entries. Chain exists to
// compare both traversals; for archives written by this package the two
// agree.
func (r *Reader) Chain() ([]Entry, error) {
	var chain []Entry
	seen := make(map[int64]struct{})
	off := int64(r.header.LastEntryOffset())
	for off != 0 {
		if off < HeaderSize || off >= r.size {
			return nil, &EntryError{
				Offset: off,
				Err:    fmt.Errorf("%w: chain points outside the record area", ErrOffsetMismatch),
			}
		}
		if _, ok := seen[off]; ok {
			return nil, &EntryError{
				Offset: off,
				Err:    fmt.Errorf("%w: chain loops", ErrOffsetMismatch),
			}
		}
		seen[off] = struct{}{}

		if _, err := r.src.Seek(off, io.SeekStart); err != nil {
			return nil, ioError("seek record", off, err)
		}
		e, _, err := r.readRecord(off)
		if err != nil {
			return nil, err
		}
		chain = append(chain, e)
		off = int64(e.PrevEntryOffset)
	}
	return chain, nil
}

// ReadRaw returns the stored payload of e without decompressing it.
func (r *Reader) ReadRaw(e Entry) ([]byte, error) {
	off, n := int64(e.DataOffset), int64(e.SizeCompressed)
	if off > r.size || n > r.size-off {
		return nil, &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: payload 0x%x+%d beyond end of archive", ErrTruncated, off, n),
		}
	}
	if r.cfg.maxFileSize != 0 && uint64(n) > r.cfg.maxFileSize {
		return nil, &EntryError{Offset: e.Offset, Name: e.Name, Err: ErrSizeOverflow}
	}
	if _, err := r.src.Seek(off, io.SeekStart); err != nil {
		return nil, ioError("seek payload", off, err)
	}
	buf := make([]byte, n)
	if err := readFull(r.src, buf, "payload", off); err != nil {
		return nil, &EntryError{Offset: e.Offset, Name: e.Name, Err: err}
	}
	return buf, nil
}

// ReadFile returns the decompressed content of e. A payload that does not
// inflate to exactly SizeUncompressed bytes fails with ErrPayloadSize.
func (r *Reader) ReadFile(e Entry) ([]byte, error) {
	if err := r.checkUncompressed(e); err != nil {
		return nil, err
	}
	raw, err := r.ReadRaw(e)
	if err != nil {
		return nil, err
	}
	// One byte of slack so an over-long payload is seen as a mismatch.
	data, err := r.pool.Decompress(raw, uint64(e.SizeUncompressed)+1)
	if err != nil {
		if errors.Is(err, codec.ErrLimit) {
			return nil, &EntryError{Offset: e.Offset, Name: e.Name, Err: ErrPayloadSize}
		}
		return nil, &EntryError{Offset: e.Offset, Name: e.Name, Err: fmt.Errorf("%w: %w", ErrDecompression, err)}
	}
	if len(data) != int(e.SizeUncompressed) {
		return nil, &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: got %d bytes, want %d", ErrPayloadSize, len(data), e.SizeUncompressed),
		}
	}
	return data, nil
}

// Open returns a streaming reader over the decompressed content of e.
// The Reader must not be used for anything else until the returned reader
// is closed. Reading to EOF verifies the uncompressed size.
func (r *Reader) Open(e Entry) (io.ReadCloser, error) {
	if err := r.checkUncompressed(e); err != nil {
		return nil, err
	}
	off, n := int64(e.DataOffset), int64(e.SizeCompressed)
	if off > r.size || n > r.size-off {
		return nil, &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: payload 0x%x+%d beyond end of archive", ErrTruncated, off, n),
		}
	}
	if _, err := r.src.Seek(off, io.SeekStart); err != nil {
		return nil, ioError("seek payload", off, err)
	}
	zr, err := r.pool.NewReader(io.LimitReader(r.src, n))
	if err != nil {
		return nil, &EntryError{Offset: e.Offset, Name: e.Name, Err: fmt.Errorf("%w: %w", ErrDecompression, err)}
	}
	return &entryReader{zr: zr, entry: e, want: int64(e.SizeUncompressed)}, nil
}

func (r *Reader) checkUncompressed(e Entry) error {
	if r.cfg.maxFileSize != 0 && uint64(e.SizeUncompressed) > r.cfg.maxFileSize {
		return &EntryError{
			Offset: e.Offset,
			Name:   e.Name,
			Err:    fmt.Errorf("%w: %d bytes exceeds limit %d", ErrSizeOverflow, e.SizeUncompressed, r.cfg.maxFileSize),
		}
	}
	return nil
}

// entryReader counts decompressed bytes and checks the total at EOF.
type entryReader struct {
	zr    io.ReadCloser
	entry Entry
	want  int64
	n     int64
}

func (er *entryReader) Read(p []byte) (int, error) {
	n, err := er.zr.Read(p)
	er.n += int64(n)
	if er.n > er.want {
		return n, er.mismatch()
	}
	switch {
	case errors.Is(err, io.EOF):
		if er.n != er.want {
			return n, er.mismatch()
		}
	case err != nil:
		return n, &EntryError{
			Offset: er.entry.Offset,
			Name:   er.entry.Name,
			Err:    fmt.Errorf("%w: %w", ErrDecompression, err),
		}
	}
	return n, err
}

func (er *entryReader) Close() error {
	return er.zr.Close()
}

func (er *entryReader) mismatch() error {
	return &EntryError{
		Offset: er.entry.Offset,
		Name:   er.entry.Name,
		Err:    fmt.Errorf("%w: got at least %d bytes, want %d", ErrPayloadSize, er.n, er.want),
	}
}
