package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/exectails/huskypak/internal/cipher"
	"github.com/exectails/huskypak/internal/obfuscate"
)

// Header is the fixed block at the start of every pak stream.
//
// The two masked words are kept as stored; use LastEntryOffset and SplitFlag
// to decode them.
type Header struct {
	// Version is the format version, always Version for accepted streams.
	Version uint32

	// LastEntryMasked is the offset of the last record written, XORed with
	// the hash of "firstheader".
	LastEntryMasked uint32

	// SplitFlagMasked is the split flag XORed with the hash of "split".
	SplitFlagMasked uint32
}

// newHeader builds the header for an archive whose last record starts at
// lastEntry.
func newHeader(lastEntry uint32, lastSplit bool) Header {
	flag := SplitMore
	if lastSplit {
		flag = SplitLast
	}
	return Header{
		Version:         Version,
		LastEntryMasked: obfuscate.Mask(lastEntry, obfuscate.KeyFirstHeader),
		SplitFlagMasked: obfuscate.Mask(uint32(flag), obfuscate.KeySplit),
	}
}

// LastEntryOffset returns the decoded offset of the last record written, or 0
// for an archive without entries.
func (h Header) LastEntryOffset() uint32 {
	return obfuscate.Unmask(h.LastEntryMasked, obfuscate.KeyFirstHeader)
}

// SplitFlag returns the decoded split flag.
func (h Header) SplitFlag() SplitFlag {
	return SplitFlag(obfuscate.Unmask(h.SplitFlagMasked, obfuscate.KeySplit))
}

// IsLastSplit reports whether this archive is the terminal part of its set.
func (h Header) IsLastSplit() bool {
	return h.SplitFlag() == SplitLast
}

// appendMasked appends the two masked words as they appear at offset 0x08.
func (h Header) appendMasked(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, h.LastEntryMasked)
	return binary.LittleEndian.AppendUint32(b, h.SplitFlagMasked)
}

// MarshalBinary returns the plain (not enciphered) header bytes. The
// reserved block is zero-filled.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, HeaderSize)
	b = append(b, Signature...)
	b = binary.LittleEndian.AppendUint32(b, h.Version)
	b = h.appendMasked(b)
	b = append(b, make([]byte, headerReservedSize)...)
	return b, nil
}

// ValidateHeader checks the header of the raw (enciphered) pak stream rs and
// returns it. On success rs is positioned at the first record.
func ValidateHeader(rs io.ReadSeeker) (Header, error) {
	src := cipher.NewReadSeeker(rs)
	size, err := streamSize(src)
	if err != nil {
		return Header{}, err
	}
	return readHeader(src, size)
}

// readHeader validates the header of an already deciphered stream of the
// given size.
func readHeader(src io.ReadSeeker, size int64) (Header, error) {
	if size < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, size)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Header{}, ioError("seek header", 0, err)
	}

	// Only the fields are read; the reserved tail is skipped below.
	var buf [headerMaskOffset + 8]byte
	if err := readFull(src, buf[:], "header", 0); err != nil {
		return Header{}, err
	}
	if sig := buf[:len(Signature)]; !bytes.Equal(sig, []byte(Signature)) {
		return Header{}, fmt.Errorf("%w: %q", ErrBadSignature, sig)
	}

	le := binary.LittleEndian
	h := Header{
		Version:         le.Uint32(buf[4:]),
		LastEntryMasked: le.Uint32(buf[headerMaskOffset:]),
		SplitFlagMasked: le.Uint32(buf[headerMaskOffset+4:]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedVersion, h.Version)
	}

	if _, err := src.Seek(headerReservedSize, io.SeekCurrent); err != nil {
		return Header{}, ioError("skip header reserved block", int64(len(buf)), err)
	}
	return h, nil
}

// streamSize returns the length of s and rewinds it to the start.
func streamSize(s io.Seeker) (int64, error) {
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioError("seek end", 0, err)
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, ioError("seek start", 0, err)
	}
	return size, nil
}

// readFull fills buf, classifying a short read as ErrTruncated and anything
// else as ErrIO.
func readFull(r io.Reader, buf []byte, what string, off int64) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %s at 0x%x", ErrTruncated, what, off)
		}
		return ioError("read "+what, off, err)
	}
	return nil
}

func ioError(op string, off int64, err error) error {
	return fmt.Errorf("%w: %s at 0x%x: %w", ErrIO, op, off, err)
}
