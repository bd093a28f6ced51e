package pak

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Entry describes one record of an archive.
//
// Entries are plain values materialized fresh on every scan; they carry no
// reference to the archive they came from.
type Entry struct {
	// Offset is the absolute position where the record starts. It is derived
	// from the scan and not stored in the record itself.
	Offset int64

	// Reserved1 is always 0 in archives seen so far.
	Reserved1 int32

	// Reserved2 is always 1 in archives seen so far.
	Reserved2 int32

	// DataOffset is the absolute position of the compressed payload.
	DataOffset uint32

	// SizeCompressed is the stored payload length.
	SizeCompressed uint32

	// SizeUncompressed is the payload length after decompression.
	SizeUncompressed uint32

	// Name is the entry's relative path.
	Name string

	// PrevEntryOffset is the start of the record written before this one,
	// or 0 for the first record.
	PrevEntryOffset uint32
}

// utf16le matches the on-disk name encoding: little endian, no byte order mark.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeName returns the UTF-16LE bytes of name. The length in code units is
// len(result)/2.
func encodeName(name string) ([]byte, error) {
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidName, name)
	}
	b, err := utf16le.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidName, name, err)
	}
	return b, nil
}

// decodeName converts UTF-16LE bytes to a string. Unpaired surrogates decode
// to U+FFFD.
func decodeName(b []byte) (string, error) {
	s, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// appendRecord appends the record prefix for e (everything except the
// payload) using the already encoded name.
func appendRecord(b []byte, e Entry, name []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, uint32(e.Reserved1))
	b = le.AppendUint32(b, uint32(e.Reserved2))
	b = le.AppendUint32(b, e.DataOffset)
	b = le.AppendUint32(b, e.SizeCompressed)
	b = le.AppendUint32(b, e.SizeUncompressed)
	b = le.AppendUint32(b, uint32(len(name)/2))
	b = append(b, name...)
	b = le.AppendUint32(b, TrailerLength)
	b = append(b, make([]byte, trailerReservedSize)...)
	return le.AppendUint32(b, e.PrevEntryOffset)
}
