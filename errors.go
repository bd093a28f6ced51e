package pak

import (
	"errors"
	"fmt"
)

// ErrFormat is the base of every structural error. Use errors.Is to test for
// any of the more specific format errors below.
var ErrFormat = errors.New("pak: invalid format")

// Structural errors. Each one matches ErrFormat with errors.Is.
var (
	// ErrBadSignature is returned when the stream does not start with "BPFS".
	ErrBadSignature = fmt.Errorf("%w: bad signature", ErrFormat)

	// ErrTruncatedHeader is returned when the stream is shorter than HeaderSize.
	ErrTruncatedHeader = fmt.Errorf("%w: truncated header", ErrFormat)

	// ErrUnsupportedVersion is returned for any version other than Version.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)

	// ErrRecordTrailer is returned when a record's trailer length is not 20.
	ErrRecordTrailer = fmt.Errorf("%w: unexpected record trailer length", ErrFormat)

	// ErrPayloadSize is returned when a payload does not inflate to the
	// recorded uncompressed size.
	ErrPayloadSize = fmt.Errorf("%w: payload size mismatch", ErrFormat)

	// ErrOffsetMismatch is returned by strict scans when a record's data
	// offset or chain offset disagrees with its physical position.
	ErrOffsetMismatch = fmt.Errorf("%w: offset mismatch", ErrFormat)

	// ErrSplitSequence is returned when the split flags of a part set do not
	// end in exactly one terminal part.
	ErrSplitSequence = fmt.Errorf("%w: bad split sequence", ErrFormat)
)

// Data and channel errors.
var (
	// ErrTruncated is returned when the stream ends before a field or payload
	// could be read in full.
	ErrTruncated = errors.New("pak: truncated data")

	// ErrIO wraps failures of the underlying channel.
	ErrIO = errors.New("pak: i/o error")

	// ErrDecompression is returned when a payload is not a valid zlib stream.
	ErrDecompression = errors.New("pak: decompression failed")

	// ErrSizeOverflow is returned when an offset or size does not fit its
	// 32-bit field, or a payload exceeds the configured size limit.
	ErrSizeOverflow = errors.New("pak: size overflow")

	// ErrTooManyFiles is returned when a pack exceeds the file limit.
	ErrTooManyFiles = errors.New("pak: too many files")

	// ErrInvalidName is returned when an entry name cannot be stored as UTF-16.
	ErrInvalidName = errors.New("pak: invalid entry name")

	// ErrUnsafePath is returned when an entry name would escape the
	// extraction directory.
	ErrUnsafePath = errors.New("pak: unsafe entry path")
)

// EntryError reports a failure tied to one record.
type EntryError struct {
	// Offset is the absolute position of the record start.
	Offset int64

	// Name is the entry's file name, if it was decoded before the failure.
	Name string

	Err error
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v (record at 0x%x)", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v on file '%s' (record at 0x%x)", e.Err, e.Name, e.Offset)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
