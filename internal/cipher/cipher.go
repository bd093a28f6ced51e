// Package cipher implements the single-byte XOR transform applied to every
// byte of a pak stream.
//
// The transform is position independent and its own inverse, so the same
// decorators serve reading and writing and Seek passes straight through.
package cipher

import "io"

// Key is XORed with every byte entering or leaving the archive channel.
const Key byte = 0x59

// scratchSize bounds the temporary buffer used by Writer.
const scratchSize = 32 * 1024

// Transform returns a new buffer holding src with every byte XORed with Key.
// src is not modified.
func Transform(src []byte) []byte {
	dst := make([]byte, len(src))
	XORInto(dst, src)
	return dst
}

// XORInto writes the transform of src into dst and returns the number of
// bytes written, which is min(len(dst), len(src)). dst and src may be the
// same slice.
func XORInto(dst, src []byte) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = src[i] ^ Key
	}
	return n
}

// Reader decodes bytes read from an underlying reader.
type Reader struct {
	R io.Reader
}

// NewReader returns a Reader decoding r.
func NewReader(r io.Reader) *Reader {
	return &Reader{R: r}
}

// Read implements io.Reader. Only the n bytes actually read are decoded.
func (cr *Reader) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	if n > 0 {
		XORInto(p[:n], p[:n])
	}
	return n, err
}

// Writer encodes bytes before handing them to an underlying writer.
// The caller's buffer is never modified.
type Writer struct {
	W   io.Writer
	buf []byte
}

// NewWriter returns a Writer encoding into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w}
}

// Write implements io.Writer.
func (cw *Writer) Write(p []byte) (int, error) {
	if cw.buf == nil {
		cw.buf = make([]byte, scratchSize)
	}
	var written int
	for len(p) > 0 {
		n := XORInto(cw.buf, p)
		m, err := cw.W.Write(cw.buf[:n])
		written += m
		if err != nil {
			return written, err
		}
		if m < n {
			return written, io.ErrShortWrite
		}
		p = p[n:]
	}
	return written, nil
}

// ReadSeeker decodes an io.ReadSeeker.
type ReadSeeker struct {
	Reader
	s io.Seeker
}

// NewReadSeeker wraps rs so that reads are decoded. Seek is forwarded as is.
func NewReadSeeker(rs io.ReadSeeker) *ReadSeeker {
	return &ReadSeeker{Reader: Reader{R: rs}, s: rs}
}

// Seek implements io.Seeker.
func (c *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return c.s.Seek(offset, whence)
}

// WriteSeeker encodes an io.WriteSeeker.
type WriteSeeker struct {
	Writer
	s io.Seeker
}

// NewWriteSeeker wraps ws so that writes are encoded. Seek is forwarded as is.
func NewWriteSeeker(ws io.WriteSeeker) *WriteSeeker {
	return &WriteSeeker{Writer: Writer{W: ws}, s: ws}
}

// Seek implements io.Seeker.
func (c *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	return c.s.Seek(offset, whence)
}
