// Package testutil provides in-memory streams and fixtures for pak tests.
package testutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/exectails/huskypak/internal/cipher"
)

// MemFile is an in-memory io.ReadWriteSeeker that grows on write, like a
// file opened for read and write.
type MemFile struct {
	data []byte
	pos  int64
}

// NewMemFile returns a MemFile holding a copy of data, positioned at 0.
func NewMemFile(data []byte) *MemFile {
	return &MemFile{data: append([]byte(nil), data...)}
}

// Read implements io.Reader.
func (m *MemFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

// Write implements io.Writer, extending the file as needed.
func (m *MemFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	copy(m.data[m.pos:], p)
	m.pos = end
	return len(p), nil
}

// Seek implements io.Seeker. Seeking past the end is allowed.
func (m *MemFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, errors.New("testutil: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("testutil: negative position")
	}
	m.pos = abs
	return abs, nil
}

// Bytes returns the backing slice for tests that need to inspect or mutate
// the raw (enciphered) stream.
func (m *MemFile) Bytes() []byte {
	return m.data
}

// Pos returns the current position.
func (m *MemFile) Pos() int64 {
	return m.pos
}

// Plain returns the deciphered content of raw.
func Plain(raw []byte) []byte {
	return cipher.Transform(raw)
}

// Enciphered returns plain as it would be stored in a pak stream.
func Enciphered(plain []byte) []byte {
	return cipher.Transform(plain)
}

// FailingWriteSeeker fails every write after the first Budget bytes.
type FailingWriteSeeker struct {
	MemFile
	Budget int
	Err    error
}

// Write implements io.Writer.
func (f *FailingWriteSeeker) Write(p []byte) (int, error) {
	if len(p) > f.Budget {
		n, _ := f.MemFile.Write(p[:f.Budget]) //nolint:errcheck // MemFile never fails
		f.Budget = 0
		return n, f.Err
	}
	f.Budget -= len(p)
	return f.MemFile.Write(p)
}

// CreateFiles writes files (slash-separated relative path to content) below dir.
func CreateFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			tb.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			tb.Fatal(err)
		}
	}
}
