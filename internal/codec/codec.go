// Package codec compresses and decompresses pak payloads.
//
// Payloads are zlib-wrapped DEFLATE streams. Encoders and decoders are pooled
// because an archive holds many small files and each one gets its own stream.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/exectails/huskypak/internal/sizing"
)

// Compression levels accepted by NewPool.
const (
	BestSpeed          = zlib.BestSpeed
	BestCompression    = zlib.BestCompression
	DefaultCompression = zlib.DefaultCompression
)

// ErrLimit is returned when a decompressed payload exceeds the caller's limit.
var ErrLimit = errors.New("codec: decompressed size exceeds limit")

// Pool manages reusable zlib encoders and decoders.
type Pool struct {
	level   int
	writers sync.Pool
	readers sync.Pool
}

// NewPool creates a pool whose encoders use the given compression level.
func NewPool(level int) (*Pool, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return nil, fmt.Errorf("codec: invalid compression level %d", level)
	}
	return &Pool{level: level}, nil
}

// NewDecoderPool creates a pool used only for decompression.
func NewDecoderPool() *Pool {
	return &Pool{level: DefaultCompression}
}

// Level returns the configured compression level.
func (p *Pool) Level() int {
	return p.level
}

// Compress reads src to EOF and returns the compressed stream together with
// the number of uncompressed bytes consumed.
func (p *Pool) Compress(src io.Reader) (compressed []byte, size int64, err error) {
	var buf bytes.Buffer
	zw, release, err := p.writer(&buf)
	if err != nil {
		return nil, 0, err
	}
	defer release()

	size, err = io.Copy(zw, src)
	if err != nil {
		return nil, 0, err
	}
	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("codec: finish stream: %w", err)
	}
	return buf.Bytes(), size, nil
}

// NewReader returns a decompressing reader over r. Closing it returns the
// decoder to the pool; it does not close r.
func (p *Pool) NewReader(r io.Reader) (io.ReadCloser, error) {
	if v := p.readers.Get(); v != nil {
		zr, isReader := v.(io.ReadCloser)
		rs, isResetter := v.(zlib.Resetter)
		if isReader && isResetter {
			// A decoder that failed to reset is dropped, not returned to the pool.
			if err := rs.Reset(r, nil); err != nil {
				return nil, err
			}
			return &pooledReader{ReadCloser: zr, pool: p}, nil
		}
	}
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &pooledReader{ReadCloser: zr, pool: p}, nil
}

// Decompress inflates src. A non-zero limit caps the output size.
func (p *Pool) Decompress(src []byte, limit uint64) ([]byte, error) {
	zr, err := p.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return sizing.ReadAllWithLimit(zr, limit, ErrLimit)
}

func (p *Pool) writer(w io.Writer) (*zlib.Writer, func(), error) {
	if v := p.writers.Get(); v != nil {
		if zw, ok := v.(*zlib.Writer); ok {
			zw.Reset(w)
			return zw, func() { p.writers.Put(zw) }, nil
		}
	}
	zw, err := zlib.NewWriterLevel(w, p.level)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: create encoder: %w", err)
	}
	return zw, func() { p.writers.Put(zw) }, nil
}

type pooledReader struct {
	io.ReadCloser
	pool *Pool
	done bool
}

func (r *pooledReader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	err := r.ReadCloser.Close()
	r.pool.readers.Put(r.ReadCloser)
	return err
}
