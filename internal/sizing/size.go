// Package sizing provides checked conversions into the 32-bit fields of a pak
// record.
package sizing

import (
	"io"
	"math"
)

// MaxField is the largest value a pak offset or size field may hold. The
// fields are signed on disk, so anything above MaxInt32 would read back
// negative in the game client.
const MaxField = math.MaxInt32

// Field converts n to a 32-bit field value, returning overflowErr if n is
// negative or larger than MaxField.
func Field(n int64, overflowErr error) (uint32, error) {
	if n < 0 || n > MaxField {
		return 0, overflowErr
	}
	return uint32(n), nil
}

// AddField adds a and b, returning overflowErr if the result does not fit in
// a field.
func AddField(a, b int64, overflowErr error) (int64, error) {
	if a < 0 || b < 0 || a > MaxField-b {
		return 0, overflowErr
	}
	return a + b, nil
}

// ReadAllWithLimit reads up to maxSize bytes from r.
// Returns overflowErr if more than maxSize bytes are available.
// A zero maxSize disables the limit.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize == 0 {
		return io.ReadAll(r)
	}
	if maxSize > uint64(math.MaxInt64-1) {
		return nil, overflowErr
	}
	limit := int64(maxSize) + 1 //nolint:gosec // checked above
	lr := &io.LimitedReader{R: r, N: limit}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > maxSize {
		return nil, overflowErr
	}
	return data, nil
}
