package pak

import (
	"errors"
	"os"
)

// Archive is a Reader over a file it owns.
type Archive struct {
	*Reader

	f    *os.File
	path string
}

// Open opens the pak file at path and validates its header. The file is
// closed again if validation fails.
func Open(path string, opts ...ReadOption) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return &Archive{Reader: r, f: f, path: path}, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Close closes the underlying file.
func (a *Archive) Close() error {
	return a.f.Close()
}
