package pak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/exectails/huskypak/internal/pathutil"
)

// extractConfig holds configuration for Extract.
type extractConfig struct {
	overwrite bool
	progress  ProgressFunc
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithOverwrite controls whether existing files are replaced.
// By default they are, as the game's tooling does; with false they are
// left untouched and skipped.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// ExtractWithProgress sets a callback that receives an event per extracted file.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(c *extractConfig) {
		c.progress = fn
	}
}

// EntryPath converts a stored entry name to a slash-separated path that is
// valid for fs.FS. Both '\' and '/' are treated as separators and empty
// elements are dropped. Names that are rooted, carry a drive or volume
// prefix, or climb out of the root fail with ErrUnsafePath.
func EntryPath(name string) (string, error) {
	unsafe := fmt.Errorf("%w: %q", ErrUnsafePath, name)
	if pathutil.Rooted(name) {
		return "", unsafe
	}

	elems := pathutil.Elements(name)
	if len(elems) == 0 || strings.Contains(elems[0], ":") {
		return "", unsafe
	}

	p := strings.Join(elems, "/")
	if p == "." || !fs.ValidPath(p) {
		return "", unsafe
	}
	return p, nil
}

// Extract writes every entry of r below dir, creating dir and any parent
// directories as needed, and returns the number of files written.
//
// Entries are processed in physical order, so with overwriting enabled a
// later entry replaces an earlier one of the same name.
func Extract(ctx context.Context, r *Reader, dir string, opts ...ExtractOption) (int, error) {
	cfg := extractConfig{overwrite: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	entries, err := r.Entries()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return 0, err
	}
	defer root.Close()

	var written int
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		ok, err := extractEntry(r, root, e, cfg.overwrite)
		if err != nil {
			return written, err
		}
		if !ok {
			r.log().Debug("skipped existing file", "name", e.Name)
			continue
		}
		written++
		r.log().Debug("extracted entry", "name", e.Name, "size", e.SizeUncompressed)
		reportProgress(cfg.progress, ProgressEvent{
			Stage:      StageExtracting,
			Path:       e.Name,
			FilesDone:  written,
			FilesTotal: len(entries),
		})
	}
	return written, nil
}

// extractEntry writes one entry below root. It reports false when the file
// already exists and overwrite is off.
func extractEntry(r *Reader, root *os.Root, e Entry, overwrite bool) (bool, error) {
	p, err := EntryPath(e.Name)
	if err != nil {
		return false, &EntryError{Offset: e.Offset, Name: e.Name, Err: err}
	}
	if parent := path.Dir(p); parent != "." {
		if err := root.MkdirAll(filepath.FromSlash(parent), 0o755); err != nil {
			return false, err
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := root.OpenFile(filepath.FromSlash(p), flags, 0o644)
	if err != nil {
		if !overwrite && errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}

	if err := copyEntry(r, e, out); err != nil {
		_ = out.Close()
		return false, err
	}
	if err := out.Close(); err != nil {
		return false, err
	}
	return true, nil
}

func copyEntry(r *Reader, e Entry, w io.Writer) error {
	rc, err := r.Open(e)
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("extract %s: %w", e.Name, err)
	}
	return nil
}
