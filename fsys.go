package pak

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/exectails/huskypak/internal/pathutil"
)

// CollectFiles walks fsys and returns a File for every regular file, named
// by its path relative to the root with sep between elements. Directories
// are descended into but not stored; symbolic links and other special files
// are skipped. Content is opened lazily from fsys.
func CollectFiles(fsys fs.FS, sep rune) ([]File, error) {
	var files []File
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, File{
			Name: pathutil.WithSeparator(path, sep),
			Open: func() (io.ReadCloser, error) {
				return fsys.Open(path)
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Create builds an archive from the contents of dir and writes it to dst.
//
// Create walks dir recursively, including all regular files. Empty
// directories are not preserved. Symbolic links are not followed.
// Entry names use the separator set by WriteWithSeparator.
func Create(ctx context.Context, dir string, dst io.WriteSeeker, lastSplit bool, opts ...WriteOption) (Header, []Entry, error) {
	w, err := NewWriter(opts...)
	if err != nil {
		return Header{}, nil, err
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return Header{}, nil, err
	}
	defer root.Close()

	reportProgress(w.cfg.progress, ProgressEvent{Stage: StageEnumerating})
	files, err := CollectFiles(root.FS(), w.cfg.separator)
	if err != nil {
		return Header{}, nil, err
	}
	w.log().Debug("collected files", "dir", dir, "count", len(files))

	return w.Write(ctx, dst, files, lastSplit)
}
