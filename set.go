package pak

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Part is one archive of a split set.
type Part struct {
	// Path is the file the part was read from.
	Path string

	Header  Header
	Entries []Entry
}

// ScanSet reads the header and entries of every part of a split set.
//
// The game client loads data files in order until it meets one whose split
// flag marks it as the last, so every part except the final one must carry
// SplitMore and the final one SplitLast; anything else fails with
// ErrSplitSequence. Parts are scanned concurrently, each with its own file
// handle, and returned in the order given.
func ScanSet(ctx context.Context, paths []string, opts ...ReadOption) ([]Part, error) {
	parts := make([]Part, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part, err := scanPart(p, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := CheckSplitSequence(parts); err != nil {
		return nil, err
	}
	return parts, nil
}

func scanPart(path string, opts []ReadOption) (Part, error) {
	a, err := Open(path, opts...)
	if err != nil {
		return Part{}, err
	}
	defer a.Close()

	entries, err := a.Entries()
	if err != nil {
		return Part{}, err
	}
	return Part{Path: path, Header: a.Header(), Entries: entries}, nil
}

// CheckSplitSequence verifies that only the final part is terminal and that
// it is. An empty set is accepted.
func CheckSplitSequence(parts []Part) error {
	for i, p := range parts {
		want := SplitMore
		if i == len(parts)-1 {
			want = SplitLast
		}
		if got := p.Header.SplitFlag(); got != want {
			return fmt.Errorf("%w: part %d (%s) has flag %d (%s), want %d (%s)",
				ErrSplitSequence, i, p.Path, uint32(got), got, uint32(want), want)
		}
	}
	return nil
}
