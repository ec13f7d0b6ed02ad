package adorable

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/adorable/internal/atomizer"
)

// ErrNotAFile is returned by ReadAtoms for directories, symlinks and other
// paths that are not regular files.
var ErrNotAFile = errors.New("not a regular file")

// ReadAtoms returns the atoms found in the file at path, in order of
// appearance. Symlinks are not followed.
func ReadAtoms(path string) ([]string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	atoms := atomizer.ParseAtoms(string(content))
	if atoms == nil {
		atoms = []string{}
	}
	return atoms, nil
}

// ReadEntries reads all paths concurrently and returns one entry per regular
// file, in input order. Paths that are not regular files are skipped. The
// first read error cancels the remaining reads and is returned.
func ReadEntries(ctx context.Context, paths []string) ([]Entry, error) {
	results := make([]*Entry, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			atoms, err := ReadAtoms(path)
			if errors.Is(err, ErrNotAFile) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = &Entry{Path: path, Atoms: atoms}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}
