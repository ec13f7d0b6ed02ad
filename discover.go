package adorable

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher decides which paths below a root take part in a build.
type Matcher struct {
	root    string
	exts    map[string]bool
	exclude map[string]bool
	ignore  *ignore.GitIgnore
}

// NewMatcher compiles the path filter described by cfg. With Gitignore set,
// a missing {Root}/.gitignore is not an error.
func NewMatcher(cfg Config) (*Matcher, error) {
	cfg = cfg.withDefaults()

	m := &Matcher{
		root:    filepath.Clean(cfg.Root),
		exts:    make(map[string]bool, len(cfg.Extensions)),
		exclude: make(map[string]bool, len(cfg.Exclude)),
	}
	for _, ext := range cfg.Extensions {
		m.exts[strings.TrimPrefix(ext, ".")] = true
	}
	for _, name := range cfg.Exclude {
		m.exclude[name] = true
	}

	if cfg.Gitignore {
		gi, err := ignore.CompileIgnoreFile(filepath.Join(m.root, ".gitignore"))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .gitignore: %w", err)
		}
		m.ignore = gi
	}
	return m, nil
}

// Root returns the cleaned root directory.
func (m *Matcher) Root() string {
	return m.root
}

// Match reports whether the file at path should be scanned.
func (m *Matcher) Match(path string) bool {
	if !m.exts[strings.TrimPrefix(filepath.Ext(path), ".")] {
		return false
	}
	rel := m.rel(path)
	dirs := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
	for _, seg := range dirs {
		if m.exclude[seg] {
			return false
		}
	}
	return !m.ignored(rel)
}

// SkipDir reports whether the directory at path and everything below it
// should be left out.
func (m *Matcher) SkipDir(path string) bool {
	if m.exclude[filepath.Base(path)] {
		return true
	}
	rel := m.rel(path)
	return rel != "." && m.ignored(rel+"/")
}

func (m *Matcher) rel(path string) string {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		return path
	}
	return rel
}

func (m *Matcher) ignored(rel string) bool {
	return m.ignore != nil && m.ignore.MatchesPath(filepath.ToSlash(rel))
}

// Discover returns every regular file below cfg.Root whose extension is in
// cfg.Extensions and that no exclusion rule drops. The result is sorted.
// A root without matches yields an empty list.
func Discover(cfg Config) ([]string, error) {
	m, err := NewMatcher(cfg)
	if err != nil {
		return nil, err
	}
	return m.Discover()
}

// Discover walks the tree below the root. Excluded and ignored directories
// are pruned before they are read; symlinks are not followed.
func (m *Matcher) Discover() ([]string, error) {
	if _, err := os.Stat(m.root); err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	// The root is a filesystem, not part of the pattern, so glob
	// metacharacters in its name are taken literally.
	files := []string{}
	err := doublestar.GlobWalk(os.DirFS(m.root), "**", func(p string, d fs.DirEntry) error {
		path := filepath.Join(m.root, filepath.FromSlash(p))
		if d.IsDir() {
			if p != "." && m.SkipDir(path) {
				return doublestar.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && m.Match(path) {
			files = append(files, path)
		}
		return nil
	}, doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", m.root, err)
	}

	sort.Strings(files)
	return files, nil
}
