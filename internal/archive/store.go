package archive

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultIndexAlias is the URL path segment treated as the site's
	// landing page when no alias is configured.
	DefaultIndexAlias = "starthere"

	dirPermission  = 0750
	filePermission = 0600
)

// ErrEmptyOutputDir is returned when a store is created without an
// output directory.
var ErrEmptyOutputDir = errors.New("archive: output directory is required")

// Store writes archived pages into a single flat directory.
type Store struct {
	dir        string
	indexAlias string
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIndexAlias sets the URL path segment that maps to index.md
// alongside the root path.
func WithIndexAlias(alias string) Option {
	return func(s *Store) {
		if alias != "" {
			s.indexAlias = alias
		}
	}
}

// WithClock overrides the timestamp source for archive headers.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a Store rooted at dir. The directory is created on
// the first write, not here, so that a dry construction has no side
// effects.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, ErrEmptyOutputDir
	}

	s := &Store{
		dir:        dir,
		indexAlias: DefaultIndexAlias,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the archive's output directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileName maps a URL path to its archive file name. The mapping is
// deterministic and depends only on the path and the configured index
// alias: the root path and the alias both map to index.md, and every
// other path collapses its separators into hyphens.
func (s *Store) FileName(urlPath string) string {
	if urlPath == "" || urlPath == "/" || urlPath == "/"+s.indexAlias {
		return "index.md"
	}

	name := strings.TrimPrefix(urlPath, "/")
	name = strings.ReplaceAll(name, "/", "-")
	return name + ".md"
}

// Exists reports whether the page at urlPath has already been archived.
func (s *Store) Exists(urlPath string) bool {
	_, err := os.Stat(filepath.Join(s.dir, s.FileName(urlPath)))
	return err == nil
}

// Write archives the page body under the file mapped from pageURL's
// path, prefixed with a provenance header. An existing file is
// overwritten. It returns the file name written.
func (s *Store) Write(pageURL *url.URL, body string) (string, error) {
	if err := os.MkdirAll(s.dir, dirPermission); err != nil {
		return "", fmt.Errorf("archive: failed to create output directory: %w", err)
	}

	name := s.FileName(pageURL.Path)
	header := fmt.Sprintf("Source: %s\nArchived: %s\n\n", pageURL.String(), s.now().Format(time.RFC3339))

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(header+body), filePermission); err != nil {
		return "", fmt.Errorf("archive: failed to write %s: %w", name, err)
	}
	return name, nil
}
