package serve

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/text/language"
)

// DefaultIndexFile is served in place of a listing when present in a
// requested directory.
const DefaultIndexFile = "index.html"

// Resolver resolves untrusted request paths against a root directory.
//
// A Resolver holds no mutable state after construction and is safe for
// concurrent use. Every resolution operates only on its arguments and the
// read-only filesystem; nothing is shared or cached between calls.
type Resolver struct {
	root      string
	indexFile string
	types     map[string]string
	collation language.Tag
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIndexFile sets the file name served in place of a directory listing.
// If name is empty, the default is kept.
func WithIndexFile(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.indexFile = name
		}
	}
}

// WithContentType registers or overrides the content type for an extension.
// The extension may be given with or without its leading dot.
func WithContentType(ext, contentType string) Option {
	return func(r *Resolver) {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.types[ext] = contentType
	}
}

// WithCollation sets the locale used to order listing entry names.
// The default is locale-neutral collation.
func WithCollation(tag language.Tag) Option {
	return func(r *Resolver) {
		r.collation = tag
	}
}

// New creates a Resolver rooted at dir.
//
// The directory must exist. Relative paths are made absolute at construction
// so containment checks and listing disclosure use one stable form.
func New(dir string, opts ...Option) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, abs)
	}

	r := &Resolver{
		root:      abs,
		indexFile: DefaultIndexFile,
		types:     maps.Clone(contentTypes),
		collation: language.Und,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Root returns the absolute root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve runs the full pipeline for one decoded request path: sanitize,
// stat, then respond with the file, the directory's index file, or a
// generated listing.
//
// The path must already be URL-decoded with any query string stripped, which
// is how net/http presents it.
func (r *Resolver) Resolve(requestPath string) Outcome {
	abs, err := SanitizePath(r.root, requestPath)
	if err != nil {
		return traversalOutcome()
	}

	info, err := os.Stat(abs)
	switch {
	case notExist(err):
		return notFoundOutcome()
	case err != nil:
		return faultOutcome(fmt.Errorf("stat %s: %w", abs, err))
	case info.IsDir():
		return r.respondDirectory(abs, requestPath)
	default:
		return r.respondFile(abs)
	}
}

// respondFile reads the file in full and pairs it with the content type for
// its extension. Any read failure after the successful stat (including the
// entry vanishing in between) is a fault, not a 404: the metadata query
// already established the entry existed.
func (r *Resolver) respondFile(abs string) Outcome {
	body, err := os.ReadFile(abs)
	if err != nil {
		return faultOutcome(fmt.Errorf("read file %s: %w", abs, err))
	}
	return Outcome{
		Kind:        KindFile,
		ContentType: lookupType(r.types, filepath.Ext(abs)),
		Body:        body,
	}
}

// respondDirectory serves the directory's index file when present, and
// falls through to a generated listing only when the index is genuinely
// absent. A present-but-unreadable index is a fault.
func (r *Resolver) respondDirectory(abs, requestPath string) Outcome {
	indexPath := filepath.Join(abs, r.indexFile)
	body, err := os.ReadFile(indexPath)
	switch {
	case err == nil:
		return Outcome{Kind: KindIndex, ContentType: "text/html", Body: body}
	case notExist(err):
		return r.respondListing(abs, requestPath)
	default:
		return faultOutcome(fmt.Errorf("read index %s: %w", indexPath, err))
	}
}

// notExist reports whether err means the entry is genuinely absent.
//
// ENOTDIR (a leading path component is a regular file, e.g. requesting
// "a.txt/child") counts as absent: the entry does not exist and the
// condition is attributable to the request, not the server.
func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
