package serve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver builds a resolver over a fresh temp root populated with
// the given files. Keys use slash form; intermediate directories are
// created as needed.
func newTestResolver(t *testing.T, files map[string][]byte) *Resolver {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}

	r, err := New(root)
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := New(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stat root")
	})

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "f.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := New(path)
		require.ErrorIs(t, err, ErrNotDir)
	})

	t.Run("root is made absolute", func(t *testing.T) {
		t.Parallel()
		r, err := New(t.TempDir())
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(r.Root()))
	})
}

func TestResolveFile(t *testing.T) {
	t.Parallel()

	content := []byte("hello over http\n")
	r := newTestResolver(t, map[string][]byte{
		"hello.txt":      content,
		"docs/guide.pdf": []byte("%PDF-1.7"),
		"photo.JPG":      []byte{0xff, 0xd8},
		"data.xyz":       []byte{0x00},
	})

	tests := []struct {
		name     string
		path     string
		wantType string
		wantBody []byte
	}{
		{"text file", "/hello.txt", "text/plain", content},
		{"nested file", "/docs/guide.pdf", "application/pdf", []byte("%PDF-1.7")},
		{"uppercase extension", "/photo.JPG", "image/jpeg", []byte{0xff, 0xd8}},
		{"unknown extension", "/data.xyz", DefaultContentType, []byte{0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome := r.Resolve(tt.path)
			require.Equal(t, KindFile, outcome.Kind)
			assert.Equal(t, 200, outcome.Status())
			assert.Equal(t, tt.wantType, outcome.ContentType)
			assert.Equal(t, tt.wantBody, outcome.Body)
			assert.NoError(t, outcome.Err)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, map[string][]byte{"hello.txt": []byte("hi")})

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "/missing.txt"},
		{"missing directory", "/no/such/dir/"},
		// A leading component that is a regular file means the entry does
		// not exist; it must not surface as a fault.
		{"file as directory", "/hello.txt/child"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome := r.Resolve(tt.path)
			require.Equal(t, KindNotFound, outcome.Kind)
			assert.Equal(t, 404, outcome.Status())
			assert.Equal(t, plainText, outcome.ContentType)
		})
	}
}

func TestResolveTraversal(t *testing.T) {
	t.Parallel()

	// Lay the root one level down so an escaping path has a real,
	// existing target to reach for.
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.txt"), []byte("top secret"), 0o644))
	root := filepath.Join(base, "public")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.txt"), []byte("ok"), 0o644))

	r, err := New(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
	}{
		{"existing escaped target", "/../secret.txt"},
		{"missing escaped target", "/../nope.txt"},
		{"inner segment", "/a/../../secret.txt"},
		{"bare dotdot", ".."},
		{"dotdot at end", "/docs/.."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome := r.Resolve(tt.path)
			require.Equal(t, KindTraversal, outcome.Kind)
			assert.Equal(t, 403, outcome.Status())
			assert.NotContains(t, string(outcome.Body), "secret")
		})
	}

	// The sibling file stays reachable through honest paths only.
	assert.Equal(t, KindFile, r.Resolve("/ok.txt").Kind)
}

func TestResolveIndexFile(t *testing.T) {
	t.Parallel()

	index := []byte("<html><body>welcome</body></html>")
	r := newTestResolver(t, map[string][]byte{
		"site/index.html": index,
		"site/other.html": []byte("<p>other</p>"),
	})

	for _, path := range []string{"/site", "/site/"} {
		outcome := r.Resolve(path)
		require.Equal(t, KindIndex, outcome.Kind, "path %q", path)
		assert.Equal(t, 200, outcome.Status())
		assert.Equal(t, "text/html", outcome.ContentType)
		assert.Equal(t, index, outcome.Body)
	}
}

func TestResolveRootIndexFile(t *testing.T) {
	t.Parallel()

	index := []byte("<h1>root index</h1>")
	r := newTestResolver(t, map[string][]byte{"index.html": index})

	outcome := r.Resolve("/")
	require.Equal(t, KindIndex, outcome.Kind)
	assert.Equal(t, index, outcome.Body)
}

func TestResolveListing(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, map[string][]byte{
		"Apple/.keep":  nil,
		"banana.txt":   []byte("yellow"),
		"zebra/.keep":  nil,
		"aardvark.txt": []byte("a"),
	})

	outcome := r.Resolve("/")
	require.Equal(t, KindListing, outcome.Kind)
	assert.Equal(t, 200, outcome.Status())
	assert.Equal(t, "text/html; charset=utf-8", outcome.ContentType)

	body := string(outcome.Body)

	// Directories before files, each group ascending by name.
	apple := strings.Index(body, "Apple/")
	zebra := strings.Index(body, "zebra/")
	aardvark := strings.Index(body, "aardvark.txt")
	banana := strings.Index(body, "banana.txt")
	require.NotEqual(t, -1, apple)
	require.NotEqual(t, -1, zebra)
	require.NotEqual(t, -1, aardvark)
	require.NotEqual(t, -1, banana)
	assert.Less(t, apple, zebra)
	assert.Less(t, zebra, aardvark)
	assert.Less(t, aardvark, banana)

	// Root listing carries no synthetic parent and discloses the served
	// filesystem path.
	assert.NotContains(t, body, `href="../"`)
	assert.Contains(t, body, r.Root())

	// Directory links end with a slash.
	assert.Contains(t, body, `href="/Apple/"`)
	assert.Contains(t, body, `href="/banana.txt"`)
}

func TestResolveListingParentEntry(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, map[string][]byte{
		"docs/a.txt":        []byte("a"),
		"docs/inner/b.txt":  []byte("b"),
		"docs/inner/c.html": []byte("<p>c</p>"),
	})

	t.Run("first level", func(t *testing.T) {
		t.Parallel()
		body := string(r.Resolve("/docs").Body)
		assert.Equal(t, 1, strings.Count(body, ">../<"))
		assert.Contains(t, body, `href="/"`)
	})

	t.Run("second level", func(t *testing.T) {
		t.Parallel()
		outcome := r.Resolve("/docs/inner/")
		require.Equal(t, KindListing, outcome.Kind)
		body := string(outcome.Body)
		assert.Equal(t, 1, strings.Count(body, ">../<"))
		assert.Contains(t, body, `href="/docs/"`)
		assert.Contains(t, body, `href="/docs/inner/b.txt"`)
	})
}

func TestResolvePermissionFault(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	path := filepath.Join(root, "locked.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	r, err := New(root)
	require.NoError(t, err)

	outcome := r.Resolve("/locked.txt")
	require.Equal(t, KindFault, outcome.Kind)
	assert.Equal(t, 500, outcome.Status())
	require.Error(t, outcome.Err)

	// The client body stays generic; the detail travels in Err only.
	assert.Equal(t, bodyFault, string(outcome.Body))
	assert.NotContains(t, string(outcome.Body), root)
}

func TestResolveUnreadableIndexIsFault(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	r := newTestResolver(t, map[string][]byte{
		"site/index.html": []byte("<p>hi</p>"),
		"site/a.txt":      []byte("a"),
	})
	indexPath := filepath.Join(r.Root(), "site", "index.html")
	require.NoError(t, os.Chmod(indexPath, 0o000))
	t.Cleanup(func() { _ = os.Chmod(indexPath, 0o644) })

	// A present but unreadable index must not degrade into a listing.
	outcome := r.Resolve("/site")
	require.Equal(t, KindFault, outcome.Kind)
	require.Error(t, outcome.Err)
}

func TestResolveOptions(t *testing.T) {
	t.Parallel()

	t.Run("custom index file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "home.html"), []byte("<p>home</p>"), 0o644))

		r, err := New(root, WithIndexFile("home.html"))
		require.NoError(t, err)

		outcome := r.Resolve("/")
		require.Equal(t, KindIndex, outcome.Kind)
		assert.Equal(t, []byte("<p>home</p>"), outcome.Body)
	})

	t.Run("custom content type", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "feed.atom"), []byte("<feed/>"), 0o644))

		r, err := New(root, WithContentType(".atom", "application/atom+xml"))
		require.NoError(t, err)

		outcome := r.Resolve("/feed.atom")
		require.Equal(t, KindFile, outcome.Kind)
		assert.Equal(t, "application/atom+xml", outcome.ContentType)
	})

	t.Run("per-resolver table is isolated", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "feed.atom"), []byte("<feed/>"), 0o644))

		r, err := New(root, WithContentType("atom", "application/atom+xml"))
		require.NoError(t, err)
		plain, err := New(root)
		require.NoError(t, err)

		assert.Equal(t, "application/atom+xml", r.Resolve("/feed.atom").ContentType)
		assert.Equal(t, DefaultContentType, plain.Resolve("/feed.atom").ContentType)
	})
}
