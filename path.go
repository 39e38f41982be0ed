package serve

import (
	"path"
	"path/filepath"
	"strings"
)

// SanitizePath joins a decoded request path onto root, rejecting any path
// that could escape it.
//
// The primary check is deliberately textual: a ".." segment anywhere in the
// decoded path is rejected outright, before any join with root occurs.
// Canonicalization alone is not trusted (symlinks and platform quirks can
// defeat it on some systems), so containment of the cleaned, joined path is
// verified as a second layer, never the first.
//
// The returned path is absolute when root is absolute. SanitizePath is a
// pure function over strings; it never touches the filesystem.
func SanitizePath(root, requestPath string) (string, error) {
	for _, seg := range strings.Split(requestPath, "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}

	joined := filepath.Join(root, filepath.FromSlash(normalizeRequestPath(requestPath)))
	if joined != root && !strings.HasPrefix(joined, root+string(filepath.Separator)) {
		return "", ErrTraversal
	}
	return joined, nil
}

// normalizeRequestPath converts a decoded request path to rooted slash form.
//
//   - Anchors at "/": "docs" → "/docs"
//   - Collapses consecutive slashes: "a//b" → "/a/b"
//   - Drops "." segments and trailing slashes: "/a/./b/" → "/a/b"
//   - Empty input is the root: "" → "/"
//
// ".." segments are resolved by path.Clean, but callers reject them before
// normalization ever runs.
func normalizeRequestPath(p string) string {
	return path.Clean("/" + p)
}
