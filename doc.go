// Package serve resolves untrusted request paths against a root directory
// and produces ready-to-send responses: file bytes with a negotiated content
// type, a generated directory listing, or a terminal error outcome.
//
// The resolver is a pure function of (root, path). It holds no mutable
// state, caches nothing across calls, and never logs; the surrounding
// dispatcher owns concurrency, cancellation, and logging. The httpd
// subpackage provides a net/http dispatcher, and cmd/serve wraps it in a
// zero-config CLI.
//
// # Quick Start
//
// Resolve request paths directly:
//
//	r, err := serve.New("/srv/www")
//	if err != nil {
//	    return err
//	}
//	outcome := r.Resolve("/docs/guide.html")
//	fmt.Println(outcome.Status(), outcome.ContentType)
//
// Serve a directory over HTTP:
//
//	handler := httpd.NewHandler(r, httpd.WithLogger(logger))
//	http.ListenAndServe(":3000", handler)
//
// # Safety
//
// Request paths are rejected before any filesystem call if any path segment
// is "..", and the joined result is additionally verified to stay under the
// root. A rejected path always maps to 403, whether or not the escaped
// target exists.
package serve
