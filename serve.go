package serve

import (
	"errors"
	"net/http"
)

// Sentinel errors.
var (
	// ErrTraversal is returned when a request path would escape the root.
	ErrTraversal = errors.New("serve: path escapes root")

	// ErrNotDir is returned by New when the root exists but is not a directory.
	ErrNotDir = errors.New("serve: root is not a directory")
)

// Kind identifies the terminal outcome of resolving a request path.
//
// Outcomes are terminal: resolution enters exactly one of them and there are
// no intermediate or retry states.
type Kind uint8

const (
	// KindFile is an existing regular file, read in full.
	KindFile Kind = iota

	// KindIndex is a directory served through its index file.
	KindIndex

	// KindListing is a generated directory listing page.
	KindListing

	// KindTraversal is a request that attempted to escape the root.
	KindTraversal

	// KindNotFound is a request for which no filesystem entry exists.
	KindNotFound

	// KindFault is a permission, I/O, or other unexpected filesystem failure.
	KindFault
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindIndex:
		return "index"
	case KindListing:
		return "listing"
	case KindTraversal:
		return "traversal"
	case KindNotFound:
		return "not found"
	case KindFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Outcome is a terminal, ready-to-send response produced by Resolve.
//
// Body is complete at construction; nothing is streamed lazily and nothing
// in an Outcome references resolver state, so it may outlive the call that
// produced it (though the surrounding dispatcher normally writes and drops
// it within one request cycle).
type Outcome struct {
	// Kind is the terminal state the resolution reached.
	Kind Kind

	// ContentType is the value for the Content-Type header.
	ContentType string

	// Body is the complete response payload.
	Body []byte

	// Err carries the underlying cause for KindFault outcomes, for operator
	// logs only. Body never includes it; clients get a generic message.
	Err error
}

// Status returns the HTTP status code for the outcome.
func (o Outcome) Status() int {
	switch o.Kind {
	case KindFile, KindIndex, KindListing:
		return http.StatusOK
	case KindTraversal:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Plain-text bodies for non-2xx outcomes. Faults deliberately carry no
// detail; the cause travels in Outcome.Err instead.
const (
	bodyForbidden = "403 forbidden\n"
	bodyNotFound  = "404 not found\n"
	bodyFault     = "500 internal server error\n"
)

const plainText = "text/plain; charset=utf-8"

func traversalOutcome() Outcome {
	return Outcome{Kind: KindTraversal, ContentType: plainText, Body: []byte(bodyForbidden)}
}

func notFoundOutcome() Outcome {
	return Outcome{Kind: KindNotFound, ContentType: plainText, Body: []byte(bodyNotFound)}
}

func faultOutcome(err error) Outcome {
	return Outcome{Kind: KindFault, ContentType: plainText, Body: []byte(bodyFault), Err: err}
}
