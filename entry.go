package serve

import "time"

// EntryKind distinguishes directories from files in a listing.
type EntryKind uint8

const (
	EntryFile EntryKind = iota
	EntryDir
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDir:
		return "directory"
	default:
		return "unknown"
	}
}

// Entry is an immutable snapshot of one directory child, taken at listing
// time. Entries are never cached across requests; two concurrent listings of
// the same directory each take their own snapshots.
type Entry struct {
	// Name is the child's base name.
	Name string

	// Kind reports whether the child is a file or a directory.
	Kind EntryKind

	// Size is the child's size in bytes. Listings render a placeholder
	// instead of a size for directories.
	Size int64

	// ModTime is the child's last modification time.
	ModTime time.Time
}
