package serve

import "strings"

// DefaultContentType is served for extensions absent from the table.
const DefaultContentType = "application/octet-stream"

// contentTypes maps lowercased extensions (without the dot) to content
// types. The table is fixed at process start; per-resolver additions go
// through WithContentType, which operates on a clone.
var contentTypes = map[string]string{
	"html":  "text/html",
	"css":   "text/css",
	"js":    "text/javascript",
	"json":  "application/json",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"svg":   "image/svg+xml",
	"ico":   "image/x-icon",
	"webp":  "image/webp",
	"mp4":   "video/mp4",
	"webm":  "video/webm",
	"mp3":   "audio/mpeg",
	"wav":   "audio/wav",
	"pdf":   "application/pdf",
	"txt":   "text/plain",
	"xml":   "application/xml",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"md":    "text/markdown",
}

// TypeByExtension returns the content type for a file extension.
//
// The extension may be given with or without its leading dot and is matched
// case-insensitively. Unknown extensions map to DefaultContentType.
func TypeByExtension(ext string) string {
	return lookupType(contentTypes, ext)
}

func lookupType(table map[string]string, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ct, ok := table[ext]; ok {
		return ct
	}
	return DefaultContentType
}
