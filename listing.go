package serve

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path"
	"sort"

	"golang.org/x/text/collate"
)

// respondListing enumerates the directory's immediate children and renders
// them as an HTML page. The snapshot is taken fresh on every call.
func (r *Resolver) respondListing(abs, requestPath string) Outcome {
	children, err := os.ReadDir(abs)
	if err != nil {
		return faultOutcome(fmt.Errorf("list %s: %w", abs, err))
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		info, err := child.Info()
		if err != nil {
			// Child vanished between ReadDir and Info.
			continue
		}
		kind := EntryFile
		if child.IsDir() {
			kind = EntryDir
		}
		entries = append(entries, Entry{
			Name:    child.Name(),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// Collators are cheap but not safe for concurrent use, so each listing
	// builds its own.
	sortEntries(entries, collate.New(r.collation))

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, buildListingPage(abs, requestPath, entries)); err != nil {
		return faultOutcome(fmt.Errorf("render listing for %s: %w", abs, err))
	}
	return Outcome{Kind: KindListing, ContentType: "text/html; charset=utf-8", Body: buf.Bytes()}
}

// sortEntries orders directories before files, each group ascending by
// collated name.
func sortEntries(entries []Entry, col *collate.Collator) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind == EntryDir
		}
		return col.CompareString(entries[i].Name, entries[j].Name) < 0
	})
}

// listingEntry is one rendered row.
type listingEntry struct {
	Name string
	Href string
	Size string
	Time string
}

// listingPage is the template payload for one generated listing.
type listingPage struct {
	RequestPath string
	// AbsolutePath is the filesystem directory being served. Disclosing it
	// is intentional operator convenience; this page is the only place the
	// underlying path reaches a client.
	AbsolutePath string
	Entries      []listingEntry
}

const timeLayout = "2006-01-02 15:04:05"

// buildListingPage renders entries into display rows, prepending the
// synthetic parent entry for every directory except the root.
func buildListingPage(abs, requestPath string, entries []Entry) listingPage {
	rp := normalizeRequestPath(requestPath)

	rows := make([]listingEntry, 0, len(entries)+1)
	if rp != "/" {
		rows = append(rows, listingEntry{
			Name: "../",
			Href: parentHref(rp),
			Size: "-",
			Time: "-",
		})
	}
	for _, e := range entries {
		row := listingEntry{
			Name: e.Name,
			Href: path.Join(rp, e.Name),
			Size: formatSize(e.Size),
			Time: e.ModTime.Local().Format(timeLayout),
		}
		if e.Kind == EntryDir {
			row.Name += "/"
			row.Href += "/"
			row.Size = "-"
		}
		rows = append(rows, row)
	}

	return listingPage{
		RequestPath:  rp,
		AbsolutePath: abs,
		Entries:      rows,
	}
}

func parentHref(rp string) string {
	parent := path.Dir(rp)
	if parent != "/" {
		parent += "/"
	}
	return parent
}

// formatSize renders a byte count for human reading: exact below 1 KB,
// one decimal place above.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Index of {{.RequestPath}}</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem; }
h1 { font-size: 1.2rem; }
p.served { color: #666; font-size: 0.85rem; }
table { border-collapse: collapse; }
th, td { text-align: left; padding: 0.15rem 1.5rem 0.15rem 0; }
th { border-bottom: 1px solid #ccc; }
td.size, td.time { color: #444; white-space: nowrap; }
</style>
</head>
<body>
<h1>Index of {{.RequestPath}}</h1>
<p class="served">{{.AbsolutePath}}</p>
<table>
<tr><th>Name</th><th>Size</th><th>Modified</th></tr>
{{- range .Entries}}
<tr><td><a href="{{.Href}}">{{.Name}}</a></td><td class="size">{{.Size}}</td><td class="time">{{.Time}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))
