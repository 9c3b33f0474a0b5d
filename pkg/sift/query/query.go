// Package query answers the list and aggregate queries over an enriched
// inventory: summary, largest, by-type and name search.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("query")

// Default limits.
const (
	DefaultLargestLimit = 20
	DefaultByTypeLimit  = 30
	SummaryExtensions   = 10
	SearchMaxMatches    = 100
)

// NoExtension is the by-type bucket of files without an extension.
const NoExtension = "(no extension)"

// List is a size-ordered, possibly truncated list of entries.
type List struct {
	// Entries are sorted by size descending.
	Entries []types.Entry

	// TotalMatches is the number of entries before truncation.
	TotalMatches int
}

func newList(matched []types.Entry, limit int) *List {
	types.SortBySize(matched)
	return &List{
		Entries:      slices.Clip(types.Top(matched, limit)),
		TotalMatches: len(matched),
	}
}

// ExtensionStat aggregates the files sharing one extension.
type ExtensionStat struct {
	Ext   string
	Count int
	Size  int64
}

// Extensions is a size-ordered, possibly truncated list of extension groups.
type Extensions struct {
	Groups []ExtensionStat

	// TotalGroups is the number of groups before truncation.
	TotalGroups int
}

// groupByExtension sums files per extension in order of first appearance.
// Files without an extension are grouped under noExt, or skipped when
// noExt is empty.
func groupByExtension(entries []types.Entry, noExt string) []ExtensionStat {
	index := make(map[string]int)
	var groups []ExtensionStat
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		ext := e.Ext
		if ext == "" {
			if noExt == "" {
				continue
			}
			ext = noExt
		}
		i, ok := index[ext]
		if !ok {
			i = len(groups)
			index[ext] = i
			groups = append(groups, ExtensionStat{Ext: ext})
		}
		groups[i].Count++
		groups[i].Size += e.Size
	}
	slices.SortStableFunc(groups, func(a, b ExtensionStat) int {
		return cmp.Compare(b.Size, a.Size)
	})
	return groups
}

func topGroups(groups []ExtensionStat, limit int) *Extensions {
	out := &Extensions{Groups: groups, TotalGroups: len(groups)}
	if limit > 0 && len(groups) > limit {
		out.Groups = groups[:limit]
	}
	if out.Groups == nil {
		out.Groups = []ExtensionStat{}
	}
	return out
}

// SummaryResult holds the aggregate totals of an inventory.
type SummaryResult struct {
	// TotalSize is the summed size of every file.
	TotalSize int64

	TotalFiles       int
	TotalDirectories int

	// TopExtensions are the largest extension groups. Files without an
	// extension are not included.
	TopExtensions []ExtensionStat
}

// Summary returns the totals of entries and its largest extensions.
func Summary(entries []types.Entry) *SummaryResult {
	result := &SummaryResult{}
	for _, e := range entries {
		if e.IsDir {
			result.TotalDirectories++
			continue
		}
		result.TotalFiles++
		result.TotalSize += e.Size
	}
	result.TopExtensions = topGroups(groupByExtension(entries, ""), SummaryExtensions).Groups
	return result
}

// Largest returns the limit largest files. A limit <= 0 uses the default.
func Largest(entries []types.Entry, limit int) *List {
	if limit <= 0 {
		limit = DefaultLargestLimit
	}
	return newList(types.Files(entries), limit)
}

// ByType groups files by extension and returns the limit largest groups.
// A limit <= 0 uses the default.
func ByType(entries []types.Entry, limit int) *Extensions {
	if limit <= 0 {
		limit = DefaultByTypeLimit
	}
	return topGroups(groupByExtension(entries, NoExtension), limit)
}

// CompileSearch turns a name pattern into a case-insensitive matcher.
// '*' and '?' are wildcards; every other character is literal. The
// pattern may match anywhere in the name.
func CompileSearch(pattern string) (glob.Glob, error) {
	var b strings.Builder
	b.WriteByte('*')
	for _, r := range strings.ToLower(pattern) {
		switch r {
		case '*', '?':
			b.WriteRune(r)
		default:
			b.WriteString(glob.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('*')

	g, err := glob.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compiling search pattern %q: %w", pattern, err)
	}
	return g, nil
}

// Search returns files and directories whose name matches pattern,
// largest first and capped at SearchMaxMatches.
func Search(entries []types.Entry, pattern string) (*List, error) {
	g, err := CompileSearch(pattern)
	if err != nil {
		return nil, err
	}
	return Match(entries, g), nil
}

// Match returns files and directories whose lowercased name matches a
// matcher built by CompileSearch, largest first and capped at
// SearchMaxMatches.
func Match(entries []types.Entry, g glob.Glob) *List {
	var matched []types.Entry
	for _, e := range entries {
		if g.Match(strings.ToLower(e.Name)) {
			matched = append(matched, e)
		}
	}
	logger.Debug("search complete", "matches", len(matched))

	return newList(matched, SearchMaxMatches)
}
