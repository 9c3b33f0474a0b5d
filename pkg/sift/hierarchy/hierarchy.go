// Package hierarchy aggregates inventory entries along their directory tree.
//
// Paths are compared segment by segment, never as raw string prefixes, so
// /Users/ann never absorbs /Users/anna. Inventories using '\' separators
// are compared case-insensitively.
package hierarchy

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jamesainslie/sift/pkg/sift/inventory"
	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("hierarchy")

// Default bounds of the subtree queries.
const (
	DefaultTopFoldersDepth = 2
	DefaultTopFoldersLimit = 10
	DefaultFolderDepth     = 1

	// FolderMaxItems is the number of children considered by Folder.
	FolderMaxItems = 50
	// FolderMaxDirectories is the number of directories returned by Folder.
	FolderMaxDirectories = 30
	// FolderMaxFiles is the number of files returned by Folder.
	FolderMaxFiles = 20
)

// key is the canonical form of a path: a leading separator when the path
// has one, then its non-empty segments joined by sep.
func key(path string, sep byte) string {
	segments := inventory.Segments(path, sep)
	leading := ""
	if path != "" && path[0] == sep {
		leading = string(sep)
	}
	return fold(leading+strings.Join(segments, string(sep)), sep)
}

func fold(s string, sep byte) string {
	if sep == '\\' {
		return strings.ToLower(s)
	}
	return s
}

// Totals maps every proper ancestor of every file to the summed size of
// its descendant files.
func Totals(entries []types.Entry, sep byte) map[string]int64 {
	totals := make(map[string]int64)
	s := string(sep)
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		segments := inventory.Segments(e.Path, sep)
		leading := ""
		if e.Path != "" && e.Path[0] == sep {
			leading = s
			totals[s] += e.Size
		}
		for i := 1; i < len(segments); i++ {
			totals[fold(leading+strings.Join(segments[:i], s), sep)] += e.Size
		}
	}
	return totals
}

// Rollup returns a copy of entries in which every directory's Size and
// Allocated are the summed size of its descendant files. A directory
// without descendant files rolls up to 0.
func Rollup(entries []types.Entry, sep byte) []types.Entry {
	totals := Totals(entries, sep)
	out := make([]types.Entry, len(entries))
	dirs := 0
	for i, e := range entries {
		if e.IsDir {
			size := totals[key(e.Path, sep)]
			e.Size = size
			e.Allocated = size
			dirs++
		}
		out[i] = e
	}
	logger.Debug("directory sizes rolled up", "directories", dirs, "ancestors", len(totals))
	return out
}

// TopFoldersResult holds the largest directories per level below the scan root.
type TopFoldersResult struct {
	// ScanRootDepth is the minimum directory depth in the inventory.
	ScanRootDepth int

	// Levels maps relative depth to directories, size descending.
	// Levels without directories are absent.
	Levels map[int][]types.Entry
}

// TopFolders returns, for each relative depth 1..maxDepth, the limit
// largest directories at exactly that depth. Relative depth is measured
// from the shallowest directory, which is treated as the scan root and
// never reported.
func TopFolders(entries []types.Entry, maxDepth, limit int) *TopFoldersResult {
	if maxDepth <= 0 {
		maxDepth = DefaultTopFoldersDepth
	}
	if limit <= 0 {
		limit = DefaultTopFoldersLimit
	}

	result := &TopFoldersResult{Levels: make(map[int][]types.Entry)}

	first := true
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		if first || e.Depth < result.ScanRootDepth {
			result.ScanRootDepth = e.Depth
			first = false
		}
	}

	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		rel := e.Depth - result.ScanRootDepth
		if rel < 1 || rel > maxDepth {
			continue
		}
		result.Levels[rel] = append(result.Levels[rel], e)
	}

	for depth, dirs := range result.Levels {
		types.SortBySize(dirs)
		result.Levels[depth] = types.Top(dirs, limit)
	}

	return result
}

// Child is an entry below a Folder target.
type Child struct {
	types.Entry

	// RelDepth is the depth relative to the target.
	RelDepth int
}

// FolderResult lists the contents of one directory subtree.
type FolderResult struct {
	// Path is the target with trailing separators removed.
	Path string

	// Depth is the relative depth bound that was applied.
	Depth int

	// Directories are the largest directories, size descending.
	Directories []Child

	// Files are the largest files, size descending. Files only appear at
	// the deepest requested level.
	Files []Child

	// TotalItems is the number of children considered after capping.
	TotalItems int

	// TotalMatches is the number of children before capping.
	TotalMatches int
}

// Folder lists descendants of target up to depth levels below it.
// Intermediate levels list directories only. Entries are deduplicated by
// path.
func Folder(entries []types.Entry, sep byte, target string, depth int) *FolderResult {
	if depth <= 0 {
		depth = DefaultFolderDepth
	}

	trimmed := inventory.TrimPath(target, sep)
	targetSegments := foldAll(inventory.Segments(trimmed, sep), sep)

	seen := make(map[string]struct{})
	var children []Child
	for _, e := range entries {
		segments := foldAll(inventory.Segments(e.Path, sep), sep)
		rel := len(segments) - len(targetSegments)
		if rel < 1 || !slices.Equal(segments[:len(targetSegments)], targetSegments) {
			continue
		}
		k := key(e.Path, sep)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if rel > depth || (rel < depth && !e.IsDir) {
			continue
		}
		children = append(children, Child{Entry: e, RelDepth: rel})
	}

	slices.SortStableFunc(children, func(a, b Child) int {
		return cmp.Compare(b.Size, a.Size)
	})

	result := &FolderResult{
		Path:         trimmed,
		Depth:        depth,
		Directories:  []Child{},
		Files:        []Child{},
		TotalMatches: len(children),
	}
	if len(children) > FolderMaxItems {
		children = children[:FolderMaxItems]
	}
	result.TotalItems = len(children)

	for _, c := range children {
		if c.IsDir {
			if len(result.Directories) < FolderMaxDirectories {
				result.Directories = append(result.Directories, c)
			}
		} else if len(result.Files) < FolderMaxFiles {
			result.Files = append(result.Files, c)
		}
	}

	return result
}

func foldAll(segments []string, sep byte) []string {
	if sep != '\\' {
		return segments
	}
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = strings.ToLower(s)
	}
	return out
}
