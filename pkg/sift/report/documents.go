package report

import (
	"github.com/jamesainslie/sift/pkg/sift/classify"
	"github.com/jamesainslie/sift/pkg/sift/filter"
	"github.com/jamesainslie/sift/pkg/sift/hierarchy"
	"github.com/jamesainslie/sift/pkg/sift/query"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

// SampleFiles is the number of sample files shown per cleanable category.
const SampleFiles = 10

// File is a file or directory reference with its size.
type File struct {
	Path      string `json:"path" yaml:"path"`
	Size      string `json:"size" yaml:"size"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

func newFile(e types.Entry) File {
	return File{Path: e.Path, Size: types.FormatSize(e.Size), SizeBytes: e.Size}
}

func newFiles(entries []types.Entry) []File {
	out := make([]File, 0, len(entries))
	for _, e := range entries {
		out = append(out, newFile(e))
	}
	return out
}

// Extension is one extension group of the summary.
type Extension struct {
	Ext       string `json:"ext" yaml:"ext"`
	Count     int    `json:"count" yaml:"count"`
	Size      string `json:"size" yaml:"size"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// Summary is the document of the summary command.
type Summary struct {
	TotalSize        string      `json:"total_size" yaml:"total_size"`
	TotalSizeBytes   int64       `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalFiles       int         `json:"total_files" yaml:"total_files"`
	TotalDirectories int         `json:"total_directories" yaml:"total_directories"`
	TopExtensions    []Extension `json:"top_extensions" yaml:"top_extensions"`
}

// NewSummary builds the summary document.
func NewSummary(r *query.SummaryResult) Summary {
	doc := Summary{
		TotalSize:        types.FormatSize(r.TotalSize),
		TotalSizeBytes:   r.TotalSize,
		TotalFiles:       r.TotalFiles,
		TotalDirectories: r.TotalDirectories,
		TopExtensions:    make([]Extension, 0, len(r.TopExtensions)),
	}
	for _, g := range r.TopExtensions {
		doc.TopExtensions = append(doc.TopExtensions, Extension{
			Ext:       g.Ext,
			Count:     g.Count,
			Size:      types.FormatSize(g.Size),
			SizeBytes: g.Size,
		})
	}
	return doc
}

// Largest is the document of the largest command.
type Largest struct {
	Files        []File `json:"files" yaml:"files"`
	Count        int    `json:"count" yaml:"count"`
	TotalMatches int    `json:"total_matches" yaml:"total_matches"`
}

// NewLargest builds the largest document.
func NewLargest(l *query.List) Largest {
	files := newFiles(l.Entries)
	return Largest{Files: files, Count: len(files), TotalMatches: l.TotalMatches}
}

// TypeGroup is one extension group of the by-type breakdown.
type TypeGroup struct {
	Extension string `json:"extension" yaml:"extension"`
	Count     int    `json:"count" yaml:"count"`
	Size      string `json:"size" yaml:"size"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// ByType is the document of the by-type command.
type ByType struct {
	Types        []TypeGroup `json:"types" yaml:"types"`
	Count        int         `json:"count" yaml:"count"`
	TotalMatches int         `json:"total_matches" yaml:"total_matches"`
}

// NewByType builds the by-type document.
func NewByType(e *query.Extensions) ByType {
	doc := ByType{Types: make([]TypeGroup, 0, len(e.Groups)), TotalMatches: e.TotalGroups}
	for _, g := range e.Groups {
		doc.Types = append(doc.Types, TypeGroup{
			Extension: g.Ext,
			Count:     g.Count,
			Size:      types.FormatSize(g.Size),
			SizeBytes: g.Size,
		})
	}
	doc.Count = len(doc.Types)
	return doc
}

// Directory is a directory with its child counts.
type Directory struct {
	Path         string `json:"path" yaml:"path"`
	Size         string `json:"size" yaml:"size"`
	SizeBytes    int64  `json:"size_bytes" yaml:"size_bytes"`
	FilesCount   int    `json:"files_count" yaml:"files_count"`
	FoldersCount int    `json:"folders_count" yaml:"folders_count"`
}

// TopFolders is the document of the top-folders command. Depths are
// relative to the scan root.
type TopFolders struct {
	Depths        map[int][]Directory `json:"depths" yaml:"depths"`
	ScanRootDepth int                 `json:"scan_root_depth" yaml:"scan_root_depth"`
}

// NewTopFolders builds the top-folders document.
func NewTopFolders(r *hierarchy.TopFoldersResult) TopFolders {
	doc := TopFolders{
		Depths:        make(map[int][]Directory, len(r.Levels)),
		ScanRootDepth: r.ScanRootDepth,
	}
	for depth, dirs := range r.Levels {
		level := make([]Directory, 0, len(dirs))
		for _, d := range dirs {
			level = append(level, Directory{
				Path:         d.Path,
				Size:         types.FormatSize(d.Size),
				SizeBytes:    d.Size,
				FilesCount:   d.FilesCount,
				FoldersCount: d.FoldersCount,
			})
		}
		doc.Depths[depth] = level
	}
	return doc
}

// Child is an entry listed by the folder command.
type Child struct {
	Path         string `json:"path" yaml:"path"`
	Name         string `json:"name" yaml:"name"`
	Size         string `json:"size" yaml:"size"`
	SizeBytes    int64  `json:"size_bytes" yaml:"size_bytes"`
	IsDir        bool   `json:"is_dir" yaml:"is_dir"`
	Depth        int    `json:"depth" yaml:"depth"`
	FilesCount   int    `json:"files_count" yaml:"files_count"`
	FoldersCount int    `json:"folders_count" yaml:"folders_count"`
}

func newChildren(children []hierarchy.Child) []Child {
	out := make([]Child, 0, len(children))
	for _, c := range children {
		out = append(out, Child{
			Path:         c.Path,
			Name:         c.Name,
			Size:         types.FormatSize(c.Size),
			SizeBytes:    c.Size,
			IsDir:        c.IsDir,
			Depth:        c.RelDepth,
			FilesCount:   c.FilesCount,
			FoldersCount: c.FoldersCount,
		})
	}
	return out
}

// Folder is the document of the folder command.
type Folder struct {
	Path         string  `json:"path" yaml:"path"`
	Depth        int     `json:"depth" yaml:"depth"`
	Directories  []Child `json:"directories" yaml:"directories"`
	Files        []Child `json:"files" yaml:"files"`
	TotalItems   int     `json:"total_items" yaml:"total_items"`
	TotalMatches int     `json:"total_matches" yaml:"total_matches"`
}

// NewFolder builds the folder document.
func NewFolder(r *hierarchy.FolderResult) Folder {
	return Folder{
		Path:         r.Path,
		Depth:        r.Depth,
		Directories:  newChildren(r.Directories),
		Files:        newChildren(r.Files),
		TotalItems:   r.TotalItems,
		TotalMatches: r.TotalMatches,
	}
}

// Category is one cleanable category.
type Category struct {
	Category       string   `json:"category" yaml:"category"`
	Reason         string   `json:"reason" yaml:"reason"`
	Reasons        []string `json:"reasons" yaml:"reasons"`
	Safety         string   `json:"safety" yaml:"safety"`
	TotalSize      string   `json:"total_size" yaml:"total_size"`
	TotalSizeBytes int64    `json:"total_size_bytes" yaml:"total_size_bytes"`
	FileCount      int      `json:"file_count" yaml:"file_count"`
	MigrationHints []string `json:"migration_hints" yaml:"migration_hints"`
	SampleFiles    []File   `json:"sample_files" yaml:"sample_files"`
}

// TierMember is a category listed under its safety tier.
type TierMember struct {
	Category  string `json:"category" yaml:"category"`
	Size      string `json:"size" yaml:"size"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// BySafety groups categories by safety tier. Every tier is always present.
type BySafety struct {
	Safe  []TierMember `json:"safe" yaml:"safe"`
	Check []TierMember `json:"check" yaml:"check"`
	Admin []TierMember `json:"admin" yaml:"admin"`
}

// Cleanable is the document of the cleanable command.
type Cleanable struct {
	Categories          []Category `json:"categories" yaml:"categories"`
	BySafety            BySafety   `json:"by_safety" yaml:"by_safety"`
	TotalCleanableSize  string     `json:"total_cleanable_size" yaml:"total_cleanable_size"`
	TotalCleanableBytes int64      `json:"total_cleanable_bytes" yaml:"total_cleanable_bytes"`
}

func newTierMembers(categories []classify.Category) []TierMember {
	out := make([]TierMember, 0, len(categories))
	for _, c := range categories {
		out = append(out, TierMember{
			Category:  c.Name,
			Size:      types.FormatSize(c.TotalSize),
			SizeBytes: c.TotalSize,
		})
	}
	return out
}

// NewCleanable builds the cleanable document.
func NewCleanable(r *classify.Result) Cleanable {
	doc := Cleanable{
		Categories: make([]Category, 0, len(r.Categories)),
		BySafety: BySafety{
			Safe:  newTierMembers(r.ByTier(classify.TierSafe)),
			Check: newTierMembers(r.ByTier(classify.TierCheck)),
			Admin: newTierMembers(r.ByTier(classify.TierAdmin)),
		},
		TotalCleanableSize:  types.FormatSize(r.TotalSize),
		TotalCleanableBytes: r.TotalSize,
	}
	for _, c := range r.Categories {
		hints := c.Hints
		if hints == nil {
			hints = []string{}
		}
		doc.Categories = append(doc.Categories, Category{
			Category:       c.Name,
			Reason:         c.Reason,
			Reasons:        c.Reasons,
			Safety:         string(c.Tier),
			TotalSize:      types.FormatSize(c.TotalSize),
			TotalSizeBytes: c.TotalSize,
			FileCount:      c.FileCount,
			MigrationHints: hints,
			SampleFiles:    newFiles(types.Top(c.Sample, SampleFiles)),
		})
	}
	return doc
}

// Match is an entry returned by search.
type Match struct {
	Path      string `json:"path" yaml:"path"`
	Size      string `json:"size" yaml:"size"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	IsDir     bool   `json:"is_dir" yaml:"is_dir"`
}

// Search is the document of the search command.
type Search struct {
	Pattern      string  `json:"pattern" yaml:"pattern"`
	Matches      []Match `json:"matches" yaml:"matches"`
	Count        int     `json:"count" yaml:"count"`
	TotalMatches int     `json:"total_matches" yaml:"total_matches"`
}

// NewSearch builds the search document.
func NewSearch(pattern string, l *query.List) Search {
	doc := Search{Pattern: pattern, Matches: make([]Match, 0, len(l.Entries)), TotalMatches: l.TotalMatches}
	for _, e := range l.Entries {
		doc.Matches = append(doc.Matches, Match{
			Path:      e.Path,
			Size:      types.FormatSize(e.Size),
			SizeBytes: e.Size,
			IsDir:     e.IsDir,
		})
	}
	doc.Count = len(doc.Matches)
	return doc
}

// Filter is the document of the filter command.
type Filter struct {
	Conditions   string `json:"conditions" yaml:"conditions"`
	Matches      []File `json:"matches" yaml:"matches"`
	Count        int    `json:"count" yaml:"count"`
	TotalMatches int    `json:"total_matches" yaml:"total_matches"`
}

// NewFilter builds the filter document.
func NewFilter(conditions string, r *filter.Result) Filter {
	matches := newFiles(r.Matches)
	return Filter{
		Conditions:   conditions,
		Matches:      matches,
		Count:        len(matches),
		TotalMatches: r.TotalMatches,
	}
}
