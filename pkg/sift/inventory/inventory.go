// Package inventory loads filesystem inventories produced by external
// scanners into normalized entries.
//
// Two column layouts are understood. The POSIX layout is written by
// "sift scan" and similar producers:
//
//	path,size,allocated,modified,is_dir,files_count,folders_count
//
// The Windows export layout has no explicit directory flag, may carry
// unit suffixes on sizes and is often preceded by a descriptive line:
//
//	Generated by ...
//	File Name,Size,Allocated,Modified,Attributes,Files,Folders
//
// The layout is detected from the header row and fixes the path separator
// used for depth, name and hierarchy computations.
package inventory

import (
	"errors"
	"strings"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

// ErrInventoryNotFound indicates the inventory file does not exist.
var ErrInventoryNotFound = errors.New("inventory not found")

// Dialect identifies an inventory column layout and its path convention.
type Dialect int

const (
	// DialectPOSIX is the path,size,...,is_dir layout with '/' separators.
	DialectPOSIX Dialect = iota
	// DialectWindows is the File Name,Size,...,Folders layout with '\' separators.
	DialectWindows
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case DialectPOSIX:
		return "posix"
	case DialectWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// Sep returns the path separator of the dialect.
func (d Dialect) Sep() byte {
	if d == DialectWindows {
		return '\\'
	}
	return '/'
}

// DirSizesAuthoritative reports whether producers of this dialect write
// real directory totals. POSIX producers write zeros that must be rolled up.
func (d Dialect) DirSizesAuthoritative() bool {
	return d == DialectWindows
}

// Inventory is a loaded, enriched inventory.
type Inventory struct {
	// Source is the file the inventory was read from.
	Source string

	// Dialect is the detected layout.
	Dialect Dialect

	// Entries are the rows in file order.
	Entries []types.Entry

	// Skipped counts rows dropped as malformed.
	Skipped int
}

// Sep returns the path separator of the inventory.
func (inv *Inventory) Sep() byte {
	return inv.Dialect.Sep()
}

// Segments splits path on sep and drops empty segments.
func Segments(path string, sep byte) []string {
	raw := strings.Split(path, string(sep))
	segments := raw[:0]
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// TrimPath removes trailing separators. A path made only of separators
// is returned as a single separator.
func TrimPath(path string, sep byte) string {
	trimmed := strings.TrimRight(path, string(sep))
	if trimmed == "" && path != "" {
		return string(sep)
	}
	return trimmed
}

// Depth returns the number of hierarchy levels below the implicit root.
// For '\' paths a leading drive segment ("C:") is the root and not counted,
// and a UNC path is anchored at its \\server\share prefix.
func Depth(path string, sep byte) int {
	segments := Segments(path, sep)
	if sep == '\\' {
		switch {
		case strings.HasPrefix(path, `\\`):
			return max(len(segments)-2, 0)
		case len(segments) > 0 && isDrive(segments[0]):
			return len(segments) - 1
		}
	}
	return len(segments)
}

func isDrive(segment string) bool {
	return len(segment) >= 2 && strings.HasSuffix(segment, ":")
}

// Name returns the final path segment.
func Name(path string, sep byte) string {
	segments := Segments(path, sep)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Ext returns the lower-cased suffix of name starting at its last dot.
// Names whose only dot is leading (".bashrc") or trailing ("file.") have
// no extension.
func Ext(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// Enrich derives depth, name and extension for e under sep.
func Enrich(e types.Entry, sep byte) types.Entry {
	e.Depth = Depth(e.Path, sep)
	e.Name = Name(e.Path, sep)
	e.Ext = ""
	if !e.IsDir {
		e.Ext = Ext(e.Name)
	}
	return e
}
