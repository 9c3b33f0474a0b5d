// Package types provides core data types for the sift inventory analyzer.
// It includes the normalized inventory entry shared by every analysis
// component, along with utility functions for parsing and formatting sizes.
package types

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Entry is one normalized inventory row.
// Entries are produced by the inventory loader and treated as read-only
// by every downstream component.
type Entry struct {
	// Path is the absolute, hierarchical location of the entry.
	Path string `json:"path"`

	// Size is the size in bytes. For directories this is either the value
	// supplied by the inventory or a computed rollup.
	Size int64 `json:"size"`

	// Allocated is the on-disk allocation in bytes, used for display only.
	Allocated int64 `json:"allocated"`

	// Modified is the timestamp string exactly as the producer wrote it.
	Modified string `json:"modified"`

	// IsDir partitions entries into files and directories.
	IsDir bool `json:"is_dir"`

	// FilesCount is the number of immediate child files (directories only).
	FilesCount int `json:"files_count"`

	// FoldersCount is the number of immediate child directories (directories only).
	FoldersCount int `json:"folders_count"`

	// Depth is the number of path segments below the implicit root.
	Depth int `json:"depth"`

	// Name is the final path segment.
	Name string `json:"name"`

	// Ext is the lower-cased suffix including the dot, empty for directories.
	Ext string `json:"ext"`
}

// Files returns the file entries of entries, preserving order.
func Files(entries []Entry) []Entry {
	files := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir {
			files = append(files, e)
		}
	}
	return files
}

// SortBySize sorts entries by size descending in place. The sort is
// stable, so entries of equal size keep their inventory order.
func SortBySize(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Size, a.Size)
	})
}

// Top returns the first n entries of entries, or all of them when n <= 0
// or there are fewer than n.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports the following formats:
//   - Plain bytes: "1024", "0"
//   - With byte suffix: "512B", "512b"
//   - Kilobytes: "100K", "100KB", "100KiB"
//   - Megabytes: "50M", "50MB", "50MiB"
//   - Gigabytes: "2G", "2GB", "2GiB"
//   - Terabytes: "1T", "1TB", "1TiB"
//
// All units are binary (1024-based). Decimal values are truncated to the
// nearest byte. Leading and trailing whitespace is ignored.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	bytes := value * float64(multiplier)
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidSize, s)
	}
	return int64(bytes), nil
}

// ParseSizeLenient parses size cells written by inventory producers.
// Thousands separators and inner spaces are removed before parsing
// ("1,234 KB"). Anything that still fails to parse yields 0.
func ParseSizeLenient(s string) int64 {
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	n, err := ParseSize(s)
	if err != nil {
		return 0
	}
	return n
}

// sizeUnits are the display units used by FormatSize.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize converts a size in bytes to a human-readable string with one
// decimal place and binary units, for example "1.5 MB" for 1572864.
// Values of 1024 TB and above are reported in PB.
func FormatSize(bytes int64) string {
	value := float64(bytes)
	for _, unit := range sizeUnits {
		if value > -1024 && value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}
