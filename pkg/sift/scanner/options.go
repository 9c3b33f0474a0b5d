// Package scanner walks a directory tree and produces an inventory in the
// path,size,allocated,modified,is_dir,files_count,folders_count layout
// read by the inventory package.
//
// The walk itself is parallel (fastwalk); rows are collected under a
// mutex and sorted by path before they are returned, so the inventory of
// an unchanged tree is always written in the same order.
package scanner

import (
	"errors"
	"time"

	"github.com/jamesainslie/sift/pkg/sift/config"
)

// ErrNotDirectory indicates that the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// Options configures the scanner behavior.
type Options struct {
	// Root is the starting directory for the scan.
	Root string

	// Exclude contains patterns for paths to skip during scanning.
	// Absolute patterns ("/proc") exclude that path and everything below
	// it. Other patterns are globs matched against the entry name, or
	// against any part of the full path ("Library/Caches").
	Exclude []string

	// SkipHidden skips files and directories whose name starts with '.'.
	SkipHidden bool

	// MaxDepth limits how many directory levels below the root are
	// entered. 0 means unlimited.
	MaxDepth int

	// ProgressInterval is the number of entries between progress checks.
	ProgressInterval int

	// ProgressEvery is the minimum time between two progress log lines.
	ProgressEvery time.Duration
}

// DefaultProgressEvery is the minimum time between progress log lines.
const DefaultProgressEvery = 5 * time.Second

// DefaultOptions returns options with sensible defaults for most systems.
func DefaultOptions() Options {
	return Options{
		Root:             ".",
		Exclude:          config.DefaultScanExclusions,
		ProgressInterval: config.DefaultProgressInterval,
		ProgressEvery:    DefaultProgressEvery,
	}
}

// Validate applies defaults for zero values.
func (o *Options) Validate() {
	if o.Root == "" {
		o.Root = "."
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	if o.ProgressInterval < 1 {
		o.ProgressInterval = config.DefaultProgressInterval
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
}
