package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"

	"github.com/jamesainslie/sift/pkg/sift/hierarchy"
	"github.com/jamesainslie/sift/pkg/sift/inventory"
	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("scanner")

// modifiedLayout is the timestamp format written to the modified column.
const modifiedLayout = "2006-01-02T15:04:05"

// ScanError records a path that could not be read.
type ScanError struct {
	Path  string
	Error string
}

// Result holds the inventory produced by one scan.
type Result struct {
	// Root is the resolved absolute root, with '/' separators.
	Root string

	// Entries are sorted by path. Directory sizes are rolled up from
	// their descendant files.
	Entries []types.Entry

	DirsScanned  int64
	FilesScanned int64

	// Errors lists paths that could not be read. They do not stop the scan.
	Errors []ScanError

	Elapsed time.Duration
}

type exclusion struct {
	prefix string
	name   glob.Glob
	path   glob.Glob
}

func compileExclusions(patterns []string) ([]exclusion, error) {
	out := make([]exclusion, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "/") {
			out = append(out, exclusion{prefix: strings.TrimRight(pattern, "/")})
			continue
		}
		name, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		full, err := glob.Compile("*" + pattern + "*")
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		out = append(out, exclusion{name: name, path: full})
	}
	return out, nil
}

func (e exclusion) match(p, name string) bool {
	if e.prefix != "" {
		return p == e.prefix || strings.HasPrefix(p, e.prefix+"/")
	}
	return e.name.Match(name) || e.path.Match(p)
}

// Scanner walks a directory tree in parallel using fastwalk.
type Scanner struct {
	opts       Options
	exclusions []exclusion

	// Atomic counters for thread-safe progress reporting.
	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	entries      atomic.Int64
	lastProgress atomic.Int64

	mu     sync.Mutex
	rows   []types.Entry
	errors []ScanError

	// root is the resolved absolute path being scanned, with '/' separators.
	root string
}

// New creates a new Scanner with the given options.
// Options are validated and defaults are applied.
func New(opts Options) (*Scanner, error) {
	opts.Validate()

	exclusions, err := compileExclusions(opts.Exclude)
	if err != nil {
		return nil, err
	}
	return &Scanner{opts: opts, exclusions: exclusions}, nil
}

// Scan walks the tree and returns the inventory.
// It blocks until complete or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	root, err := validateRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}
	s.root = filepath.ToSlash(root)
	s.lastProgress.Store(start.UnixMilli())

	logger.Info("scan started", "root", s.root)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, root, s.walkCallback(ctx))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("scan interrupted: %w", ctxErr)
	}
	if walkErr != nil {
		return nil, walkErr
	}

	entries := s.finish()

	result := &Result{
		Root:         s.root,
		Entries:      entries,
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		Errors:       s.errors,
		Elapsed:      time.Since(start),
	}

	logger.Info("scan complete",
		"entries", humanize.Comma(int64(len(entries))),
		"errors", len(result.Errors),
		"elapsed", result.Elapsed.Round(time.Millisecond))

	return result, nil
}

// validateRoot resolves the root path to absolute and verifies it is a directory.
func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}

// relDepth returns the number of segments of p below the root.
func (s *Scanner) relDepth(p string) int {
	if p == s.root {
		return 0
	}
	rel := strings.TrimPrefix(p, strings.TrimSuffix(s.root, "/")+"/")
	return strings.Count(rel, "/") + 1
}

func (s *Scanner) excluded(p, name string) bool {
	if p == s.root {
		return false
	}
	if s.opts.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, e := range s.exclusions {
		if e.match(p, name) {
			return true
		}
	}
	return false
}

// walkCallback returns the callback function for fastwalk.Walk.
func (s *Scanner) walkCallback(ctx context.Context) fs.WalkDirFunc {
	return func(native string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		p := filepath.ToSlash(native)

		// Handle errors gracefully - record and continue.
		if err != nil {
			s.addError(p, err)
			return nil
		}

		name := d.Name()
		isDir := d.IsDir()

		if s.excluded(p, name) {
			if isDir {
				return fastwalk.SkipDir
			}
			return nil
		}

		depth := s.relDepth(p)
		if isDir && s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
			return fastwalk.SkipDir
		}

		info, err := d.Info()
		if err != nil {
			s.addError(p, err)
			return nil
		}

		entry := types.Entry{
			Path:     p,
			Modified: info.ModTime().Local().Format(modifiedLayout),
			IsDir:    isDir,
		}
		if isDir {
			s.dirsScanned.Add(1)
		} else {
			entry.Size = info.Size()
			entry.Allocated = allocatedSize(native, info)
			s.filesScanned.Add(1)
		}

		s.mu.Lock()
		s.rows = append(s.rows, entry)
		s.mu.Unlock()

		s.reportProgress(p)
		return nil
	}
}

// reportProgress logs a progress line every ProgressInterval entries,
// at most once per ProgressEvery.
func (s *Scanner) reportProgress(current string) {
	n := s.entries.Add(1)
	if n%int64(s.opts.ProgressInterval) != 0 {
		return
	}

	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < s.opts.ProgressEvery.Milliseconds() {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine reported.
	}

	logger.Info("scan progress", "entries", humanize.Comma(n), "current", current)
}

// addError adds an error to the error list thread-safely.
func (s *Scanner) addError(p string, err error) {
	logger.Debug("unreadable path", "path", p, "error", err)
	s.mu.Lock()
	s.errors = append(s.errors, ScanError{Path: p, Error: err.Error()})
	s.mu.Unlock()
}

// finish sorts and deduplicates the collected rows, fills in child
// counts and rolls directory sizes up.
func (s *Scanner) finish() []types.Entry {
	s.mu.Lock()
	rows := s.rows
	s.rows = nil
	s.mu.Unlock()

	slices.SortFunc(rows, func(a, b types.Entry) int {
		return cmp.Compare(a.Path, b.Path)
	})
	rows = slices.CompactFunc(rows, func(a, b types.Entry) bool {
		return a.Path == b.Path
	})

	dirs := make(map[string]int, s.dirsScanned.Load())
	for i, e := range rows {
		if e.IsDir {
			dirs[e.Path] = i
		}
	}
	for _, e := range rows {
		if e.Path == s.root {
			continue
		}
		parent, ok := dirs[path.Dir(e.Path)]
		if !ok {
			continue
		}
		if e.IsDir {
			rows[parent].FoldersCount++
		} else {
			rows[parent].FilesCount++
		}
	}

	for i := range rows {
		rows[i] = inventory.Enrich(rows[i], '/')
	}
	return hierarchy.Rollup(rows, '/')
}

// IsInterrupted reports whether err was caused by cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
