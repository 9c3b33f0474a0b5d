// Package classify assigns inventory files to cleanable categories.
//
// A Classifier holds an ordered rule list and a safety table, both fixed at
// construction. Each file is tested against the rules in order and counted
// in the category of the first rule that matches; files matching no rule
// are not part of the result.
package classify

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("classify")

// DefaultSampleSize is the number of largest files kept per category.
const DefaultSampleSize = 50

// Category is the finalized aggregate of one cleanable category.
type Category struct {
	// Name is the category name.
	Name string

	// Reason describes the rule that first created the category.
	Reason string

	// Reasons lists every distinct rule reason seen, sorted.
	Reasons []string

	// Tier is the safety tier of the category.
	Tier Tier

	// TotalSize is the summed size of every matched file.
	TotalSize int64

	// FileCount is the number of matched files, independent of the sample bound.
	FileCount int

	// Sample holds the largest matched files, size descending.
	Sample []types.Entry

	// Hints lists the distinct migration hints of matched rules, sorted.
	Hints []string
}

// Result is the outcome of one classification pass.
type Result struct {
	// Categories are sorted by total size descending; ties keep creation order.
	Categories []Category

	// TotalSize is the summed size of every classified file.
	TotalSize int64
}

// ByTier returns the categories of the given tier, size descending.
func (r *Result) ByTier(tier Tier) []Category {
	out := []Category{}
	for _, c := range r.Categories {
		if c.Tier == tier {
			out = append(out, c)
		}
	}
	return out
}

// Classifier applies an ordered rule list to inventory files.
type Classifier struct {
	rules      []Rule
	safety     SafetyTable
	sampleSize int
}

// Option is a functional option for configuring a Classifier.
type Option func(*Classifier)

// WithSampleSize bounds the number of files kept per category.
// Values <= 0 keep the default.
func WithSampleSize(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// New creates a Classifier. rules are used in the given order.
func New(rules []Rule, safety SafetyTable, opts ...Option) *Classifier {
	c := &Classifier{
		rules:      slices.Clone(rules),
		safety:     safety,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizePath lower-cases path and converts sep to '/'.
func NormalizePath(path string, sep byte) string {
	path = strings.ToLower(path)
	if sep != '/' {
		path = strings.ReplaceAll(path, string(sep), "/")
	}
	return path
}

// Match returns the first rule matching path.
func (c *Classifier) Match(path string, sep byte) (Rule, bool) {
	normalized := NormalizePath(path, sep)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(normalized) {
			return rule, true
		}
	}
	return Rule{}, false
}

type accumulator struct {
	category Category
	reasons  map[string]struct{}
	hints    map[string]struct{}
}

func (a *accumulator) add(e types.Entry, rule Rule, sampleSize int) {
	a.category.TotalSize += e.Size
	a.category.FileCount++
	a.reasons[rule.Reason] = struct{}{}
	if rule.Hint != "" {
		a.hints[rule.Hint] = struct{}{}
	}
	a.category.Sample = append(a.category.Sample, e)
	if len(a.category.Sample) >= 2*sampleSize {
		a.category.Sample = largest(a.category.Sample, sampleSize)
	}
}

func (a *accumulator) finalize(sampleSize int) Category {
	c := a.category
	c.Sample = largest(c.Sample, sampleSize)
	c.Reasons = sortedKeys(a.reasons)
	c.Hints = nil
	if len(a.hints) > 0 {
		c.Hints = sortedKeys(a.hints)
	}
	return c
}

// largest sorts entries by size descending, keeping inventory order on
// ties, and truncates to n.
func largest(entries []types.Entry, n int) []types.Entry {
	types.SortBySize(entries)
	return types.Top(entries, n)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Classify runs one pass over entries. Directories are ignored.
func (c *Classifier) Classify(entries []types.Entry, sep byte) *Result {
	accs := make(map[string]*accumulator)
	var order []string

	for _, e := range entries {
		if e.IsDir {
			continue
		}
		rule, ok := c.Match(e.Path, sep)
		if !ok {
			continue
		}
		acc, exists := accs[rule.Category]
		if !exists {
			acc = &accumulator{
				category: Category{
					Name:   rule.Category,
					Reason: rule.Reason,
					Tier:   c.safety.Tier(rule.Category),
				},
				reasons: make(map[string]struct{}),
				hints:   make(map[string]struct{}),
			}
			accs[rule.Category] = acc
			order = append(order, rule.Category)
		}
		acc.add(e, rule, c.sampleSize)
	}

	result := &Result{Categories: make([]Category, 0, len(order))}
	for _, name := range order {
		category := accs[name].finalize(c.sampleSize)
		result.TotalSize += category.TotalSize
		result.Categories = append(result.Categories, category)
	}
	slices.SortStableFunc(result.Categories, func(a, b Category) int {
		return cmp.Compare(b.TotalSize, a.TotalSize)
	})

	logger.Debug("classification complete",
		"rules", len(c.rules),
		"categories", len(result.Categories),
		"bytes", result.TotalSize)

	return result
}
