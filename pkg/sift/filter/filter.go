package filter

import (
	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("filter")

// DefaultLimit is the maximum number of matches returned by default.
const DefaultLimit = 100

// Filter selects inventory files by a list of conditions.
type Filter struct {
	// Conditions must all hold for a file to match.
	Conditions []Condition

	// Limit is the maximum number of files to return. 0 means unlimited.
	Limit int
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// New creates a new Filter with the given options.
// Default values:
//   - Limit: 100
func New(opts ...Option) *Filter {
	f := &Filter{
		Limit: DefaultLimit,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithLimit sets the maximum number of files to return.
// If limit <= 0, it is set to 0 (unlimited).
func WithLimit(limit int) Option {
	return func(f *Filter) {
		if limit < 0 {
			limit = 0
		}
		f.Limit = limit
	}
}

// WithConditions appends parsed conditions.
func WithConditions(conditions ...Condition) Option {
	return func(f *Filter) {
		f.Conditions = append(f.Conditions, conditions...)
	}
}

// Compile parses conditions and returns a Filter using them.
func Compile(conditions string, opts ...Option) (*Filter, error) {
	parsed, err := Parse(conditions)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithConditions(parsed...)}, opts...)...), nil
}

// Match returns true if e is a file satisfying every condition.
func (f *Filter) Match(e types.Entry) bool {
	if e.IsDir {
		return false
	}
	for _, c := range f.Conditions {
		if !matchCondition(c, e) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, e types.Entry) bool {
	if c.always {
		return true
	}
	switch c.Field {
	case FieldSize:
		return c.compareNumber(e.Size)
	case FieldDepth:
		return c.compareNumber(int64(e.Depth))
	case FieldExt:
		return c.compareString(e.Ext)
	case FieldPath:
		return c.compareString(e.Path)
	case FieldName:
		return c.compareString(e.Name)
	default:
		return true
	}
}

// Result holds the files selected by Apply.
type Result struct {
	// Matches are sorted by size descending.
	Matches []types.Entry

	// TotalMatches is the number of matching files before the limit.
	TotalMatches int
}

// Apply runs the complete filtering pipeline: Match, Sort, and Limit.
// entries is not modified.
func (f *Filter) Apply(entries []types.Entry) *Result {
	matched := []types.Entry{}
	for _, e := range entries {
		if f.Match(e) {
			matched = append(matched, e)
		}
	}

	types.SortBySize(matched)
	result := &Result{
		Matches:      types.Top(matched, f.Limit),
		TotalMatches: len(matched),
	}

	logger.Debug("filter applied",
		"conditions", len(f.Conditions),
		"matches", result.TotalMatches)

	return result
}
