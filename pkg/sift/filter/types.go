// Package filter provides the condition mini-language used to select
// inventory files, along with the matching, sorting and limiting pipeline
// that applies it.
//
// A condition string is a comma-separated list of clauses of the form
// "field OP value", for example "size>=50MB,ext=.log,path~cache". Every
// clause must hold for a file to be included.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Field names an entry attribute a clause compares against.
type Field string

// Supported fields.
const (
	FieldSize  Field = "size"
	FieldExt   Field = "ext"
	FieldPath  Field = "path"
	FieldName  Field = "name"
	FieldDepth Field = "depth"
)

// Fields lists every supported field.
var Fields = []Field{FieldSize, FieldExt, FieldPath, FieldName, FieldDepth}

// Known reports whether f is a supported field.
func (f Field) Known() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Numeric reports whether f compares as a number.
func (f Field) Numeric() bool {
	return f == FieldSize || f == FieldDepth
}

// Op is a comparison operator.
type Op string

// Supported operators.
const (
	OpGreaterEqual Op = ">="
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpLess         Op = "<"
	OpEqual        Op = "="
	OpContains     Op = "~"
)

// operators is the order in which a clause is searched for an operator.
// Two-character operators come first so ">=" is not read as ">".
var operators = []Op{OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpEqual, OpContains}

// ErrInvalidCondition indicates that a clause value could not be parsed.
var ErrInvalidCondition = errors.New("invalid filter condition")

// Condition is one parsed clause.
type Condition struct {
	// Raw is the clause as written.
	Raw string

	Field Field
	Op    Op
	Value string

	// number holds the parsed value of a numeric field.
	number int64

	// always marks a clause without an operator or with an unknown field.
	always bool
}

// String returns the clause as written.
func (c Condition) String() string {
	return c.Raw
}

// Always reports whether the clause matches every entry.
func (c Condition) Always() bool {
	return c.always
}

func (c Condition) compareNumber(actual int64) bool {
	switch c.Op {
	case OpGreater:
		return actual > c.number
	case OpGreaterEqual:
		return actual >= c.number
	case OpLess:
		return actual < c.number
	case OpLessEqual:
		return actual <= c.number
	case OpEqual:
		return actual == c.number
	default:
		return false
	}
}

func (c Condition) compareString(actual string) bool {
	actual = strings.ToLower(actual)
	if c.Op == OpContains {
		return strings.Contains(actual, c.Value)
	}
	return actual == c.Value
}

func invalid(clause, reason string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %q: %s: %w", ErrInvalidCondition, clause, reason, err)
	}
	return fmt.Errorf("%w: %q: %s", ErrInvalidCondition, clause, reason)
}
