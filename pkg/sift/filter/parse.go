package filter

import (
	"strconv"
	"strings"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

// ParseCondition parses a single clause.
//
// The clause is split at the first operator found, trying ">=", "<=",
// ">", "<", "=" and "~" in that order. A clause without any operator, or
// naming an unknown field, matches everything. Size values accept binary
// unit suffixes ("50MB", "1.5G"); ext values are normalized to a leading
// dot. String values compare case-insensitively.
//
// Returns ErrInvalidCondition if a size or depth value cannot be parsed.
func ParseCondition(clause string) (Condition, error) {
	clause = strings.TrimSpace(clause)
	c := Condition{Raw: clause}

	var field, value string
	found := false
	for _, op := range operators {
		if before, after, ok := strings.Cut(clause, string(op)); ok {
			field, value = before, after
			c.Op = op
			found = true
			break
		}
	}
	if !found {
		c.always = true
		return c, nil
	}

	c.Field = Field(strings.ToLower(strings.TrimSpace(field)))
	c.Value = strings.TrimSpace(value)
	if !c.Field.Known() {
		c.always = true
		return c, nil
	}

	switch c.Field {
	case FieldSize:
		n, err := types.ParseSize(c.Value)
		if err != nil {
			return Condition{}, invalid(clause, "size", err)
		}
		c.number = n
	case FieldDepth:
		n, err := strconv.Atoi(c.Value)
		if err != nil {
			return Condition{}, invalid(clause, "depth must be an integer", nil)
		}
		c.number = int64(n)
	case FieldExt:
		c.Value = strings.ToLower(c.Value)
		if !strings.HasPrefix(c.Value, ".") {
			c.Value = "." + c.Value
		}
	default:
		c.Value = strings.ToLower(c.Value)
	}

	return c, nil
}

// Parse parses a comma-separated condition string. Empty clauses are
// ignored.
func Parse(conditions string) ([]Condition, error) {
	var parsed []Condition
	for _, clause := range strings.Split(conditions, ",") {
		if strings.TrimSpace(clause) == "" {
			continue
		}
		c, err := ParseCondition(clause)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, c)
	}
	return parsed, nil
}
