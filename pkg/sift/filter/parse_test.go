package filter

import (
	"errors"
	"testing"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantField  Field
		wantOp     Op
		wantValue  string
		wantNumber int64
		wantAlways bool
	}{
		{name: "size with unit", input: "size>=50MB", wantField: FieldSize, wantOp: OpGreaterEqual, wantValue: "50MB", wantNumber: 50 * types.MiB},
		{name: "size plain bytes", input: "size>200", wantField: FieldSize, wantOp: OpGreater, wantValue: "200", wantNumber: 200},
		{name: "size less equal", input: " size <= 1.5G ", wantField: FieldSize, wantOp: OpLessEqual, wantValue: "1.5G", wantNumber: 3 * types.GiB / 2},
		{name: "ext adds dot", input: "ext=LOG", wantField: FieldExt, wantOp: OpEqual, wantValue: ".log"},
		{name: "ext keeps dot", input: "ext=.tmp", wantField: FieldExt, wantOp: OpEqual, wantValue: ".tmp"},
		{name: "path contains", input: "path~Cache", wantField: FieldPath, wantOp: OpContains, wantValue: "cache"},
		{name: "name equals", input: "NAME=Thumbs.db", wantField: FieldName, wantOp: OpEqual, wantValue: "thumbs.db"},
		{name: "depth", input: "depth<3", wantField: FieldDepth, wantOp: OpLess, wantValue: "3", wantNumber: 3},
		{name: "no operator", input: "whatever", wantAlways: true},
		{name: "unknown field", input: "owner=ann", wantField: "owner", wantOp: OpEqual, wantValue: "ann", wantAlways: true},
		{name: "first operator in order wins", input: "name~a=b", wantField: "name~a", wantOp: OpEqual, wantValue: "b", wantAlways: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.input)
			if err != nil {
				t.Fatalf("ParseCondition(%q) unexpected error: %v", tt.input, err)
			}
			if got.Always() != tt.wantAlways {
				t.Errorf("Always() = %v, want %v", got.Always(), tt.wantAlways)
			}
			if tt.wantAlways && tt.wantField == "" {
				return
			}
			if got.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", got.Field, tt.wantField)
			}
			if got.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", got.Op, tt.wantOp)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", got.Value, tt.wantValue)
			}
			if got.number != tt.wantNumber {
				t.Errorf("number = %d, want %d", got.number, tt.wantNumber)
			}
		})
	}
}

func TestParseCondition_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "size not a number", input: "size>big"},
		{name: "negative size", input: "size>-5"},
		{name: "empty size", input: "size>="},
		{name: "depth not an integer", input: "depth=two"},
		{name: "depth decimal", input: "depth>1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCondition(tt.input)
			if !errors.Is(err, ErrInvalidCondition) {
				t.Errorf("ParseCondition(%q) error = %v, want ErrInvalidCondition", tt.input, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	conditions, err := Parse("size>=50, ext=.tmp,,")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(conditions) != 2 {
		t.Fatalf("Parse() returned %d conditions, want 2", len(conditions))
	}
	if conditions[0].String() != "size>=50" || conditions[1].String() != "ext=.tmp" {
		t.Errorf("Parse() = %v, want clauses in input order", conditions)
	}

	if _, err := Parse("ext=.log,size>lots"); !errors.Is(err, ErrInvalidCondition) {
		t.Errorf("Parse() error = %v, want ErrInvalidCondition", err)
	}
}
