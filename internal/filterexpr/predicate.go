// Package filterexpr compiles a manifest view's declarative "where" config
// into a tree of first-class predicate values, then evaluates that tree
// against decoded records.
//
// A leaf config has the shape {source, op, value}: source is a path into the
// record (see internal/record), op is one of eq/ne/contains/startswith/
// endswith (plus common aliases), and value is compared against the
// record's value at source after both sides are coerced to strings. A
// combinator config has the shape {logic: any|all, conditions: [...]} where
// each condition is a leaf; combinators do not nest.
package filterexpr

import (
	"fmt"
	"strings"

	"github.com/tideline/tideline/internal/record"
)

// Predicate is a compiled filter: a tagged value that can be evaluated
// against a record.
type Predicate interface {
	Eval(rec map[string]any) bool
}

// Const always returns a fixed boolean, used for the malformed/missing
// defaults and as the building block for always-true/always-false leaves.
type Const bool

// Eval implements Predicate.
func (c Const) Eval(map[string]any) bool { return bool(c) }

// leafOp is the normalized comparison operator for a leaf predicate.
type leafOp int

const (
	opEq leafOp = iota
	opNe
	opContains
	opStartsWith
	opEndsWith
)

// opAliases maps every accepted spelling (including aliases) to its
// normalized operator, matching the source OP_MAPPING table exactly.
var opAliases = map[string]leafOp{
	"eq":          opEq,
	"==":          opEq,
	"===":         opEq,
	"=":           opEq,
	"ne":          opNe,
	"!=":          opNe,
	"!==":         opNe,
	"neq":         opNe,
	"contains":    opContains,
	"includes":    opContains,
	"startswith":  opStartsWith,
	"starts_with": opStartsWith,
	"endswith":    opEndsWith,
	"ends_with":   opEndsWith,
}

// Leaf compares the record value at Source against Value using Op.
type Leaf struct {
	Source string
	Op     leafOp
	Value  string
}

// Eval implements Predicate. Both sides are compared in their string form;
// a missing source value compares as the empty string, so it satisfies
// eq "" and ne against any non-empty value.
func (l Leaf) Eval(rec map[string]any) bool {
	actual := record.GetValueAtPath(rec, l.Source, nil)
	actualStr := stringify(actual)

	switch l.Op {
	case opEq:
		return actualStr == l.Value
	case opNe:
		return actualStr != l.Value
	case opContains:
		return strings.Contains(actualStr, l.Value)
	case opStartsWith:
		return strings.HasPrefix(actualStr, l.Value)
	case opEndsWith:
		return strings.HasSuffix(actualStr, l.Value)
	default:
		return false
	}
}

// AnyOf is satisfied when at least one child predicate is satisfied
// (logic: any).
type AnyOf []Predicate

// Eval implements Predicate.
func (a AnyOf) Eval(rec map[string]any) bool {
	for _, p := range a {
		if p.Eval(rec) {
			return true
		}
	}
	return false
}

// AllOf is satisfied only when every child predicate is satisfied
// (logic: all).
type AllOf []Predicate

// Eval implements Predicate.
func (a AllOf) Eval(rec map[string]any) bool {
	for _, p := range a {
		if !p.Eval(rec) {
			return false
		}
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
