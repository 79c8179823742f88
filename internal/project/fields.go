package project

import (
	"strings"

	"github.com/tideline/tideline/internal/record"
)

// FieldSpec is one manifest view's dynamic field projection rule: a target
// name the resolved value is stored under, one or more source paths, an
// optional declared type (drives datetime coercion), and an optional
// transform ("coalesce" is the only one currently recognized).
type FieldSpec struct {
	Target    string
	Source    any // string (single path) or []any of string paths
	Type      string
	Transform string
}

// Project builds the output field map for one record against a view's
// static and dynamic field declarations.
//
// static values are copied through unchanged (after target-name
// cleaning); they represent constants baked into the manifest itself,
// e.g. a fixed event_kind.
//
// Each FieldSpec resolves its source against rec: a single-path source is
// looked up directly; a multi-path source only coalesces — keeping the
// first candidate whose resolved value is not IsTrivial — when Transform
// is "coalesce", otherwise the first path is used. A field whose resolved
// value is trivial is omitted from the result entirely rather than stored
// as an explicit null.
//
// A field whose declared Type is one of datetime/date/timestamp has its
// resolved value coerced via ParseFlexibleDatetime; a failed coercion
// keeps the original resolved value rather than dropping the field.
func Project(rec map[string]any, static map[string]any, fields []FieldSpec) map[string]any {
	out := make(map[string]any, len(static)+len(fields))

	for name, v := range static {
		out[CleanTargetName(name)] = v
	}

	for _, f := range fields {
		value, ok := resolveSource(rec, f)
		if !ok {
			continue
		}

		if isDatetimeType(f.Type) {
			if ms, ok := ParseFlexibleDatetime(value); ok {
				value = ms
			}
		}
		out[CleanTargetName(f.Target)] = value
	}

	return out
}

func isDatetimeType(t string) bool {
	switch strings.ToLower(t) {
	case "datetime", "date", "timestamp":
		return true
	default:
		return false
	}
}

// resolveSource evaluates one field's source spec against rec. ok is false
// when the resolved candidate (or every candidate, under coalesce) was
// trivial, or the spec shape was unrecognized.
func resolveSource(rec map[string]any, f FieldSpec) (any, bool) {
	switch src := f.Source.(type) {
	case string:
		v := record.GetValueAtPath(rec, src, nil)
		if IsTrivial(v) {
			return nil, false
		}
		return v, true

	case []any:
		if len(src) == 0 {
			return nil, false
		}
		if strings.EqualFold(f.Transform, "coalesce") {
			for _, candidate := range src {
				path, ok := candidate.(string)
				if !ok {
					continue
				}
				v := record.GetValueAtPath(rec, path, nil)
				if !IsTrivial(v) {
					return v, true
				}
			}
			return nil, false
		}

		// No transform specified: default to the first source, per the
		// original's fallback behavior.
		path, ok := src[0].(string)
		if !ok {
			return nil, false
		}
		v := record.GetValueAtPath(rec, path, nil)
		if IsTrivial(v) {
			return nil, false
		}
		return v, true

	default:
		return nil, false
	}
}
