package project

import "strings"

// IsTrivial reports whether v counts as "no value" for coalesce purposes:
// nil, a string that is empty or all whitespace, an empty list, or a list
// whose every element is itself trivial.
func IsTrivial(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		for _, item := range t {
			if !IsTrivial(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
