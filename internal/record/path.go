// Package record implements the small path language used to pull values out
// of a decoded record: dotted field names, quoted keys containing special
// characters, and numeric list indices, e.g. "payload.items[0].'display-name'".
package record

import (
	"regexp"
	"strconv"
)

// segmentPattern mirrors the original path grammar: a single-quoted literal
// key, a bracketed integer index, or a bare (unquoted, unbracketed) segment.
var segmentPattern = regexp.MustCompile(`'([^']*)'|\[(\d+)\]|([^.\[\]]+)`)

// segment is one parsed path component.
type segment struct {
	key      string
	index    int
	isIndex  bool
	isLookup bool
}

// parsePath splits a path string into its ordered segments.
func parsePath(path string) []segment {
	matches := segmentPattern.FindAllStringSubmatch(path, -1)
	segments := make([]segment, 0, len(matches))
	for _, m := range matches {
		switch {
		case len(m[0]) > 0 && m[0][0] == '\'':
			// quoted literal; m[1] holds the inner text and may legitimately be "".
			segments = append(segments, segment{key: m[1], isLookup: true})
		case m[2] != "":
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			segments = append(segments, segment{index: idx, isIndex: true})
		default:
			segments = append(segments, segment{key: m[3], isLookup: true})
		}
	}
	return segments
}

// GetValueAtPath resolves path against data, returning def if any segment
// fails to resolve (missing key, out-of-range index, or a type mismatch
// between the segment kind and the current value).
func GetValueAtPath(data any, path string, def any) any {
	if path == "" {
		return def
	}
	current := data
	for _, seg := range parsePath(path) {
		switch {
		case seg.isIndex:
			list, ok := current.([]any)
			if !ok || seg.index < 0 || seg.index >= len(list) {
				return def
			}
			current = list[seg.index]
		case seg.isLookup:
			mapping, ok := current.(map[string]any)
			if !ok {
				return def
			}
			v, found := mapping[seg.key]
			if !found {
				return def
			}
			current = v
		default:
			return def
		}
	}
	return current
}

// HasPath reports whether path resolves to any value (including an explicit
// null/nil) within data.
func HasPath(data any, path string) bool {
	sentinel := &struct{}{}
	return GetValueAtPath(data, path, sentinel) != sentinel
}
