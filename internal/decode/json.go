package decode

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/record"
)

// JSONOptions configures the JSON decoder.
type JSONOptions struct {
	// Root is an optional path (internal/record grammar) navigated into the
	// decoded document before it is treated as a record or list of records.
	Root string
}

// JSONDecoder decodes a whole-file JSON document into one or more records,
// tolerating progressively messier input through a tiered fallback chain:
// strict JSON, then single-quoted strings, then trailing commas, then
// unquoted object keys, then a maximally lenient pass combining all three
// relaxations plus comment stripping. Each tier is tried in order; the
// first one that parses successfully wins.
type JSONDecoder struct {
	opts JSONOptions
}

// NewJSONDecoder constructs a JSONDecoder.
func NewJSONDecoder(opts JSONOptions) *JSONDecoder {
	return &JSONDecoder{opts: opts}
}

// jsonTiers are applied cumulatively: tier i includes every relaxation of
// tiers 0..i-1 plus its own.
var jsonTiers = []func(string) string{
	func(s string) string { return s }, // strict
	singleQuoteToDouble,
	stripTrailingCommas,
	quoteUnquotedKeys,
	// Comments can hide a bare key or a trailing comma from the passes
	// above, so once they are stripped those two passes run again.
	func(s string) string { return quoteUnquotedKeys(stripTrailingCommas(stripJSONComments(s))) },
}

func (d *JSONDecoder) Decode(data []byte) ([]model.Record, []*DecodeError) {
	text := string(data)
	var lastErr error

	for i := range jsonTiers {
		candidate := text
		for _, t := range jsonTiers[:i+1] {
			candidate = t(candidate)
		}

		var doc any
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			lastErr = err
			continue
		}

		if d.opts.Root != "" {
			doc = record.GetValueAtPath(doc, d.opts.Root, nil)
		}

		return normalizeJSONDoc(doc), nil
	}

	return nil, []*DecodeError{fatal("json_decode_failed", "could not decode JSON after all fallback tiers", lastErr)}
}

// normalizeJSONDoc flattens a decoded document into a list of records. A
// bare object becomes a single-element list; an array of objects is
// returned as-is; non-object array elements are skipped with no error
// (the original tolerates mixed-shape arrays silently).
func normalizeJSONDoc(doc any) []model.Record {
	switch v := doc.(type) {
	case map[string]any:
		return []model.Record{v}
	case []any:
		records := make([]model.Record, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, m)
			}
		}
		return records
	default:
		return nil
	}
}

var singleQuotedStringPattern = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)

// singleQuoteToDouble rewrites single-quoted JSON strings (keys or values)
// to double-quoted ones, re-escaping any literal double quotes already
// inside the string.
func singleQuoteToDouble(s string) string {
	return singleQuotedStringPattern.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[1 : len(m)-1]
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	})
}

var trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

// stripTrailingCommas removes a comma immediately preceding a closing
// brace or bracket, tolerating the trailing-comma style many hand-edited
// JSON exports use.
func stripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

var unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)

// quoteUnquotedKeys adds double quotes around bare object keys, the
// ES5-object-literal style some exports use instead of strict JSON.
func quoteUnquotedKeys(s string) string {
	return unquotedKeyPattern.ReplaceAllString(s, `$1"$2":`)
}

var (
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// stripJSONComments removes // and /* */ style comments, the last and most
// permissive tier, for exports that embed human annotations in what is
// otherwise JSON.
func stripJSONComments(s string) string {
	s = blockCommentPattern.ReplaceAllString(s, "")
	s = lineCommentPattern.ReplaceAllString(s, "")
	return s
}
