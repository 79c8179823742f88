// Package query implements the search surface over stored events:
// free-text plus chip-based filtering (label/term/datetime chips, with
// must_not negation), pagination, and an Elastic-style result envelope.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/project"
)

// chipKind identifies how a chip is matched against an event.
type chipKind int

const (
	chipFreeText chipKind = iota
	chipLabel             // "field:value" -- matches event.Fields[field]
	chipTerm              // "term:value" -- same case-insensitive substring search as free text
	chipDatetime          // "datetime:start,end" -- matches event.TimestampMS against a closed range
)

// chip is one parsed query token.
type chip struct {
	kind  chipKind
	field string
	start string // for datetime chips: lower bound, "*" or empty means open
	end   string // for datetime chips: upper bound, "*" or empty means open
	value string
	not   bool
}

// parseQuery splits a free-text/chip query string into chips. Tokens are
// whitespace-separated, except for double-quoted spans which are kept
// intact as one token. A leading "-" negates the chip (must_not).
func parseQuery(query string) []chip {
	var chips []chip
	for _, raw := range tokenize(query) {
		token := raw
		negate := false
		if strings.HasPrefix(token, "-") {
			negate = true
			token = token[1:]
		}
		if token == "" {
			continue
		}
		chips = append(chips, parseToken(token, negate))
	}
	return chips
}

func parseToken(token string, negate bool) chip {
	if field, value, ok := strings.Cut(token, ":"); ok && field != "" {
		switch field {
		case "term":
			return chip{kind: chipTerm, value: value, not: negate}
		case "datetime":
			start, end := splitDatetimeRange(value)
			return chip{kind: chipDatetime, start: start, end: end, not: negate}
		default:
			return chip{kind: chipLabel, field: field, value: value, not: negate}
		}
	}
	return chip{kind: chipFreeText, value: token, not: negate}
}

// splitDatetimeRange parses a "start,end" closed range, where either side
// may be "*" (or omitted) to leave that bound open.
func splitDatetimeRange(value string) (string, string) {
	start, end, ok := strings.Cut(value, ",")
	if !ok {
		return strings.TrimSpace(value), "*"
	}
	return strings.TrimSpace(start), strings.TrimSpace(end)
}

// tokenize splits query on whitespace, keeping double-quoted spans intact.
func tokenize(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range query {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// matches reports whether ev satisfies this chip.
func (c chip) matches(ev model.Event) bool {
	var result bool
	switch c.kind {
	case chipFreeText, chipTerm:
		result = eventContainsText(ev, c.value)
	case chipLabel:
		result = strings.EqualFold(fmt.Sprint(ev.Fields[c.field]), c.value)
	case chipDatetime:
		result = matchesDatetime(ev, c)
	}
	if c.not {
		return !result
	}
	return result
}

func eventContainsText(ev model.Event, needle string) bool {
	needle = strings.ToLower(needle)
	haystacks := []string{ev.EventKind, ev.EventAction, ev.Message}
	for _, v := range ev.Fields {
		haystacks = append(haystacks, fmt.Sprint(v))
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// matchesDatetime implements the closed start,end range: either bound left
// as "*" (or empty) is open on that side.
func matchesDatetime(ev model.Event, c chip) bool {
	if c.start != "" && c.start != "*" {
		ms, ok := datetimeBoundMS(c.start)
		if ok && ev.TimestampMS < ms {
			return false
		}
	}
	if c.end != "" && c.end != "*" {
		ms, ok := datetimeBoundMS(c.end)
		if ok && ev.TimestampMS > ms {
			return false
		}
	}
	return true
}

// datetimeBoundMS reads an integer bound as an epoch value in the
// recognized window, else as raw milliseconds; anything else goes through
// the flexible datetime parser.
func datetimeBoundMS(value string) (int64, bool) {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms, ok := project.ParseFlexibleDatetime(float64(n)); ok {
			return ms, true
		}
		return n, true
	}
	return project.ParseFlexibleDatetime(value)
}

// CompileMatcher parses a chip/free-text query into a predicate function
// usable as store.SearchParams.Matches: an event matches only if every
// parsed chip matches it.
func CompileMatcher(query string) func(model.Event) bool {
	chips := parseQuery(query)
	return func(ev model.Event) bool {
		for _, c := range chips {
			if !c.matches(ev) {
				return false
			}
		}
		return true
	}
}
