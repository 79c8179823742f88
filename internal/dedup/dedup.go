// Package dedup merges near-duplicate events produced by the semantic
// mapper: events of the same kind and action that land within a small
// timestamp tolerance of one another are folded into a single retained
// event, carrying forward the provenance (raw record and file ids) of
// every event folded into it.
package dedup

import (
	"fmt"
	"log/slog"
	"maps"
	"sort"

	"github.com/tideline/tideline/internal/model"
)

// ConflictPolicy selects how a field value disagreement between a
// retained event and an event being merged into it is resolved.
type ConflictPolicy string

const (
	// KeepOriginal silently keeps the retained event's existing value.
	KeepOriginal ConflictPolicy = "keep_original"
	// LogConflict keeps the retained event's existing value but records
	// the dropped value in a bounded "_conflict_<field>" list.
	LogConflict ConflictPolicy = "log_conflict"
)

// maxConflictEntries bounds the growth of each field's conflict list so a
// pathological run of disagreeing values cannot make a single event
// unboundedly large.
const maxConflictEntries = 100

// Options configures a Deduplicate run.
type Options struct {
	ToleranceMS     int64
	ExcludedActions map[string]bool
	ConflictPolicy  ConflictPolicy
}

// Deduplicate merges events per the package doc, returning a new slice; the
// input is left unmodified. Events with a zero timestamp, or whose
// EventAction is in ExcludedActions, bypass dedup entirely: they are never
// merged into anything and never receive anything merged into them, but
// are still present (and still sorted into place) in the output.
func Deduplicate(events []model.Event, opts Options) []model.Event {
	ordered := make([]model.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMS < ordered[j].TimestampMS
	})

	logger := slog.Default().With("component", "dedup")

	out := make([]model.Event, 0, len(ordered))
	retainedIndex := make(map[string]int) // dedup key -> index into out

	for _, ev := range ordered {
		if bypassesDedup(ev, opts) {
			out = append(out, ev)
			continue
		}

		key := dedupKey(ev)
		idx, exists := retainedIndex[key]
		if exists && ev.TimestampMS-out[idx].TimestampMS <= opts.ToleranceMS {
			mergeInto(&out[idx], ev, opts, logger)
			continue
		}

		// Merges write into the retained event's maps; give it its own
		// copies so the caller's events stay unmodified.
		ev.Fields = maps.Clone(ev.Fields)
		ev.ConflictNotes = maps.Clone(ev.ConflictNotes)
		out = append(out, ev)
		retainedIndex[key] = len(out) - 1
	}

	return out
}

func bypassesDedup(ev model.Event, opts Options) bool {
	if ev.TimestampMS == 0 {
		return true
	}
	return opts.ExcludedActions[ev.EventAction]
}

func dedupKey(ev model.Event) string {
	return ev.EventKind + "\x1f" + ev.EventAction
}

// mergeInto folds incoming into retained: provenance is unioned, and field
// conflicts are resolved per opts.ConflictPolicy.
func mergeInto(retained *model.Event, incoming model.Event, opts Options, logger *slog.Logger) {
	retained.Deduplicated = true
	retained.RawDataIDs = append(retained.RawDataIDs, incoming.RawDataIDs...)
	retained.FileIDs = append(retained.FileIDs, incoming.FileIDs...)
	retained.ExtraTimestamps = append(retained.ExtraTimestamps, incoming.TimestampMS)

	if retained.Fields == nil {
		retained.Fields = make(map[string]any)
	}

	for field, incomingValue := range incoming.Fields {
		existingValue, hasExisting := retained.Fields[field]
		if !hasExisting {
			retained.Fields[field] = incomingValue
			continue
		}
		if fmt.Sprint(existingValue) == fmt.Sprint(incomingValue) {
			continue
		}

		switch opts.ConflictPolicy {
		case LogConflict:
			recordConflict(retained, field, existingValue, incomingValue, incoming.TimestampMS, logger)
		default: // KeepOriginal
		}
	}
}

func recordConflict(retained *model.Event, field string, original, newValue any, timestampMS int64, logger *slog.Logger) {
	if retained.ConflictNotes == nil {
		retained.ConflictNotes = make(map[string][]any)
	}
	key := "_conflict_" + field
	if len(retained.ConflictNotes[key]) >= maxConflictEntries {
		logger.Warn("conflict list truncated", "event_id", retained.ID, "field", field)
		return
	}
	retained.ConflictNotes[key] = append(retained.ConflictNotes[key], map[string]any{
		"original":  original,
		"new":       newValue,
		"timestamp": timestampMS,
	})
}
