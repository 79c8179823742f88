package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tideline/tideline/internal/model"
)

func TestDeduplicateMergesWithinTolerance(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "message", EventAction: "sms", TimestampMS: 1000, RawDataIDs: []string{"r1"}, Fields: map[string]any{"body": "hi"}},
		{ID: "b", EventKind: "message", EventAction: "sms", TimestampMS: 1500, RawDataIDs: []string{"r2"}, Fields: map[string]any{"body": "hi"}},
	}

	out := Deduplicate(events, Options{ToleranceMS: 2000, ConflictPolicy: KeepOriginal})
	require.Len(t, out, 1)
	assert.True(t, out[0].Deduplicated)
	assert.ElementsMatch(t, []string{"r1", "r2"}, out[0].RawDataIDs)
}

func TestDeduplicateOutsideToleranceStaysSeparate(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "message", EventAction: "sms", TimestampMS: 1000},
		{ID: "b", EventKind: "message", EventAction: "sms", TimestampMS: 100000},
	}

	out := Deduplicate(events, Options{ToleranceMS: 2000})
	require.Len(t, out, 2)
	assert.False(t, out[0].Deduplicated)
	assert.False(t, out[1].Deduplicated)
}

func TestDeduplicateZeroTimestampBypasses(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "message", EventAction: "sms", TimestampMS: 0},
		{ID: "b", EventKind: "message", EventAction: "sms", TimestampMS: 0},
	}

	out := Deduplicate(events, Options{ToleranceMS: 5000})
	require.Len(t, out, 2)
}

func TestDeduplicateExcludedActionBypasses(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "call", EventAction: "ring", TimestampMS: 1000},
		{ID: "b", EventKind: "call", EventAction: "ring", TimestampMS: 1500},
	}

	out := Deduplicate(events, Options{
		ToleranceMS:     5000,
		ExcludedActions: map[string]bool{"ring": true},
	})
	require.Len(t, out, 2)
}

func TestDeduplicateLogConflictRecordsDroppedValue(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "message", EventAction: "sms", TimestampMS: 1000, Fields: map[string]any{"sender": "alice"}},
		{ID: "b", EventKind: "message", EventAction: "sms", TimestampMS: 1500, Fields: map[string]any{"sender": "bob"}},
	}

	out := Deduplicate(events, Options{ToleranceMS: 2000, ConflictPolicy: LogConflict})
	require.Len(t, out, 1)
	assert.Equal(t, "alice", out[0].Fields["sender"])
	require.Len(t, out[0].ConflictNotes["_conflict_sender"], 1)
	assert.Equal(t, map[string]any{"original": "alice", "new": "bob", "timestamp": int64(1500)}, out[0].ConflictNotes["_conflict_sender"][0])
}

func TestDeduplicateAppendsExtraTimestamps(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "a", EventKind: "message", EventAction: "sms", TimestampMS: 1000, Fields: map[string]any{"body": "hi"}},
		{ID: "b", EventKind: "message", EventAction: "sms", TimestampMS: 1050, Fields: map[string]any{"body": "hi"}},
	}

	out := Deduplicate(events, Options{ToleranceMS: 2000, ConflictPolicy: KeepOriginal})
	require.Len(t, out, 1)
	assert.Equal(t, []int64{1050}, out[0].ExtraTimestamps)
}

func TestDeduplicateConflictListIsBounded(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "base", EventKind: "k", EventAction: "a", TimestampMS: 1, Fields: map[string]any{"f": "v0"}},
	}
	for i := 0; i < 150; i++ {
		events = append(events, model.Event{
			ID: "dup", EventKind: "k", EventAction: "a", TimestampMS: int64(2 + i),
			Fields: map[string]any{"f": i},
		})
	}

	out := Deduplicate(events, Options{ToleranceMS: 10000, ConflictPolicy: LogConflict})
	require.Len(t, out, 1)
	assert.LessOrEqual(t, len(out[0].ConflictNotes["_conflict_f"]), 100)
}
