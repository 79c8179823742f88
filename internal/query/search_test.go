package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.CreateUpload(ctx, model.Upload{ID: "u1", Platform: "android", GivenName: "android"}))
	require.NoError(t, s.InsertEvents(ctx, []model.Event{
		{ID: "e1", UploadID: "u1", EventKind: "message", EventAction: "sms", TimestampMS: 1000, Fields: map[string]any{"body": "hello world", "sender": "alice"}},
		{ID: "e2", UploadID: "u1", EventKind: "message", EventAction: "mms", TimestampMS: 2000, Fields: map[string]any{"body": "goodbye", "sender": "bob"}},
		{ID: "e3", UploadID: "u1", EventKind: "call", EventAction: "ring", TimestampMS: 3000, Fields: map[string]any{"sender": "alice"}},
	}))
	return s
}

func TestSearchFreeText(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	result, err := Search(ctx, s, Request{Query: "hello", Size: 10})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	require.Equal(t, "e1", result.Hits[0].ID)
	require.Equal(t, "events", result.Hits[0].Index)
}

func TestSearchLabelChip(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	result, err := Search(ctx, s, Request{Query: "sender:alice", Size: 10})
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
}

func TestSearchMustNot(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	result, err := Search(ctx, s, Request{Query: "sender:alice -sender:alice", Size: 10})
	require.NoError(t, err)
	require.Equal(t, 0, result.Total)
}

func TestSearchDatetimeChip(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	result, err := Search(ctx, s, Request{Query: "datetime:1500,*", Size: 10})
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
}

func TestSearchPaginationAndCounts(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	result, err := Search(ctx, s, Request{Query: "", Size: 1, From: 0, OrderAsc: true})
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	require.Len(t, result.Hits, 1)
	require.Equal(t, 3, result.CountsByUpload["u1"])
}

func TestCommentCRUD(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	c, err := AddComment(ctx, s, "e1", "investigator", "looks relevant")
	require.NoError(t, err)

	require.NoError(t, UpdateCommentBody(ctx, s, c.ID, "updated note"))

	comments, err := CommentsForEvent(ctx, s, "e1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "updated note", comments[0].Body)

	require.NoError(t, DeleteComment(ctx, s, c.ID))
	comments, err = CommentsForEvent(ctx, s, "e1")
	require.NoError(t, err)
	require.Empty(t, comments)
}
