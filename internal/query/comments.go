package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/store"
)

// AddComment creates a new comment on eventID.
func AddComment(ctx context.Context, st store.Store, eventID, author, body string) (model.Comment, error) {
	now := time.Now().UnixMilli()
	c := model.Comment{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Author:    author,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.AddComment(ctx, c); err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

// UpdateCommentBody replaces an existing comment's body, bumping its
// updated-at timestamp.
func UpdateCommentBody(ctx context.Context, st store.Store, commentID, body string) error {
	return st.UpdateComment(ctx, model.Comment{ID: commentID, Body: body, UpdatedAt: time.Now().UnixMilli()})
}

// DeleteComment removes a comment by id.
func DeleteComment(ctx context.Context, st store.Store, commentID string) error {
	return st.DeleteComment(ctx, commentID)
}

// CommentsForEvent lists every comment on an event, oldest first.
func CommentsForEvent(ctx context.Context, st store.Store, eventID string) ([]model.Comment, error) {
	return st.CommentsForEvent(ctx, eventID)
}
