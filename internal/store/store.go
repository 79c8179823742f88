// Package store implements the record store: the six-table schema (§6)
// backing uploads, uploaded files, raw records, events, the initial
// auth-device entity snapshot, and event comments.
package store

import (
	"context"

	"github.com/tideline/tideline/internal/model"
)

// Store is the storage abstraction every pipeline stage talks to. It is
// implemented by SQLiteStore; tests may substitute a fake.
type Store interface {
	// Uploads
	CreateUpload(ctx context.Context, upload model.Upload) error
	GetUpload(ctx context.Context, id string) (model.Upload, error)
	NextGivenName(ctx context.Context, platform string) (string, error)
	SetUploadParseState(ctx context.Context, id, state string) error
	DeleteUpload(ctx context.Context, id string) error

	// Uploaded files
	InsertUploadedFile(ctx context.Context, f model.UploadedFile) error
	UploadedFilesForUpload(ctx context.Context, uploadID string) ([]model.UploadedFile, error)

	// Raw records
	InsertRawRecords(ctx context.Context, records []model.RawRecord) error
	RawRecordsForUpload(ctx context.Context, uploadID string) ([]model.RawRecord, error)

	// Events and entities
	InsertEvents(ctx context.Context, events []model.Event) error
	InsertEntities(ctx context.Context, entities []model.Entity) error
	// InsertMappingResults inserts events and entities produced by one
	// semantic mapping run in a single transaction: a storage failure
	// partway through leaves neither table holding the run's partial
	// output.
	InsertMappingResults(ctx context.Context, events []model.Event, entities []model.Entity) error
	DeleteEvents(ctx context.Context, ids []string) error
	EventsForUpload(ctx context.Context, uploadID string) ([]model.Event, error)
	SearchEvents(ctx context.Context, params SearchParams) ([]model.Event, int, error)
	CountEventsByUpload(ctx context.Context, params SearchParams) (map[string]int, error)

	// Comments
	AddComment(ctx context.Context, c model.Comment) error
	UpdateComment(ctx context.Context, c model.Comment) error
	DeleteComment(ctx context.Context, id string) error
	CommentsForEvent(ctx context.Context, eventID string) ([]model.Comment, error)

	Close() error
}

// SearchParams is the lower-level query shape SearchEvents and
// CountEventsByUpload accept: a precompiled predicate plus pagination.
// internal/query builds this from the user-facing free-text/chip query.
type SearchParams struct {
	UploadID string // optional, restricts to one upload
	Matches  func(model.Event) bool
	Size     int
	From     int
	OrderAsc bool
}
