// Package model defines the data types shared across every tideline pipeline
// stage: uploads, the files within them, the raw records an extraction run
// produces, and the events/entities a semantic mapping run derives from
// those raw records.
package model

// Upload represents a single ingestion run: one archive (or staging
// directory) attributed to one platform.
type Upload struct {
	ID         string
	Platform   string
	GivenName  string
	CreatedAt  int64
	ParseState string // "pending" | "complete" | "failed"
}

// Upload parse states.
const (
	ParseStatePending  = "pending"
	ParseStateComplete = "complete"
	ParseStateFailed   = "failed"
)

// UploadedFile records one file discovered during extraction and the
// manifest entry (if any) it resolved against.
type UploadedFile struct {
	ID             string
	UploadID       string
	Path           string // path relative to the staging root, as found on disk ("___" flattening kept)
	ManifestFileID string // empty if no manifest entry matched
	SHA256         string
	SizeBytes      int64
	ParseStatus    string // "ok" | "partial" | "failed" | "skipped"
}

// UploadedFile parse statuses.
const (
	FileStatusOK      = "ok"
	FileStatusPartial = "partial"
	FileStatusFailed  = "failed"
	FileStatusSkipped = "skipped"
)

// RawRecord is one decoded record produced by an extraction run, still in
// its raw structured-text shape, tagged with enough provenance for the
// mapper stage to replay it later.
type RawRecord struct {
	ID             string
	UploadID       string
	UploadedFileID string
	ManifestFileID string
	Seq            int // order within the source file, preserved for grouping
	Data           Record
}

// Record is the recursive dynamic value a decoder produces: a
// map[string]any whose values may themselves be maps, slices, strings,
// float64s, bools, or nil, mirroring encoding/json's native decode shape.
type Record = map[string]any

// Event is a timestamped, typed fact derived from one or more raw records
// by the semantic mapper, after deduplication.
type Event struct {
	ID              string
	UploadID        string
	EventKind       string
	EventAction     string
	Message         string // human-readable summary, derived from EventAction via a lookup table
	TimestampMS     int64
	ExtraTimestamps []int64 // timestamps of events merged into this one during dedup
	Fields          map[string]any
	RawDataIDs      []string
	FileIDs         []string
	Deduplicated    bool
	ConflictNotes   map[string][]any // "_conflict_<field>" -> bounded list of {original, new, timestamp} triples
}

// Entity is a non-event fact derived by the semantic mapper (e.g. an
// initial auth device record), keyed by entity_type rather than
// event_kind/event_action.
type Entity struct {
	ID         string
	UploadID   string
	EntityType string
	Fields     map[string]any
	RawDataIDs []string
	FileIDs    []string
}

// Comment is a free-text annotation attached to an Event.
type Comment struct {
	ID        string
	EventID   string
	Author    string
	Body      string
	CreatedAt int64
	UpdatedAt int64
}
