// Package semanticmap implements the semantic mapper stage: replaying a
// previously extracted upload's raw records through its manifest's views
// to produce typed Events and Entities, then deduplicating the resulting
// events before persisting them.
package semanticmap

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tideline/tideline/internal/apperr"
	"github.com/tideline/tideline/internal/dedup"
	"github.com/tideline/tideline/internal/manifest"
	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/project"
	"github.com/tideline/tideline/internal/store"
)

// Config is the explicit argument set for one Map run.
type Config struct {
	UploadID string
	Manifest *manifest.Manifest
	Store    store.Store
	Dedup    dedup.Options
}

// Result summarizes one Map run.
type Result struct {
	EventsProduced   int
	EntitiesProduced int
	RecordsSkipped   int
}

// Map fetches every raw record belonging to cfg.UploadID, applies each
// record's manifest views, dispatches the projected fields to an Event or
// Entity, deduplicates the resulting events, and persists everything in a
// single transaction. A storage failure at the end leaves neither table
// holding this run's output.
func Map(ctx context.Context, cfg Config) (Result, error) {
	logger := slog.Default().With("component", "semanticmap")

	records, err := cfg.Store.RawRecordsForUpload(ctx, cfg.UploadID)
	if err != nil {
		return Result{}, apperr.Fatalf("mapping_store_failed", "loading raw records failed", err)
	}

	var events []model.Event
	var entities []model.Entity
	result := Result{}

	// Raw records are loaded ordered by (manifest_file_id, seq), so
	// consecutive records already form each file's group; there is no
	// need for an extra grouping pass.
	var currentFileID string
	var views []manifest.View

	for _, rec := range records {
		if rec.ManifestFileID != currentFileID {
			currentFileID = rec.ManifestFileID
			views = cfg.Manifest.ViewsForFileID(currentFileID)
		}

		matchedAny := false
		for _, view := range views {
			if !view.Matcher.Eval(rec.Data) {
				continue
			}
			matchedAny = true

			fields := project.Project(rec.Data, view.Static, view.Fields)
			dispatched, ok := dispatch(rec, fields)
			if !ok {
				result.RecordsSkipped++
				logger.Debug("record missing required dispatch fields", "raw_record_id", rec.ID)
				continue
			}

			switch v := dispatched.(type) {
			case model.Event:
				events = append(events, v)
			case model.Entity:
				entities = append(entities, v)
			}
		}

		if !matchedAny {
			result.RecordsSkipped++
		}
	}

	events = dedup.Deduplicate(events, cfg.Dedup)

	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
	}
	for i := range entities {
		if entities[i].ID == "" {
			entities[i].ID = uuid.NewString()
		}
	}

	if err := cfg.Store.InsertMappingResults(ctx, events, entities); err != nil {
		return result, apperr.Fatalf("mapping_store_failed", "persisting mapped events and entities failed", err)
	}

	result.EventsProduced = len(events)
	result.EntitiesProduced = len(entities)
	return result, nil
}

// dispatch turns one view's projected fields into either a model.Event or
// a model.Entity, based on whether "entity_type" is present. Returns
// ok=false when the required reserved fields for the chosen shape are
// missing, in which case the record is skipped rather than stored
// half-populated.
func dispatch(rec model.RawRecord, fields map[string]any) (any, bool) {
	if entityType, ok := popString(fields, fieldEntityType); ok && entityType != "" {
		delete(fields, fieldEventKind)
		delete(fields, fieldEventAction)
		delete(fields, fieldTimestamp)
		return model.Entity{
			UploadID:   rec.UploadID,
			EntityType: entityType,
			Fields:     fields,
			RawDataIDs: []string{rec.ID},
			FileIDs:    []string{rec.UploadedFileID},
		}, true
	}

	kind, hasKind := popString(fields, fieldEventKind)
	action, hasAction := popString(fields, fieldEventAction)
	if !hasKind || !hasAction || kind == "" || action == "" {
		return nil, false
	}
	timestampMS := popTimestamp(fields)

	return model.Event{
		UploadID:    rec.UploadID,
		EventKind:   kind,
		EventAction: action,
		Message:     messageForAction(action),
		TimestampMS: timestampMS,
		Fields:      fields,
		RawDataIDs:  []string{rec.ID},
		FileIDs:     []string{rec.UploadedFileID},
	}, true
}
