package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tideline/tideline/internal/apperr"
	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/store"
)

// Envelope wraps one matched event the way Elasticsearch wraps a hit:
// a stable id, the index (here, always "events") it came from, and the
// source document itself.
type Envelope struct {
	ID     string         `json:"_id"`
	Index  string         `json:"_index"`
	Source map[string]any `json:"_source"`
}

// Request is the user-facing search request.
type Request struct {
	UploadID string // optional; empty searches across every upload
	Query    string // free-text plus chip syntax, see chips.go
	Size     int
	From     int
	OrderAsc bool
}

// Result is the full response for one search request.
type Result struct {
	Hits           []Envelope
	Total          int
	CountsByUpload map[string]int
}

// Search runs a search request against st, issuing the three independent
// reads it needs (matched page, total count, per-upload counts)
// concurrently via errgroup: these are all reads against an
// already-committed events table, so there is no write-ordering
// constraint they could violate.
func Search(ctx context.Context, st store.Store, req Request) (Result, error) {
	matcher := CompileMatcher(req.Query)

	baseParams := store.SearchParams{
		UploadID: req.UploadID,
		Matches:  matcher,
		OrderAsc: req.OrderAsc,
	}

	var hits []model.Event
	var total int
	var countsByUpload map[string]int

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pageParams := baseParams
		pageParams.Size = req.Size
		pageParams.From = req.From
		page, _, err := st.SearchEvents(gctx, pageParams)
		hits = page
		return err
	})

	g.Go(func() error {
		_, count, err := st.SearchEvents(gctx, store.SearchParams{UploadID: req.UploadID, Matches: matcher})
		total = count
		return err
	})

	g.Go(func() error {
		counts, err := st.CountEventsByUpload(gctx, store.SearchParams{UploadID: req.UploadID, Matches: matcher})
		countsByUpload = counts
		return err
	})

	if err := g.Wait(); err != nil {
		return Result{}, apperr.Fatalf("search_store_failed", "running search query failed", err)
	}

	envelopes := make([]Envelope, 0, len(hits))
	for _, ev := range hits {
		envelopes = append(envelopes, toEnvelope(ev))
	}

	return Result{Hits: envelopes, Total: total, CountsByUpload: countsByUpload}, nil
}

func toEnvelope(ev model.Event) Envelope {
	source := make(map[string]any, len(ev.Fields)+6)
	for k, v := range ev.Fields {
		source[k] = v
	}
	source["event_kind"] = ev.EventKind
	source["event_action"] = ev.EventAction
	source["message"] = ev.Message
	source["timestamp"] = ev.TimestampMS
	source["extra_timestamps"] = ev.ExtraTimestamps
	source["upload_id"] = ev.UploadID

	return Envelope{ID: ev.ID, Index: "events", Source: source}
}
