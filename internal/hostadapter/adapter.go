// Package hostadapter is the thin translation layer between a resolved
// hostconfig.Config and the pipeline packages (ingest, semanticmap, query).
// It is the only place that loads manifests from disk and opens the
// record store; ingest, semanticmap and query themselves never read
// hostconfig, and take their configuration as plain struct arguments, per
// the host-config boundary described in SPEC_FULL.md.
package hostadapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tideline/tideline/internal/dedup"
	"github.com/tideline/tideline/internal/hostconfig"
	"github.com/tideline/tideline/internal/ingest"
	"github.com/tideline/tideline/internal/manifest"
	"github.com/tideline/tideline/internal/query"
	"github.com/tideline/tideline/internal/semanticmap"
	"github.com/tideline/tideline/internal/store"
)

// Adapter owns the record store and exposes the three host-facing entry
// points: Extract, Map, and SearchEvents. A process holds exactly one
// Adapter for its lifetime.
type Adapter struct {
	cfg   hostconfig.Config
	store store.Store
	dedup dedup.Options
}

// Open resolves cfg into a live Adapter, opening the record store at
// cfg.DBPath. Call Close when done.
func Open(cfg hostconfig.Config) (*Adapter, error) {
	if err := hostconfig.Validate(cfg); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	return &Adapter{
		cfg:   cfg,
		store: st,
		dedup: dedup.Options{ToleranceMS: 2000},
	}, nil
}

// Close releases the underlying store.
func (a *Adapter) Close() error {
	return a.store.Close()
}

// Store returns the underlying record store, for CLI commands (like
// comment management) that talk to it directly rather than through a
// pipeline stage.
func (a *Adapter) Store() store.Store {
	return a.store
}

// Extract runs the extractor stage for platform against uploadDir, loading
// platform's manifest from cfg.ManifestDir.
func (a *Adapter) Extract(ctx context.Context, platform, uploadDir string) (ingest.Result, error) {
	mf, err := a.loadManifest(platform)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.Extract(ctx, ingest.Config{
		Platform:  platform,
		UploadDir: uploadDir,
		Manifest:  mf,
		Store:     a.store,
	})
}

// Map runs the semantic-mapper stage for an already-extracted upload.
func (a *Adapter) Map(ctx context.Context, platform, uploadID string) (semanticmap.Result, error) {
	mf, err := a.loadManifest(platform)
	if err != nil {
		return semanticmap.Result{}, err
	}
	return semanticmap.Map(ctx, semanticmap.Config{
		UploadID: uploadID,
		Manifest: mf,
		Store:    a.store,
		Dedup:    a.dedup,
	})
}

// SearchEvents runs a query.Request against the record store.
func (a *Adapter) SearchEvents(ctx context.Context, req query.Request) (query.Result, error) {
	return query.Search(ctx, a.store, req)
}

// loadManifest loads the named platform's manifest file from cfg.ManifestDir.
// Platform names are matched case-insensitively against "<platform>.yaml" and
// "<platform>.yml".
func (a *Adapter) loadManifest(platform string) (*manifest.Manifest, error) {
	candidates := []string{
		filepath.Join(a.cfg.ManifestDir, strings.ToLower(platform)+".yaml"),
		filepath.Join(a.cfg.ManifestDir, strings.ToLower(platform)+".yml"),
	}
	var lastErr error
	for _, path := range candidates {
		mf, err := manifest.LoadFromFile(path)
		if err == nil {
			return mf, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("loading manifest for platform %q from %s: %w", platform, a.cfg.ManifestDir, lastErr)
}
