// Package ingest implements the extractor stage: walking a staging
// directory produced by unpacking a consumer export archive, resolving
// each entry against the manifest, decoding it, and persisting the
// resulting raw records.
//
// Per the concurrency model, a single Extract run processes its files
// strictly sequentially -- there is no intra-stage parallelism here, only
// the sequential I/O of reading one file, decoding it, and writing its
// records before moving to the next.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tideline/tideline/internal/apperr"
	"github.com/tideline/tideline/internal/manifest"
	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/noise"
	"github.com/tideline/tideline/internal/store"
)

// Config is the explicit argument set for one Extract run. Per Design
// Notes §9, hosts never inject this through package-level globals; the
// CLI's hostadapter layer is the only place defaults are applied.
type Config struct {
	Platform   string
	UploadDir  string
	Manifest   *manifest.Manifest
	Store      store.Store
	NoiseFiles []string // extra ignore-file lines, beyond the built-in noise patterns
}

// Result summarizes one Extract run for the caller.
type Result struct {
	Upload       model.Upload
	FilesWalked  int
	FilesMatched int
	FilesSkipped int
	Warnings     []error
}

// Extract walks cfg.UploadDir, resolves each entry against cfg.Manifest,
// decodes matched files, and persists the resulting UploadedFile and
// RawRecord rows. It returns a fatal *apperr.Error (wrapped) when the
// staging directory is missing or entirely empty of eligible files;
// per-file decode failures are recorded as warnings and do not abort the
// run.
func Extract(ctx context.Context, cfg Config) (Result, error) {
	logger := slog.Default().With("component", "ingest")

	info, err := os.Stat(cfg.UploadDir)
	if err != nil || !info.IsDir() {
		return Result{}, apperr.Fatalf("extraction_staging_missing",
			fmt.Sprintf("staging directory %s is missing or not a directory", cfg.UploadDir), err)
	}

	entries, err := collectStagingFiles(cfg.UploadDir, noise.New(cfg.NoiseFiles))
	if err != nil {
		return Result{}, apperr.Fatalf("extraction_walk_failed", "walking staging directory failed", err)
	}
	if len(entries) == 0 {
		return Result{}, apperr.Fatalf("staging_empty", fmt.Sprintf("staging directory %s has no eligible files", cfg.UploadDir), nil)
	}

	givenName, err := cfg.Store.NextGivenName(ctx, cfg.Platform)
	if err != nil {
		return Result{}, apperr.Fatalf("extraction_store_failed", "resolving upload name failed", err)
	}

	upload := model.Upload{
		ID:         uuid.NewString(),
		Platform:   cfg.Platform,
		GivenName:  givenName,
		CreatedAt:  time.Now().UnixMilli(),
		ParseState: model.ParseStatePending,
	}
	if err := cfg.Store.CreateUpload(ctx, upload); err != nil {
		return Result{}, apperr.Fatalf("extraction_store_failed", "creating upload record failed", err)
	}

	result := Result{Upload: upload, FilesWalked: len(entries)}

	for _, relPath := range entries {
		absPath := filepath.Join(cfg.UploadDir, relPath)
		if err := extractOneFile(ctx, cfg, upload, relPath, absPath, logger, &result); err != nil {
			_ = cfg.Store.SetUploadParseState(ctx, upload.ID, model.ParseStateFailed)
			return result, err
		}
	}

	finalState := model.ParseStateComplete
	if result.FilesMatched == 0 {
		finalState = model.ParseStateFailed
	}
	if err := cfg.Store.SetUploadParseState(ctx, upload.ID, finalState); err != nil {
		return result, apperr.Fatalf("extraction_store_failed", "finalizing upload state failed", err)
	}
	upload.ParseState = finalState
	result.Upload = upload

	return result, nil
}

func extractOneFile(ctx context.Context, cfg Config, upload model.Upload, relPath, absPath string, logger *slog.Logger, result *Result) error {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return apperr.Fatalf("extraction_read_failed", fmt.Sprintf("reading %s failed", relPath), err)
	}

	sum := sha256.Sum256(data)
	sha := hex.EncodeToString(sum[:])

	uploadedFile := model.UploadedFile{
		ID:        uuid.NewString(),
		UploadID:  upload.ID,
		Path:      relPath,
		SHA256:    sha,
		SizeBytes: int64(len(data)),
	}

	entry, matched := cfg.Manifest.ResolveFileEntry(relPath)
	if !matched {
		uploadedFile.ParseStatus = model.FileStatusSkipped
		result.FilesSkipped++
		if err := cfg.Store.InsertUploadedFile(ctx, uploadedFile); err != nil {
			return apperr.Fatalf("extraction_store_failed", "recording skipped file failed", err)
		}
		return nil
	}
	uploadedFile.ManifestFileID = entry.ID
	result.FilesMatched++

	decoder, err := buildDecoder(entry)
	if err != nil {
		uploadedFile.ParseStatus = model.FileStatusFailed
		result.Warnings = append(result.Warnings, apperr.Warningf("manifest_parser_invalid", relPath, err))
		return cfg.Store.InsertUploadedFile(ctx, uploadedFile)
	}

	records, decodeErrs := decoder.Decode(data)
	for _, de := range decodeErrs {
		result.Warnings = append(result.Warnings, de)
		if de.Level == apperr.Fatal {
			uploadedFile.ParseStatus = model.FileStatusFailed
		}
	}

	if len(records) == 0 {
		if uploadedFile.ParseStatus == "" {
			uploadedFile.ParseStatus = model.FileStatusFailed
		}
		logger.Warn("file produced no records", "path", relPath)
	} else if uploadedFile.ParseStatus == model.FileStatusFailed {
		uploadedFile.ParseStatus = model.FileStatusPartial
	} else {
		uploadedFile.ParseStatus = model.FileStatusOK
	}

	if err := cfg.Store.InsertUploadedFile(ctx, uploadedFile); err != nil {
		return apperr.Fatalf("extraction_store_failed", "recording uploaded file failed", err)
	}

	rawRecords := make([]model.RawRecord, len(records))
	for i, rec := range records {
		rawRecords[i] = model.RawRecord{
			ID:             uuid.NewString(),
			UploadID:       upload.ID,
			UploadedFileID: uploadedFile.ID,
			ManifestFileID: entry.ID,
			Seq:            i,
			Data:           rec,
		}
	}
	if err := cfg.Store.InsertRawRecords(ctx, rawRecords); err != nil {
		return apperr.Fatalf("extraction_store_failed", "persisting raw records failed", err)
	}

	return nil
}

// collectStagingFiles walks root, skipping directories and noise
// entries, returning every remaining file's path relative to root.
func collectStagingFiles(root string, filter *noise.Filter) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if filter.IsNoise(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.IsNoise(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}
