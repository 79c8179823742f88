package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tideline/tideline/internal/manifest"
	"github.com/tideline/tideline/internal/model"
	"github.com/tideline/tideline/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const testManifest = `
files:
  - id: messages
    path: messages.json
    parser:
      format: json
`

func TestExtractStagingMissing(t *testing.T) {
	m, err := manifest.LoadFromBytes([]byte(testManifest))
	require.NoError(t, err)

	_, err = Extract(context.Background(), Config{
		Platform:  "android",
		UploadDir: "/nonexistent/path/xyz",
		Manifest:  m,
		Store:     newTestStore(t),
	})
	require.Error(t, err)
}

func TestExtractStagingEmpty(t *testing.T) {
	m, err := manifest.LoadFromBytes([]byte(testManifest))
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = Extract(context.Background(), Config{
		Platform:  "android",
		UploadDir: dir,
		Manifest:  m,
		Store:     newTestStore(t),
	})
	require.Error(t, err)
}

func TestExtractHappyPath(t *testing.T) {
	m, err := manifest.LoadFromBytes([]byte(testManifest))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.json"), []byte(`[{"kind":"sms"},{"kind":"mms"}]`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "__MACOSX"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__MACOSX", "junk"), []byte("junk"), 0o644))

	s := newTestStore(t)
	result, err := Extract(context.Background(), Config{
		Platform:  "android",
		UploadDir: dir,
		Manifest:  m,
		Store:     s,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesMatched)
	require.Equal(t, model.ParseStateComplete, result.Upload.ParseState)

	records, err := s.RawRecordsForUpload(context.Background(), result.Upload.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestExtractUnresolvedFileIsSkipped(t *testing.T) {
	m, err := manifest.LoadFromBytes([]byte(testManifest))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("hello"), 0o644))

	s := newTestStore(t)
	result, err := Extract(context.Background(), Config{
		Platform:  "android",
		UploadDir: dir,
		Manifest:  m,
		Store:     s,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesSkipped)
	require.Equal(t, model.ParseStateFailed, result.Upload.ParseState)
}

func TestExtractAutoNaming(t *testing.T) {
	m, err := manifest.LoadFromBytes([]byte(testManifest))
	require.NoError(t, err)
	s := newTestStore(t)

	dir1 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir1, "messages.json"), []byte(`{"kind":"sms"}`), 0o644))
	r1, err := Extract(context.Background(), Config{Platform: "android", UploadDir: dir1, Manifest: m, Store: s})
	require.NoError(t, err)
	require.Equal(t, "android", r1.Upload.GivenName)

	dir2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "messages.json"), []byte(`{"kind":"sms"}`), 0o644))
	r2, err := Extract(context.Background(), Config{Platform: "android", UploadDir: dir2, Manifest: m, Store: s})
	require.NoError(t, err)
	require.Equal(t, "android 2", r2.Upload.GivenName)
}
