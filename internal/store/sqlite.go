package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tideline/tideline/internal/model"
)

// SQLiteStore is the modernc.org/sqlite-backed Store implementation. It
// runs entirely in pure Go, no cgo, so it cross-compiles the same way the
// rest of the module does.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (if necessary) and opens a SQLite database at path,
// applying the schema. Pass ":memory:" for an ephemeral database, used
// throughout this module's own tests.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite only supports one writer; keep it simple.

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateUpload(ctx context.Context, u model.Upload) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, platform, given_name, created_at, parse_state) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Platform, u.GivenName, u.CreatedAt, u.ParseState,
	)
	return err
}

func (s *SQLiteStore) GetUpload(ctx context.Context, id string) (model.Upload, error) {
	var u model.Upload
	row := s.db.QueryRowContext(ctx,
		`SELECT id, platform, given_name, created_at, parse_state FROM uploads WHERE id = ?`, id)
	err := row.Scan(&u.ID, &u.Platform, &u.GivenName, &u.CreatedAt, &u.ParseState)
	return u, err
}

// NextGivenName returns "platform" if no upload for that platform exists
// yet, otherwise "platform N" where N is one past the current count, per
// the auto-naming rule in §3.
func (s *SQLiteStore) NextGivenName(ctx context.Context, platform string) (string, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads WHERE platform = ?`, platform)
	if err := row.Scan(&count); err != nil {
		return "", err
	}
	if count == 0 {
		return platform, nil
	}
	return fmt.Sprintf("%s %d", platform, count+1), nil
}

func (s *SQLiteStore) SetUploadParseState(ctx context.Context, id, state string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE uploads SET parse_state = ? WHERE id = ?`, state, id)
	return err
}

// DeleteUpload removes an upload and everything derived from it: uploaded
// files, raw records, events and their comments, and entities. This runs
// as a single transaction so a failure partway through leaves nothing
// half-deleted.
func (s *SQLiteStore) DeleteUpload(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM event_comments WHERE event_id IN (SELECT id FROM events WHERE upload_id = ?)`,
		`DELETE FROM events WHERE upload_id = ?`,
		`DELETE FROM auth_devices_initial WHERE upload_id = ?`,
		`DELETE FROM raw_data WHERE upload_id = ?`,
		`DELETE FROM uploaded_files WHERE upload_id = ?`,
		`DELETE FROM uploads WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting upload %s: %w", id, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) InsertUploadedFile(ctx context.Context, f model.UploadedFile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploaded_files (id, upload_id, path, manifest_file_id, sha256, size_bytes, parse_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UploadID, f.Path, f.ManifestFileID, f.SHA256, f.SizeBytes, f.ParseStatus,
	)
	return err
}

func (s *SQLiteStore) UploadedFilesForUpload(ctx context.Context, uploadID string) ([]model.UploadedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, path, manifest_file_id, sha256, size_bytes, parse_status
		 FROM uploaded_files WHERE upload_id = ?`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UploadedFile
	for rows.Next() {
		var f model.UploadedFile
		if err := rows.Scan(&f.ID, &f.UploadID, &f.Path, &f.ManifestFileID, &f.SHA256, &f.SizeBytes, &f.ParseStatus); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertRawRecords(ctx context.Context, records []model.RawRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO raw_data (id, upload_id, uploaded_file_id, manifest_file_id, seq, data)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		data, err := json.Marshal(r.Data)
		if err != nil {
			return fmt.Errorf("marshaling raw record %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.UploadID, r.UploadedFileID, r.ManifestFileID, r.Seq, string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RawRecordsForUpload returns every raw record for uploadID ordered by
// manifest_file_id then seq, so callers can group consecutive records by
// source file without an extra sort pass.
func (s *SQLiteStore) RawRecordsForUpload(ctx context.Context, uploadID string) ([]model.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, uploaded_file_id, manifest_file_id, seq, data
		 FROM raw_data WHERE upload_id = ? ORDER BY manifest_file_id, seq`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RawRecord
	for rows.Next() {
		var r model.RawRecord
		var data string
		if err := rows.Scan(&r.ID, &r.UploadID, &r.UploadedFileID, &r.ManifestFileID, &r.Seq, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
			return nil, fmt.Errorf("unmarshaling raw record %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertEventsTx(ctx, tx, events); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) InsertEntities(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertEntitiesTx(ctx, tx, entities); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertMappingResults inserts events and entities in one transaction so a
// failure partway through neither table holding the run's output.
func (s *SQLiteStore) InsertMappingResults(ctx context.Context, events []model.Event, entities []model.Entity) error {
	if len(events) == 0 && len(entities) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertEventsTx(ctx, tx, events); err != nil {
		return err
	}
	if err := insertEntitiesTx(ctx, tx, entities); err != nil {
		return err
	}

	return tx.Commit()
}

func insertEventsTx(ctx context.Context, tx *sql.Tx, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, upload_id, event_kind, event_action, message, timestamp_ms, extra_timestamps, fields, raw_data_ids, file_ids, deduplicated, conflict_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		fields, err := json.Marshal(e.Fields)
		if err != nil {
			return fmt.Errorf("marshaling event %s fields: %w", e.ID, err)
		}
		rawIDs, err := json.Marshal(e.RawDataIDs)
		if err != nil {
			return err
		}
		fileIDs, err := json.Marshal(e.FileIDs)
		if err != nil {
			return err
		}
		conflicts, err := json.Marshal(e.ConflictNotes)
		if err != nil {
			return err
		}
		extraTimestamps, err := json.Marshal(e.ExtraTimestamps)
		if err != nil {
			return err
		}

		dedupFlag := 0
		if e.Deduplicated {
			dedupFlag = 1
		}

		if _, err := stmt.ExecContext(ctx, e.ID, e.UploadID, e.EventKind, e.EventAction, e.Message, e.TimestampMS,
			string(extraTimestamps), string(fields), string(rawIDs), string(fileIDs), dedupFlag, string(conflicts)); err != nil {
			return err
		}
	}

	return nil
}

func insertEntitiesTx(ctx context.Context, tx *sql.Tx, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO auth_devices_initial (id, upload_id, entity_type, fields, raw_data_ids, file_ids)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entities {
		fields, err := json.Marshal(e.Fields)
		if err != nil {
			return err
		}
		rawIDs, err := json.Marshal(e.RawDataIDs)
		if err != nil {
			return err
		}
		fileIDs, err := json.Marshal(e.FileIDs)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.UploadID, e.EntityType, string(fields), string(rawIDs), string(fileIDs)); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) DeleteEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_comments WHERE event_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) EventsForUpload(ctx context.Context, uploadID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, event_kind, event_action, message, timestamp_ms, extra_timestamps, fields, raw_data_ids, file_ids, deduplicated, conflict_notes
		 FROM events WHERE upload_id = ? ORDER BY timestamp_ms`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *SQLiteStore) SearchEvents(ctx context.Context, params SearchParams) ([]model.Event, int, error) {
	all, err := s.eventsMatching(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	total := len(all)

	if !params.OrderAsc {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	from := params.From
	if from > len(all) {
		from = len(all)
	}
	end := from + params.Size
	if params.Size <= 0 || end > len(all) {
		end = len(all)
	}

	return all[from:end], total, nil
}

func (s *SQLiteStore) CountEventsByUpload(ctx context.Context, params SearchParams) (map[string]int, error) {
	all, err := s.eventsMatching(ctx, params)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range all {
		counts[e.UploadID]++
	}
	return counts, nil
}

// eventsMatching loads every event (optionally scoped to one upload) and
// applies the in-memory predicate. The schema has no secondary indexes
// suited to arbitrary chip/free-text predicates, so filtering happens in
// Go after a single indexed scan by upload_id.
func (s *SQLiteStore) eventsMatching(ctx context.Context, params SearchParams) ([]model.Event, error) {
	var rows *sql.Rows
	var err error

	const baseQuery = `SELECT id, upload_id, event_kind, event_action, message, timestamp_ms, extra_timestamps, fields, raw_data_ids, file_ids, deduplicated, conflict_notes FROM events`

	if params.UploadID != "" {
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE upload_id = ? ORDER BY timestamp_ms`, params.UploadID)
	} else {
		rows, err = s.db.QueryContext(ctx, baseQuery+` ORDER BY timestamp_ms`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	if params.Matches == nil {
		return events, nil
	}

	filtered := events[:0]
	for _, e := range events {
		if params.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		var e model.Event
		var fields, rawIDs, fileIDs, conflicts, extraTimestamps string
		var dedupFlag int
		if err := rows.Scan(&e.ID, &e.UploadID, &e.EventKind, &e.EventAction, &e.Message, &e.TimestampMS,
			&extraTimestamps, &fields, &rawIDs, &fileIDs, &dedupFlag, &conflicts); err != nil {
			return nil, err
		}
		e.Deduplicated = dedupFlag != 0
		if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rawIDs), &e.RawDataIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fileIDs), &e.FileIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(conflicts), &e.ConflictNotes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(extraTimestamps), &e.ExtraTimestamps); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddComment(ctx context.Context, c model.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_comments (id, event_id, author, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.EventID, c.Author, c.Body, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *SQLiteStore) UpdateComment(ctx context.Context, c model.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE event_comments SET body = ?, updated_at = ? WHERE id = ?`,
		c.Body, c.UpdatedAt, c.ID,
	)
	return err
}

func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM event_comments WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) CommentsForEvent(ctx context.Context, eventID string) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, author, body, created_at, updated_at FROM event_comments WHERE event_id = ? ORDER BY created_at`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.EventID, &c.Author, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
