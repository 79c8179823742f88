package store

const schemaSQL = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS uploads (
	id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	given_name TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	parse_state TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS uploaded_files (
	id TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL,
	path TEXT NOT NULL,
	manifest_file_id TEXT NOT NULL DEFAULT '',
	sha256 TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	parse_status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_uploaded_files_upload ON uploaded_files(upload_id);

CREATE TABLE IF NOT EXISTS raw_data (
	id TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL,
	uploaded_file_id TEXT NOT NULL,
	manifest_file_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_raw_data_upload ON raw_data(upload_id);
CREATE INDEX IF NOT EXISTS idx_raw_data_manifest_file ON raw_data(upload_id, manifest_file_id, seq);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL,
	event_kind TEXT NOT NULL,
	event_action TEXT NOT NULL,
	message TEXT NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	extra_timestamps TEXT NOT NULL,
	fields TEXT NOT NULL,
	raw_data_ids TEXT NOT NULL,
	file_ids TEXT NOT NULL,
	deduplicated INTEGER NOT NULL,
	conflict_notes TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_upload ON events(upload_id);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp_ms);

CREATE TABLE IF NOT EXISTS auth_devices_initial (
	id TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	fields TEXT NOT NULL,
	raw_data_ids TEXT NOT NULL,
	file_ids TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_auth_devices_initial_upload ON auth_devices_initial(upload_id);

CREATE TABLE IF NOT EXISTS event_comments (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	author TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_event_comments_event ON event_comments(event_id);
`
