package store

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS symptom (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	code         TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	active       INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS symptom_alias (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	symptom_id       INTEGER NOT NULL REFERENCES symptom(id),
	alias            TEXT NOT NULL,
	normalized_alias TEXT,
	weight           REAL NOT NULL DEFAULT 1.0,
	active           INTEGER NOT NULL DEFAULT 1,
	UNIQUE(symptom_id, alias)
);

CREATE TABLE IF NOT EXISTS typo_correction (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	pattern     TEXT NOT NULL UNIQUE,
	replacement TEXT NOT NULL,
	priority    INTEGER NOT NULL DEFAULT 0,
	active      INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS unmapped_term (
	id              TEXT PRIMARY KEY,
	raw_chunk       TEXT NOT NULL,
	best_score      REAL,
	best_guess_json TEXT,
	candidates_json TEXT,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_unmapped_term_created ON unmapped_term(created_at);
`
