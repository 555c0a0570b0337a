// Package store persists the curated vocabulary and the unmapped-term audit log.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gcbaptista/go-symptom-mapper/model"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SqlStore implements the vocabulary and unmapped-term interfaces with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory if it does not exist.
func Open(path string) (*SqlStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection serializes writers, which SQLite requires anyway
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// ListActiveSymptoms returns active canonical symptoms ordered by id.
func (s *SqlStore) ListActiveSymptoms(ctx context.Context) ([]model.CanonicalSymptom, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, code, display_name FROM symptom WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	defer rows.Close()

	var out []model.CanonicalSymptom
	for rows.Next() {
		sym := model.CanonicalSymptom{Active: true}
		if err := rows.Scan(&sym.ID, &sym.Code, &sym.DisplayName); err != nil {
			return nil, fmt.Errorf("scan symptom: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// ListActiveAliases returns active aliases ordered by id.
func (s *SqlStore) ListActiveAliases(ctx context.Context) ([]model.SymptomAlias, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, symptom_id, alias, normalized_alias, weight FROM symptom_alias WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var out []model.SymptomAlias
	for rows.Next() {
		a := model.SymptomAlias{Active: true}
		var normalized sql.NullString
		if err := rows.Scan(&a.ID, &a.SymptomID, &a.AliasText, &normalized, &a.Weight); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		a.NormalizedAliasText = nullStr(normalized)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListActiveTypoRules returns active rules by descending priority, then id.
func (s *SqlStore) ListActiveTypoRules(ctx context.Context) ([]model.TypoCorrectionRule, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, pattern, replacement, priority FROM typo_correction WHERE active = 1 ORDER BY priority DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list typo rules: %w", err)
	}
	defer rows.Close()

	var out []model.TypoCorrectionRule
	for rows.Next() {
		r := model.TypoCorrectionRule{Active: true}
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Replacement, &r.Priority); err != nil {
			return nil, fmt.Errorf("scan typo rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertSymptom inserts or updates a symptom keyed by code.
func (s *SqlStore) UpsertSymptom(ctx context.Context, sym model.CanonicalSymptom) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO symptom(code, display_name, active) VALUES(?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET display_name = excluded.display_name, active = excluded.active`,
		sym.Code, sym.DisplayName, boolInt(sym.Active))
	if err != nil {
		return 0, fmt.Errorf("upsert symptom %s: %w", sym.Code, err)
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM symptom WHERE code = ?", sym.Code).Scan(&id); err != nil {
		return 0, fmt.Errorf("read symptom id %s: %w", sym.Code, err)
	}
	return id, nil
}

// UpsertAlias inserts or updates an alias keyed by (symptom, alias text).
func (s *SqlStore) UpsertAlias(ctx context.Context, a model.SymptomAlias) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO symptom_alias(symptom_id, alias, normalized_alias, weight, active) VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(symptom_id, alias) DO UPDATE SET
			normalized_alias = excluded.normalized_alias, weight = excluded.weight, active = excluded.active`,
		a.SymptomID, a.AliasText, nullable(a.NormalizedAliasText), a.Weight, boolInt(a.Active))
	if err != nil {
		return 0, fmt.Errorf("upsert alias %q: %w", a.AliasText, err)
	}
	var id int64
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM symptom_alias WHERE symptom_id = ? AND alias = ?", a.SymptomID, a.AliasText).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("read alias id %q: %w", a.AliasText, err)
	}
	return id, nil
}

// UpsertTypoRule inserts or updates a typo rule keyed by pattern.
func (s *SqlStore) UpsertTypoRule(ctx context.Context, r model.TypoCorrectionRule) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO typo_correction(pattern, replacement, priority, active) VALUES(?, ?, ?, ?)
		ON CONFLICT(pattern) DO UPDATE SET
			replacement = excluded.replacement, priority = excluded.priority, active = excluded.active`,
		r.Pattern, r.Replacement, r.Priority, boolInt(r.Active))
	if err != nil {
		return 0, fmt.Errorf("upsert typo rule %q: %w", r.Pattern, err)
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM typo_correction WHERE pattern = ?", r.Pattern).Scan(&id); err != nil {
		return 0, fmt.Errorf("read typo rule id %q: %w", r.Pattern, err)
	}
	return id, nil
}

// SaveUnmappedTerm appends an audit row. Nil snapshots are stored as NULL.
func (s *SqlStore) SaveUnmappedTerm(ctx context.Context, term model.UnmappedTerm) error {
	if term.ID == "" {
		return errors.New("unmapped term requires an id")
	}
	recordedAt := term.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	var score sql.NullFloat64
	if term.BestScore != nil {
		score = sql.NullFloat64{Float64: *term.BestScore, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unmapped_term(id, raw_chunk, best_score, best_guess_json, candidates_json, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		term.ID, term.RawChunk, score,
		nullableJSON(term.BestGuessSnapshot), nullableJSON(term.CandidateSetSnapshot),
		recordedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save unmapped term: %w", err)
	}
	return nil
}

// ListUnmappedTerms returns the most recent unmapped terms, newest first.
func (s *SqlStore) ListUnmappedTerms(ctx context.Context, limit int) ([]model.UnmappedTerm, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, raw_chunk, best_score, best_guess_json, candidates_json, created_at
		FROM unmapped_term ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unmapped terms: %w", err)
	}
	defer rows.Close()

	out := make([]model.UnmappedTerm, 0)
	for rows.Next() {
		var (
			term       model.UnmappedTerm
			score      sql.NullFloat64
			guess      sql.NullString
			candidates sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&term.ID, &term.RawChunk, &score, &guess, &candidates, &createdAt); err != nil {
			return nil, fmt.Errorf("scan unmapped term: %w", err)
		}
		if score.Valid {
			v := score.Float64
			term.BestScore = &v
		}
		if guess.Valid {
			term.BestGuessSnapshot = json.RawMessage(guess.String)
		}
		if candidates.Valid {
			term.CandidateSetSnapshot = json.RawMessage(candidates.String)
		}
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			term.RecordedAt = t
		}
		out = append(out, term)
	}
	return out, rows.Err()
}

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableJSON(raw json.RawMessage) sql.NullString {
	return sql.NullString{String: string(raw), Valid: len(raw) > 0}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
