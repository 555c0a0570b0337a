package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

// MemoryStore keeps the vocabulary and unmapped terms in memory.
// It is used by tests and by the server when no database path is configured.
type MemoryStore struct {
	Mu       sync.RWMutex
	symptoms []model.CanonicalSymptom
	aliases  []model.SymptomAlias
	typos    []model.TypoCorrectionRule
	unmapped []model.UnmappedTerm
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// ListActiveSymptoms returns copies of the active symptoms ordered by id.
func (m *MemoryStore) ListActiveSymptoms(_ context.Context) ([]model.CanonicalSymptom, error) {
	m.Mu.RLock()
	defer m.Mu.RUnlock()

	var out []model.CanonicalSymptom
	for _, s := range m.symptoms {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListActiveAliases returns copies of the active aliases ordered by id.
func (m *MemoryStore) ListActiveAliases(_ context.Context) ([]model.SymptomAlias, error) {
	m.Mu.RLock()
	defer m.Mu.RUnlock()

	var out []model.SymptomAlias
	for _, a := range m.aliases {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListActiveTypoRules returns active rules by descending priority, then id.
func (m *MemoryStore) ListActiveTypoRules(_ context.Context) ([]model.TypoCorrectionRule, error) {
	m.Mu.RLock()
	defer m.Mu.RUnlock()

	var out []model.TypoCorrectionRule
	for _, r := range m.typos {
		if r.Active {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}

// UpsertSymptom inserts or updates a symptom keyed by code.
func (m *MemoryStore) UpsertSymptom(_ context.Context, sym model.CanonicalSymptom) (int64, error) {
	if sym.Code == "" {
		return 0, errors.New("symptom code cannot be empty")
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	for i := range m.symptoms {
		if m.symptoms[i].Code == sym.Code {
			sym.ID = m.symptoms[i].ID
			m.symptoms[i] = sym
			return sym.ID, nil
		}
	}
	sym.ID = m.allocID()
	m.symptoms = append(m.symptoms, sym)
	return sym.ID, nil
}

// UpsertAlias inserts or updates an alias keyed by (symptom, alias text).
func (m *MemoryStore) UpsertAlias(_ context.Context, a model.SymptomAlias) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	for i := range m.aliases {
		if m.aliases[i].SymptomID == a.SymptomID && m.aliases[i].AliasText == a.AliasText {
			a.ID = m.aliases[i].ID
			m.aliases[i] = a
			return a.ID, nil
		}
	}
	a.ID = m.allocID()
	m.aliases = append(m.aliases, a)
	return a.ID, nil
}

// UpsertTypoRule inserts or updates a typo rule keyed by pattern.
func (m *MemoryStore) UpsertTypoRule(_ context.Context, r model.TypoCorrectionRule) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	for i := range m.typos {
		if m.typos[i].Pattern == r.Pattern {
			r.ID = m.typos[i].ID
			m.typos[i] = r
			return r.ID, nil
		}
	}
	r.ID = m.allocID()
	m.typos = append(m.typos, r)
	return r.ID, nil
}

// SaveUnmappedTerm appends an audit record.
func (m *MemoryStore) SaveUnmappedTerm(_ context.Context, term model.UnmappedTerm) error {
	if term.ID == "" {
		return errors.New("unmapped term requires an id")
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.unmapped = append(m.unmapped, term)
	return nil
}

// ListUnmappedTerms returns the most recent unmapped terms, newest first.
func (m *MemoryStore) ListUnmappedTerms(_ context.Context, limit int) ([]model.UnmappedTerm, error) {
	if limit <= 0 {
		limit = 50
	}
	m.Mu.RLock()
	defer m.Mu.RUnlock()

	out := slices.Clone(m.unmapped)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = make([]model.UnmappedTerm, 0)
	}
	return out, nil
}

// UnmappedCount returns the number of stored audit records.
func (m *MemoryStore) UnmappedCount() int {
	m.Mu.RLock()
	defer m.Mu.RUnlock()
	return len(m.unmapped)
}

// Close is a no-op; it lets MemoryStore stand in for a database-backed store.
func (m *MemoryStore) Close() error {
	return nil
}
