// Package index builds the immutable dictionary snapshot the matcher reads from:
// exact and normalized lookup maps, a flat entry list and a trigram inverted index.
package index

import (
	"strings"
	"time"

	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/typoutil"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// EntryKind tells whether an entry comes from a symptom's display name or from an alias.
type EntryKind string

const (
	EntryStandard EntryKind = "STANDARD"
	EntryAlias    EntryKind = "ALIAS"
)

// SymptomRef is the resolved identity of a canonical symptom.
type SymptomRef struct {
	ID          int64
	Code        string
	DisplayName string
}

// Entry is one searchable phrasing of a symptom.
type Entry struct {
	Text          string
	NormalizedKey string
	SymptomID     int64
	Weight        float64
	Kind          EntryKind
}

// Dictionary is a fully built, read-only snapshot. Callers never mutate it;
// a reload builds a new one and swaps the pointer.
type Dictionary struct {
	exact      map[string]SymptomRef
	normalized map[string]SymptomRef
	entries    []Entry
	trigrams   *TrigramIndex
	byID       map[int64]SymptomRef
	byCode     map[string]SymptomRef

	aliases int
	skipped []error
	builtAt time.Time
}

// Empty returns a dictionary with no vocabulary. Every lookup misses.
func Empty() *Dictionary {
	return Build(nil, nil)
}

// Build creates a snapshot from symptom and alias rows. Inactive rows are ignored.
// Malformed rows (blank code or text, weight outside (0, 1], alias of an unknown
// symptom) are skipped and counted in SkippedRows. When two rows register the same
// lookup key, the later one wins.
func Build(symptoms []model.CanonicalSymptom, aliases []model.SymptomAlias) *Dictionary {
	d := &Dictionary{
		exact:      make(map[string]SymptomRef),
		normalized: make(map[string]SymptomRef),
		entries:    make([]Entry, 0, len(symptoms)+len(aliases)),
		trigrams:   newTrigramIndex(),
		byID:       make(map[int64]SymptomRef, len(symptoms)),
		byCode:     make(map[string]SymptomRef, len(symptoms)),
		builtAt:    time.Now(),
	}

	for _, s := range symptoms {
		if !s.Active {
			continue
		}
		if strings.TrimSpace(s.Code) == "" || strings.TrimSpace(s.DisplayName) == "" {
			d.skipped = append(d.skipped, errors.NewMalformedRowError("symptom", s.ID, "code and display name are required"))
			continue
		}

		ref := SymptomRef{ID: s.ID, Code: s.Code, DisplayName: s.DisplayName}
		d.byID[s.ID] = ref
		d.byCode[s.Code] = ref

		key := typoutil.NormKey(s.DisplayName)
		d.exact[s.DisplayName] = ref
		d.normalized[key] = ref
		d.entries = append(d.entries, Entry{
			Text:          s.DisplayName,
			NormalizedKey: key,
			SymptomID:     s.ID,
			Weight:        1.0,
			Kind:          EntryStandard,
		})
	}

	for _, a := range aliases {
		if !a.Active {
			continue
		}
		ref, ok := d.byID[a.SymptomID]
		switch {
		case !ok:
			d.skipped = append(d.skipped, errors.NewMalformedRowError("symptom_alias", a.ID, "references an unknown or inactive symptom"))
			continue
		case strings.TrimSpace(a.AliasText) == "":
			d.skipped = append(d.skipped, errors.NewMalformedRowError("symptom_alias", a.ID, "alias text is empty"))
			continue
		case a.Weight <= 0 || a.Weight > 1:
			d.skipped = append(d.skipped, errors.NewMalformedRowError("symptom_alias", a.ID, "weight must be in (0, 1]"))
			continue
		}

		key := a.NormalizedAliasText
		if strings.TrimSpace(key) == "" {
			key = typoutil.NormKey(a.AliasText)
		}
		d.exact[a.AliasText] = ref
		d.normalized[key] = ref
		d.entries = append(d.entries, Entry{
			Text:          a.AliasText,
			NormalizedKey: key,
			SymptomID:     a.SymptomID,
			Weight:        a.Weight,
			Kind:          EntryAlias,
		})
		d.aliases++
	}

	for i, e := range d.entries {
		d.trigrams.add(i, e.NormalizedKey)
	}

	return d
}

// Exact looks up a display name or alias verbatim.
func (d *Dictionary) Exact(text string) (SymptomRef, bool) {
	ref, ok := d.exact[text]
	return ref, ok
}

// Normalized looks up an already normalized key.
func (d *Dictionary) Normalized(key string) (SymptomRef, bool) {
	ref, ok := d.normalized[key]
	return ref, ok
}

// Entries returns the flat entry list. The slice must not be modified.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Entry returns the entry at position i.
func (d *Dictionary) Entry(i int) Entry {
	return d.entries[i]
}

// FuzzyCandidates returns the positions of entries sharing a trigram with key.
func (d *Dictionary) FuzzyCandidates(key string) []int {
	return d.trigrams.Lookup(key)
}

// Trigrams exposes the inverted index.
func (d *Dictionary) Trigrams() *TrigramIndex {
	return d.trigrams
}

// SymptomByID resolves a symptom id to its reference.
func (d *Dictionary) SymptomByID(id int64) (SymptomRef, bool) {
	ref, ok := d.byID[id]
	return ref, ok
}

// SymptomByCode resolves a canonical code to its reference.
func (d *Dictionary) SymptomByCode(code string) (SymptomRef, bool) {
	ref, ok := d.byCode[code]
	return ref, ok
}

// IsEmpty reports whether no canonical symptom was loaded.
func (d *Dictionary) IsEmpty() bool {
	return len(d.byID) == 0
}

// SkippedRows is the number of malformed rows ignored while building.
func (d *Dictionary) SkippedRows() int {
	return len(d.skipped)
}

// Skipped describes every malformed row, each matching errors.ErrMalformedRow.
func (d *Dictionary) Skipped() []error {
	return d.skipped
}

// Stats summarizes the snapshot. Version and typo-rule fields are filled in by the engine.
func (d *Dictionary) Stats() model.DictionaryStats {
	return model.DictionaryStats{
		Symptoms:    len(d.byID),
		Aliases:     d.aliases,
		Entries:     len(d.entries),
		Trigrams:    d.trigrams.Len(),
		SkippedRows: len(d.skipped),
		BuiltAt:     d.builtAt,
		Empty:       d.IsEmpty(),
	}
}
