package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

func openStores(t *testing.T) map[string]Backend {
	t.Helper()
	sqlStore, err := Open(filepath.Join(t.TempDir(), "nested", "vocab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })

	return map[string]Backend{
		"sqlite": sqlStore,
		"memory": NewMemoryStore(),
	}
}

func TestStore_Vocabulary(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			headache, err := s.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "HEADACHE", DisplayName: "두통", Active: true})
			require.NoError(t, err)
			_, err = s.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "RETIRED", DisplayName: "폐기", Active: false})
			require.NoError(t, err)

			again, err := s.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "HEADACHE", DisplayName: "머리 통증", Active: true})
			require.NoError(t, err)
			assert.Equal(t, headache, again, "upsert by code keeps the id")

			symptoms, err := s.ListActiveSymptoms(ctx)
			require.NoError(t, err)
			require.Len(t, symptoms, 1)
			assert.Equal(t, "머리 통증", symptoms[0].DisplayName)
			assert.True(t, symptoms[0].Active)

			_, err = s.UpsertAlias(ctx, model.SymptomAlias{SymptomID: headache, AliasText: "머리 아픔", Weight: 0.9, Active: true})
			require.NoError(t, err)
			_, err = s.UpsertAlias(ctx, model.SymptomAlias{SymptomID: headache, AliasText: "골 아픔", Weight: 0.5, Active: false})
			require.NoError(t, err)

			aliases, err := s.ListActiveAliases(ctx)
			require.NoError(t, err)
			require.Len(t, aliases, 1)
			assert.Equal(t, "머리 아픔", aliases[0].AliasText)
			assert.Equal(t, "", aliases[0].NormalizedAliasText, "unset normalized text stays empty")
			assert.InDelta(t, 0.9, aliases[0].Weight, 1e-9)
		})
	}
}

func TestStore_TypoRulesOrderedByPriority(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rules := []model.TypoCorrectionRule{
				{Pattern: "두퉁", Replacement: "두통", Priority: 1, Active: true},
				{Pattern: "츠통", Replacement: "치통", Priority: 10, Active: true},
				{Pattern: "복퉁", Replacement: "복통", Priority: 5, Active: false},
				{Pattern: "메스꺼움증", Replacement: "메스꺼움", Priority: 10, Active: true},
			}
			for _, r := range rules {
				_, err := s.UpsertTypoRule(ctx, r)
				require.NoError(t, err)
			}

			got, err := s.ListActiveTypoRules(ctx)
			require.NoError(t, err)

			patterns := make([]string, 0, len(got))
			for _, r := range got {
				patterns = append(patterns, r.Pattern)
			}
			assert.Equal(t, []string{"츠통", "메스꺼움증", "두퉁"}, patterns)
		})
	}
}

func TestStore_UnmappedTerms(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	score := 0.42

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveUnmappedTerm(ctx, model.UnmappedTerm{
				ID:                "a",
				RawChunk:          "qwertyuiop",
				RecordedAt:        base,
				BestGuessSnapshot: nil,
			}))
			require.NoError(t, s.SaveUnmappedTerm(ctx, model.UnmappedTerm{
				ID:                   "b",
				RawChunk:             "속쓰림이",
				BestScore:            &score,
				BestGuessSnapshot:    json.RawMessage(`{"code":"HEARTBURN"}`),
				CandidateSetSnapshot: json.RawMessage(`[]`),
				RecordedAt:           base.Add(time.Second),
			}))

			terms, err := s.ListUnmappedTerms(ctx, 10)
			require.NoError(t, err)
			require.Len(t, terms, 2)

			assert.Equal(t, "b", terms[0].ID, "newest first")
			require.NotNil(t, terms[0].BestScore)
			assert.InDelta(t, 0.42, *terms[0].BestScore, 1e-9)
			assert.JSONEq(t, `{"code":"HEARTBURN"}`, string(terms[0].BestGuessSnapshot))

			assert.Equal(t, "a", terms[1].ID)
			assert.Nil(t, terms[1].BestScore)
			assert.Nil(t, terms[1].BestGuessSnapshot)
			assert.True(t, terms[1].RecordedAt.Equal(base))

			limited, err := s.ListUnmappedTerms(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, limited, 1)

			assert.Error(t, s.SaveUnmappedTerm(ctx, model.UnmappedTerm{RawChunk: "no id"}))
		})
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "NAUSEA", DisplayName: "메스꺼움", Active: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	symptoms, err := reopened.ListActiveSymptoms(ctx)
	require.NoError(t, err)
	require.Len(t, symptoms, 1)
	assert.Equal(t, "NAUSEA", symptoms[0].Code)
}

func TestMemoryStore_UnmappedCount(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, 0, s.UnmappedCount())

	require.NoError(t, s.SaveUnmappedTerm(context.Background(), model.UnmappedTerm{ID: "x", RawChunk: "x"}))
	assert.Equal(t, 1, s.UnmappedCount())

	terms, err := s.ListUnmappedTerms(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, terms, 1)
}

func TestOpenBackend(t *testing.T) {
	memory, err := OpenBackend("")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, memory)
	assert.NoError(t, memory.Close())

	sqlite, err := OpenBackend(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	assert.IsType(t, &SqlStore{}, sqlite)
	assert.NoError(t, sqlite.Close())
}
