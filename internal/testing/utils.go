// Package testing provides fixture vocabulary and engine helpers shared by package tests.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/engine"
	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/services"
	"github.com/gcbaptista/go-symptom-mapper/store"
)

func weight(v float64) *float64 { return &v }

// FixtureVocabulary returns a small vocabulary covering specific, generic and alias entries.
func FixtureVocabulary() *store.Vocabulary {
	return &store.Vocabulary{
		Symptoms: []store.SeedSymptom{
			{Code: "HEADACHE", DisplayName: "두통", Aliases: []store.SeedAlias{{Alias: "머리 아픔", Weight: weight(0.9)}}},
			{Code: "TOOTHACHE", DisplayName: "치통"},
			{Code: "ABDOMINAL_PAIN", DisplayName: "복통", Aliases: []store.SeedAlias{{Alias: "배 아픔", Weight: weight(0.9)}}},
			{Code: "PAIN", DisplayName: "통증"},
			{Code: "NAUSEA", DisplayName: "메스꺼움"},
			{Code: "HEARTBURN", DisplayName: "가슴쓰림", Aliases: []store.SeedAlias{{Alias: "속쓰림", Weight: weight(0.5)}}},
		},
		TypoCorrections: []store.SeedTypoRule{
			{Pattern: "츠통", Replacement: "치통", Priority: 10},
		},
	}
}

// NewFixtureStore returns an in-memory store seeded with FixtureVocabulary.
func NewFixtureStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	memory := store.NewMemoryStore()
	_, err := store.Seed(context.Background(), memory, FixtureVocabulary())
	require.NoError(t, err)
	return memory
}

// CreateTestEngine creates an engine over a fixture store. The engine is closed when the test ends.
func CreateTestEngine(t *testing.T, mutate ...func(*config.MatcherSettings)) (*engine.Engine, *store.MemoryStore) {
	t.Helper()
	memory := NewFixtureStore(t)
	return CreateTestEngineWithStore(t, memory, memory, mutate...), memory
}

// CreateTestEngineWithStore creates an engine reading from source and logging to sink.
func CreateTestEngineWithStore(t *testing.T, source services.VocabularySource, sink services.UnmappedSink, mutate ...func(*config.MatcherSettings)) *engine.Engine {
	t.Helper()
	settings := config.DefaultMatcherSettings()
	for _, m := range mutate {
		m(&settings)
	}

	eng, err := engine.New(context.Background(), source, sink, settings)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

// Codes extracts the codes of resolved symptoms in order.
func Codes(results []model.ResolvedSymptom) []string {
	codes := make([]string, 0, len(results))
	for _, r := range results {
		codes = append(codes, r.Code)
	}
	return codes
}
