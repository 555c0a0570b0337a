package engine_test

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/engine"
	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	testutil "github.com/gcbaptista/go-symptom-mapper/internal/testing"
	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/store"
)

var errTypoRulesLocked = stderrors.New("typo_correction table is locked")

// failingSource fails every read once broken is set.
type failingSource struct {
	*store.MemoryStore
	broken atomic.Bool
}

func (s *failingSource) ListActiveSymptoms(ctx context.Context) ([]model.CanonicalSymptom, error) {
	if s.broken.Load() {
		return nil, stderrors.New("database is locked")
	}
	return s.MemoryStore.ListActiveSymptoms(ctx)
}

func (s *failingSource) ListActiveTypoRules(ctx context.Context) ([]model.TypoCorrectionRule, error) {
	if s.broken.Load() {
		return nil, errTypoRulesLocked
	}
	return s.MemoryStore.ListActiveTypoRules(ctx)
}

// generationSource serves a different symptom code on every symptom read.
type generationSource struct {
	store.MemoryStore
	generation atomic.Uint64
}

func (s *generationSource) ListActiveSymptoms(context.Context) ([]model.CanonicalSymptom, error) {
	gen := s.generation.Add(1)
	return []model.CanonicalSymptom{{ID: 1, Code: codeForGeneration(gen), DisplayName: "두통", Active: true}}, nil
}

func codeForGeneration(gen uint64) string {
	if gen%2 == 1 {
		return "GEN_ODD"
	}
	return "GEN_EVEN"
}

type failingSink struct{}

func (failingSink) SaveUnmappedTerm(context.Context, model.UnmappedTerm) error {
	return stderrors.New("disk full")
}

func TestNew_InvalidSettings(t *testing.T) {
	settings := config.DefaultMatcherSettings()
	settings.GenericPolicy = "ignore"

	_, err := engine.New(context.Background(), store.NewMemoryStore(), nil, settings)
	assert.Error(t, err)
}

func TestNew_InitialLoadFailureIsDegraded(t *testing.T) {
	source := &failingSource{MemoryStore: testutil.NewFixtureStore(t)}
	source.broken.Store(true)

	eng := testutil.CreateTestEngineWithStore(t, source, nil)

	stats := eng.DictionaryStats()
	assert.True(t, stats.Empty)
	assert.Equal(t, uint64(0), stats.Version, "nothing was published")

	resolution := eng.ResolveDetailed(context.Background(), "두통")
	assert.True(t, resolution.Degraded)
	assert.Empty(t, resolution.Matches)
	assert.NotNil(t, resolution.Matches)
}

func TestEngine_DictionaryStats(t *testing.T) {
	eng, _ := testutil.CreateTestEngine(t)

	stats := eng.DictionaryStats()
	assert.Equal(t, uint64(1), stats.Version)
	assert.Equal(t, 6, stats.Symptoms)
	assert.Equal(t, 3, stats.Aliases)
	assert.Equal(t, 1, stats.TypoRules)
	assert.Positive(t, stats.Trigrams)
	assert.False(t, stats.Empty)
	assert.False(t, stats.BuiltAt.IsZero())
}

func TestEngine_ReloadDictionary(t *testing.T) {
	ctx := context.Background()
	eng, memory := testutil.CreateTestEngine(t)

	assert.Empty(t, eng.Resolve(ctx, "기침"))

	_, err := memory.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "COUGH", DisplayName: "기침", Active: true})
	require.NoError(t, err)
	assert.Empty(t, eng.Resolve(ctx, "기침"), "new rows are invisible until a reload")

	require.NoError(t, eng.ReloadDictionary(ctx))

	results := eng.Resolve(ctx, "기침")
	assert.Equal(t, []string{"COUGH"}, testutil.Codes(results))
	assert.Equal(t, uint64(2), eng.DictionaryStats().Version)
}

func TestEngine_ReloadFailureKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	source := &failingSource{MemoryStore: testutil.NewFixtureStore(t)}
	eng := testutil.CreateTestEngineWithStore(t, source, nil)

	before := eng.DictionaryStats()
	source.broken.Store(true)

	assert.ErrorIs(t, eng.ReloadDictionary(ctx), errors.ErrVocabularyUnavailable)
	assert.ErrorIs(t, eng.ReloadTypoRules(ctx), errTypoRulesLocked)

	err := eng.ReloadAll(ctx)
	assert.ErrorIs(t, err, errors.ErrVocabularyUnavailable, "dictionary cause is kept")
	assert.ErrorIs(t, err, errTypoRulesLocked, "typo rule cause is kept")

	after := eng.DictionaryStats()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, []string{"TOOTHACHE"}, testutil.Codes(eng.Resolve(ctx, "츠통")), "typo rules keep serving")
}

func TestEngine_ReloadTypoRules(t *testing.T) {
	ctx := context.Background()
	eng, memory := testutil.CreateTestEngine(t)

	assert.Empty(t, eng.Resolve(ctx, "두퉁"))

	_, err := memory.UpsertTypoRule(ctx, model.TypoCorrectionRule{Pattern: "두퉁", Replacement: "두통", Priority: 5, Active: true})
	require.NoError(t, err)
	require.NoError(t, eng.ReloadTypoRules(ctx))

	assert.Equal(t, []string{"HEADACHE"}, testutil.Codes(eng.Resolve(ctx, "두퉁")))
	assert.Equal(t, 2, eng.DictionaryStats().TypoRules)
}

func TestEngine_ReloadAsync(t *testing.T) {
	ctx := context.Background()
	eng, memory := testutil.CreateTestEngine(t)

	_, err := memory.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "FEVER", DisplayName: "발열", Active: true})
	require.NoError(t, err)

	jobID, err := eng.ReloadAsync(model.ReloadAll)
	require.NoError(t, err)

	job, err := eng.WaitJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, model.JobTypeReloadAll, job.Type)
	assert.Equal(t, "all", job.Metadata["target"])

	assert.Equal(t, []string{"FEVER"}, testutil.Codes(eng.Resolve(ctx, "발열")))
	assert.Len(t, eng.ListJobs(nil), 1)
	assert.Equal(t, int64(1), eng.JobMetrics().JobsCompleted)

	_, err = eng.ReloadAsync("everything")
	assert.Error(t, err)
}

func TestEngine_ReloadAsyncFailure(t *testing.T) {
	ctx := context.Background()
	source := &failingSource{MemoryStore: testutil.NewFixtureStore(t)}
	eng := testutil.CreateTestEngineWithStore(t, source, nil)
	source.broken.Store(true)

	jobID, err := eng.ReloadAsync(model.ReloadDictionary)
	require.NoError(t, err)

	job, err := eng.WaitJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Contains(t, job.Error, "database is locked")
	assert.Equal(t, uint64(1), eng.DictionaryStats().Version)
}

func TestEngine_ReloadNeverExposesMixedSnapshot(t *testing.T) {
	ctx := context.Background()
	source := &generationSource{}
	eng := testutil.CreateTestEngineWithStore(t, source, nil)

	const reloads = 50
	var wg sync.WaitGroup
	stop := make(chan struct{})
	var mismatches atomic.Int64

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				resolution := eng.ResolveDetailed(ctx, "두통")
				if len(resolution.Matches) != 1 || resolution.Matches[0].Code != codeForGeneration(resolution.Version) {
					mismatches.Add(1)
				}
			}
		}()
	}

	for i := 0; i < reloads; i++ {
		require.NoError(t, eng.ReloadDictionary(ctx))
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, mismatches.Load())
	assert.Equal(t, uint64(reloads+1), eng.DictionaryStats().Version)
}
