package services

import (
	"context"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

// VocabularySource provides the rows the dictionary and typo-rule snapshots are built from.
// Only active rows are returned.
type VocabularySource interface {
	ListActiveSymptoms(ctx context.Context) ([]model.CanonicalSymptom, error)
	ListActiveAliases(ctx context.Context) ([]model.SymptomAlias, error)
	// ListActiveTypoRules returns rules ordered by descending priority.
	ListActiveTypoRules(ctx context.Context) ([]model.TypoCorrectionRule, error)
}

// VocabularyWriter stores curated vocabulary, e.g. when seeding from a file.
// Upserts return the row id.
type VocabularyWriter interface {
	UpsertSymptom(ctx context.Context, symptom model.CanonicalSymptom) (int64, error)
	UpsertAlias(ctx context.Context, alias model.SymptomAlias) (int64, error)
	UpsertTypoRule(ctx context.Context, rule model.TypoCorrectionRule) (int64, error)
}

// UnmappedSink receives chunks that failed to resolve.
type UnmappedSink interface {
	SaveUnmappedTerm(ctx context.Context, term model.UnmappedTerm) error
}

// UnmappedReader lists stored unmapped terms, newest first.
type UnmappedReader interface {
	ListUnmappedTerms(ctx context.Context, limit int) ([]model.UnmappedTerm, error)
}

// SymptomResolver maps free-text queries to canonical symptoms.
// An empty result is a valid outcome, never an error.
type SymptomResolver interface {
	Resolve(ctx context.Context, query string) []model.ResolvedSymptom
	ResolveDetailed(ctx context.Context, query string) model.Resolution
	MultiResolve(ctx context.Context, queries []model.NamedQuery) (*model.MultiResolveResult, error)
}

// DictionaryManager exposes the loaded snapshots and rebuilds them in the background.
type DictionaryManager interface {
	DictionaryStats() model.DictionaryStats
	ReloadAsync(target model.ReloadTarget) (string, error) // Returns job ID
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// FeedbackReader summarizes unresolved input for curators.
type FeedbackReader interface {
	TopUnmapped(limit int) []model.UnmappedChunkCount
	ListUnmapped(ctx context.Context, limit int) ([]model.UnmappedTerm, error)
}

// SymptomMapper is everything the HTTP layer needs from the engine.
type SymptomMapper interface {
	SymptomResolver
	DictionaryManager
	JobManager
	FeedbackReader
}
