// Package engine wires the matching pipeline together and owns the published
// dictionary and typo-rule snapshots.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/index"
	"github.com/gcbaptista/go-symptom-mapper/internal/candidate"
	"github.com/gcbaptista/go-symptom-mapper/internal/consolidate"
	"github.com/gcbaptista/go-symptom-mapper/internal/feedback"
	"github.com/gcbaptista/go-symptom-mapper/internal/jobs"
	"github.com/gcbaptista/go-symptom-mapper/internal/matcher"
	"github.com/gcbaptista/go-symptom-mapper/internal/rules"
	"github.com/gcbaptista/go-symptom-mapper/internal/tokenizer"
	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/services"
)

// snapshot is an immutable pair of dictionary and typo table. A query reads
// exactly one snapshot, so it never sees a half-swapped state.
type snapshot struct {
	dict    *index.Dictionary
	typos   *candidate.TypoTable
	version uint64
}

// Engine resolves free-text symptom queries.
// It implements services.SymptomResolver, services.DictionaryManager,
// services.JobManager and services.FeedbackReader.
type Engine struct {
	settings config.MatcherSettings
	source   services.VocabularySource

	chunker      *tokenizer.Chunker
	generator    *candidate.Generator
	matcher      *matcher.Service
	consolidator *consolidate.Consolidator
	recorder     *feedback.Recorder
	jobManager   *jobs.Manager

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex // serializes snapshot writers
	closed   sync.Once
}

var (
	_ services.SymptomResolver   = (*Engine)(nil)
	_ services.DictionaryManager = (*Engine)(nil)
	_ services.JobManager        = (*Engine)(nil)
	_ services.FeedbackReader    = (*Engine)(nil)
)

// discardSink is used when no unmapped-term sink is configured.
type discardSink struct{}

func (discardSink) SaveUnmappedTerm(context.Context, model.UnmappedTerm) error { return nil }

// New creates an engine and performs the initial load from source.
// A failed initial load is logged and leaves the engine serving an empty
// dictionary; only invalid settings return an error.
func New(ctx context.Context, source services.VocabularySource, sink services.UnmappedSink, settings config.MatcherSettings) (*Engine, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid matcher settings: %s", strings.Join(problems, "; "))
	}
	ruleEngine, err := rules.NewEngine(settings.BonusRules)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("vocabulary source cannot be nil")
	}
	if sink == nil {
		sink = discardSink{}
	}

	eng := &Engine{
		settings:     settings,
		source:       source,
		chunker:      tokenizer.NewChunker(&settings),
		generator:    candidate.NewGenerator(&settings),
		matcher:      matcher.NewService(ruleEngine, &settings),
		consolidator: consolidate.NewConsolidator(&settings),
		recorder:     feedback.NewRecorder(sink, &settings),
		jobManager:   jobs.NewManager(settings.ReloadWorkers),
	}
	eng.current.Store(&snapshot{dict: index.Empty(), typos: candidate.NewTypoTable(nil)})
	eng.jobManager.Start()

	if err := eng.ReloadAll(ctx); err != nil {
		log.Printf("Warning: Initial vocabulary load failed, serving an empty dictionary: %v", err)
	}
	return eng, nil
}

// Close stops background jobs and flushes pending unmapped-term writes.
func (e *Engine) Close() {
	e.closed.Do(func() {
		e.jobManager.Stop()
		e.recorder.Close()
	})
}

// Settings returns a copy of the effective settings.
func (e *Engine) Settings() config.MatcherSettings {
	return e.settings
}

func (e *Engine) loadSnapshot() *snapshot {
	return e.current.Load()
}
