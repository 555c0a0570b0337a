package engine

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/metrics"
	"github.com/gcbaptista/go-symptom-mapper/internal/tokenizer"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// Resolve maps a raw query to an ordered list of canonical symptoms.
// An empty list is a valid outcome.
func (e *Engine) Resolve(ctx context.Context, query string) []model.ResolvedSymptom {
	return e.ResolveDetailed(ctx, query).Symptoms()
}

// ResolveDetailed resolves a query and reports how every chunk was handled.
func (e *Engine) ResolveDetailed(_ context.Context, query string) model.Resolution {
	start := time.Now()
	snap := e.loadSnapshot()

	resolution := model.Resolution{
		QueryID: uuid.New().String(),
		Query:   query,
		Chunks:  make([]model.ChunkOutcome, 0),
		Matches: make([]model.MatchResult, 0),
		Version: snap.version,
	}

	if snap.dict.IsEmpty() {
		resolution.Degraded = true
		resolution.Took = time.Since(start)
		metrics.RecordResolve(0, true, resolution.Took)
		return resolution
	}

	resolution.Sanitized = tokenizer.Sanitize(query)
	chunks := e.chunker.Chunk(resolution.Sanitized)

	accepted := make([]model.MatchResult, 0, len(chunks))
	for _, chunk := range chunks {
		candidates := e.generator.Generate(chunk, snap.typos)
		attempt := e.matcher.MatchWithBestGuess(snap.dict, chunk, candidates)

		outcome := attempt.Outcome()
		resolution.Chunks = append(resolution.Chunks, model.ChunkOutcome{
			Chunk:      chunk,
			Candidates: candidates,
			Outcome:    outcome,
			Attempt:    attempt,
		})

		switch outcome {
		case model.OutcomeAccepted:
			accepted = append(accepted, *attempt.Accepted)
			metrics.RecordChunk(metrics.OutcomeAccepted, attempt.Accepted.MatchedBy)
		case model.OutcomeBestGuess:
			metrics.RecordChunk(metrics.OutcomeBestGuess, "")
			e.recordUnmapped(chunk, candidates, attempt)
		default:
			metrics.RecordChunk(metrics.OutcomeNone, "")
			e.recordUnmapped(chunk, candidates, attempt)
		}
	}

	resolution.Matches = e.consolidator.Process(accepted)
	resolution.Took = time.Since(start)
	metrics.RecordResolve(len(resolution.Matches), false, resolution.Took)
	return resolution
}

// recordUnmapped hands an unresolved chunk to the feedback recorder.
// Snapshot fields are left nil when they cannot be serialized.
func (e *Engine) recordUnmapped(chunk string, candidates []model.Candidate, attempt model.Attempt) {
	term := model.UnmappedTerm{
		ID:                   uuid.New().String(),
		RawChunk:             chunk,
		BestScore:            attempt.BestScore,
		CandidateSetSnapshot: marshalSnapshot("candidates", candidates),
		RecordedAt:           time.Now(),
	}
	if attempt.BestGuess != nil {
		term.BestGuessSnapshot = marshalSnapshot("best guess", attempt.BestGuess)
	}
	_ = e.recorder.Record(term)
}

func marshalSnapshot(what string, v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: Failed to serialize %s snapshot: %v", what, err)
		return nil
	}
	return data
}

// MultiResolve resolves several named queries concurrently.
// Names must be unique and non-empty.
func (e *Engine) MultiResolve(ctx context.Context, queries []model.NamedQuery) (*model.MultiResolveResult, error) {
	startTime := time.Now()

	if len(queries) == 0 {
		return nil, errors.NewValidationError("queries", "at least one query is required")
	}
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		if q.Name == "" {
			return nil, errors.NewValidationError("name", "each query must have a non-empty name")
		}
		if seen[q.Name] {
			return nil, errors.NewValidationError("name", "duplicate query name '"+q.Name+"'")
		}
		seen[q.Name] = true
	}

	results := make([][]model.ResolvedSymptom, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.MultiResolveParallel)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Resolve(gctx, q.Query)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &model.MultiResolveResult{
		Results:      make(map[string][]model.ResolvedSymptom, len(queries)),
		TotalQueries: len(queries),
	}
	for i, q := range queries {
		out.Results[q.Name] = results[i]
	}
	out.ProcessingTimeMs = float64(time.Since(startTime).Nanoseconds()) / 1e6
	return out, nil
}

// TopUnmapped returns the most frequent recently unresolved chunks.
func (e *Engine) TopUnmapped(limit int) []model.UnmappedChunkCount {
	return e.recorder.TopUnmapped(limit)
}

// ListUnmapped returns the latest stored unmapped terms.
func (e *Engine) ListUnmapped(ctx context.Context, limit int) ([]model.UnmappedTerm, error) {
	return e.recorder.ListUnmapped(ctx, limit)
}
