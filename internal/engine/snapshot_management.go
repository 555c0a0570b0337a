package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"

	"github.com/gcbaptista/go-symptom-mapper/index"
	"github.com/gcbaptista/go-symptom-mapper/internal/candidate"
	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/metrics"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// ReloadDictionary rebuilds the dictionary from the source and publishes it.
// On error the previous dictionary keeps serving.
func (e *Engine) ReloadDictionary(ctx context.Context) error {
	dict, err := e.buildDictionary(ctx)
	metrics.RecordReload(string(model.ReloadDictionary), err)
	if err != nil {
		return err
	}

	e.publish(func(old *snapshot) *snapshot {
		return &snapshot{dict: dict, typos: old.typos}
	})
	return nil
}

// ReloadTypoRules reloads the typo-correction rules and publishes them.
// On error the previous rules keep serving.
func (e *Engine) ReloadTypoRules(ctx context.Context) error {
	typos, err := e.buildTypoTable(ctx)
	metrics.RecordReload(string(model.ReloadTypoRules), err)
	if err != nil {
		return err
	}

	e.publish(func(old *snapshot) *snapshot {
		return &snapshot{dict: old.dict, typos: typos}
	})
	return nil
}

// ReloadAll rebuilds both snapshots. Each half is published on its own success,
// so a broken typo table never blocks a fresh dictionary.
func (e *Engine) ReloadAll(ctx context.Context) error {
	dict, dictErr := e.buildDictionary(ctx)
	metrics.RecordReload(string(model.ReloadDictionary), dictErr)
	typos, typoErr := e.buildTypoTable(ctx)
	metrics.RecordReload(string(model.ReloadTypoRules), typoErr)

	if dictErr == nil || typoErr == nil {
		e.publish(func(old *snapshot) *snapshot {
			next := &snapshot{dict: old.dict, typos: old.typos}
			if dictErr == nil {
				next.dict = dict
			}
			if typoErr == nil {
				next.typos = typos
			}
			return next
		})
	}

	return stderrors.Join(dictErr, typoErr)
}

// Reload dispatches to the reload matching target.
func (e *Engine) Reload(ctx context.Context, target model.ReloadTarget) error {
	switch target {
	case model.ReloadDictionary:
		return e.ReloadDictionary(ctx)
	case model.ReloadTypoRules:
		return e.ReloadTypoRules(ctx)
	default:
		return e.ReloadAll(ctx)
	}
}

// publish swaps in the snapshot built from the current one and bumps the version.
func (e *Engine) publish(build func(old *snapshot) *snapshot) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	old := e.current.Load()
	next := build(old)
	next.version = old.version + 1
	e.current.Store(next)

	metrics.SetDictionaryEntries(len(next.dict.Entries()))
	log.Printf("Published snapshot version %d (%d entries, %d typo rules)", next.version, len(next.dict.Entries()), next.typos.Len())
}

func (e *Engine) buildDictionary(ctx context.Context) (*index.Dictionary, error) {
	symptoms, err := e.source.ListActiveSymptoms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load symptoms: %w", errors.ErrVocabularyUnavailable, err)
	}
	aliases, err := e.source.ListActiveAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load aliases: %w", errors.ErrVocabularyUnavailable, err)
	}

	dict := index.Build(symptoms, aliases)
	for _, problem := range dict.Skipped() {
		log.Printf("Warning: Skipping %v", problem)
	}
	if dict.IsEmpty() {
		log.Printf("Warning: Vocabulary is empty, queries will resolve to no symptoms")
	} else {
		log.Printf("Loaded dictionary: %d symptoms, %d aliases, %d entries", len(symptoms), len(aliases), len(dict.Entries()))
	}
	return dict, nil
}

func (e *Engine) buildTypoTable(ctx context.Context) (*candidate.TypoTable, error) {
	rules, err := e.source.ListActiveTypoRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load typo rules: %w", err)
	}

	table := candidate.NewTypoTable(rules)
	if table.Skipped() > 0 {
		log.Printf("Warning: Skipped %d malformed typo rules", table.Skipped())
	}
	return table, nil
}

// DictionaryStats summarizes the published snapshot.
func (e *Engine) DictionaryStats() model.DictionaryStats {
	snap := e.loadSnapshot()
	stats := snap.dict.Stats()
	stats.Version = snap.version
	stats.TypoRules = snap.typos.Len()
	stats.TypoRulesAt = snap.typos.LoadedAt()
	return stats
}
