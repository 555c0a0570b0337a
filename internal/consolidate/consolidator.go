// Package consolidate merges the accepted per-chunk matches of one query into the
// final ranked symptom list.
package consolidate

import (
	"sort"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// Consolidator deduplicates by symptom and keeps generic codes from crowding out
// specific ones.
type Consolidator struct {
	settings     *config.MatcherSettings
	dropGeneric  bool
	dampenFactor float64
}

// NewConsolidator reads the generic-code policy from settings.
func NewConsolidator(settings *config.MatcherSettings) *Consolidator {
	return &Consolidator{
		settings:     settings,
		dropGeneric:  settings.GenericPolicy != config.GenericPolicyDampen,
		dampenFactor: settings.GenericDampenFactor,
	}
}

// Process returns one result per symptom, ordered by descending confidence.
// Results with equal confidence keep the order in which their symptom first appeared.
func (c *Consolidator) Process(results []model.MatchResult) []model.MatchResult {
	if len(results) == 0 {
		return []model.MatchResult{}
	}

	deduped := c.dedupe(results)

	if c.hasSpecific(deduped) {
		if c.dropGeneric {
			deduped = c.withoutGeneric(deduped)
		} else {
			c.dampenGeneric(deduped)
		}
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Confidence > deduped[j].Confidence
	})
	return deduped
}

// dedupe keeps the highest-confidence result per symptom id; the first one seen wins ties.
func (c *Consolidator) dedupe(results []model.MatchResult) []model.MatchResult {
	position := make(map[int64]int, len(results))
	out := make([]model.MatchResult, 0, len(results))
	for _, r := range results {
		i, seen := position[r.SymptomID]
		if !seen {
			position[r.SymptomID] = len(out)
			out = append(out, r)
			continue
		}
		if r.Confidence > out[i].Confidence {
			out[i] = r
		}
	}
	return out
}

func (c *Consolidator) isGeneric(code string) bool {
	return c.settings.IsGenericCode(code)
}

func (c *Consolidator) hasSpecific(results []model.MatchResult) bool {
	for _, r := range results {
		if !c.isGeneric(r.Code) {
			return true
		}
	}
	return false
}

func (c *Consolidator) withoutGeneric(results []model.MatchResult) []model.MatchResult {
	out := results[:0]
	for _, r := range results {
		if !c.isGeneric(r.Code) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Consolidator) dampenGeneric(results []model.MatchResult) {
	for i := range results {
		if !c.isGeneric(results[i].Code) {
			continue
		}
		score := results[i].Confidence * c.dampenFactor
		results[i].Confidence = model.RoundConfidence(min(1.0, max(0.0, score)))
		results[i].MatchedBy += model.GenericDampenSuffix
	}
}
