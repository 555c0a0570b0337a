// Package matcher scores chunk candidates against a dictionary snapshot.
package matcher

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/index"
	"github.com/gcbaptista/go-symptom-mapper/internal/rules"
	"github.com/gcbaptista/go-symptom-mapper/internal/typoutil"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// Scores and floors of the individual strategies.
const (
	exactScore           = 1.0
	normalizedExactScore = 0.95

	aliasFactor   = 0.90
	aliasFloor    = 0.75
	aliasMinRunes = 2

	fuzzyBase  = 0.60
	fuzzySpan  = 0.29
	fuzzyFloor = 0.60

	ruleOnlyBase = 0.70
)

// Service finds the best symptom for a chunk. It holds no per-query state, and the
// dictionary is passed in so one call sees a single snapshot.
type Service struct {
	rules     *rules.Engine
	threshold float64
}

// NewService creates a matcher using the given rule table and acceptance threshold.
func NewService(ruleEngine *rules.Engine, settings *config.MatcherSettings) *Service {
	if ruleEngine == nil {
		ruleEngine = rules.DefaultEngine()
	}
	return &Service{rules: ruleEngine, threshold: settings.AcceptanceThreshold}
}

type scored struct {
	symptomID   int64
	score       float64
	matchedBy   string
	matchedText string
}

// MatchOne returns the accepted match for chunk, if any.
func (s *Service) MatchOne(dict *index.Dictionary, chunk string, candidates []model.Candidate) (model.MatchResult, bool) {
	attempt := s.MatchWithBestGuess(dict, chunk, candidates)
	if attempt.Accepted == nil {
		return model.MatchResult{}, false
	}
	return *attempt.Accepted, true
}

// MatchWithBestGuess returns the accepted match together with the best guess and its
// unrounded score, which are set even when the score is below the threshold.
func (s *Service) MatchWithBestGuess(dict *index.Dictionary, chunk string, candidates []model.Candidate) model.Attempt {
	best := s.findBest(dict, chunk, candidates)
	if best == nil {
		return model.Attempt{}
	}

	score := best.score
	attempt := model.Attempt{BestScore: &score}

	ref, ok := dict.SymptomByID(best.symptomID)
	if !ok {
		return attempt
	}
	guess := toMatchResult(ref, best, chunk)
	attempt.BestGuess = &guess
	if best.score >= s.threshold {
		attempt.Accepted = &guess
	}
	return attempt
}

func (s *Service) findBest(dict *index.Dictionary, chunk string, candidates []model.Candidate) *scored {
	var best *scored

	for _, c := range candidates {
		text := c.Value
		if strings.TrimSpace(text) == "" {
			continue
		}

		if ref, ok := dict.Exact(text); ok {
			best = pickBest(best, &scored{ref.ID, exactScore, model.StrategyExact, text})
		}

		key := typoutil.NormKey(text)
		if ref, ok := dict.Normalized(key); ok {
			best = pickBest(best, &scored{ref.ID, normalizedExactScore, model.StrategyNormalizedExact, key})
		}

		best = pickBest(best, aliasVariantMatch(dict, key))
		best = pickBest(best, fuzzyMatch(dict, key))
	}

	return s.applyRuleBonus(dict, best, chunk)
}

// aliasVariantMatch scores entries whose key contains, or is contained in, the candidate key.
func aliasVariantMatch(dict *index.Dictionary, key string) *scored {
	keyLen := utf8.RuneCountInString(key)
	if keyLen < aliasMinRunes {
		return nil
	}

	var best *scored
	for _, e := range dict.Entries() {
		entryLen := utf8.RuneCountInString(e.NormalizedKey)
		if entryLen < aliasMinRunes {
			continue
		}
		if !strings.Contains(e.NormalizedKey, key) && !strings.Contains(key, e.NormalizedKey) {
			continue
		}

		coverage := float64(min(entryLen, keyLen)) / float64(max(entryLen, keyLen))
		score := aliasFactor * e.Weight * coverage
		if score < aliasFloor {
			continue
		}
		best = pickBest(best, &scored{e.SymptomID, score, model.StrategyAliasVariant, e.Text})
	}
	return best
}

// fuzzyMatch scores only the entries that share a trigram with the candidate key.
func fuzzyMatch(dict *index.Dictionary, key string) *scored {
	if key == "" {
		return nil
	}
	positions := dict.FuzzyCandidates(key)
	if len(positions) == 0 {
		return nil
	}

	keyTrigrams := typoutil.Trigrams(key)

	var best *scored
	for _, i := range positions {
		e := dict.Entry(i)

		sim := max(
			typoutil.EditSimilarity(key, e.NormalizedKey),
			typoutil.JamoEditSimilarity(key, e.NormalizedKey),
			typoutil.Jaccard(keyTrigrams, typoutil.Trigrams(e.NormalizedKey)),
		)
		score := (fuzzyBase + fuzzySpan*sim) * e.Weight
		if score < fuzzyFloor {
			continue
		}
		best = pickBest(best, &scored{e.SymptomID, score, model.StrategyFuzzy, e.Text})
	}
	return best
}

// applyRuleBonus boosts the best result when a rule for its code matches the original
// chunk, or proposes the rule's symptom when nothing matched at all.
func (s *Service) applyRuleBonus(dict *index.Dictionary, best *scored, chunk string) *scored {
	for _, r := range s.rules.Matching(chunk) {
		ref, ok := dict.SymptomByCode(r.Code)
		if !ok {
			continue
		}

		switch {
		case best != nil && best.symptomID == ref.ID:
			best = &scored{
				symptomID:   best.symptomID,
				score:       math.Min(1.0, best.score+r.Bonus),
				matchedBy:   best.matchedBy + model.RuleBoostSuffix,
				matchedText: best.matchedText,
			}
		case best == nil:
			best = &scored{
				symptomID:   ref.ID,
				score:       math.Min(1.0, ruleOnlyBase+r.Bonus),
				matchedBy:   model.StrategyRuleOnly,
				matchedText: r.Code,
			}
		}
	}
	return best
}

// pickBest keeps a on ties so earlier candidates and strategies win.
func pickBest(a, b *scored) *scored {
	if b == nil {
		return a
	}
	if a == nil {
		return b
	}
	if b.score > a.score {
		return b
	}
	return a
}

func toMatchResult(ref index.SymptomRef, best *scored, chunk string) model.MatchResult {
	return model.MatchResult{
		SymptomID:     ref.ID,
		Code:          ref.Code,
		DisplayName:   ref.DisplayName,
		Confidence:    model.RoundConfidence(best.score),
		MatchedBy:     best.matchedBy,
		OriginalChunk: chunk,
		MatchedText:   best.matchedText,
	}
}
