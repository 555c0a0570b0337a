package model

import "math"

// CandidateStrategy tags how a candidate rewrite of a chunk was derived.
type CandidateStrategy string

const (
	CandidateOriginal                   CandidateStrategy = "ORIGINAL"
	CandidateDampen                     CandidateStrategy = "DAMPEN"
	CandidateTypoCorrection             CandidateStrategy = "TYPO_CORRECTION"
	CandidateRemoveSpacesOriginal       CandidateStrategy = "REMOVE_SPACES_FROM_ORIGINAL"
	CandidateRemoveSpacesCorrected      CandidateStrategy = "REMOVE_SPACES_FROM_CORRECTED"
	CandidateWeakened                   CandidateStrategy = "WEAKEN_PARTICLES_ENDINGS"
	CandidateRemoveSpacesWeakened       CandidateStrategy = "REMOVE_SPACES_FROM_WEAKENED"
	CandidateWeakenThenCorrect          CandidateStrategy = "WEAKEN_THEN_CORRECT"
	CandidateRemoveSpacesWeakenThenCorr CandidateStrategy = "REMOVE_SPACES_FROM_WEAKEN_THEN_CORRECT"
)

// Candidate is one normalized rewrite of a chunk.
type Candidate struct {
	Value  string            `json:"value"`
	Reason CandidateStrategy `json:"reason"`
}

// Strategy tags on a MatchResult. Boosted or dampened results carry a suffix,
// e.g. "EXACT+RULE" or "FUZZY+GENERIC_DAMPEN".
const (
	StrategyExact           = "EXACT"
	StrategyNormalizedExact = "NORM_EXACT"
	StrategyAliasVariant    = "ALIAS_VARIANT"
	StrategyFuzzy           = "FUZZY"
	StrategyRuleOnly        = "RULE_ONLY"

	RuleBoostSuffix     = "+RULE"
	GenericDampenSuffix = "+GENERIC_DAMPEN"
)

// RoundConfidence rounds a score to the three decimals reported in a MatchResult.
func RoundConfidence(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// MatchResult is a chunk resolved to a canonical symptom.
type MatchResult struct {
	SymptomID     int64   `json:"symptom_id"`
	Code          string  `json:"code"`
	DisplayName   string  `json:"display_name"`
	Confidence    float64 `json:"confidence"`
	MatchedBy     string  `json:"matched_by"`
	OriginalChunk string  `json:"original_chunk"`
	MatchedText   string  `json:"matched_text"`
}

// AttemptOutcome classifies a per-chunk match attempt.
type AttemptOutcome string

const (
	OutcomeAccepted  AttemptOutcome = "accepted"
	OutcomeBestGuess AttemptOutcome = "best_guess"
	OutcomeNoMatch   AttemptOutcome = "no_match"
)

// Attempt is the result of matching one chunk. Accepted is set only when the best
// score cleared the acceptance threshold; BestGuess and BestScore are kept even
// below it so callers can log them for curation.
type Attempt struct {
	Accepted  *MatchResult `json:"accepted,omitempty"`
	BestScore *float64     `json:"best_score,omitempty"`
	BestGuess *MatchResult `json:"best_guess,omitempty"`
}

// Outcome reports whether the attempt resolved, only produced a guess, or found nothing.
func (a Attempt) Outcome() AttemptOutcome {
	switch {
	case a.Accepted != nil:
		return OutcomeAccepted
	case a.BestGuess != nil:
		return OutcomeBestGuess
	default:
		return OutcomeNoMatch
	}
}

// ResolvedSymptom is the caller-facing unit returned by a resolve call.
type ResolvedSymptom struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	Confidence  float64 `json:"confidence"`
}
