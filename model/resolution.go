package model

import "time"

// ChunkOutcome describes how a single chunk of a query was handled.
type ChunkOutcome struct {
	Chunk      string         `json:"chunk"`
	Candidates []Candidate    `json:"candidates"`
	Outcome    AttemptOutcome `json:"outcome"`
	Attempt    Attempt        `json:"attempt"`
}

// Resolution is the detailed result of resolving one query.
type Resolution struct {
	QueryID   string         `json:"query_id"`
	Query     string         `json:"query"`
	Sanitized string         `json:"sanitized"`
	Chunks    []ChunkOutcome `json:"chunks"`
	Matches   []MatchResult  `json:"matches"`
	Took      time.Duration  `json:"took"`
	Degraded  bool           `json:"degraded"` // true when the dictionary was empty
	Version   uint64         `json:"dictionary_version"`
}

// Symptoms reduces the consolidated matches to the caller-facing list.
func (r Resolution) Symptoms() []ResolvedSymptom {
	out := make([]ResolvedSymptom, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, ResolvedSymptom{Code: m.Code, DisplayName: m.DisplayName, Confidence: m.Confidence})
	}
	return out
}

// NamedQuery is one entry of a multi-resolve request.
type NamedQuery struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// MultiResolveResult holds the per-name results of a multi-resolve request.
type MultiResolveResult struct {
	Results          map[string][]ResolvedSymptom `json:"results"`
	TotalQueries     int                          `json:"total_queries"`
	ProcessingTimeMs float64                      `json:"processing_time_ms"`
}

// DictionaryStats summarizes the currently published snapshots.
type DictionaryStats struct {
	Version     uint64    `json:"version"`
	Symptoms    int       `json:"symptoms"`
	Aliases     int       `json:"aliases"`
	Entries     int       `json:"entries"`
	Trigrams    int       `json:"trigrams"`
	SkippedRows int       `json:"skipped_rows"`
	TypoRules   int       `json:"typo_rules"`
	BuiltAt     time.Time `json:"built_at"`
	TypoRulesAt time.Time `json:"typo_rules_loaded_at"`
	Empty       bool      `json:"empty"`
}
