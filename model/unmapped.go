package model

import (
	"encoding/json"
	"time"
)

// UnmappedTerm is a write-only audit record of a chunk that failed to resolve.
// Snapshot fields are nil when serialization failed.
type UnmappedTerm struct {
	ID                   string          `json:"id"`
	RawChunk             string          `json:"raw_chunk"`
	BestScore            *float64        `json:"best_score"`
	BestGuessSnapshot    json.RawMessage `json:"best_guess"`
	CandidateSetSnapshot json.RawMessage `json:"candidates"`
	RecordedAt           time.Time       `json:"recorded_at"`
}

// UnmappedChunkCount aggregates how often a chunk failed to resolve recently.
type UnmappedChunkCount struct {
	Chunk     string    `json:"chunk"`
	Count     int       `json:"count"`
	BestScore *float64  `json:"best_score,omitempty"`
	LastSeen  time.Time `json:"last_seen"`
}
