// Package feedback records chunks that failed to resolve so curators can extend the vocabulary.
// Writes are asynchronous and best-effort: a failing or slow sink never reaches the caller.
package feedback

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/metrics"
	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/services"
)

const writeTimeout = 5 * time.Second

// Recorder queues unmapped terms and writes them to a sink from a single goroutine.
type Recorder struct {
	sink   services.UnmappedSink
	reader services.UnmappedReader // nil when the sink cannot list records

	mu     sync.Mutex
	queue  chan model.UnmappedTerm
	closed bool
	recent []model.UnmappedTerm // ring buffer of the last cap(recent) records
	next   int

	done chan struct{}
}

// NewRecorder starts a recorder writing to sink. If sink also implements
// services.UnmappedReader, ListUnmapped reads from it.
func NewRecorder(sink services.UnmappedSink, settings *config.MatcherSettings) *Recorder {
	queueSize := settings.FeedbackQueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	recentSize := settings.FeedbackRecentTerms
	if recentSize < 1 {
		recentSize = 1
	}

	r := &Recorder{
		sink:   sink,
		queue:  make(chan model.UnmappedTerm, queueSize),
		recent: make([]model.UnmappedTerm, 0, recentSize),
		done:   make(chan struct{}),
	}
	if reader, ok := sink.(services.UnmappedReader); ok {
		r.reader = reader
	}

	go r.run()
	return r
}

// Record enqueues term without blocking. It fills in ID and RecordedAt when unset.
// The returned error is informational; callers typically ignore it.
func (r *Recorder) Record(term model.UnmappedTerm) error {
	if term.ID == "" {
		term.ID = uuid.New().String()
	}
	if term.RecordedAt.IsZero() {
		term.RecordedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		metrics.RecordUnmapped(metrics.UnmappedClosed)
		return errors.ErrRecorderClosed
	}
	r.remember(term)

	select {
	case r.queue <- term:
		return nil
	default:
		metrics.RecordUnmapped(metrics.UnmappedQueueFull)
		log.Printf("Warning: Feedback queue full, dropping unmapped term %q", term.RawChunk)
		return errors.ErrFeedbackQueueFull
	}
}

// remember appends to the ring buffer. Caller holds r.mu.
func (r *Recorder) remember(term model.UnmappedTerm) {
	if len(r.recent) < cap(r.recent) {
		r.recent = append(r.recent, term)
		return
	}
	r.recent[r.next] = term
	r.next = (r.next + 1) % cap(r.recent)
}

// newestFirst returns a copy of the ring, newest record first. Caller holds r.mu.
func (r *Recorder) newestFirst() []model.UnmappedTerm {
	n := len(r.recent)
	out := make([]model.UnmappedTerm, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, r.recent[(r.next-i+n)%n])
	}
	return out
}

func (r *Recorder) run() {
	defer close(r.done)

	for term := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.sink.SaveUnmappedTerm(ctx, term)
		cancel()

		if err != nil {
			metrics.RecordUnmapped(metrics.UnmappedWriteFailed)
			log.Printf("Warning: Failed to save unmapped term %q: %v", term.RawChunk, err)
			continue
		}
		metrics.RecordUnmapped(metrics.UnmappedWritten)
	}
}

// Close stops accepting records and waits until queued records are written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

// TopUnmapped aggregates the recent in-memory records by chunk, most frequent first.
// Ties are broken by the most recent sighting, then by chunk text.
func (r *Recorder) TopUnmapped(limit int) []model.UnmappedChunkCount {
	r.mu.Lock()
	terms := r.newestFirst()
	r.mu.Unlock()

	byChunk := make(map[string]*model.UnmappedChunkCount)
	for _, term := range terms {
		entry, ok := byChunk[term.RawChunk]
		if !ok {
			entry = &model.UnmappedChunkCount{Chunk: term.RawChunk, LastSeen: term.RecordedAt}
			byChunk[term.RawChunk] = entry
		}
		entry.Count++
		if term.RecordedAt.After(entry.LastSeen) {
			entry.LastSeen = term.RecordedAt
		}
		if term.BestScore != nil && (entry.BestScore == nil || *term.BestScore > *entry.BestScore) {
			score := *term.BestScore
			entry.BestScore = &score
		}
	}

	// Initialize as empty slice, not nil
	counts := make([]model.UnmappedChunkCount, 0, len(byChunk))
	for _, entry := range byChunk {
		counts = append(counts, *entry)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if !counts[i].LastSeen.Equal(counts[j].LastSeen) {
			return counts[i].LastSeen.After(counts[j].LastSeen)
		}
		return counts[i].Chunk < counts[j].Chunk
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// ListUnmapped returns stored records, newest first. Without a readable sink it
// falls back to the in-memory records.
func (r *Recorder) ListUnmapped(ctx context.Context, limit int) ([]model.UnmappedTerm, error) {
	if r.reader != nil {
		return r.reader.ListUnmappedTerms(ctx, limit)
	}

	r.mu.Lock()
	terms := r.newestFirst()
	r.mu.Unlock()

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}
