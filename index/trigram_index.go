package index

import (
	"slices"

	"github.com/gcbaptista/go-symptom-mapper/internal/typoutil"
)

// TrigramIndex maps a 3-rune window of a normalized key to the entries containing it.
// It is built once with the dictionary and never mutated afterwards.
type TrigramIndex struct {
	postings map[string]PostingList
}

func newTrigramIndex() *TrigramIndex {
	return &TrigramIndex{postings: make(map[string]PostingList)}
}

// add registers entry position i under every trigram of key.
func (ti *TrigramIndex) add(i int, key string) {
	for tri := range typoutil.Trigrams(key) {
		ti.postings[tri] = append(ti.postings[tri], i)
	}
}

// Lookup returns the distinct entry positions sharing at least one trigram with key,
// in ascending order.
func (ti *TrigramIndex) Lookup(key string) []int {
	seen := make(map[int]struct{})
	for tri := range typoutil.Trigrams(key) {
		for _, i := range ti.postings[tri] {
			seen[i] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Postings returns the posting list of a single trigram.
func (ti *TrigramIndex) Postings(trigram string) PostingList {
	return ti.postings[trigram]
}

// Len is the number of distinct trigrams.
func (ti *TrigramIndex) Len() int {
	return len(ti.postings)
}
