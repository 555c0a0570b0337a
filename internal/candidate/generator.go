// Package candidate produces the normalized rewrites of a chunk that the matcher scores.
package candidate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/typoutil"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// Generator derives up to MaxCandidates rewrites per chunk.
type Generator struct {
	intensifiers   map[string]struct{}
	endings        []string
	politeFallback string
	particles      []string
	maxCandidates  int
}

// NewGenerator copies the word lists it needs out of settings.
func NewGenerator(settings *config.MatcherSettings) *Generator {
	g := &Generator{
		intensifiers:   make(map[string]struct{}, len(settings.Intensifiers)),
		endings:        settings.Endings,
		politeFallback: settings.PoliteEndingFallback,
		particles:      append([]string(nil), settings.Particles...),
		maxCandidates:  settings.MaxCandidates,
	}
	for _, w := range settings.Intensifiers {
		g.intensifiers[w] = struct{}{}
	}
	// longest particle first so "으로" is tried before "로"
	sort.SliceStable(g.particles, func(i, j int) bool {
		return utf8.RuneCountInString(g.particles[i]) > utf8.RuneCountInString(g.particles[j])
	})
	return g
}

// Generate returns the ordered, de-duplicated candidates for chunk. Values are trimmed
// with whitespace collapsed; when two derivations give the same value the first tag wins.
func (g *Generator) Generate(chunk string, typos *TypoTable) []model.Candidate {
	base := strings.TrimSpace(chunk)
	if base == "" {
		return []model.Candidate{}
	}

	set := newCandidateSet(g.maxCandidates)

	set.put(base, model.CandidateOriginal)

	damped := g.Dampen(base)
	set.put(damped, model.CandidateDampen)

	corrected := typos.Apply(damped)
	set.put(corrected, model.CandidateTypoCorrection)

	set.put(removeSpaces(base), model.CandidateRemoveSpacesOriginal)
	set.put(removeSpaces(corrected), model.CandidateRemoveSpacesCorrected)

	weakened := g.Weaken(corrected)
	set.put(weakened, model.CandidateWeakened)
	set.put(removeSpaces(weakened), model.CandidateRemoveSpacesWeakened)

	// the other order can match differently, e.g. when a typo rule spans a particle
	weakenedFirst := typos.Apply(g.Weaken(damped))
	set.put(weakenedFirst, model.CandidateWeakenThenCorrect)
	set.put(removeSpaces(weakenedFirst), model.CandidateRemoveSpacesWeakenThenCorr)

	return set.items
}

type candidateSet struct {
	seen  map[string]struct{}
	items []model.Candidate
	limit int
}

func newCandidateSet(limit int) *candidateSet {
	return &candidateSet{seen: make(map[string]struct{}), items: make([]model.Candidate, 0, limit), limit: limit}
}

func (cs *candidateSet) put(value string, reason model.CandidateStrategy) {
	v := collapseSpaces(value)
	if v == "" || len(cs.items) >= cs.limit {
		return
	}
	if _, dup := cs.seen[v]; dup {
		return
	}
	cs.seen[v] = struct{}{}
	cs.items = append(cs.items, model.Candidate{Value: v, Reason: reason})
}

// Dampen collapses repeated syllable runs ("지끈지끈" -> "지끈", "아아파" -> "아파")
// and removes whitespace-delimited intensifiers ("너무 아파요" -> "아파요").
func (g *Generator) Dampen(s string) string {
	out := collapseRepeatedChars(collapseRepeatedWords(s))

	tokens := strings.Fields(out)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := g.intensifiers[tok]; !ok {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// Weaken strips one sentence-final ending from the text and then one trailing
// particle from every token: "머리가 아파요" -> "머리 아파".
func (g *Generator) Weaken(s string) string {
	out := g.stripEnding(strings.TrimSpace(s))

	tokens := strings.Fields(out)
	cleaned := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if t := g.stripParticle(tok); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, " ")
}

func (g *Generator) stripEnding(s string) string {
	n := utf8.RuneCountInString(s)
	for _, e := range g.endings {
		if e != "" && strings.HasSuffix(s, e) && n > utf8.RuneCountInString(e) {
			return strings.TrimSpace(strings.TrimSuffix(s, e))
		}
	}
	if f := g.politeFallback; f != "" && strings.HasSuffix(s, f) && n > utf8.RuneCountInString(f) {
		return strings.TrimSpace(strings.TrimSuffix(s, f))
	}
	return s
}

// stripParticle never reduces a token below its first character.
func (g *Generator) stripParticle(tok string) string {
	n := utf8.RuneCountInString(tok)
	if n < 2 {
		return tok
	}
	for _, p := range g.particles {
		if p != "" && strings.HasSuffix(tok, p) && n > utf8.RuneCountInString(p) {
			return strings.TrimSuffix(tok, p)
		}
	}
	return tok
}

// collapseRepeatedWords replaces a 2-4 syllable run repeated back to back with a single
// copy, trying the longest unit first at every position.
func collapseRepeatedWords(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if size, next := repeatedUnit(runes, i); size > 0 {
			out = append(out, runes[i:i+size]...)
			i = next
			continue
		}
		out = append(out, runes[i])
		i++
	}
	return string(out)
}

// repeatedUnit returns the size of the syllable unit starting at i that is immediately
// repeated, and the position after its last repetition. size is 0 when nothing repeats.
func repeatedUnit(runes []rune, i int) (size, next int) {
	for size = 4; size >= 2; size-- {
		if i+2*size > len(runes) || !allHangul(runes[i:i+size]) {
			continue
		}
		unit := runes[i : i+size]
		next = i + size
		for next+size <= len(runes) && equalRunes(runes[next:next+size], unit) {
			next += size
		}
		if next > i+size {
			return size, next
		}
	}
	return 0, i
}

func collapseRepeatedChars(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if i > 0 && r == runes[i-1] && typoutil.IsHangulSyllable(r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func allHangul(runes []rune) bool {
	for _, r := range runes {
		if !typoutil.IsHangulSyllable(r) {
			return false
		}
	}
	return true
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
