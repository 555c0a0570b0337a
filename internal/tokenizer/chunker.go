package tokenizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-symptom-mapper/config"
)

// Chunker splits a sanitized query into symptom mentions in five stages:
// hashtags, strong delimiters, spaced connectors, attached connectors and
// finally whitespace for short tag lists. The last two stages are skipped for
// pieces that read like a sentence.
type Chunker struct {
	spacedConnectors   map[string]struct{}
	attachedConnectors [][]rune
	particles          []string
	sentenceLike       *regexp.Regexp // nil when no fragments are configured
	shortTokenMaxLen   int
}

// NewChunker builds a chunker from the connector and sentence word lists in settings.
func NewChunker(settings *config.MatcherSettings) *Chunker {
	c := &Chunker{
		spacedConnectors: make(map[string]struct{}, len(settings.SpacedConnectors)),
		particles:        settings.Particles,
		sentenceLike:     compileSentencePattern(settings.SentenceFragments, settings.SentenceFinalEndings),
		shortTokenMaxLen: settings.ShortTokenMaxLen,
	}
	for _, w := range settings.SpacedConnectors {
		c.spacedConnectors[w] = struct{}{}
	}
	for _, w := range settings.AttachedConnectors {
		if w != "" {
			c.attachedConnectors = append(c.attachedConnectors, []rune(w))
		}
	}
	return c
}

// compileSentencePattern builds one alternation over the fragments. Final endings only
// count when followed by the end of text or by a character that is not a letter or digit.
func compileSentencePattern(fragments, finalEndings []string) *regexp.Regexp {
	var alts []string
	if quoted := quoteAll(fragments); len(quoted) > 0 {
		alts = append(alts, "(?:"+strings.Join(quoted, "|")+")")
	}
	if quoted := quoteAll(finalEndings); len(quoted) > 0 {
		alts = append(alts, `(?:`+strings.Join(quoted, "|")+`)(?:$|[^\p{L}\p{N}])`)
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

func quoteAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, regexp.QuoteMeta(w))
		}
	}
	return out
}

// LooksSentenceLike reports whether text contains a verb or ending fragment.
func (c *Chunker) LooksSentenceLike(text string) bool {
	return c.sentenceLike != nil && c.sentenceLike.MatchString(text)
}

// Chunk returns the ordered, non-empty mentions found in a sanitized query.
func (c *Chunker) Chunk(sanitized string) []string {
	out := make([]string, 0) // Initialize as empty slice, not nil
	if strings.TrimSpace(sanitized) == "" {
		return out
	}

	for _, part := range splitOn(sanitized, func(r rune) bool { return r == '#' }) {
		stage := []string{part}
		stage = flatMap(stage, func(s string) []string {
			return splitOn(s, func(r rune) bool { return r == ',' || r == '/' || r == '&' })
		})
		stage = flatMap(stage, c.splitSpacedConnectors)
		stage = flatMap(stage, c.splitAttachedConnectors)
		stage = flatMap(stage, c.splitWhitespaceIfListLike)
		out = append(out, stage...)
	}
	return out
}

func flatMap(pieces []string, split func(string) []string) []string {
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, split(p)...)
	}
	return out
}

// splitOn splits on runs of delimiter runes, trimming and dropping empty pieces.
func splitOn(s string, isDelim func(rune) bool) []string {
	fields := strings.FieldsFunc(s, isDelim)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitSpacedConnectors splits "복통 과 치통" on connector tokens that have a token on both sides.
func (c *Chunker) splitSpacedConnectors(piece string) []string {
	tokens := strings.Fields(piece)
	out := make([]string, 0, 1)
	start := 0
	for i, tok := range tokens {
		if _, ok := c.spacedConnectors[tok]; !ok || i == 0 || i == len(tokens)-1 {
			continue
		}
		if i > start {
			out = append(out, strings.Join(tokens[start:i], " "))
		}
		start = i + 1
	}
	if start < len(tokens) {
		out = append(out, strings.Join(tokens[start:], " "))
	}
	return out
}

// splitAttachedConnectors splits "복통과치통" where a connector sits between two Hangul syllables.
func (c *Chunker) splitAttachedConnectors(piece string) []string {
	if len(c.attachedConnectors) == 0 || c.LooksSentenceLike(piece) {
		return []string{piece}
	}

	runes := []rune(piece)
	out := make([]string, 0, 1)
	start := 0
	for i := 0; i < len(runes); {
		n := c.attachedConnectorAt(runes, i)
		if n == 0 {
			i++
			continue
		}
		if t := strings.TrimSpace(string(runes[start:i])); t != "" {
			out = append(out, t)
		}
		i += n
		start = i
	}
	if t := strings.TrimSpace(string(runes[start:])); t != "" {
		out = append(out, t)
	}
	return out
}

// attachedConnectorAt returns the rune length of the connector starting at i, or 0.
func (c *Chunker) attachedConnectorAt(runes []rune, i int) int {
	if i == 0 || !isHangul(runes[i-1]) {
		return 0
	}
	for _, conn := range c.attachedConnectors {
		end := i + len(conn)
		if end >= len(runes) || !isHangul(runes[end]) {
			continue
		}
		if string(runes[i:end]) == string(conn) {
			return len(conn)
		}
	}
	return 0
}

func isHangul(r rune) bool {
	return r >= '가' && r <= '힣'
}

// splitWhitespaceIfListLike splits "두통 치통" into tags but keeps "머리가 아파요" whole.
// A sentence-like piece is still split when only its last token is a predicate and it
// follows at least two bare nouns, as in "두통 치통 심해요".
func (c *Chunker) splitWhitespaceIfListLike(piece string) []string {
	tokens := strings.Fields(piece)
	if len(tokens) < 2 {
		return []string{piece}
	}

	if c.LooksSentenceLike(piece) {
		if c.isNounListWithPredicate(tokens) {
			return tokens
		}
		return []string{piece}
	}

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > c.shortTokenMaxLen {
			return []string{piece}
		}
	}
	return tokens
}

func (c *Chunker) isNounListWithPredicate(tokens []string) bool {
	if len(tokens) < 3 || !c.LooksSentenceLike(tokens[len(tokens)-1]) {
		return false
	}
	for _, tok := range tokens[:len(tokens)-1] {
		if utf8.RuneCountInString(tok) > c.shortTokenMaxLen || c.LooksSentenceLike(tok) || c.hasParticleSuffix(tok) {
			return false
		}
	}
	return true
}

func (c *Chunker) hasParticleSuffix(tok string) bool {
	for _, p := range c.particles {
		if p != "" && strings.HasSuffix(tok, p) {
			return true
		}
	}
	return false
}
