package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gcbaptista/go-symptom-mapper/config"
)

func newTestChunker() *Chunker {
	settings := config.DefaultMatcherSettings()
	return NewChunker(&settings)
}

func TestChunker_Chunk(t *testing.T) {
	c := newTestChunker()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single term", "두통", []string{"두통"}},
		{"comma delimited", "두통,치통", []string{"두통", "치통"}},
		{"mixed strong delimiters", "두통/치통&복통", []string{"두통", "치통", "복통"}},
		{"hashtags", "#두통#치통", []string{"두통", "치통"}},
		{"repeated hashes", "##두통 ### 치통", []string{"두통", "치통"}},
		{"spaced connector", "복통 하고 치통", []string{"복통", "치통"}},
		{"spaced connector in list", "두통, 치통 및 복통", []string{"두통", "치통", "복통"}},
		{"connector at edge is kept", "및 두통", []string{"및", "두통"}},
		{"attached connector", "두통및치통", []string{"두통", "치통"}},
		{"attached connector gwa", "두통과치통", []string{"두통", "치통"}},
		{"attached connector ignored in sentences", "복통과설사", []string{"복통과설사"}},
		{"short tag list", "두통 치통", []string{"두통", "치통"}},
		{"sentence kept whole", "배가 아파요", []string{"배가 아파요"}},
		{"head sentence kept whole", "머리가 아파요", []string{"머리가 아파요"}},
		{"long tokens kept whole", "편두통같은느낌 관자놀이통증", []string{"편두통같은느낌 관자놀이통증"}},
		{"noun list with trailing predicate", "두통 치통 심해요", []string{"두통", "치통", "심해요"}},
		{"particle blocks predicate split", "머리가 배가 아파요", []string{"머리가 배가 아파요"}},
		// Two bare nouns before a predicate read as a tag list even in a real sentence.
		{"bare nouns before predicate split", "머리 배 아파요", []string{"머리", "배", "아파요"}},
		{"single bare noun before predicate kept whole", "머리 아파요", []string{"머리 아파요"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Chunk(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Chunk(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestChunker_NeverEmitsBlankChunks(t *testing.T) {
	c := newTestChunker()
	inputs := []string{
		",,,", "# # #", "두통,,치통", "과", " 및 ", "/&/", "두통 과 과 치통", "두통과", "과두통",
		"너무 너무 아파요", "a b c d e f",
	}

	for _, in := range inputs {
		for _, chunk := range c.Chunk(Sanitize(in)) {
			if strings.TrimSpace(chunk) == "" || chunk != strings.TrimSpace(chunk) {
				t.Errorf("Chunk(%q) produced blank or untrimmed chunk %q", in, chunk)
			}
		}
	}
}

func TestChunker_LooksSentenceLike(t *testing.T) {
	c := newTestChunker()

	tests := []struct {
		text string
		want bool
	}{
		{"배가 아파요", true},
		{"머리가 지끈거림", true},
		{"열", true},
		{"괜찮습니다", true},
		{"다리", false},
		{"요통", false},
		{"두통", false},
		{"두통 치통", false},
	}

	for _, tt := range tests {
		if got := c.LooksSentenceLike(tt.text); got != tt.want {
			t.Errorf("LooksSentenceLike(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestChunker_CustomWordLists(t *testing.T) {
	settings := config.DefaultMatcherSettings()
	settings.SentenceFragments = []string{}
	settings.SentenceFinalEndings = []string{}
	settings.AttachedConnectors = []string{}
	c := NewChunker(&settings)

	if c.LooksSentenceLike("배가 아파요") {
		t.Error("no fragments configured, nothing should look like a sentence")
	}
	if diff := cmp.Diff([]string{"배가", "아파요"}, c.Chunk("배가 아파요")); diff != "" {
		t.Errorf("short tokens split once the sentence guard is disabled (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"두통과치통"}, c.Chunk("두통과치통")); diff != "" {
		t.Errorf("attached connectors disabled (-want +got):\n%s", diff)
	}
}
