package typoutil

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"substitution", "kitten", "sitten", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"symmetric", "sunday", "saturday", 3},
		{"accented runes", "résumé", "resume", 2},
		{"hangul syllable substitution", "두통", "두퉁", 1},
		{"hangul insertion", "치통", "치통증", 1},
		{"hangul deletion", "메스꺼움", "메스꺼", 1},
		{"jamo runes", "ㄷㅜㅌㅗㅇ", "ㄷㅜㅌㅜㅇ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"whitespace only normalizes to empty", "  ", "", 1.0},
		{"identical", "두통", "두통", 1.0},
		{"spacing ignored", "머리 아픔", "머리아픔", 1.0},
		{"case ignored", "Headache", "headache", 1.0},
		{"one syllable of two", "두통", "두퉁", 0.5},
		{"disjoint", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditSimilarity(tt.a, tt.b)
			if !approxEqual(got, tt.want) {
				t.Errorf("EditSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJamoEditSimilarity(t *testing.T) {
	// ㄷㅜㅌㅗㅇ vs ㄷㅜㅌㅜㅇ: one jamo out of five
	if got := JamoEditSimilarity("두통", "두퉁"); !approxEqual(got, 0.8) {
		t.Errorf("JamoEditSimilarity(두통, 두퉁) = %v, want 0.8", got)
	}
	if got := JamoEditSimilarity("", ""); got != 1.0 {
		t.Errorf("JamoEditSimilarity of empty strings = %v, want 1.0", got)
	}
	if JamoEditSimilarity("두통", "두퉁") <= EditSimilarity("두통", "두퉁") {
		t.Error("jamo similarity should be more forgiving than syllable similarity for a vowel typo")
	}
}
