// Package typoutil holds the string similarity measures used by fuzzy matching.
package typoutil

// Distance returns the Levenshtein distance between a and b counted in runes,
// so one Hangul syllable is one edit.
func Distance(a, b string) int {
	return runeDistance([]rune(a), []rune(b))
}

// runeDistance keeps two rows of the edit matrix instead of the full table.
func runeDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			substitution := prev[j-1]
			if a[i-1] != b[j-1] {
				substitution++
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, substitution)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// similarity is 1 - distance/longest. Two empty inputs are identical.
func similarity(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(runeDistance(a, b))/float64(longest)
}

// EditSimilarity compares the normalized keys of a and b.
func EditSimilarity(a, b string) float64 {
	return similarity([]rune(NormKey(a)), []rune(NormKey(b)))
}

// JamoEditSimilarity is EditSimilarity computed after splitting syllables into jamo,
// so a single wrong vowel or final consonant costs one jamo instead of a whole syllable.
func JamoEditSimilarity(a, b string) float64 {
	return similarity([]rune(ToJamo(NormKey(a))), []rune(ToJamo(NormKey(b))))
}
