package typoutil

import "strings"

const (
	hangulBase  = 0xAC00
	hangulLast  = 0xD7A3
	jungCount   = 21
	jongCount   = 28
	syllableSet = jungCount * jongCount
)

var (
	choSeong  = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
	jungSeong = []rune("ㅏㅐㅑㅒㅓㅔㅕㅖㅗㅘㅙㅚㅛㅜㅝㅞㅟㅠㅡㅢㅣ")
	// index 0 means "no final consonant"
	jongSeong = []rune(" ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ")
)

// IsHangulSyllable reports whether r is a precomposed Hangul syllable (가..힣).
func IsHangulSyllable(r rune) bool {
	return r >= hangulBase && r <= hangulLast
}

// ToJamo decomposes every Hangul syllable into its initial, medial and (if any)
// final compatibility jamo. Other runes are copied unchanged.
func ToJamo(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for _, r := range s {
		if !IsHangulSyllable(r) {
			sb.WriteRune(r)
			continue
		}
		offset := int(r - hangulBase)
		sb.WriteRune(choSeong[offset/syllableSet])
		sb.WriteRune(jungSeong[(offset%syllableSet)/jongCount])
		if jong := offset % jongCount; jong != 0 {
			sb.WriteRune(jongSeong[jong])
		}
	}
	return sb.String()
}
