package model

// CanonicalSymptom is an entry of the controlled vocabulary that queries resolve to.
// Code is the stable machine key, DisplayName the user-facing label.
type CanonicalSymptom struct {
	ID          int64  `json:"id" yaml:"id"`
	Code        string `json:"code" yaml:"code"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Active      bool   `json:"active" yaml:"active"`
}

// SymptomAlias is a synonym or colloquial phrasing of a canonical symptom.
// Weight is a trust factor in (0, 1] applied to alias-based scores.
type SymptomAlias struct {
	ID                  int64   `json:"id" yaml:"id"`
	SymptomID           int64   `json:"symptom_id" yaml:"symptom_id"`
	AliasText           string  `json:"alias" yaml:"alias"`
	NormalizedAliasText string  `json:"normalized_alias" yaml:"normalized_alias"`
	Weight              float64 `json:"weight" yaml:"weight"`
	Active              bool    `json:"active" yaml:"active"`
}

// TypoCorrectionRule is a literal substring substitution ("츠통" -> "치통").
// Rules with a higher Priority are applied first.
type TypoCorrectionRule struct {
	ID          int64  `json:"id" yaml:"id"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Priority    int    `json:"priority" yaml:"priority"`
	Active      bool   `json:"active" yaml:"active"`
}
