// Package config provides configuration structures for the symptom matcher.
// It defines thresholds, the word lists used by chunking and candidate generation,
// generic-code handling and the disambiguation rule table.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generic-code policies applied by the result consolidator when a specific symptom
// was found in the same query.
const (
	GenericPolicyDrop   = "drop"   // remove generic results entirely
	GenericPolicyDampen = "dampen" // keep them with a reduced confidence
)

// BonusRuleSetting describes one disambiguation rule. Pattern is a regular expression
// tested against the original chunk; when it matches, results for Code get Bonus added.
type BonusRuleSetting struct {
	Code    string  `json:"code" yaml:"code"`
	Pattern string  `json:"pattern" yaml:"pattern"`
	Bonus   float64 `json:"bonus" yaml:"bonus"`
}

// MatcherSettings contains every tunable of the matching pipeline.
// A nil word list means "use the default list"; an explicitly empty list disables it.
type MatcherSettings struct {
	AcceptanceThreshold float64 `json:"acceptance_threshold" yaml:"acceptance_threshold"` // minimum final score for an accepted match (e.g., 0.75)
	MaxCandidates       int     `json:"max_candidates" yaml:"max_candidates"`             // cap on rewrites per chunk (e.g., 8)
	ShortTokenMaxLen    int     `json:"short_token_max_len" yaml:"short_token_max_len"`   // max runes per token for a space-separated tag list (e.g., 5)

	SpacedConnectors     []string           `json:"spaced_connectors" yaml:"spaced_connectors"`           // connector words split when surrounded by spaces ("과", "및", "랑", "하고")
	AttachedConnectors   []string           `json:"attached_connectors" yaml:"attached_connectors"`       // connectors split when written without spaces between two Hangul runs
	SentenceFragments    []string           `json:"sentence_fragments" yaml:"sentence_fragments"`         // verb/ending fragments marking a chunk as a sentence
	SentenceFinalEndings []string           `json:"sentence_final_endings" yaml:"sentence_final_endings"` // fragments that count only at a word end ("다", "요")
	Intensifiers         []string           `json:"intensifiers" yaml:"intensifiers"`                     // whitespace-delimited emphasis words removed while damping
	Endings              []string           `json:"endings" yaml:"endings"`                               // sentence-final endings, most specific first
	PoliteEndingFallback string             `json:"polite_ending_fallback" yaml:"polite_ending_fallback"` // single trailing character stripped when no ending matched
	Particles            []string           `json:"particles" yaml:"particles"`                           // grammatical particle suffixes stripped per token
	GenericCodes         []string           `json:"generic_codes" yaml:"generic_codes"`                   // codes meaning unspecific pain/discomfort
	GenericPolicy        string             `json:"generic_policy" yaml:"generic_policy"`                 // "drop" or "dampen"
	GenericDampenFactor  float64            `json:"generic_dampen_factor" yaml:"generic_dampen_factor"`   // multiplier for generic results under the dampen policy
	FeedbackQueueSize    int                `json:"feedback_queue_size" yaml:"feedback_queue_size"`       // buffered unmapped-term writes before dropping
	FeedbackRecentTerms  int                `json:"feedback_recent_terms" yaml:"feedback_recent_terms"`   // unmapped terms kept in memory for the top-unmapped summary
	ReloadWorkers        int                `json:"reload_workers" yaml:"reload_workers"`                 // concurrent reload jobs
	MultiResolveParallel int                `json:"multi_resolve_parallel" yaml:"multi_resolve_parallel"` // concurrent queries in a multi-resolve request
	BonusRules           []BonusRuleSetting `json:"bonus_rules" yaml:"bonus_rules"`                       // disambiguation rules evaluated in order
}

// DefaultBonusRules returns the built-in disambiguation rule table.
func DefaultBonusRules() []BonusRuleSetting {
	return []BonusRuleSetting{
		{Code: "HEADACHE", Pattern: `두통|머리.*아프|지끈|어지럽`, Bonus: 0.10},
		{Code: "TOOTHACHE", Pattern: `치통|이.*아프|잇몸.*아프`, Bonus: 0.10},
		{Code: "ABDOMINAL_PAIN", Pattern: `복통|배.*아프|배.*쓰라|속.*메스|구토|설사`, Bonus: 0.10},
	}
}

// DefaultMatcherSettings returns settings with every field populated.
func DefaultMatcherSettings() MatcherSettings {
	var settings MatcherSettings
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults applies default values to unset fields
func (settings *MatcherSettings) ApplyDefaults() {
	if settings.AcceptanceThreshold == 0 {
		settings.AcceptanceThreshold = 0.75
	}
	if settings.MaxCandidates == 0 {
		settings.MaxCandidates = 8
	}
	if settings.ShortTokenMaxLen == 0 {
		settings.ShortTokenMaxLen = 5
	}
	if settings.SpacedConnectors == nil {
		settings.SpacedConnectors = []string{"과", "및", "랑", "하고"}
	}
	if settings.AttachedConnectors == nil {
		// "하고" is left out: splitting it unspaced breaks verbs such as "구토하고".
		settings.AttachedConnectors = []string{"과", "및", "랑"}
	}
	if settings.SentenceFragments == nil {
		settings.SentenceFragments = []string{
			"아파", "아프", "쓰라", "메스", "어지", "지끈", "토하", "구토", "설사", "기침", "콧물",
			"열", "발열", "가려", "따가", "붓", "부었", "힘들", "나요", "해요", "입니다",
		}
	}
	if settings.SentenceFinalEndings == nil {
		settings.SentenceFinalEndings = []string{"다", "요"}
	}
	if settings.Intensifiers == nil {
		settings.Intensifiers = []string{"너무", "엄청", "진짜", "완전", "되게", "겁나", "많이", "좀", "약간"}
	}
	if settings.Endings == nil {
		settings.Endings = []string{"입니다", "이에요", "예요", "였어요", "했어요", "해요", "어요", "아요", "네요", "나요", "죠", "요"}
	}
	if settings.PoliteEndingFallback == "" {
		settings.PoliteEndingFallback = "요"
	}
	if settings.Particles == nil {
		settings.Particles = []string{
			"으로", "에서", "부터", "까지",
			"은", "는", "이", "가", "을", "를", "에", "도", "만", "과", "와", "랑",
		}
	}
	if settings.GenericCodes == nil {
		settings.GenericCodes = []string{"PAIN", "ACHE", "DISCOMFORT"}
	}
	if settings.GenericPolicy == "" {
		settings.GenericPolicy = GenericPolicyDrop
	}
	if settings.GenericDampenFactor == 0 {
		settings.GenericDampenFactor = 0.8
	}
	if settings.FeedbackQueueSize == 0 {
		settings.FeedbackQueueSize = 256
	}
	if settings.FeedbackRecentTerms == 0 {
		settings.FeedbackRecentTerms = 1000
	}
	if settings.ReloadWorkers == 0 {
		settings.ReloadWorkers = 1
	}
	if settings.MultiResolveParallel == 0 {
		settings.MultiResolveParallel = 4
	}
	if settings.BonusRules == nil {
		settings.BonusRules = DefaultBonusRules()
	}
}

// Validate checks the settings for inconsistent values and returns one message per problem.
func (settings *MatcherSettings) Validate() []string {
	var problems []string

	if settings.AcceptanceThreshold <= 0 || settings.AcceptanceThreshold > 1 {
		problems = append(problems, fmt.Sprintf("acceptance_threshold must be in (0, 1], got %v", settings.AcceptanceThreshold))
	}
	if settings.MaxCandidates < 1 {
		problems = append(problems, "max_candidates must be at least 1")
	}
	if settings.ShortTokenMaxLen < 1 {
		problems = append(problems, "short_token_max_len must be at least 1")
	}
	if settings.GenericPolicy != GenericPolicyDrop && settings.GenericPolicy != GenericPolicyDampen {
		problems = append(problems, "Invalid generic_policy '"+settings.GenericPolicy+"' (must be 'drop' or 'dampen')")
	}
	if settings.GenericDampenFactor <= 0 || settings.GenericDampenFactor > 1 {
		problems = append(problems, fmt.Sprintf("generic_dampen_factor must be in (0, 1], got %v", settings.GenericDampenFactor))
	}
	if settings.FeedbackQueueSize < 1 {
		problems = append(problems, "feedback_queue_size must be at least 1")
	}
	if settings.ReloadWorkers < 1 {
		problems = append(problems, "reload_workers must be at least 1")
	}
	if settings.MultiResolveParallel < 1 {
		problems = append(problems, "multi_resolve_parallel must be at least 1")
	}

	lists := []struct {
		name  string
		words []string
	}{
		{"spaced_connectors", settings.SpacedConnectors},
		{"attached_connectors", settings.AttachedConnectors},
		{"sentence_fragments", settings.SentenceFragments},
		{"sentence_final_endings", settings.SentenceFinalEndings},
		{"intensifiers", settings.Intensifiers},
		{"endings", settings.Endings},
		{"particles", settings.Particles},
		{"generic_codes", settings.GenericCodes},
	}
	for _, list := range lists {
		problems = append(problems, checkDuplicates(list.name, list.words)...)
		for _, w := range list.words {
			if strings.TrimSpace(w) == "" {
				problems = append(problems, "Empty or whitespace-only entry in "+list.name)
			}
		}
	}

	for i, rule := range settings.BonusRules {
		if strings.TrimSpace(rule.Code) == "" {
			problems = append(problems, fmt.Sprintf("bonus_rules[%d]: code cannot be empty", i))
		}
		if rule.Bonus < 0 || rule.Bonus > 1 {
			problems = append(problems, fmt.Sprintf("bonus_rules[%d]: bonus must be in [0, 1], got %v", i, rule.Bonus))
		}
		if rule.Pattern == "" {
			problems = append(problems, fmt.Sprintf("bonus_rules[%d]: pattern cannot be empty", i))
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("bonus_rules[%d]: invalid pattern: %v", i, err))
		}
	}

	return problems
}

// IsGenericCode reports whether code is one of the configured generic codes.
func (settings *MatcherSettings) IsGenericCode(code string) bool {
	for _, c := range settings.GenericCodes {
		if c == code {
			return true
		}
	}
	return false
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(listName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate entry '"+v+"' found in "+listName)
		}
		seen[v] = true
	}

	return errors
}

// LoadMatcherSettings reads a YAML settings file on top of the defaults.
// Keys missing from the file keep their default value; a key set to zero is
// validated as written rather than replaced by its default.
func LoadMatcherSettings(path string) (MatcherSettings, error) {
	settings := DefaultMatcherSettings()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return MatcherSettings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return MatcherSettings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if problems := settings.Validate(); len(problems) > 0 {
		return MatcherSettings{}, fmt.Errorf("invalid settings in %s: %s", path, strings.Join(problems, "; "))
	}
	return settings, nil
}
