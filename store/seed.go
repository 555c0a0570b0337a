package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/services"
)

// Vocabulary is the YAML seed format. Aliases are nested under their symptom so
// seed files never reference database ids.
//
//	symptoms:
//	  - code: HEADACHE
//	    display_name: 두통
//	    aliases:
//	      - alias: 머리 아픔
//	        weight: 0.9
//	typo_corrections:
//	  - pattern: 츠통
//	    replacement: 치통
//	    priority: 10
type Vocabulary struct {
	Symptoms        []SeedSymptom  `yaml:"symptoms"`
	TypoCorrections []SeedTypoRule `yaml:"typo_corrections"`
}

// SeedSymptom is a symptom with its aliases. Active defaults to true.
type SeedSymptom struct {
	Code        string      `yaml:"code"`
	DisplayName string      `yaml:"display_name"`
	Active      *bool       `yaml:"active"`
	Aliases     []SeedAlias `yaml:"aliases"`
}

// SeedAlias is an alias entry. Weight defaults to 1.0 and Active to true.
type SeedAlias struct {
	Alias           string   `yaml:"alias"`
	NormalizedAlias string   `yaml:"normalized_alias"`
	Weight          *float64 `yaml:"weight"`
	Active          *bool    `yaml:"active"`
}

// SeedTypoRule is a typo correction entry. Active defaults to true.
type SeedTypoRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Priority    int    `yaml:"priority"`
	Active      *bool  `yaml:"active"`
}

// SeedResult counts the rows written by Seed.
type SeedResult struct {
	Symptoms  int `json:"symptoms"`
	Aliases   int `json:"aliases"`
	TypoRules int `json:"typo_rules"`
}

// LoadVocabularyFile reads a YAML seed file.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML seed document and checks required fields.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	var problems []string
	for i, s := range vocab.Symptoms {
		if strings.TrimSpace(s.Code) == "" {
			problems = append(problems, fmt.Sprintf("symptoms[%d]: code cannot be empty", i))
		}
		for j, a := range s.Aliases {
			if strings.TrimSpace(a.Alias) == "" {
				problems = append(problems, fmt.Sprintf("symptoms[%d].aliases[%d]: alias cannot be empty", i, j))
			}
		}
	}
	for i, r := range vocab.TypoCorrections {
		if r.Pattern == "" {
			problems = append(problems, fmt.Sprintf("typo_corrections[%d]: pattern cannot be empty", i))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid vocabulary: %s", strings.Join(problems, "; "))
	}
	return &vocab, nil
}

// Seed upserts every entry of vocab through writer. It stops at the first error.
func Seed(ctx context.Context, writer services.VocabularyWriter, vocab *Vocabulary) (SeedResult, error) {
	var result SeedResult
	for _, s := range vocab.Symptoms {
		id, err := writer.UpsertSymptom(ctx, model.CanonicalSymptom{
			Code:        s.Code,
			DisplayName: s.DisplayName,
			Active:      boolOr(s.Active, true),
		})
		if err != nil {
			return result, err
		}
		result.Symptoms++

		for _, a := range s.Aliases {
			weight := 1.0
			if a.Weight != nil {
				weight = *a.Weight
			}
			_, err := writer.UpsertAlias(ctx, model.SymptomAlias{
				SymptomID:           id,
				AliasText:           a.Alias,
				NormalizedAliasText: a.NormalizedAlias,
				Weight:              weight,
				Active:              boolOr(a.Active, true),
			})
			if err != nil {
				return result, err
			}
			result.Aliases++
		}
	}

	for _, r := range vocab.TypoCorrections {
		_, err := writer.UpsertTypoRule(ctx, model.TypoCorrectionRule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Priority:    r.Priority,
			Active:      boolOr(r.Active, true),
		})
		if err != nil {
			return result, err
		}
		result.TypoRules++
	}
	return result, nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
