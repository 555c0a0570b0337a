// Package rules holds the disambiguation table: regular expressions over the original
// chunk that boost (or, failing any match, propose) a specific canonical code.
package rules

import (
	"fmt"
	"regexp"

	"github.com/gcbaptista/go-symptom-mapper/config"
)

// BonusRule ties a compiled pattern to a canonical code and a score bonus.
type BonusRule struct {
	Code    string
	Pattern *regexp.Regexp
	Bonus   float64
}

// Engine evaluates the rule table in its configured order. It is immutable and safe
// for concurrent use.
type Engine struct {
	rules []BonusRule
}

// NewEngine compiles the rule definitions. An invalid pattern fails the whole table.
func NewEngine(defs []config.BonusRuleSetting) (*Engine, error) {
	rules := make([]BonusRule, 0, len(defs))
	for i, def := range defs {
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bonus rule %d (%s): invalid pattern: %w", i, def.Code, err)
		}
		rules = append(rules, BonusRule{Code: def.Code, Pattern: re, Bonus: def.Bonus})
	}
	return &Engine{rules: rules}, nil
}

// DefaultEngine compiles the built-in rule table.
func DefaultEngine() *Engine {
	e, err := NewEngine(config.DefaultBonusRules())
	if err != nil {
		panic(err) // built-in patterns are constants
	}
	return e
}

// Rules returns the table in evaluation order.
func (e *Engine) Rules() []BonusRule {
	return e.rules
}

// Matching returns, in table order, the rules whose pattern occurs in chunk.
func (e *Engine) Matching(chunk string) []BonusRule {
	var out []BonusRule
	for _, r := range e.rules {
		if r.Pattern.MatchString(chunk) {
			out = append(out, r)
		}
	}
	return out
}
