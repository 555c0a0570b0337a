package candidate

import (
	"sort"
	"strings"
	"time"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

// TypoTable is an immutable, priority-ordered set of literal substitutions.
// A nil *TypoTable applies no corrections.
type TypoTable struct {
	rules    []model.TypoCorrectionRule
	skipped  int
	loadedAt time.Time
}

// NewTypoTable keeps the active rules with a non-blank pattern and orders them by
// descending priority. Rules with equal priority keep their input order.
func NewTypoTable(rules []model.TypoCorrectionRule) *TypoTable {
	t := &TypoTable{
		rules:    make([]model.TypoCorrectionRule, 0, len(rules)),
		loadedAt: time.Now(),
	}
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if strings.TrimSpace(r.Pattern) == "" {
			t.skipped++
			continue
		}
		t.rules = append(t.rules, r)
	}
	sort.SliceStable(t.rules, func(i, j int) bool {
		return t.rules[i].Priority > t.rules[j].Priority
	})
	return t
}

// Apply runs every substitution in order over s.
func (t *TypoTable) Apply(s string) string {
	if t == nil {
		return collapseSpaces(s)
	}
	out := s
	for _, r := range t.rules {
		out = strings.ReplaceAll(out, r.Pattern, r.Replacement)
	}
	return collapseSpaces(out)
}

// Len is the number of usable rules.
func (t *TypoTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Skipped is the number of active rows ignored for having a blank pattern.
func (t *TypoTable) Skipped() int {
	if t == nil {
		return 0
	}
	return t.skipped
}

// LoadedAt is when the table was built.
func (t *TypoTable) LoadedAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.loadedAt
}
