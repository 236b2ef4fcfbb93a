// Package rules evaluates declarative adjustment and reject rules against job postings.
//
// Rules are closed sum types: every variant lives in this package and implements an
// unexported matcher, so an unknown rule type can only be rejected while the
// configuration is resolved, never silently skipped during evaluation.
package rules

import (
	"sort"
	"strings"

	"github.com/spigell/job-ranker/internal/jobs"
)

type Type string

const (
	TypeKeyword          Type = "keyword"
	TypeCompanyPattern   Type = "company_pattern"
	TypeSalaryRange      Type = "salary_range"
	TypeExperienceGap    Type = "experience_gap"
	TypeRatingThreshold  Type = "rating_threshold"
	TypeLocation         Type = "location"
	TypeRatingBelow      Type = "rating_below"
	TypeVagueDescription Type = "vague_description"
	TypeJobType          Type = "job_type"
	TypeDistance         Type = "distance"
)

// Kind tells whether an adjustment lowers or raises the score.
type Kind string

const (
	KindPenalty Kind = "penalty"
	KindBonus   Kind = "bonus"
)

// Base holds the fields shared by every adjustment rule.
type Base struct {
	ID      string
	Points  float64
	Reason  string
	Enabled bool
}

func (b Base) base() Base { return b }

// Kind is derived from the sign of Points.
func (b Base) Kind() Kind {
	if b.Points < 0 {
		return KindPenalty
	}
	return KindBonus
}

// Adjustment is a penalty or bonus rule.
type Adjustment interface {
	Type() Type
	Kind() Kind
	base() Base
	matches(job *jobs.Posting) bool
}

// RejectBase holds the fields shared by every reject rule.
type RejectBase struct {
	ID      string
	Reason  string
	Enabled bool
}

func (b RejectBase) rejectBase() RejectBase { return b }

// Reject is a rule that excludes a posting outright.
type Reject interface {
	Type() Type
	rejectBase() RejectBase
	matches(job *jobs.Posting) bool
}

// Info exposes the common fields of an adjustment rule.
func Info(rule Adjustment) Base { return rule.base() }

// RejectInfo exposes the common fields of a reject rule.
func RejectInfo(rule Reject) RejectBase { return rule.rejectBase() }

// Keywords are lowercased keyword lists grouped by language tag.
type Keywords map[string][]string

// NewKeywords normalizes keyword lists, dropping blanks. Language tags are lowercased.
func NewKeywords(byLanguage map[string][]string) Keywords {
	keywords := make(Keywords, len(byLanguage))
	for lang, list := range byLanguage {
		normalized := make([]string, 0, len(list))
		for _, keyword := range list {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" {
				normalized = append(normalized, keyword)
			}
		}
		if len(normalized) > 0 {
			keywords[strings.ToLower(strings.TrimSpace(lang))] = normalized
		}
	}
	return keywords
}

// Len returns the total number of keywords over all languages.
func (k Keywords) Len() int {
	total := 0
	for _, list := range k {
		total += len(list)
	}
	return total
}

// Match reports whether text contains any keyword. When the language has its own list only
// that list is consulted, otherwise every list is.
func (k Keywords) Match(text, language string) bool {
	if list, ok := k[strings.ToLower(strings.TrimSpace(language))]; ok {
		return containsAny(text, list)
	}

	langs := make([]string, 0, len(k))
	for lang := range k {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		if containsAny(text, k[lang]) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
