package config

import (
	"errors"

	"github.com/spigell/job-ranker/internal/rules"
)

// WeightEntry is one dimension weight in canonical order.
type WeightEntry struct {
	Dimension Dimension `json:"dimension"`
	Weight    float64   `json:"weight"`
}

// ActiveConfig is the diagnostic view of a resolved configuration.
type ActiveConfig struct {
	Mode                  Mode                `json:"mode"`
	Weights               []WeightEntry       `json:"weights"`
	Rules                 rules.Counts        `json:"rules"`
	Processing            rules.Processing    `json:"processing"`
	MissingSalaryStrategy MissingDataStrategy `json:"missing_salary_strategy"`
	MaxPenalty            float64             `json:"max_penalty"`
	MaxBonus              float64             `json:"max_bonus"`
}

// Summary reports the resolved mode, weights and rule counts.
func (r *Resolved) Summary() ActiveConfig {
	weights := make([]WeightEntry, 0, len(r.Weights))
	for _, dim := range r.Weights.Dimensions() {
		weights = append(weights, WeightEntry{Dimension: dim, Weight: r.Weights[dim]})
	}

	summary := ActiveConfig{
		Mode:                  r.Mode,
		Weights:               weights,
		MissingSalaryStrategy: r.Tuning.MissingData.Strategy,
		MaxPenalty:            r.Tuning.MaxPenalty,
		MaxBonus:              r.Tuning.MaxBonus,
	}
	if r.Rules != nil {
		summary.Rules = r.Rules.Counts()
		summary.Processing = r.Rules.Processing()
	}
	return summary
}

// Paths locates the three configuration documents. Scoring and Rules are optional.
type Paths struct {
	Profile string `mapstructure:"profile"`
	Scoring string `mapstructure:"scoring"`
	Rules   string `mapstructure:"rules"`
}

// LoadAll reads every document named in paths and resolves them.
func LoadAll(paths Paths) (*Resolved, error) {
	profile, err := LoadProfile(paths.Profile)
	if err != nil {
		return nil, err
	}
	scoring, err := LoadScoring(paths.Scoring)
	if err != nil {
		return nil, err
	}
	rulesDoc, err := LoadRules(paths.Rules)
	if err != nil {
		return nil, err
	}
	return Resolve(profile, scoring, rulesDoc)
}

// DocumentStatus is the validation outcome of one document.
type DocumentStatus struct {
	Document string `json:"document"`
	Path     string `json:"path,omitempty"`
	Valid    bool   `json:"valid"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ValidateFiles checks each document on its own, then the merged configuration.
// The last entry reports the merge; it is skipped when a document already failed.
func ValidateFiles(paths Paths) []DocumentStatus {
	report := make([]DocumentStatus, 0, 4)

	profile, err := LoadProfile(paths.Profile)
	report = append(report, statusOf(DocumentProfile, paths.Profile, err))

	var scoring *ScoringDocument
	if paths.Scoring == "" {
		report = append(report, DocumentStatus{Document: DocumentScoring, Valid: true, Skipped: true})
	} else {
		scoring, err = LoadScoring(paths.Scoring)
		report = append(report, statusOf(DocumentScoring, paths.Scoring, err))
	}

	var rulesDoc *RulesDocument
	if paths.Rules == "" {
		report = append(report, DocumentStatus{Document: DocumentRules, Valid: true, Skipped: true})
	} else {
		rulesDoc, err = LoadRules(paths.Rules)
		report = append(report, statusOf(DocumentRules, paths.Rules, err))
	}

	for _, status := range report {
		if !status.Valid {
			report = append(report, DocumentStatus{Document: "merged", Skipped: true})
			return report
		}
	}

	_, err = Resolve(profile, scoring, rulesDoc)
	return append(report, statusOf("merged", "", err))
}

// Valid reports whether every entry of a ValidateFiles report passed.
func Valid(report []DocumentStatus) bool {
	for _, status := range report {
		if !status.Valid && !status.Skipped {
			return false
		}
	}
	return true
}

func statusOf(document, path string, err error) DocumentStatus {
	status := DocumentStatus{Document: document, Path: path, Valid: err == nil}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// IsConfigError reports whether err is one of the configuration failure classes.
func IsConfigError(err error) bool {
	var validation *ValidationError
	var compilation *RuleCompilationError
	var unknown *UnknownRuleTypeError
	return errors.As(err, &validation) || errors.As(err, &compilation) || errors.As(err, &unknown)
}
