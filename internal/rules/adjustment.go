package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/job-ranker/internal/jobs"
)

// KeywordRule triggers once when any keyword occurs in the title or description.
type KeywordRule struct {
	Base
	Keywords Keywords
}

func (r *KeywordRule) Type() Type { return TypeKeyword }

func (r *KeywordRule) matches(job *jobs.Posting) bool {
	return r.Keywords.Match(job.Text(), job.Language)
}

// CompanyPatternRule tests a case-insensitive regular expression against the company name.
type CompanyPatternRule struct {
	Base
	Pattern string
	re      *regexp.Regexp
}

// NewCompanyPatternRule compiles the pattern once; the rule is then safe for concurrent use.
func NewCompanyPatternRule(base Base, pattern string) (*CompanyPatternRule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling company pattern %q: %w", pattern, err)
	}
	return &CompanyPatternRule{Base: base, Pattern: pattern, re: re}, nil
}

func (r *CompanyPatternRule) Type() Type { return TypeCompanyPattern }

func (r *CompanyPatternRule) matches(job *jobs.Posting) bool {
	return r.re != nil && r.re.MatchString(job.Company)
}

// SalaryRangeRule triggers when a known salary in Currency is below MaxAcceptable.
type SalaryRangeRule struct {
	Base
	MaxAcceptable float64
	Currency      string
}

func (r *SalaryRangeRule) Type() Type { return TypeSalaryRange }

func (r *SalaryRangeRule) matches(job *jobs.Posting) bool {
	salary, ok := job.SalaryIn(r.Currency)
	return ok && salary < r.MaxAcceptable
}

// ExperienceGapRule triggers when the required experience exceeds YourExperience by more than MaxGap.
type ExperienceGapRule struct {
	Base
	YourExperience float64
	MaxGap         float64
}

func (r *ExperienceGapRule) Type() Type { return TypeExperienceGap }

func (r *ExperienceGapRule) matches(job *jobs.Posting) bool {
	if job.RequiredExperience == nil {
		return false
	}
	return *job.RequiredExperience-r.YourExperience > r.MaxGap
}

// RatingThresholdRule is a bonus for companies rated at least MinRating.
type RatingThresholdRule struct {
	Base
	MinRating float64
}

func (r *RatingThresholdRule) Type() Type { return TypeRatingThreshold }

func (r *RatingThresholdRule) matches(job *jobs.Posting) bool {
	return job.CompanyRating != nil && *job.CompanyRating >= r.MinRating
}

// PoorRatingRule is a penalty for companies rated below MaxRating. An unknown rating never
// triggers it.
type PoorRatingRule struct {
	Base
	MaxRating float64
}

func (r *PoorRatingRule) Type() Type { return TypeRatingBelow }

// Kind stays a penalty even when the rule is disabled with zero points.
func (r *PoorRatingRule) Kind() Kind { return KindPenalty }

func (r *PoorRatingRule) matches(job *jobs.Posting) bool {
	return job.CompanyRating != nil && *job.CompanyRating < r.MaxRating
}

// VagueDescriptionRule is a penalty for postings without a tech stack whose description has
// fewer than MinWords words.
type VagueDescriptionRule struct {
	Base
	MinWords int
}

func (r *VagueDescriptionRule) Type() Type { return TypeVagueDescription }

func (r *VagueDescriptionRule) Kind() Kind { return KindPenalty }

func (r *VagueDescriptionRule) matches(job *jobs.Posting) bool {
	if len(job.TechStack) > 0 {
		return false
	}
	return len(strings.Fields(job.Description)) < r.MinWords
}

// LocationRule is a bonus for postings located in one of PreferredLocations.
// "remote" matches any fully remote posting.
type LocationRule struct {
	Base
	PreferredLocations []string
}

func NewLocationRule(base Base, preferred []string) *LocationRule {
	locations := make([]string, 0, len(preferred))
	for _, location := range preferred {
		location = strings.ToLower(strings.TrimSpace(location))
		if location != "" {
			locations = append(locations, location)
		}
	}
	return &LocationRule{Base: base, PreferredLocations: locations}
}

func (r *LocationRule) Type() Type { return TypeLocation }

func (r *LocationRule) matches(job *jobs.Posting) bool {
	location := strings.ToLower(job.Location)
	remote := job.IsRemote()
	for _, preferred := range r.PreferredLocations {
		if preferred == jobs.RemoteOptionRemote && remote {
			return true
		}
		if location != "" && strings.Contains(location, preferred) {
			return true
		}
	}
	return false
}
