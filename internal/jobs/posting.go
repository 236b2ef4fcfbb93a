package jobs

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	PostingIDField      = "ID"
	PostingCompanyField = "Company"

	RemoteOptionRemote = "remote"
	RemoteOptionHybrid = "hybrid"
	RemoteOptionOnsite = "onsite"
)

// Postings is an ordered list of normalized job postings.
type Postings struct {
	Items []*Posting `json:"items" yaml:"items"`
}

// Posting is a job posting after extraction and enrichment.
// Optional numeric fields are nil when the source did not provide them.
type Posting struct {
	ID                 string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title              string   `json:"title,omitempty" yaml:"title,omitempty"`
	Company            string   `json:"company,omitempty" yaml:"company,omitempty"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Language           string   `json:"language,omitempty" yaml:"language,omitempty"`
	Location           string   `json:"location,omitempty" yaml:"location,omitempty"`
	RemoteOption       string   `json:"remote_option,omitempty" yaml:"remote_option,omitempty"`
	JobType            string   `json:"job_type,omitempty" yaml:"job_type,omitempty"`
	TechStack          []string `json:"tech_stack,omitempty" yaml:"tech_stack,omitempty"`
	MonthlySalary      *float64 `json:"monthly_salary,omitempty" yaml:"monthly_salary,omitempty"`
	SalaryCurrency     string   `json:"salary_currency,omitempty" yaml:"salary_currency,omitempty"`
	CompanyRating      *float64 `json:"company_rating,omitempty" yaml:"company_rating,omitempty"`
	DistanceKm         *float64 `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
	RequiredExperience *float64 `json:"required_experience,omitempty" yaml:"required_experience,omitempty"`
	URL                string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Text returns the lowercased title and description used for keyword matching.
func (p *Posting) Text() string {
	return strings.ToLower(p.Title + "\n" + p.Description)
}

//nolint:gochecknoglobals // remote option vocabulary
var arrangementAliases = map[string]string{
	"remote":          RemoteOptionRemote,
	"fullremote":      RemoteOptionRemote,
	"fullyremote":     RemoteOptionRemote,
	"remoteonly":      RemoteOptionRemote,
	"remotefirst":     RemoteOptionRemote,
	"workfromhome":    RemoteOptionRemote,
	"wfh":             RemoteOptionRemote,
	"teletravail":     RemoteOptionRemote,
	"télétravail":     RemoteOptionRemote,
	"hybrid":          RemoteOptionHybrid,
	"hybride":         RemoteOptionHybrid,
	"partialremote":   RemoteOptionHybrid,
	"partiallyremote": RemoteOptionHybrid,
	"onsite":          RemoteOptionOnsite,
	"office":          RemoteOptionOnsite,
	"inoffice":        RemoteOptionOnsite,
	"onpremises":      RemoteOptionOnsite,
	"présentiel":      RemoteOptionOnsite,
	"presentiel":      RemoteOptionOnsite,
	"sursite":         RemoteOptionOnsite,
}

// Arrangement maps the remote option onto remote, hybrid or onsite. Case, spaces and
// punctuation are ignored, so "On-site" and "Full Remote" are understood. Anything outside
// the vocabulary yields an empty string.
func (p *Posting) Arrangement() string {
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, p.RemoteOption)
	return arrangementAliases[key]
}

// IsRemote reports whether the posting is fully remote.
func (p *Posting) IsRemote() bool {
	if p.Arrangement() == RemoteOptionRemote {
		return true
	}
	return strings.Contains(strings.ToLower(p.Location), RemoteOptionRemote)
}

// SalaryIn returns the monthly salary when it is known and expressed in currency.
// A posting without a currency is assumed to use the requested one.
func (p *Posting) SalaryIn(currency string) (float64, bool) {
	if p.MonthlySalary == nil {
		return 0, false
	}
	own := strings.TrimSpace(p.SalaryCurrency)
	if own != "" && !strings.EqualFold(own, strings.TrimSpace(currency)) {
		return 0, false
	}
	return *p.MonthlySalary, true
}

func (p *Posting) GetStringField(name string) string {
	switch name {
	case PostingIDField:
		return p.ID
	case PostingCompanyField:
		return p.Company
	default:
		return ""
	}
}

func (v *Postings) Len() int {
	return len(v.Items)
}

// Exclude removes postings whose field equals one of targets, case-insensitively,
// and returns the IDs of the removed postings. Blank values never match. Order of the
// remaining items is kept.
func (v *Postings) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if target = strings.ToLower(strings.TrimSpace(target)); target != "" {
			set[target] = struct{}{}
		}
	}

	var excluded []string
	kept := v.Items[:0]
	for _, posting := range v.Items {
		value := strings.ToLower(strings.TrimSpace(posting.GetStringField(name)))
		if _, ok := set[value]; ok && value != "" {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	v.Items = kept

	return excluded
}

// ReportByCompany groups short posting descriptions by company name.
func (v *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range v.Items {
		key := posting.Company
		if key == "" {
			key = "unknown"
		}

		entry := map[string]string{
			"id":       posting.ID,
			"title":    posting.Title,
			"url":      posting.URL,
			"location": posting.Location,
		}
		if posting.MonthlySalary != nil {
			entry["salary"] = fmt.Sprintf("%.0f %s", *posting.MonthlySalary, posting.SalaryCurrency)
		}
		if posting.CompanyRating != nil {
			entry["rating"] = fmt.Sprintf("%.1f", *posting.CompanyRating)
		}

		report[key] = append(report[key], entry)
	}
	return report
}
