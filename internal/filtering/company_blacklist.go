package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
)

type companyBlacklistFilter struct {
	disabled  bool
	reason    string
	companies []string
}

// NewCompanyBlacklist creates a filter that removes postings of blacklisted companies.
func NewCompanyBlacklist() Filter {
	return &companyBlacklistFilter{}
}

func (f *companyBlacklistFilter) Name() string { return "company_blacklist" }

func (f *companyBlacklistFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *companyBlacklistFilter) IsEnabled() bool { return !f.disabled }

func (f *companyBlacklistFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg != nil {
		f.companies = append(f.companies, cfg.CompanyBlacklist...)
	}
	return nil
}

func (f *companyBlacklistFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if len(f.companies) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(jobs.PostingCompanyField, f.companies)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by company blacklist",
			zap.Strings("blacklisted_companies", f.companies),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *companyBlacklistFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
