package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/scoring"
)

type scoreGateFilter struct {
	disabled     bool
	reason       string
	minimumScore float64
	workers      int
	results      map[*jobs.Posting]*scoring.Result
}

// NewScoreGate creates the filter that scores every posting and drops rejected postings and
// those below the minimum score.
func NewScoreGate() Filter {
	return &scoreGateFilter{}
}

func (f *scoreGateFilter) Name() string { return "score_gate" }

func (f *scoreGateFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *scoreGateFilter) IsEnabled() bool { return !f.disabled }

func (f *scoreGateFilter) Validate(cfg *Config) error {
	f.minimumScore, f.workers = 0, 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumScore < 0 || cfg.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be within [0,100], got %v", cfg.MinimumScore)
	}
	f.minimumScore = cfg.MinimumScore
	f.workers = cfg.Workers
	return nil
}

func (f *scoreGateFilter) Apply(ctx context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if deps.Engine == nil {
		return p, Step{}, fmt.Errorf("scoring engine is required")
	}

	results, err := deps.Engine.ScoreAll(ctx, p.Items, f.workers)
	if err != nil {
		return p, Step{}, fmt.Errorf("scoring postings: %w", err)
	}

	f.results = make(map[*jobs.Posting]*scoring.Result, len(results))
	kept := p.Items[:0]
	var rejected, below []string
	for i, result := range results {
		posting := p.Items[i]
		f.results[posting] = result

		switch {
		case result.Rejected():
			rejected = append(rejected, posting.ID)
		case result.Score() < f.minimumScore:
			below = append(below, posting.ID)
		default:
			kept = append(kept, posting)
		}
	}
	p.Items = kept

	if deps.Logger != nil && len(rejected)+len(below) > 0 {
		deps.Logger.Info("excluding postings by score",
			zap.Strings("rejected_postings", rejected),
			zap.Strings("below_minimum_postings", below),
			zap.Float64("minimum_score", f.minimumScore),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: initial - p.Len(), Left: p.Len()}, nil
}

func (f *scoreGateFilter) Results() map[*jobs.Posting]*scoring.Result {
	if f.results == nil {
		return map[*jobs.Posting]*scoring.Result{}
	}
	return f.results
}

func (f *scoreGateFilter) Status() Status {
	details := map[string]string{
		"minimum_score": strconv.FormatFloat(f.minimumScore, 'f', 1, 64),
	}
	if f.workers > 0 {
		details["workers"] = strconv.Itoa(f.workers)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
