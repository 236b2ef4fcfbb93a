// Package scoring turns a resolved configuration and a job posting into a score, a
// decision and an explanation trace.
package scoring

import (
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/config"
	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/rules"
	"github.com/spigell/job-ranker/internal/utils"
)

const logTitleLimit = 60

// Engine scores postings against one resolved configuration. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	resolved *config.Resolved
	index    profileIndex
	logger   *zap.Logger
}

// NewEngine builds an engine. A nil logger disables logging.
func NewEngine(resolved *config.Resolved, log *zap.Logger) *Engine {
	return &Engine{
		resolved: resolved,
		index:    newProfileIndex(resolved.Profile),
		logger:   logger.WithFields(log),
	}
}

// Score evaluates one posting against a resolved configuration without logging.
func Score(job *jobs.Posting, resolved *config.Resolved) *Result {
	return NewEngine(resolved, nil).Score(job)
}

// Resolved returns the configuration the engine scores with.
func (e *Engine) Resolved() *config.Resolved { return e.resolved }

// Score evaluates one posting. It always returns a result: missing optional fields are
// scored with their documented defaults, never reported as errors.
func (e *Engine) Score(job *jobs.Posting) *Result {
	if job == nil {
		job = &jobs.Posting{}
	}

	result := &Result{
		JobID:   job.ID,
		Title:   job.Title,
		Company: job.Company,
	}

	log := logger.WithEngineFields(e.logger, string(e.resolved.Mode), job.ID, job.Company)

	eval := e.resolved.Rules.Evaluate(job)
	if eval.Rejected() {
		result.Decision = DecisionReject
		result.State = StateRejected
		result.RejectReasons = eval.Rejections

		if e.logMatches() {
			for _, rejection := range eval.Rejections {
				log.Debug("reject rule matched",
					zap.String(logger.FieldRule, rejection.RuleID),
					zap.String("reason", rejection.Reason),
					zap.String("title", utils.TruncateForLog(job.Title, logTitleLimit)),
				)
			}
		}
		return result
	}

	result.Dimensions, result.BaseScore = e.scoreDimensions(job)
	result.Adjustments = eval.Applied
	result.AdjustmentTotal = e.adjustmentTotal(eval.Applied)

	final := clamp(result.BaseScore+result.AdjustmentTotal, 0, 100)
	result.FinalScore = &final
	result.Decision = DecisionAccept
	result.State = StateScored

	if e.logMatches() {
		logTriggered(log, eval)
	}
	log.Debug("posting scored",
		zap.Float64("base", result.BaseScore),
		zap.Float64("adjustments", result.AdjustmentTotal),
		zap.Float64("final", final),
	)

	return result
}

// scoreDimensions computes every weighted dimension in canonical order. Skipped dimensions
// drop out and the remaining weights are renormalized for this posting only.
func (e *Engine) scoreDimensions(job *jobs.Posting) ([]DimensionScore, float64) {
	weights := e.resolved.Weights
	dims := weights.Dimensions()
	text := job.Text()

	scores := make([]DimensionScore, 0, len(dims))
	active := 0.0
	for _, dim := range dims {
		score := e.scoreDimension(dim, job, text)
		scores = append(scores, DimensionScore{
			Dimension: dim,
			Raw:       score.value,
			Weight:    weights[dim],
			Skipped:   score.skipped,
			Note:      score.note,
		})
		if !score.skipped {
			active += weights[dim]
		}
	}

	if active <= 0 {
		// Nothing left to weigh: fall back to the neutral score.
		return scores, 100 * e.resolved.Tuning.MissingData.NeutralScore
	}

	base := 0.0
	for i := range scores {
		if scores[i].Skipped {
			continue
		}
		scores[i].EffectiveWeight = scores[i].Weight / active
		scores[i].Weighted = 100 * scores[i].EffectiveWeight * scores[i].Raw
		base += scores[i].Weighted
	}

	return scores, clamp(base, 0, 100)
}

func (e *Engine) adjustmentTotal(applied []rules.Contribution) float64 {
	total := 0.0
	for _, c := range applied {
		total += c.Delta
	}
	tuning := e.resolved.Tuning
	return clamp(total, tuning.MaxPenalty, tuning.MaxBonus)
}

func (e *Engine) logMatches() bool {
	return e.resolved.Rules.Processing().LogMatches
}

func logTriggered(log *zap.Logger, eval rules.Evaluation) {
	applied := make(map[string]struct{}, len(eval.Applied))
	for _, c := range eval.Applied {
		applied[c.RuleID] = struct{}{}
	}

	for _, c := range eval.Triggered {
		_, ok := applied[c.RuleID]
		log.Debug("rule matched",
			zap.String(logger.FieldRule, c.RuleID),
			zap.String("kind", string(c.Kind)),
			zap.Float64("delta", c.Delta),
			zap.Bool("applied", ok),
		)
	}
}
