package rules

import (
	"math"

	"github.com/spigell/job-ranker/internal/jobs"
)

// Processing controls how triggered rules are combined.
type Processing struct {
	StopOnReject        bool `json:"stop_on_reject"`
	AccumulatePenalties bool `json:"accumulate_penalties"`
	AccumulateBonuses   bool `json:"accumulate_bonuses"`
	LogMatches          bool `json:"log_matches"`
}

// DefaultProcessing mirrors the defaults of the rules document.
func DefaultProcessing() Processing {
	return Processing{
		StopOnReject:        true,
		AccumulatePenalties: true,
		AccumulateBonuses:   true,
		LogMatches:          true,
	}
}

// Contribution is one triggered adjustment rule.
type Contribution struct {
	RuleID string  `json:"rule_id"`
	Type   Type    `json:"type"`
	Kind   Kind    `json:"kind"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// Rejection is one triggered reject rule.
type Rejection struct {
	RuleID string `json:"rule_id"`
	Type   Type   `json:"type"`
	Reason string `json:"reason"`
}

// Evaluation is the outcome of running a Set against one posting.
type Evaluation struct {
	// Rejections in declared order; the first one is authoritative.
	Rejections []Rejection
	// Triggered lists every enabled adjustment rule that matched, in declared order.
	Triggered []Contribution
	// Applied is the subset of Triggered that counts towards the score.
	Applied []Contribution
}

// Rejected reports whether any reject rule fired.
func (e Evaluation) Rejected() bool { return len(e.Rejections) > 0 }

// Set is an immutable, ordered collection of compiled rules.
type Set struct {
	adjustments []Adjustment
	rejects     []Reject
	processing  Processing
}

// NewSet copies the supplied slices so later changes by the caller cannot leak in.
func NewSet(adjustments []Adjustment, rejects []Reject, processing Processing) *Set {
	return &Set{
		adjustments: append([]Adjustment(nil), adjustments...),
		rejects:     append([]Reject(nil), rejects...),
		processing:  processing,
	}
}

func (s *Set) Processing() Processing { return s.processing }

func (s *Set) Adjustments() []Adjustment { return append([]Adjustment(nil), s.adjustments...) }

func (s *Set) Rejects() []Reject { return append([]Reject(nil), s.rejects...) }

// Counts describes how many rules of each kind are configured and enabled.
type Counts struct {
	Penalties         int `json:"penalties"`
	Bonuses           int `json:"bonuses"`
	Rejects           int `json:"rejects"`
	DisabledPenalties int `json:"disabled_penalties"`
	DisabledBonuses   int `json:"disabled_bonuses"`
	DisabledRejects   int `json:"disabled_rejects"`
}

func (s *Set) Counts() Counts {
	var counts Counts
	for _, rule := range s.adjustments {
		base := rule.base()
		switch {
		case rule.Kind() == KindPenalty && base.Enabled:
			counts.Penalties++
		case rule.Kind() == KindPenalty:
			counts.DisabledPenalties++
		case base.Enabled:
			counts.Bonuses++
		default:
			counts.DisabledBonuses++
		}
	}
	for _, rule := range s.rejects {
		if rule.rejectBase().Enabled {
			counts.Rejects++
		} else {
			counts.DisabledRejects++
		}
	}
	return counts
}

// Evaluate runs reject rules first. When a reject fires and StopOnReject is set, adjustment
// rules are not evaluated at all.
func (s *Set) Evaluate(job *jobs.Posting) Evaluation {
	var eval Evaluation

	eval.Rejections = s.evaluateRejects(job)
	if eval.Rejected() && s.processing.StopOnReject {
		return eval
	}

	eval.Triggered = s.evaluateAdjustments(job)
	eval.Applied = s.selectApplied(eval.Triggered)

	return eval
}

func (s *Set) evaluateRejects(job *jobs.Posting) []Rejection {
	var rejections []Rejection
	for _, rule := range s.rejects {
		base := rule.rejectBase()
		if !base.Enabled || !rule.matches(job) {
			continue
		}

		rejections = append(rejections, Rejection{RuleID: base.ID, Type: rule.Type(), Reason: base.Reason})
		if s.processing.StopOnReject {
			break
		}
	}
	return rejections
}

func (s *Set) evaluateAdjustments(job *jobs.Posting) []Contribution {
	var triggered []Contribution
	for _, rule := range s.adjustments {
		base := rule.base()
		if !base.Enabled || base.Points == 0 || !rule.matches(job) {
			continue
		}

		triggered = append(triggered, Contribution{
			RuleID: base.ID,
			Type:   rule.Type(),
			Kind:   rule.Kind(),
			Delta:  base.Points,
			Reason: base.Reason,
		})
	}
	return triggered
}

// selectApplied keeps every contribution of an accumulating kind. For a non-accumulating kind
// only the largest magnitude contribution survives, the earliest declared one on ties.
func (s *Set) selectApplied(triggered []Contribution) []Contribution {
	if s.processing.AccumulatePenalties && s.processing.AccumulateBonuses {
		return append([]Contribution(nil), triggered...)
	}

	strongest := map[Kind]int{KindPenalty: -1, KindBonus: -1}
	for idx, c := range triggered {
		best := strongest[c.Kind]
		if best < 0 || math.Abs(c.Delta) > math.Abs(triggered[best].Delta) {
			strongest[c.Kind] = idx
		}
	}

	applied := make([]Contribution, 0, len(triggered))
	for idx, c := range triggered {
		accumulate := s.processing.AccumulateBonuses
		if c.Kind == KindPenalty {
			accumulate = s.processing.AccumulatePenalties
		}
		if accumulate || strongest[c.Kind] == idx {
			applied = append(applied, c)
		}
	}
	return applied
}
