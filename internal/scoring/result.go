package scoring

import (
	"fmt"
	"sort"

	"github.com/spigell/job-ranker/internal/config"
	"github.com/spigell/job-ranker/internal/rules"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// State is the terminal state of one evaluation.
type State string

const (
	StateRejected State = "rejected"
	StateScored   State = "scored"
)

// DimensionScore is the contribution of one dimension to the base score.
type DimensionScore struct {
	Dimension config.Dimension `json:"dimension"`
	// Raw is the normalized value in [0,1].
	Raw float64 `json:"raw"`
	// Weight is the resolved weight; EffectiveWeight is renormalized over the
	// dimensions that were not skipped for this posting.
	Weight          float64 `json:"weight"`
	EffectiveWeight float64 `json:"effective_weight"`
	// Weighted is the number of points the dimension adds to the base score.
	Weighted float64 `json:"weighted"`
	Skipped  bool    `json:"skipped,omitempty"`
	Note     string  `json:"note,omitempty"`
}

// Result is the outcome of scoring one posting. It is never modified after Score returns.
type Result struct {
	JobID      string           `json:"job_id"`
	Title      string           `json:"title,omitempty"`
	Company    string           `json:"company,omitempty"`
	Decision   Decision         `json:"decision"`
	State      State            `json:"state"`
	Dimensions []DimensionScore `json:"dimensions,omitempty"`
	// Adjustments lists the applied rule contributions in declaration order.
	Adjustments []rules.Contribution `json:"adjustments,omitempty"`
	BaseScore   float64              `json:"base_score"`
	// AdjustmentTotal is clamped to the configured penalty and bonus limits.
	AdjustmentTotal float64 `json:"adjustment_total"`
	// FinalScore is nil for rejected postings.
	FinalScore    *float64          `json:"final_score"`
	RejectReasons []rules.Rejection `json:"reject_reasons,omitempty"`
}

// Rejected reports whether a reject rule excluded the posting.
func (r *Result) Rejected() bool { return r.State == StateRejected }

// RejectReason returns the authoritative reject reason, or an empty string.
func (r *Result) RejectReason() string {
	if len(r.RejectReasons) == 0 {
		return ""
	}
	return r.RejectReasons[0].Reason
}

// Score returns the final score, or zero for a rejected posting.
func (r *Result) Score() float64 {
	if r.FinalScore == nil {
		return 0
	}
	return *r.FinalScore
}

// ExplanationLine is one row of the explanation trace.
type ExplanationLine struct {
	Label  string  `json:"label"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// Explain renders the trace of a result in computation order: dimensions, rule
// adjustments, the adjustment clamp when it applied, then the final score.
// A rejected result explains only its reject rules.
func Explain(result *Result) []ExplanationLine {
	if result == nil {
		return nil
	}

	if result.Rejected() {
		lines := make([]ExplanationLine, 0, len(result.RejectReasons))
		for _, rejection := range result.RejectReasons {
			lines = append(lines, ExplanationLine{
				Label:  "reject: " + rejection.RuleID,
				Reason: rejection.Reason,
			})
		}
		return lines
	}

	lines := make([]ExplanationLine, 0, len(result.Dimensions)+len(result.Adjustments)+2)
	for _, dim := range result.Dimensions {
		line := ExplanationLine{Label: string(dim.Dimension), Delta: dim.Weighted}
		if dim.Skipped {
			line.Reason = "skipped"
		} else {
			line.Reason = fmt.Sprintf("%.2f x weight %.2f", dim.Raw, dim.EffectiveWeight)
		}
		if dim.Note != "" {
			line.Reason += ": " + dim.Note
		}
		lines = append(lines, line)
	}

	sum := 0.0
	for _, adj := range result.Adjustments {
		sum += adj.Delta
		lines = append(lines, ExplanationLine{
			Label:  fmt.Sprintf("%s: %s", adj.Kind, adj.RuleID),
			Delta:  adj.Delta,
			Reason: adj.Reason,
		})
	}
	if sum != result.AdjustmentTotal {
		lines = append(lines, ExplanationLine{
			Label:  "adjustment limit",
			Delta:  result.AdjustmentTotal - sum,
			Reason: fmt.Sprintf("adjustments capped at %+.4g", result.AdjustmentTotal),
		})
	}

	lines = append(lines, ExplanationLine{
		Label:  "final",
		Delta:  result.Score(),
		Reason: fmt.Sprintf("base %.2f, adjustments %+.2f, bounded to [0,100]", result.BaseScore, result.AdjustmentTotal),
	})
	return lines
}

// Rank orders results by descending final score. Rejected results come last, and ties keep
// input order.
func Rank(results []*Result) []*Result {
	ranked := append([]*Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Rejected() != b.Rejected() {
			return !a.Rejected()
		}
		return a.Score() > b.Score()
	})
	return ranked
}
