package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/job-ranker/internal/config"
	"github.com/spigell/job-ranker/internal/jobs"
)

//nolint:gochecknoglobals // term lists for the text driven dimensions
var (
	learningTerms = []string{
		"mentorship", "mentoring", "mentor", "training", "learning", "onboarding", "coaching", "workshop",
		"conference", "formation", "apprentissage", "accompagnement", "tutorat",
	}
	mentorshipTerms = []string{"mentorship", "mentoring", "mentor", "mentorat", "tutorat", "tuteur"}
	conversionTerms = []string{
		"conversion", "return offer", "full-time offer", "permanent position", "cdi",
		"pré-embauche", "pre-embauche", "embauche à l'issue",
	}
	growthTerms = []string{
		"career growth", "career path", "promotion", "progression", "growth opportunities",
		"évolution", "perspectives d'évolution", "plan de carrière",
	}
	impactTerms = []string{
		"impact", "ownership", "autonomy", "autonomie", "greenfield", "architecture",
		"millions of users", "at scale", "from scratch",
	}
	leadershipTerms = []string{
		"lead", "leadership", "mentor", "manage", "management", "team of", "encadrement", "manager",
	}
	leadershipTitleMarkers = []string{"lead", "senior", "staff", "principal", "head of"}
)

// dimensionScore is the value of one dimension for one posting. Skipped dimensions are
// excluded from the weighted sum.
type dimensionScore struct {
	value   float64
	skipped bool
	note    string
}

// profileIndex holds the lookup sets derived from the resolved profile.
type profileIndex struct {
	known       map[string]struct{}
	learn       map[string]struct{}
	arrangement map[string]struct{}
}

func newProfileIndex(profile config.Profile) profileIndex {
	return profileIndex{
		known:       toSet(profile.KnownSkills),
		learn:       toSet(profile.SkillsToLearn),
		arrangement: toSet(profile.WorkArrangement),
	}
}

func (e *Engine) scoreDimension(dim config.Dimension, job *jobs.Posting, text string) dimensionScore {
	switch dim {
	case config.DimensionTechMatch:
		return e.techMatch(job)
	case config.DimensionCompensation:
		return e.compensation(job)
	case config.DimensionCompanyQuality:
		return e.companyQuality(job)
	case config.DimensionLearningPotential:
		return e.learningPotential(job, text)
	case config.DimensionConversionPotential:
		return e.conversionPotential(text)
	case config.DimensionCareerGrowth:
		n := countTerms(text, growthTerms)
		return dimensionScore{value: math.Min(1, 0.4+0.2*float64(n)), note: termsNote(n, "growth")}
	case config.DimensionImpactPotential:
		n := countTerms(text, impactTerms)
		return dimensionScore{value: math.Min(1, 0.3+0.15*float64(n)), note: termsNote(n, "impact")}
	case config.DimensionTeamLeadership:
		return teamLeadership(job, text)
	case config.DimensionPracticalFactors:
		return e.practicalFactors(job)
	default:
		return dimensionScore{value: e.resolved.Tuning.MissingData.NeutralScore, note: "no scorer"}
	}
}

func (e *Engine) techMatch(job *jobs.Posting) dimensionScore {
	tuning := e.resolved.Tuning.TechMatching

	stack := normalizeTokens(job.TechStack)
	if len(stack) == 0 {
		return dimensionScore{value: 0.5, note: "no tech stack"}
	}

	var known, learn, overlap int
	for _, token := range stack {
		_, isKnown := e.index.known[token]
		_, isLearn := e.index.learn[token]
		if isKnown {
			known++
		}
		if isLearn {
			learn++
		}
		if isKnown || isLearn {
			overlap++
		}
	}

	total := float64(len(stack))
	if float64(overlap)/total < tuning.MinOverlapRatio {
		return dimensionScore{value: 0, note: "overlap below minimum"}
	}

	value := tuning.KnownSkillsWeight*float64(known)/total + tuning.LearningSkillsWeight*float64(learn)/total
	return dimensionScore{value: clamp01(value), note: ratioNote(known, learn, len(stack))}
}

func (e *Engine) compensation(job *jobs.Posting) dimensionScore {
	profile := e.resolved.Profile

	salary, ok := job.SalaryIn(profile.Currency)
	if !ok {
		return e.missing("salary unknown")
	}

	minimum := profile.MinMonthlySalary
	target := minimum * 1.5
	if profile.TargetSalary != nil {
		target = *profile.TargetSalary
	}

	if target <= minimum {
		if salary >= minimum {
			return dimensionScore{value: 1}
		}
		return dimensionScore{value: 0}
	}
	return dimensionScore{value: clamp01((salary - minimum) / (target - minimum))}
}

func (e *Engine) companyQuality(job *jobs.Posting) dimensionScore {
	if job.CompanyRating == nil {
		if e.resolved.Tuning.MissingData.Strategy == config.StrategySkip {
			return dimensionScore{skipped: true, note: "rating unknown"}
		}
		return dimensionScore{value: 0, note: "rating unknown"}
	}

	rating := *job.CompanyRating
	if minRating := e.resolved.Profile.MinRating; minRating != nil && rating < *minRating {
		return dimensionScore{value: 0, note: "below minimum rating"}
	}

	tiers := e.resolved.Tuning.RatingTiers
	switch {
	case rating >= tiers.Excellent:
		return dimensionScore{value: 1.0, note: "excellent"}
	case rating >= tiers.Good:
		return dimensionScore{value: 0.75, note: "good"}
	case rating >= tiers.Acceptable:
		return dimensionScore{value: 0.5, note: "acceptable"}
	default:
		return dimensionScore{value: 0.25, note: "below acceptable"}
	}
}

func (e *Engine) learningPotential(job *jobs.Posting, text string) dimensionScore {
	stack := normalizeTokens(job.TechStack)
	if len(stack) == 0 && strings.TrimSpace(text) == "" {
		return dimensionScore{value: 0.5, note: "no data"}
	}

	learn := 0
	for _, token := range stack {
		if _, ok := e.index.learn[token]; ok {
			learn++
		}
	}

	signal := math.Min(1, float64(countTerms(text, learningTerms))/2)
	value := 0.6*math.Min(1, float64(learn)/2) + 0.4*signal

	if e.resolved.Profile.RequireMentorship && countTerms(text, mentorshipTerms) == 0 {
		return dimensionScore{value: math.Min(value, 0.5), note: "no mentorship mentioned"}
	}
	return dimensionScore{value: clamp01(value)}
}

func (e *Engine) conversionPotential(text string) dimensionScore {
	if countTerms(text, conversionTerms) > 0 {
		return dimensionScore{value: 1.0, note: "conversion mentioned"}
	}
	if !e.resolved.Profile.PreferConversion {
		return dimensionScore{value: 0.5, note: "not mentioned"}
	}
	return dimensionScore{value: 0.3, note: "not mentioned"}
}

func teamLeadership(job *jobs.Posting, text string) dimensionScore {
	n := countTerms(text, leadershipTerms)
	value := 0.3 + 0.15*float64(n)
	if countTerms(strings.ToLower(job.Title), leadershipTitleMarkers) > 0 {
		value += 0.2
	}
	return dimensionScore{value: math.Min(1, value), note: termsNote(n, "leadership")}
}

func (e *Engine) practicalFactors(job *jobs.Posting) dimensionScore {
	remote := job.IsRemote()

	arrangement := 0.5
	option := job.Arrangement()
	if option == "" && remote {
		option = jobs.RemoteOptionRemote
	}
	if option != "" {
		arrangement = 0
		if _, ok := e.index.arrangement[option]; ok {
			arrangement = 1
		}
	}

	distance := 0.5
	maxDistance := e.resolved.Profile.MaxDistanceKm
	switch {
	case remote:
		distance = 1
	case job.DistanceKm == nil:
	case maxDistance != nil && *maxDistance > 0:
		ratio := *job.DistanceKm / *maxDistance
		distance = clamp01(1 - ratio)
	}

	return dimensionScore{value: (arrangement + distance) / 2}
}

// missing applies the missing data strategy.
func (e *Engine) missing(note string) dimensionScore {
	data := e.resolved.Tuning.MissingData
	switch data.Strategy {
	case config.StrategySkip:
		return dimensionScore{skipped: true, note: note}
	case config.StrategyPenalty:
		return dimensionScore{value: data.PenaltyScore, note: note}
	default:
		return dimensionScore{value: data.NeutralScore, note: note}
	}
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func termsNote(n int, what string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s signal(s)", n, what)
}

func ratioNote(known, learn, total int) string {
	return fmt.Sprintf("%d known, %d to learn out of %d", known, learn, total)
}
