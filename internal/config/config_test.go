package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-ranker/internal/rules"
)

const minimalProfile = `
experience_level: entry_level
years_experience: 1
skills:
  known: [Python, SQL]
  want_to_learn: [Go]
requirements:
  min_monthly_salary: 2500
  currency: eur
  locations: [Paris]
`

func mustProfile(t *testing.T, data string) *ProfileDocument {
	t.Helper()
	doc, err := DecodeProfile([]byte(data))
	require.NoError(t, err)
	return doc
}

func requireValidationError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %T: %v", err, err)
	if field != "" {
		assert.Equal(t, field, vErr.Field)
	}
	return vErr
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve(mustProfile(t, minimalProfile), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeEntryLevel, resolved.Mode)
	assert.Equal(t, "EUR", resolved.Profile.Currency)
	assert.Equal(t, []string{"python", "sql"}, resolved.Profile.KnownSkills)
	assert.Equal(t, []string{"en"}, resolved.Profile.Languages)
	assert.Equal(t, DefaultTuning(), resolved.Tuning)
	assert.Equal(t, rules.DefaultProcessing(), resolved.Rules.Processing())
	assert.InDelta(t, 1.0, resolved.Weights.Sum(), WeightTolerance)

	counts := resolved.Rules.Counts()
	// Consulting detection stays disabled unless the profile asks for it, the vague
	// description penalty unless a scoring document sets it.
	assert.Equal(t, 3, counts.Penalties)
	assert.Equal(t, 2, counts.DisabledPenalties)
	assert.Zero(t, counts.DisabledBonuses)
	assert.Equal(t, 5, counts.Bonuses)
	assert.Zero(t, counts.Rejects)
}

func TestModeWeightsSumToOne(t *testing.T) {
	t.Parallel()

	overrides := []map[Dimension]float64{
		nil,
		{DimensionTechMatch: 0.5},
		{DimensionTechMatch: 0.9, DimensionCompanyQuality: 0.4},
		{DimensionPracticalFactors: 0},
	}

	for _, mode := range Modes {
		base, err := ModeWeights(mode)
		require.NoError(t, err)
		require.NoError(t, base.Validate(), "mode %s", mode)

		for _, override := range overrides {
			resolved, err := ResolveWeights(base, override)
			require.NoError(t, err, "mode %s overrides %v", mode, override)
			assert.InDelta(t, 1.0, resolved.Sum(), WeightTolerance, "mode %s overrides %v", mode, override)
		}
	}
}

func TestResolveWeightsKeepsUntouchedRatios(t *testing.T) {
	t.Parallel()

	base, err := ModeWeights(ModeInternship)
	require.NoError(t, err)

	resolved, err := ResolveWeights(base, map[Dimension]float64{DimensionTechMatch: 0.5})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, resolved[DimensionTechMatch], 1e-9)
	assert.InDelta(t,
		base[DimensionLearningPotential]/base[DimensionPracticalFactors],
		resolved[DimensionLearningPotential]/resolved[DimensionPracticalFactors],
		1e-9)
}

func TestResolveWeightsRejectsUnusedDimension(t *testing.T) {
	t.Parallel()

	base, err := ModeWeights(ModeInternship)
	require.NoError(t, err)

	_, err = ResolveWeights(base, map[Dimension]float64{DimensionTeamLeadership: 0.2})
	require.Error(t, err)
}

func TestResolveScoringOverrides(t *testing.T) {
	t.Parallel()

	scoring, err := DecodeScoring([]byte(`
custom_weights:
  tech_match: 0.5
missing_salary:
  strategy: skip
penalties:
  buzzwords: 0
bonuses:
  open_source: 8
max_penalty: -30
`))
	require.NoError(t, err)

	resolved, err := Resolve(mustProfile(t, minimalProfile), scoring, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, resolved.Weights[DimensionTechMatch], 1e-9)
	assert.InDelta(t, 1.0, resolved.Weights.Sum(), WeightTolerance)
	assert.Equal(t, StrategySkip, resolved.Tuning.MissingData.Strategy)
	assert.Equal(t, -30.0, resolved.Tuning.MaxPenalty)

	for _, rule := range resolved.Rules.Adjustments() {
		info := rules.Info(rule)
		switch info.ID {
		case RuleBuzzwords:
			assert.False(t, info.Enabled, "zero points disable the built-in rule")
		case RuleOpenSource:
			assert.Equal(t, 8.0, info.Points)
		}
	}
}

func TestResolveModeTableReplacement(t *testing.T) {
	t.Parallel()

	scoring, err := DecodeScoring([]byte(`
modes:
  entry_level:
    tech_match: 0.5
    compensation: 0.5
`))
	require.NoError(t, err)

	resolved, err := Resolve(mustProfile(t, minimalProfile), scoring, nil)
	require.NoError(t, err)
	assert.Equal(t, []Dimension{DimensionTechMatch, DimensionCompensation}, resolved.Weights.Dimensions())
}

func TestResolveFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile string
		scoring string
		field   string
	}{
		{
			name:    "missing currency",
			profile: "experience_level: senior\nyears_experience: 5\nskills: {known: [go]}\nrequirements: {min_monthly_salary: 1, locations: [x]}\n",
			field:   "requirements.currency",
		},
		{
			name:    "missing years",
			profile: "experience_level: senior\nskills: {known: [go]}\nrequirements: {min_monthly_salary: 1, currency: EUR, locations: [x]}\n",
			field:   "years_experience",
		},
		{
			name:    "unknown experience level",
			profile: "experience_level: principal\nyears_experience: 5\nskills: {known: [go]}\nrequirements: {min_monthly_salary: 1, currency: EUR, locations: [x]}\n",
			field:   "experience_level",
		},
		{
			name:    "unknown override dimension",
			scoring: "custom_weights:\n  team_leadership: 0.2\n",
			field:   "custom_weights",
		},
		{
			name:    "not a dimension",
			scoring: "custom_weights:\n  vibes: 0.2\n",
			field:   "custom_weights.vibes",
		},
		{
			name:    "mode table does not sum to one",
			scoring: "modes:\n  senior:\n    tech_match: 0.5\n    compensation: 0.2\n",
			field:   "modes.senior",
		},
		{
			name:    "tiers out of order",
			scoring: "rating_tiers:\n  good: 4.5\n",
			field:   "rating_tiers",
		},
		{
			name:    "tech sub-weights",
			scoring: "tech_matching:\n  known_skills_weight: 0.9\n",
			field:   "tech_matching",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile := tt.profile
			if profile == "" {
				profile = minimalProfile
			}

			profileDoc, err := DecodeProfile([]byte(profile))
			if err != nil {
				requireValidationError(t, err, tt.field)
				return
			}

			var scoringDoc *ScoringDocument
			if tt.scoring != "" {
				scoringDoc, err = DecodeScoring([]byte(tt.scoring))
				require.NoError(t, err)
			}

			_, err = Resolve(profileDoc, scoringDoc, nil)
			requireValidationError(t, err, tt.field)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := DecodeProfile([]byte(minimalProfile + "favourite_color: blue\n"))
	vErr := requireValidationError(t, err, "")
	assert.Contains(t, vErr.Message, "favourite_color")

	_, err = DecodeScoring([]byte("tech_matching:\n  known_skills_weigth: 0.5\n"))
	vErr = requireValidationError(t, err, "")
	assert.Contains(t, vErr.Message, "known_skills_weigth")

	_, err = DecodeRules([]byte("processing:\n  stop_on_first: true\n"))
	requireValidationError(t, err, "")
}

func TestResolveCustomRules(t *testing.T) {
	t.Parallel()

	rulesDoc, err := DecodeRules([]byte(`
custom_penalties:
  - type: company_pattern
    id: agencies
    pattern: "(?:agency|staffing)"
    penalty: -12
    reason: staffing agency
  - type: experience_gap
    your_experience: 10
    max_gap: 1
    penalty: -5
    reason: too senior
  - type: salary_range
    max_acceptable: 2000
    penalty: -8
    reason: low pay
    enabled: false
custom_bonuses:
  - keywords: {en: [kubernetes]}
    bonus: 4
    reason: k8s
reject_rules:
  - type: job_type
    reject_types: [Internship]
    reason: no internships
processing:
  accumulate_penalties: false
`))
	require.NoError(t, err)

	profile := mustProfile(t, minimalProfile+"  max_distance_km: 30\n")
	resolved, err := Resolve(profile, nil, rulesDoc)
	require.NoError(t, err)

	byID := map[string]rules.Adjustment{}
	for _, rule := range resolved.Rules.Adjustments() {
		byID[rules.Info(rule).ID] = rule
	}

	require.Contains(t, byID, "agencies")
	gap, ok := byID["custom_penalties[1]"].(*rules.ExperienceGapRule)
	require.True(t, ok)
	assert.Equal(t, 1.0, gap.YourExperience, "experience comes from the profile")

	salary, ok := byID["custom_penalties[2]"].(*rules.SalaryRangeRule)
	require.True(t, ok)
	assert.Equal(t, "EUR", salary.Currency)
	assert.False(t, salary.Enabled)

	_, ok = byID["custom_bonuses[0]"].(*rules.KeywordRule)
	assert.True(t, ok, "type defaults to keyword")

	rejects := resolved.Rules.Rejects()
	require.Len(t, rejects, 2)
	assert.Equal(t, "reject_rules[0]", rules.RejectInfo(rejects[0]).ID)
	assert.Equal(t, RuleMaxDistance, rules.RejectInfo(rejects[1]).ID)

	assert.False(t, resolved.Rules.Processing().AccumulatePenalties)
	assert.True(t, resolved.Rules.Processing().AccumulateBonuses)
}

func TestResolveRuleErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeRules([]byte("custom_penalties:\n  - type: company_pattern\n    pattern: \"(unclosed\"\n    penalty: -5\n    reason: x\n"))
		require.NoError(t, err)

		_, err = Resolve(mustProfile(t, minimalProfile), nil, doc)
		var cErr *RuleCompilationError
		require.True(t, errors.As(err, &cErr), "got %v", err)
		assert.Equal(t, "custom_penalties[0]", cErr.Rule)
	})

	t.Run("bonus type in penalty list", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeRules([]byte("custom_penalties:\n  - type: rating_threshold\n    min_rating: 4\n    penalty: -5\n    reason: x\n"))
		require.NoError(t, err)

		_, err = Resolve(mustProfile(t, minimalProfile), nil, doc)
		var uErr *UnknownRuleTypeError
		require.True(t, errors.As(err, &uErr), "got %v", err)
		assert.Equal(t, listCustomPenalties, uErr.List)
		assert.Equal(t, "rating_threshold", uErr.Type)
	})

	t.Run("positive penalty", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeRules([]byte("custom_penalties:\n  - keywords: {en: [x]}\n    penalty: 5\n    reason: x\n"))
		require.NoError(t, err)

		_, err = Resolve(mustProfile(t, minimalProfile), nil, doc)
		requireValidationError(t, err, "custom_penalties[0].penalty")
	})

	t.Run("unknown rule key", func(t *testing.T) {
		t.Parallel()
		doc, err := DecodeRules([]byte("reject_rules:\n  - type: distance\n    max_distance: 10\n    reason: x\n"))
		require.NoError(t, err)

		_, err = Resolve(mustProfile(t, minimalProfile), nil, doc)
		requireValidationError(t, err, "reject_rules[0]")
	})
}

func TestProfileCustomKeywords(t *testing.T) {
	t.Parallel()

	profile := mustProfile(t, minimalProfile+`
custom_keywords:
  penalties:
    - keyword: on-call
      points: 7
  bonuses:
    - keyword: four day week
      points: 6
      reason: short week
preferences:
  company:
    avoid_consulting: true
`)
	resolved, err := Resolve(profile, nil, nil)
	require.NoError(t, err)

	points := map[string]float64{}
	for _, rule := range resolved.Rules.Adjustments() {
		info := rules.Info(rule)
		if info.Enabled {
			points[info.ID] = info.Points
		}
	}

	assert.Equal(t, -7.0, points["custom_keywords.penalties[0]"])
	assert.Equal(t, 6.0, points["custom_keywords.bonuses[0]"])
	assert.Equal(t, defaultConsultingPenalty, points[RuleConsultingDetected])
}

func TestSummary(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve(mustProfile(t, minimalProfile), nil, nil)
	require.NoError(t, err)

	summary := resolved.Summary()
	assert.Equal(t, ModeEntryLevel, summary.Mode)
	require.Len(t, summary.Weights, 6)
	assert.Equal(t, DimensionTechMatch, summary.Weights[0].Dimension)

	total := 0.0
	for _, w := range summary.Weights {
		total += w.Weight
	}
	assert.LessOrEqual(t, math.Abs(total-1), WeightTolerance)
}

func TestValidateFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.yaml")
	scoringPath := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte(minimalProfile), 0o600))
	require.NoError(t, os.WriteFile(scoringPath, []byte("max_bonus: -1\n"), 0o600))

	report := ValidateFiles(Paths{Profile: profilePath})
	require.Len(t, report, 4)
	assert.True(t, Valid(report))
	assert.True(t, report[1].Skipped)

	report = ValidateFiles(Paths{Profile: profilePath, Scoring: scoringPath})
	assert.False(t, Valid(report))
	assert.True(t, report[0].Valid)
	assert.False(t, report[1].Valid)
	assert.Contains(t, report[1].Error, "max_bonus")
	assert.True(t, report[3].Skipped)

	_, err := LoadAll(Paths{Profile: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
	assert.False(t, IsConfigError(err))
}

func TestDecodeScoringAcceptsAllBuiltinPenalties(t *testing.T) {
	t.Parallel()

	doc, err := DecodeScoring([]byte("penalties: {buzzwords: -15, vague_description: -10, experience_mismatch: -20, poor_rating: -5, consulting_detected: -10}\n"))
	require.NoError(t, err)

	resolved, err := Resolve(mustProfile(t, minimalProfile), doc, nil)
	require.NoError(t, err)

	byID := map[string]rules.Base{}
	for _, rule := range resolved.Rules.Adjustments() {
		info := rules.Info(rule)
		byID[info.ID] = info
	}
	assert.True(t, byID[RuleVagueDescription].Enabled)
	assert.Equal(t, -10.0, byID[RuleVagueDescription].Points)
	assert.True(t, byID[RulePoorRating].Enabled)
	assert.Equal(t, -5.0, byID[RulePoorRating].Points)

	_, err = DecodeScoring([]byte("penalties: {poor_rating: 5}\n"))
	requireValidationError(t, err, "")
}

func TestResolveInternshipPreferences(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve(mustProfile(t, minimalProfile+`
preferences:
  internship:
    require_mentorship: true
    prefer_conversion: true
`), nil, nil)
	require.NoError(t, err)
	assert.True(t, resolved.Profile.RequireMentorship)
	assert.True(t, resolved.Profile.PreferConversion)

	resolved, err = Resolve(mustProfile(t, minimalProfile), nil, nil)
	require.NoError(t, err)
	assert.False(t, resolved.Profile.RequireMentorship)
	assert.False(t, resolved.Profile.PreferConversion)
}
