package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/job-ranker/internal/rules"
)

// Profile is the resolved, normalized user profile. Skills are lowercased.
// RequireMentorship and PreferConversion only affect internship scoring.
type Profile struct {
	ExperienceLevel   Mode     `json:"experience_level"`
	YearsExperience   float64  `json:"years_experience"`
	KnownSkills       []string `json:"known_skills"`
	SkillsToLearn     []string `json:"skills_to_learn"`
	MinMonthlySalary  float64  `json:"min_monthly_salary"`
	Currency          string   `json:"currency"`
	Locations         []string `json:"locations"`
	MaxDistanceKm     *float64 `json:"max_distance_km,omitempty"`
	CompanyBlacklist  []string `json:"company_blacklist,omitempty"`
	TargetSalary      *float64 `json:"target_salary,omitempty"`
	WorkArrangement   []string `json:"work_arrangement"`
	MinRating         *float64 `json:"min_rating,omitempty"`
	AvoidConsulting   bool     `json:"avoid_consulting"`
	RequireMentorship bool     `json:"require_mentorship"`
	PreferConversion  bool     `json:"prefer_conversion"`
	City              string   `json:"city,omitempty"`
	Languages         []string `json:"languages"`
}

// Resolved is the merged and validated configuration. It is read-only once built and
// may be shared by any number of concurrent evaluations.
type Resolved struct {
	Mode    Mode
	Weights WeightSet
	Rules   *rules.Set
	Tuning  Tuning
	Profile Profile
}

// Resolve merges the three documents in fixed precedence: profile, mode defaults derived
// from the experience level, scoring overrides, then custom and reject rules. Only the
// profile is mandatory; a nil scoring or rules document falls back to the defaults.
func Resolve(profileDoc *ProfileDocument, scoringDoc *ScoringDocument, rulesDoc *RulesDocument) (*Resolved, error) {
	if profileDoc == nil {
		return nil, newValidationError(DocumentProfile, "", "document is required")
	}
	if err := validate.Struct(profileDoc); err != nil {
		return nil, fromValidatorError(DocumentProfile, "", err)
	}

	profile, err := resolveProfile(profileDoc)
	if err != nil {
		return nil, err
	}

	if scoringDoc == nil {
		scoringDoc = &ScoringDocument{}
	} else if err := validate.Struct(scoringDoc); err != nil {
		return nil, fromValidatorError(DocumentScoring, "", err)
	}

	weights, err := resolveModeWeights(profile.ExperienceLevel, scoringDoc)
	if err != nil {
		return nil, err
	}

	tuning, err := resolveTuning(scoringDoc)
	if err != nil {
		return nil, err
	}

	set, err := resolveRules(profileDoc, profile, tuning, resolveBuiltinPoints(scoringDoc), rulesDoc)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Mode:    profile.ExperienceLevel,
		Weights: weights,
		Rules:   set,
		Tuning:  tuning,
		Profile: profile,
	}, nil
}

func resolveProfile(doc *ProfileDocument) (Profile, error) {
	mode, err := ParseMode(doc.ExperienceLevel)
	if err != nil {
		return Profile{}, newValidationError(DocumentProfile, "experience_level", "%v", err)
	}

	profile := Profile{
		ExperienceLevel:  mode,
		YearsExperience:  *doc.YearsExperience,
		KnownSkills:      normalizeList(doc.Skills.Known),
		SkillsToLearn:    normalizeList(doc.Skills.WantToLearn),
		MinMonthlySalary: *doc.Requirements.MinMonthlySalary,
		Currency:         strings.ToUpper(strings.TrimSpace(doc.Requirements.Currency)),
		Locations:        trimList(doc.Requirements.Locations),
		MaxDistanceKm:    doc.Requirements.MaxDistanceKm,
		CompanyBlacklist: trimList(doc.Requirements.CompanyBlacklist),
		WorkArrangement:  []string{"remote", "hybrid", "onsite"},
		Languages:        []string{"en"},
	}

	if profile.Currency == "" {
		return Profile{}, newValidationError(DocumentProfile, "requirements.currency", "is required")
	}

	if prefs := doc.Preferences; prefs != nil {
		profile.TargetSalary = prefs.TargetSalary
		if len(prefs.WorkArrangement) > 0 {
			profile.WorkArrangement = normalizeList(prefs.WorkArrangement)
		}
		if prefs.Company != nil {
			profile.MinRating = prefs.Company.MinRating
			profile.AvoidConsulting = prefs.Company.AvoidConsulting
			if size := prefs.Company.PreferredSize; len(size) == 2 && size[0] > size[1] {
				return Profile{}, newValidationError(DocumentProfile, "preferences.company.preferred_size", "min must be <= max")
			}
		}
		if prefs.Internship != nil {
			profile.RequireMentorship = prefs.Internship.RequireMentorship
			profile.PreferConversion = prefs.Internship.PreferConversion
		}
	}

	if doc.Location != nil {
		profile.City = strings.TrimSpace(doc.Location.City)
		if coords := doc.Location.Coordinates; len(coords) == 2 {
			if coords[0] < -90 || coords[0] > 90 {
				return Profile{}, newValidationError(DocumentProfile, "location.coordinates", "latitude must be between -90 and 90, got %v", coords[0])
			}
			if coords[1] < -180 || coords[1] > 180 {
				return Profile{}, newValidationError(DocumentProfile, "location.coordinates", "longitude must be between -180 and 180, got %v", coords[1])
			}
		}
	}

	if langs := normalizeList(doc.Languages); len(langs) > 0 {
		profile.Languages = langs
	}

	return profile, nil
}

func resolveModeWeights(mode Mode, doc *ScoringDocument) (WeightSet, error) {
	base, err := ModeWeights(mode)
	if err != nil {
		return nil, newValidationError(DocumentProfile, "experience_level", "%v", err)
	}

	names := make([]string, 0, len(doc.Modes))
	for name := range doc.Modes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := doc.Modes[name]
		tableMode, err := ParseMode(name)
		if err != nil {
			return nil, newValidationError(DocumentScoring, "modes."+name, "%v", err)
		}

		weights, err := parseWeights(DocumentScoring, "modes."+name, table)
		if err != nil {
			return nil, err
		}
		if math.Abs(weights.Sum()-1.0) > documentWeightTolerance {
			return nil, newValidationError(DocumentScoring, "modes."+name, "weights must sum to 1.0, got %.4f", weights.Sum())
		}
		if tableMode == mode {
			base = weights
		}
	}

	overrides, err := parseWeights(DocumentScoring, "custom_weights", doc.CustomWeights)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveWeights(base, overrides)
	if err != nil {
		return nil, newValidationError(DocumentScoring, "custom_weights", "%v", err)
	}
	if err := resolved.Validate(); err != nil {
		return nil, newValidationError(DocumentScoring, "custom_weights", "%v", err)
	}

	return resolved, nil
}

func parseWeights(document, field string, table map[string]float64) (WeightSet, error) {
	weights := make(WeightSet, len(table))
	for name, weight := range table {
		dim, err := ParseDimension(name)
		if err != nil {
			return nil, newValidationError(document, field+"."+name, "%v", err)
		}
		if weight < 0 || weight > 1 {
			return nil, newValidationError(document, field+"."+name, "must be within [0,1], got %v", weight)
		}
		weights[dim] = weight
	}
	return weights, nil
}

func resolveTuning(doc *ScoringDocument) (Tuning, error) {
	tuning := DefaultTuning()

	if tm := doc.TechMatching; tm != nil {
		setFloat(&tuning.TechMatching.KnownSkillsWeight, tm.KnownSkillsWeight)
		setFloat(&tuning.TechMatching.LearningSkillsWeight, tm.LearningSkillsWeight)
		setFloat(&tuning.TechMatching.MinOverlapRatio, tm.MinOverlapRatio)
	}
	skillWeights := tuning.TechMatching.KnownSkillsWeight + tuning.TechMatching.LearningSkillsWeight
	if math.Abs(skillWeights-1.0) > documentWeightTolerance {
		return Tuning{}, newValidationError(DocumentScoring, "tech_matching",
			"known_skills_weight + learning_skills_weight must sum to 1.0, got %.4f", skillWeights)
	}

	if ms := doc.MissingSalary; ms != nil {
		if ms.Strategy != "" {
			tuning.MissingData.Strategy = MissingDataStrategy(ms.Strategy)
		}
		setFloat(&tuning.MissingData.NeutralScore, ms.NeutralScore)
		setFloat(&tuning.MissingData.PenaltyScore, ms.PenaltyScore)
	}

	if rt := doc.RatingTiers; rt != nil {
		setFloat(&tuning.RatingTiers.Excellent, rt.Excellent)
		setFloat(&tuning.RatingTiers.Good, rt.Good)
		setFloat(&tuning.RatingTiers.Acceptable, rt.Acceptable)
	}
	tiers := tuning.RatingTiers
	if !(tiers.Excellent > tiers.Good && tiers.Good > tiers.Acceptable) {
		return Tuning{}, newValidationError(DocumentScoring, "rating_tiers",
			"tiers must be in descending order: excellent > good > acceptable")
	}

	setFloat(&tuning.MaxPenalty, doc.MaxPenalty)
	setFloat(&tuning.MaxBonus, doc.MaxBonus)

	return tuning, nil
}

func resolveBuiltinPoints(doc *ScoringDocument) builtinPoints {
	points := defaultBuiltinPoints()
	if p := doc.Penalties; p != nil {
		setFloat(&points.Buzzwords, p.Buzzwords)
		setFloat(&points.VagueDescription, p.VagueDescription)
		setFloat(&points.ExperienceMismatch, p.ExperienceMismatch)
		setFloat(&points.PoorRating, p.PoorRating)
		setFloat(&points.ConsultingDetected, p.ConsultingDetected)
	}
	if b := doc.Bonuses; b != nil {
		setFloat(&points.ResearchKeywords, b.ResearchKeywords)
		setFloat(&points.MentorshipMentioned, b.MentorshipMentioned)
		setFloat(&points.HighRating, b.HighRating)
		setFloat(&points.OpenSource, b.OpenSource)
		setFloat(&points.RemoteFirst, b.RemoteFirst)
	}
	return points
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func ruleID(list string, idx int, id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return fmt.Sprintf("%s[%d]", list, idx)
}
