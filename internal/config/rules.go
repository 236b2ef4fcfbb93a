package config

import (
	"fmt"
	"strings"

	"github.com/spigell/job-ranker/internal/rules"
)

const (
	listCustomPenalties = "custom_penalties"
	listCustomBonuses   = "custom_bonuses"
	listRejectRules     = "reject_rules"
	listCustomKeywords  = "custom_keywords"
)

// Built-in rule identifiers.
const (
	RuleBuzzwords          = "buzzwords"
	RuleVagueDescription   = "vague_description"
	RuleExperienceMismatch = "experience_mismatch"
	RulePoorRating         = "poor_rating"
	RuleConsultingDetected = "consulting_detected"
	RuleResearchKeywords   = "research_keywords"
	RuleMentorship         = "mentorship_mentioned"
	RuleOpenSource         = "open_source"
	RuleHighRating         = "high_rating"
	RuleRemoteFirst        = "remote_first"
	RuleMaxDistance        = "max_distance"
)

// resolveRules builds the rule set in declaration order: built-in rules, profile custom
// keywords, custom penalties, custom bonuses. Reject rules keep their declared order and are
// followed by the profile distance requirement.
func resolveRules(profileDoc *ProfileDocument, profile Profile, tuning Tuning, points builtinPoints, doc *RulesDocument) (*rules.Set, error) {
	if doc == nil {
		doc = &RulesDocument{}
	}

	processing, err := resolveProcessing(doc.Processing)
	if err != nil {
		return nil, err
	}

	adjustments, err := builtinRules(profile, tuning, points)
	if err != nil {
		return nil, err
	}
	adjustments = append(adjustments, customKeywordRules(profileDoc.CustomKeywords)...)

	for idx, raw := range doc.CustomPenalties {
		rule, err := parsePenalty(idx, raw, profile)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, rule)
	}

	for idx, raw := range doc.CustomBonuses {
		rule, err := parseBonus(idx, raw)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, rule)
	}

	rejects := make([]rules.Reject, 0, len(doc.RejectRules)+1)
	for idx, raw := range doc.RejectRules {
		rule, err := parseReject(idx, raw)
		if err != nil {
			return nil, err
		}
		rejects = append(rejects, rule)
	}

	if profile.MaxDistanceKm != nil && *profile.MaxDistanceKm > 0 {
		rejects = append(rejects, &rules.DistanceReject{
			RejectBase: rules.RejectBase{
				ID:      RuleMaxDistance,
				Reason:  fmt.Sprintf("farther than %.0f km", *profile.MaxDistanceKm),
				Enabled: true,
			},
			MaxDistanceKm: *profile.MaxDistanceKm,
			AllowRemote:   true,
		})
	}

	return rules.NewSet(adjustments, rejects, processing), nil
}

func resolveProcessing(doc *ProcessingDocument) (rules.Processing, error) {
	processing := rules.DefaultProcessing()
	if doc == nil {
		return processing, nil
	}
	processing.StopOnReject = boolOr(doc.StopOnReject, processing.StopOnReject)
	processing.AccumulatePenalties = boolOr(doc.AccumulatePenalties, processing.AccumulatePenalties)
	processing.AccumulateBonuses = boolOr(doc.AccumulateBonuses, processing.AccumulateBonuses)
	processing.LogMatches = boolOr(doc.LogMatches, processing.LogMatches)
	return processing, nil
}

func builtinRules(profile Profile, tuning Tuning, points builtinPoints) ([]rules.Adjustment, error) {
	adjustments := []rules.Adjustment{
		&rules.KeywordRule{
			Base:     builtinBase(RuleBuzzwords, points.Buzzwords, "buzzwords in the job description"),
			Keywords: rules.NewKeywords(buzzwordKeywords),
		},
		&rules.VagueDescriptionRule{
			Base:     builtinBase(RuleVagueDescription, points.VagueDescription, "vague description without a tech stack"),
			MinWords: defaultVagueDescriptionWords,
		},
		&rules.ExperienceGapRule{
			Base:           builtinBase(RuleExperienceMismatch, points.ExperienceMismatch, "required experience is well above yours"),
			YourExperience: profile.YearsExperience,
			MaxGap:         defaultExperienceMaxGap,
		},
		&rules.PoorRatingRule{
			Base:      builtinBase(RulePoorRating, points.PoorRating, "poorly rated company"),
			MaxRating: tuning.RatingTiers.Acceptable,
		},
	}

	consulting, err := rules.NewCompanyPatternRule(
		builtinBase(RuleConsultingDetected, points.ConsultingDetected, "consulting company"),
		consultingPattern,
	)
	if err != nil {
		return nil, &RuleCompilationError{Rule: RuleConsultingDetected, Pattern: consultingPattern, Err: err}
	}
	consulting.Enabled = consulting.Enabled && profile.AvoidConsulting
	adjustments = append(adjustments, consulting)

	adjustments = append(adjustments,
		&rules.KeywordRule{
			Base:     builtinBase(RuleResearchKeywords, points.ResearchKeywords, "research oriented role"),
			Keywords: rules.NewKeywords(researchKeywords),
		},
		&rules.KeywordRule{
			Base:     builtinBase(RuleMentorship, points.MentorshipMentioned, "mentorship mentioned"),
			Keywords: rules.NewKeywords(mentorshipKeywords),
		},
		&rules.KeywordRule{
			Base:     builtinBase(RuleOpenSource, points.OpenSource, "open source involvement"),
			Keywords: rules.NewKeywords(openSourceKeywords),
		},
		&rules.RatingThresholdRule{
			Base:      builtinBase(RuleHighRating, points.HighRating, "highly rated company"),
			MinRating: tuning.RatingTiers.Excellent,
		},
		rules.NewLocationRule(builtinBase(RuleRemoteFirst, points.RemoteFirst, "remote position"), []string{"remote"}),
	)

	return adjustments, nil
}

func builtinBase(id string, points float64, reason string) rules.Base {
	return rules.Base{ID: id, Points: points, Reason: reason, Enabled: points != 0}
}

func customKeywordRules(doc *CustomKeywordsDocument) []rules.Adjustment {
	if doc == nil {
		return nil
	}

	var adjustments []rules.Adjustment
	add := func(kind string, idx int, kw KeywordPointsDocument, points float64) {
		reason := strings.TrimSpace(kw.Reason)
		if reason == "" {
			reason = fmt.Sprintf("mentions %q", kw.Keyword)
		}
		adjustments = append(adjustments, &rules.KeywordRule{
			Base: rules.Base{
				ID:      fmt.Sprintf("%s.%s[%d]", listCustomKeywords, kind, idx),
				Points:  points,
				Reason:  reason,
				Enabled: points != 0,
			},
			Keywords: rules.NewKeywords(map[string][]string{"*": {kw.Keyword}}),
		})
	}

	for idx, kw := range doc.Penalties {
		add("penalties", idx, kw, -abs(kw.Points))
	}
	for idx, kw := range doc.Bonuses {
		add("bonuses", idx, kw, abs(kw.Points))
	}
	return adjustments
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func ruleType(list string, idx int, raw map[string]any) (rules.Type, error) {
	value, ok := raw["type"]
	if !ok || value == nil {
		return rules.TypeKeyword, nil
	}
	name, ok := value.(string)
	if !ok {
		return "", &UnknownRuleTypeError{List: list, Index: idx, Type: fmt.Sprint(value)}
	}
	return rules.Type(strings.TrimSpace(name)), nil
}

func decodeRule(list string, idx int, raw map[string]any, out any) error {
	field := fmt.Sprintf("%s[%d]", list, idx)
	if err := decodeStrict(DocumentRules, field, raw, out); err != nil {
		return err
	}
	if err := validate.Struct(out); err != nil {
		return fromValidatorError(DocumentRules, field, err)
	}
	return nil
}

func parsePenalty(idx int, raw map[string]any, profile Profile) (rules.Adjustment, error) {
	list := listCustomPenalties
	typ, err := ruleType(list, idx, raw)
	if err != nil {
		return nil, err
	}

	switch typ {
	case rules.TypeKeyword:
		var doc keywordPenaltyDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.KeywordRule{
			Base:     customBase(list, idx, doc.ID, doc.Penalty, doc.Reason, doc.Enabled),
			Keywords: rules.NewKeywords(doc.Keywords),
		}, nil

	case rules.TypeCompanyPattern:
		var doc companyPatternDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		base := customBase(list, idx, doc.ID, doc.Penalty, doc.Reason, doc.Enabled)
		rule, err := rules.NewCompanyPatternRule(base, doc.Pattern)
		if err != nil {
			return nil, &RuleCompilationError{Rule: base.ID, Pattern: doc.Pattern, Err: err}
		}
		return rule, nil

	case rules.TypeSalaryRange:
		var doc salaryRangeDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		currency := strings.ToUpper(strings.TrimSpace(doc.Currency))
		if currency == "" {
			currency = profile.Currency
		}
		return &rules.SalaryRangeRule{
			Base:          customBase(list, idx, doc.ID, doc.Penalty, doc.Reason, doc.Enabled),
			MaxAcceptable: *doc.MaxAcceptable,
			Currency:      currency,
		}, nil

	case rules.TypeExperienceGap:
		var doc experienceGapDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		// The profile is the single source of truth for the user's experience.
		return &rules.ExperienceGapRule{
			Base:           customBase(list, idx, doc.ID, doc.Penalty, doc.Reason, doc.Enabled),
			YourExperience: profile.YearsExperience,
			MaxGap:         *doc.MaxGap,
		}, nil

	default:
		return nil, &UnknownRuleTypeError{List: list, Index: idx, Type: string(typ)}
	}
}

func parseBonus(idx int, raw map[string]any) (rules.Adjustment, error) {
	list := listCustomBonuses
	typ, err := ruleType(list, idx, raw)
	if err != nil {
		return nil, err
	}

	switch typ {
	case rules.TypeKeyword:
		var doc keywordBonusDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.KeywordRule{
			Base:     customBase(list, idx, doc.ID, doc.Bonus, doc.Reason, doc.Enabled),
			Keywords: rules.NewKeywords(doc.Keywords),
		}, nil

	case rules.TypeRatingThreshold:
		var doc ratingThresholdDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.RatingThresholdRule{
			Base:      customBase(list, idx, doc.ID, doc.Bonus, doc.Reason, doc.Enabled),
			MinRating: *doc.MinRating,
		}, nil

	case rules.TypeLocation:
		var doc locationBonusDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return rules.NewLocationRule(
			customBase(list, idx, doc.ID, doc.Bonus, doc.Reason, doc.Enabled),
			doc.PreferredLocations,
		), nil

	default:
		return nil, &UnknownRuleTypeError{List: list, Index: idx, Type: string(typ)}
	}
}

func parseReject(idx int, raw map[string]any) (rules.Reject, error) {
	list := listRejectRules
	typ, err := ruleType(list, idx, raw)
	if err != nil {
		return nil, err
	}

	switch typ {
	case rules.TypeKeyword:
		var doc keywordRejectDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.KeywordReject{
			RejectBase: rejectBase(list, idx, doc.ID, doc.Reason, doc.Enabled),
			Keywords:   rules.NewKeywords(doc.Keywords),
		}, nil

	case rules.TypeJobType:
		var doc jobTypeRejectDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.JobTypeReject{
			RejectBase:  rejectBase(list, idx, doc.ID, doc.Reason, doc.Enabled),
			RejectTypes: trimList(doc.RejectTypes),
		}, nil

	case rules.TypeDistance:
		var doc distanceRejectDocument
		if err := decodeRule(list, idx, raw, &doc); err != nil {
			return nil, err
		}
		return &rules.DistanceReject{
			RejectBase:    rejectBase(list, idx, doc.ID, doc.Reason, doc.Enabled),
			MaxDistanceKm: doc.MaxDistanceKm,
			AllowRemote:   boolOr(doc.AllowRemote, true),
		}, nil

	default:
		return nil, &UnknownRuleTypeError{List: list, Index: idx, Type: string(typ)}
	}
}

func customBase(list string, idx int, id string, points float64, reason string, enabled *bool) rules.Base {
	return rules.Base{
		ID:      ruleID(list, idx, id),
		Points:  points,
		Reason:  strings.TrimSpace(reason),
		Enabled: boolOr(enabled, true),
	}
}

func rejectBase(list string, idx int, id, reason string, enabled *bool) rules.RejectBase {
	return rules.RejectBase{
		ID:      ruleID(list, idx, id),
		Reason:  strings.TrimSpace(reason),
		Enabled: boolOr(enabled, true),
	}
}
