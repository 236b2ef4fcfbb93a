package config

// MissingDataStrategy decides how a dimension without source data is scored.
type MissingDataStrategy string

const (
	StrategyNeutral MissingDataStrategy = "neutral"
	StrategyPenalty MissingDataStrategy = "penalty"
	StrategySkip    MissingDataStrategy = "skip"
)

const (
	defaultKnownSkillsWeight    = 0.6
	defaultLearningSkillsWeight = 0.4
	defaultMinOverlapRatio      = 0.2

	defaultNeutralScore = 0.5
	defaultPenaltyScore = 0.2

	defaultRatingExcellent  = 4.0
	defaultRatingGood       = 3.5
	defaultRatingAcceptable = 3.0

	defaultMaxPenalty = -50.0
	defaultMaxBonus   = 40.0

	defaultBuzzwordsPenalty          = -15.0
	defaultVagueDescriptionPenalty   = 0.0
	defaultExperienceMismatchPenalty = -20.0
	defaultPoorRatingPenalty         = -10.0
	defaultConsultingPenalty         = -10.0
	defaultExperienceMaxGap          = 2.0
	defaultVagueDescriptionWords     = 30

	defaultResearchBonus   = 10.0
	defaultMentorshipBonus = 10.0
	defaultHighRatingBonus = 10.0
	defaultOpenSourceBonus = 5.0
	defaultRemoteBonus     = 5.0
)

// consultingPattern matches company names of consulting firms and French ESN/SSII.
const consultingPattern = `\b(consulting|consultants?|conseil|ssii|esn)\b`

//nolint:gochecknoglobals // built-in keyword lists
var (
	buzzwordKeywords = map[string][]string{
		"en": {"rockstar", "rock star", "ninja", "guru", "wizard", "superstar", "unicorn", "work hard play hard"},
		"fr": {"mouton à cinq pattes", "couteau suisse"},
	}
	researchKeywords = map[string][]string{
		"en": {"research", "phd", "publication", "state of the art", "state-of-the-art"},
		"fr": {"recherche", "doctorat", "publication", "état de l'art"},
	}
	mentorshipKeywords = map[string][]string{
		"en": {"mentorship", "mentoring", "mentor"},
		"fr": {"mentorat", "tutorat", "accompagnement"},
	}
	openSourceKeywords = map[string][]string{
		"en": {"open source", "open-source", "opensource"},
		"fr": {"open source", "logiciel libre"},
	}
)

// Tuning holds the numeric constants used by the dimension scorer and the aggregator.
type Tuning struct {
	TechMatching TechMatching `json:"tech_matching"`
	MissingData  MissingData  `json:"missing_data"`
	RatingTiers  RatingTiers  `json:"rating_tiers"`
	MaxPenalty   float64      `json:"max_penalty"`
	MaxBonus     float64      `json:"max_bonus"`
}

type TechMatching struct {
	KnownSkillsWeight    float64 `json:"known_skills_weight"`
	LearningSkillsWeight float64 `json:"learning_skills_weight"`
	MinOverlapRatio      float64 `json:"min_overlap_ratio"`
}

type MissingData struct {
	Strategy     MissingDataStrategy `json:"strategy"`
	NeutralScore float64             `json:"neutral_score"`
	PenaltyScore float64             `json:"penalty_score"`
}

type RatingTiers struct {
	Excellent  float64 `json:"excellent"`
	Good       float64 `json:"good"`
	Acceptable float64 `json:"acceptable"`
}

// DefaultTuning returns the built-in tuning used when no scoring document is supplied.
func DefaultTuning() Tuning {
	return Tuning{
		TechMatching: TechMatching{
			KnownSkillsWeight:    defaultKnownSkillsWeight,
			LearningSkillsWeight: defaultLearningSkillsWeight,
			MinOverlapRatio:      defaultMinOverlapRatio,
		},
		MissingData: MissingData{
			Strategy:     StrategyNeutral,
			NeutralScore: defaultNeutralScore,
			PenaltyScore: defaultPenaltyScore,
		},
		RatingTiers: RatingTiers{
			Excellent:  defaultRatingExcellent,
			Good:       defaultRatingGood,
			Acceptable: defaultRatingAcceptable,
		},
		MaxPenalty: defaultMaxPenalty,
		MaxBonus:   defaultMaxBonus,
	}
}

// builtinPoints are the automatic penalties and bonuses. A zero value disables the rule;
// the vague description penalty is off unless a scoring document sets it.
type builtinPoints struct {
	Buzzwords          float64
	VagueDescription   float64
	ExperienceMismatch float64
	PoorRating         float64
	ConsultingDetected float64

	ResearchKeywords    float64
	MentorshipMentioned float64
	HighRating          float64
	OpenSource          float64
	RemoteFirst         float64
}

func defaultBuiltinPoints() builtinPoints {
	return builtinPoints{
		Buzzwords:           defaultBuzzwordsPenalty,
		VagueDescription:    defaultVagueDescriptionPenalty,
		ExperienceMismatch:  defaultExperienceMismatchPenalty,
		PoorRating:          defaultPoorRatingPenalty,
		ConsultingDetected:  defaultConsultingPenalty,
		ResearchKeywords:    defaultResearchBonus,
		MentorshipMentioned: defaultMentorshipBonus,
		HighRating:          defaultHighRatingBonus,
		OpenSource:          defaultOpenSourceBonus,
		RemoteFirst:         defaultRemoteBonus,
	}
}
