package config

// The document types mirror the three YAML files a user can supply. Pointer fields
// distinguish "not set" from a zero value so absent keys fall back to defaults.

// ProfileDocument is the user profile. It is the only mandatory document.
type ProfileDocument struct {
	ExperienceLevel string                  `mapstructure:"experience_level" json:"experience_level" validate:"required,oneof=internship entry_level mid_level senior"`
	YearsExperience *float64                `mapstructure:"years_experience" json:"years_experience" validate:"required,gte=0"`
	Skills          *SkillsDocument         `mapstructure:"skills" json:"skills" validate:"required"`
	Requirements    *RequirementsDocument   `mapstructure:"requirements" json:"requirements" validate:"required"`
	Preferences     *PreferencesDocument    `mapstructure:"preferences" json:"preferences,omitempty"`
	CustomKeywords  *CustomKeywordsDocument `mapstructure:"custom_keywords" json:"custom_keywords,omitempty"`
	Location        *LocationDocument       `mapstructure:"location" json:"location,omitempty"`
	Languages       []string                `mapstructure:"languages" json:"languages,omitempty"`
}

type SkillsDocument struct {
	Known       []string `mapstructure:"known" json:"known" validate:"required"`
	WantToLearn []string `mapstructure:"want_to_learn" json:"want_to_learn,omitempty"`
}

type RequirementsDocument struct {
	MinMonthlySalary *float64 `mapstructure:"min_monthly_salary" json:"min_monthly_salary" validate:"required,gte=0"`
	Currency         string   `mapstructure:"currency" json:"currency" validate:"required"`
	Locations        []string `mapstructure:"locations" json:"locations" validate:"required"`
	MaxDistanceKm    *float64 `mapstructure:"max_distance_km" json:"max_distance_km,omitempty" validate:"omitempty,gte=0"`
	CompanyBlacklist []string `mapstructure:"company_blacklist" json:"company_blacklist,omitempty"`
}

type PreferencesDocument struct {
	TargetSalary    *float64                       `mapstructure:"target_salary" json:"target_salary,omitempty" validate:"omitempty,gte=0"`
	WorkArrangement []string                       `mapstructure:"work_arrangement" json:"work_arrangement,omitempty" validate:"omitempty,dive,oneof=remote hybrid onsite"`
	Company         *CompanyPreferencesDocument    `mapstructure:"company" json:"company,omitempty"`
	Internship      *InternshipPreferencesDocument `mapstructure:"internship" json:"internship,omitempty"`
}

type CompanyPreferencesDocument struct {
	MinRating       *float64 `mapstructure:"min_rating" json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PreferredSize   []int    `mapstructure:"preferred_size" json:"preferred_size,omitempty" validate:"omitempty,len=2"`
	AvoidConsulting bool     `mapstructure:"avoid_consulting" json:"avoid_consulting,omitempty"`
}

type InternshipPreferencesDocument struct {
	RequireMentorship bool `mapstructure:"require_mentorship" json:"require_mentorship,omitempty"`
	PreferConversion  bool `mapstructure:"prefer_conversion" json:"prefer_conversion,omitempty"`
}

type CustomKeywordsDocument struct {
	Penalties []KeywordPointsDocument `mapstructure:"penalties" json:"penalties,omitempty" validate:"dive"`
	Bonuses   []KeywordPointsDocument `mapstructure:"bonuses" json:"bonuses,omitempty" validate:"dive"`
}

type KeywordPointsDocument struct {
	Keyword string  `mapstructure:"keyword" json:"keyword" validate:"required"`
	Points  float64 `mapstructure:"points" json:"points" validate:"required"`
	Reason  string  `mapstructure:"reason" json:"reason,omitempty"`
}

type LocationDocument struct {
	City        string    `mapstructure:"city" json:"city,omitempty"`
	Coordinates []float64 `mapstructure:"coordinates" json:"coordinates,omitempty" validate:"omitempty,len=2"`
}

// ScoringDocument overrides weights and tuning constants. Every field is optional.
type ScoringDocument struct {
	Modes         map[string]map[string]float64 `mapstructure:"modes" json:"modes,omitempty"`
	CustomWeights map[string]float64            `mapstructure:"custom_weights" json:"custom_weights,omitempty"`
	TechMatching  *TechMatchingDocument         `mapstructure:"tech_matching" json:"tech_matching,omitempty"`
	MissingSalary *MissingSalaryDocument        `mapstructure:"missing_salary" json:"missing_salary,omitempty"`
	RatingTiers   *RatingTiersDocument          `mapstructure:"rating_tiers" json:"rating_tiers,omitempty"`
	Penalties     *PenaltiesDocument            `mapstructure:"penalties" json:"penalties,omitempty"`
	Bonuses       *BonusesDocument              `mapstructure:"bonuses" json:"bonuses,omitempty"`
	MaxPenalty    *float64                      `mapstructure:"max_penalty" json:"max_penalty,omitempty" validate:"omitempty,lte=0"`
	MaxBonus      *float64                      `mapstructure:"max_bonus" json:"max_bonus,omitempty" validate:"omitempty,gte=0"`
}

type TechMatchingDocument struct {
	KnownSkillsWeight    *float64 `mapstructure:"known_skills_weight" json:"known_skills_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
	LearningSkillsWeight *float64 `mapstructure:"learning_skills_weight" json:"learning_skills_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinOverlapRatio      *float64 `mapstructure:"min_overlap_ratio" json:"min_overlap_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type MissingSalaryDocument struct {
	Strategy     string   `mapstructure:"strategy" json:"strategy,omitempty" validate:"omitempty,oneof=neutral penalty skip"`
	NeutralScore *float64 `mapstructure:"neutral_score" json:"neutral_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	PenaltyScore *float64 `mapstructure:"penalty_score" json:"penalty_score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type RatingTiersDocument struct {
	Excellent  *float64 `mapstructure:"excellent" json:"excellent,omitempty" validate:"omitempty,gte=0,lte=5"`
	Good       *float64 `mapstructure:"good" json:"good,omitempty" validate:"omitempty,gte=0,lte=5"`
	Acceptable *float64 `mapstructure:"acceptable" json:"acceptable,omitempty" validate:"omitempty,gte=0,lte=5"`
}

type PenaltiesDocument struct {
	Buzzwords          *float64 `mapstructure:"buzzwords" json:"buzzwords,omitempty" validate:"omitempty,lte=0"`
	VagueDescription   *float64 `mapstructure:"vague_description" json:"vague_description,omitempty" validate:"omitempty,lte=0"`
	ExperienceMismatch *float64 `mapstructure:"experience_mismatch" json:"experience_mismatch,omitempty" validate:"omitempty,lte=0"`
	PoorRating         *float64 `mapstructure:"poor_rating" json:"poor_rating,omitempty" validate:"omitempty,lte=0"`
	ConsultingDetected *float64 `mapstructure:"consulting_detected" json:"consulting_detected,omitempty" validate:"omitempty,lte=0"`
}

type BonusesDocument struct {
	ResearchKeywords    *float64 `mapstructure:"research_keywords" json:"research_keywords,omitempty" validate:"omitempty,gte=0"`
	MentorshipMentioned *float64 `mapstructure:"mentorship_mentioned" json:"mentorship_mentioned,omitempty" validate:"omitempty,gte=0"`
	HighRating          *float64 `mapstructure:"high_rating" json:"high_rating,omitempty" validate:"omitempty,gte=0"`
	OpenSource          *float64 `mapstructure:"open_source" json:"open_source,omitempty" validate:"omitempty,gte=0"`
	RemoteFirst         *float64 `mapstructure:"remote_first" json:"remote_first,omitempty" validate:"omitempty,gte=0"`
}

// RulesDocument holds advanced rules. Rule entries stay untyped until their "type"
// key selects the concrete schema.
type RulesDocument struct {
	CustomPenalties []map[string]any    `mapstructure:"custom_penalties" json:"custom_penalties,omitempty"`
	CustomBonuses   []map[string]any    `mapstructure:"custom_bonuses" json:"custom_bonuses,omitempty"`
	RejectRules     []map[string]any    `mapstructure:"reject_rules" json:"reject_rules,omitempty"`
	Processing      *ProcessingDocument `mapstructure:"processing" json:"processing,omitempty"`
}

type ProcessingDocument struct {
	StopOnReject        *bool `mapstructure:"stop_on_reject" json:"stop_on_reject,omitempty"`
	AccumulatePenalties *bool `mapstructure:"accumulate_penalties" json:"accumulate_penalties,omitempty"`
	AccumulateBonuses   *bool `mapstructure:"accumulate_bonuses" json:"accumulate_bonuses,omitempty"`
	LogMatches          *bool `mapstructure:"log_matches" json:"log_matches,omitempty"`
}

type keywordPenaltyDocument struct {
	Type     string              `mapstructure:"type"`
	ID       string              `mapstructure:"id"`
	Keywords map[string][]string `mapstructure:"keywords" validate:"required,min=1"`
	Penalty  float64             `mapstructure:"penalty" validate:"required,lt=0"`
	Reason   string              `mapstructure:"reason" validate:"required"`
	Enabled  *bool               `mapstructure:"enabled"`
}

type companyPatternDocument struct {
	Type    string  `mapstructure:"type"`
	ID      string  `mapstructure:"id"`
	Pattern string  `mapstructure:"pattern" validate:"required"`
	Penalty float64 `mapstructure:"penalty" validate:"required,lt=0"`
	Reason  string  `mapstructure:"reason" validate:"required"`
	Enabled *bool   `mapstructure:"enabled"`
}

type salaryRangeDocument struct {
	Type          string   `mapstructure:"type"`
	ID            string   `mapstructure:"id"`
	MaxAcceptable *float64 `mapstructure:"max_acceptable" validate:"required,gte=0"`
	Currency      string   `mapstructure:"currency"`
	Penalty       float64  `mapstructure:"penalty" validate:"required,lt=0"`
	Reason        string   `mapstructure:"reason" validate:"required"`
	Enabled       *bool    `mapstructure:"enabled"`
}

type experienceGapDocument struct {
	Type           string   `mapstructure:"type"`
	ID             string   `mapstructure:"id"`
	YourExperience *float64 `mapstructure:"your_experience" validate:"omitempty,gte=0"`
	MaxGap         *float64 `mapstructure:"max_gap" validate:"required,gte=0"`
	Penalty        float64  `mapstructure:"penalty" validate:"required,lt=0"`
	Reason         string   `mapstructure:"reason" validate:"required"`
	Enabled        *bool    `mapstructure:"enabled"`
}

type keywordBonusDocument struct {
	Type     string              `mapstructure:"type"`
	ID       string              `mapstructure:"id"`
	Keywords map[string][]string `mapstructure:"keywords" validate:"required,min=1"`
	Bonus    float64             `mapstructure:"bonus" validate:"required,gt=0"`
	Reason   string              `mapstructure:"reason" validate:"required"`
	Enabled  *bool               `mapstructure:"enabled"`
}

type ratingThresholdDocument struct {
	Type      string   `mapstructure:"type"`
	ID        string   `mapstructure:"id"`
	MinRating *float64 `mapstructure:"min_rating" validate:"required,gte=0,lte=5"`
	Bonus     float64  `mapstructure:"bonus" validate:"required,gt=0"`
	Reason    string   `mapstructure:"reason" validate:"required"`
	Enabled   *bool    `mapstructure:"enabled"`
}

type locationBonusDocument struct {
	Type               string   `mapstructure:"type"`
	ID                 string   `mapstructure:"id"`
	PreferredLocations []string `mapstructure:"preferred_locations" validate:"required,min=1"`
	Bonus              float64  `mapstructure:"bonus" validate:"required,gt=0"`
	Reason             string   `mapstructure:"reason" validate:"required"`
	Enabled            *bool    `mapstructure:"enabled"`
}

type keywordRejectDocument struct {
	Type     string              `mapstructure:"type"`
	ID       string              `mapstructure:"id"`
	Keywords map[string][]string `mapstructure:"keywords" validate:"required,min=1"`
	Reason   string              `mapstructure:"reason" validate:"required"`
	Enabled  *bool               `mapstructure:"enabled"`
}

type jobTypeRejectDocument struct {
	Type        string   `mapstructure:"type"`
	ID          string   `mapstructure:"id"`
	RejectTypes []string `mapstructure:"reject_types" validate:"required,min=1"`
	Reason      string   `mapstructure:"reason" validate:"required"`
	Enabled     *bool    `mapstructure:"enabled"`
}

type distanceRejectDocument struct {
	Type          string  `mapstructure:"type"`
	ID            string  `mapstructure:"id"`
	MaxDistanceKm float64 `mapstructure:"max_distance_km" validate:"required,gt=0"`
	AllowRemote   *bool   `mapstructure:"allow_remote"`
	Reason        string  `mapstructure:"reason" validate:"required"`
	Enabled       *bool   `mapstructure:"enabled"`
}
