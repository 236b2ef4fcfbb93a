package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-ranker/internal/jobs"
)

func ptr(v float64) *float64 { return &v }

func keywordRule(id string, points float64, words ...string) *KeywordRule {
	return &KeywordRule{
		Base:     Base{ID: id, Points: points, Reason: id + " matched", Enabled: true},
		Keywords: NewKeywords(map[string][]string{"en": words}),
	}
}

func TestAdjustmentMatching(t *testing.T) {
	t.Parallel()

	pattern, err := NewCompanyPatternRule(Base{ID: "consulting", Points: -10, Enabled: true}, `\b(consulting|esn)\b`)
	require.NoError(t, err)

	tests := []struct {
		name string
		rule Adjustment
		job  *jobs.Posting
		want bool
	}{
		{
			name: "keyword is case insensitive",
			rule: keywordRule("buzz", -15, "Rockstar"),
			job:  &jobs.Posting{Description: "We need a ROCKSTAR engineer"},
			want: true,
		},
		{
			name: "keyword in title",
			rule: keywordRule("research", 10, "research"),
			job:  &jobs.Posting{Title: "Research Engineer"},
			want: true,
		},
		{
			name: "keyword absent",
			rule: keywordRule("buzz", -15, "ninja"),
			job:  &jobs.Posting{Description: "plain text"},
			want: false,
		},
		{
			name: "company pattern ignores case",
			rule: pattern,
			job:  &jobs.Posting{Company: "Big Consulting Group"},
			want: true,
		},
		{
			name: "company pattern miss",
			rule: pattern,
			job:  &jobs.Posting{Company: "Consultingly"},
			want: false,
		},
		{
			name: "salary below max acceptable",
			rule: &SalaryRangeRule{Base: Base{Points: -10, Enabled: true}, MaxAcceptable: 2000, Currency: "EUR"},
			job:  &jobs.Posting{MonthlySalary: ptr(1500), SalaryCurrency: "eur"},
			want: true,
		},
		{
			name: "salary unknown never triggers",
			rule: &SalaryRangeRule{Base: Base{Points: -10, Enabled: true}, MaxAcceptable: 2000, Currency: "EUR"},
			job:  &jobs.Posting{},
			want: false,
		},
		{
			name: "salary in other currency",
			rule: &SalaryRangeRule{Base: Base{Points: -10, Enabled: true}, MaxAcceptable: 2000, Currency: "EUR"},
			job:  &jobs.Posting{MonthlySalary: ptr(1500), SalaryCurrency: "USD"},
			want: false,
		},
		{
			name: "experience gap above max",
			rule: &ExperienceGapRule{Base: Base{Points: -20, Enabled: true}, YourExperience: 1, MaxGap: 2},
			job:  &jobs.Posting{RequiredExperience: ptr(5)},
			want: true,
		},
		{
			name: "experience gap equal to max",
			rule: &ExperienceGapRule{Base: Base{Points: -20, Enabled: true}, YourExperience: 1, MaxGap: 2},
			job:  &jobs.Posting{RequiredExperience: ptr(3)},
			want: false,
		},
		{
			name: "experience unknown",
			rule: &ExperienceGapRule{Base: Base{Points: -20, Enabled: true}, YourExperience: 1, MaxGap: 2},
			job:  &jobs.Posting{},
			want: false,
		},
		{
			name: "rating at threshold",
			rule: &RatingThresholdRule{Base: Base{Points: 10, Enabled: true}, MinRating: 4},
			job:  &jobs.Posting{CompanyRating: ptr(4)},
			want: true,
		},
		{
			name: "rating unknown",
			rule: &RatingThresholdRule{Base: Base{Points: 10, Enabled: true}, MinRating: 4},
			job:  &jobs.Posting{},
			want: false,
		},
		{
			name: "preferred location",
			rule: NewLocationRule(Base{Points: 5, Enabled: true}, []string{" Paris "}),
			job:  &jobs.Posting{Location: "Paris, Île-de-France"},
			want: true,
		},
		{
			name: "remote preferred",
			rule: NewLocationRule(Base{Points: 5, Enabled: true}, []string{"remote"}),
			job:  &jobs.Posting{Location: "Lyon", RemoteOption: "remote"},
			want: true,
		},
		{
			name: "location miss",
			rule: NewLocationRule(Base{Points: 5, Enabled: true}, []string{"paris"}),
			job:  &jobs.Posting{Location: "Lyon"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.matches(tt.job))
		})
	}
}

func TestNewCompanyPatternRuleRejectsInvalidPattern(t *testing.T) {
	_, err := NewCompanyPatternRule(Base{ID: "bad"}, "(unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(unclosed")
}

func TestKeywordsPreferPostingLanguage(t *testing.T) {
	keywords := NewKeywords(map[string][]string{
		"en": {"rockstar"},
		"FR": {" Stagiaire ", ""},
	})

	assert.Equal(t, 2, keywords.Len())
	assert.True(t, keywords.Match("offre de stagiaire", "fr"))
	assert.False(t, keywords.Match("rockstar wanted", "fr"))
	assert.True(t, keywords.Match("rockstar wanted", ""))
	assert.True(t, keywords.Match("stagiaire", "de"))
}

func TestRejectMatching(t *testing.T) {
	t.Parallel()

	distance := &DistanceReject{RejectBase: RejectBase{Enabled: true}, MaxDistanceKm: 30, AllowRemote: true}
	strict := &DistanceReject{RejectBase: RejectBase{Enabled: true}, MaxDistanceKm: 30}
	jobType := &JobTypeReject{RejectBase: RejectBase{Enabled: true}, RejectTypes: []string{"Freelance"}}
	keyword := &KeywordReject{RejectBase: RejectBase{Enabled: true}, Keywords: NewKeywords(map[string][]string{"en": {"unpaid"}})}

	assert.True(t, distance.matches(&jobs.Posting{DistanceKm: ptr(45)}))
	assert.False(t, distance.matches(&jobs.Posting{DistanceKm: ptr(30)}))
	assert.False(t, distance.matches(&jobs.Posting{DistanceKm: ptr(450), RemoteOption: "remote"}))
	assert.True(t, strict.matches(&jobs.Posting{DistanceKm: ptr(450), RemoteOption: "remote"}))
	assert.False(t, distance.matches(&jobs.Posting{}))

	assert.True(t, jobType.matches(&jobs.Posting{JobType: "freelance"}))
	assert.False(t, jobType.matches(&jobs.Posting{JobType: "full-time"}))
	assert.False(t, jobType.matches(&jobs.Posting{}))

	assert.True(t, keyword.matches(&jobs.Posting{Title: "Unpaid internship"}))
}

func TestEvaluateStopsOnFirstReject(t *testing.T) {
	first := &KeywordReject{
		RejectBase: RejectBase{ID: "unpaid", Reason: "unpaid position", Enabled: true},
		Keywords:   NewKeywords(map[string][]string{"en": {"unpaid"}}),
	}
	second := &JobTypeReject{
		RejectBase:  RejectBase{ID: "freelance", Reason: "freelance not wanted", Enabled: true},
		RejectTypes: []string{"freelance"},
	}
	job := &jobs.Posting{Description: "unpaid", JobType: "freelance"}
	adjustments := []Adjustment{keywordRule("buzz", -15, "unpaid")}

	processing := DefaultProcessing()
	eval := NewSet(adjustments, []Reject{first, second}, processing).Evaluate(job)

	require.True(t, eval.Rejected())
	require.Len(t, eval.Rejections, 1)
	assert.Equal(t, "unpaid position", eval.Rejections[0].Reason)
	assert.Empty(t, eval.Triggered)

	processing.StopOnReject = false
	eval = NewSet(adjustments, []Reject{first, second}, processing).Evaluate(job)

	require.Len(t, eval.Rejections, 2)
	assert.Equal(t, "unpaid", eval.Rejections[0].RuleID)
	assert.Equal(t, "freelance", eval.Rejections[1].RuleID)
	assert.Len(t, eval.Triggered, 1)
}

func TestEvaluateSkipsDisabledRules(t *testing.T) {
	disabled := keywordRule("buzz", -15, "rockstar")
	disabled.Enabled = false
	rejectDisabled := &KeywordReject{
		RejectBase: RejectBase{ID: "reject", Enabled: false},
		Keywords:   NewKeywords(map[string][]string{"en": {"rockstar"}}),
	}

	eval := NewSet([]Adjustment{disabled}, []Reject{rejectDisabled}, DefaultProcessing()).
		Evaluate(&jobs.Posting{Description: "rockstar"})

	assert.False(t, eval.Rejected())
	assert.Empty(t, eval.Triggered)
	assert.Empty(t, eval.Applied)
}

func TestEvaluateAccumulation(t *testing.T) {
	job := &jobs.Posting{Description: "rockstar ninja research open source"}
	adjustments := []Adjustment{
		keywordRule("rockstar", -10, "rockstar"),
		keywordRule("ninja", -15, "ninja"),
		keywordRule("ninja-again", -15, "ninja"),
		keywordRule("research", 10, "research"),
		keywordRule("oss", 5, "open source"),
	}

	tests := []struct {
		name       string
		processing Processing
		want       []string
	}{
		{
			name:       "accumulate everything",
			processing: Processing{AccumulatePenalties: true, AccumulateBonuses: true},
			want:       []string{"rockstar", "ninja", "ninja-again", "research", "oss"},
		},
		{
			name:       "single penalty, first declared on tie",
			processing: Processing{AccumulatePenalties: false, AccumulateBonuses: true},
			want:       []string{"ninja", "research", "oss"},
		},
		{
			name:       "single bonus",
			processing: Processing{AccumulatePenalties: true, AccumulateBonuses: false},
			want:       []string{"rockstar", "ninja", "ninja-again", "research"},
		},
		{
			name:       "single of each",
			processing: Processing{},
			want:       []string{"ninja", "research"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := NewSet(adjustments, nil, tt.processing).Evaluate(job)

			require.Len(t, eval.Triggered, 5)
			ids := make([]string, 0, len(eval.Applied))
			for _, c := range eval.Applied {
				ids = append(ids, c.RuleID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCounts(t *testing.T) {
	disabledBonus := keywordRule("b2", 5, "x")
	disabledBonus.Enabled = false

	set := NewSet(
		[]Adjustment{keywordRule("p1", -5, "x"), keywordRule("b1", 5, "x"), disabledBonus},
		[]Reject{&JobTypeReject{RejectBase: RejectBase{Enabled: true}}},
		DefaultProcessing(),
	)

	assert.Equal(t, Counts{Penalties: 1, Bonuses: 1, Rejects: 1, DisabledBonuses: 1}, set.Counts())

	zeroed := NewSet([]Adjustment{
		&PoorRatingRule{Base: Base{ID: "poor"}, MaxRating: 3},
		&VagueDescriptionRule{Base: Base{ID: "vague"}, MinWords: 10},
	}, nil, DefaultProcessing())
	assert.Equal(t, Counts{DisabledPenalties: 2}, zeroed.Counts())
}

func TestPoorRatingAndVagueDescriptionRules(t *testing.T) {
	poor := &PoorRatingRule{Base: Base{ID: "poor", Points: -10, Enabled: true}, MaxRating: 3}
	vague := &VagueDescriptionRule{Base: Base{ID: "vague", Points: -5, Enabled: true}, MinWords: 4}
	set := NewSet([]Adjustment{poor, vague}, nil, DefaultProcessing())

	rating := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		job  *jobs.Posting
		want []string
	}{
		{name: "low rating", job: &jobs.Posting{CompanyRating: rating(2.9), TechStack: []string{"go"}}, want: []string{"poor"}},
		{name: "acceptable rating", job: &jobs.Posting{CompanyRating: rating(3), TechStack: []string{"go"}}, want: nil},
		{name: "unknown rating", job: &jobs.Posting{TechStack: []string{"go"}}, want: nil},
		{name: "short description", job: &jobs.Posting{Description: "we hire devs"}, want: []string{"vague"}},
		{name: "long enough", job: &jobs.Posting{Description: "we hire backend devs in Lyon"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, c := range set.Evaluate(tt.job).Applied {
				ids = append(ids, c.RuleID)
				assert.Equal(t, KindPenalty, c.Kind)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSetIsSafeForConcurrentUse(t *testing.T) {
	pattern, err := NewCompanyPatternRule(Base{ID: "p", Points: -5, Enabled: true}, "acme")
	require.NoError(t, err)
	set := NewSet([]Adjustment{pattern, keywordRule("k", 5, "go")}, nil, DefaultProcessing())
	job := &jobs.Posting{Company: "ACME", Description: "go"}

	var wg sync.WaitGroup
	results := make([]Evaluation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = set.Evaluate(job)
		}(i)
	}
	wg.Wait()

	for _, eval := range results {
		assert.Equal(t, results[0], eval)
	}
}
