package config

import (
	"fmt"
	"math"
	"strings"
)

// Mode is the experience level that selects the default dimension weights.
type Mode string

const (
	ModeInternship Mode = "internship"
	ModeEntryLevel Mode = "entry_level"
	ModeMidLevel   Mode = "mid_level"
	ModeSenior     Mode = "senior"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeInternship, ModeEntryLevel, ModeMidLevel, ModeSenior}

// Dimension is a named sub-score normalized to [0,1].
type Dimension string

const (
	DimensionTechMatch           Dimension = "tech_match"
	DimensionLearningPotential   Dimension = "learning_potential"
	DimensionCompanyQuality      Dimension = "company_quality"
	DimensionCompensation        Dimension = "compensation"
	DimensionConversionPotential Dimension = "conversion_potential"
	DimensionCareerGrowth        Dimension = "career_growth"
	DimensionPracticalFactors    Dimension = "practical_factors"
	DimensionImpactPotential     Dimension = "impact_potential"
	DimensionTeamLeadership      Dimension = "team_leadership"
)

// dimensionOrder fixes iteration order so floating point sums are reproducible.
var dimensionOrder = []Dimension{
	DimensionTechMatch,
	DimensionLearningPotential,
	DimensionCompanyQuality,
	DimensionCompensation,
	DimensionConversionPotential,
	DimensionCareerGrowth,
	DimensionPracticalFactors,
	DimensionImpactPotential,
	DimensionTeamLeadership,
}

// WeightTolerance is the allowed deviation of a resolved weight sum from 1.0.
const WeightTolerance = 1e-3

// documentWeightTolerance is accepted for hand written mode tables before normalization.
const documentWeightTolerance = 0.01

//nolint:gochecknoglobals // built-in scoring modes
var defaultModeWeights = map[Mode]WeightSet{
	ModeInternship: {
		DimensionTechMatch:           0.30,
		DimensionLearningPotential:   0.30,
		DimensionCompanyQuality:      0.15,
		DimensionConversionPotential: 0.15,
		DimensionPracticalFactors:    0.10,
	},
	ModeEntryLevel: {
		DimensionTechMatch:         0.30,
		DimensionLearningPotential: 0.20,
		DimensionCompanyQuality:    0.15,
		DimensionCompensation:      0.15,
		DimensionCareerGrowth:      0.10,
		DimensionPracticalFactors:  0.10,
	},
	ModeMidLevel: {
		DimensionTechMatch:        0.30,
		DimensionCompensation:     0.20,
		DimensionCompanyQuality:   0.15,
		DimensionCareerGrowth:     0.15,
		DimensionImpactPotential:  0.10,
		DimensionPracticalFactors: 0.10,
	},
	ModeSenior: {
		DimensionTechMatch:        0.25,
		DimensionCompensation:     0.25,
		DimensionCompanyQuality:   0.15,
		DimensionImpactPotential:  0.15,
		DimensionTeamLeadership:   0.10,
		DimensionPracticalFactors: 0.10,
	},
}

// WeightSet maps dimensions to weights in [0,1].
type WeightSet map[Dimension]float64

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.TrimSpace(s))
	for _, known := range Modes {
		if mode == known {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	dim := Dimension(strings.TrimSpace(s))
	for _, known := range dimensionOrder {
		if dim == known {
			return dim, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// ModeWeights returns a copy of the built-in weights of a mode.
func ModeWeights(mode Mode) (WeightSet, error) {
	weights, ok := defaultModeWeights[mode]
	if !ok {
		return nil, fmt.Errorf("unknown experience level %q", mode)
	}
	return weights.Clone(), nil
}

func (w WeightSet) Clone() WeightSet {
	clone := make(WeightSet, len(w))
	for dim, weight := range w {
		clone[dim] = weight
	}
	return clone
}

// Dimensions returns the dimensions of the set in canonical order.
func (w WeightSet) Dimensions() []Dimension {
	dims := make([]Dimension, 0, len(w))
	for _, dim := range dimensionOrder {
		if _, ok := w[dim]; ok {
			dims = append(dims, dim)
		}
	}
	return dims
}

func (w WeightSet) Sum() float64 {
	total := 0.0
	for _, dim := range w.Dimensions() {
		total += w[dim]
	}
	return total
}

// Validate checks that weights lie in [0,1] and sum to 1.0 within WeightTolerance.
func (w WeightSet) Validate() error {
	for _, dim := range w.Dimensions() {
		if w[dim] < 0 || w[dim] > 1 {
			return fmt.Errorf("weight of %s is %.4f, must be within [0,1]", dim, w[dim])
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}

func (w WeightSet) normalize() (WeightSet, error) {
	total := w.Sum()
	if total <= 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}
	normalized := make(WeightSet, len(w))
	for _, dim := range w.Dimensions() {
		normalized[dim] = w[dim] / total
	}
	return normalized, nil
}

// ResolveWeights applies partial overrides to base and renormalizes the result.
//
// Overridden dimensions keep their value while untouched dimensions are scaled to fill
// what is left of 1.0, preserving their ratios. When the overrides alone reach or exceed
// 1.0, or every dimension is overridden, the whole set is divided by its total instead.
func ResolveWeights(base WeightSet, overrides map[Dimension]float64) (WeightSet, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("no dimensions to weight")
	}

	resolved := base.Clone()
	if len(overrides) == 0 {
		return resolved.normalize()
	}

	for dim := range overrides {
		if _, known := base[dim]; !known {
			return nil, fmt.Errorf("dimension %s is not used by this mode", dim)
		}
	}

	overridden := 0.0
	for _, dim := range base.Dimensions() {
		weight, ok := overrides[dim]
		if !ok {
			continue
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("weight of %s is %.4f, must be within [0,1]", dim, weight)
		}
		resolved[dim] = weight
		overridden += weight
	}

	untouched := 0.0
	for _, dim := range resolved.Dimensions() {
		if _, ok := overrides[dim]; !ok {
			untouched += resolved[dim]
		}
	}

	if overridden < 1 && untouched > 0 {
		scale := (1 - overridden) / untouched
		for _, dim := range resolved.Dimensions() {
			if _, ok := overrides[dim]; !ok {
				resolved[dim] *= scale
			}
		}
	}

	return resolved.normalize()
}
