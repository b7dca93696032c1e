package model

import "fmt"

// StackPolicy controls whether a stacked unit affects where the next row begins.
type StackPolicy string

const (
	StackZeroFootprint StackPolicy = "zero-footprint" // Stacked units never move the row cursors
	StackRowDepth      StackPolicy = "row-depth"      // Stacked units may extend the row depth
)

// Placement defaults.
const (
	DefaultSpacing       = 2.0  // cm of handling clearance between adjacent units
	DefaultSafetyFactor  = 1.15 // Packing inefficiency allowance for consolidation
	MinSafetyFactor      = 1.10
	MaxSafetyFactor      = 1.20
	DefaultMaxUnits      = 5000
	StandardTrailerMeter = 13.6 // Loading meters of a standard trailer
)

// PlanSettings holds the planning flags read once per computation.
type PlanSettings struct {
	Rotate       bool        `json:"rotate" mapstructure:"rotate"`             // Allow swapping length and width
	Stack        bool        `json:"stack" mapstructure:"stack"`               // Allow two-tier stacking
	MixItems     bool        `json:"mix_items" mapstructure:"mix_items"`       // Consolidate a whole order into shared packaging
	Consolidate  bool        `json:"consolidate" mapstructure:"consolidate"`   // Pack order lines into boxes/pallets before placement
	FillRows     bool        `json:"fill_rows" mapstructure:"fill_rows"`       // Choose row orientation by how many units fit across
	Spacing      float64     `json:"spacing" mapstructure:"spacing" validate:"gte=0"`
	StackPolicy  StackPolicy `json:"stack_policy" mapstructure:"stack_policy" validate:"omitempty,oneof=zero-footprint row-depth"`
	SafetyFactor float64     `json:"safety_factor" mapstructure:"safety_factor" validate:"gte=0"`
	MaxUnits     int         `json:"max_units" mapstructure:"max_units" validate:"gte=0"` // 0 disables the cap
}

func DefaultPlanSettings() PlanSettings {
	return PlanSettings{
		Rotate:       false,
		Stack:        false,
		MixItems:     true,
		Consolidate:  false,
		FillRows:     false,
		Spacing:      DefaultSpacing,
		StackPolicy:  StackZeroFootprint,
		SafetyFactor: DefaultSafetyFactor,
		MaxUnits:     DefaultMaxUnits,
	}
}

// Validate checks the settings for values the planner cannot work with.
func (s PlanSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings: %s", describeValidation(err))
	}
	return nil
}

// EffectiveSafetyFactor clamps the safety factor into the supported band.
func (s PlanSettings) EffectiveSafetyFactor() float64 {
	switch {
	case s.SafetyFactor == 0:
		return DefaultSafetyFactor
	case s.SafetyFactor < MinSafetyFactor:
		return MinSafetyFactor
	case s.SafetyFactor > MaxSafetyFactor:
		return MaxSafetyFactor
	default:
		return s.SafetyFactor
	}
}

// EffectiveStackPolicy returns the stack policy, defaulting to zero footprint.
func (s PlanSettings) EffectiveStackPolicy() StackPolicy {
	if s.StackPolicy == "" {
		return StackZeroFootprint
	}
	return s.StackPolicy
}
