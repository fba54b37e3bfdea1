package config

import "github.com/avasylenko/stitchflow/internal/domain/production"

// WorkflowConfig holds the factory-specific knobs of the task engine. Stage
// ordering and dependency topology are fixed business logic; only rates and
// tolerances vary per factory.
type WorkflowConfig struct {
	// Length of a shop-floor workday used for due-date computation
	WorkdayHours float64 `mapstructure:"workday_hours" validate:"gt=0"`

	// Allowed overshoot of actual quantity over target (0.10 = 10%)
	QuantityTolerance float64 `mapstructure:"quantity_tolerance" validate:"gte=0,lt=1"`

	// Per-stage effort rate overrides keyed by stage type. Fixed-effort
	// stages interpret the value as hours; per-unit stages as hours per unit.
	EffortRates map[string]float64 `mapstructure:"effort_rates"`
}

// BuildEffortRates merges configured overrides onto the default rates.
// An override keeps the stage's formula shape (fixed vs per-unit) and only
// replaces the rate value.
func (c WorkflowConfig) BuildEffortRates() production.EffortRates {
	rates := production.DefaultEffortRates()
	for key, value := range c.EffortRates {
		t := production.TaskType(key)
		base, ok := rates[t]
		if !ok || value <= 0 {
			continue
		}
		if base.FixedHours > 0 {
			base.FixedHours = value
		} else {
			base.PerUnitHours = value
		}
		rates[t] = base
	}
	return rates
}
