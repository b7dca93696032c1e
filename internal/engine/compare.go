package engine

import (
	"github.com/sourcegraph/conc/iter"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PlanSettings
}

// ComparisonResult holds the packing result and headline figures for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackingResult
	Err           error
	LoadingMeters float64
	Trucks        int
	Rows          int
	Stacked       int
	SkippedCount  int
}

// CompareScenarios plans the same units under each scenario and returns
// the results in scenario order. Scenarios run concurrently, each with
// its own Planner.
func CompareScenarios(container model.Container, scenarios []ComparisonScenario, units []model.Unit) []ComparisonResult {
	return iter.Map(scenarios, func(sc *ComparisonScenario) ComparisonResult {
		result, err := New(container, sc.Settings).Plan(units)
		return newComparisonResult(*sc, result, err)
	})
}

// CompareDatasetScenarios plans a dataset under each scenario. Order
// expansion and consolidation follow each scenario's own settings, so
// scenarios may differ in MixItems or Consolidate too.
func CompareDatasetScenarios(container model.Container, scenarios []ComparisonScenario, ds model.Dataset) []ComparisonResult {
	return iter.Map(scenarios, func(sc *ComparisonScenario) ComparisonResult {
		result, err := New(container, sc.Settings).PlanDataset(ds)
		return newComparisonResult(*sc, result, err)
	})
}

func newComparisonResult(sc ComparisonScenario, result model.PackingResult, err error) ComparisonResult {
	return ComparisonResult{
		Scenario:      sc,
		Result:        result,
		Err:           err,
		LoadingMeters: result.RequiredLength,
		Trucks:        result.TruckCount,
		Rows:          len(result.Rows),
		Stacked:       result.StackedCount(),
		SkippedCount:  result.SkippedCount(),
	}
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings by toggling rotation and stacking.
func BuildDefaultScenarios(base model.PlanSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	rot := base
	rot.Rotate = !base.Rotate
	scenarios = append(scenarios, ComparisonScenario{Name: toggleName("Rotation", rot.Rotate), Settings: rot})

	stack := base
	stack.Stack = !base.Stack
	scenarios = append(scenarios, ComparisonScenario{Name: toggleName("Stacking", stack.Stack), Settings: stack})

	both := base
	both.Rotate = !base.Rotate
	both.Stack = !base.Stack
	scenarios = append(scenarios, ComparisonScenario{
		Name:     toggleName("Rotation", both.Rotate) + ", " + toggleName("Stacking", both.Stack),
		Settings: both,
	})

	if !base.FillRows {
		fill := base
		fill.FillRows = true
		fill.Rotate = true
		scenarios = append(scenarios, ComparisonScenario{Name: "Row Fill + Rotation", Settings: fill})
	}

	return scenarios
}

func toggleName(feature string, on bool) string {
	if on {
		return feature + " On"
	}
	return feature + " Off"
}
