package engine

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(defaultTestSettings())

	require.Len(t, scenarios, 5)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.True(t, scenarios[1].Settings.Rotate)
	assert.True(t, scenarios[2].Settings.Stack)
	assert.True(t, scenarios[3].Settings.Rotate)
	assert.True(t, scenarios[3].Settings.Stack)
	assert.True(t, scenarios[4].Settings.FillRows)
}

func TestBuildDefaultScenarios_FillRowsAlreadyOn(t *testing.T) {
	s := defaultTestSettings()
	s.FillRows = true
	assert.Len(t, BuildDefaultScenarios(s), 4)
}

func TestCompareScenarios_OrderAndIsolation(t *testing.T) {
	c := testContainer(245)
	scenarios := BuildDefaultScenarios(defaultTestSettings())
	in := mixedUnits()

	results := CompareScenarios(c, scenarios, in)

	require.Len(t, results, len(scenarios))
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)

		// Each concurrent result matches a sequential run.
		want, err := New(c, scenarios[i].Settings).Plan(in)
		require.NoError(t, err)
		assert.Equal(t, want, r.Result)
		assert.Equal(t, want.TruckCount, r.Trucks)
		assert.Equal(t, want.RequiredLength, r.LoadingMeters)
	}
}

func TestCompareScenarios_StackingShortensLoad(t *testing.T) {
	c := testContainer(245)
	scenarios := []ComparisonScenario{
		{Name: "flat", Settings: defaultTestSettings()},
		{Name: "stacked", Settings: func() model.PlanSettings {
			s := defaultTestSettings()
			s.Stack = true
			return s
		}()},
	}

	results := CompareScenarios(c, scenarios, units(12, 120, 80, 100, 10))

	require.Len(t, results, 2)
	assert.Less(t, results[1].LoadingMeters, results[0].LoadingMeters)
	assert.Equal(t, 6, results[1].Stacked)
}

func TestCompareScenarios_InvalidContainer(t *testing.T) {
	results := CompareScenarios(model.Container{}, BuildDefaultScenarios(defaultTestSettings()), nil)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, ErrInvalidContainer)
	}
}

func TestCompareDatasetScenarios_ConsolidationVaries(t *testing.T) {
	ds := model.Dataset{
		Items:   []model.Item{model.NewItem("SMALL", 30, 20, 20, 2)},
		Boxes:   []model.Box{model.NewBox("Carton", 60, 40, 40, 1)},
		Pallets: []model.Pallet{model.NewPallet("EUR", 120, 80, 150, 25)},
		Orders:  []model.Order{model.NewOrder("O1", "SMALL", 6)},
	}
	loose := defaultTestSettings()
	packed := loose
	packed.Consolidate = true
	scenarios := []ComparisonScenario{
		{Name: "Loose", Settings: loose},
		{Name: "Packed", Settings: packed},
	}

	results := CompareDatasetScenarios(testContainer(245), scenarios, ds)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 6, results[0].Result.UnitCount)
	assert.Equal(t, 1, results[1].Result.UnitCount, "six small items fit one carton")
	assert.Len(t, results[1].Result.Packaging, 1)
}
