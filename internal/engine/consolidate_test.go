package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packagingDataset() model.Dataset {
	small := model.NewItem("SMALL", 30, 20, 10, 2)
	big := model.NewItem("BIG", 100, 70, 60, 40)
	return model.Dataset{
		Items: []model.Item{small, big},
		Boxes: []model.Box{
			model.NewBox("Large carton", 80, 60, 60, 2),
			model.NewBox("Small carton", 40, 30, 30, 0.5),
		},
		Pallets: []model.Pallet{
			model.NewPallet("EUR", 120, 80, 150, 25),
		},
	}
}

func TestConsolidate_SmallestFittingBox(t *testing.T) {
	ds := packagingDataset()
	ds.Orders = []model.Order{model.NewOrder("O1", "SMALL", 4)}

	result := Consolidate(ds, model.DefaultPlanSettings())

	require.NoError(t, result.Err())
	require.Len(t, result.Units, 1)
	u := result.Units[0]
	assert.Equal(t, "Small carton", u.Label)
	assert.Equal(t, 8.0, u.Weight)
	assert.Equal(t, 0.5, u.TareWeight)
	assert.Len(t, u.Contents, 4)
	require.Len(t, result.Outcomes, 1)
	assert.InDelta(t, 4*6000*1.15, result.Outcomes[0].Volume, 1e-6)
}

func TestConsolidate_SafetyFactorPushesToLargerBox(t *testing.T) {
	// 6 small items = 36000 cm3 fits the 36000 cm3 small carton only
	// without the inflation factor.
	ds := packagingDataset()
	ds.Orders = []model.Order{model.NewOrder("O1", "SMALL", 6)}

	result := Consolidate(ds, model.DefaultPlanSettings())

	require.Len(t, result.Units, 1)
	assert.Equal(t, "Large carton", result.Units[0].Label)
}

func TestConsolidate_LargestItemMustFit(t *testing.T) {
	// The large carton has enough volume but BIG is 100 cm long.
	ds := packagingDataset()
	ds.Orders = []model.Order{model.NewOrder("O1", "BIG", 1)}

	result := Consolidate(ds, model.DefaultPlanSettings())

	require.Len(t, result.Units, 1)
	assert.Equal(t, "EUR", result.Units[0].Label)
	assert.Equal(t, 150.0, result.Units[0].Height, "pallet height is its max height")
	assert.Equal(t, 65.0, result.Units[0].GrossWeight())
}

func TestConsolidate_NoSuitablePackaging(t *testing.T) {
	ds := packagingDataset()
	ds.Orders = []model.Order{
		model.NewOrder("O1", "BIG", 3), // 3*420000*1.15 exceeds the pallet
		model.NewOrder("O2", "SMALL", 1),
	}

	result := Consolidate(ds, model.DefaultPlanSettings())

	require.Error(t, result.Err())
	assert.True(t, errors.Is(result.Err(), ErrNoSuitablePackaging))
	require.Len(t, result.Failures, 1)

	// Failed group passes through loose, the other group is packed.
	require.Len(t, result.Units, 4)
	assert.Equal(t, "O1-BIG-1", result.Units[0].ID)
	assert.Equal(t, "Small carton", result.Units[3].Label)

	require.Len(t, result.Outcomes, 2)
	assert.NotEmpty(t, result.Outcomes[0].Err)
	assert.Empty(t, result.Outcomes[1].Err)
}

func TestConsolidate_MixItemsGroupsWholeOrder(t *testing.T) {
	ds := packagingDataset()
	ds.Orders = []model.Order{
		model.NewOrder("O1", "SMALL", 1),
		model.NewOrder("O1", "SMALL", 1),
	}

	s := model.DefaultPlanSettings()
	s.MixItems = true
	mixed := Consolidate(ds, s)
	assert.Len(t, mixed.Units, 1)
	assert.Len(t, mixed.Units[0].Contents, 2)

	s.MixItems = false
	perLine := Consolidate(ds, s)
	assert.Len(t, perLine.Units, 2)
}

func TestConsolidate_NonStackablePropagates(t *testing.T) {
	ds := packagingDataset()
	ds.Items[0].Stackable = false
	ds.Orders = []model.Order{model.NewOrder("O1", "SMALL", 1)}

	result := Consolidate(ds, model.DefaultPlanSettings())
	require.Len(t, result.Units, 1)
	assert.False(t, result.Units[0].Stackable)
}

func TestConsolidate_ReportsSkippedLines(t *testing.T) {
	ds := packagingDataset()
	ds.Orders = []model.Order{
		model.NewOrder("O1", "NOPE", 1),
		model.NewOrder("O2", "SMALL", 0.5),
	}

	result := Consolidate(ds, model.DefaultPlanSettings())
	assert.Len(t, result.Skipped, 2)
	assert.Empty(t, result.Units)
	assert.NoError(t, result.Err())
}

func TestFitsInside(t *testing.T) {
	u := model.NewUnit("u", 100, 20, 50, 1)
	assert.True(t, fitsInside(u, candidate{length: 50, width: 100, height: 20}))
	assert.False(t, fitsInside(u, candidate{length: 99, width: 100, height: 100}))
}
