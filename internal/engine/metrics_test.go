package engine

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedAt(id string, row int, x, y, z float64, support int, l, w, weight float64) model.PlacedUnit {
	return model.PlacedUnit{
		Unit:         model.NewUnit(id, l, w, 100, weight),
		X:            x,
		Y:            y,
		Z:            z,
		Row:          row,
		SupportIndex: support,
	}
}

func TestAggregate_RowsAndTotals(t *testing.T) {
	p := []model.PlacedUnit{
		placedAt("A", 0, 0, 0, 0, -1, 120, 80, 100),
		placedAt("B", 0, 0, 82, 0, -1, 120, 80, 100),
		placedAt("C", 0, 0, 0, 100, 0, 120, 80, 50),
		placedAt("D", 1, 122, 0, 0, -1, 100, 80, 100),
	}

	r := Aggregate(p, testContainer(245))

	assert.Equal(t, 4, r.UnitCount)
	assert.InDelta(t, 350, r.TotalWeight, 1e-9)
	assert.InDelta(t, 3.68, r.TotalVolume, 1e-9)
	assert.InDelta(t, 2.22, r.RequiredLength, 1e-9)
	assert.InDelta(t, 2.22, r.OccupiedLength, 1e-9)
	assert.Equal(t, 1, r.TruckCount)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, 3, r.Rows[0].Units)
	assert.Equal(t, 1, r.Rows[0].Stacked)
	assert.InDelta(t, 120, r.Rows[0].Depth, 1e-9)
	assert.InDelta(t, 162, r.Rows[0].UsedWidth, 1e-9)
	assert.InDelta(t, 122, r.Rows[1].X, 1e-9)
	assert.InDelta(t, 100, r.Rows[1].Depth, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil, testContainer(245))

	assert.Equal(t, 0, r.UnitCount)
	assert.Zero(t, r.RequiredLength)
	assert.Zero(t, r.TruckCount)
	assert.NotNil(t, r.PlacedUnits)
	assert.Empty(t, r.Rows)
}

func TestAggregate_OverflowClampsOccupiedOnly(t *testing.T) {
	p := []model.PlacedUnit{placedAt("A", 0, 1400, 0, 0, -1, 120, 80, 100)}

	r := Aggregate(p, testContainer(245))

	assert.InDelta(t, 15.2, r.RequiredLength, 1e-9)
	assert.InDelta(t, 13.6, r.OccupiedLength, 1e-9)
	assert.Equal(t, 2, r.TruckCount)
}
