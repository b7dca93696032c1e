package engine

import (
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Aggregate reduces placed units to the headline planning figures.
// Loading meters are derived from the floor footprint: the far edge of
// the deepest floor unit. Stacked units count individually toward
// weight, volume and unit count.
func Aggregate(placed []model.PlacedUnit, container model.Container) model.PackingResult {
	result := model.PackingResult{
		Container:   container,
		PlacedUnits: placed,
		UnitCount:   len(placed),
	}
	if result.PlacedUnits == nil {
		result.PlacedUnits = []model.PlacedUnit{}
	}

	var volumeCm3, far float64
	rowIndex := make(map[int]int)
	for _, p := range placed {
		result.TotalWeight += p.Unit.GrossWeight()
		result.TareWeight += p.Unit.TareWeight
		volumeCm3 += p.Unit.Volume()

		ri, ok := rowIndex[p.Row]
		if !ok {
			ri = len(result.Rows)
			rowIndex[p.Row] = ri
			result.Rows = append(result.Rows, model.RowSummary{Index: p.Row, X: p.X})
		}
		row := &result.Rows[ri]
		row.Units++
		row.Weight += p.Unit.GrossWeight()
		if !p.OnFloor() {
			row.Stacked++
			continue
		}
		row.X = min(row.X, p.X)
		row.Depth = max(row.Depth, p.PlacedLength())
		row.UsedWidth = max(row.UsedWidth, p.Y+p.PlacedWidth())
		far = max(far, p.X+p.PlacedLength())
	}
	result.TotalVolume = volumeCm3 / 1e6

	setLength(&result, far/100.0, container)
	return result
}

// setLength records the loading meters and the resulting truck estimate.
// The estimate uses the unclamped length so overflowing loads still ask
// for more than one truck.
func setLength(r *model.PackingResult, required float64, c model.Container) {
	if r.UnitCount == 0 {
		required = 0
	}
	r.RequiredLength = required
	r.OccupiedLength = required
	if c.Length > 0 {
		r.OccupiedLength = min(required, c.LengthMeters())
	}
	r.Trucks = model.EstimateTrucks(required, r.TotalWeight, c)
	r.TruckCount = r.Trucks.Trucks
}
