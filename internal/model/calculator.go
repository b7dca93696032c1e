package model

import "math"

// TruckEstimate holds the results of a truck count calculation.
type TruckEstimate struct {
	LoadingMeters  float64 `json:"loading_meters"`  // Required loading meters
	TrailerMeters  float64 `json:"trailer_meters"`  // Loading meters of one truck
	TotalWeight    float64 `json:"total_weight"`    // kg
	MaxWeight      float64 `json:"max_weight"`      // kg per truck, 0 if not configured
	ByLength       int     `json:"by_length"`       // Trucks needed for the loading meters
	ByWeight       int     `json:"by_weight"`       // Trucks needed for the payload, 0 without MaxWeight
	Trucks         int     `json:"trucks"`          // max(ByLength, ByWeight)
	WeightBound    bool    `json:"weight_bound"`    // Weight forced more trucks than length
	LengthFraction float64 `json:"length_fraction"` // Exact fractional truck count by length
}

// ceilTolerance absorbs float noise such as 27.2/13.6 = 2.0000000000000004.
const ceilTolerance = 1e-9

func ceilDiv(a, b float64) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	return int(math.Ceil(a/b - ceilTolerance))
}

// EstimateTrucks computes how many trucks are needed for the given loading
// meters and gross weight. Without a container length the standard 13.6 m
// trailer is assumed; the weight bound only applies when MaxWeight is set.
func EstimateTrucks(loadingMeters, totalWeight float64, c Container) TruckEstimate {
	trailer := StandardTrailerMeter
	if c.Length > 0 {
		trailer = c.LengthMeters()
	}

	est := TruckEstimate{
		LoadingMeters: loadingMeters,
		TrailerMeters: trailer,
		TotalWeight:   totalWeight,
		MaxWeight:     c.MaxWeight,
	}
	if loadingMeters <= 0 {
		return est
	}

	est.LengthFraction = loadingMeters / trailer
	est.ByLength = ceilDiv(loadingMeters, trailer)
	if c.MaxWeight > 0 {
		est.ByWeight = ceilDiv(totalWeight, c.MaxWeight)
	}

	est.Trucks = est.ByLength
	if est.ByWeight > est.Trucks {
		est.Trucks = est.ByWeight
		est.WeightBound = true
	}
	return est
}
