package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidDimensions = errors.New("dimensions must be positive")
	ErrInvalidWeight     = errors.New("weight must be a non-negative number")
)

// Unit represents one discrete physical object to be loaded: an item
// instance, a box or a pallet. All lengths are in cm, weights in kg.
type Unit struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Length     float64  `json:"length"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Weight     float64  `json:"weight"`                // Net cargo weight
	TareWeight float64  `json:"tare_weight,omitempty"` // Packaging tare, zero for loose items
	Stackable  bool     `json:"stackable"`
	Contents   []string `json:"contents,omitempty"` // Item IDs packed inside a box or pallet
}

func NewUnit(id string, l, w, h, weight float64) Unit {
	return Unit{
		ID:        id,
		Label:     id,
		Length:    l,
		Width:     w,
		Height:    h,
		Weight:    weight,
		Stackable: true,
	}
}

// UnmarshalJSON decodes a unit, defaulting Stackable to true when the
// field is absent.
func (u *Unit) UnmarshalJSON(data []byte) error {
	type plain Unit
	p := plain{Stackable: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = Unit(p)
	return nil
}

// Volume returns the unit volume in cubic centimeters.
func (u Unit) Volume() float64 {
	return u.Length * u.Width * u.Height
}

// GrossWeight returns cargo weight plus packaging tare.
func (u Unit) GrossWeight() float64 {
	return u.Weight + u.TareWeight
}

// Validate reports whether the unit can be placed.
func (u Unit) Validate() error {
	for _, d := range []float64{u.Length, u.Width, u.Height} {
		if !isFinite(d) || d <= 0 {
			return fmt.Errorf("unit %q: %w (%.1f x %.1f x %.1f)", u.ID, ErrInvalidDimensions, u.Length, u.Width, u.Height)
		}
	}
	if !isFinite(u.Weight) || u.Weight < 0 || !isFinite(u.TareWeight) || u.TareWeight < 0 {
		return fmt.Errorf("unit %q: %w", u.ID, ErrInvalidWeight)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PlacedUnit is a Unit annotated with its computed position inside the
// container. X runs along the trailer length, Y across its width.
type PlacedUnit struct {
	Unit         Unit    `json:"unit"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"` // Base height, 0 at floor level
	Rotated      bool    `json:"rotated"`
	Row          int     `json:"row"`
	SupportIndex int     `json:"support_index"` // Index of the unit underneath, -1 on the floor
}

// PlacedLength returns the length along the trailer after rotation.
func (p PlacedUnit) PlacedLength() float64 {
	if p.Rotated {
		return p.Unit.Width
	}
	return p.Unit.Length
}

// PlacedWidth returns the width across the trailer after rotation.
func (p PlacedUnit) PlacedWidth() float64 {
	if p.Rotated {
		return p.Unit.Length
	}
	return p.Unit.Width
}

// BaseHeight returns the z-offset of the unit.
func (p PlacedUnit) BaseHeight() float64 {
	return p.Z
}

// Top returns the height of the unit's upper face.
func (p PlacedUnit) Top() float64 {
	return p.Z + p.Unit.Height
}

func (p PlacedUnit) OnFloor() bool {
	return p.SupportIndex < 0
}

// SkippedUnit records an input unit or record that could not be planned.
type SkippedUnit struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// RowSummary aggregates one shelf row of the load plan.
type RowSummary struct {
	Index     int     `json:"index"`
	X         float64 `json:"x"`     // Offset of the row along the trailer (cm)
	Depth     float64 `json:"depth"` // Longest placed length in the row (cm)
	Units     int     `json:"units"`
	Stacked   int     `json:"stacked"`
	Weight    float64 `json:"weight"`
	UsedWidth float64 `json:"used_width"` // Floor width consumed including spacing (cm)
}

// PackingResult holds the aggregate output of one planning run.
type PackingResult struct {
	Container      Container          `json:"container"`
	TotalWeight    float64            `json:"total_weight"` // kg, gross
	TareWeight     float64            `json:"tare_weight"`  // kg
	TotalVolume    float64            `json:"total_volume"` // m3
	UnitCount      int                `json:"unit_count"`
	OccupiedLength float64            `json:"occupied_length"` // loading meters, clamped to container length
	RequiredLength float64            `json:"required_length"` // loading meters, unclamped
	TruckCount     int                `json:"truck_count"`
	Trucks         TruckEstimate      `json:"trucks"`
	Rows           []RowSummary       `json:"rows"`
	PlacedUnits    []PlacedUnit       `json:"placed_units"`
	Skipped        []SkippedUnit      `json:"skipped,omitempty"`
	Packaging      []PackagingOutcome `json:"packaging,omitempty"`
}

// ResultStatus distinguishes the shapes a PackingResult can take.
type ResultStatus int

const (
	StatusEmpty   ResultStatus = iota // No valid units were submitted
	StatusPartial                     // Some units were skipped
	StatusOK                          // Every unit was placed
)

func (s ResultStatus) String() string {
	switch s {
	case StatusPartial:
		return "partial"
	case StatusOK:
		return "ok"
	default:
		return "empty"
	}
}

func (r PackingResult) Status() ResultStatus {
	switch {
	case r.UnitCount == 0:
		return StatusEmpty
	case len(r.Skipped) > 0:
		return StatusPartial
	default:
		return StatusOK
	}
}

// SkippedCount returns the number of units that were not placed.
func (r PackingResult) SkippedCount() int {
	return len(r.Skipped)
}

// StackedCount returns the number of units resting on another unit.
func (r PackingResult) StackedCount() int {
	n := 0
	for _, p := range r.PlacedUnits {
		if !p.OnFloor() {
			n++
		}
	}
	return n
}

// Units returns the source units of the placed units in placement order.
func (r PackingResult) Units() []Unit {
	units := make([]Unit, len(r.PlacedUnits))
	for i, p := range r.PlacedUnits {
		units[i] = p.Unit
	}
	return units
}

// FailedPackaging returns the packaging groups that found no box or pallet.
func (r PackingResult) FailedPackaging() []PackagingOutcome {
	var failed []PackagingOutcome
	for _, p := range r.Packaging {
		if p.Err != "" {
			failed = append(failed, p)
		}
	}
	return failed
}

// PackagingOutcome reports how one order group was consolidated.
type PackagingOutcome struct {
	Group     string  `json:"group"`
	Packaging string  `json:"packaging,omitempty"` // Chosen box or pallet name
	Items     int     `json:"items"`
	Volume    float64 `json:"volume"`   // Required volume incl. safety factor (cm3)
	Capacity  float64 `json:"capacity"` // Volume of the chosen packaging (cm3)
	Err       string  `json:"error,omitempty"`
}
