package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/piwi3910/LoadPlan/internal/model"
)

var ErrNoSuitablePackaging = errors.New("no suitable packaging found")

// ConsolidationResult holds the units produced by packing order groups
// into boxes and pallets.
type ConsolidationResult struct {
	Units    []model.Unit             // Packaged units plus loose pass-through items
	Outcomes []model.PackagingOutcome // One per group, in first-seen order
	Skipped  []model.SkippedUnit      // Order lines that could not be joined
	Failures []error                  // Groups without packaging, wrapping ErrNoSuitablePackaging
}

// Err joins the per-group packaging failures, nil when every group was packed.
func (r ConsolidationResult) Err() error {
	return errors.Join(r.Failures...)
}

// candidate is a box or pallet normalized for selection.
type candidate struct {
	name      string
	length    float64
	width     float64
	height    float64
	tare      float64
	stackable bool
}

func (c candidate) volume() float64 {
	return c.length * c.width * c.height
}

type orderGroup struct {
	key   string
	units []model.Unit
}

// Consolidate groups order lines and packs each group into the smallest
// box or pallet that holds the group's volume times the safety factor and
// whose inner dimensions fit the largest item. Groups are whole orders
// when MixItems is set, single order lines otherwise. A group without a
// suitable candidate is reported and its items pass through loose.
func Consolidate(ds model.Dataset, settings model.PlanSettings) ConsolidationResult {
	lines, skipped := ds.OrderLines()
	cands := packagingCandidates(ds)
	factor := settings.EffectiveSafetyFactor()

	result := ConsolidationResult{Skipped: skipped}
	for _, g := range groupLines(lines, settings.MixItems) {
		outcome, unit, ok := packGroup(g, cands, factor)
		result.Outcomes = append(result.Outcomes, outcome)
		if !ok {
			result.Failures = append(result.Failures, fmt.Errorf("group %s: %w", g.key, ErrNoSuitablePackaging))
			result.Units = append(result.Units, g.units...)
			continue
		}
		result.Units = append(result.Units, unit)
	}

	slog.Debug("packaging consolidated",
		"groups", len(result.Outcomes),
		"failed", len(result.Failures),
		"safety_factor", factor,
	)
	return result
}

func groupLines(lines []model.OrderLine, mixItems bool) []orderGroup {
	var groups []orderGroup
	index := make(map[string]int)
	for i, l := range lines {
		key := l.Order.OrderID
		if !mixItems {
			key = fmt.Sprintf("%s#%d", l.Order.OrderID, i+1)
		}
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, orderGroup{key: key})
		}
		groups[gi].units = append(groups[gi].units, l.Units()...)
	}
	return groups
}

func packagingCandidates(ds model.Dataset) []candidate {
	var cands []candidate
	for _, b := range ds.Boxes {
		cands = append(cands, candidate{
			name: b.Name, length: b.Length, width: b.Width, height: b.Height,
			tare: b.TareWeight, stackable: true,
		})
	}
	for _, p := range ds.Pallets {
		cands = append(cands, candidate{
			name: p.Name, length: p.Length, width: p.Width, height: p.MaxHeight,
			tare: p.TareWeight, stackable: p.Stackable,
		})
	}
	valid := cands[:0]
	for _, c := range cands {
		if c.length > 0 && c.width > 0 && c.height > 0 {
			valid = append(valid, c)
		}
	}
	// Stable so equal volumes keep boxes ahead of pallets.
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].volume() < valid[j].volume()
	})
	return valid
}

func packGroup(g orderGroup, cands []candidate, factor float64) (model.PackagingOutcome, model.Unit, bool) {
	var itemVolume, weight float64
	stackable := true
	largest := g.units[0]
	contents := make([]string, 0, len(g.units))
	for _, u := range g.units {
		itemVolume += u.Volume()
		weight += u.Weight
		stackable = stackable && u.Stackable
		if u.Volume() > largest.Volume() {
			largest = u
		}
		contents = append(contents, u.ID)
	}

	outcome := model.PackagingOutcome{
		Group:  g.key,
		Items:  len(g.units),
		Volume: itemVolume * factor,
	}
	for _, c := range cands {
		if c.volume() < outcome.Volume || !fitsInside(largest, c) {
			continue
		}
		outcome.Packaging = c.name
		outcome.Capacity = c.volume()
		return outcome, model.Unit{
			ID:         fmt.Sprintf("%s-%s", g.key, c.name),
			Label:      c.name,
			Length:     c.length,
			Width:      c.width,
			Height:     c.height,
			Weight:     weight,
			TareWeight: c.tare,
			Stackable:  stackable && c.stackable,
			Contents:   contents,
		}, true
	}
	outcome.Err = ErrNoSuitablePackaging.Error()
	return outcome, model.Unit{}, false
}

// fitsInside compares sorted dimensions so the item may be turned any way.
func fitsInside(u model.Unit, c candidate) bool {
	a := []float64{u.Length, u.Width, u.Height}
	b := []float64{c.length, c.width, c.height}
	sort.Float64s(a)
	sort.Float64s(b)
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}
