package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/piwi3910/LoadPlan/internal/model"
)

var (
	ErrInvalidContainer = errors.New("invalid container")
	ErrInvalidSettings  = errors.New("invalid plan settings")
)

// Planner runs the shelf placement heuristic. It holds only read-only
// configuration; all cursors live inside a single Plan call, so one
// Planner may be shared between goroutines.
type Planner struct {
	Container model.Container
	Settings  model.PlanSettings
}

func New(container model.Container, settings model.PlanSettings) *Planner {
	return &Planner{Container: container, Settings: settings}
}

// Plan places units row by row in input order and returns the packing
// result. Malformed units are listed in the result's Skipped records and
// the remaining units are still placed. An error is returned only for an
// invalid container or invalid settings, together with a zero result.
func (p *Planner) Plan(units []model.Unit) (model.PackingResult, error) {
	if err := p.Container.Validate(); err != nil {
		return model.PackingResult{}, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	if err := p.Settings.Validate(); err != nil {
		return model.PackingResult{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	valid, skipped := p.filterUnits(units)
	s := newShelf(p.Container, p.Settings)
	for i := range valid {
		s.place(valid, i)
	}

	result := Aggregate(s.placed, p.Container)
	setLength(&result, (s.x+s.rowDepth)/100.0, p.Container)
	result.Skipped = skipped

	slog.Debug("load plan computed",
		"container", p.Container.Name,
		"units", result.UnitCount,
		"skipped", len(skipped),
		"stacked", result.StackedCount(),
		"rows", len(result.Rows),
		"loading_meters", result.RequiredLength,
		"trucks", result.TruckCount,
	)
	return result, nil
}

// filterUnits separates placeable units from malformed ones and enforces
// the unit cap.
func (p *Planner) filterUnits(units []model.Unit) ([]model.Unit, []model.SkippedUnit) {
	valid := make([]model.Unit, 0, len(units))
	var skipped []model.SkippedUnit
	for _, u := range units {
		if err := u.Validate(); err != nil {
			skipped = append(skipped, model.SkippedUnit{ID: u.ID, Reason: err.Error()})
			continue
		}
		if p.Settings.MaxUnits > 0 && len(valid) >= p.Settings.MaxUnits {
			skipped = append(skipped, model.SkippedUnit{
				ID:     u.ID,
				Reason: fmt.Sprintf("unit limit of %d reached", p.Settings.MaxUnits),
			})
			continue
		}
		valid = append(valid, u)
	}
	return valid, skipped
}

// shelf carries the per-call placement state.
type shelf struct {
	container model.Container
	settings  model.PlanSettings
	spacing   float64

	x, y, rowDepth float64
	row            int
	rowFloor       int // Floor units in the current row

	placed []model.PlacedUnit
	topped []bool // topped[i] reports whether placed[i] carries a unit

	// Row-fill refinement: units before runEnd use runRotated.
	runEnd     int
	runRotated bool
}

func newShelf(c model.Container, s model.PlanSettings) *shelf {
	return &shelf{container: c, settings: s, spacing: s.Spacing}
}

func (s *shelf) place(units []model.Unit, i int) {
	u := units[i]

	rotated := s.orient(u)
	if s.settings.FillRows && i < s.runEnd {
		rotated = s.runRotated
	}
	l, w := dims(u, rotated)

	if s.rowFloor > 0 && s.y+w > s.container.Width {
		s.x += s.rowDepth + s.spacing
		s.y = 0
		s.rowDepth = 0
		s.row++
		s.rowFloor = 0
	}

	if s.settings.FillRows && s.rowFloor == 0 {
		s.chooseRun(units, i)
		rotated = s.runRotated
		l, w = dims(u, rotated)
	}

	if s.tryStack(u, rotated, l) {
		return
	}

	s.placed = append(s.placed, model.PlacedUnit{
		Unit:         u,
		X:            s.x,
		Y:            s.y,
		Z:            0,
		Rotated:      rotated,
		Row:          s.row,
		SupportIndex: -1,
	})
	s.topped = append(s.topped, false)
	s.y += w + s.spacing
	s.rowDepth = max(s.rowDepth, l)
	s.rowFloor++
}

// orient returns the greedy per-unit rotation decision.
func (s *shelf) orient(u model.Unit) bool {
	return s.settings.Rotate && u.Length > u.Width && u.Length <= s.container.Width
}

// chooseRun picks one orientation for the run of identical units starting
// at index i, preferring the one that fits more units across the width.
// Ties keep the greedy orientation.
func (s *shelf) chooseRun(units []model.Unit, i int) {
	u := units[i]
	end := i + 1
	for end < len(units) && sameFootprint(units[end], u) {
		end++
	}
	run := end - i

	greedy := s.orient(u)
	best := greedy
	if s.settings.Rotate {
		_, wg := dims(u, greedy)
		_, wa := dims(u, !greedy)
		if s.acrossFit(wa, run) > s.acrossFit(wg, run) {
			best = !greedy
		}
	}
	s.runEnd = end
	s.runRotated = best
}

// acrossFit returns how many units of width w fit side by side, capped
// at the run length.
func (s *shelf) acrossFit(w float64, run int) int {
	if w > s.container.Width {
		return 0
	}
	n := 1 + int((s.container.Width-w)/(w+s.spacing))
	return min(n, run)
}

// tryStack places u on top of the first eligible floor unit of the
// current row. It reports whether the unit was stacked.
func (s *shelf) tryStack(u model.Unit, rotated bool, l float64) bool {
	if !s.settings.Stack || !u.Stackable || s.container.Height <= 0 {
		return false
	}
	for idx := range s.placed {
		base := s.placed[idx]
		if base.Row != s.row || !base.OnFloor() || s.topped[idx] || !base.Unit.Stackable {
			continue
		}
		if base.Unit.Height+u.Height > s.container.Height {
			continue
		}
		s.placed = append(s.placed, model.PlacedUnit{
			Unit:         u,
			X:            base.X,
			Y:            base.Y,
			Z:            base.Unit.Height,
			Rotated:      rotated,
			Row:          s.row,
			SupportIndex: idx,
		})
		s.topped[idx] = true
		s.topped = append(s.topped, true) // Two tiers only
		if s.settings.EffectiveStackPolicy() == model.StackRowDepth {
			s.rowDepth = max(s.rowDepth, l)
		}
		return true
	}
	return false
}

func dims(u model.Unit, rotated bool) (l, w float64) {
	if rotated {
		return u.Width, u.Length
	}
	return u.Length, u.Width
}

func sameFootprint(a, b model.Unit) bool {
	return a.Length == b.Length && a.Width == b.Width && a.Height == b.Height && a.Stackable == b.Stackable
}

// PlanDataset joins the dataset's orders with its items, optionally packs
// them into boxes and pallets first, and places the resulting units.
// Skipped order lines are reported ahead of skipped units.
func (p *Planner) PlanDataset(ds model.Dataset) (model.PackingResult, error) {
	var units []model.Unit
	var skipped []model.SkippedUnit
	var outcomes []model.PackagingOutcome
	if p.Settings.Consolidate {
		cr := Consolidate(ds, p.Settings)
		units, skipped, outcomes = cr.Units, cr.Skipped, cr.Outcomes
	} else {
		units, skipped = ds.ExpandOrders()
	}

	result, err := p.Plan(units)
	if err != nil {
		return result, err
	}
	result.Skipped = append(skipped, result.Skipped...)
	result.Packaging = outcomes
	return result, nil
}
