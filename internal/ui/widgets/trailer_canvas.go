package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Unit colors, assigned per unit label in first-seen order.
var unitColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

// TrailerCanvas renders the top view of one trailer-length section of a
// load plan. The trailer length runs left to right.
type TrailerCanvas struct {
	widget.BaseWidget
	result    model.PackingResult
	section   int
	colors    map[string]int
	maxWidth  float32
	maxHeight float32
}

func NewTrailerCanvas(result model.PackingResult, section int, maxW, maxH float32) *TrailerCanvas {
	tc := &TrailerCanvas{
		result:    result,
		section:   section,
		colors:    export.ColorIndex(result.PlacedUnits),
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	tc.ExtendBaseWidget(tc)
	return tc
}

func (tc *TrailerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newTrailerCanvasRenderer(tc)
}

func (tc *TrailerCanvas) scale() float32 {
	secLen := float32(export.Section(tc.result.Container))
	width := float32(tc.result.Container.Width)
	return float32(math.Min(float64(tc.maxWidth/secLen), float64(tc.maxHeight/width)))
}

type trailerCanvasRenderer struct {
	tc      *TrailerCanvas
	objects []fyne.CanvasObject
}

func newTrailerCanvasRenderer(tc *TrailerCanvas) *trailerCanvasRenderer {
	r := &trailerCanvasRenderer{tc: tc}
	r.rebuild()
	return r
}

func (r *trailerCanvasRenderer) rebuild() {
	r.objects = nil

	c := r.tc.result.Container
	secLen := export.Section(c)
	offset := float64(r.tc.section) * secLen
	scale := r.tc.scale()
	canvasW := float32(secLen) * scale
	canvasH := float32(c.Width) * scale

	floor := canvas.NewRectangle(color.NRGBA{R: 224, G: 224, B: 224, A: 255})
	floor.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, floor)

	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	outline.StrokeWidth = 2
	outline.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, outline)

	for _, p := range r.tc.result.PlacedUnits {
		if p.X < offset || p.X >= offset+secLen {
			continue
		}
		l := math.Min(p.PlacedLength(), offset+secLen-p.X)
		px := float32(p.X-offset) * scale
		py := float32(p.Y) * scale
		pw := float32(l) * scale
		ph := float32(p.PlacedWidth()) * scale

		col := unitColors[r.tc.colors[p.Unit.Label]%len(unitColors)]
		if !p.OnFloor() {
			// Stacked units are drawn inset over their support.
			const inset = 4
			px, py, pw, ph = px+inset, py+inset, pw-2*inset, ph-2*inset
			col.A = 255
		}

		rect := canvas.NewRectangle(col)
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, rect)

		if pw > 30 && ph > 16 {
			text := p.Unit.Label
			if !p.OnFloor() {
				text = "+1 " + text
			}
			label := canvas.NewText(text, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *trailerCanvasRenderer) Layout(size fyne.Size)        {}
func (r *trailerCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *trailerCanvasRenderer) Destroy()                     {}
func (r *trailerCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *trailerCanvasRenderer) MinSize() fyne.Size {
	c := r.tc.result.Container
	scale := r.tc.scale()
	return fyne.NewSize(float32(export.Section(c))*scale, float32(c.Width)*scale)
}

// RenderPlanResults creates a scrollable view of a load plan: one canvas
// per trailer section, a row breakdown and the metrics summary.
func RenderPlanResults(result *model.PackingResult) fyne.CanvasObject {
	if result == nil || result.UnitCount == 0 {
		msg := "No plan yet. Import a workbook or add items and orders, then click Plan."
		if result != nil && result.SkippedCount() > 0 {
			msg = fmt.Sprintf("No units could be placed. %d records were skipped.", result.SkippedCount())
		}
		return widget.NewLabel(msg)
	}

	var items []fyne.CanvasObject

	sections := export.SectionCount(*result)
	for s := 0; s < sections; s++ {
		header := widget.NewLabel(SectionHeader(*result, s))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewTrailerCanvas(*result, s, 900, 220), widget.NewSeparator())
	}

	if lines := RowBreakdown(*result); len(lines) > 0 {
		h := widget.NewLabel("Rows:")
		h.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, h)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
		items = append(items, widget.NewSeparator())
	}

	for _, f := range result.FailedPackaging() {
		warning := widget.NewLabel(fmt.Sprintf("Packaging %s: %s (loaded as loose items)", f.Group, f.Err))
		warning.Importance = widget.WarningImportance
		items = append(items, warning)
	}

	for _, line := range SummaryLines(*result) {
		l := widget.NewLabel(line)
		l.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, l)
	}

	return container.NewVScroll(container.NewVBox(items...))
}

// SectionHeader describes the units in one trailer section.
func SectionHeader(r model.PackingResult, section int) string {
	secLen := export.Section(r.Container)
	lo, hi := float64(section)*secLen, float64(section+1)*secLen
	units, stacked := 0, 0
	weight := 0.0
	for _, p := range r.PlacedUnits {
		if p.X < lo || p.X >= hi {
			continue
		}
		units++
		weight += p.Unit.GrossWeight()
		if !p.OnFloor() {
			stacked++
		}
	}
	return fmt.Sprintf("Truck %d: %s (%.0f x %.0f cm), %d units (%d stacked), %.0f kg",
		section+1, r.Container.Name, secLen, r.Container.Width, units, stacked, weight)
}

// RowBreakdown returns one line per shelf row.
func RowBreakdown(r model.PackingResult) []string {
	lines := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		lines = append(lines, fmt.Sprintf(
			"  Row %d @ %.0f cm: depth %.0f cm, %d units (%d stacked), width %.0f / %.0f cm, %.0f kg",
			row.Index+1, row.X, row.Depth, row.Units, row.Stacked, row.UsedWidth, r.Container.Width, row.Weight,
		))
	}
	return lines
}

// SummaryLines returns the headline metrics of a plan.
func SummaryLines(r model.PackingResult) []string {
	lines := []string{
		fmt.Sprintf("Loading meters: %.2f m (occupied %.2f m of %.2f m)",
			r.RequiredLength, r.OccupiedLength, r.Trucks.TrailerMeters),
		fmt.Sprintf("Trucks: %d (by length %d, by weight %d)", r.TruckCount, r.Trucks.ByLength, r.Trucks.ByWeight),
		fmt.Sprintf("Units: %d, stacked %d, weight %.1f kg (tare %.1f kg), volume %.2f m3",
			r.UnitCount, r.StackedCount(), r.TotalWeight, r.TareWeight, r.TotalVolume),
	}
	if n := r.SkippedCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("WARNING: %d records were skipped", n))
	}
	return lines
}
