// Package export writes load plans to PDF reports, QR unit labels,
// workbooks, DXF floor plans and JSON 3D scenes.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// unitColor represents an RGB color for a placed unit.
type unitColor struct {
	R, G, B int
}

// unitColors mirrors the color scheme used in the UI trailer canvas widget.
var unitColors = []unitColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// ColorIndex assigns one palette index per unit label in order of first
// appearance, so every unit of the same item shares a color.
func ColorIndex(placed []model.PlacedUnit) map[string]int {
	idx := make(map[string]int)
	for _, p := range placed {
		if _, ok := idx[p.Unit.Label]; !ok {
			idx[p.Unit.Label] = len(idx) % len(unitColors)
		}
	}
	return idx
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth       = 297.0
	pageHeight      = 210.0
	marginLeft      = 15.0
	marginRight     = 15.0
	marginTop       = 15.0
	marginBottom    = 15.0
	headerHeight    = 12.0
	drawAreaTop     = marginTop + headerHeight + 5.0
	sectionGap      = 16.0
	sectionsPerPage = 2
)

// Section returns the length of one trailer section in cm. Loads longer
// than the container are drawn as consecutive sections.
func Section(c model.Container) float64 {
	if c.Length > 0 {
		return c.Length
	}
	return model.StandardTrailerMeter * 100
}

// SectionCount returns the number of trailer sections needed to draw the load.
func SectionCount(result model.PackingResult) int {
	n := int(math.Ceil(result.RequiredLength*100/Section(result.Container) - 1e-9))
	return max(n, 1)
}

// ExportPDF generates a PDF load report: top views of each trailer section
// followed by a summary page with metrics, rows, packaging and skipped units.
func ExportPDF(path string, result model.PackingResult, settings model.PlanSettings) error {
	if len(result.PlacedUnits) == 0 {
		return fmt.Errorf("no units to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := ColorIndex(result.PlacedUnits)
	sections := SectionCount(result)
	for s := 0; s < sections; s++ {
		slot := s % sectionsPerPage
		if slot == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, result, s/sectionsPerPage+1, (sections+sectionsPerPage-1)/sectionsPerPage)
		}
		renderSection(pdf, result, colors, s, slot)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings, colors)

	return pdf.OutputFileAndClose(path)
}

func renderPageHeader(pdf *fpdf.Fpdf, result model.PackingResult, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	c := result.Container
	title := fmt.Sprintf("Load Plan: %s (%.0f x %.0f x %.0f cm)", c.Name, c.Length, c.Width, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Units: %d | Loading meters: %.2f m | Weight: %.0f kg | Trucks: %d | Page %d/%d",
		result.UnitCount, result.RequiredLength, result.TotalWeight, result.TruckCount, page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderSection draws one trailer-length slice of the load as a top view.
// Length runs left to right, width top to bottom.
func renderSection(pdf *fpdf.Fpdf, result model.PackingResult, colors map[string]int, section, slot int) {
	c := result.Container
	secLen := Section(c)
	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / secLen

	canvasW := secLen * scale
	canvasH := c.Width * scale
	offsetX := marginLeft
	offsetY := drawAreaTop + float64(slot)*(canvasH+sectionGap) + 6

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(offsetX, offsetY-6)
	pdf.CellFormat(80, 5, fmt.Sprintf("Truck %d", section+1), "", 0, "L", false, 0, "")

	// Trailer floor
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	start := float64(section) * secLen
	end := start + secLen
	for _, p := range result.PlacedUnits {
		if !p.OnFloor() || p.X < start || p.X >= end {
			continue
		}
		col := unitColors[colors[p.Unit.Label]]
		pw := p.PlacedLength() * scale
		ph := p.PlacedWidth() * scale
		px := offsetX + (p.X-start)*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 10 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := p.Unit.Label
			if labelW := pdf.GetStringWidth(label); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	// Stacked units are outlined on top of their support.
	for _, p := range result.PlacedUnits {
		if p.OnFloor() || p.X < start || p.X >= end {
			continue
		}
		px := offsetX + (p.X-start)*scale
		py := offsetY + p.Y*scale
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.SetDashPattern([]float64{1, 1}, 0)
		pdf.Rect(px+0.8, py+0.8, p.PlacedLength()*scale-1.6, p.PlacedWidth()*scale-1.6, "D")
		pdf.SetDashPattern([]float64{}, 0)
		pdf.SetFont("Helvetica", "B", 6)
		pdf.SetXY(px+1, py+1)
		pdf.CellFormat(6, 3, "+1", "", 0, "L", false, 0, "")
	}

	drawDimensionAnnotations(pdf, secLen, c.Width, offsetX, offsetY, canvasW, canvasH)
}

// drawDimensionAnnotations adds length and width labels outside the trailer outline.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, length, width, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f cm", length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f cm", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+canvasW-wLabelW, offsetY-5)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "R", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// drawUnitLegend renders one swatch per unit label.
func drawUnitLegend(pdf *fpdf.Fpdf, placed []model.PlacedUnit, colors map[string]int, startY float64) float64 {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Units:", "", 0, "L", false, 0, "")

	counts := map[string]int{}
	var order []model.Unit
	for _, p := range placed {
		if counts[p.Unit.Label] == 0 {
			order = append(order, p.Unit)
		}
		counts[p.Unit.Label]++
	}

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	for _, u := range order {
		col := unitColors[colors[u.Label]]
		label := fmt.Sprintf("%s %dx (%.0fx%.0fx%.0f)", u.Label, counts[u.Label], u.Length, u.Width, u.Height)
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
	return startY + 6
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackingResult, settings model.PlanSettings, colors map[string]int) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Units", fmt.Sprintf("%d (%d stacked)", result.UnitCount, result.StackedCount())},
		{"Total Weight", fmt.Sprintf("%.1f kg (tare %.1f kg)", result.TotalWeight, result.TareWeight)},
		{"Total Volume", fmt.Sprintf("%.2f m3", result.TotalVolume)},
		{"Loading Meters", fmt.Sprintf("%.2f m", result.RequiredLength)},
		{"Trucks", truckSummary(result.Trucks)},
		{"Settings", settingsSummary(settings)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(180, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y = drawUnitLegend(pdf, result.PlacedUnits, colors, y+3)
	y = renderRowTable(pdf, result.Rows, y+3)

	if failed := result.FailedPackaging(); len(failed) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 120, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "No suitable packaging", "", 0, "L", false, 0, "")
		y += 7
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, f := range failed {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %d items shipped loose", f.Group, f.Items), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if len(result.Skipped) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("WARNING: %d Skipped Records", len(result.Skipped)), "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, s := range result.Skipped {
			if y > pageHeight-marginBottom-8 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, fmt.Sprintf("- %s: %s", s.ID, s.Reason), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by LoadPlan - Trailer Load Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderRowTable draws the per-row breakdown, truncated to the page.
func renderRowTable(pdf *fpdf.Fpdf, rows []model.RowSummary, y float64) float64 {
	if len(rows) == 0 {
		return y
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Row Breakdown", "", 0, "L", false, 0, "")
	y += 8

	colWidths := []float64{20, 35, 35, 25, 25, 40, 40}
	headers := []string{"Row", "Offset", "Depth", "Units", "Stacked", "Used Width", "Weight"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range rows {
		if y > pageHeight-marginBottom-30 {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 6, fmt.Sprintf("... %d more rows", len(rows)-i), "", 0, "L", false, 0, "")
			return y + 6
		}
		rowData := []string{
			fmt.Sprintf("%d", r.Index+1),
			fmt.Sprintf("%.0f cm", r.X),
			fmt.Sprintf("%.0f cm", r.Depth),
			fmt.Sprintf("%d", r.Units),
			fmt.Sprintf("%d", r.Stacked),
			fmt.Sprintf("%.0f cm", r.UsedWidth),
			fmt.Sprintf("%.1f kg", r.Weight),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

func truckSummary(t model.TruckEstimate) string {
	s := fmt.Sprintf("%d (by length %d", t.Trucks, t.ByLength)
	if t.MaxWeight > 0 {
		s += fmt.Sprintf(", by weight %d", t.ByWeight)
	}
	s += ")"
	if t.WeightBound {
		s += " weight bound"
	}
	return s
}

func settingsSummary(s model.PlanSettings) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("rotate %s, stack %s (%s), mix items %s, consolidate %s, row fill %s, spacing %.0f cm",
		onOff(s.Rotate), onOff(s.Stack), s.EffectiveStackPolicy(), onOff(s.MixItems),
		onOff(s.Consolidate), onOff(s.FillRows), s.Spacing)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 8
	case minDim > 10:
		return 7
	default:
		return 5
	}
}
