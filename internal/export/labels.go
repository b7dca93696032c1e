package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LoadPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each unit label's QR code.
type LabelInfo struct {
	UnitID   string   `json:"id"`
	Label    string   `json:"label"`
	Length   float64  `json:"length_cm"`
	Width    float64  `json:"width_cm"`
	Height   float64  `json:"height_cm"`
	Weight   float64  `json:"weight_kg"`
	Truck    int      `json:"truck"`
	Row      int      `json:"row"`
	X        float64  `json:"x_cm"`
	Y        float64  `json:"y_cm"`
	Z        float64  `json:"z_cm"`
	Rotated  bool     `json:"rotated"`
	Contents []string `json:"contents,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placed unit,
// in loading order. Each QR code encodes the unit's LabelInfo as JSON so
// warehouse staff can scan where a unit goes.
func ExportLabels(path string, result model.PackingResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no units placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.UnitID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.UnitID, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%s  %.0fx%.0fx%.0f cm", info.Label, info.Length, info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, truncate(pdf, dims, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.1f kg", info.Weight), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13)
	pos := fmt.Sprintf("Truck %d Row %d @ (%.0f, %.0f)", info.Truck, info.Row+1, info.X, info.Y)
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	if info.Z > 0 {
		pdf.SetXY(textX, y+labelPadding+16.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Stacked at %.0f cm", info.Z), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos extracts label information from a packing result
// for use in testing or alternative export formats.
func CollectLabelInfos(result model.PackingResult) []LabelInfo {
	secLen := Section(result.Container)
	labels := make([]LabelInfo, 0, len(result.PlacedUnits))
	for _, p := range result.PlacedUnits {
		truck := int(math.Floor(p.X/secLen)) + 1
		labels = append(labels, LabelInfo{
			UnitID:   p.Unit.ID,
			Label:    p.Unit.Label,
			Length:   p.Unit.Length,
			Width:    p.Unit.Width,
			Height:   p.Unit.Height,
			Weight:   p.Unit.GrossWeight(),
			Truck:    truck,
			Row:      p.Row,
			X:        p.X - float64(truck-1)*secLen,
			Y:        p.Y,
			Z:        p.Z,
			Rotated:  p.Rotated,
			Contents: p.Unit.Contents,
		})
	}
	return labels
}
