package export

import (
	"fmt"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerTrailer = "TRAILER"
	LayerFloor   = "FLOOR_UNITS"
	LayerStacked = "STACKED_UNITS"
	LayerLabels  = "LABELS"
)

// ExportDXF writes the floor plan of a load as a DXF drawing in cm. The
// trailer outline is repeated for every truck section; floor units and
// stacked units are drawn on separate layers, stacked units at their
// base height.
func ExportDXF(path string, result model.PackingResult) error {
	if len(result.PlacedUnits) == 0 {
		return fmt.Errorf("no units to export")
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerTrailer, color.White},
		{LayerFloor, color.Green},
		{LayerStacked, color.Cyan},
		{LayerLabels, color.Yellow},
	} {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	c := result.Container
	secLen := Section(c)
	if err := d.ChangeLayer(LayerTrailer); err != nil {
		return err
	}
	for s := 0; s < SectionCount(result); s++ {
		if err := dxfRect(d, float64(s)*secLen, 0, 0, secLen, c.Width); err != nil {
			return err
		}
	}

	for _, p := range result.PlacedUnits {
		layer := LayerFloor
		if !p.OnFloor() {
			layer = LayerStacked
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		if err := dxfRect(d, p.X, p.Y, p.Z, p.PlacedLength(), p.PlacedWidth()); err != nil {
			return fmt.Errorf("failed to draw unit %s: %w", p.Unit.ID, err)
		}

		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		h := min(p.PlacedWidth()/6, 8)
		if _, err := d.Text(p.Unit.ID, p.X+2, p.Y+2, p.Top(), h); err != nil {
			return fmt.Errorf("failed to label unit %s: %w", p.Unit.ID, err)
		}
	}

	return d.SaveAs(path)
}

// dxfRect draws an axis-aligned rectangle as four lines at height z.
func dxfRect(d *drawing.Drawing, x, y, z, l, w float64) error {
	corners := [][2]float64{{x, y}, {x + l, y}, {x + l, y + w}, {x, y + w}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], z, b[0], b[1], z); err != nil {
			return err
		}
	}
	return nil
}
