package export

import (
	"fmt"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names written by the workbook exporter. They match the names the
// importer looks for first.
const (
	SheetItems    = "Items"
	SheetOrders   = "Orders"
	SheetBoxes    = "Boxes"
	SheetPallets  = "Pallets"
	SheetLoadPlan = "Load Plan"
	SheetSummary  = "Summary"
)

var (
	itemHeaders     = []interface{}{"ItemNr", "Length", "Width", "Height", "Weight", "Stackable"}
	orderHeaders    = []interface{}{"OrderNr", "ItemNr", "Quantity"}
	boxHeaders      = []interface{}{"Name", "Length", "Width", "Height", "Tare"}
	palletHeaders   = []interface{}{"Name", "Length", "Width", "Max Height", "Tare", "Stackable"}
	loadPlanHeaders = []interface{}{"Unit", "Label", "Row", "X", "Y", "Z", "Length", "Width", "Height", "Weight", "Tare", "Rotated", "Stacked On"}
)

// ExportWorkbook writes the dataset's four record sets to an xlsx file.
// When result is non-nil the placed units and a metrics summary are
// written to two extra sheets.
func ExportWorkbook(path string, ds model.Dataset, result *model.PackingResult) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f}
	w.sheet(SheetItems, itemHeaders, len(ds.Items), func(i int) []interface{} {
		it := ds.Items[i]
		return []interface{}{it.ID, it.Length, it.Width, it.Height, it.Weight, yesNo(it.Stackable)}
	})
	w.sheet(SheetOrders, orderHeaders, len(ds.Orders), func(i int) []interface{} {
		o := ds.Orders[i]
		return []interface{}{o.OrderID, o.ItemID, o.Quantity}
	})
	w.sheet(SheetBoxes, boxHeaders, len(ds.Boxes), func(i int) []interface{} {
		b := ds.Boxes[i]
		return []interface{}{b.Name, b.Length, b.Width, b.Height, b.TareWeight}
	})
	w.sheet(SheetPallets, palletHeaders, len(ds.Pallets), func(i int) []interface{} {
		p := ds.Pallets[i]
		return []interface{}{p.Name, p.Length, p.Width, p.MaxHeight, p.TareWeight, yesNo(p.Stackable)}
	})

	if result != nil {
		placed := result.PlacedUnits
		w.sheet(SheetLoadPlan, loadPlanHeaders, len(placed), func(i int) []interface{} {
			p := placed[i]
			support := ""
			if !p.OnFloor() {
				support = placed[p.SupportIndex].Unit.ID
			}
			return []interface{}{
				p.Unit.ID, p.Unit.Label, p.Row + 1, p.X, p.Y, p.Z,
				p.PlacedLength(), p.PlacedWidth(), p.Unit.Height,
				p.Unit.Weight, p.Unit.TareWeight, yesNo(p.Rotated), support,
			}
		})
		summary := summaryRows(*result)
		w.sheet(SheetSummary, []interface{}{"Metric", "Value"}, len(summary), func(i int) []interface{} {
			return summary[i]
		})
	}

	if w.err != nil {
		return w.err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ExportTemplate writes an empty workbook with the four headed sheets and
// one example row per sheet.
func ExportTemplate(path string) error {
	ds := model.Dataset{
		Items:   []model.Item{model.NewItem("ITEM-1", 120, 80, 100, 250)},
		Orders:  []model.Order{model.NewOrder("ORDER-1", "ITEM-1", 2)},
		Boxes:   []model.Box{model.NewBox("Carton L", 60, 40, 40, 1)},
		Pallets: []model.Pallet{model.NewPallet("EUR pallet", 120, 80, 180, 25)},
	}
	return ExportWorkbook(path, ds, nil)
}

// sheetWriter keeps the first error across several sheet writes.
type sheetWriter struct {
	f     *excelize.File
	style int
	err   error
}

func (w *sheetWriter) sheet(name string, headers []interface{}, n int, row func(int) []interface{}) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to create sheet %q: %w", name, err)
		return
	}
	if w.style == 0 {
		style, err := w.f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
		})
		if err != nil {
			w.err = fmt.Errorf("failed to create header style: %w", err)
			return
		}
		w.style = style
	}

	if err := w.f.SetSheetRow(name, "A1", &headers); err != nil {
		w.err = fmt.Errorf("failed to write %s header: %w", name, err)
		return
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := w.f.SetCellStyle(name, "A1", last+"1", w.style); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", name, err)
		return
	}
	if err := w.f.SetColWidth(name, "A", last, 14); err != nil {
		w.err = fmt.Errorf("failed to size %s columns: %w", name, err)
		return
	}

	for i := 0; i < n; i++ {
		values := row(i)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(name, cell, &values); err != nil {
			w.err = fmt.Errorf("failed to write %s row %d: %w", name, i+2, err)
			return
		}
	}
}

func summaryRows(r model.PackingResult) [][]interface{} {
	rows := [][]interface{}{
		{"Container", r.Container.Name},
		{"Units", r.UnitCount},
		{"Stacked units", r.StackedCount()},
		{"Skipped records", r.SkippedCount()},
		{"Total weight (kg)", r.TotalWeight},
		{"Tare weight (kg)", r.TareWeight},
		{"Total volume (m3)", r.TotalVolume},
		{"Loading meters", r.RequiredLength},
		{"Occupied length (m)", r.OccupiedLength},
		{"Trucks by length", r.Trucks.ByLength},
		{"Trucks by weight", r.Trucks.ByWeight},
		{"Trucks", r.TruckCount},
		{"Rows", len(r.Rows)},
	}
	for _, s := range r.Skipped {
		rows = append(rows, []interface{}{"Skipped " + s.ID, s.Reason})
	}
	for _, p := range r.Packaging {
		value := p.Packaging
		if p.Err != "" {
			value = p.Err
		}
		rows = append(rows, []interface{}{"Packaging " + p.Group, value})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
