package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testDataset() model.Dataset {
	a := model.NewItem("A", 120, 80, 100, 250.5)
	b := model.NewItem("B", 60, 40, 40, 20)
	b.Stackable = false
	block := model.NewPallet("Block", 120, 100, 180, 30)
	block.Stackable = false
	return model.Dataset{
		Items:   []model.Item{a, b},
		Boxes:   []model.Box{model.NewBox("Carton", 60, 40, 40, 1.5)},
		Pallets: []model.Pallet{model.NewPallet("EUR", 120, 80, 150, 25), block},
		Orders:  []model.Order{model.NewOrder("O1", "A", 2), model.NewOrder("O1", "B", 3.5)},
	}
}

func TestExportWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	ds := testDataset()

	require.NoError(t, ExportWorkbook(path, ds, nil))

	result := importer.ImportWorkbook(path)
	require.Empty(t, result.Errors)

	got := result.Dataset
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0].ID)
	assert.Equal(t, 250.5, got.Items[0].Weight)
	assert.False(t, got.Items[1].Stackable)
	require.Len(t, got.Orders, 2)
	assert.Equal(t, 3.5, got.Orders[1].Quantity)
	require.Len(t, got.Boxes, 1)
	assert.Equal(t, 1.5, got.Boxes[0].TareWeight)
	require.Len(t, got.Pallets, 2)
	assert.Equal(t, 150.0, got.Pallets[0].MaxHeight)
	assert.False(t, got.Pallets[1].Stackable)
}

func TestExportWorkbook_WithResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	result := buildLabelsTestResult()

	require.NoError(t, ExportWorkbook(path, testDataset(), &result))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetItems, SheetOrders, SheetBoxes, SheetPallets, SheetLoadPlan, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetLoadPlan)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "O1-A-2", rows[2][0])
	assert.Equal(t, "O1-A-1", rows[2][12], "stacked unit names its support")

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, "Container", summary[1][0])
}

func TestExportTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, ExportTemplate(path))

	result := importer.ImportWorkbook(path)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Dataset.Items, 1)
	assert.Len(t, result.Dataset.Orders, 1)

	units, skipped := result.Dataset.ExpandOrders()
	assert.Len(t, units, 2)
	assert.Empty(t, skipped)
}
