package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func buildLabelsTestResult() model.PackingResult {
	base := model.NewUnit("O1-A-1", 120, 80, 100, 300)
	top := model.NewUnit("O1-A-2", 120, 80, 100, 300)
	box := model.NewUnit("O2-Carton", 60, 40, 40, 12)
	box.Label = "Carton"
	box.TareWeight = 1
	box.Contents = []string{"O2-B-1", "O2-B-2"}
	far := model.NewUnit("O3-A-1", 120, 80, 100, 300)

	return model.PackingResult{
		Container: model.StandardTrailer(),
		PlacedUnits: []model.PlacedUnit{
			{Unit: base, X: 0, Y: 0, SupportIndex: -1},
			{Unit: top, X: 0, Y: 0, Z: 100, SupportIndex: 0},
			{Unit: box, X: 0, Y: 82, Rotated: true, SupportIndex: -1},
			{Unit: far, X: 1400, Y: 0, Row: 12, SupportIndex: -1},
		},
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildLabelsTestResult()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportLabels(path, model.PackingResult{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildLabelsTestResult())

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}
	if labels[0].UnitID != "O1-A-1" || labels[0].Truck != 1 {
		t.Errorf("unexpected first label %+v", labels[0])
	}
	if labels[1].Z != 100 {
		t.Errorf("expected stacked label at z=100, got %.0f", labels[1].Z)
	}
	if labels[2].Weight != 13 {
		t.Errorf("expected gross weight 13, got %.1f", labels[2].Weight)
	}
	if !labels[2].Rotated || len(labels[2].Contents) != 2 {
		t.Errorf("expected rotated carton with contents, got %+v", labels[2])
	}
	if labels[3].Truck != 2 || labels[3].X != 40 {
		t.Errorf("expected second truck at x=40, got truck %d x=%.0f", labels[3].Truck, labels[3].X)
	}
}

func TestLabelInfoJSON(t *testing.T) {
	info := CollectLabelInfos(buildLabelsTestResult())[0]
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"id", "label", "length_cm", "truck", "row", "x_cm"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in label JSON", key)
		}
	}
	if _, ok := decoded["contents"]; ok {
		t.Error("empty contents should be omitted")
	}
}
