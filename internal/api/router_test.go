package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/LoadPlan/internal/api/dto"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Metrics) {
	t.Helper()
	m := NewMetrics()
	srv := httptest.NewServer(NewRouter(model.StandardTrailer(), model.DefaultPlanSettings(), m))
	t.Cleanup(srv.Close)
	return srv, m
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

// ─── Health & Presets ───────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp.Body)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthRejectsPost(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/health", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodGet, resp.Header.Get("Allow"))
}

func TestPresets(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/presets")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decode[dto.ListPresetResponse](t, resp.Body)
	require.Len(t, body.Presets, len(model.ContainerPresets))
	assert.Equal(t, model.PresetStandardTrailer, body.Presets[0].Key)
	assert.Equal(t, 245.0, body.Presets[0].Container.Width)
}

// ─── Plans ──────────────────────────────────────────────────

func TestPlanUnits(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"units": [
			{"id": "A", "length": 120, "width": 80, "height": 100, "weight": 500, "stackable": true},
			{"id": "B", "length": 120, "width": 80, "height": 100, "weight": 500, "stackable": true}
		]
	}`
	resp := postJSON(t, srv.URL+"/plans", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "ok", res.Status)
	require.Len(t, res.Result.PlacedUnits, 2)
	assert.InDelta(t, 1.2, res.Result.OccupiedLength, 1e-9)
	assert.Equal(t, 1, res.Result.TruckCount)
}

func TestPlanUnitsReportsSkipped(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"units": [
			{"id": "A", "length": 120, "width": 80, "height": 100, "weight": 500},
			{"id": "BAD", "length": 0, "width": 80, "height": 100, "weight": 10}
		]
	}`
	resp := postJSON(t, srv.URL+"/plans", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	assert.Equal(t, "partial", res.Status)
	require.Len(t, res.Result.Skipped, 1)
	assert.Equal(t, "BAD", res.Result.Skipped[0].ID)
}

func TestPlanPartialSettingsKeepDefaults(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"settings": {"stack": false},
		"units": [
			{"id": "A", "length": 120, "width": 80, "height": 100, "weight": 500},
			{"id": "B", "length": 120, "width": 80, "height": 100, "weight": 500}
		]
	}`
	resp := postJSON(t, srv.URL+"/plans", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	require.Len(t, res.Result.PlacedUnits, 2)
	assert.InDelta(t, 82, res.Result.PlacedUnits[1].Y, 1e-9)
}

func TestPlanUnitsStackableByDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"container": {"name": "Low", "length": 1360, "width": 245, "height": 150},
		"settings": {"stack": true},
		"units": [
			{"id": "A", "length": 100, "width": 80, "height": 60, "weight": 10},
			{"id": "B", "length": 100, "width": 80, "height": 60, "weight": 10}
		]
	}`
	resp := postJSON(t, srv.URL+"/plans", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	require.Len(t, res.Result.PlacedUnits, 2)
	b := res.Result.PlacedUnits[1]
	assert.InDelta(t, 60, b.Z, 1e-9)
	assert.InDelta(t, 0, b.Y, 1e-9)
	assert.Equal(t, 1, res.Result.StackedCount())
}

func TestPlanDatasetWithPreset(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"preset": "20ft",
		"dataset": {
			"items": [{"id": "I1", "length": 120, "width": 80, "height": 100, "weight": 200, "stackable": true}],
			"orders": [{"order_id": "O1", "item_id": "I1", "quantity": 3}]
		}
	}`
	resp := postJSON(t, srv.URL+"/plans", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	assert.Equal(t, "20ft container", res.Result.Container.Name)
	assert.Len(t, res.Result.PlacedUnits, 3)
}

func TestPlanRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"units": [`},
		{"unknown field", `{"units": [], "trucks": 2}`},
		{"neither units nor dataset", `{}`},
		{"both units and dataset", `{"units": [], "dataset": {}}`},
		{"unknown preset", `{"preset": "60ft", "units": []}`},
		{"preset and container", `{"preset": "20ft", "container": {"width": 200}, "units": []}`},
		{"invalid container", `{"container": {"name": "x", "width": 0}, "units": []}`},
		{"invalid settings", `{"settings": {"spacing": -1}, "units": []}`},
		{"two objects", `{"units": []}{"units": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/plans", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[map[string]string](t, resp.Body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPlanEmptyUnits(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/plans", `{"units": []}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.PlanResponse](t, resp.Body)
	assert.Equal(t, "empty", res.Status)
	assert.Equal(t, 0.0, res.Result.OccupiedLength)
	assert.Equal(t, 0, res.Result.TruckCount)
}

// ─── Workbook upload ────────────────────────────────────────

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	return datasetWorkbook(t, model.Dataset{
		Items:  []model.Item{model.NewItem("I1", 120, 80, 100, 200)},
		Orders: []model.Order{model.NewOrder("O1", "I1", 4)},
	})
}

func datasetWorkbook(t *testing.T, ds model.Dataset) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, export.ExportWorkbook(path, ds, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestPlanWorkbook(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/plans/workbook?rotate=true&preset=40ft",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bytes.NewReader(workbookBytes(t)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.WorkbookPlanResponse](t, resp.Body)
	assert.Equal(t, "40ft container", res.Result.Container.Name)
	assert.Len(t, res.Result.PlacedUnits, 4)
}

func TestPlanWorkbookSkipsBadRows(t *testing.T) {
	srv, _ := newTestServer(t)
	data := datasetWorkbook(t, model.Dataset{
		Items: []model.Item{
			model.NewItem("I1", 120, 80, 100, 200),
			model.NewItem("I2", 0, 80, 100, 200),
		},
		Orders: []model.Order{model.NewOrder("O1", "I1", 2)},
	})

	resp, err := http.Post(srv.URL+"/plans/workbook", "application/octet-stream", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.WorkbookPlanResponse](t, resp.Body)
	assert.Equal(t, "partial", res.Status)
	assert.Len(t, res.Result.PlacedUnits, 2)
	require.Len(t, res.Result.Skipped, 1)
	assert.Equal(t, "Items row 3", res.Result.Skipped[0].ID)
	assert.Equal(t, "dimensions must be positive", res.Result.Skipped[0].Reason)
}

func TestPlanWorkbookRejectsGarbage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/plans/workbook", "application/octet-stream", strings.NewReader("not a workbook"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ImportErrorResponse](t, resp.Body)
	assert.NotEmpty(t, body.Errors)
}

func TestPlanWorkbookRejectsBadFlag(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/plans/workbook?stack=maybe", "application/octet-stream", bytes.NewReader(workbookBytes(t)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ─── Metrics ────────────────────────────────────────────────

func TestMetricsEndpoint(t *testing.T) {
	srv, m := newTestServer(t)

	postJSON(t, srv.URL+"/plans", `{"units": [{"id": "A", "length": 120, "width": 80, "height": 100, "weight": 1}]}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `loadplan_plans_total{status="ok"} 1`)
	assert.Contains(t, text, "loadplan_loading_meters_bucket")

	// The request counter is updated after the response is flushed.
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/plans", "200")) == 1
	}, time.Second, 10*time.Millisecond)
}
