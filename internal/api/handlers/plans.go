package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/piwi3910/LoadPlan/internal/api/dto"
	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Request body limits.
const (
	maxJSONBody     = 8 << 20
	maxWorkbookBody = 32 << 20
)

// PlanHandler serves planning requests. Every request builds its own
// Planner from the defaults and the request overrides.
type PlanHandler struct {
	DefaultContainer model.Container
	DefaultSettings  model.PlanSettings
	// Observe is called with every successful result, e.g. to record metrics.
	Observe func(model.PackingResult)
}

// Plan places the units or dataset in the JSON body.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	// Settings fields absent from the body keep the server defaults.
	defaults := h.DefaultSettings
	req := dto.PlanRequest{Settings: &defaults}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if (req.Dataset == nil) == (req.Units == nil) {
		writeError(w, r, http.StatusBadRequest, "exactly one of units or dataset is required")
		return
	}
	container, err := h.container(req.Preset, req.Container)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	settings := h.DefaultSettings
	if req.Settings != nil {
		settings = *req.Settings
	}

	planner := engine.New(container, settings)
	var result model.PackingResult
	if req.Dataset != nil {
		result, err = planner.PlanDataset(*req.Dataset)
	} else {
		result, err = planner.Plan(req.Units)
	}
	if err != nil {
		h.planError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.respond(result))
}

// PlanWorkbook plans an uploaded xlsx workbook. The body is the raw file;
// query parameters select the preset and toggle the planning flags.
func (h *PlanHandler) PlanWorkbook(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	defer r.Body.Close()

	q := r.URL.Query()
	container, err := h.container(q.Get("preset"), nil)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	settings, err := settingsFromQuery(h.DefaultSettings, q.Get)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	imp := importer.ImportWorkbookFromReader(http.MaxBytesReader(w, r.Body, maxWorkbookBody))
	for _, rej := range imp.Rejected {
		slog.Warn("workbook row rejected", "row", rej.ID, "reason", rej.Reason)
	}
	if !imp.OK() {
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ImportErrorResponse{
			Error:  "workbook import failed",
			Errors: imp.Errors,
		})
		return
	}

	result, err := engine.New(container, settings).PlanDataset(imp.Dataset)
	if err != nil {
		h.planError(w, r, err)
		return
	}
	result.Skipped = slices.Concat(imp.Rejected, result.Skipped)

	writeJSON(w, r, http.StatusOK, dto.WorkbookPlanResponse{
		PlanResponse:   h.respond(result),
		ImportWarnings: imp.Warnings,
	})
}

func (h *PlanHandler) container(preset string, custom *model.Container) (model.Container, error) {
	preset = strings.TrimSpace(preset)
	switch {
	case preset != "" && custom != nil:
		return model.Container{}, errors.New("preset and container are mutually exclusive")
	case custom != nil:
		return *custom, nil
	case preset == "":
		return h.DefaultContainer, nil
	}
	p, ok := model.GetPreset(preset)
	if !ok {
		return model.Container{}, fmt.Errorf("unknown preset %q", preset)
	}
	return p.Container, nil
}

func (h *PlanHandler) respond(result model.PackingResult) dto.PlanResponse {
	if h.Observe != nil {
		h.Observe(result)
	}
	return dto.PlanResponse{
		RunID:  uuid.NewString(),
		Status: result.Status().String(),
		Result: result,
	}
}

func (h *PlanHandler) planError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, engine.ErrInvalidContainer) || errors.Is(err, engine.ErrInvalidSettings) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("plan failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// settingsFromQuery overrides the boolean flags and spacing present in
// the query string.
func settingsFromQuery(base model.PlanSettings, get func(string) string) (model.PlanSettings, error) {
	flags := []struct {
		key string
		dst *bool
	}{
		{"rotate", &base.Rotate},
		{"stack", &base.Stack},
		{"mix_items", &base.MixItems},
		{"consolidate", &base.Consolidate},
		{"fill_rows", &base.FillRows},
	}
	for _, f := range flags {
		v := get(f.key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("invalid %s value %q", f.key, v)
		}
		*f.dst = b
	}
	if v := get("spacing"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, fmt.Errorf("invalid spacing value %q", v)
		}
		base.Spacing = s
	}
	return base, nil
}
