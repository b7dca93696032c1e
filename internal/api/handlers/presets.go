package handlers

import (
	"net/http"

	"github.com/piwi3910/LoadPlan/internal/api/dto"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// Presets lists the built-in container presets.
func Presets(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	res := dto.ListPresetResponse{Presets: make([]dto.PresetResponse, 0, len(model.ContainerPresets))}
	for _, p := range model.ContainerPresets {
		res.Presets = append(res.Presets, dto.PresetResponse{Key: p.Key, Label: p.Label, Container: p.Container})
	}
	writeJSON(w, r, http.StatusOK, res)
}
