package dto

import "github.com/piwi3910/LoadPlan/internal/model"

type PresetResponse struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Container model.Container `json:"container"`
}

type ListPresetResponse struct {
	Presets []PresetResponse `json:"presets"`
}
