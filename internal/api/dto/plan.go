package dto

import "github.com/piwi3910/LoadPlan/internal/model"

// PlanRequest carries either raw units or a dataset to plan. Preset and
// Container are mutually exclusive; both empty selects the server default.
type PlanRequest struct {
	Preset    string              `json:"preset"`
	Container *model.Container    `json:"container"`
	Settings  *model.PlanSettings `json:"settings"`
	Units     []model.Unit        `json:"units"`
	Dataset   *model.Dataset      `json:"dataset"`
}

type PlanResponse struct {
	RunID  string              `json:"run_id"`
	Status string              `json:"status"`
	Result model.PackingResult `json:"result"`
}

// WorkbookPlanResponse adds the import diagnostics of an uploaded workbook.
type WorkbookPlanResponse struct {
	PlanResponse
	ImportWarnings []string `json:"import_warnings,omitempty"`
}

type ImportErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}
