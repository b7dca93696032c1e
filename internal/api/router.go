// Package api exposes the planner over HTTP.
package api

import (
	"net/http"

	"github.com/piwi3910/LoadPlan/internal/api/handlers"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// NewRouter wires the HTTP handlers and returns an http.Handler. The
// container and settings are used when a request does not supply its own.
func NewRouter(container model.Container, settings model.PlanSettings, m *Metrics) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		DefaultContainer: container,
		DefaultSettings:  settings,
		Observe:          m.ObservePlan,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/presets", handlers.Presets)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/workbook", planHandler.PlanWorkbook)
	mux.Handle("/metrics", m.Handler())

	return instrument(m, mux, mux)
}
