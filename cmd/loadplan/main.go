// LoadPlan - Trailer Load Planner
//
// A cross-platform desktop application that lays out order lines on the
// floor of a trailer row by row and prints load reports and labels.
//
// Build:
//   go build -o loadplan ./cmd/loadplan
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o loadplan.exe ./cmd/loadplan
//   GOOS=darwin  GOARCH=amd64 go build -o loadplan-darwin ./cmd/loadplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/project"
	"github.com/piwi3910/LoadPlan/internal/ui"
)

func main() {
	configPath := project.DefaultConfigPath()
	cfg, err := project.LoadAppConfig(configPath)
	closer := logging.Setup(logging.ConfigFromApp("loadplan", cfg))
	defer closer.Close()
	if err != nil {
		slog.Warn("config not loaded, using defaults", "path", configPath, "error", err)
	}

	application := app.NewWithID("com.piwi3910.loadplan")
	window := application.NewWindow("LoadPlan - Trailer Load Planner")

	appUI := ui.NewApp(application, window, configPath)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
