package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

// showSettingsDialog displays the application preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	presetKeys := make([]string, 0, len(model.ContainerPresets)+1)
	for _, p := range model.ContainerPresets {
		presetKeys = append(presetKeys, p.Key)
	}
	presetKeys = append(presetKeys, model.PresetCustom)
	presetSelect := widget.NewSelect(presetKeys, func(selected string) {
		cfg.DefaultPreset = selected
	})
	presetSelect.SetSelected(cfg.DefaultPreset)

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	formatSelect := widget.NewSelect([]string{"text", "json"}, func(selected string) {
		cfg.LogFormat = selected
	})
	formatSelect.SetSelected(cfg.LogFormat)

	logFileEntry := widget.NewEntry()
	logFileEntry.SetPlaceHolder("empty logs to stderr")
	logFileEntry.SetText(cfg.LogFile)
	logFileEntry.OnChanged = func(s string) { cfg.LogFile = s }

	addrEntry := widget.NewEntry()
	addrEntry.SetText(cfg.ServerAddr)
	addrEntry.OnChanged = func(s string) { cfg.ServerAddr = s }

	useCurrent := widget.NewCheck("", nil)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Default Container", presetSelect),
		widget.NewFormItem("Use Current Planning Settings", useCurrent),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("Log Format", formatSelect),
		widget.NewFormItem("Log File", logFileEntry),
		widget.NewFormItem("Server Address", addrEntry),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if useCurrent.Checked {
				if err := a.settings.Validate(); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				cfg.Settings = a.settings
				cfg.CustomContainer = a.custom
			}
			a.config = cfg
			a.theme.SetName(cfg.Theme)
			a.app.Settings().SetTheme(a.theme)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save preferences: %w", err), a.window)
			} else {
				dialog.ShowInformation("Preferences Saved", "Log settings apply on next start.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 480))
	d.Show()
}

// showImportExportDialog displays the settings backup dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export Settings...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, a.containers); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Preferences and %d saved containers exported to:\n%s", len(a.containers), path), a.window)
			}
		}, a.window)
		d.SetFileName("loadplan-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import Settings...", func() {
		dialog.ShowConfirm("Import Settings",
			"Importing replaces your preferences and saved containers.\n\nContinue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.containers = backup.Containers
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported preferences: %w", err), a.window)
						return
					}
					if err := project.SaveContainers(project.DefaultContainersPath(), a.containers); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported containers: %w", err), a.window)
						return
					}
					a.refreshSettings()
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Backup from %s imported.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and saved containers to a backup file,\nor restore them from a previous backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Settings", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
