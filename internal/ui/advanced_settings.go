package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

// showAdvancedSettingsDialog opens the planner tuning options and the
// saved container library.
func (a *App) showAdvancedSettingsDialog() {
	s := &a.settings

	policySelect := widget.NewSelect(
		[]string{string(model.StackZeroFootprint), string(model.StackRowDepth)},
		func(selected string) { s.StackPolicy = model.StackPolicy(selected) },
	)
	policySelect.SetSelected(string(s.EffectiveStackPolicy()))

	placementSection := widget.NewCard("Placement",
		"How stacked units affect the row layout",
		container.NewGridWithColumns(2,
			widget.NewLabel("Spacing between units (cm)"), newFloatEntry(&s.Spacing),
			widget.NewLabel("Stack Policy"), policySelect,
			widget.NewLabel("Max Units per Plan (0 = no cap)"), newIntEntry(&s.MaxUnits),
		))

	consolidationSection := widget.NewCard("Consolidation",
		fmt.Sprintf("Volume allowance for packing losses, clamped to %.2f-%.2f",
			model.MinSafetyFactor, model.MaxSafetyFactor),
		container.NewGridWithColumns(2,
			widget.NewLabel("Safety Factor"), newFloatEntry(&s.SafetyFactor),
		))

	listContainer := container.NewVBox()
	var refreshList func()
	refreshList = func() {
		listContainer.RemoveAll()
		if len(a.containers) == 0 {
			listContainer.Add(widget.NewLabel("No saved containers."))
			return
		}
		for _, c := range a.containers {
			name := c.Name
			listContainer.Add(container.NewHBox(
				widget.NewLabel(fmt.Sprintf("%s  %.0f x %.0f x %.0f cm, %.0f kg",
					c.Name, c.Length, c.Width, c.Height, c.MaxWeight)),
				layout.NewSpacer(),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.containers = project.RemoveContainer(a.containers, name)
					a.persistContainers()
					refreshList()
				}),
			))
		}
	}
	refreshList()

	saveBtn := widget.NewButtonWithIcon("Save Custom Container As...", theme.ContentAddIcon(), func() {
		a.showSaveContainerDialog(refreshList)
	})

	librarySection := widget.NewCard("Saved Containers",
		"Custom envelopes offered in the container selector",
		container.NewVBox(container.NewHBox(layout.NewSpacer(), saveBtn), listContainer))

	content := container.NewVScroll(container.NewVBox(
		placementSection,
		consolidationSection,
		librarySection,
	))

	d := dialog.NewCustom("Advanced Settings", "Close", content, a.window)
	d.SetOnClosed(func() {
		if err := a.settings.Validate(); err != nil {
			dialog.ShowError(err, a.window)
		}
		a.refreshSettings()
	})
	d.Resize(fyne.NewSize(600, 560))
	d.Show()
}

// showSaveContainerDialog stores the current custom container under a name.
func (a *App) showSaveContainerDialog(onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g. Mega trailer")

	dialog.ShowForm("Save Container", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			c := a.custom
			c.Name = strings.TrimSpace(nameEntry.Text)
			if _, isPreset := model.GetPreset(c.Name); isPreset || strings.EqualFold(c.Name, model.PresetCustom) {
				dialog.ShowError(fmt.Errorf("%q is reserved", c.Name), a.window)
				return
			}
			list, err := project.UpsertContainer(a.containers, c)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.containers = list
			a.persistContainers()
			onSaved()
		},
		a.window,
	)
}

func (a *App) persistContainers() {
	if err := project.SaveContainers(project.DefaultContainersPath(), a.containers); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save containers: %w", err), a.window)
	}
}
