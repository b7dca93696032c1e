package ui

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	application := test.NewTempApp(t)
	window := application.NewWindow("test")
	a := NewApp(application, window, filepath.Join(t.TempDir(), "config.json"))
	window.SetContent(a.Build())
	return a
}

func TestContainerOptionsListsSavedBeforeCustom(t *testing.T) {
	a := &App{containers: []model.Container{{Name: "Mega trailer", Length: 1360, Width: 248, Height: 300}}}
	opts := a.containerOptions()

	require.Len(t, opts, len(model.ContainerPresets)+2)
	assert.Equal(t, "Mega trailer", opts[len(opts)-2])
	assert.Equal(t, "Custom", opts[len(opts)-1])
}

func TestSelectContainer(t *testing.T) {
	a := &App{
		containers: []model.Container{{Name: "Mega trailer", Length: 1360, Width: 248, Height: 300}},
		custom:     model.Container{Length: 500, Width: 200},
	}

	a.selectContainer("20ft container")
	assert.Equal(t, model.PresetContainer20, a.preset)
	assert.Equal(t, 590.0, a.container().Length)

	a.selectContainer("Mega trailer")
	assert.Equal(t, "Mega trailer", a.container().Name)
	assert.Equal(t, "Mega trailer", a.selectedLabel())

	a.selectContainer("Custom")
	assert.Equal(t, model.PresetCustom, a.preset)
	assert.Equal(t, 500.0, a.container().Length)
	assert.Equal(t, "Custom", a.selectedLabel())
}

func TestMutateUndoRedo(t *testing.T) {
	a := newTestApp(t)

	a.mutate("Add Item", func() {
		a.dataset.Items = append(a.dataset.Items, model.NewItem("A", 120, 80, 100, 50))
	})
	require.Len(t, a.dataset.Items, 1)

	a.undo()
	assert.Empty(t, a.dataset.Items)

	a.redo()
	assert.Len(t, a.dataset.Items, 1)
}

func TestSpacingEditsUndoAsOneStep(t *testing.T) {
	a := newTestApp(t)
	before := a.settings.Spacing

	e := a.historyFloatEntry(&a.settings.Spacing, "Edit Spacing")
	test.Type(e, "5")
	require.NotEqual(t, before, a.settings.Spacing)

	a.undo()
	assert.Equal(t, before, a.settings.Spacing)
	assert.False(t, a.history.CanUndo())
}

func TestRunPlanShowsSkippedBanner(t *testing.T) {
	a := newTestApp(t)
	a.dataset = model.Dataset{
		Items: []model.Item{model.NewItem("A", 120, 80, 100, 50)},
		Orders: []model.Order{
			model.NewOrder("O1", "A", 2),
			model.NewOrder("O1", "MISSING", 1),
		},
	}

	a.runPlan()

	require.NotNil(t, a.result)
	assert.Equal(t, 2, a.result.UnitCount)
	assert.Equal(t, 1, a.result.SkippedCount())
	assert.True(t, a.banner.Visible())
	assert.Contains(t, a.bannerLabel.Text, "1 records were skipped")
}

func TestRunPlanHidesBannerWhenComplete(t *testing.T) {
	a := newTestApp(t)
	a.dataset = model.Dataset{
		Items:  []model.Item{model.NewItem("A", 120, 80, 100, 50)},
		Orders: []model.Order{model.NewOrder("O1", "A", 3)},
	}

	a.runPlan()

	require.NotNil(t, a.result)
	assert.Equal(t, 3, a.result.UnitCount)
	assert.False(t, a.banner.Visible())
}

func TestSkippedSummary(t *testing.T) {
	r := model.PackingResult{Skipped: []model.SkippedUnit{{ID: "O1-X-1", Reason: "unknown item"}}}
	assert.Equal(t, "1 records were skipped and are not on the plan (first: O1-X-1 - unknown item)", skippedSummary(r))
}
