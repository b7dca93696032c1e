package ui

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func datasetWithItems(ids ...string) model.Dataset {
	var ds model.Dataset
	for _, id := range ids {
		ds.Items = append(ds.Items, model.NewItem(id, 120, 80, 100, 50))
	}
	return ds
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	h.Push(MakeSnapshot(model.Dataset{}, settings, "initial"))
	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	current := MakeSnapshot(datasetWithItems("I1"), settings, "current")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Dataset.Items) != 0 {
		t.Errorf("expected 0 items after undo, got %d", len(restored.Dataset.Items))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	h.Push(MakeSnapshot(model.Dataset{}, settings, "empty"))
	h.Push(MakeSnapshot(datasetWithItems("I1"), settings, "one item"))

	current := MakeSnapshot(datasetWithItems("I1", "I2"), settings, "two items")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Dataset.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(restored.Dataset.Items))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Dataset.Items) != 2 {
		t.Errorf("expected 2 items after redo, got %d", len(redone.Dataset.Items))
	}
}

func TestUndoRestoresSettings(t *testing.T) {
	h := NewHistory()
	before := model.DefaultPlanSettings()
	h.Push(MakeSnapshot(model.Dataset{}, before, "toggle stacking"))

	after := before
	after.Stack = !before.Stack
	restored, ok := h.Undo(MakeSnapshot(model.Dataset{}, after, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Settings.Stack != before.Stack {
		t.Errorf("expected Stack=%v after undo, got %v", before.Stack, restored.Settings.Stack)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	h.Push(MakeSnapshot(model.Dataset{}, settings, "empty"))
	if _, ok := h.Undo(MakeSnapshot(datasetWithItems("I1"), settings, "one item")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(model.Dataset{}, settings, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}

	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, ""))
	}

	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Undo(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, "current")); ok {
		t.Error("undo on empty history should return false")
	}
}

func TestRedoEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Redo(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, "current")); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, "a"))
	h.Push(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, "b"))
	h.Undo(MakeSnapshot(model.Dataset{}, model.PlanSettings{}, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	ds := datasetWithItems("I1")
	ds.Orders = []model.Order{model.NewOrder("O1", "I1", 2)}
	snap := MakeSnapshot(ds, model.PlanSettings{}, "test")

	ds.Items[0].Weight = 999
	ds.Orders[0].Quantity = 7

	if snap.Dataset.Items[0].Weight != 50 {
		t.Error("snapshot items should be independent of the original dataset")
	}
	if snap.Dataset.Orders[0].Quantity != 2 {
		t.Error("snapshot orders should be independent of the original dataset")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	var states []model.Dataset
	for i := 0; i < 4; i++ {
		ids := make([]string, i)
		for j := range ids {
			ids[j] = string(rune('A' + j))
		}
		states = append(states, datasetWithItems(ids...))
	}

	for i := 0; i < 3; i++ {
		h.Push(MakeSnapshot(states[i], settings, ""))
	}

	current := MakeSnapshot(states[3], settings, "")
	for want := 2; want >= 0; want-- {
		restored, ok := h.Undo(current)
		if !ok {
			t.Fatalf("undo to state %d should succeed", want)
		}
		if len(restored.Dataset.Items) != want {
			t.Errorf("expected %d items, got %d", want, len(restored.Dataset.Items))
		}
		current = restored
	}
	if h.CanUndo() {
		t.Error("undo stack should be exhausted")
	}

	for want := 1; want <= 3; want++ {
		redone, ok := h.Redo(current)
		if !ok {
			t.Fatalf("redo to state %d should succeed", want)
		}
		if len(redone.Dataset.Items) != want {
			t.Errorf("expected %d items, got %d", want, len(redone.Dataset.Items))
		}
		current = redone
	}
}

func TestPushMergeCoalescesSameLabel(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	h.PushMerge(MakeSnapshot(model.Dataset{}, settings, "Edit Spacing"))
	settings.Spacing = 5
	h.PushMerge(MakeSnapshot(model.Dataset{}, settings, "Edit Spacing"))
	settings.Spacing = 50
	h.PushMerge(MakeSnapshot(model.Dataset{}, settings, "Edit Spacing"))

	if got := len(h.undoStack); got != 1 {
		t.Fatalf("expected 1 undo step, got %d", got)
	}
	settings.Spacing = 55
	restored, ok := h.Undo(MakeSnapshot(model.Dataset{}, settings, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Settings.Spacing != model.DefaultPlanSettings().Spacing {
		t.Errorf("expected spacing before the first edit, got %v", restored.Settings.Spacing)
	}
}

func TestPushMergeBreaksOnOtherActions(t *testing.T) {
	h := NewHistory()
	settings := model.DefaultPlanSettings()

	h.PushMerge(MakeSnapshot(model.Dataset{}, settings, "Toggle Stacking"))
	h.PushMerge(MakeSnapshot(model.Dataset{}, settings, "Toggle Rotation"))
	if got := len(h.undoStack); got != 2 {
		t.Fatalf("different labels should not merge, got %d steps", got)
	}

	h.Push(MakeSnapshot(datasetWithItems("I1"), settings, "Add Item"))
	h.PushMerge(MakeSnapshot(datasetWithItems("I1"), settings, "Toggle Rotation"))
	if got := len(h.undoStack); got != 4 {
		t.Fatalf("a plain push should end the merge run, got %d steps", got)
	}

	current := MakeSnapshot(datasetWithItems("I1"), settings, "current")
	if _, ok := h.Undo(current); !ok {
		t.Fatal("undo should succeed")
	}
	h.PushMerge(MakeSnapshot(datasetWithItems("I1"), settings, "Toggle Rotation"))
	if got := len(h.undoStack); got != 4 {
		t.Errorf("undo should end the merge run, got %d steps", got)
	}
	if h.CanRedo() {
		t.Error("a new edit should clear the redo stack")
	}
}
