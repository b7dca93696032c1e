package ui

import "github.com/piwi3910/LoadPlan/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the planning data and flags at a point in time.
type Snapshot struct {
	Dataset  model.Dataset
	Settings model.PlanSettings
	Label    string // Human-readable description (e.g. "Add Item")
}

// History manages undo/redo stacks of dataset snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
	// mergeLabel is the label of the last PushMerge; a following
	// PushMerge with the same label extends that step instead of adding one.
	mergeLabel string
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.mergeLabel = ""
	h.push(s)
}

// PushMerge is Push for continuous edits of one field, such as typing
// into an entry or toggling a flag. Consecutive calls with the same label
// form a single undo step that restores the state before the first edit.
func (h *History) PushMerge(s Snapshot) {
	if s.Label != "" && s.Label == h.mergeLabel && len(h.undoStack) > 0 {
		h.redoStack = nil
		return
	}
	h.push(s)
	h.mergeLabel = s.Label
}

func (h *History) push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	h.mergeLabel = ""
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent redo snapshot and pushes current onto the
// undo stack. It returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	h.mergeLabel = ""
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.mergeLabel = ""
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot deep-copies the dataset so later edits do not leak into history.
func MakeSnapshot(ds model.Dataset, settings model.PlanSettings, label string) Snapshot {
	return Snapshot{
		Dataset:  ds.Clone(),
		Settings: settings,
		Label:    label,
	}
}
