package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
	"github.com/piwi3910/LoadPlan/internal/ui/widgets"
)

// Tab indices.
const (
	tabItems = iota
	tabOrders
	tabPackaging
	tabSettings
	tabPlan
)

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	config     model.AppConfig
	configPath string
	theme      *LoadPlanTheme

	dataset    model.Dataset
	settings   model.PlanSettings
	preset     string            // Preset key, custom, or a saved container name
	custom     model.Container   // Used when preset is custom
	containers []model.Container // Saved container library
	result     *model.PackingResult
	history    *History
	tabs       *container.AppTabs

	// UI references for dynamic updates
	itemsContainer     *fyne.Container
	ordersContainer    *fyne.Container
	packagingContainer *fyne.Container
	settingsContainer  *fyne.Container
	resultContainer    *fyne.Container
	banner             *fyne.Container
	bannerLabel        *widget.Label
}

// NewApp loads the application config and saved containers and creates the UI state.
func NewApp(application fyne.App, window fyne.Window, configPath string) *App {
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		slog.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		cfg = model.DefaultAppConfig()
	}
	containers, err := project.LoadContainers(project.DefaultContainersPath())
	if err != nil {
		slog.Warn("failed to load saved containers", "error", err)
		containers = []model.Container{}
	}

	a := &App{
		app:        application,
		window:     window,
		config:     cfg,
		configPath: configPath,
		theme:      NewLoadPlanTheme(cfg.Theme),
		settings:   cfg.Settings,
		preset:     cfg.DefaultPreset,
		custom:     cfg.CustomContainer,
		containers: containers,
		history:    NewHistory(),
	}
	application.Settings().SetTheme(a.theme)
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range a.config.RecentFiles {
		p := path
		recentItems = append(recentItems, fyne.NewMenuItem(filepath.Base(p), func() {
			a.importWorkbookFile(p)
		}))
	}
	if len(recentItems) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		recentItems = append(recentItems, none)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Plan", func() {
			a.mutate("New Plan", func() { a.dataset = model.Dataset{} })
			a.result = nil
			a.refreshResults()
		}),
		fyne.NewMenuItem("Import Workbook...", a.importWorkbook),
		fyne.NewMenuItem("Import CSV...", a.importCSV),
		recent,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Workbook...", a.exportWorkbook),
		fyne.NewMenuItem("Export Template...", func() {
			a.saveFile("loadplan-template.xlsx", export.ExportTemplate)
		}),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportResult("load-plan.pdf", func(path string, r model.PackingResult) error {
				return export.ExportPDF(path, r, a.settings)
			})
		}),
		fyne.NewMenuItem("Export Unit Labels...", func() {
			a.exportResult("unit-labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItem("Export DXF Floor Plan...", func() {
			a.exportResult("floor-plan.dxf", export.ExportDXF)
		}),
		fyne.NewMenuItem("Export 3D Scene...", func() {
			a.exportResult("load-scene.json", export.ExportScene)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Orders", func() {
			a.mutate("Clear Orders", func() { a.dataset.Orders = nil })
		}),
		fyne.NewMenuItem("Clear All Data", func() {
			a.mutate("Clear All Data", func() { a.dataset = model.Dataset{} })
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Plan Load", func() {
			a.runPlan()
			a.tabs.SelectIndex(tabPlan)
		}),
		fyne.NewMenuItem("Compare Scenarios...", a.showCompareDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Advanced Settings...", a.showAdvancedSettingsDialog),
		fyne.NewMenuItem("Preferences...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Settings...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About LoadPlan",
		"LoadPlan - Trailer Load Planner\n\n"+
			"Plans the floor of a trailer row by row from item and order\n"+
			"lists, estimates loading meters and trucks, and prints\n"+
			"load reports and unit labels.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Items", a.buildItemsPanel()),
		container.NewTabItem("Orders", a.buildOrdersPanel()),
		container.NewTabItem("Packaging", a.buildPackagingPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Load Plan", a.buildPlanPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return a.tabs
}

// ─── History ───────────────────────────────────────────────

// mutate records an undo snapshot, applies fn and refreshes the data lists.
func (a *App) mutate(label string, fn func()) {
	a.history.Push(MakeSnapshot(a.dataset, a.settings, label))
	fn()
	a.refreshData()
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.dataset, a.settings, "current"))
	if !ok {
		return
	}
	a.restore(snap)
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.dataset, a.settings, "current"))
	if !ok {
		return
	}
	a.restore(snap)
}

func (a *App) restore(s Snapshot) {
	a.dataset = s.Dataset
	a.settings = s.Settings
	a.refreshData()
	a.refreshSettings()
}

func (a *App) refreshData() {
	a.refreshItemsList()
	a.refreshOrdersList()
	a.refreshPackagingList()
}

// ─── Helpers ───────────────────────────────────────────────

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func headerRow(titles ...string) *fyne.Container {
	objs := make([]fyne.CanvasObject, len(titles))
	for i, t := range titles {
		objs[i] = boldLabel(t)
	}
	return container.NewGridWithColumns(len(titles), objs...)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newFloatEntry creates an entry bound to a float value.
func newFloatEntry(val *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(formatNum(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*val = v
		}
	}
	return e
}

// historyFloatEntry is newFloatEntry for a planning setting; every
// keystroke of one editing run lands in a single undo step.
func (a *App) historyFloatEntry(val *float64, label string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(formatNum(*val))
	e.OnChanged = func(text string) {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || v == *val {
			return
		}
		a.history.PushMerge(MakeSnapshot(a.dataset, a.settings, label))
		*val = v
	}
	return e
}

// newIntEntry creates an entry bound to an int value.
func newIntEntry(val *int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			*val = v
		}
	}
	return e
}

// parsePositive parses the entries as positive numbers.
func parsePositive(entries ...*widget.Entry) ([]float64, error) {
	vals := make([]float64, len(entries))
	for i, e := range entries {
		v, err := strconv.ParseFloat(strings.TrimSpace(e.Text), 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("all dimensions must be numbers > 0")
		}
		vals[i] = v
	}
	return vals, nil
}

func numberEntry(placeholder string, v float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	if v != 0 {
		e.SetText(formatNum(v))
	}
	return e
}

// ─── Items Panel ───────────────────────────────────────────

func (a *App) buildItemsPanel() fyne.CanvasObject {
	a.itemsContainer = container.NewVBox()
	a.refreshItemsList()

	addBtn := widget.NewButtonWithIcon("Add Item", theme.ContentAddIcon(), func() {
		a.showItemDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(boldLabel("Items"), layout.NewSpacer(), addBtn),
		nil, nil, nil,
		container.NewVScroll(a.itemsContainer),
	)
}

func (a *App) refreshItemsList() {
	a.itemsContainer.RemoveAll()

	if len(a.dataset.Items) == 0 {
		a.itemsContainer.Add(widget.NewLabel("No items yet. Import a workbook or click 'Add Item'."))
		return
	}

	a.itemsContainer.Add(headerRow("Item", "Length (cm)", "Width (cm)", "Height (cm)", "Weight (kg)", "Stackable", "", ""))
	a.itemsContainer.Add(widget.NewSeparator())

	for i := range a.dataset.Items {
		idx := i
		it := a.dataset.Items[idx]
		a.itemsContainer.Add(container.NewGridWithColumns(8,
			widget.NewLabel(it.ID),
			widget.NewLabel(formatNum(it.Length)),
			widget.NewLabel(formatNum(it.Width)),
			widget.NewLabel(formatNum(it.Height)),
			widget.NewLabel(formatNum(it.Weight)),
			widget.NewLabel(yesNo(it.Stackable)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showItemDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.mutate("Delete Item", func() {
					a.dataset.Items = append(a.dataset.Items[:idx], a.dataset.Items[idx+1:]...)
				})
			}),
		))
	}
}

// showItemDialog adds a new item when idx is negative, otherwise edits it.
func (a *App) showItemDialog(idx int) {
	it := model.NewItem(fmt.Sprintf("ITEM-%d", len(a.dataset.Items)+1), 0, 0, 0, 0)
	title, confirm := "Add Item", "Add"
	if idx >= 0 {
		it = a.dataset.Items[idx]
		title, confirm = "Edit Item", "Save"
	}

	idEntry := widget.NewEntry()
	idEntry.SetText(it.ID)
	lengthEntry := numberEntry("Length in cm", it.Length)
	widthEntry := numberEntry("Width in cm", it.Width)
	heightEntry := numberEntry("Height in cm", it.Height)
	weightEntry := numberEntry("Weight in kg", it.Weight)
	stackCheck := widget.NewCheck("", nil)
	stackCheck.Checked = it.Stackable

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Item", idEntry),
			widget.NewFormItem("Length (cm)", lengthEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
			widget.NewFormItem("Weight (kg)", weightEntry),
			widget.NewFormItem("Stackable", stackCheck),
		},
		func(ok bool) {
			if !ok {
				return
			}
			dims, err := parsePositive(lengthEntry, widthEntry, heightEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			weight, err := strconv.ParseFloat(strings.TrimSpace(weightEntry.Text), 64)
			if err != nil || weight < 0 {
				dialog.ShowError(fmt.Errorf("weight must be a number >= 0"), a.window)
				return
			}
			id := strings.TrimSpace(idEntry.Text)
			if id == "" {
				dialog.ShowError(fmt.Errorf("item number is required"), a.window)
				return
			}

			updated := model.NewItem(id, dims[0], dims[1], dims[2], weight)
			updated.Stackable = stackCheck.Checked
			a.mutate(title, func() {
				if idx >= 0 {
					a.dataset.Items[idx] = updated
				} else {
					a.dataset.Items = append(a.dataset.Items, updated)
				}
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 380))
	form.Show()
}

// ─── Orders Panel ──────────────────────────────────────────

func (a *App) buildOrdersPanel() fyne.CanvasObject {
	a.ordersContainer = container.NewVBox()
	a.refreshOrdersList()

	addBtn := widget.NewButtonWithIcon("Add Order Line", theme.ContentAddIcon(), func() {
		a.showOrderDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(boldLabel("Order Lines"), layout.NewSpacer(), addBtn),
		nil, nil, nil,
		container.NewVScroll(a.ordersContainer),
	)
}

func (a *App) refreshOrdersList() {
	a.ordersContainer.RemoveAll()

	if len(a.dataset.Orders) == 0 {
		a.ordersContainer.Add(widget.NewLabel("No orders yet. Import a workbook or click 'Add Order Line'."))
		return
	}

	a.ordersContainer.Add(headerRow("Order", "Item", "Quantity", "", ""))
	a.ordersContainer.Add(widget.NewSeparator())

	for i := range a.dataset.Orders {
		idx := i
		o := a.dataset.Orders[idx]
		itemLabel := widget.NewLabel(o.ItemID)
		if a.dataset.FindItem(o.ItemID) == nil {
			itemLabel.Importance = widget.DangerImportance
			itemLabel.SetText(o.ItemID + " (unknown)")
		}
		a.ordersContainer.Add(container.NewGridWithColumns(5,
			widget.NewLabel(o.OrderID),
			itemLabel,
			widget.NewLabel(formatNum(o.Quantity)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showOrderDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.mutate("Delete Order Line", func() {
					a.dataset.Orders = append(a.dataset.Orders[:idx], a.dataset.Orders[idx+1:]...)
				})
			}),
		))
	}
}

func (a *App) showOrderDialog(idx int) {
	o := model.NewOrder(fmt.Sprintf("ORDER-%d", len(a.dataset.Orders)+1), "", 1)
	title, confirm := "Add Order Line", "Add"
	if idx >= 0 {
		o = a.dataset.Orders[idx]
		title, confirm = "Edit Order Line", "Save"
	}

	orderEntry := widget.NewEntry()
	orderEntry.SetText(o.OrderID)

	itemIDs := make([]string, len(a.dataset.Items))
	for i, it := range a.dataset.Items {
		itemIDs[i] = it.ID
	}
	itemSelect := widget.NewSelectEntry(itemIDs)
	itemSelect.SetText(o.ItemID)

	qtyEntry := numberEntry("Quantity", o.Quantity)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Order", orderEntry),
			widget.NewFormItem("Item", itemSelect),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			qty, err := parsePositive(qtyEntry)
			if err != nil {
				dialog.ShowError(fmt.Errorf("quantity must be a number > 0"), a.window)
				return
			}
			o.OrderID = strings.TrimSpace(orderEntry.Text)
			o.ItemID = strings.TrimSpace(itemSelect.Text)
			o.Quantity = qty[0]
			if o.OrderID == "" || o.ItemID == "" {
				dialog.ShowError(fmt.Errorf("order and item are required"), a.window)
				return
			}
			a.mutate(title, func() {
				if idx >= 0 {
					a.dataset.Orders[idx] = o
				} else {
					a.dataset.Orders = append(a.dataset.Orders, o)
				}
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 260))
	form.Show()
}

// ─── Packaging Panel ───────────────────────────────────────

func (a *App) buildPackagingPanel() fyne.CanvasObject {
	a.packagingContainer = container.NewVBox()
	a.refreshPackagingList()

	addBox := widget.NewButtonWithIcon("Add Box", theme.ContentAddIcon(), func() {
		a.showBoxDialog(-1)
	})
	addPallet := widget.NewButtonWithIcon("Add Pallet", theme.ContentAddIcon(), func() {
		a.showPalletDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(boldLabel("Boxes & Pallets"), layout.NewSpacer(), addBox, addPallet),
		nil, nil, nil,
		container.NewVScroll(a.packagingContainer),
	)
}

func (a *App) refreshPackagingList() {
	a.packagingContainer.RemoveAll()

	a.packagingContainer.Add(boldLabel("Boxes"))
	if len(a.dataset.Boxes) == 0 {
		a.packagingContainer.Add(widget.NewLabel("No boxes defined."))
	} else {
		a.packagingContainer.Add(headerRow("Name", "Length (cm)", "Width (cm)", "Height (cm)", "Tare (kg)", "", ""))
		for i := range a.dataset.Boxes {
			idx := i
			b := a.dataset.Boxes[idx]
			a.packagingContainer.Add(container.NewGridWithColumns(7,
				widget.NewLabel(b.Name),
				widget.NewLabel(formatNum(b.Length)),
				widget.NewLabel(formatNum(b.Width)),
				widget.NewLabel(formatNum(b.Height)),
				widget.NewLabel(formatNum(b.TareWeight)),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() { a.showBoxDialog(idx) }),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.mutate("Delete Box", func() {
						a.dataset.Boxes = append(a.dataset.Boxes[:idx], a.dataset.Boxes[idx+1:]...)
					})
				}),
			))
		}
	}

	a.packagingContainer.Add(widget.NewSeparator())
	a.packagingContainer.Add(boldLabel("Pallets"))
	if len(a.dataset.Pallets) == 0 {
		a.packagingContainer.Add(widget.NewLabel("No pallets defined."))
		return
	}
	a.packagingContainer.Add(headerRow("Name", "Length (cm)", "Width (cm)", "Max height (cm)", "Tare (kg)", "Stackable", "", ""))
	for i := range a.dataset.Pallets {
		idx := i
		p := a.dataset.Pallets[idx]
		a.packagingContainer.Add(container.NewGridWithColumns(8,
			widget.NewLabel(p.Name),
			widget.NewLabel(formatNum(p.Length)),
			widget.NewLabel(formatNum(p.Width)),
			widget.NewLabel(formatNum(p.MaxHeight)),
			widget.NewLabel(formatNum(p.TareWeight)),
			widget.NewLabel(yesNo(p.Stackable)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() { a.showPalletDialog(idx) }),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.mutate("Delete Pallet", func() {
					a.dataset.Pallets = append(a.dataset.Pallets[:idx], a.dataset.Pallets[idx+1:]...)
				})
			}),
		))
	}
}

func (a *App) showBoxDialog(idx int) {
	b := model.NewBox("Carton", 0, 0, 0, 0)
	title, confirm := "Add Box", "Add"
	if idx >= 0 {
		b = a.dataset.Boxes[idx]
		title, confirm = "Edit Box", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(b.Name)
	lengthEntry := numberEntry("Length in cm", b.Length)
	widthEntry := numberEntry("Width in cm", b.Width)
	heightEntry := numberEntry("Height in cm", b.Height)
	tareEntry := numberEntry("Tare in kg", b.TareWeight)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Length (cm)", lengthEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
			widget.NewFormItem("Tare (kg)", tareEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			dims, err := parsePositive(lengthEntry, widthEntry, heightEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			tare, _ := strconv.ParseFloat(strings.TrimSpace(tareEntry.Text), 64)
			b.Name = strings.TrimSpace(nameEntry.Text)
			b.Length, b.Width, b.Height, b.TareWeight = dims[0], dims[1], dims[2], max(tare, 0)
			a.mutate(title, func() {
				if idx >= 0 {
					a.dataset.Boxes[idx] = b
				} else {
					a.dataset.Boxes = append(a.dataset.Boxes, b)
				}
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 340))
	form.Show()
}

func (a *App) showPalletDialog(idx int) {
	p := model.NewPallet("EUR pallet", 120, 80, 0, 25)
	title, confirm := "Add Pallet", "Add"
	if idx >= 0 {
		p = a.dataset.Pallets[idx]
		title, confirm = "Edit Pallet", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	lengthEntry := numberEntry("Length in cm", p.Length)
	widthEntry := numberEntry("Width in cm", p.Width)
	heightEntry := numberEntry("Max load height in cm", p.MaxHeight)
	tareEntry := numberEntry("Tare in kg", p.TareWeight)
	stackCheck := widget.NewCheck("", nil)
	stackCheck.Checked = p.Stackable

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Length (cm)", lengthEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Max height (cm)", heightEntry),
			widget.NewFormItem("Tare (kg)", tareEntry),
			widget.NewFormItem("Stackable", stackCheck),
		},
		func(ok bool) {
			if !ok {
				return
			}
			dims, err := parsePositive(lengthEntry, widthEntry, heightEntry)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			tare, _ := strconv.ParseFloat(strings.TrimSpace(tareEntry.Text), 64)
			p.Name = strings.TrimSpace(nameEntry.Text)
			p.Length, p.Width, p.MaxHeight, p.TareWeight = dims[0], dims[1], dims[2], max(tare, 0)
			p.Stackable = stackCheck.Checked
			a.mutate(title, func() {
				if idx >= 0 {
					a.dataset.Pallets[idx] = p
				} else {
					a.dataset.Pallets = append(a.dataset.Pallets, p)
				}
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 380))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettings()
	return container.NewVScroll(a.settingsContainer)
}

// containerOptions returns the labels of the built-in presets, the saved
// containers and "Custom", in that order.
func (a *App) containerOptions() []string {
	labels := model.GetPresetLabels()
	custom := labels[len(labels)-1]
	labels = labels[:len(labels)-1]
	for _, c := range a.containers {
		labels = append(labels, c.Name)
	}
	return append(labels, custom)
}

// container resolves the selected container.
func (a *App) container() model.Container {
	if _, ok := model.GetPreset(a.preset); ok {
		return model.ResolveContainer(a.preset, a.custom)
	}
	if c, ok := project.FindContainer(a.containers, a.preset); ok {
		return c
	}
	return model.ResolveContainer(model.PresetCustom, a.custom)
}

func (a *App) selectedLabel() string {
	if p, ok := model.GetPreset(a.preset); ok {
		return p.Label
	}
	if c, ok := project.FindContainer(a.containers, a.preset); ok {
		return c.Name
	}
	return "Custom"
}

func (a *App) selectContainer(label string) {
	for _, p := range model.ContainerPresets {
		if p.Label == label {
			a.preset = p.Key
			return
		}
	}
	if c, ok := project.FindContainer(a.containers, label); ok {
		a.preset = c.Name
		return
	}
	a.preset = model.PresetCustom
}

func (a *App) refreshSettings() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()
	s := &a.settings

	customForm := container.NewGridWithColumns(2,
		widget.NewLabel("Length (cm, 0 = standard)"), newFloatEntry(&a.custom.Length),
		widget.NewLabel("Width (cm)"), newFloatEntry(&a.custom.Width),
		widget.NewLabel("Height (cm, 0 = no stacking)"), newFloatEntry(&a.custom.Height),
		widget.NewLabel("Max payload (kg, 0 = unlimited)"), newFloatEntry(&a.custom.MaxWeight),
	)
	details := widget.NewLabel("")
	showContainer := func() {
		c := a.container()
		details.SetText(fmt.Sprintf("%.0f x %.0f x %.0f cm, max %.0f kg", c.Length, c.Width, c.Height, c.MaxWeight))
		if a.preset == model.PresetCustom {
			customForm.Show()
		} else {
			customForm.Hide()
		}
	}
	containerSelect := widget.NewSelect(a.containerOptions(), func(selected string) {
		a.selectContainer(selected)
		showContainer()
	})
	containerSelect.SetSelected(a.selectedLabel())
	showContainer()

	containerSection := widget.NewCard("Trailer / Container", "", container.NewVBox(
		container.NewGridWithColumns(2, widget.NewLabel("Container"), containerSelect),
		details,
		customForm,
	))

	check := func(val *bool, label string) *widget.Check {
		c := widget.NewCheck("", nil)
		c.Checked = *val
		c.OnChanged = func(b bool) {
			a.history.PushMerge(MakeSnapshot(a.dataset, a.settings, label))
			*val = b
		}
		return c
	}

	planningSection := widget.NewCard("Planning", "", container.NewGridWithColumns(2,
		widget.NewLabel("Allow Rotation"), check(&s.Rotate, "Toggle Rotation"),
		widget.NewLabel("Allow Stacking (2 tiers)"), check(&s.Stack, "Toggle Stacking"),
		widget.NewLabel("Fill Rows (best orientation per row)"), check(&s.FillRows, "Toggle Row Fill"),
		widget.NewLabel("Spacing (cm)"), a.historyFloatEntry(&s.Spacing, "Edit Spacing"),
	))

	packagingSection := widget.NewCard("Packaging", "", container.NewGridWithColumns(2,
		widget.NewLabel("Consolidate into Boxes / Pallets"), check(&s.Consolidate, "Toggle Consolidation"),
		widget.NewLabel("Mix Items per Order"), check(&s.MixItems, "Toggle Mix Items"),
	))

	advancedBtn := widget.NewButtonWithIcon("Advanced...", theme.SettingsIcon(), a.showAdvancedSettingsDialog)
	planBtn := widget.NewButtonWithIcon("Plan Load", theme.MediaPlayIcon(), func() {
		a.runPlan()
		a.tabs.SelectIndex(tabPlan)
	})
	planBtn.Importance = widget.HighImportance

	a.settingsContainer.Add(containerSection)
	a.settingsContainer.Add(planningSection)
	a.settingsContainer.Add(packagingSection)
	a.settingsContainer.Add(container.NewHBox(layout.NewSpacer(), advancedBtn, planBtn))
}

// ─── Load Plan Panel ───────────────────────────────────────

func (a *App) buildPlanPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(widgets.RenderPlanResults(nil))

	a.bannerLabel = widget.NewLabel("")
	a.bannerLabel.Importance = widget.DangerImportance
	a.bannerLabel.Wrapping = fyne.TextWrapWord
	a.banner = container.NewBorder(nil, nil,
		widget.NewIcon(theme.WarningIcon()),
		widget.NewButton("Details", a.showSkippedDialog),
		a.bannerLabel,
	)
	a.banner.Hide()

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.MediaPlayIcon(), "Plan load", a.runPlan),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Compare scenarios", a.showCompareDialog),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF report", func() {
			a.exportResult("load-plan.pdf", func(path string, r model.PackingResult) error {
				return export.ExportPDF(path, r, a.settings)
			})
		}),
		newIconButtonWithTooltip(theme.FileImageIcon(), "Export unit labels", func() {
			a.exportResult("unit-labels.pdf", export.ExportLabels)
		}),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Export workbook", a.exportWorkbook),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
	)

	return container.NewBorder(container.NewVBox(toolbar, a.banner), nil, nil, nil, a.resultContainer)
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderPlanResults(a.result))
	a.resultContainer.Refresh()

	if a.result == nil || a.result.SkippedCount() == 0 {
		a.banner.Hide()
		return
	}
	a.bannerLabel.SetText(skippedSummary(*a.result))
	a.banner.Show()
}

// skippedSummary describes the skipped records for the warning banner.
func skippedSummary(r model.PackingResult) string {
	n := r.SkippedCount()
	msg := fmt.Sprintf("%d records were skipped and are not on the plan", n)
	if n > 0 {
		msg += fmt.Sprintf(" (first: %s - %s)", r.Skipped[0].ID, r.Skipped[0].Reason)
	}
	return msg
}

func (a *App) showSkippedDialog() {
	if a.result == nil || a.result.SkippedCount() == 0 {
		return
	}
	lines := make([]string, 0, a.result.SkippedCount())
	for _, s := range a.result.Skipped {
		lines = append(lines, fmt.Sprintf("%s: %s", s.ID, s.Reason))
	}
	text := widget.NewLabel(strings.Join(lines, "\n"))
	d := dialog.NewCustom("Skipped Records", "Close", container.NewVScroll(text), a.window)
	d.Resize(fyne.NewSize(600, 400))
	d.Show()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) runPlan() {
	if len(a.dataset.Orders) == 0 {
		dialog.ShowInformation("Nothing to plan", "Add at least one order line first.", a.window)
		return
	}

	result, err := engine.New(a.container(), a.settings).PlanDataset(a.dataset)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.result = &result
	a.refreshResults()
	slog.Info("plan computed", "units", result.UnitCount, "skipped", result.SkippedCount(), "trucks", result.TruckCount)
}

func (a *App) showCompareDialog() {
	if len(a.dataset.Orders) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one order line first.", a.window)
		return
	}

	results := engine.CompareDatasetScenarios(a.container(), engine.BuildDefaultScenarios(a.settings), a.dataset)

	var d dialog.Dialog
	rows := container.NewVBox(headerRow("Scenario", "Loading m", "Trucks", "Rows", "Stacked", "Skipped", ""))
	for _, r := range results {
		res := r
		if res.Err != nil {
			rows.Add(container.NewGridWithColumns(2, widget.NewLabel(res.Scenario.Name), widget.NewLabel(res.Err.Error())))
			continue
		}
		apply := widget.NewButton("Apply", func() {
			a.history.Push(MakeSnapshot(a.dataset, a.settings, "Apply "+res.Scenario.Name))
			a.settings = res.Scenario.Settings
			a.result = &res.Result
			a.refreshSettings()
			a.refreshResults()
			a.tabs.SelectIndex(tabPlan)
			d.Hide()
		})
		rows.Add(container.NewGridWithColumns(7,
			widget.NewLabel(res.Scenario.Name),
			widget.NewLabel(fmt.Sprintf("%.2f", res.LoadingMeters)),
			widget.NewLabel(strconv.Itoa(res.Trucks)),
			widget.NewLabel(strconv.Itoa(res.Rows)),
			widget.NewLabel(strconv.Itoa(res.Stacked)),
			widget.NewLabel(strconv.Itoa(res.SkippedCount)),
			apply,
		))
	}

	d = dialog.NewCustom("Compare Scenarios", "Close", container.NewVScroll(rows), a.window)
	d.Resize(fyne.NewSize(800, 320))
	d.Show()
}

// ─── Import ────────────────────────────────────────────────

func (a *App) openFile(exts []string, open func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		open(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

func (a *App) importWorkbook() {
	a.openFile([]string{".xlsx", ".xlsm"}, a.importWorkbookFile)
}

func (a *App) importWorkbookFile(path string) {
	result := importer.ImportWorkbook(path)
	if !a.handleImportResult(result) {
		return
	}
	a.mutate("Import Workbook", func() { a.dataset = result.Dataset })
	a.result = nil
	a.refreshResults()

	a.config.AddRecentFile(path)
	if err := a.saveConfig(); err != nil {
		slog.Warn("failed to save recent files", "error", err)
	}
	a.SetupMenus()
	dialog.ShowInformation("Import Complete", importSummary(result.Dataset, len(result.Warnings)), a.window)
}

func (a *App) importCSV() {
	kinds := []importer.RecordKind{importer.KindItems, importer.KindOrders, importer.KindBoxes, importer.KindPallets}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	kindSelect := widget.NewSelect(names, nil)
	kindSelect.SetSelected(names[0])

	dialog.ShowForm("Import CSV", "Choose File...", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Records", kindSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			kind := kinds[kindSelect.SelectedIndex()]
			a.openFile([]string{".csv", ".txt"}, func(path string) {
				result := importer.ImportCSV(path, kind)
				if !a.handleImportResult(result) {
					return
				}
				a.mutate("Import CSV", func() {
					a.dataset.Items = append(a.dataset.Items, result.Dataset.Items...)
					a.dataset.Orders = append(a.dataset.Orders, result.Dataset.Orders...)
					a.dataset.Boxes = append(a.dataset.Boxes, result.Dataset.Boxes...)
					a.dataset.Pallets = append(a.dataset.Pallets, result.Dataset.Pallets...)
				})
				dialog.ShowInformation("Import Complete", importSummary(result.Dataset, len(result.Warnings)), a.window)
			})
		},
		a.window,
	)
}

// handleImportResult reports import errors and warnings. It returns false
// when nothing usable was imported.
func (a *App) handleImportResult(result importer.ImportResult) bool {
	for _, w := range result.Warnings {
		slog.Warn("import warning", "warning", w)
	}
	problems := append(append([]string{}, result.Errors...), result.RowErrors()...)
	if len(problems) > 0 {
		msg := "Errors encountered during import:\n\n" + strings.Join(problems, "\n")
		dialog.ShowError(fmt.Errorf("%s", msg), a.window)
	}
	ds := result.Dataset
	return len(ds.Items)+len(ds.Orders)+len(ds.Boxes)+len(ds.Pallets) > 0
}

func importSummary(ds model.Dataset, warnings int) string {
	msg := fmt.Sprintf("Imported %d items, %d order lines, %d boxes and %d pallets.",
		len(ds.Items), len(ds.Orders), len(ds.Boxes), len(ds.Pallets))
	if warnings > 0 {
		msg += fmt.Sprintf("\n\n%d warnings were logged.", warnings)
	}
	return msg
}

// ─── Export ────────────────────────────────────────────────

func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportResult(defaultName string, write func(path string, r model.PackingResult) error) {
	if a.result == nil || a.result.UnitCount == 0 {
		dialog.ShowInformation("No plan", "Plan the load first before exporting.", a.window)
		return
	}
	result := *a.result
	a.saveFile(defaultName, func(path string) error { return write(path, result) })
}

func (a *App) exportWorkbook() {
	ds, result := a.dataset.Clone(), a.result
	a.saveFile("load-plan.xlsx", func(path string) error {
		return export.ExportWorkbook(path, ds, result)
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
