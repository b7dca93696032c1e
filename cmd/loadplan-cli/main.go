// loadplan-cli plans a workbook or CSV order list from the command line
// and writes the selected reports.
//
//	loadplan-cli --in orders.xlsx --preset 40ft --stack --pdf plan.pdf
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

type options struct {
	in, csvKind, preset, config    string
	pdf, xlsx, labels, dxf, scene  string
	rotate, stack, mixItems        bool
	consolidate, fillRows, compare bool
	spacing                        float64
}

func main() {
	_ = godotenv.Load()

	var o options
	flag.StringVarP(&o.in, "in", "i", "", "input workbook (.xlsx) or CSV file")
	flag.StringVar(&o.csvKind, "csv-kind", "orders", "record kind of a CSV input: items, boxes, pallets, orders")
	flag.StringVarP(&o.preset, "preset", "p", "", "container preset key (defaults to the configured preset)")
	flag.StringVar(&o.config, "config", project.DefaultConfigPath(), "path to the config file")
	flag.StringVar(&o.pdf, "pdf", "", "write the PDF load report to this path")
	flag.StringVar(&o.xlsx, "xlsx", "", "write the dataset and load plan workbook to this path")
	flag.StringVar(&o.labels, "labels", "", "write QR unit labels to this path")
	flag.StringVar(&o.dxf, "dxf", "", "write the DXF floor plan to this path")
	flag.StringVar(&o.scene, "scene", "", "write the 3D scene JSON to this path (- for stdout)")
	flag.BoolVar(&o.rotate, "rotate", false, "allow rotating units on the floor")
	flag.BoolVar(&o.stack, "stack", false, "allow two-tier stacking")
	flag.BoolVar(&o.mixItems, "mix-items", true, "consolidate whole orders into shared packaging")
	flag.BoolVar(&o.consolidate, "consolidate", false, "pack order lines into boxes or pallets first")
	flag.BoolVar(&o.fillRows, "fill-rows", false, "choose each row's orientation by units across")
	flag.Float64Var(&o.spacing, "spacing", model.DefaultSpacing, "clearance between units in cm")
	flag.BoolVar(&o.compare, "compare", false, "print a comparison of the default scenarios")
	flag.Parse()

	if o.in == "" {
		fmt.Fprintln(os.Stderr, "usage: loadplan-cli --in FILE [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, cfgErr := project.LoadAppConfig(o.config)
	closer := logging.Setup(logging.ConfigFromApp("loadplan-cli", cfg))
	defer closer.Close()
	if cfgErr != nil {
		slog.Warn("config not loaded, using defaults", "path", o.config, "error", cfgErr)
		cfg = model.DefaultAppConfig()
	}

	if err := run(o, cfg); err != nil {
		slog.Error("planning failed", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(o options, cfg model.AppConfig) error {
	imp, err := load(o)
	if err != nil {
		return err
	}
	ds := imp.Dataset

	settings := settingsFromFlags(cfg.Settings, o)
	c := cfg.Container()
	if o.preset != "" {
		p, ok := model.GetPreset(o.preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", o.preset)
		}
		c = p.Container
	}

	if o.compare {
		for _, r := range engine.CompareDatasetScenarios(c, engine.BuildDefaultScenarios(settings), ds) {
			if r.Err != nil {
				fmt.Printf("%-34s %v\n", r.Scenario.Name, r.Err)
				continue
			}
			fmt.Printf("%-34s %6.2f m  %d trucks  %3d rows  %3d stacked  %d skipped\n",
				r.Scenario.Name, r.LoadingMeters, r.Trucks, r.Rows, r.Stacked, r.SkippedCount)
		}
	}

	result, err := engine.New(c, settings).PlanDataset(ds)
	if err != nil {
		return err
	}
	result.Skipped = slices.Concat(imp.Rejected, result.Skipped)
	fmt.Printf("%s: %d units, %.2f loading meters, %d trucks (%s)\n",
		c.Name, result.UnitCount, result.RequiredLength, result.TruckCount, result.Status())
	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "WARNING: skipped %s: %s\n", s.ID, s.Reason)
	}
	for _, p := range result.FailedPackaging() {
		fmt.Fprintf(os.Stderr, "WARNING: no packaging for %s: %s\n", p.Group, p.Err)
	}

	return writeOutputs(o, ds, result, settings)
}

// load imports the input file. Rows that fail to parse are returned in
// Rejected; only fatal import errors fail the run.
func load(o options) (importer.ImportResult, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(o.in)) {
	case ".csv", ".txt":
		kind, ok := importer.ParseRecordKind(o.csvKind)
		if !ok {
			return importer.ImportResult{}, fmt.Errorf("unknown CSV kind %q", o.csvKind)
		}
		res = importer.ImportCSV(o.in, kind)
	default:
		res = importer.ImportWorkbook(o.in)
	}
	for _, w := range res.Warnings {
		slog.Warn("import warning", "warning", w)
	}
	if !res.OK() {
		return res, fmt.Errorf("import failed: %s", strings.Join(res.Errors, "; "))
	}
	return res, nil
}

func settingsFromFlags(base model.PlanSettings, o options) model.PlanSettings {
	s := base
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rotate":
			s.Rotate = o.rotate
		case "stack":
			s.Stack = o.stack
		case "mix-items":
			s.MixItems = o.mixItems
		case "consolidate":
			s.Consolidate = o.consolidate
		case "fill-rows":
			s.FillRows = o.fillRows
		case "spacing":
			s.Spacing = o.spacing
		}
	})
	return s
}

func writeOutputs(o options, ds model.Dataset, result model.PackingResult, settings model.PlanSettings) error {
	outputs := []struct {
		path  string
		write func(string) error
	}{
		{o.pdf, func(p string) error { return export.ExportPDF(p, result, settings) }},
		{o.xlsx, func(p string) error { return export.ExportWorkbook(p, ds, &result) }},
		{o.labels, func(p string) error { return export.ExportLabels(p, result) }},
		{o.dxf, func(p string) error { return export.ExportDXF(p, result) }},
		{o.scene, func(p string) error {
			if p == "-" {
				return export.WriteScene(os.Stdout, result)
			}
			return export.ExportScene(p, result)
		}},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.write(out.path); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
		slog.Info("wrote output", "path", out.path)
	}
	return nil
}
