package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetAliases lists the accepted sheet names per record kind. The first
// entry is the name written by the workbook exporter.
var sheetAliases = map[RecordKind][]string{
	KindItems:   {"Items", "Item Data", "Artikelen"},
	KindBoxes:   {"Boxes", "Box Data", "Dozen"},
	KindPallets: {"Pallets", "Pallet Data", "Pallets Data"},
	KindOrders:  {"Orders", "Order Data", "Orders Data"},
}

// SheetName returns the canonical sheet name for a record kind.
func SheetName(kind RecordKind) string {
	return sheetAliases[kind][0]
}

// ImportWorkbook imports all four record sets from an Excel (.xlsx) file.
// Items and Orders sheets are required; Boxes and Pallets are optional.
func ImportWorkbook(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return importFromFile(f)
}

// ImportWorkbookFromReader imports a workbook from an upload stream.
func ImportWorkbookFromReader(r io.Reader) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	defer f.Close()
	return importFromFile(f)
}

func importFromFile(f *excelize.File) ImportResult {
	result := ImportResult{}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	for _, kind := range []RecordKind{KindItems, KindOrders, KindBoxes, KindPallets} {
		sheet, ok := findSheet(sheets, kind)
		if !ok {
			if kind == KindItems || kind == KindOrders {
				result.Errors = append(result.Errors, fmt.Sprintf("Missing required sheet '%s'", SheetName(kind)))
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("No '%s' sheet, packaging consolidation unavailable", SheetName(kind)))
			}
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read sheet '%s': %v", sheet, err))
			continue
		}
		parseRecords(kind, rows, "row", &result)
	}

	return result
}

func findSheet(sheets []string, kind RecordKind) (string, bool) {
	for _, s := range sheets {
		n := normalize(s)
		for _, alias := range sheetAliases[kind] {
			if n == normalize(alias) {
				return s, true
			}
		}
	}
	return "", false
}
