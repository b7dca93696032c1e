// Package importer reads planning data (items, boxes, pallets, orders)
// from workbooks and CSV files. Headers are matched case-insensitively
// against alias tables so that renamed or localized columns still map
// onto the typed records before anything reaches the planner.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// ImportResult holds the results of an import operation. Errors are
// fatal (unreadable file, missing sheet or header columns); rows that
// fail to parse are listed in Rejected and the rest are still imported.
type ImportResult struct {
	Dataset  model.Dataset
	Errors   []string
	Warnings []string
	Rejected []model.SkippedUnit
}

// OK reports whether the import produced no fatal errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// RowErrors formats the rejected rows as "<row>: <reason>" lines.
func (r ImportResult) RowErrors() []string {
	out := make([]string, len(r.Rejected))
	for i, rej := range r.Rejected {
		out[i] = rej.ID + ": " + rej.Reason
	}
	return out
}

// RecordKind identifies one of the four record sets.
type RecordKind int

const (
	KindItems RecordKind = iota
	KindBoxes
	KindPallets
	KindOrders
)

func (k RecordKind) String() string {
	switch k {
	case KindBoxes:
		return "Boxes"
	case KindPallets:
		return "Pallets"
	case KindOrders:
		return "Orders"
	default:
		return "Items"
	}
}

// ParseRecordKind maps a user-supplied name such as "items" or
// "Order Data" to a RecordKind.
func ParseRecordKind(s string) (RecordKind, bool) {
	n := normalize(s)
	for _, k := range []RecordKind{KindItems, KindBoxes, KindPallets, KindOrders} {
		for _, alias := range sheetAliases[k] {
			if n == normalize(alias) {
				return k, true
			}
		}
	}
	return KindItems, false
}

// Canonical column roles.
const (
	colID        = "id"
	colName      = "name"
	colLength    = "length"
	colWidth     = "width"
	colHeight    = "height"
	colMaxHeight = "max_height"
	colWeight    = "weight"
	colTare      = "tare"
	colStackable = "stackable"
	colOrder     = "order"
	colItem      = "item"
	colQuantity  = "quantity"
)

// headerAliases maps canonical column names to their accepted aliases per
// record kind. Aliases are compared after normalize.
var headerAliases = map[RecordKind]map[string][]string{
	KindItems: {
		colID:        {"itemnr", "item nr", "item", "item id", "id", "sku", "artikel", "artikelnr"},
		colLength:    {"length", "l", "l cm", "len", "lengte"},
		colWidth:     {"width", "w", "b", "b cm", "breedte"},
		colHeight:    {"height", "h", "h cm", "hoogte"},
		colWeight:    {"weight", "kg", "weight kg", "gewicht"},
		colStackable: {"stackable", "stapelbaar", "stack"},
	},
	KindBoxes: {
		colName:   {"name", "box", "naam", "doos", "type", "id"},
		colLength: {"length", "l", "l cm", "len", "lengte"},
		colWidth:  {"width", "w", "b", "b cm", "breedte"},
		colHeight: {"height", "h", "h cm", "hoogte"},
		colTare:   {"tare", "tare weight", "tare kg", "tara", "kg", "weight", "gewicht"},
	},
	KindPallets: {
		colName:      {"name", "pallet", "naam", "type", "id"},
		colLength:    {"length", "l", "l cm", "len", "lengte"},
		colWidth:     {"width", "w", "b", "b cm", "breedte"},
		colMaxHeight: {"max height", "max h", "max h cm", "height", "h", "h cm", "maxhoogte", "max hoogte"},
		colTare:      {"tare", "tare weight", "tare kg", "tara", "kg", "weight", "gewicht"},
		colStackable: {"stackable", "stapelbaar", "stack"},
	},
	KindOrders: {
		colOrder:    {"ordernr", "order nr", "order", "order id", "orderid"},
		colItem:     {"itemnr", "item nr", "item", "item id", "artikel", "artikelnr", "sku"},
		colQuantity: {"quantity", "qty", "aantal", "count", "amount", "pcs"},
	},
}

// requiredColumns lists the roles that must be present in a header row.
var requiredColumns = map[RecordKind][]string{
	KindItems:   {colID, colLength, colWidth, colHeight, colWeight},
	KindBoxes:   {colName, colLength, colWidth, colHeight},
	KindPallets: {colName, colLength, colWidth, colMaxHeight},
	KindOrders:  {colOrder, colItem, colQuantity},
}

// ColumnMapping maps canonical column roles to their indices in the data.
type ColumnMapping map[string]int

// Index returns the column index for a role, -1 when absent.
func (m ColumnMapping) Index(role string) int {
	if i, ok := m[role]; ok {
		return i
	}
	return -1
}

// normalize lower-cases a header and folds separators into single spaces.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ", "(", " ", ")", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// DetectColumns examines a header row and returns the column mapping for
// the given record kind. The first matching column wins for each role.
func DetectColumns(kind RecordKind, row []string) ColumnMapping {
	mapping := ColumnMapping{}
	for i, cell := range row {
		n := normalize(cell)
		if n == "" {
			continue
		}
		for role, aliases := range headerAliases[kind] {
			if _, taken := mapping[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if n == normalize(alias) {
					mapping[role] = i
					break
				}
			}
		}
	}
	return mapping
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts both "12.5" and the European "12,5".
func parseNumber(s string) (float64, error) {
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

// parseBool returns the flag value and whether the string was recognized.
// Empty cells default to true.
func parseBool(s string) (bool, bool) {
	switch normalize(s) {
	case "", "1", "true", "yes", "y", "ja", "j", "x", "waar":
		return true, true
	case "0", "false", "no", "n", "nee", "onwaar":
		return false, true
	default:
		return true, false
	}
}

// rowParser accumulates parse errors for one row.
type rowParser struct {
	row     []string
	mapping ColumnMapping
	label   string
	err     string
}

func (p *rowParser) text(role string) string {
	return getCell(p.row, p.mapping.Index(role))
}

// number parses a required numeric column; the first failure is kept.
func (p *rowParser) number(role string) float64 {
	if p.err != "" {
		return 0
	}
	s := p.text(role)
	if s == "" {
		p.err = fmt.Sprintf("%s: Missing %s value", p.label, role)
		return 0
	}
	v, err := parseNumber(s)
	if err != nil {
		p.err = fmt.Sprintf("%s: Invalid %s '%s'", p.label, role, s)
		return 0
	}
	return v
}

// optionalNumber parses a column that defaults to zero when absent or empty.
func (p *rowParser) optionalNumber(role string) float64 {
	if p.text(role) == "" {
		return 0
	}
	return p.number(role)
}

func (p *rowParser) positive(role string, vals ...float64) {
	if p.err != "" {
		return
	}
	for _, v := range vals {
		if v <= 0 {
			p.err = fmt.Sprintf("%s: %s must be positive", p.label, role)
			return
		}
	}
}

// parseRecords appends the rows of one record set to the result.
func parseRecords(kind RecordKind, rows [][]string, rowPrefix string, result *ImportResult) {
	if len(rows) == 0 || isEmptyRow(rows[0]) {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: No header row found", kind))
		return
	}

	mapping := DetectColumns(kind, rows[0])
	var missing []string
	for _, role := range requiredColumns[kind] {
		if mapping.Index(role) < 0 {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: Required columns not found in header: %s", kind, strings.Join(missing, ", ")))
		return
	}

	count := 0
	for i := 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		p := &rowParser{
			row:     rows[i],
			mapping: mapping,
			label:   fmt.Sprintf("%s %s %d", kind, rowPrefix, i+1),
		}
		if warning := parseRow(kind, p, &result.Dataset); p.err != "" {
			result.Rejected = append(result.Rejected, model.SkippedUnit{
				ID:     p.label,
				Reason: strings.TrimPrefix(p.err, p.label+": "),
			})
			continue
		} else if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		count++
	}

	if count == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: No data rows found", kind))
	}
}

// parseRow parses one record into ds. Errors are left on the parser;
// the returned string is a non-fatal warning.
func parseRow(kind RecordKind, p *rowParser, ds *model.Dataset) string {
	var warning string
	stackable := func() bool {
		s := p.text(colStackable)
		v, ok := parseBool(s)
		if !ok {
			warning = fmt.Sprintf("%s: Unknown stackable value '%s', defaulting to yes", p.label, s)
		}
		return v
	}

	switch kind {
	case KindItems:
		id := p.text(colID)
		if id == "" {
			p.err = fmt.Sprintf("%s: Missing item id", p.label)
			return ""
		}
		l, w, h := p.number(colLength), p.number(colWidth), p.number(colHeight)
		weight := p.number(colWeight)
		p.positive("dimensions", l, w, h)
		if p.err == "" && weight < 0 {
			p.err = fmt.Sprintf("%s: weight must not be negative", p.label)
		}
		if p.err != "" {
			return ""
		}
		it := model.NewItem(id, l, w, h, weight)
		it.Stackable = stackable()
		ds.Items = append(ds.Items, it)

	case KindBoxes:
		name := p.text(colName)
		l, w, h := p.number(colLength), p.number(colWidth), p.number(colHeight)
		tare := p.optionalNumber(colTare)
		p.positive("dimensions", l, w, h)
		if p.err != "" {
			return ""
		}
		if name == "" {
			name = fmt.Sprintf("Box %d", len(ds.Boxes)+1)
		}
		ds.Boxes = append(ds.Boxes, model.NewBox(name, l, w, h, tare))

	case KindPallets:
		name := p.text(colName)
		l, w, h := p.number(colLength), p.number(colWidth), p.number(colMaxHeight)
		tare := p.optionalNumber(colTare)
		p.positive("dimensions", l, w, h)
		if p.err != "" {
			return ""
		}
		if name == "" {
			name = fmt.Sprintf("Pallet %d", len(ds.Pallets)+1)
		}
		pl := model.NewPallet(name, l, w, h, tare)
		pl.Stackable = stackable()
		ds.Pallets = append(ds.Pallets, pl)

	case KindOrders:
		order, item := p.text(colOrder), p.text(colItem)
		if order == "" || item == "" {
			p.err = fmt.Sprintf("%s: Missing order or item id", p.label)
			return ""
		}
		qty := p.number(colQuantity)
		if p.err == "" && qty < 0 {
			p.err = fmt.Sprintf("%s: quantity must not be negative", p.label)
		}
		if p.err != "" {
			return ""
		}
		if qty != float64(int64(qty)) {
			warning = fmt.Sprintf("%s: Fractional quantity %g will be rounded down", p.label, qty)
		}
		ds.Orders = append(ds.Orders, model.NewOrder(order, item, qty))
	}
	return warning
}

// ImportCSV imports one record set from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, kind RecordKind) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	sub := ImportCSVFromReader(bytes.NewReader(data), delimiter, kind)
	sub.Warnings = append(result.Warnings, sub.Warnings...)
	return sub
}

// ImportCSVFromReader imports one record set from a CSV reader with a
// known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, kind RecordKind) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	parseRecords(kind, records, "line", &result)
	return result
}
