// Package testdata loads per-scenario test data from the workbook named in
// the configuration. Each scenario worker opens its own Store, so no
// workbook handle is ever shared across workers.
//
// Columns are bound to Row fields through an explicit mapping table rather
// than reflection over header names: a column the mapping does not declare
// is ignored, and a declared column that is missing from the sheet is
// reported at load time instead of silently leaving fields blank.
package testdata

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is the test data for one scenario.
type Row struct {
	ScenarioName  string
	Username      string
	Password      string
	ProductName   string
	ExpectedTitle string
	ExpectedError string
	OrderNumber   string
}

// columnMapping declares which sheet column feeds which Row field. The
// table is the single place a new column gets wired up.
var columnMapping = []struct {
	column   string
	required bool
	assign   func(*Row, string)
}{
	{"scenario_name", true, func(r *Row, v string) { r.ScenarioName = v }},
	{"username", false, func(r *Row, v string) { r.Username = v }},
	{"password", false, func(r *Row, v string) { r.Password = v }},
	{"product_name", false, func(r *Row, v string) { r.ProductName = v }},
	{"expected_title", false, func(r *Row, v string) { r.ExpectedTitle = v }},
	{"expected_error", false, func(r *Row, v string) { r.ExpectedError = v }},
	{"order_number", false, func(r *Row, v string) { r.OrderNumber = v }},
}

// Store is one worker's handle on the workbook.
type Store struct {
	file       *excelize.File
	path       string
	sheet      string
	credsSheet string
}

// Open opens the workbook for one scenario worker.
func Open(path, sheet, credentialsSheet string) (*Store, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	index, err := file.GetSheetIndex(sheet)
	if err != nil || index < 0 {
		file.Close()
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, path)
	}

	return &Store{
		file:       file,
		path:       path,
		sheet:      sheet,
		credsSheet: credentialsSheet,
	}, nil
}

// Row finds the scenario's row by name in the first mapped column and binds
// it through the column mapping.
func (s *Store) Row(scenarioName string) (*Row, error) {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", s.sheet)
	}

	columns, err := bindColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", s.sheet, err)
	}

	nameCol := columns["scenario_name"]
	for _, cells := range rows[1:] {
		if cell(cells, nameCol) != scenarioName {
			continue
		}

		row := &Row{}
		for _, m := range columnMapping {
			idx, present := columns[m.column]
			if !present {
				continue
			}
			m.assign(row, strings.TrimSpace(cell(cells, idx)))
		}
		return row, nil
	}

	return nil, fmt.Errorf("scenario %q not found in sheet %q", scenarioName, s.sheet)
}

// Credentials reads a username/password pair from the credentials sheet,
// keyed by role in the first column.
func (s *Store) Credentials(role string) (username, password string, err error) {
	rows, err := s.file.GetRows(s.credsSheet)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials sheet %q: %w", s.credsSheet, err)
	}

	for _, cells := range rows {
		if cell(cells, 0) == role {
			return strings.TrimSpace(cell(cells, 1)), strings.TrimSpace(cell(cells, 2)), nil
		}
	}
	return "", "", fmt.Errorf("role %q not found in credentials sheet %q", role, s.credsSheet)
}

// WriteBack records a value into the scenario's row (e.g. an order number
// produced during the run), so a later scenario or audit can read it.
func (s *Store) WriteBack(scenarioName, column, value string) error {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q is empty", s.sheet)
	}

	columns, err := bindColumns(rows[0])
	if err != nil {
		return fmt.Errorf("sheet %q: %w", s.sheet, err)
	}
	colIdx, present := columns[column]
	if !present {
		return fmt.Errorf("column %q is not declared in the mapping", column)
	}

	nameCol := columns["scenario_name"]
	for i, cells := range rows[1:] {
		if cell(cells, nameCol) != scenarioName {
			continue
		}
		// Sheet coordinates are 1-based; row 0 holds the headers.
		cellName, err := excelize.CoordinatesToCellName(colIdx+1, i+2)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := s.file.SetCellValue(s.sheet, cellName, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", cellName, err)
		}
		return nil
	}
	return fmt.Errorf("scenario %q not found in sheet %q", scenarioName, s.sheet)
}

// Save writes pending WriteBack changes to disk.
func (s *Store) Save() error {
	if err := s.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", s.path, err)
	}
	return nil
}

// Close releases the workbook handle without saving.
func (s *Store) Close() error {
	return s.file.Close()
}

// bindColumns maps declared columns to their sheet indices, verifying the
// required ones exist.
func bindColumns(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int, len(columnMapping))
	for _, m := range columnMapping {
		idx, present := byName[m.column]
		if !present {
			if m.required {
				return nil, fmt.Errorf("required column %q missing", m.column)
			}
			continue
		}
		columns[m.column] = idx
	}
	return columns, nil
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
