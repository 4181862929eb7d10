// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package sink

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func init() {
	RegisterFormatter(&XLSXFormatter{})
}

// SheetName is the worksheet written and read by the xlsx format.
const SheetName = "Sheet1"

// XLSXFormatter writes an Excel workbook with a single sheet.
type XLSXFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*XLSXFormatter)(nil)

func (f *XLSXFormatter) Name() string      { return "xlsx" }
func (f *XLSXFormatter) Extension() string { return ".xlsx" }

// Format writes the header to row 1 and the rows below it, all as text cells.
func (f *XLSXFormatter) Format(t Table, w io.Writer) error {
	book := excelize.NewFile()
	defer book.Close() //nolint:errcheck // in-memory workbook

	all := append([][]string{t.Header}, t.Rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

func readXLSX(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}
	defer book.Close() //nolint:errcheck // read-only

	rows, err := book.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s: %w", SheetName, err)
	}
	return rows, nil
}
