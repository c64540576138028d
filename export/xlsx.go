// Package export writes verification records to xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mailscope/mailscope"
)

// Filename is the download name suggested for exported workbooks.
const Filename = "email-validation-results.xlsx"

// DefaultSheet is used when no sheet name is given.
const DefaultSheet = "Results"

var header = []string{
	"Email",
	"Format Valid",
	"Domain Exists",
	"MX Records",
	"SPF",
	"DKIM",
	"DMARC",
	"SMTP",
	"Blacklisted",
}

// Write renders the records as a single-sheet workbook: one header row, one
// row per record, columns in the fixed header order. Booleans are written as
// TRUE/FALSE cell values.
func Write(w io.Writer, sheet string, records []mailscope.Record) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("export: drop default sheet: %w", err)
		}
	}

	if err := writeRow(f, sheet, 1, headerCells()); err != nil {
		return err
	}
	for i, rec := range records {
		cells := []interface{}{
			rec.Email,
			rec.FormatValid,
			rec.DomainExists,
			rec.MXRecords,
			rec.SPF,
			rec.DKIM,
			rec.DMARC,
			rec.SMTP,
			rec.Blacklisted,
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// Read parses a workbook produced by Write back into records. It reads the
// first sheet and skips the header row. Used by tests and by tooling that
// post-processes exported results.
func Read(r io.Reader) ([]mailscope.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("export: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("export: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]mailscope.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		rec := mailscope.Record{Email: row[0]}
		flags := []*bool{
			&rec.FormatValid,
			&rec.DomainExists,
			&rec.MXRecords,
			&rec.SPF,
			&rec.DKIM,
			&rec.DMARC,
			&rec.SMTP,
			&rec.Blacklisted,
		}
		for i, flag := range flags {
			col := i + 1
			if col < len(row) {
				*flag = parseBool(row[col])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func headerCells() []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
