package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	apperrors "timecardcli/internal/errors"
	"timecardcli/pkg/contracts/domain"
)

// maxConcurrentLoads caps how many workbooks are decoded at once
const maxConcurrentLoads = 4

// ParseFile reads a timecard workbook and returns its rows in sheet order.
//
// The first non-blank row is the header; columns are located by header name.
// Cells are read raw, so date columns yield their serial numbers rather than
// display text. Blank rows are dropped. Missing columns are not an error:
// the affected fields are simply absent on every row.
func ParseFile(filePath string, opts ParseOptions) ([]domain.TimecardRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewInputLoadError(fmt.Sprintf("failed to open workbook %s", filePath), err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewInputLoadError(fmt.Sprintf("workbook %s has no sheets", filePath), nil)
		}
		sheetName = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx == -1 {
		return nil, apperrors.NewInputLoadError(fmt.Sprintf("workbook %s", filePath),
			apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", sheetName)))
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewInputLoadError(fmt.Sprintf("failed to read sheet %q of %s", sheetName, filePath), err)
	}

	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		slog.Warn("Timecard sheet is empty",
			slog.String("file", filePath),
			slog.String("sheet", sheetName))
		return nil, nil
	}

	columnMap := make(map[string]int)
	for j, header := range rows[headerRow] {
		key := strings.ToLower(strings.TrimSpace(header))
		if _, exists := columnMap[key]; !exists && key != "" {
			columnMap[key] = j
		}
	}

	lookup := func(name string) int {
		if idx, ok := columnMap[strings.ToLower(strings.TrimSpace(name))]; ok {
			return idx
		}
		slog.Warn("Timecard column not found",
			slog.String("file", filePath),
			slog.String("sheet", sheetName),
			slog.String("column", name))
		return -1
	}
	employeeCol := lookup(opts.EmployeeColumn)
	timeOutCol := lookup(opts.TimeOutColumn)
	timeCol := lookup(opts.TimeColumn)
	hoursCol := lookup(opts.HoursColumn)

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	base := filepath.Base(filePath)
	var records []domain.TimecardRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		record := domain.TimecardRow{
			EmployeeName: cell(row, employeeCol),
			SourceFile:   base,
			SourceRow:    i + 1,
		}

		var err error
		if record.TimeOut, err = dateCell(f, sheetName, timeOutCol, i, cell(row, timeOutCol)); err != nil {
			return nil, apperrors.NewInputLoadError(fmt.Sprintf("failed to read sheet %q of %s", sheetName, filePath), err)
		}
		if record.Time, err = dateCell(f, sheetName, timeCol, i, cell(row, timeCol)); err != nil {
			return nil, apperrors.NewInputLoadError(fmt.Sprintf("failed to read sheet %q of %s", sheetName, filePath), err)
		}

		if hours := cell(row, hoursCol); hours != "" {
			textual, err := isTextCell(f, sheetName, hoursCol, i)
			if err != nil {
				return nil, apperrors.NewInputLoadError(fmt.Sprintf("failed to read sheet %q of %s", sheetName, filePath), err)
			}
			if textual {
				record.HoursText = domain.Hours(hours)
			}
		}

		records = append(records, record)
	}

	slog.Debug("Timecard sheet parsed",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow+1),
		slog.Int("rows", len(records)))

	return records, nil
}

// LoadFiles parses several workbooks concurrently and concatenates their rows
// in the order of paths. Any failure aborts the whole load.
func LoadFiles(ctx context.Context, paths []string, opts ParseOptions) ([]domain.TimecardRow, error) {
	results := make([][]domain.TimecardRow, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := ParseFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	all := make([]domain.TimecardRow, 0, total)
	for _, rows := range results {
		all = append(all, rows...)
	}
	return all, nil
}

// dateCell returns the raw text of a date cell. Boolean cells are stored as
// 1 or 0, which would read as a serial, so they are returned as TRUE or FALSE
// and fail date conversion.
func dateCell(f *excelize.File, sheet string, col, row int, raw string) (string, error) {
	if raw == "" {
		return raw, nil
	}
	cellType, err := cellTypeAt(f, sheet, col, row)
	if err != nil {
		return "", err
	}
	if cellType != excelize.CellTypeBool {
		return raw, nil
	}
	if raw == "1" {
		return "TRUE", nil
	}
	return "FALSE", nil
}

// isTextCell reports whether the cell at zero-based (col, row) holds a string,
// including a formula whose cached result is a string.
func isTextCell(f *excelize.File, sheet string, col, row int) (bool, error) {
	cellType, err := cellTypeAt(f, sheet, col, row)
	if err != nil {
		return false, err
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true, nil
	}
	return false, nil
}

func cellTypeAt(f *excelize.File, sheet string, col, row int) (excelize.CellType, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return excelize.CellTypeUnset, err
	}
	return f.GetCellType(sheet, axis)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
