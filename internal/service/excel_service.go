package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/importer"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParseGrid reads one sheet of a workbook into the raw grid consumed by the
// import pipeline. The first row becomes the header row, kept untouched so
// column positions stay aligned with the sheet; fully blank data rows are
// dropped. An empty sheetName selects the first sheet.
func (s *ExcelService) ParseGrid(filePath, sheetName string) (importer.Grid, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return importer.Grid{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return importer.Grid{}, fmt.Errorf("no sheets found in workbook")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return importer.Grid{}, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return importer.Grid{}, fmt.Errorf("sheet %s is empty", sheetName)
	}

	grid := importer.Grid{Headers: rows[0]}
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		blank := true
		for i, raw := range row {
			cells[i] = cellValue(raw)
			if strings.TrimSpace(raw) != "" {
				blank = false
			}
		}
		if !blank {
			grid.Rows = append(grid.Rows, cells)
		}
	}
	return grid, nil
}

// cellValue types a raw cell string. Numeric content becomes float64 so that
// legacy serial dates and amounts coerce correctly downstream; everything
// else stays a string.
func cellValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return raw
}

// ListSheets returns each sheet's name, data row count and header labels, so
// a user can pick which sheet of a workbook to import.
func (s *ExcelService) ListSheets(filePath string) ([]models.SheetInfo, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var infos []models.SheetInfo
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		info := models.SheetInfo{Name: name, Headers: []string{}}
		if len(rows) > 0 {
			info.Headers = rows[0]
			info.RowCount = len(rows) - 1
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GenerateTemplate creates an empty workbook with the expected column order
// for a ledger type.
func (s *ExcelService) GenerateTemplate(ledgerType, outputPath string) error {
	schema := importer.SchemaFor(ledgerType)
	if len(schema) == 0 {
		return fmt.Errorf("unknown ledger type: %s", ledgerType)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Datos"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, field := range schema {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, field.Name)
		f.SetColWidth(sheetName, columnName(i), columnName(i), 18)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(schema)-1)), headerStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// ExportErrorReport writes the rejected rows of a batch to a workbook for
// operator review: one column per schema field plus the error messages.
func (s *ExcelService) ExportErrorReport(result importer.BatchResult, outputPath string) error {
	schema := importer.SchemaFor(result.LedgerType)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Filas rechazadas"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"fila"}
	for _, field := range schema {
		headers = append(headers, field.Name)
	}
	headers = append(headers, "errores")
	for i, header := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", columnName(i)), header)
	}

	for rowIdx, outcome := range result.InvalidRows {
		row := rowIdx + 2
		values := []interface{}{outcome.OriginalIndex + 1}
		for _, field := range schema {
			values = append(values, outcome.Data[field.Name])
		}
		values = append(values, strings.Join(outcome.Errors, "; "))
		for colIdx, value := range values {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columnName(colIdx), row), value)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(headers)-1)), headerStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

func columnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
