package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/importer"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseGrid(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"},
		{"F1", "2024-01-10", "ACME", "Consulting", "900123456", 1000, 190},
		{"", "", "", "", "", "", ""},
		{"F2", "2024-01-12", "Beta", "Hosting", "900654321", 500, 95},
	})

	svc := NewExcelService()
	grid, err := svc.ParseGrid(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"}, grid.Headers)
	require.Len(t, grid.Rows, 2, "fully blank rows are excluded")
	assert.Equal(t, "F1", grid.Rows[0][0])
	assert.Equal(t, "2024-01-10", grid.Rows[0][1])
	assert.Equal(t, float64(1000), grid.Rows[0][5], "numeric cells are typed")
}

func TestParseGridFeedsPipeline(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"},
		{"F1", "2024-01-10", "ACME", "Consulting", "900123456", 1000, 190},
		{"F2", "", "ACME", "X", "900123456", 500, 0},
	})

	svc := NewExcelService()
	grid, err := svc.ParseGrid(path, "")
	require.NoError(t, err)

	result := importer.NewProcessor().Run(grid, importer.LedgerExpenses)
	require.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.ValidCount)
	assert.Equal(t, float64(1190), result.Summary.TotalAmount)
}

func TestParseGridMissingFile(t *testing.T) {
	svc := NewExcelService()
	_, err := svc.ParseGrid(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"fecha", "origen", "destino", "valor"},
		{"2024-03-01", "A", "B", 100},
		{"2024-03-02", "A", "C", 200},
	})

	svc := NewExcelService()
	sheets, err := svc.ListSheets(path)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	assert.Equal(t, "Sheet1", sheets[0].Name)
	assert.Equal(t, 2, sheets[0].RowCount)
	assert.Equal(t, []string{"fecha", "origen", "destino", "valor"}, sheets[0].Headers)
}

func TestGenerateTemplate(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "plantilla.xlsx")
	require.NoError(t, svc.GenerateTemplate(importer.LedgerExpenses, path))

	sheets, err := svc.ListSheets(path)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	want := []string{}
	for _, field := range importer.SchemaFor(importer.LedgerExpenses) {
		want = append(want, field.Name)
	}
	assert.Equal(t, want, sheets[0].Headers)

	assert.Error(t, svc.GenerateTemplate("inventory", path))
}

func TestExportErrorReport(t *testing.T) {
	grid := importer.Grid{
		Headers: []string{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"},
		Rows: [][]any{
			{"F2", "", "ACME", "X", "900123456", 500, 0},
		},
	}
	result := importer.NewProcessor().Run(grid, importer.LedgerExpenses)
	require.Equal(t, 1, result.InvalidCount)

	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "errores.xlsx")
	require.NoError(t, svc.ExportErrorReport(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Filas rechazadas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "Falta Fecha")
}
