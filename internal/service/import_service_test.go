package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/importer"
)

func TestTableFor(t *testing.T) {
	assert.Equal(t, "nomina", TableFor(importer.LedgerPayroll))
	assert.Equal(t, "facturacion", TableFor(importer.LedgerExpenses))
	assert.Equal(t, "traslados", TableFor(importer.LedgerTransfers))
	assert.Equal(t, "", TableFor("inventory"))
}

func reviewedBatch() importer.BatchResult {
	grid := importer.Grid{
		Headers: []string{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"},
		Rows: [][]any{
			{"F1", "2024-01-10", "ACME", "Consulting", "900123456", 1000, 190},
			{"F2", "", "ACME", "X", "900123456", 500, 0},
			{"F3", "2024-01-12", "Beta", "Y", "900654321", 200, 0},
		},
	}
	return importer.NewProcessor().Run(grid, importer.LedgerExpenses)
}

func TestSelectRowsDefaultsToValidOnly(t *testing.T) {
	result := reviewedBatch()

	rows := SelectRows(result, nil, false)
	require.Len(t, rows, 2)
	assert.Equal(t, "F1", rows[0]["numero_facturacion"])
	assert.Equal(t, "F3", rows[1]["numero_facturacion"])
}

func TestSelectRowsByIndex(t *testing.T) {
	result := reviewedBatch()

	rows := SelectRows(result, []int{2}, false)
	require.Len(t, rows, 1)
	assert.Equal(t, "F3", rows[0]["numero_facturacion"])

	// Selecting an invalid row without forcing it yields nothing.
	rows = SelectRows(result, []int{1}, false)
	assert.Empty(t, rows)
}

func TestSelectRowsForceInvalid(t *testing.T) {
	result := reviewedBatch()

	rows := SelectRows(result, []int{0, 1}, true)
	require.Len(t, rows, 2)
	assert.Equal(t, "F2", rows[1]["numero_facturacion"], "forced invalid row keeps its partial data")
}
