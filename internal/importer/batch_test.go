package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProcessor() *Processor {
	return &Processor{Now: func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func expensesGrid() Grid {
	return Grid{
		Headers: []string{"numero_facturacion", "fecha", "cliente", "servicio", "nit", "valor", "iva"},
		Rows: [][]any{
			{"F1", "2024-01-10", "ACME", "Consulting", "900123456", 1000, 190},
			{"F2", "", "ACME", "X", "900123456", 500, 0},
			{"F3", "2024-01-12", "", "Y", "900123456", 200, 0},
		},
	}
}

func TestRunExpensesScenario(t *testing.T) {
	result := fixedProcessor().Run(expensesGrid(), LedgerExpenses)

	require.Equal(t, 3, result.TotalRows)
	require.Equal(t, 1, result.ValidCount)
	require.Equal(t, 2, result.InvalidCount)
	require.Len(t, result.Rows, 3)

	first := result.Rows[0]
	assert.True(t, first.Valid)
	assert.Equal(t, 0, first.OriginalIndex)
	assert.Equal(t, "2024-01-10", first.Data["fecha"])
	assert.Equal(t, "ACME", first.Data["cliente"])
	assert.Equal(t, float64(1190), first.Data["total"])
	assert.Equal(t, 2024, first.Data["year"])
	assert.Equal(t, "ENERO", first.Data["mes"])

	second := result.Rows[1]
	assert.False(t, second.Valid)
	assert.Equal(t, []string{"Falta Fecha"}, second.Errors)
	assert.Equal(t, "ACME", second.Data["cliente"], "rejected rows keep resolvable fields")

	third := result.Rows[2]
	assert.False(t, third.Valid)
	assert.Equal(t, []string{"Falta Cliente"}, third.Errors)

	assert.Equal(t, float64(1190), result.Summary.TotalAmount, "only valid rows count")
	assert.Equal(t, "2024-01-10", result.Summary.DateFrom)
	assert.Equal(t, "2024-01-10", result.Summary.DateTo)
	assert.Equal(t, 1, result.Summary.Distinct["cliente"])
	assert.Equal(t, 1, result.Summary.Distinct["year"])
	assert.Equal(t, 1, result.Summary.Distinct["mes"])
}

func TestRunIsDeterministic(t *testing.T) {
	p := fixedProcessor()
	first := p.Run(expensesGrid(), LedgerExpenses)
	second := p.Run(expensesGrid(), LedgerExpenses)
	assert.Equal(t, first, second)
}

func TestRunRowCountInvariant(t *testing.T) {
	grid := expensesGrid()
	grid.Rows = append(grid.Rows, []any{"", "", nil, "  ", "", nil, ""}) // fully blank, excluded

	result := fixedProcessor().Run(grid, LedgerExpenses)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, result.TotalRows, result.ValidCount+result.InvalidCount)
	assert.Equal(t, result.TotalRows, len(result.Rows))
}

func TestRunPayrollDerivedTotal(t *testing.T) {
	grid := Grid{
		Headers: []string{"fecha", "proveedor", "concepto", "nit", "valor_neto", "iva", "retencion"},
		Rows: [][]any{
			{"2024-02-05", "Servicios SAS", "Honorarios", "800111222", 2000, 380, 200},
		},
	}

	result := fixedProcessor().Run(grid, LedgerPayroll)
	require.Equal(t, 1, result.ValidCount)

	row := result.Rows[0]
	assert.Equal(t, float64(2180), row.Data["total"])
	assert.Equal(t, 2024, row.Data["year"])
	assert.Equal(t, "FEBRERO", row.Data["mes"])
	assert.Equal(t, 1, result.Summary.Distinct["proveedor"])
}

func TestRunPayrollMissingAddendsTreatedAsZero(t *testing.T) {
	grid := Grid{
		Headers: []string{"fecha", "proveedor", "concepto", "nit", "valor_neto", "iva", "retencion"},
		Rows: [][]any{
			{"2024-02-05", "Servicios SAS", "", "", 2000, "", ""},
		},
	}

	result := fixedProcessor().Run(grid, LedgerPayroll)
	require.True(t, result.Rows[0].Valid)
	assert.Equal(t, float64(2000), result.Rows[0].Data["total"])
	assert.Nil(t, result.Rows[0].Data["iva"], "known absent optional field is an explicit nil")
}

func TestRunTransfersHasNoDerivedTotal(t *testing.T) {
	grid := Grid{
		Headers: []string{"fecha", "origen", "destino", "valor", "saldo", "observaciones"},
		Rows: [][]any{
			{"2024-03-01", "Cuenta A", "Cuenta B", 150000, 2000000, "traslado mensual"},
		},
	}

	result := fixedProcessor().Run(grid, LedgerTransfers)
	require.Equal(t, 1, result.ValidCount)

	_, hasTotal := result.Rows[0].Data["total"]
	assert.False(t, hasTotal)
	assert.Equal(t, float64(150000), result.Summary.TotalAmount)
	assert.Equal(t, 1, result.Summary.Distinct["origen"])
}

func TestRunInvalidNumberIsFlagged(t *testing.T) {
	grid := expensesGrid()
	grid.Rows = [][]any{
		{"F9", "2024-01-10", "ACME", "Z", "900123456", "no aplica", 0},
	}

	result := fixedProcessor().Run(grid, LedgerExpenses)
	row := result.Rows[0]
	assert.False(t, row.Valid)
	assert.Contains(t, row.Errors, "Valor debe ser un número válido")
	_, assigned := row.Data["valor"]
	assert.False(t, assigned, "unparsable number is not assigned")
}

func TestRunUnknownLedgerFailsOpen(t *testing.T) {
	result := fixedProcessor().Run(expensesGrid(), "inventory")

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.ValidCount, "empty schema resolves nothing and rejects nothing")
	for _, row := range result.Rows {
		assert.True(t, row.Valid)
		assert.Empty(t, row.Data)
	}
}

func TestRunSharedDateLookupAcrossFormats(t *testing.T) {
	// Two raw encodings of the same calendar date coerce to one lookup key.
	grid := Grid{
		Headers: []string{"fecha", "origen", "destino", "valor", "saldo", "observaciones"},
		Rows: [][]any{
			{"2024-03-01", "A", "B", 10, "", ""},
			{"01/03/2024", "A", "C", 20, "", ""},
		},
	}

	result := fixedProcessor().Run(grid, LedgerTransfers)
	require.Equal(t, 2, result.ValidCount)
	assert.Equal(t, "2024-03-01", result.Rows[1].Data["fecha"])
	assert.Equal(t, 1, result.Summary.Distinct["mes"])
	assert.Equal(t, "MARZO", result.Rows[0].Data["mes"])
}
