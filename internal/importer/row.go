package importer

import (
	"fmt"
	"time"
)

// RowOutcome is the result of processing one raw row.
type RowOutcome struct {
	Data          map[string]any `json:"data"`
	Valid         bool           `json:"is_valid"`
	Errors        []string       `json:"errors"`
	OriginalIndex int            `json:"original_index"`
}

// yearMonth is a derived year/month bucket for a coerced date string.
type yearMonth struct {
	Year  int
	Month string
}

var spanishMonths = [...]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// processRow applies the schema to one raw row. Required fields that do not
// resolve, and number fields that do not parse, append errors; the remaining
// fields are still populated so the operator can review a rejected row. A
// panic degrades the row to invalid instead of aborting the batch.
func (p *Processor) processRow(row []any, headers []string, schema []FieldSpec, ledgerType string, dates map[string]yearMonth, now time.Time) (outcome RowOutcome) {
	outcome = RowOutcome{Data: map[string]any{}, Errors: []string{}}
	defer func() {
		if r := recover(); r != nil {
			outcome.Valid = false
			outcome.Errors = []string{"Error inesperado al procesar la fila"}
		}
	}()

	for _, field := range schema {
		cell := Resolve(row, headers, field)
		if cell == nil {
			if field.Required {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("Falta %s", field.Label))
			} else {
				// Known absent, as opposed to unmapped.
				outcome.Data[field.Name] = nil
			}
			continue
		}

		switch field.Type {
		case TypeDate:
			key := toDateString(cell, now)
			outcome.Data[field.Name] = key
			if ym, ok := dates[key]; ok {
				outcome.Data["year"] = ym.Year
				outcome.Data["mes"] = ym.Month
			}
		case TypeNumber:
			n, ok := ToNumber(cell)
			if !ok {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s debe ser un número válido", field.Label))
				continue
			}
			outcome.Data[field.Name] = n
		default:
			outcome.Data[field.Name] = ToString(cell)
		}
	}

	switch ledgerType {
	case LedgerPayroll:
		outcome.Data["total"] = num(outcome.Data["valor_neto"]) + num(outcome.Data["iva"]) - num(outcome.Data["retencion"])
	case LedgerExpenses:
		outcome.Data["total"] = num(outcome.Data["valor"]) + num(outcome.Data["iva"])
	}

	outcome.Valid = len(outcome.Errors) == 0
	return outcome
}

// num reads an already-coerced numeric field, treating absent values as zero.
func num(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}
