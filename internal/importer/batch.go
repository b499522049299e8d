package importer

import (
	"fmt"
	"time"
)

// Grid is the raw spreadsheet input: one header row plus data rows. Cells are
// strings, numbers, dates or nil, exactly as the workbook parser produced
// them. Headers are kept raw so positions stay aligned 1:1 with the sheet.
type Grid struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// Summary aggregates the valid rows of one import run.
type Summary struct {
	TotalAmount float64        `json:"total_amount"`
	DateFrom    string         `json:"date_from"`
	DateTo      string         `json:"date_to"`
	Distinct    map[string]int `json:"distinct"`
}

// BatchResult is the full output of one import run. Rows holds every outcome
// in original sheet order; ValidRows and InvalidRows are the same outcomes
// partitioned for review. Invalid rows keep whatever fields could be
// resolved, so the caller can inspect them and selectively force-import.
type BatchResult struct {
	LedgerType   string       `json:"ledger_type"`
	TotalRows    int          `json:"total_rows"`
	ValidCount   int          `json:"valid_count"`
	InvalidCount int          `json:"invalid_count"`
	Rows         []RowOutcome `json:"rows"`
	ValidRows    []RowOutcome `json:"valid_rows"`
	InvalidRows  []RowOutcome `json:"invalid_rows"`
	Summary      Summary      `json:"summary"`
}

// Processor runs the import normalization pipeline. Now is the clock used for
// the unparsable-date fallback; tests pin it for determinism.
type Processor struct {
	Now func() time.Time
}

func NewProcessor() *Processor {
	return &Processor{Now: time.Now}
}

// Run executes one import over the grid. It never fails: malformed rows come
// back invalid, and an unknown ledger type yields an empty schema so every
// row passes through unmapped.
func (p *Processor) Run(grid Grid, ledgerType string) BatchResult {
	rows := dropBlankRows(grid.Rows)
	schema := SchemaFor(ledgerType)
	now := p.Now()

	// The date lookup is built fully before any row processing so every row
	// derives year/mes from the same map, even when raw formats differ.
	dates := buildDateLookup(rows, grid.Headers, schema, now)

	result := BatchResult{
		LedgerType: ledgerType,
		TotalRows:  len(rows),
		Rows:       make([]RowOutcome, 0, len(rows)),
		Summary:    Summary{Distinct: map[string]int{}},
	}

	dateField := primaryDateField(schema)
	dimension := distinctDimension(ledgerType)
	distinct := map[string]map[string]struct{}{}

	for i, row := range rows {
		outcome := p.processRow(row, grid.Headers, schema, ledgerType, dates, now)
		outcome.OriginalIndex = i
		result.Rows = append(result.Rows, outcome)

		if !outcome.Valid {
			result.InvalidRows = append(result.InvalidRows, outcome)
			result.InvalidCount++
			continue
		}
		result.ValidRows = append(result.ValidRows, outcome)
		result.ValidCount++

		for _, field := range schema {
			if field.IsAmount {
				result.Summary.TotalAmount += num(outcome.Data[field.Name])
			}
		}
		if dateField != "" {
			if d, ok := outcome.Data[dateField].(string); ok && d != "" {
				if result.Summary.DateFrom == "" || d < result.Summary.DateFrom {
					result.Summary.DateFrom = d
				}
				if d > result.Summary.DateTo {
					result.Summary.DateTo = d
				}
			}
		}
		for _, dim := range []string{dimension, "year", "mes"} {
			if dim == "" {
				continue
			}
			v, ok := outcome.Data[dim]
			if !ok || v == nil {
				continue
			}
			if distinct[dim] == nil {
				distinct[dim] = map[string]struct{}{}
			}
			distinct[dim][fmt.Sprint(v)] = struct{}{}
		}
	}

	for dim, values := range distinct {
		result.Summary.Distinct[dim] = len(values)
	}
	return result
}

// buildDateLookup resolves every date-typed cell in the sheet and records its
// year and uppercase Spanish month name, keyed by the coerced date string.
func buildDateLookup(rows [][]any, headers []string, schema []FieldSpec, now time.Time) map[string]yearMonth {
	lookup := make(map[string]yearMonth)
	for _, row := range rows {
		for _, field := range schema {
			if field.Type != TypeDate {
				continue
			}
			cell := Resolve(row, headers, field)
			if cell == nil {
				continue
			}
			key := toDateString(cell, now)
			if _, seen := lookup[key]; seen {
				continue
			}
			if t, err := time.Parse(dateLayout, key); err == nil {
				lookup[key] = yearMonth{Year: t.Year(), Month: spanishMonths[int(t.Month())-1]}
			}
		}
	}
	return lookup
}

func dropBlankRows(rows [][]any) [][]any {
	kept := make([][]any, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if nonEmpty(cell) != nil {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
